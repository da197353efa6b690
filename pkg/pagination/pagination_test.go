package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-4); got != DefaultLimit {
		t.Fatalf("expected default limit for negative input, got %d", got)
	}
	if got := NormalizeLimit(MaxLimit + 50); got != MaxLimit {
		t.Fatalf("expected max limit cap, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected passthrough, got %d", got)
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("expected buffered limit 11, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	cursor := Cursor{
		CreatedAt: time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC),
		ID:        uuid.New(),
	}

	encoded := EncodeCursor(cursor)
	parsed, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if parsed == nil {
		t.Fatal("expected cursor, got nil")
	}
	if !parsed.CreatedAt.Equal(cursor.CreatedAt) {
		t.Fatalf("timestamp mismatch: %v vs %v", parsed.CreatedAt, cursor.CreatedAt)
	}
	if parsed.ID != cursor.ID {
		t.Fatalf("id mismatch: %s vs %s", parsed.ID, cursor.ID)
	}
}

func TestParseCursorErrors(t *testing.T) {
	if cursor, err := ParseCursor("  "); err != nil || cursor != nil {
		t.Fatalf("blank cursor should be nil/nil, got %v %v", cursor, err)
	}
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := ParseCursor("aGVsbG8="); err == nil {
		t.Fatal("expected format error")
	}
}
