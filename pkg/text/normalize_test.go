package text

import "testing"

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  تصاميم  وطنية ", "تصاميم وطنية"},
		{"Anime\t Designs", "anime designs"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEqualFoldMatchesSpacedArabicLabels(t *testing.T) {
	if !EqualFold("تصاميم  وطنية ", "تصاميم وطنية") {
		t.Fatal("expected labels to match after normalization")
	}
	if EqualFold("تصاميم وطنية", "تصاميم أنمي") {
		t.Fatal("different labels must not match")
	}
}

func TestEqualDecodedHandlesEncodedArabic(t *testing.T) {
	encoded := "%D8%AA%D8%B5%D8%A7%D9%85%D9%8A%D9%85+%D9%88%D8%B7%D9%86%D9%8A%D8%A9"
	if !EqualDecoded(encoded, "تصاميم وطنية") {
		t.Fatal("expected URL-encoded label to match after decoding")
	}
	if !EqualDecoded("plain", "Plain") {
		t.Fatal("decode fallback should still normalize")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Special Occasions", "special-occasions"},
		{"رياضة وكرة قدم", "رياضة-وكرة-قدم"},
		{"  Modern   Designs!!", "modern-designs"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
