package gcs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Object describes a stored file in the bucket listing.
type Object struct {
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	Updated     time.Time `json:"updated"`
}

// Upload writes the payload to the default bucket under objectName and
// returns a token-authenticated public URL. The download token rides in
// object metadata so previously issued URLs stay valid across re-uploads
// only when the token is preserved.
func (c *Client) Upload(ctx context.Context, objectName, contentType string, payload []byte) (string, error) {
	if c == nil || c.tokenSource == nil {
		return "", errors.New("gcs client not initialized")
	}
	objectName = strings.TrimLeft(strings.TrimSpace(objectName), "/")
	if objectName == "" {
		return "", errors.New("object name is required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return "", err
	}

	downloadToken := uuid.NewString()
	meta := map[string]any{
		"name":        objectName,
		"contentType": contentType,
		"metadata": map[string]string{
			"firebaseStorageDownloadTokens": downloadToken,
		},
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return "", err
	}
	if _, err := metaPart.Write(metaBytes); err != nil {
		return "", err
	}

	dataHeader := textproto.MIMEHeader{}
	dataHeader.Set("Content-Type", contentType)
	dataPart, err := writer.CreatePart(dataHeader)
	if err != nil {
		return "", err
	}
	if _, err := dataPart.Write(payload); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	u := fmt.Sprintf(
		"https://storage.googleapis.com/upload/storage/v1/b/%s/o?uploadType=multipart",
		url.PathEscape(c.defaultBucket),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("gcs upload failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	return c.publicURL(objectName, downloadToken), nil
}

// List returns the objects stored under prefix in the default bucket.
func (c *Client) List(ctx context.Context, prefix string) ([]Object, error) {
	if c == nil || c.tokenSource == nil {
		return nil, errors.New("gcs client not initialized")
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if prefix != "" {
		query.Set("prefix", prefix)
	}
	u := fmt.Sprintf(
		"https://storage.googleapis.com/storage/v1/b/%s/o?%s",
		url.PathEscape(c.defaultBucket),
		query.Encode(),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("gcs list failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var listing struct {
		Items []struct {
			Name        string `json:"name"`
			ContentType string `json:"contentType"`
			Size        string `json:"size"`
			Updated     string `json:"updated"`
			Metadata    struct {
				DownloadTokens string `json:"firebaseStorageDownloadTokens"`
			} `json:"metadata"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, err
	}

	objects := make([]Object, 0, len(listing.Items))
	for _, item := range listing.Items {
		obj := Object{
			Name:        item.Name,
			ContentType: item.ContentType,
			URL:         c.publicURL(item.Name, firstToken(item.Metadata.DownloadTokens)),
		}
		fmt.Sscan(item.Size, &obj.Size)
		if ts, err := time.Parse(time.RFC3339, item.Updated); err == nil {
			obj.Updated = ts
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func (c *Client) publicURL(objectName, downloadToken string) string {
	base := fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media",
		url.PathEscape(c.defaultBucket),
		url.PathEscape(objectName),
	)
	if downloadToken == "" {
		return base
	}
	return base + "&token=" + url.QueryEscape(downloadToken)
}

func firstToken(tokens string) string {
	if idx := strings.IndexByte(tokens, ','); idx >= 0 {
		return tokens[:idx]
	}
	return tokens
}
