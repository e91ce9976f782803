package uploader

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/filedrop/service/internal/files"
)

// APIError is a non-success response from the filedrop API.
type APIError struct {
	StatusCode int
	Message    string
	Details    json.RawMessage
}

func (e *APIError) Error() string {
	return e.Message
}

// UploadTarget is the Issuer's answer in direct mode.
type UploadTarget struct {
	SignedURL string    `json:"signedUrl"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	PublicURL string    `json:"publicUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// InlineUpload is the Issuer's answer in inline mode.
type InlineUpload struct {
	Success   bool   `json:"success"`
	Path      string `json:"path"`
	PublicURL string `json:"publicUrl"`
}

// RecordRequest is the body of POST /files.
type RecordRequest struct {
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
	FileSize *int64 `json:"file_size,omitempty"`
}

// FileList is the body of GET /files.
type FileList struct {
	Files []files.FileRecord `json:"files"`
	Count int                `json:"count"`
}

// Client talks to the filedrop HTTP API. BaseURL includes the version
// prefix, e.g. "http://localhost:8080/api/v1".
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client. A nil httpClient means http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// RequestUploadTarget asks the Issuer for a signed write URL for name.
func (c *Client) RequestUploadTarget(ctx context.Context, name string) (*UploadTarget, error) {
	var out UploadTarget
	if err := c.do(ctx, http.MethodPost, "/upload-url", map[string]string{"fileName": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadInline sends data base64-encoded for the server to store.
func (c *Client) UploadInline(ctx context.Context, name string, data []byte, contentType string) (*InlineUpload, error) {
	body := map[string]string{
		"fileName": name,
		"fileData": base64.StdEncoding.EncodeToString(data),
		"fileType": contentType,
	}
	var out InlineUpload
	if err := c.do(ctx, http.MethodPost, "/upload-url", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecordFile calls the Metadata Recorder.
func (c *Client) RecordFile(ctx context.Context, req RecordRequest) (*files.FileRecord, error) {
	var out struct {
		Message string            `json:"message"`
		Data    *files.FileRecord `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/files", req, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ListFiles calls the Metadata Lister.
func (c *Client) ListFiles(ctx context.Context) (*FileList, error) {
	var out FileList
	if err := c.do(ctx, http.MethodGet, "/files", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Error   string          `json:"error"`
		Details json.RawMessage `json:"details"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Details = body.Details
		return apiErr
	}

	apiErr.Message = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	if text := strings.TrimSpace(string(raw)); text != "" {
		apiErr.Message += ": " + text
	}
	return apiErr
}
