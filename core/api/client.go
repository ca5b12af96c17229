package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client is the HTTP client for the meditation API. Higher-level clients
// (catalog, session tracker, auth) build their operations on top of it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authorizer Authorizer
}

// NewClient creates a client for the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: time.Second * 30,
		},
	}
}

// SetAuthorizer installs the admin authorization strategy. Requests issued
// with authed=true pass through it; unauthenticated requests never do.
func (c *Client) SetAuthorizer(a Authorizer) {
	c.authorizer = a
}

// SetTimeout overrides the request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// Get issues an unauthenticated GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, action, path string, out interface{}) error {
	return c.do(ctx, action, http.MethodGet, path, "", nil, out, false)
}

// GetAuthed issues an authorized GET and decodes the JSON response into out.
func (c *Client) GetAuthed(ctx context.Context, action, path string, out interface{}) error {
	return c.do(ctx, action, http.MethodGet, path, "", nil, out, true)
}

// Post issues a POST with a JSON body. out may be nil when the response
// body is not needed.
func (c *Client) Post(ctx context.Context, action, path string, in, out interface{}, authed bool) error {
	body, err := encodeJSON(action, in)
	if err != nil {
		return err
	}
	return c.do(ctx, action, http.MethodPost, path, "application/json", body, out, authed)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, action, path string, in interface{}, authed bool) error {
	body, err := encodeJSON(action, in)
	if err != nil {
		return err
	}
	return c.do(ctx, action, http.MethodPatch, path, "application/json", body, nil, authed)
}

// Delete issues a DELETE with no body.
func (c *Client) Delete(ctx context.Context, action, path string, authed bool) error {
	return c.do(ctx, action, http.MethodDelete, path, "", nil, nil, authed)
}

// Upload issues a multipart POST with a single file field.
func (c *Client) Upload(ctx context.Context, action, path, field, filename string, file io.Reader, authed bool) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return &NetworkError{Action: action, Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return &NetworkError{Action: action, Err: err}
	}
	if err := writer.Close(); err != nil {
		return &NetworkError{Action: action, Err: err}
	}

	return c.do(ctx, action, http.MethodPost, path, writer.FormDataContentType(), &buf, nil, authed)
}

func encodeJSON(action string, in interface{}) (io.Reader, error) {
	if in == nil {
		return nil, nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, &NetworkError{Action: action, Err: err}
	}
	return bytes.NewReader(data), nil
}

// do performs one request. Non-2xx responses become a *RequestFailure with
// the server's detail text when the body carries one; transport failures
// become a *NetworkError.
func (c *Client) do(ctx context.Context, action, method, path, contentType string, body io.Reader, out interface{}, authed bool) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &NetworkError{Action: action, Err: err}
	}

	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed && c.authorizer != nil {
		c.authorizer.Apply(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Action: action, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestFailure{
			Action: action,
			Status: resp.StatusCode,
			Detail: decodeDetail(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &NetworkError{Action: action, Err: err}
		}
	}
	return nil
}

// decodeDetail extracts the server error message from a {"detail": ...}
// body. A missing or malformed body yields an empty string.
func decodeDetail(body io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Detail
}
