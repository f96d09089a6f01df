package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"discord-uploader/domain/upload"

	"github.com/imroc/req/v3"
)

// APIKeyHeader is the header the webhook server reads its optional API key from
const APIKeyHeader = "X-API-Key"

// Client implements upload.Sender using an imroc/req HTTP client
type Client struct {
	http   *req.Client
	apiKey string
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom req client (for testing)
func WithHTTPClient(c *req.Client) ClientOption {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithAPIKey sends key in the X-API-Key header on every request
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout bounds each request; zero keeps the client default
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// NewClient creates a new webhook client.
// Response bodies are returned as sent; charset decoding is disabled.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http: req.C().DisableAutoDecode().SetUserAgent("discord-uploader"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Send posts the shaped request to endpoint.
// Non-200 statuses are not errors here; an error means no response was received.
func (c *Client) Send(ctx context.Context, endpoint string, r *upload.Request) (*upload.Response, error) {
	hr := c.http.R().SetContext(ctx)
	if c.apiKey != "" {
		hr.SetHeader(APIKeyHeader, c.apiKey)
	}

	if r.IsMultipart() {
		part := r.File
		content := part.Content
		hr.SetFileUpload(req.FileUpload{
			ParamName:   part.FieldName,
			FileName:    part.FileName,
			ContentType: part.ContentType,
			FileSize:    int64(len(content)),
			GetFileContent: func() (io.ReadCloser, error) {
				return io.NopCloser(bytes.NewReader(content)), nil
			},
		})
	} else {
		hr.SetBodyJsonBytes(r.JSONBody)
		hr.SetHeader("Content-Type", upload.ContentTypeJSON)
	}

	resp, err := hr.Post(endpoint)
	if err != nil {
		return nil, err
	}

	body, err := resp.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &upload.Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// Ensure Client implements upload.Sender
var _ upload.Sender = (*Client)(nil)
