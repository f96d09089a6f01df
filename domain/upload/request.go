package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
)

// Wire constants for the webhook upload contract
const (
	DefaultEndpoint = "http://localhost:5000/api/webhook/upload"

	FileFieldName          = "file"
	ContentTypeJSON        = "application/json"
	ContentTypeOctetStream = "application/octet-stream"
)

// FilePart is the single file part of a multipart upload
type FilePart struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     []byte
}

// Request is the shaped HTTP request for one target.
// JSONBody is set for remote URLs, File for local files.
type Request struct {
	Target   Target
	JSONBody []byte
	File     *FilePart
}

// IsMultipart reports whether the request carries a file part
func (r *Request) IsMultipart() bool {
	return r.File != nil
}

type urlPayload struct {
	FileURL string `json:"fileUrl"`
}

// NewURLRequest builds the JSON request {"fileUrl": url}.
// Query strings are sent verbatim, without HTML escaping of & < >.
func NewURLRequest(url string) (*Request, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(urlPayload{FileURL: url}); err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return &Request{
		Target:   RemoteURL(url),
		JSONBody: bytes.TrimRight(buf.Bytes(), "\n"),
	}, nil
}

// NewFileRequest builds the multipart request for a local file whose content is already read
func NewFileRequest(path string, content []byte) *Request {
	return &Request{
		Target: LocalFile(path),
		File: &FilePart{
			FieldName:   FileFieldName,
			FileName:    filepath.Base(path),
			ContentType: ContentTypeOctetStream,
			Content:     content,
		},
	}
}

// Response is the raw HTTP response to an upload request
type Response struct {
	StatusCode int
	Body       []byte
}

// Sender defines the interface for delivering a shaped request to the webhook endpoint
// This is a port that can be implemented by different infrastructure adapters
type Sender interface {
	// Send posts the request to endpoint. It returns an error only when no
	// HTTP response was received.
	Send(ctx context.Context, endpoint string, req *Request) (*Response, error)
}
