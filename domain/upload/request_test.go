package upload

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestNewURLRequest(t *testing.T) {
	tests := []struct {
		url      string
		wantBody string
	}{
		{"https://example.com/a.png", `{"fileUrl":"https://example.com/a.png"}`},
		{"https://example.com/dl?id=1&token=abc", `{"fileUrl":"https://example.com/dl?id=1&token=abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			req, err := NewURLRequest(tt.url)
			if err != nil {
				t.Fatalf("NewURLRequest() unexpected error: %v", err)
			}
			if got := string(req.JSONBody); got != tt.wantBody {
				t.Errorf("JSONBody = %s, want %s", got, tt.wantBody)
			}
			if req.IsMultipart() {
				t.Error("URL request should not be multipart")
			}
			if req.Target.Kind != KindRemoteURL {
				t.Errorf("Target.Kind = %v, want %v", req.Target.Kind, KindRemoteURL)
			}
		})
	}
}

func TestNewFileRequest_Basename(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"report.txt", "report.txt"},
		{"./report.txt", "report.txt"},
		{"/var/data/uploads/report.txt", "report.txt"},
		{"../../nested/dir/image.final.png", "image.final.png"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := NewFileRequest(tt.path, []byte("data"))

			if !req.IsMultipart() {
				t.Fatal("file request should be multipart")
			}
			if req.File.FileName != tt.want {
				t.Errorf("FileName = %q, want %q", req.File.FileName, tt.want)
			}
			if req.File.FieldName != "file" {
				t.Errorf("FieldName = %q, want %q", req.File.FieldName, "file")
			}
			if req.File.ContentType != "application/octet-stream" {
				t.Errorf("ContentType = %q, want application/octet-stream", req.File.ContentType)
			}
			if req.Target.Path != tt.path {
				t.Errorf("Target.Path = %q, want %q", req.Target.Path, tt.path)
			}
		})
	}
}

func TestResult_JSON(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   string
	}{
		{
			name:   "success",
			result: Succeeded(200, json.RawMessage(`{"id":"123"}`)),
			want:   `{"success":true,"status_code":200,"body":{"id":"123"}}`,
		},
		{
			name:   "rejected",
			result: Rejected(500, "server error"),
			want:   `{"success":false,"status_code":500,"message":"server error"}`,
		},
		{
			name:   "transport failure",
			result: FromError(&Error{Kind: ErrorKindTransport, Err: errors.New("connection refused")}),
			want:   `{"success":false,"message":"connection refused"}`,
		},
		{
			name: "parse failure keeps status",
			result: FromError(&Error{
				Kind:       ErrorKindResponseParse,
				StatusCode: 200,
				Err:        fmt.Errorf("%w: unexpected end of JSON input", ErrResponseParse),
			}),
			want: `{"success":false,"status_code":200,"message":"invalid JSON in response: unexpected end of JSON input"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.result)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("json = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrorKindNotFound, "NotFoundOrUnclassifiable"},
		{ErrorKindFileRead, "FileReadError"},
		{ErrorKindTransport, "TransportError"},
		{ErrorKindResponseParse, "ResponseParseError"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind.String() = %q, want %q", got, tt.want)
		}
	}
}
