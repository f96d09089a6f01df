package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"discord-uploader/domain/upload"
)

// capturedRequest records what the test server received
type capturedRequest struct {
	method      string
	contentType string
	apiKey      string
	body        string
	fieldName   string
	fileName    string
	partType    string
	fileContent string
}

func newTestServer(t *testing.T, status int, respBody string, got *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.contentType = r.Header.Get("Content-Type")
		got.apiKey = r.Header.Get(APIKeyHeader)

		if strings.HasPrefix(got.contentType, "multipart/form-data") {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("ParseMultipartForm() error = %v", err)
			}
			for field, headers := range r.MultipartForm.File {
				got.fieldName = field
				got.fileName = headers[0].Filename
				got.partType = headers[0].Header.Get("Content-Type")
				f, err := headers[0].Open()
				if err != nil {
					t.Errorf("failed to open part: %v", err)
					break
				}
				data, _ := io.ReadAll(f)
				f.Close()
				got.fileContent = string(data)
			}
		} else {
			data, _ := io.ReadAll(r.Body)
			got.body = string(data)
		}

		w.WriteHeader(status)
		io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Send_URL(t *testing.T) {
	var got capturedRequest
	srv := newTestServer(t, http.StatusOK, `{"id":"123"}`, &got)

	r, err := upload.NewURLRequest("https://example.com/a.png")
	if err != nil {
		t.Fatalf("NewURLRequest() error = %v", err)
	}

	resp, err := NewClient().Send(context.Background(), srv.URL, r)
	if err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if string(resp.Body) != `{"id":"123"}` {
		t.Errorf("Body = %s, want {\"id\":\"123\"}", resp.Body)
	}
	if got.method != http.MethodPost {
		t.Errorf("method = %s, want POST", got.method)
	}
	if !strings.HasPrefix(got.contentType, "application/json") {
		t.Errorf("Content-Type = %q, want application/json", got.contentType)
	}
	if got.body != `{"fileUrl":"https://example.com/a.png"}` {
		t.Errorf("body = %s, want {\"fileUrl\":\"https://example.com/a.png\"}", got.body)
	}
	if got.apiKey != "" {
		t.Errorf("X-API-Key = %q, want none", got.apiKey)
	}
}

func TestClient_Send_File(t *testing.T) {
	var got capturedRequest
	srv := newTestServer(t, http.StatusInternalServerError, "server error", &got)

	r := upload.NewFileRequest("/tmp/reports/report.txt", []byte("quarterly numbers"))

	resp, err := NewClient().Send(context.Background(), srv.URL, r)
	if err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
	}
	if string(resp.Body) != "server error" {
		t.Errorf("Body = %q, want %q", resp.Body, "server error")
	}
	if got.fieldName != "file" {
		t.Errorf("part field = %q, want file", got.fieldName)
	}
	if got.fileName != "report.txt" {
		t.Errorf("part filename = %q, want report.txt", got.fileName)
	}
	if got.partType != "application/octet-stream" {
		t.Errorf("part Content-Type = %q, want application/octet-stream", got.partType)
	}
	if got.fileContent != "quarterly numbers" {
		t.Errorf("part content = %q, want %q", got.fileContent, "quarterly numbers")
	}
}

func TestClient_Send_APIKey(t *testing.T) {
	var got capturedRequest
	srv := newTestServer(t, http.StatusOK, `{}`, &got)

	r, _ := upload.NewURLRequest("https://example.com/a.png")
	client := NewClient(WithAPIKey("secret"), WithTimeout(5*time.Second))

	if _, err := client.Send(context.Background(), srv.URL, r); err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}
	if got.apiKey != "secret" {
		t.Errorf("X-API-Key = %q, want secret", got.apiKey)
	}
}

func TestClient_Send_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	r, _ := upload.NewURLRequest("https://example.com/a.png")

	resp, err := NewClient().Send(context.Background(), endpoint, r)
	if err == nil {
		t.Fatalf("Send() expected error for closed server, got response %+v", resp)
	}
	if err.Error() == "" {
		t.Error("Send() error text should not be empty")
	}
}

func TestClient_Send_KeepsRawNonUTF8Body(t *testing.T) {
	raw := []byte("caf\xe9 error")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=iso-8859-1")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(raw)
	}))
	defer srv.Close()

	r, _ := upload.NewURLRequest("https://example.com/a.png")

	resp, err := NewClient().Send(context.Background(), srv.URL, r)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
	}
	if string(resp.Body) != string(raw) {
		t.Errorf("Body = %q, want raw bytes %q", resp.Body, raw)
	}
}
