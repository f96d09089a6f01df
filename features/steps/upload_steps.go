//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	"discord-uploader/cmd"
	"discord-uploader/infrastructure/filesystem"
	"discord-uploader/infrastructure/webhook"

	"github.com/cucumber/godog"
)

// receivedRequest is what the fake webhook saw
type receivedRequest struct {
	contentType string
	body        string
	fieldName   string
	fileName    string
	partType    string
}

// uploadContext holds test state for upload scenarios
type uploadContext struct {
	tempDir string

	server      *httptest.Server
	unreachable bool
	status      int
	respBody    string
	requiredKey string
	calls       int
	received    *receivedRequest

	result map[string]any
	err    error
}

// SharedUploadContext is reset before each scenario via Before hook
var SharedUploadContext *uploadContext

func getUploadContext() *uploadContext {
	return SharedUploadContext
}

func InitializeUploadScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "upload-test-*")
		if err != nil {
			return c, err
		}
		SharedUploadContext = &uploadContext{
			tempDir: tempDir,
			status:  http.StatusOK,
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedUploadContext != nil {
			if SharedUploadContext.server != nil {
				SharedUploadContext.server.Close()
			}
			os.RemoveAll(SharedUploadContext.tempDir)
		}
		SharedUploadContext = nil
		return c, nil
	})

	ctx.Step(`^the webhook responds with status (\d+) and body '([^']*)'$`, theWebhookRespondsWithStatusAndBody)
	ctx.Step(`^the webhook requires API key "([^"]*)"$`, theWebhookRequiresAPIKey)
	ctx.Step(`^the webhook is not reachable$`, theWebhookIsNotReachable)
	ctx.Step(`^a local file "([^"]*)" containing "([^"]*)"$`, aLocalFileContaining)
	ctx.Step(`^a local directory "([^"]*)"$`, aLocalDirectory)
	ctx.Step(`^I upload "([^"]*)"$`, iUpload)
	ctx.Step(`^I upload "([^"]*)" with API key "([^"]*)"$`, iUploadWithAPIKey)
	ctx.Step(`^I upload the local file "([^"]*)"$`, iUploadTheLocalFile)
	ctx.Step(`^the result should be successful with status (\d+)$`, theResultShouldBeSuccessfulWithStatus)
	ctx.Step(`^the result body should be '([^']*)'$`, theResultBodyShouldBe)
	ctx.Step(`^the result should fail with status (\d+) and message "([^"]*)"$`, theResultShouldFailWithStatusAndMessage)
	ctx.Step(`^the result should fail with status (\d+) and message '([^']*)'$`, theResultShouldFailWithStatusAndMessage)
	ctx.Step(`^the result should fail with status (\d+)$`, theResultShouldFailWithStatus)
	ctx.Step(`^the result should fail without a status code$`, theResultShouldFailWithoutAStatusCode)
	ctx.Step(`^the result message should contain "([^"]*)"$`, theResultMessageShouldContain)
	ctx.Step(`^the result message should not be empty$`, theResultMessageShouldNotBeEmpty)
	ctx.Step(`^the webhook should have received JSON '([^']*)'$`, theWebhookShouldHaveReceivedJSON)
	ctx.Step(`^the webhook should have received a file part named "([^"]*)" with filename "([^"]*)"$`, theWebhookShouldHaveReceivedAFilePart)
	ctx.Step(`^the file part content type should be "([^"]*)"$`, theFilePartContentTypeShouldBe)
	ctx.Step(`^the webhook should not have been called$`, theWebhookShouldNotHaveBeenCalled)
}

// handle plays the role of the upload API server
func (u *uploadContext) handle(w http.ResponseWriter, r *http.Request) {
	u.calls++
	got := &receivedRequest{contentType: r.Header.Get("Content-Type")}
	u.received = got

	if u.requiredKey != "" && r.Header.Get(webhook.APIKeyHeader) != u.requiredKey {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"success":false,"message":"Invalid or missing API key"}`)
		return
	}

	if strings.HasPrefix(got.contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			for field, headers := range r.MultipartForm.File {
				got.fieldName = field
				got.fileName = headers[0].Filename
				got.partType = headers[0].Header.Get("Content-Type")
			}
		}
	} else {
		data, _ := io.ReadAll(r.Body)
		got.body = string(data)
	}

	w.WriteHeader(u.status)
	io.WriteString(w, u.respBody)
}

func (u *uploadContext) endpoint() string {
	if u.server == nil {
		u.server = httptest.NewServer(http.HandlerFunc(u.handle))
		if u.unreachable {
			u.server.Close()
		}
	}
	return u.server.URL + "/api/webhook/upload"
}

func theWebhookRespondsWithStatusAndBody(status int, body string) error {
	u := getUploadContext()
	u.status = status
	u.respBody = body
	return nil
}

func theWebhookRequiresAPIKey(key string) error {
	getUploadContext().requiredKey = key
	return nil
}

func theWebhookIsNotReachable() error {
	getUploadContext().unreachable = true
	return nil
}

func aLocalFileContaining(name, content string) error {
	path := filepath.Join(getUploadContext().tempDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func aLocalDirectory(name string) error {
	return os.MkdirAll(filepath.Join(getUploadContext().tempDir, name), 0755)
}

func (u *uploadContext) upload(input, apiKey string) error {
	var out bytes.Buffer
	u.err = cmd.RunUploadWithDependencies(
		context.Background(),
		webhook.NewClient(webhook.WithAPIKey(apiKey)),
		filesystem.NewChecker(),
		u.endpoint(),
		input,
		&out,
		io.Discard,
	)

	u.result = nil
	if err := json.Unmarshal(out.Bytes(), &u.result); err != nil {
		return fmt.Errorf("output is not JSON: %w\n%s", err, out.String())
	}
	return nil
}

func iUpload(input string) error {
	return getUploadContext().upload(input, "")
}

func iUploadWithAPIKey(input, key string) error {
	return getUploadContext().upload(input, key)
}

func iUploadTheLocalFile(name string) error {
	u := getUploadContext()
	return u.upload(filepath.Join(u.tempDir, name), "")
}

func (u *uploadContext) statusCode() (int, bool) {
	v, ok := u.result["status_code"]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return int(f), ok
}

func (u *uploadContext) checkSuccess(want bool) error {
	if got, _ := u.result["success"].(bool); got != want {
		return fmt.Errorf("expected success=%v, got result %v", want, u.result)
	}
	if want && u.err != nil {
		return fmt.Errorf("expected no error, got %v", u.err)
	}
	if !want && u.err == nil {
		return fmt.Errorf("expected upload failure error for result %v", u.result)
	}
	return nil
}

func theResultShouldBeSuccessfulWithStatus(status int) error {
	u := getUploadContext()
	if err := u.checkSuccess(true); err != nil {
		return err
	}
	if code, ok := u.statusCode(); !ok || code != status {
		return fmt.Errorf("expected status %d, got %v", status, u.result["status_code"])
	}
	return nil
}

func theResultBodyShouldBe(want string) error {
	u := getUploadContext()
	got, err := json.Marshal(u.result["body"])
	if err != nil {
		return err
	}
	var wantValue any
	if err := json.Unmarshal([]byte(want), &wantValue); err != nil {
		return err
	}
	wantJSON, _ := json.Marshal(wantValue)
	if string(got) != string(wantJSON) {
		return fmt.Errorf("expected body %s, got %s", wantJSON, got)
	}
	return nil
}

func theResultShouldFailWithStatus(status int) error {
	u := getUploadContext()
	if err := u.checkSuccess(false); err != nil {
		return err
	}
	if code, ok := u.statusCode(); !ok || code != status {
		return fmt.Errorf("expected status %d, got %v", status, u.result["status_code"])
	}
	return nil
}

func theResultShouldFailWithStatusAndMessage(status int, message string) error {
	if err := theResultShouldFailWithStatus(status); err != nil {
		return err
	}
	if got := getUploadContext().result["message"]; got != message {
		return fmt.Errorf("expected message %q, got %v", message, got)
	}
	return nil
}

func theResultShouldFailWithoutAStatusCode() error {
	u := getUploadContext()
	if err := u.checkSuccess(false); err != nil {
		return err
	}
	if _, ok := u.result["status_code"]; ok {
		return fmt.Errorf("expected no status code, got %v", u.result["status_code"])
	}
	return nil
}

func theResultMessageShouldContain(substr string) error {
	msg, _ := getUploadContext().result["message"].(string)
	if !strings.Contains(msg, substr) {
		return fmt.Errorf("expected message containing %q, got %q", substr, msg)
	}
	return nil
}

func theResultMessageShouldNotBeEmpty() error {
	if msg, _ := getUploadContext().result["message"].(string); msg == "" {
		return fmt.Errorf("expected a non-empty message")
	}
	return nil
}

func theWebhookShouldHaveReceivedJSON(want string) error {
	u := getUploadContext()
	if u.received == nil {
		return fmt.Errorf("webhook received no request")
	}
	if !strings.HasPrefix(u.received.contentType, "application/json") {
		return fmt.Errorf("expected application/json, got %q", u.received.contentType)
	}
	if u.received.body != want {
		return fmt.Errorf("expected body %s, got %s", want, u.received.body)
	}
	return nil
}

func theWebhookShouldHaveReceivedAFilePart(field, filename string) error {
	u := getUploadContext()
	if u.received == nil {
		return fmt.Errorf("webhook received no request")
	}
	if u.received.fieldName != field {
		return fmt.Errorf("expected part %q, got %q", field, u.received.fieldName)
	}
	if u.received.fileName != filename {
		return fmt.Errorf("expected filename %q, got %q", filename, u.received.fileName)
	}
	return nil
}

func theFilePartContentTypeShouldBe(want string) error {
	if got := getUploadContext().received.partType; got != want {
		return fmt.Errorf("expected part content type %q, got %q", want, got)
	}
	return nil
}

func theWebhookShouldNotHaveBeenCalled() error {
	if calls := getUploadContext().calls; calls != 0 {
		return fmt.Errorf("expected no webhook calls, got %d", calls)
	}
	return nil
}
