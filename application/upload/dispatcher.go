package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"discord-uploader/domain/upload"
)

// Files combines the filesystem ports the dispatcher needs
type Files interface {
	upload.FileChecker
	upload.FileReader
}

// Dispatcher classifies an input, sends the matching request to the webhook
// endpoint and normalizes the response
type Dispatcher struct {
	sender   upload.Sender
	files    Files
	endpoint string
	output   io.Writer
}

// NewDispatcher creates a new dispatcher. An empty endpoint selects upload.DefaultEndpoint.
// Progress lines are written to output; nil discards them.
func NewDispatcher(sender upload.Sender, files Files, endpoint string, output io.Writer) *Dispatcher {
	if endpoint == "" {
		endpoint = upload.DefaultEndpoint
	}
	if output == nil {
		output = io.Discard
	}
	return &Dispatcher{
		sender:   sender,
		files:    files,
		endpoint: endpoint,
		output:   output,
	}
}

// Endpoint returns the webhook URL requests are sent to
func (d *Dispatcher) Endpoint() string {
	return d.endpoint
}

// Dispatch runs one upload attempt and always returns a result; failures are
// folded into a result with success false
func (d *Dispatcher) Dispatch(ctx context.Context, input string) *upload.Result {
	result, err := d.Upload(ctx, input)
	if err != nil {
		fmt.Fprintf(d.output, "Error: %v\n", err)
		return upload.FromError(err)
	}
	return result
}

// Upload runs one upload attempt. A non-200 response is a result, not an error.
// Classification, file, transport and parse failures are returned as *upload.Error.
func (d *Dispatcher) Upload(ctx context.Context, input string) (*upload.Result, error) {
	target, err := upload.Classify(input, d.files)
	if err != nil {
		return nil, err
	}

	req, err := d.buildRequest(target)
	if err != nil {
		return nil, err
	}

	if req.IsMultipart() {
		fmt.Fprintf(d.output, "Uploading file %s to Discord...\n", req.File.FileName)
	} else {
		fmt.Fprintf(d.output, "Uploading file from %s to Discord...\n", target.URL)
	}

	resp, err := d.sender.Send(ctx, d.endpoint, req)
	if err != nil {
		return nil, &upload.Error{
			Kind: upload.ErrorKindTransport,
			Err:  fmt.Errorf("%w: %v", upload.ErrTransport, err),
		}
	}

	return d.normalize(resp)
}

// buildRequest shapes the HTTP request for target, reading local files fully
func (d *Dispatcher) buildRequest(target upload.Target) (*upload.Request, error) {
	switch target.Kind {
	case upload.KindRemoteURL:
		return upload.NewURLRequest(target.URL)

	case upload.KindLocalFile:
		// the file may have gone away since classification
		content, err := d.files.ReadFile(target.Path)
		if err != nil {
			return nil, &upload.Error{
				Kind: upload.ErrorKindFileRead,
				Err:  fmt.Errorf("%w: %v", upload.ErrFileRead, err),
			}
		}
		return upload.NewFileRequest(target.Path, content), nil

	default:
		return nil, fmt.Errorf("unsupported target kind %v", target.Kind)
	}
}

// normalize maps a webhook response to a result
func (d *Dispatcher) normalize(resp *upload.Response) (*upload.Result, error) {
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(d.output, "Error: %d\n", resp.StatusCode)
		fmt.Fprintf(d.output, "Response: %s\n", resp.Body)
		return upload.Rejected(resp.StatusCode, string(resp.Body)), nil
	}

	var body json.RawMessage
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, &upload.Error{
			Kind:       upload.ErrorKindResponseParse,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %v", upload.ErrResponseParse, err),
		}
	}

	fmt.Fprintln(d.output, "Success! File uploaded to Discord.")
	return upload.Succeeded(resp.StatusCode, body), nil
}
