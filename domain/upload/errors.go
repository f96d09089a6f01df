package upload

import "errors"

var (
	// ErrNotFoundOrUnclassifiable is returned when input is neither a URL nor an existing file
	ErrNotFoundOrUnclassifiable = errors.New("file not found or not a valid URL")

	// ErrFileRead is returned when a classified local file cannot be opened or read
	ErrFileRead = errors.New("failed to read file")

	// ErrTransport is returned when the request never produced an HTTP response
	ErrTransport = errors.New("request failed")

	// ErrResponseParse is returned when a 200 response body is not valid JSON
	ErrResponseParse = errors.New("invalid JSON in response")
)

// ErrorKind classifies an upload failure
type ErrorKind int

const (
	ErrorKindNotFound ErrorKind = iota + 1
	ErrorKindFileRead
	ErrorKindTransport
	ErrorKindResponseParse
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindNotFound:
		return "NotFoundOrUnclassifiable"
	case ErrorKindFileRead:
		return "FileReadError"
	case ErrorKindTransport:
		return "TransportError"
	case ErrorKindResponseParse:
		return "ResponseParseError"
	default:
		return "UnknownError"
	}
}

// Error is the failure side of a single upload attempt
type Error struct {
	Kind ErrorKind
	// StatusCode is set only when an HTTP response was received
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind carried by err, or 0 if err is not an *Error
func KindOf(err error) ErrorKind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return 0
}
