package upload

import (
	"fmt"
	"strings"
)

// Kind identifies which variant a Target holds
type Kind int

const (
	// KindRemoteURL is a file hosted at an http(s) URL
	KindRemoteURL Kind = iota + 1
	// KindLocalFile is a regular file on local disk
	KindLocalFile
)

func (k Kind) String() string {
	switch k {
	case KindRemoteURL:
		return "remote-url"
	case KindLocalFile:
		return "local-file"
	default:
		return "unknown"
	}
}

// urlPrefixes are the scheme prefixes that mark an input as a remote resource
var urlPrefixes = []string{"http://", "https://"}

// Target is the classified form of a user-supplied upload argument.
// Exactly one of URL or Path is set, according to Kind.
type Target struct {
	Kind Kind
	URL  string
	Path string
}

// RemoteURL returns a Target for a remote resource
func RemoteURL(url string) Target {
	return Target{Kind: KindRemoteURL, URL: url}
}

// LocalFile returns a Target for a file on disk
func LocalFile(path string) Target {
	return Target{Kind: KindLocalFile, Path: path}
}

// String returns the raw input the target was built from
func (t Target) String() string {
	if t.Kind == KindRemoteURL {
		return t.URL
	}
	return t.Path
}

// FileChecker defines the interface for checking local files during classification
type FileChecker interface {
	// IsRegularFile returns true if path names an existing regular file
	IsRegularFile(path string) bool
}

// FileReader defines the interface for reading a classified local file
type FileReader interface {
	// ReadFile returns the full content of path
	ReadFile(path string) ([]byte, error)
}

// HasURLPrefix reports whether input starts with http:// or https://, ignoring case
func HasURLPrefix(input string) bool {
	for _, p := range urlPrefixes {
		if len(input) >= len(p) && strings.EqualFold(input[:len(p)], p) {
			return true
		}
	}
	return false
}

// Classify maps a raw input string to a Target.
// URL prefixes win over the filesystem; the checker is consulted only for non-URL input.
func Classify(input string, files FileChecker) (Target, error) {
	if HasURLPrefix(input) {
		return RemoteURL(input), nil
	}

	if input != "" && files != nil && files.IsRegularFile(input) {
		return LocalFile(input), nil
	}

	return Target{}, &Error{
		Kind: ErrorKindNotFound,
		Err:  fmt.Errorf("%w: %q", ErrNotFoundOrUnclassifiable, input),
	}
}
