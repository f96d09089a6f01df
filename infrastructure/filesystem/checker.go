package filesystem

import (
	"fmt"
	"io"
	"os"

	"discord-uploader/domain/upload"
)

// Checker implements upload.FileChecker using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// IsRegularFile returns true if path exists and is a regular file
func (c *Checker) IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// ReadFile opens path and reads it fully, closing the handle on every path
func (c *Checker) ReadFile(path string) (data []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	data, err = io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Ensure Checker implements the upload file ports
var (
	_ upload.FileChecker = (*Checker)(nil)
	_ upload.FileReader  = (*Checker)(nil)
)
