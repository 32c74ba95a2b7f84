package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/roach88/avrconf/internal/index"
)

// Error code constants for command-level failures. Parse, build and query
// errors carry their own codes (E2xx, E3xx) through a Code method.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeLoadFailed  = "E004" // Source could not be read
	ErrCodeNotFound    = "E005" // Source path not found
	ErrCodeConfig      = "E006" // Invalid configuration
	ErrCodeWriteFailed = "E007" // Snapshot write error
)

// LoadResult is a loaded source and the index built from it.
type LoadResult struct {
	Path   string
	Source []byte
	Index  *index.Index
}

// LoadError represents an error that occurred while loading the source.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code carried by err or any error it wraps, falling
// back to ErrCodeGeneric.
func ErrorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ErrCodeGeneric
}

// readSource reads the configuration text at path.
func readSource(path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("source not found: %s", path), Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading source: %v", err), Err: err}
	}
	return src, nil
}

// LoadSource reads path and builds its index. Parse and build failures are
// returned as a LoadError carrying the underlying error's code.
func LoadSource(path string, logger *slog.Logger) (*LoadResult, error) {
	src, err := readSource(path)
	if err != nil {
		return nil, err
	}

	idx, err := index.Load(string(src), index.WithLogger(logger), index.WithSourceName(path))
	if err != nil {
		return nil, &LoadError{Code: ErrorCode(err), Message: err.Error(), Err: err}
	}
	return &LoadResult{Path: path, Source: src, Index: idx}, nil
}

// splitErrors returns the errors joined in err, or err alone.
func splitErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
