// Package errors provides typed errors for lexchunk.
package errors

import "fmt"

// ErrorCode identifies the type of error.
type ErrorCode string

const (
	ErrConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrInputNotFound    ErrorCode = "INPUT_NOT_FOUND"
	ErrInputUnreadable  ErrorCode = "INPUT_UNREADABLE"
	ErrNoInputMatched   ErrorCode = "NO_INPUT_MATCHED"
	ErrStoreNotFound    ErrorCode = "STORE_NOT_FOUND"
	ErrStoreCorrupt     ErrorCode = "STORE_CORRUPT"
	ErrStoreWriteFailed ErrorCode = "STORE_WRITE_FAILED"
)

// LexchunkError represents a typed error with user-friendly hints.
type LexchunkError struct {
	Code    ErrorCode
	Message string
	Hint    string
	Cause   error
}

func (e *LexchunkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *LexchunkError) Unwrap() error {
	return e.Cause
}

// New creates a new LexchunkError.
func New(code ErrorCode, message, hint string) *LexchunkError {
	return &LexchunkError{
		Code:    code,
		Message: message,
		Hint:    hint,
	}
}

// Wrap creates a new LexchunkError wrapping an existing error.
func Wrap(code ErrorCode, message, hint string, cause error) *LexchunkError {
	return &LexchunkError{
		Code:    code,
		Message: message,
		Hint:    hint,
		Cause:   cause,
	}
}

// ConfigNotFound returns an error for missing config file.
func ConfigNotFound(path string) *LexchunkError {
	return &LexchunkError{
		Code:    ErrConfigNotFound,
		Message: fmt.Sprintf("config file not found: %s", path),
		Hint:    "Run `lexchunk init` to create a configuration",
	}
}

// ConfigInvalid returns an error for invalid config.
func ConfigInvalid(reason string) *LexchunkError {
	return &LexchunkError{
		Code:    ErrConfigInvalid,
		Message: fmt.Sprintf("invalid config: %s", reason),
		Hint:    "Check your config file at ~/.config/lexchunk/config.yaml",
	}
}

// InputNotFound returns an error for a missing source document.
func InputNotFound(path string) *LexchunkError {
	return &LexchunkError{
		Code:    ErrInputNotFound,
		Message: fmt.Sprintf("input file not found: %s", path),
		Hint:    "Pass the path of an extracted plain-text document",
	}
}

// InputUnreadable returns an error for a source document that exists but cannot be read.
func InputUnreadable(path string, cause error) *LexchunkError {
	return &LexchunkError{
		Code:    ErrInputUnreadable,
		Message: fmt.Sprintf("failed to read input %s", path),
		Hint:    "Check file permissions",
		Cause:   cause,
	}
}

// NoInputMatched returns an error when glob patterns resolve to no files.
func NoInputMatched(patterns []string) *LexchunkError {
	return &LexchunkError{
		Code:    ErrNoInputMatched,
		Message: fmt.Sprintf("no input files matched %v", patterns),
		Hint:    "Quote patterns containing ** so the shell does not expand them",
	}
}

// StoreNotFound returns an error when no chunks are stored for a document.
func StoreNotFound(name string) *LexchunkError {
	return &LexchunkError{
		Code:    ErrStoreNotFound,
		Message: fmt.Sprintf("no stored chunks for %s", name),
		Hint:    "Run `lexchunk parse` on the document first",
	}
}

// StoreCorrupt returns an error for a chunk file that fails to decode or validate.
func StoreCorrupt(path string, cause error) *LexchunkError {
	return &LexchunkError{
		Code:    ErrStoreCorrupt,
		Message: fmt.Sprintf("invalid chunk file %s", path),
		Hint:    "Re-run `lexchunk parse --force` to regenerate it",
		Cause:   cause,
	}
}

// StoreWriteFailed returns an error when chunks cannot be persisted.
func StoreWriteFailed(path string, cause error) *LexchunkError {
	return &LexchunkError{
		Code:    ErrStoreWriteFailed,
		Message: fmt.Sprintf("failed to write %s", path),
		Cause:   cause,
	}
}
