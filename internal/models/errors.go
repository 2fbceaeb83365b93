package models

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrorKind classifies failures surfaced by the scanner, the assembler and
// the guarded reads.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindUnauthorized     ErrorKind = "unauthorized"
	KindDecode           ErrorKind = "decode_error"
	KindUnexpected       ErrorKind = "unexpected"
)

// Sentinel errors for use with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnauthorized     = errors.New("unauthorized file access")
	ErrDecode           = errors.New("file is not a text file or uses unsupported encoding")
)

// Error is a classified failure carrying the offending path.
type Error struct {
	Kind    ErrorKind
	Message string
	Path    string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches the sentinel that corresponds to the error's kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrPermissionDenied:
		return e.Kind == KindPermissionDenied
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrDecode:
		return e.Kind == KindDecode
	}
	return false
}

// NewError builds a classified error.
func NewError(kind ErrorKind, message, path string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Path: path, Cause: cause}
}

// ClassifyFSError wraps a filesystem error with the matching kind.
func ClassifyFSError(message, path string, err error) *Error {
	return NewError(KindOf(err), message, path, err)
}

// KindOf returns the kind of err. Classified errors report their own kind;
// io/fs failures are mapped by their sentinel; anything else is unexpected.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission), os.IsPermission(err):
		return KindPermissionDenied
	}
	return KindUnexpected
}
