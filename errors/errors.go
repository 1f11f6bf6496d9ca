package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wippyai/vfs/fspath"
)

// Code is the stable numeric identifier hosts dispatch on
type Code uint8

const (
	CodeCannotWrite     Code = 101
	CodeCannotRead      Code = 102
	CodeNotFound        Code = 103
	CodeNotUtf8         Code = 104
	CodeNotAnExecutable Code = 105
)

var codeNames = map[Code]string{
	CodeCannotWrite:     "cannot_write",
	CodeCannotRead:      "cannot_read",
	CodeNotFound:        "not_found",
	CodeNotUtf8:         "not_utf8",
	CodeNotAnExecutable: "not_an_executable",
}

var codeMessages = map[Code]string{
	CodeCannotWrite:     "Cannot write to file",
	CodeCannotRead:      "Cannot read file",
	CodeNotFound:        "File not found",
	CodeNotUtf8:         "File is not UTF-8",
	CodeNotAnExecutable: "File is not an executable",
}

// String returns the snake_case name of the code
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code_%d", uint8(c))
}

// Message returns the default human-readable message for the code
func (c Code) Message() string {
	return codeMessages[c]
}

// Sentinels for errors.Is. They match any IoError with the same code.
var (
	ErrCannotWrite     = &IoError{Code: CodeCannotWrite}
	ErrCannotRead      = &IoError{Code: CodeCannotRead}
	ErrNotFound        = &IoError{Code: CodeNotFound}
	ErrNotUtf8         = &IoError{Code: CodeNotUtf8}
	ErrNotAnExecutable = &IoError{Code: CodeNotAnExecutable}
)

// IoError reports an operation attempted on a resource whose state
// disallows it.
type IoError struct {
	Cause   error
	Path    *fspath.Path
	Message string
	Code    Code
}

// Error implements the error interface
func (e *IoError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "IO error (%d): ", uint8(e.Code))
	msg := e.Message
	if msg == "" {
		msg = e.Code.Message()
	}
	b.WriteString(msg)

	if e.Path != nil {
		b.WriteString(" at ")
		b.WriteString(e.Path.String())
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *IoError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an IoError with the same code
func (e *IoError) Is(target error) bool {
	if t, ok := target.(*IoError); ok {
		return e.Code == t.Code
	}
	return false
}

// File returns the offending path, if one was recorded
func (e *IoError) File() (fspath.Path, bool) {
	if e.Path == nil {
		return fspath.Path{}, false
	}
	return *e.Path, true
}

// Builder provides structured error construction
type Builder struct {
	err IoError
}

// New creates a new error builder for code with its default message
func New(code Code) *Builder {
	return &Builder{
		err: IoError{
			Code:    code,
			Message: code.Message(),
		},
	}
}

// Path binds the offending path
func (b *Builder) Path(p fspath.Path) *Builder {
	b.err.Path = &p
	return b
}

// Message overrides the default message
func (b *Builder) Message(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Message = fmt.Sprintf(msg, args...)
	} else {
		b.err.Message = msg
	}
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *IoError {
	return &b.err
}

// CannotWrite creates a cannot-write error for file
func CannotWrite(file fspath.Path) *IoError {
	return New(CodeCannotWrite).Path(file).Build()
}

// CannotRead creates a cannot-read error for file
func CannotRead(file fspath.Path) *IoError {
	return New(CodeCannotRead).Path(file).Build()
}

// NotFound creates a not-found error for file
func NotFound(file fspath.Path) *IoError {
	return New(CodeNotFound).Path(file).Build()
}

// NotUtf8 creates an invalid-encoding error for file
func NotUtf8(file fspath.Path) *IoError {
	return New(CodeNotUtf8).Path(file).Build()
}

// NotAnExecutable creates an error for a file without an executable capability
func NotAnExecutable(file fspath.Path) *IoError {
	return New(CodeNotAnExecutable).Path(file).Build()
}

// CodeOf returns the code of the first IoError in err's chain
func CodeOf(err error) (Code, bool) {
	var ioErr *IoError
	if errors.As(err, &ioErr) {
		return ioErr.Code, true
	}
	return 0, false
}
