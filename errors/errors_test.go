package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/wippyai/vfs/fspath"
)

func TestIoError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *IoError
		contains []string
	}{
		{
			name:     "not utf8 with path",
			err:      NotUtf8(fspath.New("/etc/motd")),
			contains: []string{"IO error (104)", "File is not UTF-8", "/etc/motd"},
		},
		{
			name:     "minimal error",
			err:      &IoError{Code: CodeCannotRead},
			contains: []string{"IO error (102)", "Cannot read file"},
		},
		{
			name: "error with cause",
			err: New(CodeCannotWrite).
				Path(fspath.New("/tmp/x")).
				Cause(errors.New("disk full")).
				Build(),
			contains: []string{"IO error (101)", "/tmp/x", "caused by", "disk full"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	p := fspath.New("/bin/tool")
	tests := []struct {
		err     *IoError
		code    Code
		message string
	}{
		{CannotWrite(p), CodeCannotWrite, "Cannot write to file"},
		{CannotRead(p), CodeCannotRead, "Cannot read file"},
		{NotFound(p), CodeNotFound, "File not found"},
		{NotUtf8(p), CodeNotUtf8, "File is not UTF-8"},
		{NotAnExecutable(p), CodeNotAnExecutable, "File is not an executable"},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.code)
			}
			if tt.err.Message != tt.message {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.message)
			}
			got, ok := tt.err.File()
			if !ok || got != p {
				t.Errorf("File() = %v, %v, want %v, true", got, ok, p)
			}
		})
	}
}

func TestCodeValues(t *testing.T) {
	want := map[Code]uint8{
		CodeCannotWrite:     101,
		CodeCannotRead:      102,
		CodeNotFound:        103,
		CodeNotUtf8:         104,
		CodeNotAnExecutable: 105,
	}
	for code, v := range want {
		if uint8(code) != v {
			t.Errorf("%s = %d, want %d", code, uint8(code), v)
		}
	}
}

func TestIoError_Is(t *testing.T) {
	err := NotAnExecutable(fspath.New("/bin/ls"))

	if !errors.Is(err, ErrNotAnExecutable) {
		t.Error("errors.Is should match same code")
	}
	if errors.Is(err, ErrNotUtf8) {
		t.Error("errors.Is should not match different code")
	}

	wrapped := fmt.Errorf("run: %w", err)
	if !errors.Is(wrapped, ErrNotAnExecutable) {
		t.Error("errors.Is should match through wrapping")
	}
}

func TestIoError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(CodeCannotRead).Cause(cause).Build()

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap did not return cause")
	}
}

func TestBuilder(t *testing.T) {
	p := fspath.New("/var/log")
	err := New(CodeCannotRead).
		Path(p).
		Message("read %s failed", "log").
		Build()

	if err.Code != CodeCannotRead {
		t.Errorf("Code = %v, want %v", err.Code, CodeCannotRead)
	}
	if err.Message != "read log failed" {
		t.Errorf("Message = %q, want 'read log failed'", err.Message)
	}
	if err.Path == nil || *err.Path != p {
		t.Errorf("Path = %v, want %v", err.Path, p)
	}
}

func TestFile_Absent(t *testing.T) {
	err := &IoError{Code: CodeNotFound}
	if _, ok := err.File(); ok {
		t.Error("File() should report absence when no path is bound")
	}
}

func TestCodeOf(t *testing.T) {
	if code, ok := CodeOf(fmt.Errorf("x: %w", NotUtf8(fspath.New("a")))); !ok || code != CodeNotUtf8 {
		t.Errorf("CodeOf = %v, %v, want %v, true", code, ok, CodeNotUtf8)
	}
	if _, ok := CodeOf(errors.New("plain")); ok {
		t.Error("CodeOf should not match a plain error")
	}
}

func TestCode_String(t *testing.T) {
	if got := CodeNotFound.String(); got != "not_found" {
		t.Errorf("String() = %q, want not_found", got)
	}
	if got := Code(7).String(); got != "code_7" {
		t.Errorf("String() = %q, want code_7", got)
	}
}
