package file

import (
	"unicode/utf8"

	"github.com/zeebo/blake3"

	"github.com/wippyai/vfs/errors"
	"github.com/wippyai/vfs/fspath"
)

// File holds metadata, content and at most one executable capability
type File struct {
	executable Executable
	content    []byte
	metadata   Metadata
}

// New creates a File. exec may be nil.
func New(metadata Metadata, content []byte, exec Executable) *File {
	return &File{
		metadata:   metadata,
		content:    content,
		executable: exec,
	}
}

func (f *File) Metadata() Metadata { return f.metadata }

// Content returns the raw bytes. The slice is shared with the File.
func (f *File) Content() []byte { return f.content }

// ContentText decodes the content as UTF-8. path is only used to
// annotate the error.
func (f *File) ContentText(path fspath.Path) (string, error) {
	if !utf8.Valid(f.content) {
		return "", errors.NotUtf8(path)
	}
	return string(f.content), nil
}

// Executable returns the bound capability, or nil
func (f *File) Executable() Executable { return f.executable }

// IsExecutable reports whether a capability is bound, regardless of the
// type tag.
func (f *File) IsExecutable() bool { return f.executable != nil }

func (f *File) SetMetadata(m Metadata) { f.metadata = m }
func (f *File) SetContent(b []byte)    { f.content = b }
func (f *File) SetExecutable(e Executable) {
	f.executable = e
}

// Execute runs the bound capability to completion with api and args.
// It fails with NotAnExecutable, bound to path, when nothing is bound.
func (f *File) Execute(api API, args []string, path fspath.Path) (ExitCode, error) {
	if f.executable == nil {
		return 0, errors.NotAnExecutable(path)
	}
	return f.executable.Execute(api, args), nil
}

// Digest returns the BLAKE3-256 hash of the content
func (f *File) Digest() [32]byte {
	return blake3.Sum256(f.content)
}
