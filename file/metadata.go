package file

import (
	"fmt"
	"time"
)

// FileType is a descriptive tag. It does not decide whether a File can be
// executed; only a bound Executable does.
type FileType uint8

const (
	TypeSymlink FileType = iota
	TypeExecutable
	TypeFile
	TypeDirectory
)

var fileTypeNames = [...]string{
	TypeSymlink:    "symlink",
	TypeExecutable: "executable",
	TypeFile:       "file",
	TypeDirectory:  "directory",
}

func (t FileType) String() string {
	if int(t) < len(fileTypeNames) {
		return fileTypeNames[t]
	}
	return fmt.Sprintf("FileType(%d)", uint8(t))
}

// ParseFileType is the inverse of FileType.String
func ParseFileType(s string) (FileType, error) {
	for i, name := range fileTypeNames {
		if name == s {
			return FileType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown file type %q", s)
}

// Metadata describes a file: type, permissions and timestamps.
// The edited timestamp starts absent and, once set, cannot be cleared.
type Metadata struct {
	created     time.Time
	edited      time.Time
	permissions Permissions
	fileType    FileType
	hasEdited   bool
}

// NewMetadata returns metadata with no edited time set
func NewMetadata(fileType FileType, permissions Permissions, created time.Time) Metadata {
	return Metadata{
		fileType:    fileType,
		permissions: permissions,
		created:     created,
	}
}

func (m Metadata) FileType() FileType       { return m.fileType }
func (m Metadata) Permissions() Permissions { return m.permissions }
func (m Metadata) Created() time.Time       { return m.created }

// Edited returns the last edit time, if one was recorded
func (m Metadata) Edited() (time.Time, bool) {
	return m.edited, m.hasEdited
}

// ModTime returns the edit time when set, the creation time otherwise
func (m Metadata) ModTime() time.Time {
	if m.hasEdited {
		return m.edited
	}
	return m.created
}

func (m *Metadata) SetPermissions(p Permissions) { m.permissions = p }
func (m *Metadata) SetFileType(t FileType)       { m.fileType = t }
func (m *Metadata) SetCreated(t time.Time)       { m.created = t }

func (m *Metadata) SetEdited(t time.Time) {
	m.edited = t
	m.hasEdited = true
}
