package file

import "fmt"

const (
	permReadable   uint8 = 0b001
	permWritable   uint8 = 0b010
	permExecutable uint8 = 0b100
)

// Permissions is a read/write/execute flag set. The zero value grants
// nothing.
type Permissions struct {
	p uint8
}

// NewPermissions wraps raw permission bits
func NewPermissions(p uint8) Permissions {
	return Permissions{p: p}
}

// ParsePermissions parses an rwx string such as "r-x"
func ParsePermissions(s string) (Permissions, error) {
	if len(s) != 3 {
		return Permissions{}, fmt.Errorf("permissions %q: want 3 characters", s)
	}
	var p Permissions
	for i, want := range []byte{'r', 'w', 'x'} {
		switch s[i] {
		case want:
			p.p |= permReadable << i
		case '-':
		default:
			return Permissions{}, fmt.Errorf("permissions %q: unexpected %q at %d", s, s[i], i)
		}
	}
	return p, nil
}

func (p Permissions) Bits() uint8 { return p.p }

func (p Permissions) IsExecutable() bool { return p.p&permExecutable != 0 }
func (p Permissions) IsWritable() bool   { return p.p&permWritable != 0 }
func (p Permissions) IsReadable() bool   { return p.p&permReadable != 0 }

func (p *Permissions) SetExecutable(e bool) { p.set(permExecutable, e) }
func (p *Permissions) SetWritable(w bool)   { p.set(permWritable, w) }
func (p *Permissions) SetReadable(r bool)   { p.set(permReadable, r) }

func (p *Permissions) set(bit uint8, on bool) {
	if on {
		p.p |= bit
	} else {
		p.p &^= bit
	}
}

// String renders the flags as rwx, e.g. "r-x"
func (p Permissions) String() string {
	b := []byte("---")
	if p.IsReadable() {
		b[0] = 'r'
	}
	if p.IsWritable() {
		b[1] = 'w'
	}
	if p.IsExecutable() {
		b[2] = 'x'
	}
	return string(b)
}
