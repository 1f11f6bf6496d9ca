// Package manifest seeds a tree from a YAML description.
package manifest

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/vfs/file"
	"github.com/wippyai/vfs/fspath"
	"github.com/wippyai/vfs/tree"
	"github.com/wippyai/vfs/wasmexec"
)

// ErrManifestNotFound is returned when the manifest file does not exist.
// Callers can check for this with errors.Is(err, manifest.ErrManifestNotFound).
var ErrManifestNotFound = errors.New("manifest not found")

//go:embed default.yaml
var defaultManifest []byte

const (
	defaultDirPerm  = "r-x"
	defaultFilePerm = "rw-"
)

type File struct {
	Name    string `yaml:"name"`
	Perm    string `yaml:"perm,omitempty"`
	Type    string `yaml:"type,omitempty"`
	Content string `yaml:"content,omitempty"`
	Wasm    string `yaml:"wasm,omitempty"`
	Builtin string `yaml:"builtin,omitempty"`
}

type Dir struct {
	Path  string `yaml:"path"`
	Perm  string `yaml:"perm,omitempty"`
	Files []File `yaml:"files,omitempty"`
}

type Manifest struct {
	// baseDir resolves relative wasm paths
	baseDir string
	Dirs    []Dir `yaml:"dirs"`
}

// Load reads and parses the manifest at path
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrManifestNotFound
		}
		return nil, err
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.baseDir = filepath.Dir(path)
	return m, nil
}

// Parse decodes and validates a manifest
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Default returns the manifest used when none is configured
func Default() *Manifest {
	m, err := Parse(defaultManifest)
	if err != nil {
		panic(fmt.Sprintf("embedded manifest: %v", err))
	}
	return m
}

// Validate checks names, permissions and types without touching a tree
func (m *Manifest) Validate() error {
	for _, d := range m.Dirs {
		if len(fspath.New(d.Path).Parts()) == 0 {
			return fmt.Errorf("dir %q: files must live below the root", d.Path)
		}
		if _, err := permsOr(d.Perm, defaultDirPerm); err != nil {
			return fmt.Errorf("dir %q: %w", d.Path, err)
		}
		for _, f := range d.Files {
			if err := f.validate(); err != nil {
				return fmt.Errorf("dir %q: file %q: %w", d.Path, f.Name, err)
			}
		}
	}
	return nil
}

func (f File) validate() error {
	if f.Name == "" || strings.Contains(f.Name, fspath.Separator) {
		return errors.New("name must be a single non-empty segment")
	}
	if f.Wasm != "" && (f.Builtin != "" || f.Content != "") {
		return errors.New("wasm cannot be combined with builtin or content")
	}
	if _, err := permsOr(f.Perm, defaultFilePerm); err != nil {
		return err
	}
	if f.Type != "" {
		if _, err := file.ParseFileType(f.Type); err != nil {
			return err
		}
	}
	return nil
}

// Env supplies what Apply needs to build executables
type Env struct {
	Builtins map[string]file.Executable
	// Runtime compiles wasm entries; manifests with wasm entries fail
	// without one.
	Runtime *wasmexec.Runtime
	Now     func() time.Time
}

// Apply creates the manifest's directories and files under root.
// Existing directories are reused; existing files are replaced. The
// manifest is validated first; one that fails Validate creates nothing.
func (m *Manifest) Apply(ctx context.Context, root *tree.Root, env Env) error {
	if err := m.Validate(); err != nil {
		return err
	}

	now := env.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	for _, d := range m.Dirs {
		perms, err := permsOr(d.Perm, defaultDirPerm)
		if err != nil {
			return fmt.Errorf("dir %q: %w", d.Path, err)
		}
		newSelf := func() *file.File {
			return file.New(file.NewMetadata(file.TypeDirectory, perms, now()), nil, nil)
		}

		p := fspath.New(d.Path)
		node, ok := root.MkdirAll(p, newSelf)
		if !ok {
			return fmt.Errorf("dir %q: files must live below the root", d.Path)
		}
		if d.Perm != "" {
			meta := node.Self().Metadata()
			meta.SetPermissions(perms)
			node.Self().SetMetadata(meta)
		}

		for _, entry := range d.Files {
			f, err := m.buildFile(ctx, entry, env, now())
			if err != nil {
				return fmt.Errorf("%s: %w", p.Join(entry.Name), err)
			}
			node.AddFile(entry.Name, f)
		}
	}
	return nil
}

func (m *Manifest) buildFile(ctx context.Context, entry File, env Env, now time.Time) (*file.File, error) {
	perms, err := permsOr(entry.Perm, defaultFilePerm)
	if err != nil {
		return nil, err
	}

	var f *file.File
	switch {
	case entry.Wasm != "":
		if env.Runtime == nil {
			return nil, errors.New("wasm entry requires a runtime")
		}
		wasmPath := entry.Wasm
		if !filepath.IsAbs(wasmPath) {
			wasmPath = filepath.Join(m.baseDir, wasmPath)
		}
		wasm, err := os.ReadFile(wasmPath)
		if err != nil {
			return nil, err
		}
		f, err = env.Runtime.Load(ctx, entry.Name, wasm, perms)
		if err != nil {
			return nil, err
		}
	case entry.Builtin != "":
		exec, ok := env.Builtins[entry.Builtin]
		if !ok {
			return nil, fmt.Errorf("unknown builtin %q", entry.Builtin)
		}
		f = file.New(file.NewMetadata(file.TypeExecutable, perms, now), []byte(entry.Content), exec)
	default:
		f = file.New(file.NewMetadata(file.TypeFile, perms, now), []byte(entry.Content), nil)
	}

	if entry.Type != "" {
		ft, err := file.ParseFileType(entry.Type)
		if err != nil {
			return nil, err
		}
		meta := f.Metadata()
		meta.SetFileType(ft)
		f.SetMetadata(meta)
	}
	return f, nil
}

func permsOr(s, fallback string) (file.Permissions, error) {
	if s == "" {
		s = fallback
	}
	return file.ParsePermissions(s)
}
