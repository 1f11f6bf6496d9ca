package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wippyai/vfs/file"
	"github.com/wippyai/vfs/fspath"
	"github.com/wippyai/vfs/tree"
	"github.com/wippyai/vfs/wasmexec"
)

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func testEnv() Env {
	return Env{
		Builtins: map[string]file.Executable{
			"ok": file.ByteFunc(func(file.API, []string) uint8 { return 0 }),
		},
		Now: func() time.Time { return fixedNow },
	}
}

func TestParse(t *testing.T) {
	m, err := Parse([]byte(`
dirs:
  - path: /usr/bin
    perm: r-x
    files:
      - name: ok
        builtin: ok
      - name: notes.txt
        perm: rw-
        content: hello
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Dirs) != 1 || len(m.Dirs[0].Files) != 2 {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if m.Dirs[0].Files[1].Content != "hello" {
		t.Errorf("Content = %q, want hello", m.Dirs[0].Files[1].Content)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"root files", "dirs: [{path: /, files: [{name: x}]}]", "below the root"},
		{"bad dir perm", "dirs: [{path: /a, perm: abc}]", "permissions"},
		{"slash name", "dirs: [{path: /a, files: [{name: b/c}]}]", "single non-empty segment"},
		{"empty name", "dirs: [{path: /a, files: [{content: x}]}]", "single non-empty segment"},
		{"bad type", "dirs: [{path: /a, files: [{name: b, type: socket}]}]", "unknown file type"},
		{"wasm and builtin", "dirs: [{path: /a, files: [{name: b, wasm: x.wasm, builtin: ok}]}]", "cannot be combined"},
		{"not yaml", "dirs: [", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	m, err := Parse([]byte(`
dirs:
  - path: /usr/bin
    files:
      - name: ok
        perm: r-x
        builtin: ok
      - name: link
        type: symlink
        content: /usr/bin/ok
  - path: /usr/share
    perm: r--
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	root := tree.NewRoot()
	if err := m.Apply(context.Background(), root, testEnv()); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	ok, found := root.Resolve(fspath.New("/usr/bin/ok"))
	if !found {
		t.Fatal("/usr/bin/ok not created")
	}
	if ok.Metadata().FileType() != file.TypeExecutable {
		t.Errorf("FileType() = %v, want executable", ok.Metadata().FileType())
	}
	if ok.Metadata().Permissions().String() != "r-x" {
		t.Errorf("Permissions() = %v, want r-x", ok.Metadata().Permissions())
	}
	if !ok.Metadata().Created().Equal(fixedNow) {
		t.Errorf("Created() = %v, want %v", ok.Metadata().Created(), fixedNow)
	}
	if code, err := ok.Execute(nil, nil, fspath.New("/usr/bin/ok")); err != nil || code != 0 {
		t.Errorf("Execute = %d, %v", code, err)
	}

	link, _ := root.Resolve(fspath.New("/usr/bin/link"))
	if link.Metadata().FileType() != file.TypeSymlink {
		t.Errorf("FileType() = %v, want symlink", link.Metadata().FileType())
	}
	if link.Metadata().Permissions().String() != defaultFilePerm {
		t.Errorf("Permissions() = %v, want %s", link.Metadata().Permissions(), defaultFilePerm)
	}

	share, found := root.ResolveDir(fspath.New("/usr/share"))
	if !found {
		t.Fatal("/usr/share not created")
	}
	if got := share.Self().Metadata().Permissions().String(); got != "r--" {
		t.Errorf("share perms = %s, want r--", got)
	}
	usr, _ := root.Child("usr")
	if got := usr.Self().Metadata().Permissions().String(); got != defaultDirPerm {
		t.Errorf("usr perms = %s, want %s", got, defaultDirPerm)
	}
}

func TestApply_UnknownBuiltin(t *testing.T) {
	m, err := Parse([]byte("dirs: [{path: /bin, files: [{name: x, builtin: nope}]}]"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	err = m.Apply(context.Background(), tree.NewRoot(), testEnv())
	if err == nil || !strings.Contains(err.Error(), "/bin/x") {
		t.Errorf("err = %v, want unknown builtin error naming /bin/x", err)
	}
}

func TestApply_ValidatesLiteral(t *testing.T) {
	tests := []struct {
		name string
		m    Manifest
	}{
		{"dir perm", Manifest{Dirs: []Dir{{Path: "/d", Perm: "bogus"}}}},
		{"file perm", Manifest{Dirs: []Dir{{Path: "/d", Files: []File{{Name: "f", Perm: "zzz"}}}}}},
		{"file type", Manifest{Dirs: []Dir{{Path: "/d", Files: []File{{Name: "f", Type: "socket"}}}}}},
		{"file name", Manifest{Dirs: []Dir{{Path: "/d", Files: []File{{Name: "a/b"}}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tree.NewRoot()
			if err := tt.m.Apply(context.Background(), root, testEnv()); err == nil {
				t.Fatal("Apply should reject an invalid manifest")
			}
			if root.ChildCount() != 0 {
				t.Errorf("ChildCount() = %d, want 0", root.ChildCount())
			}
		})
	}
}

func TestApply_Wasm(t *testing.T) {
	dir := t.TempDir()
	// header only: a valid empty module
	wasm := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	if err := os.WriteFile(filepath.Join(dir, "empty.wasm"), wasm, 0o644); err != nil {
		t.Fatal(err)
	}
	manifestPath := filepath.Join(dir, "vfs.yaml")
	doc := "dirs: [{path: /bin, files: [{name: empty, perm: r-x, wasm: empty.wasm}]}]"
	if err := os.WriteFile(manifestPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(manifestPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	root := tree.NewRoot()
	if err := m.Apply(context.Background(), root, testEnv()); err == nil {
		t.Error("wasm entry without a runtime should fail")
	}

	ctx := context.Background()
	rt, err := wasmexec.New(ctx)
	if err != nil {
		t.Fatalf("wasmexec.New: %v", err)
	}
	defer rt.Close(ctx)

	env := testEnv()
	env.Runtime = rt
	if err := m.Apply(ctx, root, env); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	f, ok := root.Resolve(fspath.New("/bin/empty"))
	if !ok {
		t.Fatal("/bin/empty not created")
	}
	if !f.IsExecutable() {
		t.Error("wasm entry should carry an executable")
	}
	code, err := f.Execute(nil, nil, fspath.New("/bin/empty"))
	if err != nil || code != wasmexec.ExitCannotExecute {
		t.Errorf("Execute = %d, %v, want %d", code, err, wasmexec.ExitCannotExecute)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrManifestNotFound) {
		t.Errorf("err = %v, want ErrManifestNotFound", err)
	}
}

func TestDefault(t *testing.T) {
	m := Default()
	root := tree.NewRoot()
	env := Env{Builtins: map[string]file.Executable{
		"echo":  file.Func(func(file.API, []string) file.ExitCode { return 0 }),
		"true":  file.ByteFunc(func(file.API, []string) uint8 { return 0 }),
		"false": file.ByteFunc(func(file.API, []string) uint8 { return 1 }),
	}}
	if err := m.Apply(context.Background(), root, env); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	motd, ok := root.Resolve(fspath.New("/etc/motd"))
	if !ok {
		t.Fatal("/etc/motd missing")
	}
	text, err := motd.ContentText(fspath.New("/etc/motd"))
	if err != nil || !strings.HasPrefix(text, "Welcome") {
		t.Errorf("motd = %q, %v", text, err)
	}
	if _, ok := root.ResolveDir(fspath.New("/home/guest")); !ok {
		t.Error("/home/guest missing")
	}
}
