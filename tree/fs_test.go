package tree

import (
	"errors"
	"io"
	"io/fs"
	"testing"
	"testing/fstest"
	"time"

	"github.com/wippyai/vfs/file"
)

func fsTree() *Root {
	root := binTree()
	bin, _ := root.Child("bin")

	share := NewNode(dirFile())
	share.AddFile("README", textFile("read me"))
	bin.AddChild("share", share)

	// shadowed by the directory of the same name
	bin.AddFile("share", textFile("hidden"))
	bin.AddFile("", textFile("unreachable"))

	root.AddChild("etc", NewNode(nil))
	return root
}

func TestFS_Conformance(t *testing.T) {
	fsys := NewFS(fsTree())
	if err := fstest.TestFS(fsys, "bin/a_dummy_file.txt", "bin/share/README", "etc"); err != nil {
		t.Fatal(err)
	}
}

func TestFS_ReadFile(t *testing.T) {
	fsys := NewFS(fsTree())

	data, err := fs.ReadFile(fsys, "bin/a_dummy_file.txt")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "Hello world" {
		t.Errorf("ReadFile = %q, want 'Hello world'", data)
	}

	if _, err := fs.ReadFile(fsys, "bin"); err == nil {
		t.Error("ReadFile on a directory should fail")
	}
	if _, err := fs.ReadFile(fsys, "bin/missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
	if _, err := fsys.Open("/bin"); !errors.Is(err, fs.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestFS_ReadDir(t *testing.T) {
	fsys := NewFS(fsTree())

	entries, err := fs.ReadDir(fsys, "bin")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	want := []struct {
		name  string
		isDir bool
	}{
		{"a_dummy_file.txt", false},
		{"share", true},
	}
	if len(entries) != len(want) {
		t.Fatalf("ReadDir returned %d entries, want %d", len(entries), len(want))
	}
	for i, w := range want {
		if entries[i].Name() != w.name || entries[i].IsDir() != w.isDir {
			t.Errorf("entry %d = %s (dir=%v), want %s (dir=%v)",
				i, entries[i].Name(), entries[i].IsDir(), w.name, w.isDir)
		}
	}

	if _, err := fs.ReadDir(fsys, "bin/a_dummy_file.txt"); err == nil {
		t.Error("ReadDir on a file should fail")
	}
}

func TestFS_Stat(t *testing.T) {
	root := NewRoot()
	dir := NewNode(dirFile())
	created := time.Date(2023, 5, 6, 7, 8, 9, 0, time.UTC)
	meta := file.NewMetadata(file.TypeFile, file.NewPermissions(0b111), created)
	dir.AddFile("run.sh", file.New(meta, []byte("#!"), nil))
	root.AddChild("opt", dir)

	info, err := fs.Stat(NewFS(root), "opt/run.sh")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode() != 0o700 {
		t.Errorf("Mode() = %v, want 0700", info.Mode())
	}
	if info.Size() != 2 {
		t.Errorf("Size() = %d, want 2", info.Size())
	}
	if !info.ModTime().Equal(created) {
		t.Errorf("ModTime() = %v, want %v", info.ModTime(), created)
	}

	info, err = fs.Stat(NewFS(root), "opt")
	if err != nil {
		t.Fatalf("Stat dir: %v", err)
	}
	if !info.IsDir() || info.Mode().Perm() != 0o500 {
		t.Errorf("dir Mode() = %v, want dr-x------", info.Mode())
	}
}

func TestDirHandle_ReadDirPaged(t *testing.T) {
	f, err := NewFS(fsTree()).Open(".")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	d := f.(fs.ReadDirFile)
	first, err := d.ReadDir(1)
	if err != nil || len(first) != 1 || first[0].Name() != "bin" {
		t.Fatalf("ReadDir(1) = %v, %v", first, err)
	}
	second, err := d.ReadDir(5)
	if err != nil || len(second) != 1 || second[0].Name() != "etc" {
		t.Fatalf("ReadDir(5) = %v, %v", second, err)
	}
	if _, err := d.ReadDir(1); err != io.EOF {
		t.Errorf("err = %v, want io.EOF", err)
	}
}
