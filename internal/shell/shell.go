// Package shell is a small command interpreter over a tree. A Shell is
// also the host API handle passed to every executable it runs.
package shell

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	vfserrors "github.com/wippyai/vfs/errors"
	"github.com/wippyai/vfs/file"
	"github.com/wippyai/vfs/fspath"
	"github.com/wippyai/vfs/tree"
)

// BinDir is searched for bare command names
const BinDir = "/bin"

// Shell runs commands against a Root. It is not safe for concurrent use.
type Shell struct {
	ctx    context.Context
	root   *tree.Root
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Shell
type Option func(*Shell)

// WithLogger sets the logger for command tracing
func WithLogger(l *zap.Logger) Option {
	return func(s *Shell) { s.logger = l }
}

// WithStdin sets the stream handed to executables as stdin
func WithStdin(r io.Reader) Option {
	return func(s *Shell) { s.stdin = r }
}

// WithClock sets the time source used for edited timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Shell) { s.now = now }
}

// New returns a shell over root writing to stdout and stderr. ctx is
// handed to executables through Context.
func New(ctx context.Context, root *tree.Root, stdout, stderr io.Writer, opts ...Option) *Shell {
	s := &Shell{
		ctx:    ctx,
		root:   root,
		stdout: stdout,
		stderr: stderr,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Context and the stdio accessors make a Shell usable as the host API
// handle passed to executables.
func (s *Shell) Context() context.Context { return s.ctx }
func (s *Shell) Stdin() io.Reader         { return s.stdin }
func (s *Shell) Stdout() io.Writer        { return s.stdout }
func (s *Shell) Stderr() io.Writer        { return s.stderr }
func (s *Shell) Root() *tree.Root         { return s.root }

// SetOutput redirects stdout and stderr, returning the previous writers
func (s *Shell) SetOutput(stdout, stderr io.Writer) (io.Writer, io.Writer) {
	prevOut, prevErr := s.stdout, s.stderr
	s.stdout, s.stderr = stdout, stderr
	return prevOut, prevErr
}

// Run parses and runs one command line. Blank lines are a no-op.
func (s *Shell) Run(line string) (file.ExitCode, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, nil
	}
	s.logger.Debug("run", zap.Strings("argv", fields))

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "help":
		s.Help()
		return 0, nil
	case "ls":
		return 0, s.List(optionalPath(args))
	case "cat", "stat", "sum":
		if len(args) != 1 {
			return 2, fmt.Errorf("usage: %s <path>", cmd)
		}
		p := fspath.New(args[0])
		switch cmd {
		case "cat":
			return 0, s.Cat(p)
		case "stat":
			return 0, s.Stat(p)
		default:
			return 0, s.Sum(p)
		}
	case "mkdir":
		if len(args) != 1 {
			return 2, fmt.Errorf("usage: mkdir <path>")
		}
		return 0, s.Mkdir(fspath.New(args[0]))
	case "write":
		if len(args) < 1 {
			return 2, fmt.Errorf("usage: write <path> [text...]")
		}
		return 0, s.Write(fspath.New(args[0]), []byte(strings.Join(args[1:], " ")+"\n"))
	default:
		return s.Exec(CommandPath(cmd), args)
	}
}

// Help lists the commands Run understands
func (s *Shell) Help() {
	fmt.Fprint(s.stdout, `commands:
  ls [dir]             list a directory (default: root)
  cat <file>           print a UTF-8 file
  stat <file>          show metadata
  sum <file>           BLAKE3-256 of the content
  mkdir <dir>          create a directory and its parents
  write <file> [text]  replace a file's content
  <file> [args]        run an executable; bare names are looked up in /bin
`)
}

// List prints the entries of the directory at p, or the top-level
// directories when p names nothing.
func (s *Shell) List(p fspath.Path) error {
	w := tabwriter.NewWriter(s.stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if len(p.Parts()) == 0 {
		for name, node := range s.root.Children() {
			fmt.Fprintf(w, "%s\t%s/\n", dirPerms(node), name)
		}
		return nil
	}

	node, ok := s.root.ResolveDir(p)
	if !ok {
		if f, ok := s.root.Resolve(p); ok {
			fmt.Fprintf(w, "%s\t%s\n", f.Metadata().Permissions(), p)
			return nil
		}
		return vfserrors.NotFound(p)
	}
	for name, child := range node.Children() {
		fmt.Fprintf(w, "%s\t%s/\n", dirPerms(child), name)
	}
	for name, f := range node.Files() {
		marker := ""
		if f.IsExecutable() {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s%s\n", f.Metadata().Permissions(), name, marker)
	}
	return nil
}

// Cat writes the file's text to stdout
func (s *Shell) Cat(p fspath.Path) error {
	f, err := s.readable(p)
	if err != nil {
		return err
	}
	text, err := f.ContentText(p)
	if err != nil {
		return err
	}
	_, err = io.WriteString(s.stdout, text)
	return err
}

// Stat prints the file's metadata
func (s *Shell) Stat(p fspath.Path) error {
	f, ok := s.root.Resolve(p)
	if !ok {
		return vfserrors.NotFound(p)
	}
	meta := f.Metadata()

	w := tabwriter.NewWriter(s.stdout, 0, 4, 1, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "path:\t%s\n", p)
	fmt.Fprintf(w, "type:\t%s\n", meta.FileType())
	fmt.Fprintf(w, "perm:\t%s\n", meta.Permissions())
	fmt.Fprintf(w, "size:\t%d\n", len(f.Content()))
	fmt.Fprintf(w, "exec:\t%t\n", f.IsExecutable())
	fmt.Fprintf(w, "created:\t%s\n", meta.Created().Format(time.RFC3339))
	if edited, ok := meta.Edited(); ok {
		fmt.Fprintf(w, "edited:\t%s\n", edited.Format(time.RFC3339))
	}
	return nil
}

// Sum prints the BLAKE3-256 digest of the file's content
func (s *Shell) Sum(p fspath.Path) error {
	f, err := s.readable(p)
	if err != nil {
		return err
	}
	d := f.Digest()
	_, err = fmt.Fprintf(s.stdout, "%s  %s\n", hex.EncodeToString(d[:]), p)
	return err
}

// Mkdir creates p and any missing parents
func (s *Shell) Mkdir(p fspath.Path) error {
	_, ok := s.root.MkdirAll(p, func() *file.File {
		return file.New(file.NewMetadata(file.TypeDirectory, file.NewPermissions(0b111), s.now()), nil, nil)
	})
	if !ok {
		return vfserrors.New(vfserrors.CodeCannotWrite).Path(p).Message("cannot create the root").Build()
	}
	return nil
}

// Write replaces the content of the file at p, creating it in an existing
// directory when absent. Existing files must be writable.
func (s *Shell) Write(p fspath.Path, content []byte) error {
	parts := p.Parts()
	if len(parts) < 2 {
		return vfserrors.CannotWrite(p)
	}

	if f, ok := s.root.Resolve(p); ok {
		meta := f.Metadata()
		if !meta.Permissions().IsWritable() {
			return vfserrors.CannotWrite(p)
		}
		f.SetContent(content)
		meta.SetEdited(s.now())
		f.SetMetadata(meta)
		return nil
	}

	dir, ok := s.root.ResolveDir(fspath.New(strings.Join(parts[:len(parts)-1], fspath.Separator)))
	if !ok {
		return vfserrors.NotFound(p)
	}
	meta := file.NewMetadata(file.TypeFile, file.NewPermissions(0b011), s.now())
	dir.AddFile(parts[len(parts)-1], file.New(meta, content, nil))
	return nil
}

// Exec runs the file at p with the shell as its host API handle
func (s *Shell) Exec(p fspath.Path, args []string) (file.ExitCode, error) {
	f, ok := s.root.Resolve(p)
	if !ok {
		return 127, vfserrors.NotFound(p)
	}
	code, err := f.Execute(s, args, p)
	if err != nil {
		return 126, err
	}
	s.logger.Debug("exited", zap.Stringer("path", p), zap.Int32("code", code))
	return code, nil
}

func (s *Shell) readable(p fspath.Path) (*file.File, error) {
	f, ok := s.root.Resolve(p)
	if !ok {
		return nil, vfserrors.NotFound(p)
	}
	if !f.Metadata().Permissions().IsReadable() {
		return nil, vfserrors.CannotRead(p)
	}
	return f, nil
}

func dirPerms(n *tree.Node) string {
	if self := n.Self(); self != nil {
		return self.Metadata().Permissions().String()
	}
	return "---"
}

func optionalPath(args []string) fspath.Path {
	if len(args) == 0 {
		return fspath.New("")
	}
	return fspath.New(args[0])
}

// CommandPath maps a command name to the file it runs. Names without a
// separator are looked up in BinDir.
func CommandPath(cmd string) fspath.Path {
	if strings.Contains(cmd, fspath.Separator) {
		return fspath.New(cmd)
	}
	return fspath.New(BinDir).Join(cmd)
}
