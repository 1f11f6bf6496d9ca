package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/vfs/fspath"
	"github.com/wippyai/vfs/internal/manifest"
	"github.com/wippyai/vfs/internal/shell"
	"github.com/wippyai/vfs/tree"
	"github.com/wippyai/vfs/wasmexec"
)

const defaultManifest = "vfsh.yaml"

type options struct {
	manifestPath string
	logLevel     string
}

// exitError carries a non-zero exit status out of a command
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	// interrupt stops a running guest instead of killing the process
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "vfsh",
		Short:         "Shell over an in-memory file store",
		Long:          "vfsh seeds an in-memory tree from a YAML manifest and runs commands against it.\nWith no subcommand it starts an interactive shell on a terminal, or reads commands from stdin.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				if term.IsTerminal(int(os.Stdin.Fd())) {
					return runInteractive(s.sh)
				}
				return runScript(s.sh, cmd.InOrStdin(), cmd.ErrOrStderr())
			})
		},
	}

	cmd.PersistentFlags().StringVar(&opts.manifestPath, "manifest", defaultManifest, "YAML manifest describing the initial tree")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		pathCmd(opts, "ls [dir]", "List a directory", cobra.MaximumNArgs(1), func(sh *shell.Shell, p fspath.Path) error { return sh.List(p) }),
		pathCmd(opts, "cat <file>", "Print a UTF-8 file", cobra.ExactArgs(1), func(sh *shell.Shell, p fspath.Path) error { return sh.Cat(p) }),
		pathCmd(opts, "stat <file>", "Show file metadata", cobra.ExactArgs(1), func(sh *shell.Shell, p fspath.Path) error { return sh.Stat(p) }),
		pathCmd(opts, "sum <file>", "Print the BLAKE3-256 digest of a file", cobra.ExactArgs(1), func(sh *shell.Shell, p fspath.Path) error { return sh.Sum(p) }),
		newExecCmd(opts),
		newShellCmd(opts),
	)

	return cmd
}

func pathCmd(opts *options, use, short string, args cobra.PositionalArgs, fn func(*shell.Shell, fspath.Path) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := fspath.New("")
			if len(args) > 0 {
				p = fspath.New(args[0])
			}
			return withSession(cmd, opts, func(s *session) error {
				return fn(s.sh, p)
			})
		},
	}
}

func newExecCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <file|name> [args...]",
		Short: "Run an executable file and exit with its status",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				code, err := s.sh.Exec(shell.CommandPath(args[0]), args[1:])
				if err != nil {
					return err
				}
				if code != 0 {
					return &exitError{code: int(code)}
				}
				return nil
			})
		},
	}
	// everything after the file belongs to the program
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newShellCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				return runInteractive(s.sh)
			})
		},
	}
}

type session struct {
	logger *zap.Logger
	rt     *wasmexec.Runtime
	sh     *shell.Shell
}

func withSession(cmd *cobra.Command, opts *options, fn func(*session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := newLogger(opts.logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	tree.SetLogger(logger)
	wasmexec.SetLogger(logger)

	m, err := manifest.Load(opts.manifestPath)
	if errors.Is(err, manifest.ErrManifestNotFound) && !cmd.Flags().Changed("manifest") {
		logger.Debug("using built-in manifest", zap.String("missing", opts.manifestPath))
		m, err = manifest.Default(), nil
	}
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}

	root := tree.NewRoot()
	rt, err := wasmexec.New(ctx, wasmexec.WithMount(tree.NewFS(root), "/"))
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	if err := m.Apply(ctx, root, manifest.Env{Builtins: shell.Builtins(), Runtime: rt}); err != nil {
		return fmt.Errorf("apply manifest: %w", err)
	}

	sh := shell.New(ctx, root, cmd.OutOrStdout(), cmd.ErrOrStderr(),
		shell.WithLogger(logger),
		shell.WithStdin(cmd.InOrStdin()),
	)
	return fn(&session{logger: logger, rt: rt, sh: sh})
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// runScript runs one command per input line. The status of the last
// command becomes the exit status.
func runScript(sh *shell.Shell, in io.Reader, stderr io.Writer) error {
	var last int
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		code, err := sh.Run(scanner.Text())
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			if code == 0 {
				code = 1
			}
		}
		last = int(code)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if last != 0 {
		return &exitError{code: last}
	}
	return nil
}
