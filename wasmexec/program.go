package wasmexec

import (
	"context"
	"errors"
	"io"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/wippyai/vfs/file"
)

const (
	// ExitCannotExecute is returned when the guest cannot be instantiated
	// or has no _start export.
	ExitCannotExecute file.ExitCode = 126
	// ExitTrap is returned when the guest traps.
	ExitTrap file.ExitCode = 134
	// ExitCanceled is returned when the run's context is cancelled or its
	// deadline passes while the guest is running.
	ExitCanceled file.ExitCode = 130
)

// Stdio is implemented by host API handles that want guest stdio wired to
// their own streams. Nil streams are discarded.
type Stdio interface {
	Stdin() io.Reader
	Stdout() io.Writer
	Stderr() io.Writer
}

// ContextProvider is implemented by host API handles that carry a context
// for cancelling the guest. A guest still running when the context is done
// is stopped and reports ExitCanceled.
type ContextProvider interface {
	Context() context.Context
}

// Program is a compiled WASI command module. It implements
// file.Executable; every Execute call runs in a fresh instance, so a
// Program is safe for concurrent use.
type Program struct {
	runtime  *Runtime
	compiled wazero.CompiledModule
	name     string
}

var _ file.Executable = (*Program)(nil)

// Name returns argv[0] passed to the guest
func (p *Program) Name() string { return p.name }

// Execute instantiates the module, runs _start and returns the exit code
// passed to proc_exit, or 0 when _start returns normally.
func (p *Program) Execute(api file.API, args []string) file.ExitCode {
	ctx := context.Background()
	if c, ok := api.(ContextProvider); ok {
		ctx = c.Context()
	}

	argv := append([]string{p.name}, args...)
	mod, err := p.runtime.runtime.InstantiateModule(ctx, p.compiled, p.runtime.moduleConfig(api, argv))
	if err != nil {
		Logger().Warn("instantiate failed", zap.String("program", p.name), zap.Error(err))
		return ExitCannotExecute
	}
	defer mod.Close(ctx)

	start := mod.ExportedFunction("_start")
	if start == nil {
		Logger().Warn("missing _start export", zap.String("program", p.name))
		return ExitCannotExecute
	}

	_, err = start.Call(ctx)
	return exitCode(p.name, err)
}

func exitCode(name string, err error) file.ExitCode {
	if err == nil {
		return 0
	}
	var exitErr *sys.ExitError
	if errors.As(err, &exitErr) {
		switch code := exitErr.ExitCode(); code {
		case sys.ExitCodeContextCanceled, sys.ExitCodeDeadlineExceeded:
			Logger().Debug("program cancelled", zap.String("program", name), zap.Uint32("reason", code))
			return ExitCanceled
		default:
			return int32(code)
		}
	}
	Logger().Warn("program trapped", zap.String("program", name), zap.Error(err))
	return ExitTrap
}
