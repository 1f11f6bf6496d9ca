package wasmexec

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/vfs/file"
)

type config struct {
	stdin            io.Reader
	stdout           io.Writer
	stderr           io.Writer
	mount            fs.FS
	env              map[string]string
	mountPath        string
	memoryLimitPages uint32
}

// Option configures a Runtime
type Option func(*config)

// WithMemoryLimitPages caps guest memory in 64KiB pages.
// 0 keeps the wazero default.
func WithMemoryLimitPages(pages uint32) Option {
	return func(c *config) { c.memoryLimitPages = pages }
}

// WithMount exposes fsys to every guest at guestPath, typically a tree.FS
// mounted at "/".
func WithMount(fsys fs.FS, guestPath string) Option {
	return func(c *config) {
		c.mount = fsys
		c.mountPath = guestPath
	}
}

// WithStdio sets the streams used when the host API handle does not
// implement Stdio. Nil streams are discarded.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(c *config) {
		c.stdin = stdin
		c.stdout = stdout
		c.stderr = stderr
	}
}

// WithEnv sets environment variables visible to every guest
func WithEnv(env map[string]string) Option {
	return func(c *config) { c.env = env }
}

// Runtime compiles WASI command modules into Programs
type Runtime struct {
	runtime wazero.Runtime
	cfg     config
}

// New creates a wazero runtime with WASI preview1 host functions
// instantiated. Guests stop when the context of their run is done.
func New(ctx context.Context, opts ...Option) (*Runtime, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	runtimeCfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if cfg.memoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.memoryLimitPages)
	}

	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		_ = runtime.Close(ctx)
		return nil, fmt.Errorf("instantiate wasi: %w", err)
	}

	return &Runtime{runtime: runtime, cfg: cfg}, nil
}

// Close releases the runtime and every Program compiled by it
func (r *Runtime) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}

// Compile validates and compiles wasm. name becomes argv[0] of the guest.
func (r *Runtime) Compile(ctx context.Context, name string, wasm []byte) (*Program, error) {
	compiled, err := r.runtime.CompileModule(ctx, wasm)
	if err != nil {
		Logger().Debug("compile failed", zap.String("program", name), zap.Error(err))
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return &Program{runtime: r, compiled: compiled, name: name}, nil
}

// Load compiles wasm and returns an executable File holding it as
// content.
func (r *Runtime) Load(ctx context.Context, name string, wasm []byte, perms file.Permissions) (*file.File, error) {
	prog, err := r.Compile(ctx, name, wasm)
	if err != nil {
		return nil, err
	}
	meta := file.NewMetadata(file.TypeExecutable, perms, time.Now().UTC())
	return file.New(meta, wasm, prog), nil
}

func (r *Runtime) moduleConfig(api file.API, argv []string) wazero.ModuleConfig {
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithStartFunctions().
		WithArgs(argv...).
		WithSysWalltime().
		WithSysNanotime()

	stdin, stdout, stderr := r.cfg.stdin, r.cfg.stdout, r.cfg.stderr
	if s, ok := api.(Stdio); ok {
		stdin, stdout, stderr = s.Stdin(), s.Stdout(), s.Stderr()
	}
	if stdin != nil {
		cfg = cfg.WithStdin(stdin)
	}
	if stdout != nil {
		cfg = cfg.WithStdout(stdout)
	}
	if stderr != nil {
		cfg = cfg.WithStderr(stderr)
	}

	for k, v := range r.cfg.env {
		cfg = cfg.WithEnv(k, v)
	}

	if r.cfg.mount != nil {
		cfg = cfg.WithFSConfig(wazero.NewFSConfig().WithFSMount(r.cfg.mount, r.cfg.mountPath))
	}
	return cfg
}
