package file

// ExitCode is the 32-bit status returned by an executable
type ExitCode = int32

// API is the opaque host handle passed to executables. The store never
// inspects it.
type API = any

// Executable is a host-supplied program bound to a File.
// Implementations must be safe to call from any goroutine.
type Executable interface {
	Execute(api API, args []string) ExitCode
}

// Func adapts a function that already returns a 32-bit exit code
type Func func(api API, args []string) ExitCode

func (f Func) Execute(api API, args []string) ExitCode {
	return f(api, args)
}

// ByteFunc adapts a function returning an 8-bit exit code. The code is
// widened without sign reinterpretation, so 255 stays 255.
type ByteFunc func(api API, args []string) uint8

func (f ByteFunc) Execute(api API, args []string) ExitCode {
	return ExitCode(f(api, args))
}
