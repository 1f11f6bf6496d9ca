package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/vfs/file"
	"github.com/wippyai/vfs/wasmexec"
)

// Builtins returns the Go executables a manifest can reference by name
func Builtins() map[string]file.Executable {
	return map[string]file.Executable{
		"echo":  file.Func(echo),
		"true":  file.ByteFunc(func(file.API, []string) uint8 { return 0 }),
		"false": file.ByteFunc(func(file.API, []string) uint8 { return 1 }),
	}
}

func echo(api file.API, args []string) file.ExitCode {
	out := io.Discard
	if s, ok := api.(wasmexec.Stdio); ok && s.Stdout() != nil {
		out = s.Stdout()
	}
	if _, err := fmt.Fprintln(out, strings.Join(args, " ")); err != nil {
		return 1
	}
	return 0
}
