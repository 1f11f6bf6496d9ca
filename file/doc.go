// Package file provides the value types stored in the tree: Permissions,
// Metadata, File and the Executable capability.
//
// A File is invocable when an Executable is bound to it. The FileType tag
// is descriptive only: a TypeExecutable file with no capability fails with
// NotAnExecutable, and a TypeFile file may still carry one.
//
//	echo := file.Func(func(api file.API, args []string) file.ExitCode {
//		fmt.Println(strings.Join(args, " "))
//		return 0
//	})
//	f := file.New(file.NewMetadata(file.TypeExecutable, perms, time.Now()), nil, echo)
//	code, err := f.Execute(host, []string{"hi"}, fspath.New("/bin/echo"))
//
// Two adapters cover the common function shapes: Func for functions
// returning a 32-bit code and ByteFunc for functions returning a uint8,
// which is widened preserving its value.
package file
