// Package errors provides the IoError taxonomy for the file store.
//
// Every IoError carries a stable numeric Code for host-side dispatch, a
// human-readable message and, usually, the path of the resource involved:
//
//	CannotWrite     101
//	CannotRead      102
//	NotFound        103
//	NotUtf8         104
//	NotAnExecutable 105
//
// Use the convenience constructors for the common cases:
//
//	err := errors.NotUtf8(fspath.New("/etc/motd"))
//
// Or the Builder when a custom message or cause is needed:
//
//	err := errors.New(errors.CodeCannotRead).
//		Path(p).
//		Message("read %s", p).
//		Cause(ioErr).
//		Build()
//
// A lookup miss in the tree is not an error; it is reported as an absent
// value. IoError is reserved for operations the resource's state disallows.
// CannotWrite, CannotRead and NotFound are not raised by the store itself;
// they exist for hosts that build I/O wrappers on top of it.
//
// All errors support errors.Is (matching on Code) and errors.As:
//
//	if errors.Is(err, vfserrors.ErrNotAnExecutable) { ... }
package errors
