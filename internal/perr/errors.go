// Package perr provides the structured error type the pool's public
// surface returns from submission and completion paths.
package perr

import (
	"errors"
	"syscall"

	"github.com/valyala/bytebufferpool"
)

// Kind is the high-level error category carried on every *Error,
// mirroring the taxonomy a caller needs to branch on without parsing
// a message string.
type Kind string

const (
	KindInvalid  Kind = "invalid argument"
	KindResource Kind = "resource exhausted"
	KindIO       Kind = "I/O error"
	KindEOF      Kind = "end of stream"
	KindShutdown Kind = "pool shut down"
)

// Error is the structured error returned by the pool and its Jobs.
type Error struct {
	Op    string        // operation that failed, e.g. "submit_read", "register"
	Fd    int           // descriptor involved, -1 if not applicable
	Code  Kind          // high-level category
	Errno syscall.Errno // kernel errno, 0 if not applicable
	Msg   string        // human-readable detail
	Inner error         // wrapped error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString("iomp: ")
	if e.Op != "" {
		buf.WriteString(e.Op)
		buf.WriteString(": ")
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	buf.WriteString(msg)

	if e.Fd >= 0 {
		buf.WriteString(" (fd=")
		buf.B = appendInt(buf.B, e.Fd)
		buf.WriteByte(')')
	}
	if e.Errno != 0 {
		buf.WriteString(" (errno=")
		buf.B = appendInt(buf.B, int(e.Errno))
		buf.WriteByte(')')
	}

	return buf.String()
}

func appendInt(dst []byte, v int) []byte {
	if v == 0 {
		return append(dst, '0')
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var tmp [20]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		dst = append(dst, '-')
	}
	return append(dst, tmp[i:]...)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is reports whether target shares this error's Kind.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}
	return false
}

// New creates a structured error with no descriptor or errno context.
func New(op string, code Kind, msg string) *Error {
	return &Error{Op: op, Fd: -1, Code: code, Msg: msg}
}

// NewWithErrno creates a structured error carrying a kernel errno.
func NewWithErrno(op string, fd int, code Kind, errno syscall.Errno) *Error {
	return &Error{Op: op, Fd: fd, Code: code, Errno: errno, Msg: errno.Error()}
}

// Wrap wraps an existing error with the failing operation's context.
// A nil inner error produces a nil *Error, mirroring errors.Wrap's
// convention for conditionally wrapping a fallible call's result.
func Wrap(op string, fd int, inner error) *Error {
	if inner == nil {
		return nil
	}

	if pe, ok := inner.(*Error); ok {
		return &Error{Op: op, Fd: pe.Fd, Code: pe.Code, Errno: pe.Errno, Msg: pe.Msg, Inner: pe.Inner}
	}

	var errno syscall.Errno
	if errors.As(inner, &errno) {
		return &Error{Op: op, Fd: fd, Code: KindFromErrno(errno), Errno: errno, Msg: errno.Error(), Inner: inner}
	}

	return &Error{Op: op, Fd: fd, Code: KindIO, Msg: inner.Error(), Inner: inner}
}

// KindFromErrno maps a kernel errno to the pool's error taxonomy.
func KindFromErrno(errno syscall.Errno) Kind {
	switch errno {
	case syscall.EINVAL, syscall.EBADF:
		return KindInvalid
	case syscall.EAGAIN, syscall.ENOMEM, syscall.EMFILE, syscall.ENFILE:
		return KindResource
	case syscall.EPIPE, syscall.ECONNRESET, syscall.ESHUTDOWN:
		return KindShutdown
	default:
		return KindIO
	}
}

// Is reports whether err is a structured *Error with the given Kind.
func Is(err error, code Kind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}
