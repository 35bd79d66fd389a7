package keys

import "errors"

// ErrProcessExited is returned by Inject when the target process has
// already terminated.
var ErrProcessExited = errors.New("keys: process exited")

// Writer is the minimal surface the injector needs to deliver bytes; it
// is satisfied by *ioloop.Buffer through its Push method, and the runner
// passes the I/O loop's input buffer directly.
type Writer interface {
	Push(p []byte) error
}

// Injector writes encoded key sequences through a Writer, failing fast if
// told the process has already exited.
type Injector struct {
	w        Writer
	isExited func() bool
}

// New constructs an Injector. isExited may be nil, in which case Inject
// never short-circuits on process state.
func New(w Writer, isExited func() bool) *Injector {
	return &Injector{w: w, isExited: isExited}
}

// Inject encodes seq and writes it, returning the number of bytes
// written.
func (in *Injector) Inject(seq Sequence) (int, error) {
	if in.isExited != nil && in.isExited() {
		return 0, ErrProcessExited
	}
	b, err := seq.Bytes()
	if err != nil {
		return 0, err
	}
	if err := in.w.Push(b); err != nil {
		return 0, err
	}
	return len(b), nil
}

// TypeLine injects the literal text s followed by Enter.
func (in *Injector) TypeLine(s string) (int, error) {
	n, err := in.Inject(Text(s))
	if err != nil {
		return n, err
	}
	n2, err := in.Inject(Special(Enter))
	return n + n2, err
}
