// Package ioloop pumps bytes between a PTY master and two bounded
// buffers without ever blocking indefinitely, so a flooding child cannot
// stall the scenario runner.
package ioloop

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// ErrPollFailed wraps a poll(2) failure other than EINTR.
var ErrPollFailed = errors.New("ioloop: poll failed")

// ErrReadFailed wraps a master read failure other than EAGAIN.
var ErrReadFailed = errors.New("ioloop: read failed")

// ErrWriteFailed wraps a master write failure other than EAGAIN.
var ErrWriteFailed = errors.New("ioloop: write failed")

// Mode selects overflow behavior for the output buffer.
type Mode int

const (
	// Lossy drops the oldest output bytes on overflow (the default: tests
	// must keep making progress against unbounded child output).
	Lossy Mode = iota
	// Strict fails with ErrBufferOverflow on overflow.
	Strict
)

// Master is the minimal surface the loop needs from a PTY host.
type Master interface {
	Fd() int
	Read(buf []byte) (n int, eof bool, err error)
	Write(buf []byte) (n int, err error)
}

// Loop pumps bytes between a Master and its input/output buffers.
type Loop struct {
	master Master
	mode   Mode

	In  *Buffer // bytes waiting to be written to the master
	Out *Buffer // bytes read from the master, waiting for the parser

	readChunk int

	BytesRead    uint64
	BytesWritten uint64
	BytesDropped uint64

	EOF bool
}

// Option configures a new Loop.
type Option func(*Loop)

// WithMode sets strict or lossy overflow behavior for Out.
func WithMode(m Mode) Option {
	return func(l *Loop) { l.mode = m }
}

// WithReadChunk sets the per-poll read chunk size (default 4096).
func WithReadChunk(n int) Option {
	return func(l *Loop) { l.readChunk = n }
}

// New constructs a Loop over master with input/output buffers bounded at
// bufSize bytes.
func New(master Master, bufSize int, opts ...Option) *Loop {
	l := &Loop{
		master:    master,
		In:        NewBuffer(bufSize),
		Out:       NewBuffer(bufSize),
		readChunk: 4096,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Tick polls the master for readability/writability with the given
// timeout, drains readable bytes into Out, and writes as much of In as
// the kernel accepts. It returns the bytes read and written this tick and
// never blocks longer than timeout.
func (l *Loop) Tick(timeout time.Duration) (bytesRead, bytesWritten int, err error) {
	fds := []unix.PollFd{{Fd: int32(l.master.Fd()), Events: unix.POLLIN}}
	if l.In.Len() > 0 {
		fds[0].Events |= unix.POLLOUT
	}

	ms := int(timeout / time.Millisecond)
	if timeout > 0 && ms == 0 {
		ms = 1
	}
	n, perr := unix.Poll(fds, ms)
	if perr != nil {
		if errors.Is(perr, unix.EINTR) {
			return 0, 0, nil
		}
		return 0, 0, errFmt(ErrPollFailed, perr)
	}
	if n == 0 {
		return 0, 0, nil
	}

	revents := fds[0].Revents
	if revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
		bytesRead, err = l.drainRead()
		if err != nil {
			return bytesRead, 0, err
		}
	}
	if revents&unix.POLLOUT != 0 && l.In.Len() > 0 {
		bytesWritten, err = l.drainWrite()
		if err != nil {
			return bytesRead, bytesWritten, err
		}
	}
	return bytesRead, bytesWritten, nil
}

func (l *Loop) drainRead() (int, error) {
	total := 0
	buf := make([]byte, l.readChunk)
	for {
		n, eof, err := l.master.Read(buf)
		if err != nil {
			return total, errFmt(ErrReadFailed, err)
		}
		if eof {
			l.EOF = true
			return total, nil
		}
		if n == 0 {
			return total, nil
		}
		total += n
		l.BytesRead += uint64(n)
		switch l.mode {
		case Strict:
			if err := l.Out.Push(buf[:n]); err != nil {
				return total, err
			}
		default:
			l.BytesDropped += uint64(l.Out.PushLossy(buf[:n]))
		}
		if n < len(buf) {
			return total, nil
		}
	}
}

func (l *Loop) drainWrite() (int, error) {
	pending := l.In.Peek(l.In.Len())
	n, err := l.master.Write(pending)
	if err != nil {
		return 0, errFmt(ErrWriteFailed, err)
	}
	if n > 0 {
		l.In.Take(n)
		l.BytesWritten += uint64(n)
	}
	return n, nil
}

func errFmt(sentinel, cause error) error {
	return fmt.Errorf("%w: %w", sentinel, cause)
}
