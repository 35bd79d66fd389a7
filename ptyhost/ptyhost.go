// Package ptyhost owns the master/slave PTY pair a scenario's child
// process runs inside: spawning with a raw-mode slave, non-blocking
// reads/writes on the master, resize, and signal delivery.
package ptyhost

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrInvalidInput is returned by Resize when cols or rows is zero.
var ErrInvalidInput = errors.New("ptyhost: cols and rows must be non-zero")

// ErrProcessExited is returned by operations that require a live child.
var ErrProcessExited = errors.New("ptyhost: process has exited")

// Config describes how to spawn the child behind the PTY.
type Config struct {
	// Command is either a shell string (interpreted via "sh -c") or, if
	// Args is non-empty, Command is the program and Args are its
	// arguments.
	Command string
	Args    []string
	Cols    int
	Rows    int
	Env     []string
	Dir     string
	// Logger receives spawn/wait transition events at debug level. Nil
	// (the default) means zerolog.Nop() — silent unless verbose mode
	// supplies a real logger.
	Logger *zerolog.Logger
}

// WaitStatus is the non-blocking result of TryWait.
type WaitStatus struct {
	Running bool
	Exited  bool
	Code    int
	Signal  bool
	SigNum  int
}

// Host owns a spawned child and its PTY master file descriptor.
type Host struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	master *os.File
	log    zerolog.Logger

	waitErr  error
	waitDone chan struct{}
}

// Spawn allocates a PTY pair, starts the configured command with the
// slave as its controlling terminal, and sets the master non-blocking.
func Spawn(cfg Config) (*Host, error) {
	if cfg.Cols == 0 || cfg.Rows == 0 {
		return nil, ErrInvalidInput
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	var cmd *exec.Cmd
	if len(cfg.Args) > 0 {
		cmd = exec.Command(cfg.Command, cfg.Args...)
	} else {
		cmd = exec.Command("sh", "-c", cfg.Command)
	}
	if cfg.Env != nil {
		cmd.Env = cfg.Env
	}
	cmd.Dir = cfg.Dir

	master, slave, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("ptyhost: open pty: %w", err)
	}
	defer slave.Close()

	if err := pty.Setsize(master, &pty.Winsize{Rows: uint16(cfg.Rows), Cols: uint16(cfg.Cols)}); err != nil {
		master.Close()
		return nil, fmt.Errorf("ptyhost: setsize: %w", err)
	}
	// The slave starts in raw mode (no ICANON/ECHO/ISIG): every scenario
	// reads exactly the child's own output, not a line-buffered shell echo.
	if _, err := term.MakeRaw(int(slave.Fd())); err != nil {
		master.Close()
		return nil, fmt.Errorf("ptyhost: raw mode: %w", err)
	}

	cmd.Stdin = slave
	cmd.Stdout = slave
	cmd.Stderr = slave
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true}

	if err := cmd.Start(); err != nil {
		master.Close()
		return nil, fmt.Errorf("ptyhost: spawn: %w", err)
	}
	if err := syscall.SetNonblock(int(master.Fd()), true); err != nil {
		_ = master.Close()
		_ = cmd.Process.Kill()
		return nil, fmt.Errorf("ptyhost: set nonblocking: %w", err)
	}

	h := &Host{
		cmd:      cmd,
		master:   master,
		log:      log,
		waitDone: make(chan struct{}),
	}
	log.Debug().Int("pid", cmd.Process.Pid).Int("cols", cfg.Cols).Int("rows", cfg.Rows).Msg("ptyhost: spawned")
	go h.reap()
	return h, nil
}

func (h *Host) reap() {
	err := h.cmd.Wait()
	h.mu.Lock()
	h.waitErr = err
	h.mu.Unlock()
	h.log.Debug().Err(err).Msg("ptyhost: child wait returned")
	close(h.waitDone)
}

// Fd returns the master file descriptor, for use by the I/O loop's poller.
func (h *Host) Fd() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return int(h.master.Fd())
}

// Read is a non-blocking read from the PTY master. It returns (0, false,
// nil) on EAGAIN, and eof=true on hangup.
func (h *Host) Read(buf []byte) (n int, eof bool, err error) {
	h.mu.Lock()
	master := h.master
	h.mu.Unlock()
	n, err = master.Read(buf)
	if err != nil {
		if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK) {
			return 0, false, nil
		}
		if errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed) {
			return n, true, nil
		}
		return n, false, err
	}
	if n == 0 {
		return 0, true, nil
	}
	return n, false, nil
}

// Write is a non-blocking write to the PTY master. It returns (0, nil) on
// EAGAIN.
func (h *Host) Write(buf []byte) (n int, err error) {
	h.mu.Lock()
	master := h.master
	h.mu.Unlock()
	n, err = master.Write(buf)
	if err != nil && (errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK)) {
		return 0, nil
	}
	return n, err
}

// Resize updates the kernel window size and delivers SIGWINCH to the
// child's process group.
func (h *Host) Resize(cols, rows int) error {
	if cols == 0 || rows == 0 {
		return ErrInvalidInput
	}
	h.mu.Lock()
	master := h.master
	pid := h.cmd.Process.Pid
	h.mu.Unlock()
	if err := pty.Setsize(master, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
		return fmt.Errorf("ptyhost: resize: %w", err)
	}
	_ = unix.Kill(-pid, unix.SIGWINCH)
	return nil
}

// SendSignal delivers a POSIX signal to the child.
func (h *Host) SendSignal(sig unix.Signal) error {
	h.mu.Lock()
	pid := h.cmd.Process.Pid
	h.mu.Unlock()
	return unix.Kill(pid, sig)
}

// TryWait returns the child's status without blocking.
func (h *Host) TryWait() WaitStatus {
	select {
	case <-h.waitDone:
	default:
		return WaitStatus{Running: true}
	}
	h.mu.Lock()
	err := h.waitErr
	h.mu.Unlock()
	return statusFromWaitErr(err)
}

// Wait blocks until the child has terminated.
func (h *Host) Wait() WaitStatus {
	<-h.waitDone
	h.mu.Lock()
	err := h.waitErr
	h.mu.Unlock()
	return statusFromWaitErr(err)
}

func statusFromWaitErr(err error) WaitStatus {
	if err == nil {
		return WaitStatus{Exited: true, Code: 0}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if ws.Signaled() {
				return WaitStatus{Signal: true, SigNum: int(ws.Signal())}
			}
			return WaitStatus{Exited: true, Code: ws.ExitStatus()}
		}
		return WaitStatus{Exited: true, Code: exitErr.ExitCode()}
	}
	return WaitStatus{Exited: true, Code: -1}
}

// Close releases the master file descriptor. It does not terminate the
// child; callers should SendSignal then Wait first.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.master.Close()
}
