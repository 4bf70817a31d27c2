package e2e

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/creack/pty"

	"github.com/nick/transcriber/internal/buffer"
)

const maxTranscriptBytes = 1 << 20 // 1 MiB

// Session is a transcriber process attached to a PTY.
type Session struct {
	Cmd    *exec.Cmd
	PTY    *os.File
	cancel context.CancelFunc

	raw *buffer.Ring

	mu      sync.Mutex
	readErr error
	stopped bool
	waitErr error

	done   chan struct{}
	exited chan struct{}
}

func startSession(binary string, args []string, dir string, env []string) (*Session, error) {
	ctx, cancel := context.WithCancel(context.Background())

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	cmd.Env = mergeEnv(env)

	ptyFile, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 30, Cols: 100})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("start session: %w", err)
	}

	s := &Session{
		Cmd:    cmd,
		PTY:    ptyFile,
		cancel: cancel,
		raw:    buffer.NewRing(maxTranscriptBytes),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go s.readLoop()
	go func() {
		err := cmd.Wait()
		s.mu.Lock()
		s.waitErr = err
		s.mu.Unlock()
		close(s.exited)
	}()
	return s, nil
}

func (s *Session) readLoop() {
	defer close(s.done)

	buf := make([]byte, 4096)
	for {
		n, err := s.PTY.Read(buf)
		if n > 0 {
			_, _ = s.raw.Write(buf[:n])
		}
		if err != nil {
			if !errors.Is(err, os.ErrClosed) && !errors.Is(err, syscall.EIO) {
				s.mu.Lock()
				s.readErr = err
				s.mu.Unlock()
			}
			return
		}
	}
}

// SendKeys writes a series of key sequences to the PTY.
func (s *Session) SendKeys(keys ...KeySequence) error {
	for _, k := range keys {
		if _, err := s.PTY.Write([]byte(k)); err != nil {
			return fmt.Errorf("send keys: %w", err)
		}
	}
	return nil
}

// SendString writes raw input to the PTY.
func (s *Session) SendString(input string) error {
	return s.SendKeys(KeySequence(input))
}

// CleanOutput returns the transcript with escape sequences removed.
func (s *Session) CleanOutput() string {
	return ansi.Strip(string(s.raw.Bytes()))
}

// WaitFor waits until the clean transcript contains substring.
func (s *Session) WaitFor(substring string, timeout time.Duration) error {
	deadline := time.After(timeout)
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if strings.Contains(s.CleanOutput(), substring) {
				return nil
			}
		case <-deadline:
			return fmt.Errorf("timeout waiting for %q", substring)
		}
	}
}

// WaitExit waits for the process to exit on its own and returns its exit
// code.
func (s *Session) WaitExit(timeout time.Duration) (int, error) {
	select {
	case <-s.exited:
	case <-time.After(timeout):
		return -1, fmt.Errorf("process still running after %s", timeout)
	}
	s.mu.Lock()
	err := s.waitErr
	s.mu.Unlock()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	default:
		return -1, err
	}
}

// Stop interrupts the process, waits for it and closes the PTY.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	defer s.cancel()
	defer s.PTY.Close()

	select {
	case <-s.exited:
	default:
		if s.Cmd.Process != nil {
			_ = s.Cmd.Process.Signal(syscall.SIGINT)
		}
		select {
		case <-s.exited:
		case <-time.After(5 * time.Second):
			_ = s.Cmd.Process.Kill()
			<-s.exited
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readErr
}
