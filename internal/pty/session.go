package pty

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"github.com/charmbracelet/x/ansi"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"debugdeck/internal/telemetry"
)

// Options configures a Session.
type Options struct {
	Runner Runner
	Shell  string // defaults to $SHELL, then /bin/sh
	Dir    string
	Size   Size
	Tracer oteltrace.Tracer
}

// Session is one running command.
type Session struct {
	Command string

	cmd    *exec.Cmd
	rwc    io.ReadWriteCloser
	runner Runner
	lines  chan string
	done   chan struct{}
	stop   chan struct{}
	span   oteltrace.Span

	stopOnce sync.Once

	mu       sync.Mutex
	err      error
	exitCode int
}

// Start runs command through the shell. Output lines, with terminal escape
// sequences removed, arrive on Lines until the command exits.
func Start(ctx context.Context, command string, opts Options) (*Session, error) {
	if strings.TrimSpace(command) == "" {
		return nil, errors.New("empty command")
	}
	if opts.Runner == nil {
		opts.Runner = &CreackPTY{}
	}
	if opts.Shell == "" {
		opts.Shell = os.Getenv("SHELL")
	}
	if opts.Shell == "" {
		opts.Shell = "/bin/sh"
	}
	if opts.Size.Rows == 0 || opts.Size.Cols == 0 {
		opts.Size = Size{Rows: 24, Cols: 80}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("pty")
	}

	ctx, span := tracer.Start(ctx, "pty.Run", oteltrace.WithAttributes(
		attribute.String("pty.command", command),
	))

	cmd := exec.CommandContext(ctx, opts.Shell, "-c", command)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), "TERM=dumb")
	// Own session so Stop and cancellation reach the whole pipeline.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Cancel = func() error { return killGroup(cmd) }

	rwc, err := opts.Runner.Start(ctx, cmd, opts.Size)
	if err != nil {
		_ = telemetry.RecordError(span, err)
		span.End()
		return nil, fmt.Errorf("start %q: %w", command, err)
	}

	s := &Session{
		Command:  command,
		cmd:      cmd,
		rwc:      rwc,
		runner:   opts.Runner,
		lines:    make(chan string, 64),
		done:     make(chan struct{}),
		stop:     make(chan struct{}),
		span:     span,
		exitCode: -1,
	}
	go s.read()
	return s, nil
}

// Lines returns the output channel. It is closed after the command exits.
func (s *Session) Lines() <-chan string {
	return s.lines
}

// Done is closed once the command has exited and output is drained.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the command exits and returns its error.
func (s *Session) Wait() error {
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ExitCode returns the exit status, or -1 while running or when killed.
func (s *Session) ExitCode() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitCode
}

// Resize changes the PTY size.
func (s *Session) Resize(size Size) error {
	return s.runner.Resize(s.rwc, size)
}

// Stop kills the command and every process it started, then closes the
// terminal. Output not yet read is discarded. Stop is safe to call more than
// once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		_ = killGroup(s.cmd)
		_ = s.rwc.Close()
	})
}

func (s *Session) stopped() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

func (s *Session) read() {
	sc := bufio.NewScanner(s.rwc)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
scan:
	for sc.Scan() {
		select {
		case s.lines <- CleanLine(sc.Text()):
		case <-s.stop:
			break scan
		}
	}
	readErr := sc.Err()
	if s.stopped() {
		readErr = nil
	}
	close(s.lines)

	waitErr := s.cmd.Wait()
	_ = s.rwc.Close()

	s.mu.Lock()
	if s.cmd.ProcessState != nil {
		s.exitCode = s.cmd.ProcessState.ExitCode()
	}
	switch {
	case waitErr != nil:
		s.err = waitErr
	case readErr != nil && !isEIO(readErr):
		s.err = readErr
	}
	err := s.err
	code := s.exitCode
	s.mu.Unlock()

	s.span.SetAttributes(
		attribute.Int("pty.exit_code", code),
		attribute.Bool("pty.stopped", s.stopped()),
	)
	if !s.stopped() {
		_ = telemetry.RecordError(s.span, err)
	}
	s.span.End()
	close(s.done)
}

// CleanLine strips escape sequences and carriage returns.
func CleanLine(s string) string {
	s = ansi.Strip(s)
	if i := strings.LastIndexByte(s, '\r'); i >= 0 {
		if rest := s[i+1:]; rest != "" {
			return rest
		}
		s = strings.TrimRight(s, "\r")
	}
	return s
}

// killGroup sends SIGKILL to the command's process group.
func killGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		return cmd.Process.Kill()
	}
	return nil
}

// Reading a PTY master after the child exits yields EIO on Linux.
func isEIO(err error) bool {
	return errors.Is(err, syscall.EIO)
}
