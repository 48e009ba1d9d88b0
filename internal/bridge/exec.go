package bridge

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sync"

	"github.com/atomicstack/winadmin/internal/logging/events"
)

// Result captures a finished command. A non-zero exit status is reported in
// ExitCode rather than as an error.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Process is a started, possibly still running, console.
type Process interface {
	Pid() int
	Exited() bool
	Kill() error
}

// Executor runs host programs.
type Executor interface {
	Output(ctx context.Context, argv []string) (Result, error)
	Start(ctx context.Context, argv []string) (Process, error)
}

// LocalExecutor runs programs on this machine.
type LocalExecutor struct{}

func (LocalExecutor) Output(ctx context.Context, argv []string) (Result, error) {
	events.Bridge.Exec(argv)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	hideWindow(cmd)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, err
}

func (LocalExecutor) Start(ctx context.Context, argv []string) (Process, error) {
	// Consoles outlive the request, so they are not bound to ctx.
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	p := &localProcess{cmd: cmd, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(p.done)
	}()
	events.Bridge.Spawn(p.Pid(), argv)
	return p, nil
}

type localProcess struct {
	cmd  *exec.Cmd
	done chan struct{}
	once sync.Once
}

func (p *localProcess) Pid() int { return p.cmd.Process.Pid }

func (p *localProcess) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *localProcess) Kill() error {
	var err error
	p.once.Do(func() { err = p.cmd.Process.Kill() })
	return err
}
