package ffmpeg

import (
	"errors"
	"io"
	"os/exec"
	"sync/atomic"
)

// Process is a running ffmpeg instance as seen by the render worker.
type Process interface {
	// Diagnostics is the stderr stream. It ends when ffmpeg closes the pipe.
	Diagnostics() io.Reader
	// Wait blocks until the process exits and returns its exit code. The
	// error is non-nil only when the exit status could not be collected.
	Wait() (int, error)
	// Terminate asks the process to stop. It is safe to call after exit.
	Terminate() error
	Pid() int
}

// Spawner starts processes. Tests replace it with a fake.
type Spawner interface {
	Spawn(binary string, args []string) (Process, error)
}

// ExecSpawner starts real processes via os/exec with stdout discarded,
// stderr piped and no console window.
type ExecSpawner struct{}

func (ExecSpawner) Spawn(binary string, args []string) (Process, error) {
	cmd := exec.Command(binary, args...)
	cmd.Stdout = io.Discard
	cmd.SysProcAttr = sysProcAttr()

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	// Start closes the pipe itself when it fails.
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd, stderr: stderr}, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	stderr io.ReadCloser
	exited atomic.Bool
}

func (p *execProcess) Diagnostics() io.Reader { return p.stderr }

func (p *execProcess) Pid() int { return p.cmd.Process.Pid }

// Wait reaps the process and closes the stderr pipe.
func (p *execProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	p.exited.Store(true)
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

func (p *execProcess) Terminate() error {
	// A reaped pid may already belong to someone else.
	if p.exited.Load() {
		return nil
	}
	return terminate(p.cmd)
}
