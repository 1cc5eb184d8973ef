package testsupport

import (
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/oukeidos/subburn/internal/ffmpeg"
)

// FakeProcess stands in for a running ffmpeg. Scripted processes replay a
// fixed stderr and exit at once; streaming ones are driven by the test.
type FakeProcess struct {
	stderr io.Reader
	pw     *io.PipeWriter

	mu       sync.Mutex
	exitCode int
	exited   chan struct{}
	once     sync.Once

	terminations atomic.Int32
}

// NewScriptedProcess replays lines on stderr and then exits with code.
func NewScriptedProcess(code int, lines ...string) *FakeProcess {
	p := &FakeProcess{
		stderr:   strings.NewReader(strings.Join(lines, "\n") + "\n"),
		exitCode: code,
		exited:   make(chan struct{}),
	}
	close(p.exited)
	return p
}

// NewStreamingProcess returns a process whose stderr stays open until Exit
// or Terminate.
func NewStreamingProcess() *FakeProcess {
	pr, pw := io.Pipe()
	return &FakeProcess{
		stderr: pr,
		pw:     pw,
		exited: make(chan struct{}),
	}
}

// Emit writes one stderr line. It blocks until the reader consumes it.
func (p *FakeProcess) Emit(line string) {
	if p.pw == nil {
		return
	}
	_, _ = io.WriteString(p.pw, line+"\n")
}

// Exit closes stderr and lets Wait return code.
func (p *FakeProcess) Exit(code int) {
	p.once.Do(func() {
		p.mu.Lock()
		p.exitCode = code
		p.mu.Unlock()
		if p.pw != nil {
			_ = p.pw.Close()
		}
		close(p.exited)
	})
}

func (p *FakeProcess) Diagnostics() io.Reader { return p.stderr }

func (p *FakeProcess) Wait() (int, error) {
	<-p.exited
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode, nil
}

// Terminate behaves like a signal kill: exit code -1.
func (p *FakeProcess) Terminate() error {
	p.terminations.Add(1)
	p.Exit(-1)
	return nil
}

// Terminations reports how many times Terminate was called.
func (p *FakeProcess) Terminations() int { return int(p.terminations.Load()) }

func (p *FakeProcess) Pid() int { return 4242 }

// SpawnCall records one Spawn invocation.
type SpawnCall struct {
	Binary string
	Args   []string
}

// FakeSpawner hands out queued processes in order.
type FakeSpawner struct {
	mu    sync.Mutex
	queue []*FakeProcess
	calls []SpawnCall

	// Err, when set, fails every Spawn.
	Err error
}

func NewFakeSpawner(procs ...*FakeProcess) *FakeSpawner {
	return &FakeSpawner{queue: procs}
}

// Push queues another process.
func (s *FakeSpawner) Push(p *FakeProcess) {
	s.mu.Lock()
	s.queue = append(s.queue, p)
	s.mu.Unlock()
}

func (s *FakeSpawner) Spawn(binary string, args []string) (ffmpeg.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, SpawnCall{Binary: binary, Args: append([]string(nil), args...)})
	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.queue) == 0 {
		return nil, errors.New("fake spawner: no process queued")
	}
	p := s.queue[0]
	s.queue = s.queue[1:]
	return p, nil
}

// Calls returns a copy of the recorded invocations.
func (s *FakeSpawner) Calls() []SpawnCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SpawnCall(nil), s.calls...)
}
