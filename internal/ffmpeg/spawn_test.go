//go:build unix

package ffmpeg

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestExecSpawnerCapturesStderrAndExitCode(t *testing.T) {
	proc, err := ExecSpawner{}.Spawn("sh", []string{"-c", "echo out_time_ms=1000000 >&2; echo ignored; exit 3"})
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	data, err := io.ReadAll(proc.Diagnostics())
	if err != nil {
		t.Fatalf("read stderr: %v", err)
	}
	if strings.TrimSpace(string(data)) != "out_time_ms=1000000" {
		t.Fatalf("stderr = %q", data)
	}
	code, err := proc.Wait()
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if code != 3 {
		t.Fatalf("exit code = %d, want 3", code)
	}
	if err := proc.Terminate(); err != nil {
		t.Fatalf("Terminate() after exit = %v", err)
	}
}

func TestExecSpawnerTerminate(t *testing.T) {
	proc, err := ExecSpawner{}.Spawn("sh", []string{"-c", "sleep 30"})
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	if err := proc.Terminate(); err != nil {
		t.Fatalf("Terminate() error = %v", err)
	}

	done := make(chan int, 1)
	go func() {
		_, _ = io.Copy(io.Discard, proc.Diagnostics())
		code, _ := proc.Wait()
		done <- code
	}()
	select {
	case code := <-done:
		if code == 0 {
			t.Fatalf("terminated process reported success")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("process did not exit after Terminate")
	}
}

func TestExecSpawnerMissingBinary(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-ffmpeg")
	if _, err := (ExecSpawner{}).Spawn(missing, nil); err == nil {
		t.Fatalf("expected spawn error")
	}
}
