package logger

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestPrettyHandler_Structural(t *testing.T) {
	var buf bytes.Buffer
	opts := &slog.HandlerOptions{Level: LevelDebug}
	h := NewPrettyHandler(&buf, opts, false)
	l := slog.New(h)

	t.Run("WithAttrs", func(t *testing.T) {
		buf.Reset()
		l2 := l.With("job_id", "abc-123")
		l2.Info("test message", "stage", "running")

		output := buf.String()
		if !strings.Contains(output, "job_id=") || !strings.Contains(output, "abc-123") {
			t.Errorf("output missing persistent attr: %q", output)
		}
		if !strings.Contains(output, "stage=") || !strings.Contains(output, "running") {
			t.Errorf("output missing record attr: %q", output)
		}
	})

	t.Run("WithGroup", func(t *testing.T) {
		buf.Reset()
		l2 := l.WithGroup("ffmpeg").With("crf", 18)
		l2.Info("encoder settings", "preset", "slow")

		output := buf.String()
		if !strings.Contains(output, "ffmpeg.crf=") || !strings.Contains(output, "18") {
			t.Errorf("output missing grouped persistent attr: %q", output)
		}
		if !strings.Contains(output, "ffmpeg.preset=") || !strings.Contains(output, "slow") {
			t.Errorf("output missing grouped record attr: %q", output)
		}
	})

	t.Run("NestedGroups", func(t *testing.T) {
		buf.Reset()
		l2 := l.WithGroup("outer").WithGroup("inner").With("key", "val")
		l2.Info("msg")

		output := buf.String()
		if !strings.Contains(output, "outer.inner.key=") || !strings.Contains(output, "val") {
			t.Errorf("output missing nested grouped attr: %q", output)
		}
	})
}

func TestShortenPathAttr(t *testing.T) {
	t.Run("AbsoluteUnixPath", func(t *testing.T) {
		got := ShortenPathAttr(nil, slog.String("video", "/home/user/Videos/episode01.mp4"))
		if got.Value.String() != "episode01.mp4" {
			t.Fatalf("got %q", got.Value.String())
		}
	})

	t.Run("WindowsPath", func(t *testing.T) {
		got := ShortenPathAttr(nil, slog.String("subtitle", `C:\Users\a\sub.ass`))
		if got.Value.String() != "sub.ass" {
			t.Fatalf("got %q", got.Value.String())
		}
	})

	t.Run("BareName", func(t *testing.T) {
		got := ShortenPathAttr(nil, slog.String("output", "out.mp4"))
		if got.Value.String() != "out.mp4" {
			t.Fatalf("got %q", got.Value.String())
		}
	})

	t.Run("OtherKeysUntouched", func(t *testing.T) {
		got := ShortenPathAttr(nil, slog.String("message", "/tmp/x/y"))
		if got.Value.String() != "/tmp/x/y" {
			t.Fatalf("unexpected rewrite: %q", got.Value.String())
		}
	})
}

func TestJSONSinkKeepsFullPaths(t *testing.T) {
	prevIsTerminal := isTerminal
	isTerminal = func(_ int) bool { return false }
	defer func() { isTerminal = prevIsTerminal }()

	prevStderr := os.Stderr
	_, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stderr = w
	defer func() {
		os.Stderr = prevStderr
		_ = w.Close()
	}()

	var logBuf bytes.Buffer
	Init(LevelInfo, &logBuf)
	Info("render started", "video", "/media/in/movie.mp4")

	if !strings.Contains(logBuf.String(), "/media/in/movie.mp4") {
		t.Fatalf("json sink lost full path: %q", logBuf.String())
	}
}

func TestPrettyHandler_NoColorWhenNotTTY(t *testing.T) {
	prevIsTerminal := isTerminal
	isTerminal = func(_ int) bool { return false }
	defer func() { isTerminal = prevIsTerminal }()

	prevStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stderr = w
	defer func() { os.Stderr = prevStderr }()

	Init(LevelInfo, nil)
	Info("test message", "key", "value")

	_ = w.Close()
	out, _ := io.ReadAll(r)
	if strings.Contains(string(out), "\033[") {
		t.Fatalf("unexpected ANSI codes in output: %q", string(out))
	}
}

func TestPrettyHandler_NoColorWhenLogFileEnabled(t *testing.T) {
	prevIsTerminal := isTerminal
	isTerminal = func(_ int) bool { return true }
	defer func() { isTerminal = prevIsTerminal }()

	prevStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stderr = w
	defer func() { os.Stderr = prevStderr }()

	var logBuf bytes.Buffer
	Init(LevelInfo, &logBuf)
	Info("test message", "key", "value")

	_ = w.Close()
	out, _ := io.ReadAll(r)
	if strings.Contains(string(out), "\033[") {
		t.Fatalf("unexpected ANSI codes in output: %q", string(out))
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": LevelDebug,
		"INFO":  LevelInfo,
		" warn": LevelWarn,
		"error": LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}
