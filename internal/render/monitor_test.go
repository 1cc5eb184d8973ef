package render

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runMonitor(t *testing.T, input string) (*monitor, []Event) {
	t.Helper()
	ch := NewChannel()
	m := newMonitor("job", ch, discardLogger())
	m.run(strings.NewReader(input))
	return m, ch.Drain()
}

func seconds(events []Event) []int64 {
	out := make([]int64, 0, len(events))
	for _, e := range events {
		out = append(out, e.Seconds)
	}
	return out
}

func TestMonitorParsesProgress(t *testing.T) {
	_, events := runMonitor(t, "out_time_ms=1000000\ngarbage\nout_time_ms=2500000\n")
	got := seconds(events)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("seconds = %v, want [1 2]", got)
	}
	for _, e := range events {
		if e.JobID != "job" || e.Kind != KindProgress {
			t.Fatalf("unexpected event %+v", e)
		}
	}
}

func TestMonitorSplitsCarriageReturns(t *testing.T) {
	input := "frame=1 fps=0.0 q=0.0 size=0kB\rout_time_ms=3000000\r\nframe=2\rout_time_ms=4000000"
	_, events := runMonitor(t, input)
	if got := seconds(events); len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Fatalf("seconds = %v, want [3 4]", got)
	}
}

func TestMonitorDropsMalformedValues(t *testing.T) {
	input := strings.Join([]string{
		"out_time_ms=N/A",
		"out_time_ms=-9223372036854775807",
		"out_time_ms=",
		"out_time_us=5000000",
		"out_time=00:00:05.000000",
	}, "\n")
	_, events := runMonitor(t, input)
	if len(events) != 0 {
		t.Fatalf("expected no events, got %v", events)
	}
}

func TestMonitorKeepsDiagnosticTail(t *testing.T) {
	var lines []string
	for i := 0; i < 8; i++ {
		lines = append(lines, "line "+string(rune('a'+i)))
		lines = append(lines, "progress=continue")
	}
	m, _ := runMonitor(t, strings.Join(lines, "\n"))
	want := "line d\nline e\nline f\nline g\nline h"
	if got := m.detail(); got != want {
		t.Fatalf("detail = %q, want %q", got, want)
	}
}

func TestMonitorDrainsAfterOverlongLine(t *testing.T) {
	input := "out_time_ms=1000000\n" + strings.Repeat("x", 2<<20) + "\nout_time_ms=3000000\n"
	r := strings.NewReader(input)
	ch := NewChannel()
	newMonitor("job", ch, discardLogger()).run(r)

	if r.Len() != 0 {
		t.Fatalf("%d bytes left unread", r.Len())
	}
	events := ch.Drain()
	if len(events) != 1 || events[0].Seconds != 1 {
		t.Fatalf("events = %v, want [Progress(1)]", events)
	}
}
