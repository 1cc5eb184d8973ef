package render

import (
	"bufio"
	"bytes"
	"io"
	"log/slog"
	"strings"

	"github.com/oukeidos/subburn/internal/ffmpeg"
)

const (
	maxDiagnosticLine = 1 << 20
	tailSize          = 5
)

// monitor turns ffmpeg's diagnostic stream into progress events and keeps
// the last few log lines for the failure detail.
type monitor struct {
	jobID  string
	events *Channel
	log    *slog.Logger
	tail   []string
}

func newMonitor(jobID string, events *Channel, log *slog.Logger) *monitor {
	return &monitor{jobID: jobID, events: events, log: log}
}

// run consumes r until EOF. Lines that are not progress samples are never
// fatal. The stream is always read to the end so ffmpeg cannot block on a
// full pipe.
func (m *monitor) run(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxDiagnosticLine)
	scanner.Split(scanDiagnosticLines)

	for scanner.Scan() {
		line := scanner.Text()
		if us, ok := ffmpeg.ParseProgressLine(line); ok {
			m.events.Push(m.stamp(Progress(ffmpeg.MicrosToSeconds(us))))
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" || ffmpeg.IsProgressField(line) {
			continue
		}
		m.remember(line)
		m.log.Debug("ffmpeg", "job_id", m.jobID, "line", line)
	}
	if err := scanner.Err(); err != nil {
		m.log.Warn("ffmpeg diagnostics unreadable; discarding rest", "job_id", m.jobID, "error", err)
		_, _ = io.Copy(io.Discard, r)
	}
}

func (m *monitor) stamp(e Event) Event {
	e.JobID = m.jobID
	return e
}

func (m *monitor) remember(line string) {
	if len(m.tail) == tailSize {
		copy(m.tail, m.tail[1:])
		m.tail = m.tail[:tailSize-1]
	}
	m.tail = append(m.tail, line)
}

func (m *monitor) detail() string {
	return strings.Join(m.tail, "\n")
}

// scanDiagnosticLines splits on '\n' or '\r'. ffmpeg rewrites its status
// line with bare carriage returns.
func scanDiagnosticLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
