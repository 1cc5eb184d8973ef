// Package present holds the view state shared by the terminal and desktop
// front ends. A Model is owned by one UI goroutine and is not synchronized.
package present

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/oukeidos/subburn/internal/apperrors"
	"github.com/oukeidos/subburn/internal/probe"
	"github.com/oukeidos/subburn/internal/render"
	"github.com/oukeidos/subburn/internal/selection"
)

const (
	TriggerIdle    = "Render"
	TriggerRunning = "Rendering..."

	// LabelWidth is how many trailing characters of a path labels keep.
	LabelWidth = 40
)

type Model struct {
	TriggerEnabled bool
	TriggerText    string
	CancelEnabled  bool

	ProgressVisible bool
	// ProgressMax is the video length in seconds; zero means unknown.
	ProgressMax   int64
	ProgressValue int64

	VideoLabel    string
	SubtitleLabel string
	OutputLabel   string
	Status        string

	hasVideo bool
	running  bool
}

func NewModel() *Model {
	return &Model{
		TriggerText:   TriggerIdle,
		VideoLabel:    "No video selected",
		SubtitleLabel: "No subtitle selected",
		OutputLabel:   "No output selected",
		Status:        "Select a video to begin.",
	}
}

// SetDuration sizes the progress range from the probed video length.
func (m *Model) SetDuration(d probe.MediaDuration) {
	m.ProgressMax = d.Seconds()
}

// SetProbeError records a failed probe. Rendering stays possible with an
// unknown range.
func (m *Model) SetProbeError(err error) {
	m.ProgressMax = 0
	if err != nil {
		m.Status = "Duration unknown: " + apperrors.PublicMessage(err)
	}
}

// SetSelection refreshes the path labels and the trigger.
func (m *Model) SetSelection(sel selection.Selection) {
	m.VideoLabel = labelOr(sel.Video, "No video selected")
	m.SubtitleLabel = labelOr(sel.Subtitle, "No subtitle selected")
	m.OutputLabel = labelOr(sel.Output, "No output selected")
	m.hasVideo = strings.TrimSpace(sel.Video) != ""
	m.TriggerEnabled = m.hasVideo && !m.running
	if !m.running && m.hasVideo && strings.HasPrefix(m.Status, "Select a video") {
		m.Status = "Ready."
	}
}

func labelOr(path, empty string) string {
	if strings.TrimSpace(path) == "" {
		return empty
	}
	return selection.Label(path, LabelWidth)
}

// Begin switches to the running state for a job writing output.
func (m *Model) Begin(output string) {
	m.running = true
	m.TriggerEnabled = false
	m.TriggerText = TriggerRunning
	m.CancelEnabled = true
	m.ProgressVisible = true
	m.ProgressValue = 0
	m.Status = "Rendering " + filepath.Base(output)
}

// Fail reports a job that never started and returns to ready.
func (m *Model) Fail(err error) {
	m.reset()
	m.Status = apperrors.PublicMessage(err)
}

// Apply folds one channel event into the view. Progress never moves
// backwards and never passes a known maximum.
func (m *Model) Apply(e render.Event) {
	if e.IsDone() {
		m.reset()
		m.Status = doneStatus(e.Outcome)
		return
	}
	v := e.Seconds
	if m.ProgressMax > 0 && v > m.ProgressMax {
		v = m.ProgressMax
	}
	if v > m.ProgressValue {
		m.ProgressValue = v
	}
}

func (m *Model) reset() {
	m.running = false
	m.TriggerEnabled = m.hasVideo
	m.TriggerText = TriggerIdle
	m.CancelEnabled = false
	m.ProgressVisible = false
	m.ProgressValue = 0
}

func doneStatus(o render.Outcome) string {
	switch o.Status {
	case render.OutcomeSuccess:
		return "Render finished."
	case render.OutcomeCancelled:
		return "Render cancelled."
	default:
		return fmt.Sprintf("Render failed with exit code %d.", o.ExitCode)
	}
}

// Fraction is the progress in [0,1]; zero when the range is unknown.
func (m *Model) Fraction() float64 {
	if m.ProgressMax <= 0 {
		return 0
	}
	f := float64(m.ProgressValue) / float64(m.ProgressMax)
	if f > 1 {
		return 1
	}
	return f
}

func (m *Model) Running() bool { return m.running }

// Ready reports the idle state: trigger enabled and progress hidden.
func (m *Model) Ready() bool {
	return !m.running && m.TriggerEnabled && !m.ProgressVisible
}
