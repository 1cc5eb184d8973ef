package render

import "fmt"

// EventKind tags a progress-channel event.
type EventKind string

const (
	KindProgress EventKind = "progress"
	KindDone     EventKind = "done"
)

// OutcomeStatus classifies how a job ended.
type OutcomeStatus string

const (
	OutcomeSuccess   OutcomeStatus = "success"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeCancelled OutcomeStatus = "cancelled"
)

// Outcome is the result carried by the Done event.
type Outcome struct {
	Status   OutcomeStatus
	ExitCode int
	// Detail holds the last diagnostic lines ffmpeg printed, if any.
	Detail string
}

func (o Outcome) Succeeded() bool { return o.Status == OutcomeSuccess }

func (o Outcome) String() string {
	switch o.Status {
	case OutcomeFailed:
		return fmt.Sprintf("failed (exit code %d)", o.ExitCode)
	case "":
		return "unknown"
	default:
		return string(o.Status)
	}
}

// Event is one message on a job's progress channel. Seq is assigned by the
// channel and starts at 1 for every job.
type Event struct {
	Seq     int64
	JobID   string
	Kind    EventKind
	Seconds int64
	Outcome Outcome
}

// Progress returns a progress event for whole elapsed output seconds.
func Progress(seconds int64) Event {
	return Event{Kind: KindProgress, Seconds: seconds}
}

// Done returns the terminal event.
func Done(outcome Outcome) Event {
	return Event{Kind: KindDone, Outcome: outcome}
}

func (e Event) IsDone() bool { return e.Kind == KindDone }

func (e Event) String() string {
	if e.IsDone() {
		return fmt.Sprintf("Done(%s)", e.Outcome)
	}
	return fmt.Sprintf("Progress(%d)", e.Seconds)
}
