package render

import (
	"context"

	"github.com/oukeidos/subburn/internal/selection"
)

// Handle is the caller's side of one started job.
type Handle struct {
	id       string
	sel      selection.Selection
	ctrl     *Controller
	events   *Channel
	cancel   context.CancelFunc
	finished chan struct{}

	// outcome is written before finished is closed.
	outcome Outcome
}

func (h *Handle) ID() string { return h.id }

// Selection returns the paths the job was started with, output extension
// included.
func (h *Handle) Selection() selection.Selection { return h.sel }

func (h *Handle) OutputPath() string { return h.sel.Output }

// Poll returns the next pending event without blocking. Polling the Done
// event frees the controller for the next job.
func (h *Handle) Poll() (Event, bool) {
	event, ok := h.events.Poll()
	if ok && event.IsDone() {
		h.ctrl.release(h)
	}
	return event, ok
}

// Drain returns all pending events in order.
func (h *Handle) Drain() []Event {
	events := h.events.Drain()
	if n := len(events); n > 0 && events[n-1].IsDone() {
		h.ctrl.release(h)
	}
	return events
}

// Cancel asks ffmpeg to stop. The job still ends with a Done event.
func (h *Handle) Cancel() {
	if h.cancel != nil {
		h.cancel()
	}
}

// Finished is closed after the Done event has been pushed.
func (h *Handle) Finished() <-chan struct{} { return h.finished }

// Outcome returns the job result. It is only meaningful after Finished.
func (h *Handle) Outcome() (Outcome, bool) {
	select {
	case <-h.finished:
		return h.outcome, true
	default:
		return Outcome{}, false
	}
}
