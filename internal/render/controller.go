// Package render runs one ffmpeg subtitle burn at a time and reports its
// progress through a polled event channel.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/oukeidos/subburn/internal/apperrors"
	"github.com/oukeidos/subburn/internal/ffmpeg"
	"github.com/oukeidos/subburn/internal/selection"
)

// Options configures a Controller. Zero values select the defaults.
type Options struct {
	Binary   string
	Encoding ffmpeg.Encoding
	Spawner  ffmpeg.Spawner
	Logger   *slog.Logger
	NewID    func() string
}

// Controller owns the single render slot.
type Controller struct {
	binary   string
	encoding ffmpeg.Encoding
	spawner  ffmpeg.Spawner
	log      *slog.Logger
	newID    func() string

	mu     sync.Mutex
	status Status
	active *Handle
}

func NewController(opts Options) *Controller {
	c := &Controller{
		binary:   strings.TrimSpace(opts.Binary),
		encoding: opts.Encoding.WithDefaults(),
		spawner:  opts.Spawner,
		log:      opts.Logger,
		newID:    opts.NewID,
		status:   StatusIdle,
	}
	if c.binary == "" {
		c.binary = ffmpeg.DefaultBinary
	}
	if c.spawner == nil {
		c.spawner = ffmpeg.ExecSpawner{}
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.newID == nil {
		c.newID = newJobID
	}
	return c
}

func newJobID() string {
	u, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return u.String()
}

// Start validates sel and launches ffmpeg. The returned handle stays the
// active job until its Done event has been polled. Cancelling ctx cancels
// the job.
func (c *Controller) Start(ctx context.Context, sel selection.Selection) (*Handle, error) {
	if missing := sel.Missing(); len(missing) > 0 {
		return nil, apperrors.InvalidInputs(fmt.Sprintf("Missing %s path.", strings.Join(missing, ", ")))
	}
	sel.Output = selection.EnsureExtension(sel.Output, selection.ContainerExt)

	h := &Handle{
		id:       c.newID(),
		sel:      sel,
		ctrl:     c,
		events:   NewChannel(),
		finished: make(chan struct{}),
	}

	c.mu.Lock()
	if c.active != nil {
		c.mu.Unlock()
		return nil, apperrors.AlreadyRunning()
	}
	if err := c.transitionLocked(StatusSpawning); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.active = h
	c.mu.Unlock()

	log := c.log.With("job_id", h.id)
	args := ffmpeg.BuildBurnArgs(sel.Video, sel.Subtitle, sel.Output, c.encoding)
	log.Debug("spawning ffmpeg", "binary", c.binary, "args", args)

	proc, err := c.spawner.Spawn(c.binary, args)
	if err != nil {
		c.mu.Lock()
		_ = c.transitionLocked(StatusFailed)
		c.active = nil
		c.mu.Unlock()
		log.Error("ffmpeg spawn failed", "binary", c.binary, "error", err)
		return nil, apperrors.SpawnFailed(err)
	}

	c.mu.Lock()
	_ = c.transitionLocked(StatusRunning)
	c.mu.Unlock()

	jobCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	log.Info("render started", "pid", proc.Pid(), "video", sel.Video, "subtitle", sel.Subtitle, "output", sel.Output)
	go c.work(jobCtx, h, proc, log)
	return h, nil
}

func (c *Controller) work(ctx context.Context, h *Handle, proc ffmpeg.Process, log *slog.Logger) {
	defer close(h.finished)
	defer h.cancel()

	stop := context.AfterFunc(ctx, func() {
		log.Info("terminating ffmpeg")
		if err := proc.Terminate(); err != nil {
			log.Warn("terminate ffmpeg failed", "error", err)
		}
	})

	mon := newMonitor(h.id, h.events, log)
	mon.run(proc.Diagnostics())

	code, waitErr := proc.Wait()
	terminated := !stop()

	outcome := outcomeOf(code, waitErr, terminated, mon.detail())
	switch outcome.Status {
	case OutcomeSuccess:
		log.Info("render finished", "output", h.sel.Output)
	case OutcomeCancelled:
		log.Info("render cancelled", "exit_code", code)
	default:
		log.Warn("render failed", "exit_code", code, "error", waitErr, "detail", outcome.Detail)
	}

	c.mu.Lock()
	_ = c.transitionLocked(StatusCompleted)
	c.mu.Unlock()

	h.outcome = outcome
	h.events.Push(mon.stamp(Done(outcome)))
}

// outcomeOf maps the reaped exit status to an Outcome. A job that was asked
// to stop but still exited cleanly counts as a success.
func outcomeOf(code int, waitErr error, terminated bool, detail string) Outcome {
	switch {
	case code == 0 && waitErr == nil:
		return Outcome{Status: OutcomeSuccess}
	case terminated:
		return Outcome{Status: OutcomeCancelled, ExitCode: code, Detail: detail}
	}
	if waitErr != nil {
		if detail != "" {
			detail += "\n"
		}
		detail += waitErr.Error()
	}
	return Outcome{Status: OutcomeFailed, ExitCode: code, Detail: detail}
}

func (c *Controller) transitionLocked(to Status) error {
	if c.status == to {
		return nil
	}
	if !isValidTransition(c.status, to) {
		return fmt.Errorf("invalid transition: %s -> %s", c.status, to)
	}
	c.status = to
	return nil
}

// release frees the slot once h's Done event has been consumed.
func (c *Controller) release(h *Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == h {
		c.active = nil
	}
}

// Poll returns the next pending event of h without blocking.
func (c *Controller) Poll(h *Handle) (Event, bool) {
	if h == nil {
		return Event{}, false
	}
	return h.Poll()
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Active reports whether a job holds the slot.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}
