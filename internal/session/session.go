// Package session coordinates decode lifecycle state, stop requests, and commit flow.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crackwitz/morsetap/internal/fsm"
	"github.com/crackwitz/morsetap/internal/ipc"
	"github.com/crackwitz/morsetap/internal/pipeline"
	"github.com/crackwitz/morsetap/internal/transcript"
)

// Result is the complete lifecycle output returned by one Run invocation.
type Result struct {
	ID          string
	State       fsm.State
	Transcript  string
	Words       int
	Letters     int
	Samples     uint64
	UnitSeconds float64
	WPM         float64
	Stopped     bool
	Err         error
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Controller orchestrates one decode session and serves its IPC surface.
type Controller struct {
	id      string
	logger  *slog.Logger
	runner  Runner
	commit  Committer
	opts    transcript.Options
	cancel  context.CancelFunc
	stopped bool

	mu    sync.RWMutex
	state fsm.State
}

// NewController constructs a session controller with safe default fallbacks.
func NewController(
	logger *slog.Logger,
	runner Runner,
	committer Committer,
	opts transcript.Options,
) *Controller {
	if runner == nil {
		runner = PlaceholderRunner{}
	}
	if committer == nil {
		committer = CommitFunc(func(context.Context, string) error { return nil })
	}

	return &Controller{
		id:     uuid.NewString(),
		logger: logger,
		runner: runner,
		commit: committer,
		opts:   opts,
		state:  fsm.StateIdle,
	}
}

// ID returns the session identifier.
func (c *Controller) ID() string { return c.id }

// State returns the current FSM state snapshot.
func (c *Controller) State() fsm.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// transition applies one FSM event to the controller state.
func (c *Controller) transition(event fsm.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state, event)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// Run executes one decode lifecycle from start through commit or failure.
func (c *Controller) Run(ctx context.Context) Result {
	result := Result{ID: c.id, StartedAt: time.Now()}
	finish := func() Result {
		result.State = c.State()
		result.FinishedAt = time.Now()
		return result
	}

	if err := c.transition(fsm.EventStart); err != nil {
		result.Err = err
		return finish()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	words, err := c.runner.Run(runCtx)

	progress := c.runner.Progress()
	result.Words = progress.Words
	result.Letters = progress.Letters
	result.Samples = progress.Samples
	result.UnitSeconds = progress.UnitSeconds
	result.WPM = progress.WPM

	if err != nil {
		if errors.Is(err, context.Canceled) && c.wasStopped() {
			_ = c.transition(fsm.EventStop)
			result.Stopped = true
			// A stopped session still commits whatever was decoded
			// before the cancel landed.
			if assembled := transcript.Assemble(words, c.opts); assembled != "" {
				result.Transcript = assembled
				if commitErr := c.commit.Commit(ctx, assembled); commitErr != nil {
					result.Err = commitErr
				}
			}
			return finish()
		}
		c.toErrorAndReset()
		result.Err = err
		return finish()
	}

	if err := c.transition(fsm.EventFinish); err != nil {
		result.Err = err
		return finish()
	}

	assembled := transcript.Assemble(words, c.opts)
	if assembled == "" {
		c.toErrorAndReset()
		result.Err = ErrEmptyTranscript
		return finish()
	}
	result.Transcript = assembled

	if err := c.commit.Commit(ctx, assembled); err != nil {
		c.toErrorAndReset()
		result.Err = err
		return finish()
	}

	if err := c.transition(fsm.EventCommit); err != nil {
		result.Err = err
		return finish()
	}

	if c.logger != nil {
		c.logger.Info("session committed",
			"session_id", c.id,
			"words", result.Words,
			"letters", result.Letters,
			"wpm", result.WPM,
		)
	}

	return finish()
}

// Handle serves IPC commands for the active owner session.
func (c *Controller) Handle(_ context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case "status":
		progress := c.runner.Progress()
		return ipc.Response{
			OK:      true,
			State:   string(c.State()),
			Words:   progress.Words,
			Letters: progress.Letters,
			WPM:     progress.WPM,
			Message: fmt.Sprintf("session %s", c.id),
		}
	case "stop":
		return c.requestStop()
	default:
		return ipc.Response{OK: false, State: string(c.State()), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}

// requestStop cancels the running decode when state permits it.
func (c *Controller) requestStop() ipc.Response {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != fsm.StateDecoding {
		return ipc.Response{OK: false, State: string(c.state), Error: fmt.Sprintf("cannot stop from state %s", c.state)}
	}
	if c.cancel == nil {
		return ipc.Response{OK: false, State: string(c.state), Error: "no decode in flight"}
	}

	c.stopped = true
	c.cancel()
	return ipc.Response{OK: true, State: string(c.state), Message: "stop requested"}
}

func (c *Controller) wasStopped() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stopped
}

// toErrorAndReset transitions to error and back to idle best-effort.
func (c *Controller) toErrorAndReset() {
	_ = c.transition(fsm.EventFail)
	_ = c.transition(fsm.EventReset)
}

// Progress exposes live decode counters for external status reporting.
func (c *Controller) Progress() pipeline.Progress {
	return c.runner.Progress()
}
