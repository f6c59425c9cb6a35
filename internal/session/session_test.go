package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crackwitz/morsetap/internal/fsm"
	"github.com/crackwitz/morsetap/internal/ipc"
	"github.com/crackwitz/morsetap/internal/pipeline"
	"github.com/crackwitz/morsetap/internal/transcript"
)

// stubRunner scripts one decode run for controller tests.
type stubRunner struct {
	words    []string
	err      error
	progress pipeline.Progress

	mu      sync.Mutex
	started chan struct{}
	release chan struct{}
	ran     bool
}

func (s *stubRunner) Run(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	s.ran = true
	s.mu.Unlock()

	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return s.words, ctx.Err()
		}
	}
	if s.err != nil {
		return s.words, s.err
	}
	return s.words, nil
}

func (s *stubRunner) Progress() pipeline.Progress { return s.progress }

type recordingCommitter struct {
	mu         sync.Mutex
	transcript string
	calls      int
	err        error
}

func (r *recordingCommitter) Commit(_ context.Context, transcript string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.transcript = transcript
	return r.err
}

func TestControllerRunCommitsTranscript(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{
		words:    []string{"cq", "de", "k0abc"},
		progress: pipeline.Progress{Words: 3, Letters: 9, WPM: 15},
	}
	committer := &recordingCommitter{}
	c := NewController(nil, runner, committer, transcript.Options{TrailingNewline: true})

	result := c.Run(context.Background())
	require.NoError(t, result.Err)
	require.Equal(t, fsm.StateIdle, result.State)
	require.Equal(t, "cq de k0abc\n", result.Transcript)
	require.Equal(t, 3, result.Words)
	require.Equal(t, 9, result.Letters)
	require.Equal(t, 15.0, result.WPM)
	require.False(t, result.Stopped)
	require.NotEmpty(t, result.ID)

	require.Equal(t, 1, committer.calls)
	require.Equal(t, "cq de k0abc\n", committer.transcript)
}

func TestControllerRunUppercaseOption(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{words: []string{"sos"}}
	committer := &recordingCommitter{}
	c := NewController(nil, runner, committer, transcript.Options{Uppercase: true})

	result := c.Run(context.Background())
	require.NoError(t, result.Err)
	require.Equal(t, "SOS", result.Transcript)
}

func TestControllerRunEmptyTranscript(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{words: nil}
	committer := &recordingCommitter{}
	c := NewController(nil, runner, committer, transcript.Options{})

	result := c.Run(context.Background())
	require.ErrorIs(t, result.Err, ErrEmptyTranscript)
	require.Equal(t, fsm.StateIdle, result.State)
	require.Zero(t, committer.calls)
}

func TestControllerRunDecodeFailure(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{err: errors.New("truncated capture")}
	c := NewController(nil, runner, &recordingCommitter{}, transcript.Options{})

	result := c.Run(context.Background())
	require.Error(t, result.Err)
	require.Equal(t, fsm.StateIdle, result.State)
}

func TestControllerRunCommitFailure(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{words: []string{"test"}}
	committer := &recordingCommitter{err: errors.New("disk full")}
	c := NewController(nil, runner, committer, transcript.Options{})

	result := c.Run(context.Background())
	require.Error(t, result.Err)
	require.Equal(t, "test", result.Transcript)
	require.Equal(t, fsm.StateIdle, result.State)
}

func TestControllerPlaceholderRunner(t *testing.T) {
	t.Parallel()

	c := NewController(nil, nil, nil, transcript.Options{})
	result := c.Run(context.Background())
	require.True(t, IsPipelineUnavailable(result.Err))
}

func TestControllerStopCancelsRun(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{
		words:   []string{"cq"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	committer := &recordingCommitter{}
	c := NewController(nil, runner, committer, transcript.Options{})

	resultCh := make(chan Result, 1)
	go func() { resultCh <- c.Run(context.Background()) }()

	<-runner.started
	require.Equal(t, fsm.StateDecoding, c.State())

	resp := c.Handle(context.Background(), ipc.Request{Command: "stop"})
	require.True(t, resp.OK)
	require.Equal(t, "stop requested", resp.Message)

	result := <-resultCh
	require.NoError(t, result.Err)
	require.True(t, result.Stopped)
	require.Equal(t, fsm.StateIdle, result.State)

	require.Equal(t, 1, committer.calls)
	require.Equal(t, "cq", committer.transcript)
	require.Equal(t, "cq", result.Transcript)
}

func TestControllerHandleStatus(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{progress: pipeline.Progress{Words: 2, Letters: 7, WPM: 20}}
	c := NewController(nil, runner, nil, transcript.Options{})

	resp := c.Handle(context.Background(), ipc.Request{Command: "status"})
	require.True(t, resp.OK)
	require.Equal(t, string(fsm.StateIdle), resp.State)
	require.Equal(t, 2, resp.Words)
	require.Equal(t, 7, resp.Letters)
	require.Equal(t, 20.0, resp.WPM)
	require.Contains(t, resp.Message, c.ID())
}

func TestControllerHandleStopWhenIdle(t *testing.T) {
	t.Parallel()

	c := NewController(nil, &stubRunner{}, nil, transcript.Options{})
	resp := c.Handle(context.Background(), ipc.Request{Command: "stop"})
	require.False(t, resp.OK)
	require.Contains(t, resp.Error, "cannot stop")
}

func TestControllerHandleUnknownCommand(t *testing.T) {
	t.Parallel()

	c := NewController(nil, &stubRunner{}, nil, transcript.Options{})
	resp := c.Handle(context.Background(), ipc.Request{Command: "reboot"})
	require.False(t, resp.OK)
	require.Contains(t, resp.Error, "unknown command")
}

func TestControllerRunOnlyFromIdle(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := NewController(nil, runner, nil, transcript.Options{})

	go c.Run(context.Background())
	<-runner.started

	second := c.Run(context.Background())
	require.Error(t, second.Err)

	close(runner.release)

	require.Eventually(t, func() bool {
		return c.State() == fsm.StateIdle
	}, time.Second, 10*time.Millisecond)
}
