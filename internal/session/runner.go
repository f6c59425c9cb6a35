package session

import (
	"context"
	"errors"

	"github.com/crackwitz/morsetap/internal/pipeline"
)

var (
	// ErrPipelineUnavailable indicates runtime decode wiring is missing.
	ErrPipelineUnavailable = errors.New("waveform decode pipeline not wired")
	// ErrEmptyTranscript indicates the capture finished without any decodable keying.
	ErrEmptyTranscript = errors.New("no morse detected; check the capture signal and sample rate")
)

// Runner abstracts the decode pipeline operations needed by session orchestration.
type Runner interface {
	Run(context.Context) ([]string, error)
	Progress() pipeline.Progress
}

// PlaceholderRunner is a no-op placeholder used in tests/fallback wiring.
type PlaceholderRunner struct{}

func (PlaceholderRunner) Run(context.Context) ([]string, error) {
	return nil, ErrPipelineUnavailable
}

func (PlaceholderRunner) Progress() pipeline.Progress {
	return pipeline.Progress{}
}

// IsPipelineUnavailable reports whether an error represents missing pipeline wiring.
func IsPipelineUnavailable(err error) bool {
	return errors.Is(err, ErrPipelineUnavailable)
}
