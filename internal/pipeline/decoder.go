// Package pipeline wires a waveform source through symbol classification
// and grouping into a word stream.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/crackwitz/morsetap/internal/decoder"
	"github.com/crackwitz/morsetap/internal/waveform"
)

// Progress is a point-in-time snapshot of a running decode.
type Progress struct {
	Words       int
	Letters     int
	Samples     uint64
	UnitSeconds float64
	WPM         float64
}

// Decoder owns one end-to-end waveform -> symbols -> words pipeline instance.
type Decoder struct {
	logger     *slog.Logger
	rate       float64
	classifier *decoder.Classifier
	grouper    *decoder.WordGrouper

	mu      sync.Mutex
	started bool
	words   []string
	letters int
	unit    float64
	samples uint64
}

// NewDecoder assembles the decode stages over src, sending annotations to sink.
func NewDecoder(src waveform.Source, sink decoder.Sink, cfg decoder.Config, logger *slog.Logger) (*Decoder, error) {
	classifier, err := decoder.NewClassifier(src, sink, cfg)
	if err != nil {
		return nil, err
	}
	letters := decoder.NewLetterGrouper(classifier)
	grouper := decoder.NewWordGrouper(letters, sink)

	return &Decoder{
		logger:     logger,
		rate:       src.SampleRate(),
		classifier: classifier,
		grouper:    grouper,
		unit:       classifier.Unit(),
	}, nil
}

// Run drains the word stream until end of capture or context cancellation.
// The decoded words accumulated so far are always available via Progress,
// even when Run returns an error.
func (d *Decoder) Run(ctx context.Context) ([]string, error) {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return nil, fmt.Errorf("decoder already run")
	}
	d.started = true
	d.mu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return d.snapshotWords(), err
		}

		word, err := d.grouper.Next()

		// Counter reads in Progress only see values cached here, so the
		// grouper and classifier internals are never touched concurrently.
		d.mu.Lock()
		d.letters = d.grouper.Letters()
		d.unit = d.classifier.Unit()
		d.mu.Unlock()

		if errors.Is(err, io.EOF) {
			return d.snapshotWords(), nil
		}
		if err != nil {
			return d.snapshotWords(), fmt.Errorf("decode waveform: %w", err)
		}

		d.mu.Lock()
		d.words = append(d.words, word.Text)
		if word.End > d.samples {
			d.samples = word.End
		}
		d.mu.Unlock()

		if d.logger != nil {
			d.logger.Debug("word decoded", "text", word.Text, "start", word.Start, "end", word.End)
		}
	}
}

// Progress reports live decode counters for status queries.
func (d *Decoder) Progress() Progress {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := Progress{
		Words:   len(d.words),
		Letters: d.letters,
		Samples: d.samples,
	}
	if d.rate > 0 {
		p.UnitSeconds = d.unit
		if p.UnitSeconds > 0 {
			// PARIS convention: a 50-unit standard word.
			p.WPM = 1.2 / p.UnitSeconds
		}
	}
	return p
}

func (d *Decoder) snapshotWords() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.words))
	copy(out, d.words)
	return out
}
