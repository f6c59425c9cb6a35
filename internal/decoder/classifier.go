package decoder

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/crackwitz/morsetap/internal/waveform"
)

// Defaults for the classifier tuning parameters. The adapt rate is an
// empirical constant inherited from field use; treat it as a starting
// point for calibration, not a derived value.
const (
	DefaultTimeUnit     = 0.1
	DefaultAdaptRate    = 0.02
	DefaultTimeoutUnits = 5
)

var (
	// ErrInvalidTimeUnit indicates the time-unit guess must be positive.
	ErrInvalidTimeUnit = errors.New("time unit must be positive")
	// ErrInvalidAdaptRate indicates the adapt rate must be in (0, 0.2].
	ErrInvalidAdaptRate = errors.New("adapt rate must be in (0, 0.2]")
	// ErrInvalidTimeoutUnits indicates the flush timeout must sit between
	// the inter-letter gap (3) and the inter-word gap (7).
	ErrInvalidTimeoutUnits = errors.New("timeout units must be greater than 3 and at most 7")
)

// Config holds the classifier tuning parameters. Zero fields take the
// package defaults.
type Config struct {
	// TimeUnit is the nominal dit length guess in seconds. When the
	// capture's sample rate is unknown it is read directly in samples.
	TimeUnit float64
	// AdaptRate scales the per-interval correction of the tracked time
	// unit; the effective weight is AdaptRate x quantized units.
	AdaptRate float64
	// TimeoutUnits is the silence length, in time units, after which a
	// flush fires. Must exceed the inter-letter gap and not exceed the
	// inter-word gap so word boundaries are detected without waiting
	// for a further edge.
	TimeoutUnits float64
}

// withDefaults fills zero fields with package defaults.
func (c Config) withDefaults() Config {
	if c.TimeUnit == 0 {
		c.TimeUnit = DefaultTimeUnit
	}
	if c.AdaptRate == 0 {
		c.AdaptRate = DefaultAdaptRate
	}
	if c.TimeoutUnits == 0 {
		c.TimeoutUnits = DefaultTimeoutUnits
	}
	return c
}

// Validate enforces the configuration invariants.
func (c Config) Validate() error {
	if c.TimeUnit <= 0 || math.IsNaN(c.TimeUnit) || math.IsInf(c.TimeUnit, 0) {
		return ErrInvalidTimeUnit
	}
	if c.AdaptRate <= 0 || c.AdaptRate > 0.2 {
		return ErrInvalidAdaptRate
	}
	if c.TimeoutUnits <= 3 || c.TimeoutUnits > 7 {
		return ErrInvalidTimeoutUnits
	}
	return nil
}

// Classifier quantizes inter-edge durations into Morse symbol items
// while adaptively tracking the time-unit length.
type Classifier struct {
	src  waveform.Source
	sink Sink
	cfg  Config

	rate    float64
	unit    float64
	prev    uint64
	started bool
	eof     bool
}

// NewClassifier builds the leaf pipeline stage. sink may be nil.
func NewClassifier(src waveform.Source, sink Sink, cfg Config) (*Classifier, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("classifier config: %w", err)
	}
	if sink == nil {
		sink = nopSink
	}
	rate := src.SampleRate()
	if rate <= 0 {
		rate = 1.0
	}
	return &Classifier{src: src, sink: sink, cfg: cfg, rate: rate, unit: cfg.TimeUnit}, nil
}

// Unit reports the current adaptive time-unit estimate in seconds.
func (c *Classifier) Unit() float64 { return c.unit }

// skip is the flush timeout in samples, tracking the adaptive unit.
func (c *Classifier) skip() uint64 {
	return uint64(c.cfg.TimeoutUnits * c.rate * c.unit)
}

// Next returns the next classified symbol or flush marker.
//
// Every completed interval is annotated with its raw duration and its
// unit-quantized duration regardless of classification; only intervals
// matching one of the five recognized (level, units) categories are
// returned as items. End of capture yields one final flush, then io.EOF.
func (c *Classifier) Next() (Item, error) {
	if c.eof {
		return Item{}, io.EOF
	}
	if !c.started {
		sample, err := c.src.WaitLevel(waveform.High)
		if err != nil {
			c.eof = true
			return Item{}, err
		}
		c.prev = sample
		c.started = true
	}

	for {
		ev, err := c.src.WaitEdgeOrTimeout(c.skip())
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.eof = true
				return Item{Kind: KindFlush, Start: c.prev, End: c.prev}, nil
			}
			return Item{}, err
		}
		if ev.TimedOut {
			// Extended silence. The reference point stays put: the
			// interval is still open and ends at the next real edge.
			return Item{Kind: KindFlush, Start: c.prev, End: ev.Sample}, nil
		}

		cur := ev.Sample
		dt := float64(cur-c.prev) / c.rate
		units := dt / c.unit
		iunits := int(math.Round(units))
		if iunits < 1 {
			iunits = 1
		}

		// The interval just completed was spent at the level held
		// before this edge.
		held := waveform.High
		if ev.Level == waveform.High {
			held = waveform.Low
		}

		c.sink.Annotate(Annotation{Start: c.prev, End: cur, Class: ClassRaw, Text: fmt.Sprintf("%.3g", dt)})
		c.sink.Annotate(Annotation{Start: c.prev, End: cur, Class: ClassUnits, Text: fmt.Sprintf("%.1f*%.3g", units, c.unit)})

		item, recognized := classify(held, iunits)
		item.Start, item.End = c.prev, cur
		c.prev = cur

		// Leaky-integrator update: longer intervals carry more
		// unit-lengths of evidence, so they correct harder.
		observed := dt / float64(iunits)
		c.unit += (observed - c.unit) * c.cfg.AdaptRate * float64(iunits)

		if recognized {
			return item, nil
		}
	}
}

// classify matches an interval against the five recognized categories:
// dit (1,1), dah (1,3), intra-letter gap (0,1), inter-letter gap (0,3),
// inter-word gap (0,7). Anything else is dropped.
func classify(level waveform.Level, units int) (Item, bool) {
	switch level {
	case waveform.High:
		if units == 1 || units == 3 {
			return Item{Kind: KindMark, Units: units}, true
		}
	case waveform.Low:
		if units == 1 || units == 3 || units == 7 {
			return Item{Kind: KindSpace, Units: units}, true
		}
	}
	return Item{}, false
}
