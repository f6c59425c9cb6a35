// Package waveform supplies level-transition edges from logic captures.
// Sources present a single channel as a pull-based stream of edges with
// sample timestamps; the decoder never sees raw samples.
package waveform

import (
	"errors"
	"io"
)

// Level is the logic state of the channel.
type Level uint8

const (
	Low  Level = 0
	High Level = 1
)

// Edge is one level transition. Level is the state entered at Sample.
type Edge struct {
	Sample uint64
	Level  Level
}

// Event is the outcome of one wait: either an edge, or a timeout after
// the requested number of samples passed with no transition.
type Event struct {
	Sample   uint64
	Level    Level
	TimedOut bool
}

// Source is the decoder-facing contract of a logic capture.
//
// WaitEdgeOrTimeout blocks until the next transition or until skip
// samples elapse, whichever comes first. A transition landing exactly
// skip samples away loses the tie: the timeout fires and the edge is
// delivered by the following wait. End of capture surfaces io.EOF.
type Source interface {
	// WaitLevel blocks until the channel transitions to the given level.
	WaitLevel(Level) (uint64, error)
	// WaitEdgeOrTimeout blocks for the next edge or a skip-sample timeout.
	WaitEdgeOrTimeout(skip uint64) (Event, error)
	// SampleRate reports the capture's sample clock in Hz, 0 when unknown.
	SampleRate() float64
}

// edgeStream is the minimal producer wrapped by cursor: each source
// only has to extract its next transition from its container format.
type edgeStream interface {
	nextEdge() (Edge, error)
}

// cursor implements the Source wait discipline over an edgeStream:
// one-edge lookahead, position tracking, and the timeout tie-break.
type cursor struct {
	src     edgeStream
	rate    float64
	pending *Edge
	at      uint64
	cur     Level
	eof     bool
}

func (c *cursor) SampleRate() float64 { return c.rate }

// load fills the one-edge lookahead.
func (c *cursor) load() error {
	if c.pending != nil {
		return nil
	}
	if c.eof {
		return io.EOF
	}
	edge, err := c.src.nextEdge()
	if err != nil {
		if errors.Is(err, io.EOF) {
			c.eof = true
		}
		return err
	}
	c.pending = &edge
	return nil
}

func (c *cursor) WaitLevel(want Level) (uint64, error) {
	for {
		if err := c.load(); err != nil {
			return 0, err
		}
		edge := *c.pending
		c.pending = nil
		c.at = edge.Sample
		c.cur = edge.Level
		if edge.Level == want {
			return edge.Sample, nil
		}
	}
}

func (c *cursor) WaitEdgeOrTimeout(skip uint64) (Event, error) {
	if skip == 0 {
		skip = 1
	}
	deadline := c.at + skip

	if err := c.load(); err != nil && !errors.Is(err, io.EOF) {
		return Event{}, err
	}
	if c.pending == nil {
		return Event{}, io.EOF
	}

	if c.pending.Sample < deadline {
		edge := *c.pending
		c.pending = nil
		c.at = edge.Sample
		c.cur = edge.Level
		return Event{Sample: edge.Sample, Level: edge.Level}, nil
	}

	// Timeout wins ties: an edge at exactly the deadline stays pending.
	c.at = deadline
	return Event{Sample: deadline, Level: c.cur, TimedOut: true}, nil
}

// Edges is an in-memory Source over a prepared transition list. The
// channel is taken to be low before the first listed edge.
type Edges struct {
	cursor
	list []Edge
	next int
}

// NewEdges builds an in-memory source from transitions in sample order.
func NewEdges(rate float64, list []Edge) *Edges {
	e := &Edges{list: list}
	e.cursor.src = e
	e.cursor.rate = rate
	return e
}

func (e *Edges) nextEdge() (Edge, error) {
	if e.next >= len(e.list) {
		return Edge{}, io.EOF
	}
	edge := e.list[e.next]
	e.next++
	return edge, nil
}
