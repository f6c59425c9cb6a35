package waveform

import (
	"bufio"
	"io"
)

// SampleReader extracts edges from a raw capture stream of one byte
// per sample, nonzero meaning channel-high. A capture that begins
// keyed counts as a rising edge at sample zero.
type SampleReader struct {
	cursor
	r      *bufio.Reader
	pos    uint64
	last   Level
	primed bool
}

// NewSampleReader wraps a raw u8 sample stream. rate is the capture's
// sample clock in Hz; pass 0 when unknown.
func NewSampleReader(r io.Reader, rate float64) *SampleReader {
	s := &SampleReader{r: bufio.NewReader(r)}
	s.cursor.src = s
	s.cursor.rate = rate
	return s
}

func (s *SampleReader) nextEdge() (Edge, error) {
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return Edge{}, err
		}
		level := Low
		if b != 0 {
			level = High
		}
		idx := s.pos
		s.pos++

		if !s.primed {
			s.primed = true
			s.last = level
			if level == High {
				return Edge{Sample: idx, Level: High}, nil
			}
			continue
		}
		if level != s.last {
			s.last = level
			return Edge{Sample: idx, Level: level}, nil
		}
	}
}
