package waveform

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEdgesWaitLevelSkipsToRequestedLevel(t *testing.T) {
	t.Parallel()

	src := NewEdges(1000, []Edge{
		{Sample: 10, Level: High},
		{Sample: 30, Level: Low},
		{Sample: 50, Level: High},
	})

	sample, err := src.WaitLevel(High)
	require.NoError(t, err)
	require.Equal(t, uint64(10), sample)

	sample, err = src.WaitLevel(High)
	require.NoError(t, err)
	require.Equal(t, uint64(50), sample)

	_, err = src.WaitLevel(High)
	require.ErrorIs(t, err, io.EOF)
}

func TestEdgesWaitEdgeOrTimeout(t *testing.T) {
	t.Parallel()

	src := NewEdges(1000, []Edge{
		{Sample: 10, Level: High},
		{Sample: 20, Level: Low},
		{Sample: 500, Level: High},
	})

	_, err := src.WaitLevel(High)
	require.NoError(t, err)

	ev, err := src.WaitEdgeOrTimeout(100)
	require.NoError(t, err)
	require.False(t, ev.TimedOut)
	require.Equal(t, uint64(20), ev.Sample)
	require.Equal(t, Low, ev.Level)

	// Next edge is 480 samples away: two timeouts march forward first.
	ev, err = src.WaitEdgeOrTimeout(200)
	require.NoError(t, err)
	require.True(t, ev.TimedOut)
	require.Equal(t, uint64(220), ev.Sample)
	require.Equal(t, Low, ev.Level)

	ev, err = src.WaitEdgeOrTimeout(200)
	require.NoError(t, err)
	require.True(t, ev.TimedOut)
	require.Equal(t, uint64(420), ev.Sample)

	ev, err = src.WaitEdgeOrTimeout(200)
	require.NoError(t, err)
	require.False(t, ev.TimedOut)
	require.Equal(t, uint64(500), ev.Sample)
	require.Equal(t, High, ev.Level)

	_, err = src.WaitEdgeOrTimeout(200)
	require.ErrorIs(t, err, io.EOF)
}

func TestTimeoutWinsExactBoundaryAndRedeliversEdge(t *testing.T) {
	t.Parallel()

	src := NewEdges(1000, []Edge{
		{Sample: 0, Level: High},
		{Sample: 100, Level: Low},
	})

	_, err := src.WaitLevel(High)
	require.NoError(t, err)

	// Edge at exactly skip samples away: the timeout fires instead.
	ev, err := src.WaitEdgeOrTimeout(100)
	require.NoError(t, err)
	require.True(t, ev.TimedOut)
	require.Equal(t, uint64(100), ev.Sample)

	// The boundary edge is still delivered by the following wait.
	ev, err = src.WaitEdgeOrTimeout(100)
	require.NoError(t, err)
	require.False(t, ev.TimedOut)
	require.Equal(t, uint64(100), ev.Sample)
	require.Equal(t, Low, ev.Level)
}

func TestEdgesSampleRate(t *testing.T) {
	t.Parallel()

	require.Equal(t, float64(48000), NewEdges(48000, nil).SampleRate())
	require.Zero(t, NewEdges(0, nil).SampleRate())
}
