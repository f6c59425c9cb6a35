package decoder

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crackwitz/morsetap/internal/waveform"
)

// decodeWords runs the full three-stage pipeline over an edge list.
func decodeWords(t *testing.T, rate float64, edges []waveform.Edge, sink Sink) []Word {
	t.Helper()

	c, err := NewClassifier(waveform.NewEdges(rate, edges), sink, Config{TimeUnit: 0.1})
	require.NoError(t, err)
	g := NewWordGrouper(NewLetterGrouper(c), sink)

	var words []Word
	for {
		word, err := g.Next()
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			return words
		}
		words = append(words, word)
	}
}

func TestDecodeHello(t *testing.T) {
	t.Parallel()

	// The canonical stream: exact 1:3 and 1:3:7 ratios, trailing
	// inter-word gap supplied by the end of the capture.
	var anns []Annotation
	sink := SinkFunc(func(a Annotation) { anns = append(anns, a) })

	words := decodeWords(t, 1000, keyEdges(0, 100, ".... . .-.. .-.. ---"), sink)
	require.Len(t, words, 1)
	require.Equal(t, "hello", words[0].Text)

	var letters []string
	for _, a := range anns {
		if a.Class == ClassLetter {
			letters = append(letters, a.Text)
		}
	}
	require.Equal(t, []string{"h", "e", "l", "l", "o"}, letters)

	var wordAnns []Annotation
	for _, a := range anns {
		if a.Class == ClassWord {
			wordAnns = append(wordAnns, a)
		}
	}
	require.Len(t, wordAnns, 1)
	require.Equal(t, "hello", wordAnns[0].Text)
	require.Equal(t, words[0].Start, wordAnns[0].Start)
	require.Equal(t, words[0].End, wordAnns[0].End)
}

func TestDecodeTwoWords(t *testing.T) {
	t.Parallel()

	words := decodeWords(t, 1000, keyEdges(0, 100, "-.-. --.-", "-.. ."), nil)
	require.Len(t, words, 2)
	require.Equal(t, "cq", words[0].Text)
	require.Equal(t, "de", words[1].Text)
	require.Less(t, words[0].End, words[1].Start)
}

func TestIsolatedDahDecodesToT(t *testing.T) {
	t.Parallel()

	edges := []waveform.Edge{
		{Sample: 0, Level: waveform.High},
		{Sample: 300, Level: waveform.Low},
	}
	words := decodeWords(t, 1000, edges, nil)
	require.Len(t, words, 1)
	require.Equal(t, "t", words[0].Text)
	require.Equal(t, uint64(0), words[0].Start)
	require.Equal(t, uint64(300), words[0].End)
}

func TestRepeatedFlushesEmitNothingOnEmptyBuffers(t *testing.T) {
	t.Parallel()

	// A dah followed by a very long silence: the first timeout closes
	// "t", subsequent timeouts find empty buffers and stay silent.
	edges := []waveform.Edge{
		{Sample: 0, Level: waveform.High},
		{Sample: 300, Level: waveform.Low},
		{Sample: 5000, Level: waveform.High},
		{Sample: 5300, Level: waveform.Low},
	}
	words := decodeWords(t, 1000, edges, nil)
	require.Len(t, words, 2)
	require.Equal(t, "t", words[0].Text)
	require.Equal(t, "t", words[1].Text)
}

func TestLetterGapJoinsOneWordAndWordGapSplits(t *testing.T) {
	t.Parallel()

	// "ab" keyed with only a 3-unit gap between the letters forms one
	// word; the following 7-unit gap (seen as a 5-unit timeout) closes
	// it before "a" starts.
	words := decodeWords(t, 1000, keyEdges(0, 100, ".- -...", ".-"), nil)
	require.Len(t, words, 2)
	require.Equal(t, "ab", words[0].Text)
	require.Equal(t, "a", words[1].Text)
}

func TestWordGrouperCounters(t *testing.T) {
	t.Parallel()

	c, err := NewClassifier(waveform.NewEdges(1000, keyEdges(0, 100, "... --- ...")), nil, Config{TimeUnit: 0.1})
	require.NoError(t, err)
	g := NewWordGrouper(NewLetterGrouper(c), nil)

	word, err := g.Next()
	require.NoError(t, err)
	require.Equal(t, "sos", word.Text)
	require.Equal(t, 3, g.Letters())
	require.Equal(t, 1, g.Words())

	_, err = g.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestProsignDecodesToToken(t *testing.T) {
	t.Parallel()

	// -.-.- is the ITU starting signal.
	words := decodeWords(t, 1000, keyEdges(0, 100, "-.-.-"), nil)
	require.Len(t, words, 1)
	require.Equal(t, "START", words[0].Text)
}
