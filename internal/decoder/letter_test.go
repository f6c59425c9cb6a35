package decoder

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crackwitz/morsetap/internal/waveform"
)

// scriptedItems is a canned symbolStream for grouper tests.
type scriptedItems struct {
	list []Item
	i    int
}

func (s *scriptedItems) Next() (Item, error) {
	if s.i >= len(s.list) {
		return Item{}, io.EOF
	}
	item := s.list[s.i]
	s.i++
	return item, nil
}

// collectLetters drains a letter grouper until io.EOF.
func collectLetters(t *testing.T, g *LetterGrouper) []LetterItem {
	t.Helper()
	var items []LetterItem
	for {
		item, err := g.Next()
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			return items
		}
		items = append(items, item)
	}
}

func TestLetterGrouperResolvesOnLetterGap(t *testing.T) {
	t.Parallel()

	src := &scriptedItems{list: []Item{
		{Kind: KindMark, Start: 0, End: 100, Units: 1},
		{Kind: KindSpace, Start: 100, End: 400, Units: 3},
		{Kind: KindMark, Start: 400, End: 700, Units: 3},
		{Kind: KindFlush},
	}}
	got := collectLetters(t, NewLetterGrouper(src))
	require.Equal(t, []LetterItem{
		{Kind: LetterText, Start: 0, End: 100, Text: "e"},
		{Kind: LetterText, Start: 400, End: 700, Text: "t"},
		{Kind: LetterFlush},
	}, got)
}

func TestLetterGrouperIntraLetterGapContinuesLetter(t *testing.T) {
	t.Parallel()

	src := &scriptedItems{list: []Item{
		{Kind: KindMark, Start: 0, End: 300, Units: 3},
		{Kind: KindSpace, Start: 300, End: 400, Units: 1},
		{Kind: KindMark, Start: 400, End: 500, Units: 1},
		{Kind: KindSpace, Start: 500, End: 600, Units: 1},
		{Kind: KindMark, Start: 600, End: 900, Units: 3},
		{Kind: KindSpace, Start: 900, End: 1200, Units: 3},
	}}
	got := collectLetters(t, NewLetterGrouper(src))
	require.Equal(t, []LetterItem{
		{Kind: LetterText, Start: 0, End: 900, Text: "k"},
	}, got)
}

func TestLetterGrouperFlushResolvesThenPassesThrough(t *testing.T) {
	t.Parallel()

	src := &scriptedItems{list: []Item{
		{Kind: KindMark, Start: 0, End: 300, Units: 3},
		{Kind: KindFlush},
	}}
	g := NewLetterGrouper(src)

	letter, err := g.Next()
	require.NoError(t, err)
	require.Equal(t, LetterItem{Kind: LetterText, Start: 0, End: 300, Text: "t"}, letter)

	flush, err := g.Next()
	require.NoError(t, err)
	require.Equal(t, LetterFlush, flush.Kind)

	_, err = g.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestLetterGrouperAbsorbsNothingButStillPassesFlushes(t *testing.T) {
	t.Parallel()

	// Flushes with no accumulated marks pass through directly; gaps
	// with no accumulated marks yield nothing at all.
	src := &scriptedItems{list: []Item{
		{Kind: KindSpace, Start: 0, End: 700, Units: 7},
		{Kind: KindFlush},
		{Kind: KindFlush},
	}}
	got := collectLetters(t, NewLetterGrouper(src))
	require.Equal(t, []LetterItem{
		{Kind: LetterFlush},
		{Kind: LetterFlush},
	}, got)
}

func TestLetterGrouperUnmappedSequenceFallsBackToLiteral(t *testing.T) {
	t.Parallel()

	// Six dits map to nothing in the table.
	src := &scriptedItems{list: []Item{}}
	for i := 0; i < 6; i++ {
		src.list = append(src.list,
			Item{Kind: KindMark, Start: uint64(i * 200), End: uint64(i*200 + 100), Units: 1},
			Item{Kind: KindSpace, Start: uint64(i*200 + 100), End: uint64(i*200 + 200), Units: 1},
		)
	}
	src.list = append(src.list, Item{Kind: KindFlush})

	got := collectLetters(t, NewLetterGrouper(src))
	require.Equal(t, []LetterItem{
		{Kind: LetterText, Start: 0, End: 1100, Text: "......"},
		{Kind: LetterFlush},
	}, got)
}

func TestLetterGrouperFromClassifier(t *testing.T) {
	t.Parallel()

	src := waveform.NewEdges(1000, keyEdges(0, 100, "-.-. --.-"))
	c, err := NewClassifier(src, nil, Config{TimeUnit: 0.1})
	require.NoError(t, err)

	var texts []string
	for _, item := range collectLetters(t, NewLetterGrouper(c)) {
		if item.Kind == LetterText {
			texts = append(texts, item.Text)
		}
	}
	require.Equal(t, []string{"c", "q"}, texts)
}
