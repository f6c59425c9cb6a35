package decoder

import "strings"

// Word is one completed word with its accumulated timestamp span.
type Word struct {
	Start uint64
	End   uint64
	Text  string
}

// letterStream is the upstream contract of the word grouper.
type letterStream interface {
	Next() (LetterItem, error)
}

// WordGrouper accumulates letters into words and emits letter and word
// annotations as a side effect of draining the letter stream.
type WordGrouper struct {
	src  letterStream
	sink Sink

	word       strings.Builder
	start, end uint64
	open       bool

	letters int
	words   int
}

// NewWordGrouper builds the top pipeline stage. sink may be nil.
func NewWordGrouper(src letterStream, sink Sink) *WordGrouper {
	if sink == nil {
		sink = nopSink
	}
	return &WordGrouper{src: src, sink: sink}
}

// Letters reports the number of letters consumed so far.
func (g *WordGrouper) Letters() int { return g.letters }

// Words reports the number of words completed so far.
func (g *WordGrouper) Words() int { return g.words }

// Next returns the next completed word. Each arriving letter is
// annotated immediately at its own span; the word annotation covers
// the span from first to last letter. Flushes with nothing buffered
// are absorbed, so repeated long silences emit nothing.
func (g *WordGrouper) Next() (Word, error) {
	for {
		item, err := g.src.Next()
		if err != nil {
			return Word{}, err
		}

		switch item.Kind {
		case LetterText:
			g.sink.Annotate(Annotation{Start: item.Start, End: item.End, Class: ClassLetter, Text: item.Text})
			if !g.open {
				g.start = item.Start
				g.open = true
			}
			g.end = item.End
			g.word.WriteString(item.Text)
			g.letters++

		case LetterFlush:
			if g.word.Len() == 0 {
				continue
			}
			word := Word{Start: g.start, End: g.end, Text: g.word.String()}
			g.sink.Annotate(Annotation{Start: word.Start, End: word.End, Class: ClassWord, Text: word.Text})
			g.word.Reset()
			g.open = false
			g.words++
			return word, nil
		}
	}
}
