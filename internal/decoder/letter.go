package decoder

import "github.com/crackwitz/morsetap/internal/morse"

// LetterKind tags the letter grouper's output union.
type LetterKind int

const (
	// LetterText is a resolved letter with its timestamp span.
	LetterText LetterKind = iota + 1
	// LetterFlush is a pass-through flush from the classifier.
	LetterFlush
)

// LetterItem is one resolved letter or pass-through flush marker.
type LetterItem struct {
	Kind  LetterKind
	Start uint64
	End   uint64
	Text  string
}

// symbolStream is the upstream contract of the letter grouper.
type symbolStream interface {
	Next() (Item, error)
}

// LetterGrouper accumulates consecutive marks into a dit/dah sequence
// and resolves it on inter-letter gaps, inter-word gaps, and flushes.
type LetterGrouper struct {
	src symbolStream

	seq          morse.Code
	start, end   uint64
	open         bool
	pendingFlush bool
}

// NewLetterGrouper builds the middle pipeline stage.
func NewLetterGrouper(src symbolStream) *LetterGrouper {
	return &LetterGrouper{src: src}
}

// Next returns the next resolved letter or flush marker.
//
// An upstream flush first resolves any letter in progress, then passes
// through on the following pull, so the word grouper always sees the
// letter before the boundary that terminated it. Gap-triggered
// resolutions are not passed through: only flushes close words.
func (g *LetterGrouper) Next() (LetterItem, error) {
	if g.pendingFlush {
		g.pendingFlush = false
		return LetterItem{Kind: LetterFlush}, nil
	}

	for {
		item, err := g.src.Next()
		if err != nil {
			return LetterItem{}, err
		}

		switch item.Kind {
		case KindMark:
			if !g.open {
				g.start = item.Start
				g.open = true
			}
			g.end = item.End
			g.seq = append(g.seq, item.Units)

		case KindSpace:
			// A one-unit gap continues the letter; anything longer
			// terminates it.
			if item.Units >= 3 {
				if letter, ok := g.resolve(); ok {
					return letter, nil
				}
			}

		case KindFlush:
			if letter, ok := g.resolve(); ok {
				g.pendingFlush = true
				return letter, nil
			}
			return LetterItem{Kind: LetterFlush}, nil
		}
	}
}

// resolve terminates the letter in progress, if any.
func (g *LetterGrouper) resolve() (LetterItem, bool) {
	if len(g.seq) == 0 {
		return LetterItem{}, false
	}
	letter := LetterItem{
		Kind:  LetterText,
		Start: g.start,
		End:   g.end,
		Text:  morse.Resolve(g.seq),
	}
	g.seq = nil
	g.open = false
	return letter, true
}
