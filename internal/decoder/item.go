// Package decoder turns a timed edge stream into classified Morse
// symbols, letters, and words. The three stages form a pull-based
// pipeline: Classifier -> LetterGrouper -> WordGrouper, each advanced
// by its consumer calling Next.
package decoder

// ItemKind tags the classifier's output union.
type ItemKind int

const (
	// KindMark is a channel-high interval: 1 unit (dit) or 3 (dah).
	KindMark ItemKind = iota + 1
	// KindSpace is a channel-low interval: 1, 3, or 7 units.
	KindSpace
	// KindFlush signals an extended silence; it forces downstream
	// stages to resolve any letter or word in progress.
	KindFlush
)

// Item is one classified interval or flush marker. Start and End are
// sample positions; Units is the quantized duration (zero for flushes).
type Item struct {
	Kind  ItemKind
	Start uint64
	End   uint64
	Units int
}
