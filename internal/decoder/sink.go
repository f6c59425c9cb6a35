package decoder

// Class is an annotation row kind. ClassSymbol is declared but
// currently emitted by nothing, the symbol stream goes to the letter
// grouper instead.
type Class int

const (
	ClassRaw Class = iota
	ClassUnits
	ClassSymbol
	ClassLetter
	ClassWord
)

func (c Class) String() string {
	switch c {
	case ClassRaw:
		return "raw"
	case ClassUnits:
		return "units"
	case ClassSymbol:
		return "symbol"
	case ClassLetter:
		return "letter"
	case ClassWord:
		return "word"
	default:
		return "unknown"
	}
}

// Annotation is one (start, end, class, text) output tuple. Positions
// are sample numbers on the capture's clock.
type Annotation struct {
	Start uint64
	End   uint64
	Class Class
	Text  string
}

// Sink receives annotations in strict sample order.
type Sink interface {
	Annotate(Annotation)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Annotation)

func (f SinkFunc) Annotate(a Annotation) { f(a) }

// nopSink keeps stages nil-safe when no annotation output is wired.
var nopSink Sink = SinkFunc(func(Annotation) {})
