// Package output writes decoder annotations and commits transcripts.
package output

import (
	"fmt"
	"io"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/crackwitz/morsetap/internal/decoder"
)

// The annotation stream emits two rows per completed interval.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TextWriter renders annotations as one aligned text line each.
type TextWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTextWriter builds a human-readable annotation sink.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

func (t *TextWriter) Annotate(a decoder.Annotation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "%d\t%d\t%s\t%s\n", a.Start, a.End, a.Class, a.Text)
}

// annotationRecord is the JSONL wire form of one annotation.
type annotationRecord struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
	Class string `json:"class"`
	Text  string `json:"text"`
}

// JSONLWriter renders annotations as one JSON object per line.
type JSONLWriter struct {
	mu  sync.Mutex
	enc *jsoniter.Encoder
}

// NewJSONLWriter builds a machine-readable annotation sink.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{enc: json.NewEncoder(w)}
}

func (j *JSONLWriter) Annotate(a decoder.Annotation) {
	j.mu.Lock()
	defer j.mu.Unlock()
	_ = j.enc.Encode(annotationRecord{
		Start: a.Start,
		End:   a.End,
		Class: a.Class.String(),
		Text:  a.Text,
	})
}

// Discard drops all annotations.
var Discard decoder.Sink = discard{}

type discard struct{}

func (discard) Annotate(decoder.Annotation) {}
