// Package config resolves, parses, validates, and defaults morsetap configuration.
package config

// Config is the fully materialized runtime configuration used by morsetap.
type Config struct {
	Decode     DecodeConfig
	Input      InputConfig
	Annotate   AnnotateConfig
	Transcript TranscriptConfig
	Output     OutputConfig
}

// DecodeConfig controls symbol timing and adaptation.
type DecodeConfig struct {
	TimeUnit     float64
	AdaptRate    float64
	TimeoutUnits float64
}

// InputConfig controls capture parsing when the CLI does not override it.
type InputConfig struct {
	Format     string
	SampleRate float64
}

// AnnotateConfig controls the annotation stream format.
type AnnotateConfig struct {
	Format string
}

// TranscriptConfig controls transcript assembly formatting.
type TranscriptConfig struct {
	Uppercase       bool
	TrailingNewline bool
}

// OutputConfig controls where the committed transcript is written.
type OutputConfig struct {
	Path string
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
