package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		Decode: DecodeConfig{
			TimeUnit:     0.1,
			AdaptRate:    0.02,
			TimeoutUnits: 5,
		},
		Input: InputConfig{
			Format:     "raw",
			SampleRate: 0,
		},
		Annotate: AnnotateConfig{Format: "text"},
		Transcript: TranscriptConfig{
			Uppercase:       false,
			TrailingNewline: true,
		},
		Output: OutputConfig{Path: ""},
	}
}
