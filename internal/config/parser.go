package config

import "strings"

// Parse reads configuration content as JSONC or YAML.
//
// JSONC is selected when the first non-whitespace character is `{`;
// anything else is handed to the YAML parser.
func Parse(content string, base Config) (Config, []Warning, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		validatedWarnings, err := Validate(base)
		if err != nil {
			return Config{}, nil, err
		}
		return base, validatedWarnings, nil
	}

	if strings.HasPrefix(trimmed, "{") {
		return parseJSONC(content, base)
	}

	return parseYAML(content, base)
}

// fileConfig is the pointer-overlay shape shared by both file formats:
// only keys present in the file override the base configuration.
type fileConfig struct {
	Decode     *fileDecode     `json:"decode" yaml:"decode"`
	Input      *fileInput      `json:"input" yaml:"input"`
	Annotate   *fileAnnotate   `json:"annotate" yaml:"annotate"`
	Transcript *fileTranscript `json:"transcript" yaml:"transcript"`
	Output     *fileOutput     `json:"output" yaml:"output"`
}

type fileDecode struct {
	TimeUnit     *float64 `json:"time_unit" yaml:"time_unit"`
	AdaptRate    *float64 `json:"adapt_rate" yaml:"adapt_rate"`
	TimeoutUnits *float64 `json:"timeout_units" yaml:"timeout_units"`
}

type fileInput struct {
	Format     *string  `json:"format" yaml:"format"`
	SampleRate *float64 `json:"sample_rate" yaml:"sample_rate"`
}

type fileAnnotate struct {
	Format *string `json:"format" yaml:"format"`
}

type fileTranscript struct {
	Uppercase       *bool `json:"uppercase" yaml:"uppercase"`
	TrailingNewline *bool `json:"trailing_newline" yaml:"trailing_newline"`
}

type fileOutput struct {
	Path *string `json:"path" yaml:"path"`
}

func (payload fileConfig) applyTo(cfg *Config) {
	if payload.Decode != nil {
		if payload.Decode.TimeUnit != nil {
			cfg.Decode.TimeUnit = *payload.Decode.TimeUnit
		}
		if payload.Decode.AdaptRate != nil {
			cfg.Decode.AdaptRate = *payload.Decode.AdaptRate
		}
		if payload.Decode.TimeoutUnits != nil {
			cfg.Decode.TimeoutUnits = *payload.Decode.TimeoutUnits
		}
	}

	if payload.Input != nil {
		if payload.Input.Format != nil {
			cfg.Input.Format = strings.TrimSpace(*payload.Input.Format)
		}
		if payload.Input.SampleRate != nil {
			cfg.Input.SampleRate = *payload.Input.SampleRate
		}
	}

	if payload.Annotate != nil && payload.Annotate.Format != nil {
		cfg.Annotate.Format = strings.TrimSpace(*payload.Annotate.Format)
	}

	if payload.Transcript != nil {
		if payload.Transcript.Uppercase != nil {
			cfg.Transcript.Uppercase = *payload.Transcript.Uppercase
		}
		if payload.Transcript.TrailingNewline != nil {
			cfg.Transcript.TrailingNewline = *payload.Transcript.TrailingNewline
		}
	}

	if payload.Output != nil && payload.Output.Path != nil {
		cfg.Output.Path = strings.TrimSpace(*payload.Output.Path)
	}
}
