package config

import (
	"fmt"
	"math"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if !(cfg.Decode.TimeUnit > 0) || math.IsInf(cfg.Decode.TimeUnit, 1) {
		return nil, fmt.Errorf("decode.time_unit must be a positive finite number")
	}
	if !(cfg.Decode.AdaptRate > 0) || cfg.Decode.AdaptRate > 0.2 {
		return nil, fmt.Errorf("decode.adapt_rate must be in (0, 0.2]")
	}
	if !(cfg.Decode.TimeoutUnits > 3) || cfg.Decode.TimeoutUnits > 7 {
		return nil, fmt.Errorf("decode.timeout_units must be > 3 and <= 7")
	}

	format := strings.ToLower(strings.TrimSpace(cfg.Input.Format))
	if format != "raw" && format != "vcd" {
		return nil, fmt.Errorf("input.format must be one of: raw, vcd")
	}
	if cfg.Input.SampleRate < 0 || math.IsInf(cfg.Input.SampleRate, 1) || math.IsNaN(cfg.Input.SampleRate) {
		return nil, fmt.Errorf("input.sample_rate must be >= 0")
	}
	if format == "raw" && cfg.Input.SampleRate == 0 {
		warnings = append(warnings, Warning{Message: "input.sample_rate is unset; raw captures will decode in sample units unless --sample-rate is given"})
	}

	annotate := strings.ToLower(strings.TrimSpace(cfg.Annotate.Format))
	if annotate != "text" && annotate != "jsonl" {
		return nil, fmt.Errorf("annotate.format must be one of: text, jsonl")
	}

	return warnings, nil
}
