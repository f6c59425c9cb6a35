package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Committer writes the final transcript to its configured destination.
type Committer struct {
	path   string
	stdout io.Writer
	logger *slog.Logger
}

// NewCommitter constructs a transcript committer. path selects a file
// destination; empty or "-" means stdout.
func NewCommitter(path string, stdout io.Writer, logger *slog.Logger) *Committer {
	return &Committer{path: path, stdout: stdout, logger: logger}
}

// Commit dispatches a non-empty transcript.
func (c *Committer) Commit(_ context.Context, transcript string) error {
	if transcript == "" {
		return nil
	}

	if c.path == "" || c.path == "-" {
		if _, err := io.WriteString(c.stdout, transcript); err != nil {
			return fmt.Errorf("write transcript: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(c.path, []byte(transcript), 0o644); err != nil {
		return fmt.Errorf("write transcript %q: %w", c.path, err)
	}
	if c.logger != nil {
		c.logger.Info("transcript written", "path", c.path, "bytes", len(transcript))
	}
	return nil
}
