package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/crackwitz/morsetap/internal/cli"
	"github.com/crackwitz/morsetap/internal/config"
	"github.com/crackwitz/morsetap/internal/decoder"
	"github.com/crackwitz/morsetap/internal/doctor"
	"github.com/crackwitz/morsetap/internal/ipc"
	"github.com/crackwitz/morsetap/internal/logging"
	"github.com/crackwitz/morsetap/internal/output"
	"github.com/crackwitz/morsetap/internal/pipeline"
	"github.com/crackwitz/morsetap/internal/session"
	"github.com/crackwitz/morsetap/internal/transcript"
	"github.com/crackwitz/morsetap/internal/version"
	"github.com/crackwitz/morsetap/internal/waveform"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("morsetap"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("morsetap"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandStop:
		return r.forwardOrFail(ctx, "stop")
	case cli.CommandDecode:
		return r.commandDecode(ctx, parsed, cfgLoaded.Config, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) commandStatus(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintln(r.Stdout, "idle")
		return 0
	}

	resp, handled, err := tryForward(ctx, socketPath, "status")
	if handled {
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		if resp.State == "" {
			resp.State = "idle"
		}
		fmt.Fprintf(r.Stdout, "%s words=%d letters=%d wpm=%.1f\n", resp.State, resp.Words, resp.Letters, resp.WPM)
		return 0
	}

	fmt.Fprintln(r.Stdout, "idle")
	return 0
}

func (r Runner) forwardOrFail(ctx context.Context, command string) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, command)
	if !handled {
		fmt.Fprintf(r.Stderr, "error: no active morsetap session\n")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

// decodeSettings is the effective decode configuration after CLI flags
// override the config file.
type decodeSettings struct {
	format         string
	sampleRate     float64
	timeUnit       float64
	adaptRate      float64
	timeoutUnits   float64
	annotatePath   string
	annotateFormat string
	outputPath     string
	uppercase      bool
}

func resolveDecodeSettings(parsed cli.Parsed, cfg config.Config) (decodeSettings, error) {
	s := decodeSettings{
		format:         strings.ToLower(strings.TrimSpace(cfg.Input.Format)),
		sampleRate:     cfg.Input.SampleRate,
		timeUnit:       cfg.Decode.TimeUnit,
		adaptRate:      cfg.Decode.AdaptRate,
		timeoutUnits:   cfg.Decode.TimeoutUnits,
		annotatePath:   parsed.AnnotatePath,
		annotateFormat: strings.ToLower(strings.TrimSpace(cfg.Annotate.Format)),
		outputPath:     cfg.Output.Path,
		uppercase:      cfg.Transcript.Uppercase || parsed.Uppercase,
	}

	if parsed.Format != "" {
		s.format = strings.ToLower(parsed.Format)
	}
	if s.format != "raw" && s.format != "vcd" {
		return decodeSettings{}, fmt.Errorf("unsupported input format %q", s.format)
	}
	if parsed.SampleRate > 0 {
		s.sampleRate = parsed.SampleRate
	}
	if parsed.TimeUnit > 0 {
		s.timeUnit = parsed.TimeUnit
	}
	if parsed.AnnotateFormat != "" {
		s.annotateFormat = strings.ToLower(parsed.AnnotateFormat)
	}
	if s.annotateFormat != "text" && s.annotateFormat != "jsonl" {
		return decodeSettings{}, fmt.Errorf("unsupported annotation format %q", s.annotateFormat)
	}
	if parsed.OutputPath != "" {
		s.outputPath = parsed.OutputPath
	}

	return s, nil
}

func (r Runner) commandDecode(ctx context.Context, parsed cli.Parsed, cfg config.Config, logger *slog.Logger) int {
	settings, err := resolveDecodeSettings(parsed, cfg)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 2
	}

	var reader io.Reader
	if parsed.InputPath == "-" {
		reader = r.Stdin
		if reader == nil {
			reader = os.Stdin
		}
	} else {
		file, openErr := os.Open(parsed.InputPath)
		if openErr != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", openErr)
			return 1
		}
		defer file.Close()
		reader = file
	}

	var src waveform.Source
	switch settings.format {
	case "vcd":
		edges, parseErr := waveform.ParseVCD(reader, "")
		if parseErr != nil {
			fmt.Fprintf(r.Stderr, "error: parse vcd: %v\n", parseErr)
			return 1
		}
		src = edges
	default:
		src = waveform.NewSampleReader(reader, settings.sampleRate)
	}

	var sink decoder.Sink = output.Discard
	if settings.annotatePath != "" {
		annotateOut := io.Writer(r.Stderr)
		if settings.annotatePath != "-" {
			annotateFile, createErr := os.Create(settings.annotatePath)
			if createErr != nil {
				fmt.Fprintf(r.Stderr, "error: %v\n", createErr)
				return 1
			}
			defer annotateFile.Close()
			annotateOut = annotateFile
		}
		if settings.annotateFormat == "jsonl" {
			sink = output.NewJSONLWriter(annotateOut)
		} else {
			sink = output.NewTextWriter(annotateOut)
		}
	}

	dec, err := pipeline.NewDecoder(src, sink, decoder.Config{
		TimeUnit:     settings.timeUnit,
		AdaptRate:    settings.adaptRate,
		TimeoutUnits: settings.timeoutUnits,
	}, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 2
	}

	committer := output.NewCommitter(settings.outputPath, r.Stdout, logger)
	controller := session.NewController(logger, dec, committer, transcript.Options{
		Uppercase:       settings.uppercase,
		TrailingNewline: cfg.Transcript.TrailingNewline,
	})

	if parsed.Listen {
		return r.decodeWithSocket(ctx, controller, logger)
	}

	result := controller.Run(ctx)
	return r.reportResult(result, logger)
}

// decodeWithSocket runs the decode while serving status/stop on the
// control socket.
func (r Runner) decodeWithSocket(ctx context.Context, controller *session.Controller, logger *slog.Logger) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8, nil)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, controller)
	}()

	result := controller.Run(ctx)
	serverCancel()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", serverErr)
		return 1
	}

	return r.reportResult(result, logger)
}

func (r Runner) reportResult(result session.Result, logger *slog.Logger) int {
	logSessionResult(logger, result)

	if result.Stopped {
		fmt.Fprintln(r.Stderr, "stopped")
		return 0
	}
	if result.Err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", result.Err)
		return 1
	}

	fmt.Fprintf(r.Stderr, "decoded %d words, %d letters from %s samples (%.1f wpm)\n",
		result.Words,
		result.Letters,
		humanize.Comma(int64(result.Samples)),
		result.WPM,
	)
	return 0
}

func logSessionResult(logger *slog.Logger, result session.Result) {
	if logger == nil {
		return
	}
	fields := []any{
		"session_id", result.ID,
		"state", result.State,
		"stopped", result.Stopped,
		"started_at", result.StartedAt.Format(time.RFC3339Nano),
		"finished_at", result.FinishedAt.Format(time.RFC3339Nano),
		"duration_ms", result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
		"words", result.Words,
		"letters", result.Letters,
		"samples", result.Samples,
		"unit_seconds", result.UnitSeconds,
		"wpm", result.WPM,
		"transcript_length", len(result.Transcript),
	}

	if result.Err != nil {
		logger.Error("session failed", append(fields, "error", result.Err.Error())...)
		return
	}
	logger.Info("session complete", fields...)
}

func tryForward(ctx context.Context, socketPath string, command string) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, socketPath, ipc.Request{Command: command}, 220*time.Millisecond)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}

	if isSocketMissing(err) {
		return ipc.Response{}, false, nil
	}
	if isConnectionRefused(err) {
		return ipc.Response{}, false, nil
	}

	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", command, err)
}

func isSocketMissing(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrNotExist) ||
		strings.Contains(err.Error(), "no such file or directory")
}

func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}
