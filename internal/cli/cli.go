package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Command string

const (
	CommandDecode  Command = "decode"
	CommandStatus  Command = "status"
	CommandStop    Command = "stop"
	CommandDoctor  Command = "doctor"
	CommandVersion Command = "version"
	CommandHelp    Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandDecode:  {},
	CommandStatus:  {},
	CommandStop:    {},
	CommandDoctor:  {},
	CommandVersion: {},
	CommandHelp:    {},
}

// Parsed is the fully resolved command line. Decode-only flags are zero
// for the other commands.
type Parsed struct {
	Command    Command
	ConfigPath string
	ShowHelp   bool

	// decode
	InputPath      string
	Format         string
	SampleRate     float64
	TimeUnit       float64
	AnnotatePath   string
	AnnotateFormat string
	OutputPath     string
	Uppercase      bool
	Listen         bool
}

const sampleRateFlag = "--sample-rate"

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}

	i := 0
	for ; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
			continue
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
			continue
		case "--config":
			value, next, err := takeValue(args, i, "--config")
			if err != nil {
				return Parsed{}, err
			}
			parsed.ConfigPath = value
			i = next
			continue
		}

		if strings.HasPrefix(arg, "-") {
			return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
		}

		cmd := Command(arg)
		if _, ok := validCommands[cmd]; !ok {
			return Parsed{}, fmt.Errorf("unknown command: %s", arg)
		}

		parsed.Command = cmd
		parsed.ShowHelp = cmd == CommandHelp

		rest := args[i+1:]
		if cmd == CommandDecode {
			return parseDecode(parsed, rest)
		}
		if len(rest) != 0 {
			return Parsed{}, fmt.Errorf("unexpected arguments after command %q", arg)
		}
		return parsed, nil
	}

	return parsed, nil
}

// parseDecode consumes decode-specific flags and the input path.
func parseDecode(parsed Parsed, args []string) (Parsed, error) {
	sawInput := false

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--format":
			value, next, err := takeValue(args, i, "--format")
			if err != nil {
				return Parsed{}, err
			}
			parsed.Format = value
			i = next
		case sampleRateFlag:
			value, next, err := takeValue(args, i, sampleRateFlag)
			if err != nil {
				return Parsed{}, err
			}
			rate, perr := strconv.ParseFloat(value, 64)
			if perr != nil || rate <= 0 {
				return Parsed{}, fmt.Errorf("%s requires a positive number, got %q", sampleRateFlag, value)
			}
			parsed.SampleRate = rate
			i = next
		case "--time-unit":
			value, next, err := takeValue(args, i, "--time-unit")
			if err != nil {
				return Parsed{}, err
			}
			unit, perr := strconv.ParseFloat(value, 64)
			if perr != nil || unit <= 0 {
				return Parsed{}, fmt.Errorf("--time-unit requires a positive number, got %q", value)
			}
			parsed.TimeUnit = unit
			i = next
		case "--annotate":
			value, next, err := takeValue(args, i, "--annotate")
			if err != nil {
				return Parsed{}, err
			}
			parsed.AnnotatePath = value
			i = next
		case "--annotate-format":
			value, next, err := takeValue(args, i, "--annotate-format")
			if err != nil {
				return Parsed{}, err
			}
			parsed.AnnotateFormat = value
			i = next
		case "--output":
			value, next, err := takeValue(args, i, "--output")
			if err != nil {
				return Parsed{}, err
			}
			parsed.OutputPath = value
			i = next
		case "--upper":
			parsed.Uppercase = true
		case "--listen":
			parsed.Listen = true
		case "--config":
			value, next, err := takeValue(args, i, "--config")
			if err != nil {
				return Parsed{}, err
			}
			parsed.ConfigPath = value
			i = next
		default:
			if strings.HasPrefix(arg, "-") && arg != "-" {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}
			if sawInput {
				return Parsed{}, fmt.Errorf("unexpected argument %q; input path already given", arg)
			}
			parsed.InputPath = arg
			sawInput = true
		}
	}

	if !sawInput {
		return Parsed{}, errors.New("decode requires an input path (use \"-\" for stdin)")
	}

	return parsed, nil
}

func takeValue(args []string, i int, flag string) (string, int, error) {
	if i+1 >= len(args) {
		return "", i, fmt.Errorf("%s requires a value", flag)
	}
	return args[i+1], i + 1, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] <command>
  %[1]s decode [flags] <input|->

Commands:
  decode    Decode a logic capture into text
  status    Query a decode session over the control socket
  stop      Stop the active decode session
  doctor    Run configuration and environment checks
  version   Print version information
  help      Show this help

Decode flags:
  --format FORMAT         Input format: raw or vcd (default from config)
  --sample-rate HZ        Samples per second for raw captures
  --time-unit SECONDS     Initial dit length guess
  --annotate PATH         Write interval/letter/word annotations to PATH ("-" = stderr)
  --annotate-format FMT   Annotation format: text or jsonl
  --output PATH           Write the transcript to PATH instead of stdout
  --upper                 Uppercase the transcript
  --listen                Serve status/stop on the control socket while decoding

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/morsetap/config.conf)
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
