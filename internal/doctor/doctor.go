// Package doctor runs runtime readiness diagnostics for config, environment, and captures.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/crackwitz/morsetap/internal/config"
	"github.com/crackwitz/morsetap/internal/morse"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config checks for a loaded config.
func Run(cfg config.Loaded) Report {
	checks := []Check{
		checkConfig(cfg),
		checkAlphabet(),
		checkStateDir(),
		checkRuntimeDir(),
		checkOutputPath(cfg.Config.Output.Path),
	}
	return Report{Checks: checks}
}

func checkConfig(cfg config.Loaded) Check {
	message := fmt.Sprintf("loaded %q", cfg.Path)
	if !cfg.Exists {
		message = fmt.Sprintf("%q not found; using defaults", cfg.Path)
	}
	if len(cfg.Warnings) > 0 {
		message = fmt.Sprintf("%s (%d warning(s))", message, len(cfg.Warnings))
	}
	return Check{Name: "config", Pass: true, Message: message}
}

// checkAlphabet verifies the code table round-trips through the reverse index.
func checkAlphabet() Check {
	for _, key := range morse.Codes() {
		code, err := morse.ParseCode(key)
		if err != nil {
			return Check{Name: "alphabet", Pass: false, Message: fmt.Sprintf("bad key %q: %v", key, err)}
		}
		text, ok := morse.Lookup(code)
		if !ok {
			return Check{Name: "alphabet", Pass: false, Message: fmt.Sprintf("no assignment for %q", key)}
		}
		back, ok := morse.CodeOf(text)
		if !ok || back.String() != key {
			return Check{Name: "alphabet", Pass: false, Message: fmt.Sprintf("reverse lookup mismatch for %q", key)}
		}
	}
	return Check{Name: "alphabet", Pass: true, Message: fmt.Sprintf("%d code assignments verified", len(morse.Codes()))}
}

// checkStateDir verifies the log directory is writable.
func checkStateDir() Check {
	dir, err := stateDir()
	if err != nil {
		return Check{Name: "state.dir", Pass: false, Message: err.Error()}
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return Check{Name: "state.dir", Pass: false, Message: fmt.Sprintf("create %q: %v", dir, err)}
	}
	probe, err := os.CreateTemp(dir, "doctor-*")
	if err != nil {
		return Check{Name: "state.dir", Pass: false, Message: fmt.Sprintf("%q is not writable: %v", dir, err)}
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return Check{Name: "state.dir", Pass: true, Message: fmt.Sprintf("%q is writable", dir)}
}

func stateDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return filepath.Join(xdg, "morsetap"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory for state: %w", err)
	}
	return filepath.Join(home, ".local", "state", "morsetap"), nil
}

// checkRuntimeDir verifies the control socket has somewhere to live.
func checkRuntimeDir() Check {
	runtimeDir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR"))
	if runtimeDir == "" {
		return Check{Name: "XDG_RUNTIME_DIR", Pass: false, Message: "XDG_RUNTIME_DIR is empty; --listen will be unavailable"}
	}
	info, err := os.Stat(runtimeDir)
	if err != nil || !info.IsDir() {
		return Check{Name: "XDG_RUNTIME_DIR", Pass: false, Message: fmt.Sprintf("%q is not a directory", runtimeDir)}
	}
	return Check{Name: "XDG_RUNTIME_DIR", Pass: true, Message: fmt.Sprintf("control socket dir %q", runtimeDir)}
}

// checkOutputPath verifies a configured transcript destination is creatable.
func checkOutputPath(path string) Check {
	if path == "" || path == "-" {
		return Check{Name: "output.path", Pass: true, Message: "transcript goes to stdout"}
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Check{Name: "output.path", Pass: false, Message: fmt.Sprintf("directory %q does not exist", dir)}
	}
	return Check{Name: "output.path", Pass: true, Message: fmt.Sprintf("transcript goes to %q", path)}
}
