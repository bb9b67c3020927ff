package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/maxvaer/shockprobe/internal/scanner"
)

// resultJSON is the JSON payload sent to the hook command via stdin.
type resultJSON struct {
	URL           string `json:"url"`
	Status        string `json:"status"`
	Details       string `json:"details"`
	StatusCode    int    `json:"status_code,omitempty"`
	ContentLength int64  `json:"size"`
}

// Runner executes a shell command for each outcome.
type Runner struct {
	cmd     string
	timeout time.Duration
	log     *slog.Logger
}

// NewRunner creates a hook runner. cmd is the shell command to execute.
func NewRunner(cmd string, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{cmd: cmd, timeout: 30 * time.Second, log: log}
}

// Run executes the hook command with the outcome as JSON on stdin. The
// command's stdout is logged; failures are logged but never halt the run.
func (r *Runner) Run(result *scanner.Outcome) {
	payload := resultJSON{
		URL:           result.URL,
		Status:        result.Verdict.String(),
		Details:       result.Detail,
		StatusCode:    result.StatusCode,
		ContentLength: result.ContentLength,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		r.log.Error("hook marshal failed", "url", result.URL, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	shell, args := shellCommand()
	cmd := exec.CommandContext(ctx, shell, append(args, Expand(r.cmd))...)
	cmd.Env = append(os.Environ(), Env(result)...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stderr = os.Stderr

	output, err := cmd.Output()
	if err != nil {
		r.log.Warn("hook failed", "url", result.URL, "error", err)
		return
	}
	if len(output) > 0 {
		r.log.Info("hook", "url", result.URL, "output", strings.TrimSpace(string(output)))
	}
}

// Placeholder values reach the command through these environment variables.
// Target-controlled text such as error details is never part of the script.
const (
	EnvURL     = "SHOCKPROBE_URL"
	EnvStatus  = "SHOCKPROBE_STATUS"
	EnvDetails = "SHOCKPROBE_DETAILS"
	EnvCode    = "SHOCKPROBE_CODE"
)

// Env returns the KEY=value pairs describing result.
func Env(result *scanner.Outcome) []string {
	return []string{
		EnvURL + "=" + result.URL,
		EnvStatus + "=" + result.Verdict.String(),
		EnvDetails + "=" + result.Detail,
		EnvCode + "=" + strconv.Itoa(result.StatusCode),
	}
}

// Expand rewrites {url}, {status}, {details} and {code} in cmd into
// references to the matching environment variables.
func Expand(cmd string) string {
	return strings.NewReplacer(
		"{url}", envRef(EnvURL),
		"{status}", envRef(EnvStatus),
		"{details}", envRef(EnvDetails),
		"{code}", envRef(EnvCode),
	).Replace(cmd)
}

func envRef(name string) string {
	if runtime.GOOS == "windows" {
		return "%" + name + "%"
	}
	return `"$` + name + `"`
}

func shellCommand() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}
	}
	return "sh", []string{"-c"}
}
