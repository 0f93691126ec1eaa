// Package cli holds the plumbing shared by the complete and chat commands:
// dotenv loading, environment defaults, logging setup and exit codes.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/germanamz/completions/pkg/modeladapter"
	"github.com/germanamz/completions/pkg/modeladapter/usage"
	"github.com/joho/godotenv"
)

// Environment variables read by both commands.
const (
	ModelEnv   = "OPENAI_COMPLETIONS_MODEL"
	BaseURLEnv = "OPENAI_BASE_URL"
)

// MissingCredentialMessage is printed when no API key can be resolved.
const MissingCredentialMessage = "Error: OPENAI_API_KEY not found. Set it in env or /opt/mykey.json."

// ExitError carries a process exit code. Its message, if any, has already
// been reported to the user.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Exit returns an ExitError for code.
func Exit(code int) error {
	return &ExitError{Code: code}
}

// ExitCode maps the error returned by a command to a process exit code.
// Errors that do not carry a code are printed to w and exit with 1.
func ExitCode(err error, w io.Writer) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	_, _ = fmt.Fprintf(w, "error: %v\n", err)

	return 1
}

// LoadDotEnv loads environment variables from path. Missing files are
// ignored and variables already set are left alone.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}

// Getenv returns the value of the environment variable name, or fallback
// when it is unset or blank.
func Getenv(name, fallback string) string {
	if v := os.Getenv(name); strings.TrimSpace(v) != "" {
		return v
	}

	return fallback
}

// NewLogger returns a text logger on w at warn level, or debug level when
// debug is set.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Middlewares returns the completer middlewares for the given options.
// Call and usage logging are only installed in debug mode so failures are
// not reported twice.
func Middlewares(log *slog.Logger, debug bool, timeout time.Duration, tracker *usage.Tracker) []modeladapter.Middleware {
	var mws []modeladapter.Middleware
	if debug {
		mws = append(mws, modeladapter.Logger(log))
	}

	mws = append(mws, modeladapter.Timeout(timeout))
	if debug && tracker != nil {
		mws = append(mws, modeladapter.UsageLogger(log, tracker))
	}

	return mws
}
