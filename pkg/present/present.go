// Package present writes completion results and debug payloads to the terminal.
package present

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/germanamz/completions/pkg/modeladapter"
	"github.com/muesli/termenv"
)

// MaxLoggedPrompt is the number of prompt characters shown in verbose output.
const MaxLoggedPrompt = 1000

// TruncationMarker follows a prompt cut to MaxLoggedPrompt characters.
const TruncationMarker = "... [truncated]"

// Printer renders replies, errors and, in verbose mode, request and
// response payloads.
type Printer struct {
	out     io.Writer
	errOut  io.Writer
	verbose bool
	dim     lipgloss.Style
}

// New creates a Printer writing replies and payloads to out and errors to
// errOut. Payloads are only written when verbose is set.
func New(out, errOut io.Writer, verbose bool) *Printer {
	r := lipgloss.NewRenderer(out)
	// Payloads are always dimmed, even when out is not a terminal.
	r.SetColorProfile(termenv.ANSI)

	return &Printer{
		out:     out,
		errOut:  errOut,
		verbose: verbose,
		dim:     r.NewStyle().Foreground(lipgloss.Color("8")), // gray
	}
}

// Verbose reports whether payloads are written.
func (p *Printer) Verbose() bool { return p.verbose }

// Reply writes the bare assistant text.
func (p *Printer) Reply(text string) {
	_, _ = fmt.Fprintln(p.out, text)
}

// AssistantReply writes the assistant text with its speaker label.
func (p *Printer) AssistantReply(text string) {
	_, _ = fmt.Fprintf(p.out, "Assistant: %s\n", text)
}

// Error reports a failed call on the error stream.
func (p *Printer) Error(err error) {
	if errors.Is(err, modeladapter.ErrUnexpectedResponse) {
		_, _ = fmt.Fprintln(p.errOut, "Unexpected response format.")
		return
	}

	_, _ = fmt.Fprintf(p.errOut, "API error: %v\n", err)
}

// loggedRequest is the verbose view of an outbound request.
type loggedRequest struct {
	Endpoint    string   `json:"endpoint"`
	Model       string   `json:"model"`
	Prompt      string   `json:"prompt"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature float64  `json:"temperature"`
	Stop        []string `json:"stop,omitempty"`
}

// Request writes the outbound request in verbose mode. The prompt shown is
// truncated; req itself is not modified.
func (p *Printer) Request(endpoint string, req modeladapter.Request) {
	if !p.verbose {
		return
	}

	p.dimJSON(">> Request:", loggedRequest{
		Endpoint:    endpoint,
		Model:       req.Model,
		Prompt:      TruncatePrompt(req.Prompt),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stop:        req.Stop,
	})
}

// Response writes the inbound response payload in verbose mode.
func (p *Printer) Response(resp modeladapter.Response) {
	if !p.verbose {
		return
	}

	p.dimJSON("<< Response:", resp.Raw)
}

// dimJSON writes label and data as indented JSON, styling each line on its
// own so the escape codes never span a newline and lipgloss pads nothing.
// Per-line rendering is only lossless because JSON escapes tabs and carriage
// returns inside strings and indentJSON indents with spaces: lipgloss would
// otherwise expand tabs and treat "\r" as a line break.
func (p *Printer) dimJSON(label string, data any) {
	text := indentJSON(data)

	var sb strings.Builder
	for _, line := range strings.Split(label+"\n"+text, "\n") {
		if line != "" {
			sb.WriteString(p.dim.Render(line))
		}
		sb.WriteByte('\n')
	}

	_, _ = io.WriteString(p.out, sb.String())
}

// TruncatePrompt cuts s to MaxLoggedPrompt characters and appends
// TruncationMarker. Shorter prompts are returned unchanged.
func TruncatePrompt(s string) string {
	r := []rune(s)
	if len(r) <= MaxLoggedPrompt {
		return s
	}

	return string(r[:MaxLoggedPrompt]) + TruncationMarker
}

// indentJSON renders data as two-space indented JSON without HTML escaping,
// falling back to its default format when it cannot be encoded.
func indentJSON(data any) string {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(data); err != nil {
		return fmt.Sprint(data)
	}

	return strings.TrimRight(buf.String(), "\n")
}
