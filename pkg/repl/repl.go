// Package repl runs the interactive chat loop.
//
// The loop alternates between awaiting a line of input and processing it.
// Each successful exchange is appended to the transcript, which is replayed
// as the prefix of every following prompt. The loop terminates on end of
// input, on context cancellation, or when the user types "exit" or "quit".
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/germanamz/completions/pkg/modeladapter"
	"github.com/germanamz/completions/pkg/present"
	"github.com/germanamz/completions/pkg/prompt"
)

const (
	banner      = "Type \"exit\" to quit.\n"
	inputPrompt = "You: "
	maxLineSize = 1024 * 1024
)

// Loop holds everything one interactive session needs.
type Loop struct {
	In        io.Reader
	Out       io.Writer
	Completer modeladapter.Completer
	Printer   *present.Printer

	// Template carries the model settings and stop sequences. Its Prompt is
	// replaced for every request.
	Template modeladapter.Request

	// System is the instruction placed before the transcript.
	System string

	// Endpoint names the client call in verbose output.
	Endpoint string
}

type line struct {
	text string
	err  error
	eof  bool
}

// Run reads lines until a termination condition and returns the final
// transcript. Failed exchanges are reported and leave the transcript
// unchanged. Only a read error other than end of input is returned.
func (l *Loop) Run(ctx context.Context) (prompt.Transcript, error) {
	var transcript prompt.Transcript

	done := make(chan struct{})
	defer close(done)

	lines := readLines(l.In, done)

	_, _ = io.WriteString(l.Out, banner)

	for {
		_, _ = io.WriteString(l.Out, inputPrompt)

		var in line
		select {
		case <-ctx.Done():
			_, _ = io.WriteString(l.Out, "\n")
			return transcript, nil
		case in = <-lines:
		}

		if in.eof {
			_, _ = io.WriteString(l.Out, "\n")
			return transcript, nil
		}
		if in.err != nil {
			return transcript, fmt.Errorf("repl: read input: %w", in.err)
		}

		input := strings.TrimSpace(in.text)
		if input == "" {
			continue
		}
		if IsExit(input) {
			return transcript, nil
		}

		transcript = l.exchange(ctx, transcript, input)
	}
}

// exchange performs one request for input and returns the transcript to
// carry into the next iteration.
func (l *Loop) exchange(ctx context.Context, transcript prompt.Transcript, input string) prompt.Transcript {
	req := l.Template
	req.Prompt = transcript.Prompt(l.System, input)

	l.Printer.Request(l.Endpoint, req)

	resp, err := l.Completer.Complete(ctx, req)
	if err != nil {
		if errors.Is(err, modeladapter.ErrUnexpectedResponse) && resp.Raw != nil {
			l.Printer.Response(resp)
		}
		l.Printer.Error(err)

		return transcript
	}

	l.Printer.Response(resp)
	l.Printer.AssistantReply(resp.Text)

	return transcript.Append(input, resp.Text)
}

// IsExit reports whether input asks to end the session.
func IsExit(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit":
		return true
	}

	return false
}

// readLines scans r on its own goroutine so a blocked read does not keep the
// loop from observing cancellation. The goroutine stops once done is closed.
func readLines(r io.Reader, done <-chan struct{}) <-chan line {
	lines := make(chan line)

	go func() {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		send := func(l line) bool {
			select {
			case lines <- l:
				return true
			case <-done:
				return false
			}
		}

		for scanner.Scan() {
			if !send(line{text: scanner.Text()}) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			send(line{err: err})
			return
		}

		send(line{eof: true})
	}()

	return lines
}
