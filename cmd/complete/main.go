// Command complete sends a single message to the Completions API and prints
// the reply.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/germanamz/completions/internal/cli"
	"github.com/germanamz/completions/pkg/credential"
	"github.com/germanamz/completions/pkg/modeladapter"
	"github.com/germanamz/completions/pkg/present"
	"github.com/germanamz/completions/pkg/providers/openai"
	"github.com/spf13/cobra"
)

// defaultModel is kept independent from the chat command's default.
const defaultModel = "gpt-3.5-turbo-instruct"

const (
	maxTokens   = 256
	temperature = 0.7
)

const usage = "Usage: complete \"<message>\"\n- The message is read from $1 (first CLI argument).\n"

type app struct {
	stdout  io.Writer
	stderr  io.Writer
	sources []credential.Source
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	a := &app{stdout: os.Stdout, stderr: os.Stderr, sources: credential.Default()}
	code := a.run(ctx, os.Args[1:])

	cancel()
	os.Exit(code)
}

func (a *app) run(ctx context.Context, args []string) int {
	cmd := a.newCommand()
	cmd.InitDefaultHelpFlag()
	cmd.SetArgs(messageArgs(cmd, args))
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	return cli.ExitCode(cmd.ExecuteContext(ctx), a.stderr)
}

// messageArgs inserts "--" before the first argument that is not a long
// flag, its value or -h, so a message such as "-5 degrees?" reaches RunE
// instead of being parsed as shorthand flags.
func messageArgs(cmd *cobra.Command, args []string) []string {
	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--":
			return args
		case arg == "-h":
			continue
		case strings.HasPrefix(arg, "--"):
			name, _, hasValue := strings.Cut(arg[2:], "=")
			if f := cmd.Flags().Lookup(name); f != nil && !hasValue && f.NoOptDefVal == "" {
				i++
			}

			continue
		}

		out := make([]string, 0, len(args)+1)
		out = append(out, args[:i]...)
		out = append(out, "--")

		return append(out, args[i:]...)
	}

	return args
}

func (a *app) newCommand() *cobra.Command {
	var (
		envFile string
		baseURL string
		debug   bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:           "complete <message>",
		Short:         "Send one message to the OpenAI Completions API and print the reply",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				_, _ = io.WriteString(a.stderr, usage)
				return cli.Exit(1)
			}

			if err := cli.LoadDotEnv(envFile); err != nil {
				return err
			}

			if !cmd.Flags().Changed("base-url") {
				baseURL = cli.Getenv(cli.BaseURLEnv, openai.DefaultBaseURL)
			}

			return a.complete(cmd.Context(), args[0], baseURL, cli.NewLogger(a.stderr, debug), debug, timeout)
		},
	}

	cmd.Flags().StringVar(&envFile, "env", ".env", "path to .env file (ignored if missing)")
	cmd.Flags().StringVar(&baseURL, "base-url", openai.DefaultBaseURL, "API base URL (default from "+cli.BaseURLEnv+")")
	cmd.Flags().BoolVar(&debug, "debug", false, "log each API call to stderr")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "deadline for the API call (0 for none)")

	return cmd
}

func (a *app) complete(ctx context.Context, message, baseURL string, log *slog.Logger, debug bool, timeout time.Duration) error {
	key, err := credential.Resolve(a.sources...)
	if err != nil {
		_, _ = fmt.Fprintln(a.stderr, cli.MissingCredentialMessage)
		return cli.Exit(1)
	}

	adapter := openai.New(baseURL, key, cli.Getenv(cli.ModelEnv, defaultModel))
	adapter.MaxTokens = maxTokens
	adapter.Temperature = temperature

	completer := modeladapter.Chain(adapter, cli.Middlewares(log, debug, timeout, adapter.UsageTracker())...)
	p := present.New(a.stdout, a.stderr, false)

	resp, err := completer.Complete(ctx, adapter.BuildRequest(message, nil))
	if err != nil {
		p.Error(err)
		return cli.Exit(2)
	}

	p.Reply(resp.Text)

	return nil
}
