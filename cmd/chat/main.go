// Command chat runs an interactive conversation against the OpenAI
// Completions API, replaying the session transcript in every prompt.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/germanamz/completions/internal/cli"
	"github.com/germanamz/completions/pkg/config"
	"github.com/germanamz/completions/pkg/credential"
	"github.com/germanamz/completions/pkg/modeladapter"
	"github.com/germanamz/completions/pkg/present"
	"github.com/germanamz/completions/pkg/prompt"
	"github.com/germanamz/completions/pkg/providers/openai"
	"github.com/germanamz/completions/pkg/repl"
	"github.com/spf13/cobra"
)

// Defaults for the session settings. defaultModel is kept independent from
// the complete command's default.
const (
	defaultModel       = "gpt-3.5-turbo-instruct"
	defaultSystem      = "You are a helpful assistant."
	defaultTemperature = 0.7
	defaultMaxTokens   = 256

	systemEnv = "OPENAI_SYSTEM_INSTRUCTION"
)

type app struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	sources []credential.Source
}

// options are the resolved session settings.
type options struct {
	model       string
	temperature float64
	maxTokens   int
	system      string
	verbose     bool

	configPath string
	envFile    string
	baseURL    string
	debug      bool
	timeout    time.Duration
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr, sources: credential.Default()}
	code := a.run(ctx, os.Args[1:])

	cancel()
	os.Exit(code)
}

func (a *app) run(ctx context.Context, args []string) int {
	cmd := a.newCommand()
	cmd.SetArgs(args)
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	return cli.ExitCode(cmd.ExecuteContext(ctx), a.stderr)
}

func (a *app) newCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "chat",
		Short:         "Command-line chat using the OpenAI Completions API (instruct models)",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.resolve(cmd); err != nil {
				return err
			}

			return a.chat(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.model, "model", defaultModel, "completions model (default from "+cli.ModelEnv+")")
	f.Float64Var(&opts.temperature, "temperature", defaultTemperature, "sampling temperature")
	f.IntVar(&opts.maxTokens, "max-tokens", defaultMaxTokens, "max tokens for each response")
	f.StringVar(&opts.system, "system", defaultSystem, "system-style instruction prefixed to the prompt (default from "+systemEnv+")")
	f.BoolVar(&opts.verbose, "verbose", false, "print request and response payloads (gray)")
	f.StringVar(&opts.configPath, "config", "", "path to a YAML file with session defaults")
	f.StringVar(&opts.envFile, "env", ".env", "path to .env file (ignored if missing)")
	f.StringVar(&opts.baseURL, "base-url", openai.DefaultBaseURL, "API base URL (default from "+cli.BaseURLEnv+")")
	f.BoolVar(&opts.debug, "debug", false, "log each API call and the session's token usage to stderr")
	f.DurationVar(&opts.timeout, "timeout", 0, "deadline for each API call (0 for none)")

	return cmd
}

// resolve fills every setting not given on the command line. Precedence is
// flag, then config file, then environment, then built-in default.
func (o *options) resolve(cmd *cobra.Command) error {
	if err := cli.LoadDotEnv(o.envFile); err != nil {
		return err
	}

	changed := cmd.Flags().Changed

	if !changed("model") {
		o.model = cli.Getenv(cli.ModelEnv, defaultModel)
	}
	if !changed("system") {
		o.system = cli.Getenv(systemEnv, defaultSystem)
	}
	if !changed("base-url") {
		o.baseURL = cli.Getenv(cli.BaseURLEnv, openai.DefaultBaseURL)
	}

	if o.configPath != "" {
		if err := o.applyConfig(changed); err != nil {
			return err
		}
	}

	if o.maxTokens <= 0 {
		return fmt.Errorf("--max-tokens must be positive, got %d", o.maxTokens)
	}

	return nil
}

func (o *options) applyConfig(changed func(string) bool) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	if cfg.Model != "" && !changed("model") {
		o.model = cfg.Model
	}
	if cfg.Temperature != nil && !changed("temperature") {
		o.temperature = *cfg.Temperature
	}
	if cfg.MaxTokens != nil && !changed("max-tokens") {
		o.maxTokens = *cfg.MaxTokens
	}
	if cfg.System != nil && !changed("system") {
		o.system = *cfg.System
	}

	return nil
}

func (a *app) chat(ctx context.Context, opts options) error {
	log := cli.NewLogger(a.stderr, opts.debug)

	key, err := credential.Resolve(a.sources...)
	if err != nil {
		_, _ = fmt.Fprintln(a.stderr, cli.MissingCredentialMessage)
		return cli.Exit(1)
	}

	adapter := openai.New(opts.baseURL, key, opts.model)
	adapter.Temperature = opts.temperature
	adapter.MaxTokens = opts.maxTokens

	loop := &repl.Loop{
		In:        a.stdin,
		Out:       a.stdout,
		Completer: modeladapter.Chain(adapter, cli.Middlewares(log, opts.debug, opts.timeout, adapter.UsageTracker())...),
		Printer:   present.New(a.stdout, a.stderr, opts.verbose),
		Template:  adapter.BuildRequest("", prompt.StopSequences),
		System:    opts.system,
		Endpoint:  openai.Endpoint,
	}

	transcript, err := loop.Run(ctx)

	log.DebugContext(ctx, "session finished",
		"exchanges", transcript.Len(),
		"calls", adapter.Usage.Count(),
		"usage", adapter.Usage.Total(),
	)

	return err
}
