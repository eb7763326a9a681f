package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/enc/config"
	"github.com/randalmurphal/enc/pricing"

	_ "github.com/randalmurphal/enc/providers"
)

// Version is set at build time.
var Version = "dev"

// app carries the process boundary so commands can run in tests.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	args     []string
	environ  []string
	envFiles config.EnvFiles

	flags flags
}

type flags struct {
	outputFile     string
	targetLanguage string
	model          string
	provider       string
	conventions    string
	promptTemplate string
	seed           int
	maxTokens      int
	thinkingBudget int
	logsPath       string
	contextFiles   string
	groundedMode   bool
	pricingFile    string

	configFile  string
	showConfig  bool
	format      string
	watch       bool
	metricsFile string
	verbose     bool
}

func newApp(stdout, stderr io.Writer, args, environ []string) *app {
	return &app{
		stdout:   stdout,
		stderr:   stderr,
		args:     args,
		environ:  environ,
		envFiles: config.DefaultEnvFiles(),
	}
}

func (a *app) root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enc <input_file>",
		Short: "Transpile a natural-language description into code with an LLM",
		Long: `enc sends a natural-language source file, a style guide and optional
context files to an LLM and writes the generated code.

Configuration is read from flags, then the environment (including
~/.enc.env and ./.enc.env), then enc.toml, then the pricing catalog.`,
		Version:       Version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&a.flags.outputFile, "output-file", "o", "", "output file; its extension selects the target language")
	f.StringVarP(&a.flags.targetLanguage, "target-language", "l", "", "target language (python, rust, go, ...)")
	f.StringVar(&a.flags.model, "model", "", "model name (env MODEL)")
	f.StringVar(&a.flags.provider, "provider", "", "backend: google or openai (env PROVIDER)")
	f.StringVar(&a.flags.conventions, "conventions", "", "style guide file (env CONVENTIONS_PATH)")
	f.StringVar(&a.flags.promptTemplate, "prompt-template-file", "", "prompt template (env PROMPT_TEMPLATE_PATH)")
	f.IntVarP(&a.flags.seed, "seed", "s", 0, "sampling seed (env SEED)")
	f.IntVar(&a.flags.maxTokens, "max-tokens", 0, "maximum output tokens (env MAX_TOKENS)")
	f.IntVar(&a.flags.thinkingBudget, "thinking-budget", 0, "thinking budget, logged only (env THINKING_BUDGET)")
	f.StringVar(&a.flags.logsPath, "logs-path", "", "audit log directory; empty disables (env LOGS_PATH)")
	f.StringVar(&a.flags.contextFiles, "context-files", "", "colon-separated context files (env CONTEXT_FILES)")
	f.BoolVar(&a.flags.groundedMode, "grounded-mode", false, "include the existing output file as context (env GROUNDED_MODE)")
	f.StringVar(&a.flags.pricingFile, "pricing-file", "", "pricing catalog (env PRICING_FILE_PATH)")
	f.StringVar(&a.flags.configFile, "config", "", "project config file (default "+config.DefaultFilePath+" when present)")
	f.BoolVar(&a.flags.showConfig, "show-config", false, "print the resolved configuration and exit")
	f.StringVar(&a.flags.format, "format", "json", "--show-config output format: json or yaml")
	f.BoolVar(&a.flags.watch, "watch", false, "re-run whenever the input file changes")
	f.StringVar(&a.flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after each run")
	cmd.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(a.schemaCmd())
	return cmd
}

func (a *app) logger() *slog.Logger {
	level := slog.LevelInfo
	if a.flags.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}

// overrides converts the flags the user actually set into the top tier.
func (a *app) overrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	set := cmd.Flags().Changed
	str := func(name string, v string) *string {
		if !set(name) {
			return nil
		}
		return &v
	}
	num := func(name string, v int) *int {
		if !set(name) {
			return nil
		}
		return &v
	}

	o.OutputPath = str("output-file", a.flags.outputFile)
	o.TargetLanguage = str("target-language", a.flags.targetLanguage)
	o.Model = str("model", a.flags.model)
	o.Provider = str("provider", a.flags.provider)
	o.ConventionsPath = str("conventions", a.flags.conventions)
	o.TemplatePath = str("prompt-template-file", a.flags.promptTemplate)
	o.LogsPath = str("logs-path", a.flags.logsPath)
	o.ContextFiles = str("context-files", a.flags.contextFiles)
	o.PricingPath = str("pricing-file", a.flags.pricingFile)
	o.Seed = num("seed", a.flags.seed)
	o.MaxTokens = num("max-tokens", a.flags.maxTokens)
	o.ThinkingBudget = num("thinking-budget", a.flags.thinkingBudget)
	if set("grounded-mode") {
		g := a.flags.groundedMode
		o.GroundedMode = &g
	}
	return o
}

// loadFile reads --config, or enc.toml when present.
func (a *app) loadFile(logger *slog.Logger) (*config.File, error) {
	var (
		f       *config.File
		unknown []string
		err     error
	)
	if a.flags.configFile != "" {
		f, unknown, err = config.LoadFile(a.flags.configFile)
	} else {
		f, unknown, err = config.LoadFileOptional(config.DefaultFilePath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrConfig, err)
	}
	for _, key := range unknown {
		logger.Warn("unknown key in config file", "key", key)
	}
	return f, nil
}

func (a *app) printConfig(snap config.Snapshot) error {
	switch strings.ToLower(a.flags.format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	default:
		return fmt.Errorf("%w: unknown --format %q (want json or yaml)", config.ErrConfig, a.flags.format)
	}
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema pricing",
		Short:     "Print the JSON Schema of a configuration document",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"pricing"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "pricing" {
				return fmt.Errorf("unknown schema %q (available: pricing)", args[0])
			}
			data, err := pricing.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, string(data))
			return err
		},
	}
}
