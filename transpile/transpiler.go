package transpile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/randalmurphal/enc/audit"
	"github.com/randalmurphal/enc/config"
	"github.com/randalmurphal/enc/cost"
	"github.com/randalmurphal/enc/metrics"
	"github.com/randalmurphal/enc/parser"
	"github.com/randalmurphal/enc/pricing"
	"github.com/randalmurphal/enc/provider"
	"github.com/randalmurphal/enc/template"
	"github.com/randalmurphal/enc/tokens"
)

// Transpiler runs transpilations against one backend.
type Transpiler struct {
	adapter provider.Adapter
	catalog *pricing.Catalog
	engine  *template.Engine
	parser  *parser.Parser
	counter tokens.Counter
	audit   audit.Sink
	logger  *slog.Logger
	metrics *metrics.Recorder
	tracker *cost.Tracker
	now     func() time.Time
}

// Option configures a Transpiler.
type Option func(*Transpiler)

// WithCatalog sets the pricing catalog used for cost and input limits.
func WithCatalog(c *pricing.Catalog) Option {
	return func(t *Transpiler) { t.catalog = c }
}

// WithAudit sets the sink receiving communication failures.
func WithAudit(s audit.Sink) Option {
	return func(t *Transpiler) { t.audit = audit.OrDiscard(s) }
}

// WithLogger sets the logger for warnings and diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transpiler) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithMetrics records every run in r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(t *Transpiler) { t.metrics = r }
}

// WithTracker accumulates usage and cost of every successful run in tr.
func WithTracker(tr *cost.Tracker) Option {
	return func(t *Transpiler) { t.tracker = tr }
}

// WithCounter replaces the token estimator used for the input-limit check.
func WithCounter(c tokens.Counter) Option {
	return func(t *Transpiler) {
		if c != nil {
			t.counter = c
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Transpiler) { t.now = now }
}

// New creates a Transpiler sending requests through adapter.
func New(adapter provider.Adapter, opts ...Option) *Transpiler {
	t := &Transpiler{
		adapter: adapter,
		engine:  template.NewEngine(),
		parser:  parser.NewParser(),
		counter: tokens.NewEstimatingCounter(),
		audit:   audit.Discard,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Job is everything a single transpilation needs, already loaded.
type Job struct {
	Source       string
	Template     string
	Conventions  string
	ContextFiles []template.ContextFile
	Config       config.Effective
}

// Outcome is the result of a transpilation.
type Outcome struct {
	// Code is the backend reply with enclosing fences removed.
	Code string

	// Prompt is the rendered prompt that was sent.
	Prompt string

	// OutputPath is where Run wrote Code.
	OutputPath string

	Result   *provider.Result
	Cost     cost.Breakdown
	Estimate tokens.Breakdown
	Elapsed  time.Duration
}

// Usage returns the metered usage of the call.
func (o *Outcome) Usage() provider.Usage {
	if o == nil || o.Result == nil {
		return provider.Usage{}
	}
	return o.Result.Usage
}

// Summary builds the end-of-run report.
func (o *Outcome) Summary(eff config.Effective) cost.Summary {
	return cost.Summary{
		OutputPath: o.OutputPath,
		Provider:   eff.Provider,
		Model:      eff.Model,
		Usage:      o.Usage(),
		Cost:       o.Cost,
	}
}

// Run performs a full transpilation described by eff: it loads every file
// the run needs, transpiles and writes the output.
func (t *Transpiler) Run(ctx context.Context, eff config.Effective) (*Outcome, error) {
	source, err := ReadInput(eff.InputPath)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.LoadFile(eff.TemplatePath)
	if err != nil {
		return nil, err
	}

	paths := ExpandContextPatterns(eff.ContextFiles(), t.logger)
	paths = ContextPaths(paths, eff.OutputPath, eff.GroundedMode, t.logger)
	job := Job{
		Source:       source,
		Template:     tmpl,
		Conventions:  LoadConventions(eff.ConventionsPath, t.logger),
		ContextFiles: LoadContextFiles(paths, t.logger),
		Config:       eff,
	}

	out, err := t.Transpile(ctx, job)
	if err != nil {
		return nil, err
	}
	if err := WriteOutput(eff.OutputPath, out.Code); err != nil {
		return nil, err
	}
	out.OutputPath = eff.OutputPath
	return out, nil
}

// Transpile renders the prompt, calls the backend once and post-processes
// the reply. It touches no files.
func (t *Transpiler) Transpile(ctx context.Context, job Job) (*Outcome, error) {
	start := t.now()
	eff := job.Config

	contextBlock := template.FormatContextFiles(job.ContextFiles)
	vars := template.Context{
		TargetLanguage:     eff.TargetLanguage,
		EnglishContent:     job.Source,
		HackingConventions: job.Conventions,
		GenerationCommand:  eff.Command,
		ContextFiles:       contextBlock,
		OutputPath:         eff.OutputPath,
	}.Variables()
	t.checkTemplate(eff.TemplatePath, job.Template, vars)
	prompt := t.engine.Render(job.Template, vars)

	estimate := t.checkInputLimit(eff, prompt, tokens.PromptParts{
		Source:      job.Source,
		Conventions: job.Conventions,
		Context:     contextBlock,
	})

	maxTokens := eff.MaxTokens
	budget := eff.ThinkingBudget
	req := provider.Request{
		Model:          eff.Model,
		Prompt:         prompt,
		TargetLanguage: eff.TargetLanguage,
		Seed:           eff.SeedPtr(),
		MaxTokens:      &maxTokens,
		ThinkingBudget: &budget,
	}

	res, err := t.adapter.Generate(ctx, req)
	if err != nil {
		t.audit.RecordText(audit.LabelCommError, err.Error())
		t.metrics.ObserveFailure(eff.Provider, eff.Model)
		if !errors.Is(err, provider.ErrCommunication) {
			err = fmt.Errorf("%w: %w", provider.ErrCommunication, err)
		}
		return nil, err
	}

	code := parser.StripFences(res.Content)
	if code != res.Content {
		t.logger.Debug("stripped enclosing markdown fences")
	} else if t.parser.HasCodeBlock(code) {
		t.logger.Warn("response contains fenced blocks that were not stripped", "blocks", len(t.parser.CodeBlocks(code)))
	}

	breakdown := cost.ComputeFromCatalog(res.Usage, t.catalog, eff.Provider, eff.Model)
	for _, w := range breakdown.Warnings {
		t.logger.Warn(w)
	}

	t.metrics.ObserveRun(eff.Provider, eff.Model, res.Usage, breakdown, res.Blocked, res.Duration)
	if t.tracker != nil {
		t.tracker.Record(eff.PricingKey(), res.Usage, breakdown)
	}

	return &Outcome{
		Code:     code,
		Prompt:   prompt,
		Result:   res,
		Cost:     breakdown,
		Estimate: estimate,
		Elapsed:  t.now().Sub(start),
	}, nil
}

// checkTemplate warns about an empty template or placeholders that will be
// sent to the backend unexpanded. Neither stops the run.
func (t *Transpiler) checkTemplate(path, tmpl string, vars map[string]string) {
	names, err := t.engine.Parse(tmpl)
	if err != nil {
		t.logger.Warn("prompt template is empty", "path", path)
		return
	}
	if err := template.ValidateVariables(names, vars); err != nil {
		t.logger.Warn("prompt template has placeholders with no value; leaving them as is", "path", path, "error", err)
	}
}

// checkInputLimit estimates the prompt size and warns when it is larger
// than the model's published input window. The request is still sent.
// Without a known window nothing is counted; a BPE counter may have to
// fetch its ranks over the network first.
func (t *Transpiler) checkInputLimit(eff config.Effective, prompt string, parts tokens.PromptParts) tokens.Breakdown {
	var limit int
	if entry, ok := t.catalog.Lookup(eff.Provider, eff.Model); ok {
		limit, _ = entry.MaxInput()
	}
	if limit <= 0 {
		t.logger.Debug("no input window known; skipping prompt size estimate", "model", eff.PricingKey())
		return tokens.Breakdown{}
	}

	b := tokens.NewBudget(limit, t.counter)
	est := b.Estimate(prompt, parts)
	if !b.Exceeds(est) {
		t.logger.Debug("estimated prompt size", "tokens", est.Prompt, "remaining", b.Remaining(est))
		return est
	}
	t.logger.Warn("estimated prompt size exceeds the model's input window",
		"model", eff.PricingKey(),
		"estimated_tokens", est.Prompt,
		"max_input_tokens", limit,
		"source_tokens", est.Source,
		"conventions_tokens", est.Conventions,
		"context_tokens", est.Context,
	)
	return est
}
