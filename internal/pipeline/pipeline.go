package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/imgsaveas/internal/model"
)

// Step is one stage of a conversion.
// Each step reads what earlier steps stored in the conversion and adds its
// own output. A returned error aborts the conversion.
type Step interface {
	// Do executes the step.
	Do(ctx context.Context, conv *model.Conversion) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order and stops at the first error.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence.
// Cancellation is checked before each step; a running step observes ctx on
// its own. The first error is recorded in conv and returned.
func (p *Pipeline) Execute(ctx context.Context, conv *model.Conversion) error {
	p.logger.Debug("starting conversion",
		"url", conv.SourceURL,
		"format_key", conv.FormatKey,
		"steps", p.StepNames(),
	)

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("conversion cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			p.fail(conv, ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"url", conv.SourceURL,
		)

		if err := step.Do(ctx, conv); err != nil {
			p.logger.Debug("step failed",
				"step", step.Name(),
				"url", conv.SourceURL,
				"error", err,
			)
			p.fail(conv, err)
			return err
		}

		conv.PerformedSteps = append(conv.PerformedSteps, step.Name())
	}

	return nil
}

func (p *Pipeline) fail(conv *model.Conversion, err error) {
	conv.Error = err
	conv.ErrorMessage = err.Error()
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
