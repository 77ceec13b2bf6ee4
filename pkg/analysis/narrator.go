package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"liqradar-api/pkg/liquidation"
	"liqradar-api/pkg/prompt"
)

// DefaultMaxTokens caps the narration length.
const DefaultMaxTokens = 512

// ErrNoGenerator is returned when no text generator has been configured.
var ErrNoGenerator = errors.New("analysis: text generator not configured")

// Generator turns a prompt into text.
type Generator interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// DatasetBuilder produces the liquidation dataset for a symbol.
type DatasetBuilder interface {
	Build(ctx context.Context, symbol string) *liquidation.Dataset
}

// Result is a dataset with the generated narration attached.
type Result struct {
	liquidation.Dataset
	Analysis string `json:"analysis"`
}

// Narrator builds a dataset, renders it into a prompt and asks a Generator
// to describe the liquidation risk.
type Narrator struct {
	builder   DatasetBuilder
	generator Generator
	tmpl      *prompt.Template
	maxTokens int
}

// Option customises a Narrator.
type Option func(*Narrator)

// WithTemplate replaces the built-in prompt template.
func WithTemplate(tmpl *prompt.Template) Option {
	return func(n *Narrator) {
		if tmpl != nil {
			n.tmpl = tmpl
		}
	}
}

// WithMaxTokens overrides DefaultMaxTokens. Non-positive values are ignored.
func WithMaxTokens(maxTokens int) Option {
	return func(n *Narrator) {
		if maxTokens > 0 {
			n.maxTokens = maxTokens
		}
	}
}

// NewNarrator constructs a Narrator. generator may be nil, in which case
// Analyze returns ErrNoGenerator.
func NewNarrator(builder DatasetBuilder, generator Generator, opts ...Option) (*Narrator, error) {
	if builder == nil {
		return nil, errors.New("analysis: dataset builder is required")
	}
	n := &Narrator{
		builder:   builder,
		generator: generator,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.tmpl == nil {
		tmpl, err := DefaultTemplate()
		if err != nil {
			return nil, fmt.Errorf("analysis: parse default template: %w", err)
		}
		n.tmpl = tmpl
	}
	return n, nil
}

// Analyze builds the dataset for symbol and attaches a generated narration.
func (n *Narrator) Analyze(ctx context.Context, symbol string) (*Result, error) {
	if n.generator == nil {
		return nil, ErrNoGenerator
	}
	return n.Narrate(ctx, n.builder.Build(ctx, symbol))
}

// Narrate attaches a generated narration to an already built dataset.
func (n *Narrator) Narrate(ctx context.Context, dataset *liquidation.Dataset) (*Result, error) {
	if n.generator == nil {
		return nil, ErrNoGenerator
	}
	text, err := n.RenderPrompt(dataset)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	analysis, err := n.generator.Complete(ctx, text, n.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("analysis: generate %s: %w", dataset.Symbol, err)
	}
	analysis = strings.TrimSpace(analysis)
	if analysis == "" {
		return nil, fmt.Errorf("analysis: generate %s: empty narration", dataset.Symbol)
	}
	logx.WithContext(ctx).Infof("analysis: narrated %s in %s (prompt=%s@%s)",
		dataset.Symbol, time.Since(start).Round(time.Millisecond),
		n.tmpl.Name(), shortDigest(n.tmpl.Digest()))

	return &Result{Dataset: *dataset, Analysis: analysis}, nil
}

// ReloadTemplate rereads the prompt template from its source. On failure the
// previous template stays in use.
func (n *Narrator) ReloadTemplate() error {
	before := n.tmpl.Digest()
	if err := n.tmpl.Reload(); err != nil {
		return fmt.Errorf("analysis: reload prompt %s: %w", n.tmpl.Name(), err)
	}
	if after := n.tmpl.Digest(); after != before {
		logx.Infof("analysis: prompt %s reloaded (%s -> %s)",
			n.tmpl.Name(), shortDigest(before), shortDigest(after))
	}
	return nil
}

// RenderPrompt renders the analysis prompt for dataset.
func (n *Narrator) RenderPrompt(dataset *liquidation.Dataset) (string, error) {
	if dataset == nil {
		return "", errors.New("analysis: dataset is nil")
	}
	text, err := n.tmpl.Render(dataset)
	if err != nil {
		return "", fmt.Errorf("analysis: render prompt: %w", err)
	}
	return text, nil
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
