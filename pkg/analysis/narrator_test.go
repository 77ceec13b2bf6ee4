package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liqradar-api/pkg/liquidation"
)

type stubBuilder struct {
	dataset liquidation.Dataset
	calls   int
}

func (b *stubBuilder) Build(_ context.Context, symbol string) *liquidation.Dataset {
	b.calls++
	ds := b.dataset
	ds.Symbol = symbol
	return &ds
}

type stubGenerator struct {
	text      string
	err       error
	prompt    string
	maxTokens int
}

func (g *stubGenerator) Complete(_ context.Context, prompt string, maxTokens int) (string, error) {
	g.prompt = prompt
	g.maxTokens = maxTokens
	return g.text, g.err
}

func btcDataset() liquidation.Dataset {
	return liquidation.Dataset{
		Symbol:            "BTC",
		CurrentPrice:      50000,
		Change24h:         -1.23,
		OpenInterest:      84214,
		FundingRate:       0.01,
		LongShortRatio:    1.85,
		LiquidationLevels: liquidation.ComputeLevels(50000),
		Timestamp:         "2026-01-02T03:04:05.678Z",
	}
}

func TestRenderPrompt(t *testing.T) {
	n, err := NewNarrator(&stubBuilder{}, nil)
	require.NoError(t, err)

	ds := btcDataset()
	text, err := n.RenderPrompt(&ds)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "You are Liquidation-Radar"))
	assert.Contains(t, text, "Current Market Data for BTC:\n")
	assert.Contains(t, text, "- Price: $50,000\n")
	assert.Contains(t, text, "- 24h Change: -1.23%\n")
	assert.Contains(t, text, "- Open Interest: 84,214 BTC\n")
	assert.Contains(t, text, "- Funding Rate: 0.01%\n")
	assert.Contains(t, text, "- Long/Short Ratio: 1.85\n")

	levels := strings.Join([]string{
		"5x: Longs liquidated below $40,250 (-19.5%), Shorts above $59,750 (+19.5%)",
		"10x: Longs liquidated below $45,250 (-9.5%), Shorts above $54,750 (+9.5%)",
		"20x: Longs liquidated below $47,750 (-4.5%), Shorts above $52,250 (+4.5%)",
		"25x: Longs liquidated below $48,250 (-3.5%), Shorts above $51,750 (+3.5%)",
		"50x: Longs liquidated below $49,250 (-1.5%), Shorts above $50,750 (+1.5%)",
		"100x: Longs liquidated below $49,750 (-0.5%), Shorts above $50,250 (+0.5%)",
	}, "\n")
	assert.Contains(t, text, "Liquidation Levels:\n"+levels+"\n\nProvide a brief analysis (under 150 words):")
	assert.Contains(t, text, "1. Current risk level (LOW/MEDIUM/HIGH)")
	assert.Contains(t, text, "4. Simple trading implication")
}

func TestRenderPromptFractionalPrices(t *testing.T) {
	n, err := NewNarrator(&stubBuilder{}, nil)
	require.NoError(t, err)

	ds := btcDataset()
	ds.CurrentPrice = 3123.45
	ds.LiquidationLevels = liquidation.ComputeLevels(3123.45)
	text, err := n.RenderPrompt(&ds)
	require.NoError(t, err)

	assert.Contains(t, text, "- Price: $3,123.45\n")
	assert.Contains(t, text, "10x: Longs liquidated below $")
	assert.NotContains(t, text, "e+")
}

func TestAnalyze(t *testing.T) {
	builder := &stubBuilder{dataset: btcDataset()}
	gen := &stubGenerator{text: "  RISK LEVEL: MEDIUM. Longs are more exposed.\n"}

	n, err := NewNarrator(builder, gen)
	require.NoError(t, err)

	res, err := n.Analyze(context.Background(), "ETH")
	require.NoError(t, err)

	assert.Equal(t, "ETH", res.Symbol)
	assert.Equal(t, "RISK LEVEL: MEDIUM. Longs are more exposed.", res.Analysis)
	assert.Len(t, res.LiquidationLevels, 6)
	assert.Equal(t, DefaultMaxTokens, gen.maxTokens)
	assert.Contains(t, gen.prompt, "Current Market Data for ETH:")

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"symbol", "currentPrice", "change24h", "openInterest", "fundingRate",
		"longShortRatio", "liquidationLevels", "timestamp", "analysis"} {
		assert.Contains(t, fields, key)
	}
}

func TestAnalyzeFailures(t *testing.T) {
	t.Run("nil generator", func(t *testing.T) {
		builder := &stubBuilder{dataset: btcDataset()}
		n, err := NewNarrator(builder, nil)
		require.NoError(t, err)

		_, err = n.Analyze(context.Background(), "BTC")
		require.ErrorIs(t, err, ErrNoGenerator)
		assert.Zero(t, builder.calls)
	})

	t.Run("generator error propagates", func(t *testing.T) {
		upstream := errors.New("upstream 503")
		n, err := NewNarrator(&stubBuilder{dataset: btcDataset()}, &stubGenerator{err: upstream})
		require.NoError(t, err)

		_, err = n.Analyze(context.Background(), "BTC")
		require.ErrorIs(t, err, upstream)
		assert.Contains(t, err.Error(), "analysis: generate BTC")
	})

	t.Run("blank narration", func(t *testing.T) {
		n, err := NewNarrator(&stubBuilder{dataset: btcDataset()}, &stubGenerator{text: " \n"})
		require.NoError(t, err)

		_, err = n.Analyze(context.Background(), "BTC")
		require.Error(t, err)
	})
}

func TestNarratorOptions(t *testing.T) {
	_, err := NewNarrator(nil, nil)
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "short.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("{{ .Symbol }} @ {{ comma .CurrentPrice }}"), 0o600))
	tmpl, err := LoadTemplate(path)
	require.NoError(t, err)

	gen := &stubGenerator{text: "ok"}
	n, err := NewNarrator(&stubBuilder{dataset: btcDataset()}, gen, WithTemplate(tmpl), WithMaxTokens(128))
	require.NoError(t, err)

	_, err = n.Analyze(context.Background(), "SOL")
	require.NoError(t, err)
	assert.Equal(t, "SOL @ 50,000", gen.prompt)
	assert.Equal(t, 128, gen.maxTokens)

	n, err = NewNarrator(&stubBuilder{}, gen, WithMaxTokens(0))
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTokens, n.maxTokens)
}

func TestLoadTemplateDefault(t *testing.T) {
	tmpl, err := LoadTemplate("")
	require.NoError(t, err)
	assert.Equal(t, defaultTemplateName, tmpl.Name())
	assert.NotEmpty(t, tmpl.Digest())
}

func TestNarrateUsesGivenDataset(t *testing.T) {
	builder := &stubBuilder{dataset: btcDataset()}
	gen := &stubGenerator{text: "calm"}
	n, err := NewNarrator(builder, gen)
	require.NoError(t, err)

	ds := btcDataset()
	res, err := n.Narrate(context.Background(), &ds)
	require.NoError(t, err)
	assert.Equal(t, "calm", res.Analysis)
	assert.Equal(t, ds.Timestamp, res.Timestamp)
	assert.Zero(t, builder.calls)

	_, err = n.Narrate(context.Background(), nil)
	require.Error(t, err)

	n, err = NewNarrator(builder, nil)
	require.NoError(t, err)
	_, err = n.Narrate(context.Background(), &ds)
	require.ErrorIs(t, err, ErrNoGenerator)
}

func TestReloadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reload.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("v1 {{ .Symbol }}"), 0o600))
	tmpl, err := LoadTemplate(path)
	require.NoError(t, err)

	gen := &stubGenerator{text: "ok"}
	n, err := NewNarrator(&stubBuilder{dataset: btcDataset()}, gen, WithTemplate(tmpl))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("v2 {{ .Symbol }}"), 0o600))
	require.NoError(t, n.ReloadTemplate())
	_, err = n.Analyze(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Equal(t, "v2 BTC", gen.prompt)

	require.NoError(t, os.WriteFile(path, []byte("v3 {{ .Symbol "), 0o600))
	err = n.ReloadTemplate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reload.tmpl")
	_, err = n.Analyze(context.Background(), "ETH")
	require.NoError(t, err)
	assert.Equal(t, "v2 ETH", gen.prompt)
}
