package svc

import (
	"fmt"

	"liqradar-api/internal/config"
	"liqradar-api/pkg/analysis"
	"liqradar-api/pkg/liquidation"
	llmpkg "liqradar-api/pkg/llm"
	marketpkg "liqradar-api/pkg/market"
)

type ServiceContext struct {
	Config config.Config

	Fetcher   *marketpkg.Fetcher
	Builder   *liquidation.Builder
	LLMClient llmpkg.LLMClient
	Narrator  *analysis.Narrator
}

func MustNewServiceContext(c config.Config) *ServiceContext {
	svc, err := NewServiceContext(c)
	if err != nil {
		panic(err)
	}
	return svc
}

func NewServiceContext(c config.Config) (*ServiceContext, error) {
	marketCfg := c.Market.Value
	if marketCfg == nil {
		marketCfg = marketpkg.DefaultConfig()
	}
	fetcher := marketCfg.BuildFetcher()

	svc := &ServiceContext{
		Config:  c,
		Fetcher: fetcher,
		Builder: liquidation.NewBuilder(fetcher),
	}

	// Without an LLM section the narrator still exists and reports
	// analysis.ErrNoGenerator.
	var generator analysis.Generator
	if c.LLM.Configured() {
		llmCfg := c.LLM.Value.Clone()
		if c.IsTestEnv() && c.Analysis.TestModel != "" {
			llmCfg.DefaultModel = c.Analysis.TestModel
		}
		client, err := llmpkg.NewClient(llmCfg)
		if err != nil {
			return nil, fmt.Errorf("init llm client: %w", err)
		}
		svc.LLMClient = client
		generator = client
	}

	tmpl, err := analysis.LoadTemplate(c.Analysis.PromptFile)
	if err != nil {
		return nil, fmt.Errorf("load analysis prompt: %w", err)
	}
	narrator, err := analysis.NewNarrator(svc.Builder, generator,
		analysis.WithTemplate(tmpl),
		analysis.WithMaxTokens(c.Analysis.MaxTokens),
	)
	if err != nil {
		return nil, err
	}
	svc.Narrator = narrator

	return svc, nil
}

// Close releases outbound client resources.
func (s *ServiceContext) Close() error {
	if s.LLMClient != nil {
		return s.LLMClient.Close()
	}
	return nil
}
