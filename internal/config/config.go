package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"

	"liqradar-api/pkg/analysis"
	"liqradar-api/pkg/confkit"
	llmpkg "liqradar-api/pkg/llm"
	marketpkg "liqradar-api/pkg/market"
)

type AnalysisConf struct {
	// PromptFile overrides the built-in analysis prompt template.
	PromptFile string `json:",optional"`
	MaxTokens  int    `json:",default=512"`
	// TestModel replaces the LLM default model when Env is test.
	TestModel string `json:",optional"`
}

type Config struct {
	rest.RestConf
	// Env indicates the running environment: test | dev | prod
	Env string `json:",default=test"`
	// PublicDir is served at "/" for the static frontend. Empty disables it.
	PublicDir string `json:",default=../public"`

	Market   confkit.Section[marketpkg.Config] `json:",optional"`
	LLM      confkit.Section[llmpkg.Config]    `json:",optional"`
	Analysis AnalysisConf                      `json:",optional"`

	mainPath string
	baseDir  string
}

func (c *Config) IsTestEnv() bool {
	return c.Env == "test" || c.Env == ""
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	var cfg Config
	if err := conf.Load(absPath, &cfg, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", absPath, err)
	}

	cfg.mainPath = absPath
	cfg.baseDir = confkit.BaseDir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.hydrateSections(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "", "test", "dev", "prod":
		if strings.TrimSpace(c.Env) == "" {
			c.Env = "test"
		}
	default:
		return errors.New("config: env must be one of test|dev|prod")
	}
	if c.Analysis.MaxTokens < 0 {
		return errors.New("config: analysis.maxTokens must not be negative")
	}
	if c.Analysis.MaxTokens == 0 {
		c.Analysis.MaxTokens = analysis.DefaultMaxTokens
	}
	return nil
}

func (c *Config) hydrateSections() error {
	base := c.baseDir

	if err := c.Market.Hydrate(base, marketpkg.LoadConfig); err != nil {
		return fmt.Errorf("load market config: %w", err)
	}
	if c.Market.Value == nil {
		c.Market.Value = marketpkg.DefaultConfig()
	}
	if err := c.LLM.Hydrate(base, llmpkg.LoadConfig); err != nil {
		if !errors.Is(err, llmpkg.ErrMissingAPIKey) {
			return fmt.Errorf("load llm config: %w", err)
		}
		// No credential: serve market data, report analysis as unavailable.
		logx.Errorf("llm config %s has no api_key; analysis disabled", c.LLM.File)
		c.LLM.Value = nil
	}
	if c.Analysis.PromptFile != "" {
		c.Analysis.PromptFile = confkit.ResolvePath(base, c.Analysis.PromptFile)
	}
	if c.PublicDir != "" {
		c.PublicDir = confkit.ResolvePath(base, c.PublicDir)
	}
	return nil
}

func (c *Config) MainPath() string {
	return c.mainPath
}

func (c *Config) BaseDir() string {
	return c.baseDir
}
