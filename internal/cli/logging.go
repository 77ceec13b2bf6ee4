package cli

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"liqradar-api/internal/config"
	"liqradar-api/pkg/confkit"
	"liqradar-api/pkg/liquidation"
	marketpkg "liqradar-api/pkg/market"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	lines := []string{
		fmt.Sprintf("Config file: %s", valueOr(cfg.MainPath(), "built-in defaults")),
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Listen: %s:%d", cfg.Host, cfg.Port),
		fmt.Sprintf("Static frontend: %s", valueOr(cfg.PublicDir, "disabled")),
		sectionLine("Market config", cfg.Market),
	}
	if mkt := cfg.Market.Value; mkt != nil {
		lines = append(lines,
			sourceLine("Price source", mkt.Price),
			sourceLine("Futures source", mkt.Futures),
		)
	}

	lines = append(lines, sectionLine("LLM config", cfg.LLM))
	if llm := cfg.LLM.Value; llm != nil {
		lines = append(lines, fmt.Sprintf("LLM model: %s via %s (timeout %s)", llm.DefaultModel, llm.BaseURL, llm.Timeout))
	}

	lines = append(lines,
		fmt.Sprintf("Leverages: %s", leverageList()),
		fmt.Sprintf("Analysis prompt: %s", valueOr(cfg.Analysis.PromptFile, "built-in")),
		fmt.Sprintf("Analysis max tokens: %d", cfg.Analysis.MaxTokens),
		fmt.Sprintf("Metrics: %s", presence(cfg.DevServer.Enabled)),
	)
	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func leverageList() string {
	tiers := liquidation.Leverages()
	parts := make([]string, len(tiers))
	for i, lev := range tiers {
		parts[i] = fmt.Sprintf("%dx", lev)
	}
	return strings.Join(parts, ",")
}

func presence(ok bool) string {
	if ok {
		return "enabled"
	}
	return "disabled"
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func sourceLine(name string, src marketpkg.SourceConfig) string {
	return fmt.Sprintf("%s: %s (timeout %s, http %s)", name, src.BaseURL, src.Timeout, src.HTTPTimeout)
}

func sectionLine[T any](name string, section confkit.Section[T]) string {
	switch {
	case strings.TrimSpace(section.File) != "":
		return fmt.Sprintf("%s: %s", name, section.File)
	case section.Value != nil:
		return fmt.Sprintf("%s: defaults", name)
	default:
		return fmt.Sprintf("%s: not configured", name)
	}
}
