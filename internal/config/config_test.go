package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func clearLLMEnv(t *testing.T) {
	t.Helper()
	t.Setenv("NO_DOTENV", "1")
	for _, key := range []string{"LLM_API_KEY", "LLM_BASE_URL", "LLM_DEFAULT_MODEL", "LLM_TIMEOUT"} {
		t.Setenv(key, "")
	}
}

func TestLoad_hydratesSections(t *testing.T) {
	clearLLMEnv(t)
	dir := t.TempDir()

	writeFile(t, dir, "llm.yaml", `
base_url: ${RADAR_LLM_BASE}
api_key: ${RADAR_LLM_KEY}
default_model: mini
timeout: 2s
`)
	writeFile(t, dir, "market.yaml", `
price:
  base_url: ${RADAR_PRICE_BASE}
  timeout: 3s
futures:
  timeout: ${RADAR_FUTURES_TIMEOUT}
`)
	writeFile(t, dir, "prompt.tmpl", "{{ .Symbol }}")
	mainPath := writeFile(t, dir, "liqradar.yaml", `
Name: liqradar-test
Host: 127.0.0.1
Port: 3003
Env: dev
PublicDir: static
Market:
  File: market.yaml
LLM:
  File: llm.yaml
Analysis:
  PromptFile: prompt.tmpl
`)

	t.Setenv("RADAR_LLM_BASE", "https://llm.example/v1")
	t.Setenv("RADAR_LLM_KEY", "test-key")
	t.Setenv("RADAR_PRICE_BASE", "https://prices.example")
	t.Setenv("RADAR_FUTURES_TIMEOUT", "7s")

	cfg, err := Load(mainPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "dev" || cfg.IsTestEnv() {
		t.Fatalf("Env = %q", cfg.Env)
	}
	if cfg.Port != 3003 {
		t.Fatalf("Port = %d", cfg.Port)
	}
	if cfg.BaseDir() != dir {
		t.Fatalf("BaseDir = %q, want %q", cfg.BaseDir(), dir)
	}
	if cfg.MainPath() != mainPath {
		t.Fatalf("MainPath = %q", cfg.MainPath())
	}
	if want := filepath.Join(dir, "static"); cfg.PublicDir != want {
		t.Fatalf("PublicDir = %q, want %q", cfg.PublicDir, want)
	}
	if want := filepath.Join(dir, "prompt.tmpl"); cfg.Analysis.PromptFile != want {
		t.Fatalf("PromptFile = %q, want %q", cfg.Analysis.PromptFile, want)
	}
	if cfg.Analysis.MaxTokens != 512 {
		t.Fatalf("MaxTokens = %d", cfg.Analysis.MaxTokens)
	}

	if !cfg.LLM.Configured() {
		t.Fatalf("LLM section not hydrated")
	}
	if got := cfg.LLM.Value.BaseURL; got != "https://llm.example/v1" {
		t.Fatalf("LLM.BaseURL not expanded, got %q", got)
	}
	if got := cfg.LLM.Value.APIKey; got != "test-key" {
		t.Fatalf("LLM.APIKey not expanded, got %q", got)
	}
	if cfg.LLM.Value.Timeout != 2*time.Second {
		t.Fatalf("LLM.Timeout = %s", cfg.LLM.Value.Timeout)
	}

	mkt := cfg.Market.Value
	if mkt == nil {
		t.Fatalf("Market section not hydrated")
	}
	if got := mkt.Price.BaseURL; got != "https://prices.example" {
		t.Fatalf("Market price BaseURL not expanded, got %q", got)
	}
	if mkt.Price.Timeout != 3*time.Second || mkt.Futures.Timeout != 7*time.Second {
		t.Fatalf("Market timeouts not parsed, got price=%s futures=%s", mkt.Price.Timeout, mkt.Futures.Timeout)
	}
	if mkt.Futures.BaseURL != "https://fapi.binance.com" {
		t.Fatalf("Market futures BaseURL default not applied, got %q", mkt.Futures.BaseURL)
	}
}

func TestLoad_withoutSections(t *testing.T) {
	clearLLMEnv(t)
	dir := t.TempDir()
	mainPath := writeFile(t, dir, "liqradar.yaml", `
Name: liqradar-test
Port: 3003
`)

	cfg, err := Load(mainPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Configured() {
		t.Fatalf("LLM section should be absent")
	}
	if cfg.Market.Value == nil || cfg.Market.Value.Price.BaseURL != "https://api.coingecko.com" {
		t.Fatalf("Market section should fall back to defaults, got %+v", cfg.Market.Value)
	}
	if !cfg.IsTestEnv() {
		t.Fatalf("Env should default to test, got %q", cfg.Env)
	}
	if want := filepath.Join(filepath.Dir(dir), "public"); cfg.PublicDir != want {
		t.Fatalf("PublicDir = %q, want %q", cfg.PublicDir, want)
	}
}

func TestLoad_sectionErrors(t *testing.T) {
	clearLLMEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "llm.yaml", "api_key: k\ndefault_model: mini\ntimeout: soon\n")
	mainPath := writeFile(t, dir, "liqradar.yaml", `
Name: liqradar-test
Port: 3003
LLM:
  File: llm.yaml
`)

	if _, err := Load(mainPath); err == nil {
		t.Fatalf("expected llm section with an invalid timeout to fail")
	}

	missing := writeFile(t, dir, "missing.yaml", `
Name: liqradar-test
Port: 3003
Market:
  File: nowhere.yaml
`)
	if _, err := Load(missing); err == nil {
		t.Fatalf("expected missing market file to fail")
	}
}

func TestLoad_shippedConfig(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("LLM_API_KEY", "test-key")

	cfg, err := Load(filepath.Join("..", "..", "etc", "liqradar.yaml"))
	if err != nil {
		t.Fatalf("Load shipped config: %v", err)
	}
	if cfg.Port != 3003 {
		t.Fatalf("Port = %d, want 3003", cfg.Port)
	}
	if !cfg.LLM.Configured() || cfg.LLM.Value.APIKey != "test-key" {
		t.Fatalf("LLM section not hydrated from shipped config")
	}
	if cfg.Market.Value.Futures.Timeout <= 0 {
		t.Fatalf("Market futures timeout not parsed")
	}
}

func TestLoad_shippedConfigWithoutAPIKey(t *testing.T) {
	clearLLMEnv(t)

	cfg, err := Load(filepath.Join("..", "..", "etc", "liqradar.yaml"))
	if err != nil {
		t.Fatalf("shipped config must load without LLM_API_KEY: %v", err)
	}
	if cfg.LLM.Configured() {
		t.Fatalf("LLM section should be disabled without an api key")
	}
	if cfg.Market.Value == nil {
		t.Fatalf("Market section not hydrated")
	}
}

func TestLoad_llmWithoutAPIKeyDisablesAnalysis(t *testing.T) {
	clearLLMEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "llm.yaml", "default_model: mini\n")
	mainPath := writeFile(t, dir, "liqradar.yaml", `
Name: liqradar-test
Port: 3003
LLM:
  File: llm.yaml
`)

	cfg, err := Load(mainPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Configured() {
		t.Fatalf("LLM section should be disabled without an api key")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "empty env defaults", cfg: Config{}},
		{name: "prod", cfg: Config{Env: "prod"}},
		{name: "unknown env", cfg: Config{Env: "staging"}, wantErr: true},
		{name: "negative max tokens", cfg: Config{Analysis: AnalysisConf{MaxTokens: -1}}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
