package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"liqradar-api/internal/cli"
	"liqradar-api/internal/config"
	"liqradar-api/internal/svc"
	marketpkg "liqradar-api/pkg/market"
)

func parseSymbols(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		field = strings.ToUpper(strings.TrimSpace(field))
		if field == "" {
			continue
		}
		if _, exists := seen[field]; exists {
			continue
		}
		seen[field] = struct{}{}
		out = append(out, field)
	}
	return out
}

func fatalf(format string, args ...interface{}) {
	logx.Errorf(format, args...)
	os.Exit(1)
}

// loadConfig falls back to public endpoints without narration when the app
// config cannot be read.
func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg
	}
	logx.Errorf("load app config %s: %v; using market defaults without analysis", path, err)
	cfg = &config.Config{Env: "test"}
	cfg.Market.Value = marketpkg.DefaultConfig()
	return cfg
}

type radar struct {
	svc      *svc.ServiceContext
	analysis bool
	out      io.Writer
}

// scan writes one JSON document per symbol. Narration failures are logged and
// the plain dataset is written instead.
func (r *radar) scan(ctx context.Context, symbols []string) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")

	for _, symbol := range symbols {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		dataset := r.svc.Builder.Build(ctx, symbol)
		if r.analysis {
			result, err := r.svc.Narrator.Narrate(ctx, dataset)
			if err == nil {
				if err := enc.Encode(result); err != nil {
					return err
				}
				continue
			}
			logx.WithContext(ctx).Errorf("analysis %s: %v", symbol, err)
		}

		if err := enc.Encode(dataset); err != nil {
			return err
		}
	}
	return nil
}

// reloadPrompt rereads the analysis prompt file; the previous prompt is kept
// when the new one fails to parse.
func (r *radar) reloadPrompt() {
	if err := r.svc.Narrator.ReloadTemplate(); err != nil {
		logx.Errorf("%v; keeping previous prompt", err)
	}
}

func main() {
	var (
		configPath = flag.String("f", "etc/liqradar.yaml", "the config file")
		symbolsRaw = flag.String("symbols", "BTC,ETH,SOL", "comma-separated list of symbols")
		withLLM    = flag.Bool("analysis", false, "attach an LLM narration to each dataset")
		interval   = flag.Duration("interval", 0, "repeat the scan at this interval; 0 runs once")
	)
	flag.Parse()
	logx.MustSetup(logx.LogConf{Mode: "console", Encoding: "plain"})
	logx.DisableStat()

	symbols := parseSymbols(*symbolsRaw)
	if len(symbols) == 0 {
		fatalf("no symbols provided; use -symbols to specify at least one")
	}

	cfg := loadConfig(*configPath)
	for _, line := range cli.ConfigSummaryLines(cfg) {
		logx.Infof("config • %s", line)
	}

	svcCtx, err := svc.NewServiceContext(*cfg)
	if err != nil {
		fatalf("init service context: %v", err)
	}
	defer func() {
		_ = svcCtx.Close()
	}()

	r := &radar{svc: svcCtx, analysis: *withLLM, out: os.Stdout}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logx.Infof("received signal %s, stopping", sig)
		cancel()
	}()

	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	defer signal.Stop(hupCh)

	if err := r.scan(ctx, symbols); err != nil && err != context.Canceled {
		fatalf("scan: %v", err)
	}
	if *interval <= 0 {
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	logx.Infof("watching %s every %s", strings.Join(symbols, ","), *interval)
	for {
		select {
		case <-ctx.Done():
			logx.Info("radar stopped")
			return
		case <-hupCh:
			r.reloadPrompt()
		case <-ticker.C:
			if err := r.scan(ctx, symbols); err != nil && err != context.Canceled {
				logx.Errorf("scan: %v", err)
			}
		}
	}
}
