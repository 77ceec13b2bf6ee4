package main

import (
	"flag"
	"fmt"
	"net/http"

	"liqradar-api/internal/cli"
	"liqradar-api/internal/config"
	"liqradar-api/internal/handler"
	"liqradar-api/internal/svc"

	"github.com/zeromicro/go-zero/rest"
)

var configFile = flag.String("f", "etc/liqradar.yaml", "the config file")

func main() {
	flag.Parse()

	cfg := config.MustLoad(*configFile)

	opts := []rest.RunOption{rest.WithCors()}
	if cfg.PublicDir != "" {
		opts = append(opts, rest.WithFileServer("/", http.Dir(cfg.PublicDir)))
	}
	server := rest.MustNewServer(cfg.RestConf, opts...)
	defer server.Stop()

	ctx := svc.MustNewServiceContext(*cfg)
	defer ctx.Close()
	handler.RegisterHandlers(server, ctx)

	cli.LogConfigSummary(cfg)
	fmt.Printf("Starting server at %s:%d...\n", cfg.Host, cfg.Port)
	server.Start()
}
