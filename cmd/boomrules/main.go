package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/winspan/boomrules/internal/metrics"
	"github.com/winspan/boomrules/internal/rules"
	"github.com/winspan/boomrules/pkg/config"
	"github.com/winspan/boomrules/pkg/logger"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg, err := logger.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}

	code := run(cfg, lg)
	lg.Close()
	os.Exit(code)
}

// run 执行一次同步并返回进程退出码
func run(cfg *config.Config, lg *logger.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline := &rules.Pipeline{
		Fetcher:  rules.NewHTTPFetcher(cfg.Source.URL, cfg.Source.Timeout, cfg.Source.UserAgent, lg),
		Policy:   cfg.Policy(),
		Writer:   rules.NewWriter(cfg.Output.Dir, cfg.Output.TextFile, cfg.Output.YAMLFile),
		Recorder: metrics.New(cfg.Metrics.Textfile),
		Log:      lg,
	}

	if _, err := pipeline.Run(ctx); err != nil {
		lg.Error().Err(err).Str("source", cfg.Source.URL).Msg("sync rules failed")
		return 1
	}
	return 0
}
