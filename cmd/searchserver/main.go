package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/cli"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/search-server/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search server",
		"policy", cfg.Engine.Policy,
		"max_results", cfg.Engine.MaxResults,
		"shard_count", cfg.Engine.ShardCount,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []cli.Option
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		opts = append(opts, cli.WithMetrics(m))
	}

	if cfg.Redis.Enabled {
		redisClient, err := pkgredis.Connect(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, search caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			opts = append(opts, cli.WithCache(cache.New(redisClient, cfg.Redis.CacheTTL, cache.WithMetrics(m))))
			slog.Info("search cache enabled",
				"addr", cfg.Redis.Addr,
				"ttl", cfg.Redis.CacheTTL,
			)
		}
	}

	runner, err := cli.New(cfg, os.Stdout, opts...)
	if err != nil {
		slog.Error("failed to create search server", "error", err)
		os.Exit(apperrors.ExitCode(err))
	}

	if err := runner.Run(ctx, os.Stdin); err != nil {
		slog.Error("search server stopped", "error", err)
		stop()
		os.Exit(apperrors.ExitCode(err))
	}
	slog.Info("search server stopped", "documents", runner.Engine().DocumentCount())
}
