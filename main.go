package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"url-risk-analyzer/ai"
	"url-risk-analyzer/config"
	"url-risk-analyzer/history"
	"url-risk-analyzer/logger"
	"url-risk-analyzer/phishing"
	"url-risk-analyzer/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger.Setup(cfg)

	ctx := context.Background()

	classifier, err := ai.NewClassifier(cfg)
	if err != nil {
		log.Fatalf("ai classifier: %v", err)
	}
	if classifier == nil {
		slog.WarnContext(ctx, "AI classification disabled", "provider", cfg.AIProvider)
	}

	resolverOpts := []phishing.ResolverOption{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.WarnContext(ctx, "redis unreachable, domain age cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			resolverOpts = append(resolverOpts, phishing.WithAgeCache(phishing.NewRedisAgeCache(rdb, cfg.DomainAgeTTL)))
		}
	}
	ages := phishing.NewDomainAgeResolver([]phishing.RegistrationSource{
		phishing.NewRDAPSource(cfg.RDAPBaseURL),
		phishing.NewWhoisSource(),
	}, resolverOpts...)

	fetchers := phishing.FetchChain{phishing.NewStaticFetcher()}
	if !cfg.SkipChromedp {
		fetchers = append(fetchers, phishing.NewRenderedFetcher(cfg.ChromePath))
	}

	analyzer := phishing.NewAnalyzer(
		phishing.WithFetcher(fetchers),
		phishing.WithDomainAgeResolver(ages),
		phishing.WithClassifier(ai.NewAdapter(classifier)),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(analyzer, history.NewStore(cfg.HistorySize)).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting",
			"port", cfg.Port,
			"ai_provider", cfg.AIProvider,
			"rendering", !cfg.SkipChromedp)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}
}
