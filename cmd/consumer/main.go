package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do"
	"github.com/snaplink-io/snaplink/internal/container"
	"github.com/snaplink-io/snaplink/internal/messaging"
	"go.uber.org/zap"
)

// The consumer drains the link event streams into the audit sink. It has
// no HTTP surface and no flags; everything comes from the environment.
func main() {
	opts := &container.Options{
		RedisAddr: envOr("REDIS_ADDR", "localhost:6379"),
		LogFormat: envOr("LOG_FORMAT", "console"),
	}

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.ConsumerGroupPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)
	group := do.MustInvoke[*messaging.ConsumerGroup](injector)

	ctx, cancel := context.WithCancel(context.Background())

	if err := group.Start(ctx); err != nil {
		logger.Fatal("failed to start analytics consumers", zap.Error(err))
	}

	logger.Info("analytics consumer running", zap.String("redis_addr", opts.RedisAddr))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	cancel()

	if err := group.Shutdown(); err != nil {
		logger.Error("consumer shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
