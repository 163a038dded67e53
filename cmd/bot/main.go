package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ai-hub/internal/config"
	"ai-hub/internal/memory"
	"ai-hub/internal/provider"
	"ai-hub/internal/resolve"
	"ai-hub/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("no .env file: %v", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	zl, err := newLogger(cfg.LogDev)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	logger := zl.Sugar()

	var durable memory.Backend
	if cfg.RedisAddr != "" {
		durable = memory.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
	}
	store := memory.NewManager(logger, durable, 1024)
	sweeper := store.StartSweep()
	defer sweeper.Stop()

	reg := provider.NewRegistry(cfg, logger)
	resolver := resolve.New(logger)
	chat := resolve.NewChat(resolver, reg, store, cfg.MemoryTTL())

	bot, err := telegram.New(cfg.TelegramBotToken, chat, resolver, reg, logger)
	if err != nil {
		logger.Fatalw("failed to create bot", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Infow("bot started", "memory_ttl", cfg.MemoryTTL())
	bot.Start(ctx)
	logger.Infow("bot stopped")
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
