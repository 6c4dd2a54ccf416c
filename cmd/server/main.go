package main

import (
	"context"
	"fmt"

	log "github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/clarobank/bankcore/internal/logging"
	"github.com/clarobank/bankcore/pkg/alert"
	"github.com/clarobank/bankcore/pkg/config"
	"github.com/clarobank/bankcore/pkg/eventbus"
	"github.com/clarobank/bankcore/pkg/exchange"
	"github.com/clarobank/bankcore/pkg/kv"
	"github.com/clarobank/bankcore/pkg/ledger"
	"github.com/clarobank/bankcore/webapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	bootLogger := logging.Setup(config.Log{Level: "info", Format: "text", Prefix: "bankcore"})

	cfg, err := config.Load(bootLogger)
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	logger := logging.Setup(cfg.Log)

	ctx := context.Background()

	store, err := newKVStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}

	provider := exchange.NewHTTPProvider(
		cfg.Exchange.ApiUrl,
		cfg.Exchange.ApiKey,
		cfg.Exchange.HTTPTimeout,
		logger,
	)
	rates := exchange.NewService(ctx, provider, store, logger,
		exchange.WithTTL(cfg.Exchange.CacheTTL))

	bus := eventbus.New(logger)
	alerts := alert.NewEvaluator(bus, logger)
	ledgerStore := ledger.New(ctx, store, bus, alerts, logger)

	app := webapi.NewApp(ledgerStore, rates, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server",
		"address", addr,
		"storage_backend", cfg.Storage.Backend,
	)

	return app.Listen(addr)
}

// newKVStore builds the persistence backend named by the configuration.
func newKVStore(cfg *config.App) (kv.Store, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return kv.NewMemory(), nil
	case "file":
		return kv.NewFile(cfg.Storage.Dir)
	case "redis":
		return kv.NewRedis(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Redis.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
