package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"goldprice/internal/application"
	"goldprice/internal/config"
	"goldprice/internal/domain"
	"goldprice/internal/infrastructure/csvstore"
	"goldprice/internal/infrastructure/httpx"
	"goldprice/internal/infrastructure/lock"
	"goldprice/internal/infrastructure/logx"
	"goldprice/internal/infrastructure/pg"
	"goldprice/internal/infrastructure/provider"
	redisstore "goldprice/internal/infrastructure/redis"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cleanups runs registered release funcs in reverse order.
type cleanups []func()

func (c *cleanups) add(fn func()) { *c = append(*c, fn) }

func (c cleanups) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

func ProvideSource(cfg config.Config) (application.PriceSource, error) {
	switch cfg.Provider {
	case "pnj", "":
		retries := cfg.FetchRetry
		if retries < 0 {
			retries = 0
		}
		return &provider.PNJProvider{
			BaseURL: cfg.GoldAPIURL,
			Zone:    cfg.GoldZone,
			Client: &httpx.Client{
				HTTP:    httpx.NewHTTPClient(cfg.HTTPTimeout),
				Retries: uint64(retries),
			},
		}, nil
	case "fake":
		return provider.NewFake(provider.SampleBatch()), nil
	default:
		return nil, fmt.Errorf("PROVIDER=%q: %w", cfg.Provider, ErrUnknownBackend)
	}
}

func ProvideRedisClient(cfg config.Config) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return client, func() { _ = client.Close() }, nil
}

func ProvideLocker(cfg config.Config) (application.Locker, func(), error) {
	switch cfg.LockBackend {
	case "file", "":
		return lock.NewFile(cfg.CSVPath + ".lock"), func() {}, nil
	case "redis":
		client, cleanup, err := ProvideRedisClient(cfg)
		if err != nil {
			return nil, func() {}, err
		}
		key := "goldprice:lock:" + filepath.Base(cfg.CSVPath)
		return redisstore.New(client, key, cfg.LockTTL), cleanup, nil
	case "none":
		return lock.Noop{}, func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("LOCK_BACKEND=%q: %w", cfg.LockBackend, ErrUnknownBackend)
	}
}

func ProvideStore(cfg config.Config, locker application.Locker, log *zap.Logger) (*csvstore.Store, error) {
	policy, err := csvstore.ParseDriftPolicy(cfg.SchemaDrift)
	if err != nil {
		return nil, err
	}
	return csvstore.New(cfg.CSVPath,
		csvstore.WithDriftPolicy(policy),
		csvstore.WithLocker(locker),
		csvstore.WithLogger(log),
	), nil
}

func ProvideDB(ctx context.Context, log *zap.Logger, cfg config.Config) (*pg.DB, func(), error) {
	if cfg.DatabaseURL == "" {
		return nil, func() {}, ErrMissingDBURL
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, func() {}, err
	}
	if err := pg.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, func() {}, err
	}
	cleanup := func() {
		if log != nil {
			log.Info("closing pg")
		}
		db.Close()
	}
	return db, cleanup, nil
}

// ProvideMirror returns nil when PG_MIRROR is off.
func ProvideMirror(ctx context.Context, log *zap.Logger, cfg config.Config) (application.PriceMirror, func(), error) {
	if !cfg.PGMirror {
		return nil, func() {}, nil
	}
	db, cleanup, err := ProvideDB(ctx, log, cfg)
	if err != nil {
		return nil, func() {}, err
	}
	return pg.NewPriceRepo(db, cfg.GoldZone), cleanup, nil
}

// BuildCrawler wires the fetch-and-append service for one run. extra options
// are applied after the configured ones.
func BuildCrawler(ctx context.Context, cfg config.Config, log *zap.Logger, extra ...application.Option) (*application.GoldPriceService, func(), error) {
	var cl cleanups
	fail := func(err error) (*application.GoldPriceService, func(), error) {
		cl.run()
		return nil, func() {}, err
	}

	source, err := ProvideSource(cfg)
	if err != nil {
		return fail(err)
	}
	locker, cleanup, err := ProvideLocker(cfg)
	if err != nil {
		return fail(err)
	}
	cl.add(cleanup)
	store, err := ProvideStore(cfg, locker, log)
	if err != nil {
		return fail(err)
	}
	mirror, cleanup, err := ProvideMirror(ctx, log, cfg)
	if err != nil {
		return fail(err)
	}
	cl.add(cleanup)

	opts := []application.Option{
		application.WithLocation(domain.FixedZone(cfg.TZOffsetHours)),
		application.WithLogger(log),
	}
	if mirror != nil {
		opts = append(opts, application.WithMirror(mirror))
	}
	opts = append(opts, extra...)
	return application.NewGoldPriceService(source, store, opts...), cl.run, nil
}

func InitCrawler(ctx context.Context) (*application.GoldPriceService, func(), error) {
	return BuildCrawler(ctx, ProvideConfig(), ProvideLogger())
}

// BuildQueryService wires the read side used by the HTTP API.
func BuildQueryService(cfg config.Config, log *zap.Logger) (*application.GoldPriceService, func(context.Context) error, error) {
	store, err := ProvideStore(cfg, lock.Noop{}, log)
	if err != nil {
		return nil, nil, err
	}
	svc := application.NewGoldPriceService(nil, store,
		application.WithReader(store),
		application.WithKeyField(cfg.PriceKeyField),
		application.WithLocation(domain.FixedZone(cfg.TZOffsetHours)),
		application.WithLogger(log),
	)
	ready := func(context.Context) error {
		_, err := os.Stat(filepath.Dir(cfg.CSVPath))
		return err
	}
	return svc, ready, nil
}
