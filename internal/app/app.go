// Package app wires configuration into repositories and use cases. The server
// and the operator CLI share it.
package app

import (
	"context"
	"time"

	"github.com/fekuna/penstore/config"
	"github.com/fekuna/penstore/internal/auth"
	"github.com/fekuna/penstore/internal/cart"
	cartstore "github.com/fekuna/penstore/internal/cart/store"
	cartuc "github.com/fekuna/penstore/internal/cart/usecase"
	"github.com/fekuna/penstore/internal/collection"
	collectionrepo "github.com/fekuna/penstore/internal/collection/repository"
	collectionuc "github.com/fekuna/penstore/internal/collection/usecase"
	"github.com/fekuna/penstore/internal/media"
	mediarepo "github.com/fekuna/penstore/internal/media/repository"
	"github.com/fekuna/penstore/internal/media/storage"
	mediauc "github.com/fekuna/penstore/internal/media/usecase"
	"github.com/fekuna/penstore/internal/migrations"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/order"
	"github.com/fekuna/penstore/internal/order/publisher"
	orderrepo "github.com/fekuna/penstore/internal/order/repository"
	orderuc "github.com/fekuna/penstore/internal/order/usecase"
	"github.com/fekuna/penstore/internal/product"
	productrepo "github.com/fekuna/penstore/internal/product/repository"
	productuc "github.com/fekuna/penstore/internal/product/usecase"
	"github.com/fekuna/penstore/internal/stock"
	"github.com/fekuna/penstore/internal/stock/listener"
	stockrepo "github.com/fekuna/penstore/internal/stock/repository"
	stockuc "github.com/fekuna/penstore/internal/stock/usecase"
	"github.com/fekuna/penstore/internal/user"
	userrepo "github.com/fekuna/penstore/internal/user/repository"
	useruc "github.com/fekuna/penstore/internal/user/usecase"
	"github.com/fekuna/penstore/pkg/broker"
	"github.com/fekuna/penstore/pkg/cache"
	"github.com/fekuna/penstore/pkg/database"
	"github.com/fekuna/penstore/pkg/database/migrate"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/fekuna/penstore/pkg/search"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Options selects what a process needs beyond the database.
type Options struct {
	// Consumer starts a Kafka reader for the stock listener.
	Consumer bool
	// LocalCart stores carts in LevelDB even when Redis is available.
	LocalCart bool
}

type App struct {
	Config *config.Config
	Logger logger.ZapLogger

	DB       *sqlx.DB
	Cache    *cache.RedisClient
	Producer *broker.KafkaProducer
	Consumer *broker.KafkaConsumer
	Search   *search.Client
	Storage  *storage.LocalStorage
	Tokens   *auth.TokenManager

	Collections collection.UseCase
	Products    product.UseCase
	Media       media.UseCase
	Orders      order.UseCase
	Stock       stock.UseCase
	Users       user.UseCase
	Carts       cart.UseCase

	StockListener *listener.StockListener

	closers []func() error
}

// NewLogger applies the logger section of cfg.
func NewLogger(cfg *config.Config) logger.ZapLogger {
	return logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
}

// OpenDB connects and applies pending migrations.
func OpenDB(ctx context.Context, cfg *config.Config, log logger.ZapLogger) (*sqlx.DB, error) {
	db, err := database.Open(ctx, &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		SQLitePath:      cfg.Database.SQLitePath,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		return nil, err
	}
	if err := migrate.NewMigrator(db, log).Up(ctx, migrations.All); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}
	return db, nil
}

// New connects every backing service and builds the use cases. Redis, Kafka
// and Elasticsearch are optional: a failure logs a warning and the feature
// runs without them.
func New(ctx context.Context, cfg *config.Config, log logger.ZapLogger, opts Options) (*App, error) {
	a := &App{Config: cfg, Logger: log}

	db, err := OpenDB(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.DB = db
	a.closers = append(a.closers, db.Close)
	log.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Could not connect to Redis, caching and stock locks disabled", zap.Error(err))
		} else {
			a.Cache = redisClient
			a.closers = append(a.closers, redisClient.Close)
			log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	if cfg.Kafka.Enabled {
		kafkaCfg := &broker.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic, GroupID: cfg.Kafka.GroupID}
		a.Producer = broker.NewProducer(kafkaCfg)
		a.closers = append(a.closers, a.Producer.Close)
		if opts.Consumer {
			a.Consumer = broker.NewConsumer(kafkaCfg)
			a.closers = append(a.closers, a.Consumer.Close)
		}
		log.Info("Kafka configured", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	if cfg.Elastic.Enabled {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			log.Warn("Could not connect to Elasticsearch, search falls back to the database", zap.Error(err))
		} else {
			a.Search = esClient
			log.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	a.Storage, err = storage.NewLocalStorage(cfg.Media.StaticDir, cfg.Media.URLPrefix)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Tokens = auth.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.TTL)

	collectionRepo := collectionrepo.NewPGRepository(db)
	productRepo := productrepo.NewPGRepository(db)
	mediaRepo := mediarepo.NewPGRepository(db)

	a.Media = mediauc.NewMediaUseCase(mediaRepo, a.Storage, a.Cache, nil, cfg.Server.PublicURL, log)
	a.Collections = collectionuc.NewCollectionUseCase(collectionRepo, mediaRepo, a.Cache, cfg.Redis.CacheTTL, log)
	a.Products = productuc.NewProductUseCase(productRepo, collectionRepo, mediaRepo, a.Cache, a.Search, productuc.Options{
		CacheTTL:        cfg.Redis.CacheTTL,
		SearchIndex:     cfg.Elastic.Index,
		DefaultPageSize: cfg.Storefront.DefaultPageSize,
		MaxPageSize:     cfg.Storefront.MaxPageSize,
	}, log)
	a.Stock = stockuc.NewStockUseCase(stockrepo.NewPGRepository(db), a.Cache, log)
	a.StockListener = listener.NewStockListener(a.Consumer, a.Stock, log)
	a.Users = useruc.NewUserUseCase(userrepo.NewPGRepository(db), a.Tokens, log)

	var events order.EventPublisher
	if a.Producer != nil {
		events = publisher.NewKafkaPublisher(a.Producer)
	} else {
		events = publisher.Func(func(ctx context.Context, event *model.OrderEvent) error {
			return a.StockListener.Handle(ctx, event)
		})
	}
	a.Orders = orderuc.NewOrderUseCase(orderrepo.NewPGRepository(db), productRepo, events, cfg.Order.NumberPrefix, log)

	var carts cart.Store
	if a.Cache != nil && !opts.LocalCart {
		carts = cartstore.NewRedisStore(a.Cache, cfg.Redis.CartTTL)
	} else {
		local, err := cartstore.OpenLevelDB(cfg.Cart.LocalPath)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, local.Close)
		carts = local
	}
	a.Carts = cartuc.NewCartUseCase(carts, productRepo, a.Orders, log)

	return a, nil
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
