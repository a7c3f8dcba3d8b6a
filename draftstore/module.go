package draftstore

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/kelseyhightower/envconfig"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Provide(NewConfig, NewStore)

type Config struct {
	// Drafts are kept in memory when the uri is not set
	URI             string        `envconfig:"TIDEPOOL_STORE_URI"`
	Database        string        `envconfig:"TIDEPOOL_STORE_DATABASE" default:"prescription"`
	Collection      string        `envconfig:"TIDEPOOL_STORE_COLLECTION" default:"wizardDrafts"`
	ConnectAttempts uint          `envconfig:"TIDEPOOL_STORE_CONNECT_ATTEMPTS" default:"5"`
	ConnectDelay    time.Duration `envconfig:"TIDEPOOL_STORE_CONNECT_DELAY" default:"2s"`
	Timeout         time.Duration `envconfig:"TIDEPOOL_STORE_TIMEOUT" default:"10s"`
}

func NewConfig() (Config, error) {
	cfg := Config{}
	err := envconfig.Process("", &cfg)
	return cfg, err
}

type Params struct {
	fx.In

	Config    Config
	Logger    *zap.SugaredLogger
	Lifecycle fx.Lifecycle
}

func NewStore(p Params) (Store, error) {
	if p.Config.URI == "" {
		p.Logger.Infow("using in-memory draft store")
		return NewMemoryStore(), nil
	}

	client, err := mongo.NewClient(options.Client().
		ApplyURI(p.Config.URI).
		SetTimeout(p.Config.Timeout))
	if err != nil {
		return nil, fmt.Errorf("unable to create mongo client: %w", err)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return Connect(ctx, client, p.Config, p.Logger)
		},
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	collection := client.Database(p.Config.Database).Collection(p.Config.Collection)
	return NewMongoStore(collection), nil
}

// Connect connects the client and waits until the primary is reachable
func Connect(ctx context.Context, client *mongo.Client, config Config, logger *zap.SugaredLogger) error {
	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("unable to connect to mongo: %w", err)
	}

	err := retry.Do(
		func() error {
			return client.Ping(ctx, readpref.Primary())
		},
		retry.Attempts(config.ConnectAttempts),
		retry.Delay(config.ConnectDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warnw("unable to ping mongo", "attempt", n+1, zap.Error(err))
		}),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil
		}),
	)
	if err != nil {
		return fmt.Errorf("unable to reach mongo: %w", err)
	}

	logger.Infow("connected to mongo", "database", config.Database, "collection", config.Collection)
	return nil
}
