package notify

import (
	"context"

	"github.com/Shopify/sarama"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Provide(NewConfig, NewNotifier)

type Variant string

const (
	VariantSuccess Variant = "success"
	VariantDanger  Variant = "danger"
)

type Toast struct {
	Message string  `json:"message"`
	Variant Variant `json:"variant"`
}

// Notifier delivers toast notifications to the user of a wizard session
type Notifier interface {
	Notify(ctx context.Context, sessionId string, toast Toast) error
}

type Config struct {
	KafkaEnabled bool     `envconfig:"TIDEPOOL_NOTIFICATIONS_KAFKA_ENABLED" default:"false"`
	Brokers      []string `envconfig:"KAFKA_BROKERS" default:"kafka-kafka-bootstrap:9092"`
	Topic        string   `envconfig:"TIDEPOOL_NOTIFICATIONS_TOPIC" default:"prescription-notifications"`
	Source       string   `envconfig:"TIDEPOOL_NOTIFICATIONS_SOURCE" default:"prescription-wizard"`
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

func NewNotifier(p Params) (Notifier, error) {
	logNotifier := NewLogNotifier(p.Logger)
	if !p.Config.KafkaEnabled {
		p.Logger.Info("kafka notifications are disabled")
		return logNotifier, nil
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	producer, err := sarama.NewSyncProducer(p.Config.Brokers, saramaConfig)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})

	return Multi(logNotifier, NewKafkaNotifier(producer, p.Config, p.Logger)), nil
}

type LogNotifier struct {
	logger *zap.SugaredLogger
}

func NewLogNotifier(logger *zap.SugaredLogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(_ context.Context, sessionId string, toast Toast) error {
	l.logger.Infow("toast notification", "sessionId", sessionId, "variant", toast.Variant, "message", toast.Message)
	return nil
}

type multi []Notifier

// Multi delivers every toast to all notifiers and returns the first error
func Multi(notifiers ...Notifier) Notifier {
	return multi(notifiers)
}

func (m multi) Notify(ctx context.Context, sessionId string, toast Toast) error {
	var first error
	for _, n := range m {
		if err := n.Notify(ctx, sessionId, toast); err != nil && first == nil {
			first = err
		}
	}
	return first
}
