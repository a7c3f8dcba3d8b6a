package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	ce "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ToastEventType = "org.tidepool.prescription.wizard.toast"

	contentTypeHeader = "content-type"
)

// KafkaNotifier publishes toasts as structured cloud events keyed by session id
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
	source   string
	logger   *zap.SugaredLogger
}

func NewKafkaNotifier(producer sarama.SyncProducer, config Config, logger *zap.SugaredLogger) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		topic:    config.Topic,
		source:   config.Source,
		logger:   logger,
	}
}

func (k *KafkaNotifier) Notify(_ context.Context, sessionId string, toast Toast) error {
	event := ce.NewEvent()
	event.SetID(uuid.NewString())
	event.SetSource(k.source)
	event.SetType(ToastEventType)
	event.SetSubject(sessionId)
	event.SetTime(time.Now())
	if err := event.SetData(ce.ApplicationJSON, toast); err != nil {
		return fmt.Errorf("unable to set event data: %w", err)
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("unable to marshal event: %w", err)
	}

	partition, offset, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(sessionId),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{{
			Key:   []byte(contentTypeHeader),
			Value: []byte(ce.ApplicationCloudEventsJSON),
		}},
	})
	if err != nil {
		k.logger.Errorw("unable to publish toast", "sessionId", sessionId, zap.Error(err))
		return fmt.Errorf("unable to publish toast: %w", err)
	}

	k.logger.Debugw("published toast", "sessionId", sessionId, "partition", partition, "offset", offset)
	return nil
}
