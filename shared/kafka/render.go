package kafka

import (
	"context"
	"os"
	"strings"

	"shortsmith/config"
	"shortsmith/pipeline"
	"shortsmith/types"
)

// Renderer is the part of pipeline.Processor the consumer drives.
type Renderer interface {
	Process(ctx context.Context, req types.RenderRequest) (*types.RenderResult, error)
}

// NewRenderHandler decodes render requests and hands valid ones to r.
// Content that was already rendered, or is rendering in another job, is
// marked and skipped.
func NewRenderHandler(r Renderer) *TypedMessageHandler[types.RenderRequest] {
	return &TypedMessageHandler[types.RenderRequest]{
		Validate: func(msg *types.RenderRequest) bool {
			if err := msg.Validate(); err != nil {
				config.Log.Warnf("Skipping invalid render request: %v", err)
				return false
			}
			return true
		},
		Process: func(ctx context.Context, msg *types.RenderRequest) error {
			log := config.Log.WithField("id", msg.Content.ThreadID)
			log.Info("Processing render request")

			result, err := r.Process(ctx, *msg)
			if pipeline.IsSkip(err) {
				log.Infof("Skipping: %v", err)
				return nil
			}
			if err != nil {
				return err
			}
			log.WithField("path", result.Path).Info("Render request done")
			return nil
		},
		AlwaysMark: true,
	}
}

// ConfigFromEnv reads KAFKA_BOOTSTRAP_SERVERS, KAFKA_TOPIC_RENDER_REQUESTS and
// KAFKA_CONSUMER_GROUP_ID.
func ConfigFromEnv() ConsumerConfig {
	brokers := os.Getenv("KAFKA_BOOTSTRAP_SERVERS")
	if brokers == "" {
		brokers = "localhost:9093"
	}
	topic := os.Getenv("KAFKA_TOPIC_RENDER_REQUESTS")
	if topic == "" {
		topic = "render-requests"
	}
	group := os.Getenv("KAFKA_CONSUMER_GROUP_ID")
	if group == "" {
		group = "shortsmith-render-group"
	}
	return ConsumerConfig{
		Brokers: strings.Split(brokers, ","),
		Topic:   topic,
		GroupID: group,
	}
}

// Run consumes until ctx ends, then closes the consumer group. Close waits
// for the in-flight session to finish.
func Run(ctx context.Context, cfg ConsumerConfig) error {
	consumer, err := NewConsumer(cfg)
	if err != nil {
		return err
	}

	if err := consumer.Start(ctx); err != nil {
		consumer.Close()
		return err
	}

	<-ctx.Done()
	config.Log.Info("Kafka consumer shutting down")
	return consumer.Close()
}
