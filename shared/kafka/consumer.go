package kafka

import (
	"context"
	"encoding/json"
	"errors"

	"shortsmith/config"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// MessageHandler processes one record. A false shouldMark leaves the offset
// uncommitted so the group redelivers the record.
type MessageHandler interface {
	HandleMessage(ctx context.Context, message []byte) (shouldMark bool, err error)
}

// ConsumerConfig selects the brokers, topic and group a Consumer joins.
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Handler MessageHandler
}

// Consumer feeds a consumer group's records to a MessageHandler.
type Consumer struct {
	group   sarama.ConsumerGroup
	session *sessionHandler
	topics  []string
	groupID string
}

// NewConsumer joins cfg.GroupID. Nothing is consumed until Start.
func NewConsumer(cfg ConsumerConfig) (*Consumer, error) {
	if cfg.Handler == nil {
		return nil, errors.New("kafka consumer requires a handler")
	}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, newSaramaConfig())
	if err != nil {
		return nil, err
	}

	return &Consumer{
		group:   group,
		session: &sessionHandler{handler: cfg.Handler, ready: make(chan bool)},
		topics:  []string{cfg.Topic},
		groupID: cfg.GroupID,
	}, nil
}

// Renders are long, so only new requests are read by a fresh group and
// partitions are spread round-robin.
func newSaramaConfig() *sarama.Config {
	c := sarama.NewConfig()
	c.ClientID = "shortsmith"
	c.Version = sarama.V3_6_0_0
	c.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	c.Consumer.Offsets.Initial = sarama.OffsetNewest
	c.Consumer.Return.Errors = true
	return c
}

// Start consumes in the background and returns once the first session is
// set up, or when ctx ends first.
func (c *Consumer) Start(ctx context.Context) error {
	ready := c.session.ready
	go c.consume(ctx)

	select {
	case <-ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	config.Log.WithFields(logrus.Fields{"group": c.groupID, "topics": c.topics}).Info("Kafka consumer started")

	go c.logErrors()
	return nil
}

// consume rejoins the group after every rebalance until ctx ends or the
// group is closed.
func (c *Consumer) consume(ctx context.Context) {
	for {
		err := c.group.Consume(ctx, c.topics, c.session)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, sarama.ErrClosedConsumerGroup):
			config.Log.Info("Kafka consumer stopped")
			return
		case err != nil:
			config.Log.Errorf("Kafka session ended: %v", err)
		}
		if ctx.Err() != nil {
			return
		}
		c.session.ready = make(chan bool)
	}
}

func (c *Consumer) logErrors() {
	for err := range c.group.Errors() {
		config.Log.Errorf("Kafka consumer error: %v", err)
	}
}

// Close leaves the group, waiting for the current session to end.
func (c *Consumer) Close() error {
	config.Log.Info("Closing Kafka consumer...")
	return c.group.Close()
}

// sessionHandler adapts a MessageHandler to sarama.ConsumerGroupHandler.
type sessionHandler struct {
	handler MessageHandler
	ready   chan bool
}

func (h *sessionHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

func (h *sessionHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *sessionHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok || msg == nil {
				return nil
			}
			h.handle(session, msg)
		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *sessionHandler) handle(session sarama.ConsumerGroupSession, msg *sarama.ConsumerMessage) {
	log := config.Log.WithFields(logrus.Fields{
		"partition": msg.Partition,
		"offset":    msg.Offset,
		"key":       string(msg.Key),
	})
	log.Debug("Received Kafka message")

	mark, err := h.handler.HandleMessage(session.Context(), msg.Value)
	if err != nil {
		log.Errorf("Failed to handle message: %v", err)
	}
	if mark {
		session.MarkMessage(msg, "")
	}
}

// TypedMessageHandler decodes each record as JSON into T. Validate may drop
// a decoded record; Process does the work.
type TypedMessageHandler[T any] struct {
	Validate func(msg *T) bool
	Process  func(ctx context.Context, msg *T) error
	// AlwaysMark commits records that fail to decode or validate instead of
	// leaving them for redelivery.
	AlwaysMark bool
}

func (h *TypedMessageHandler[T]) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	var msg T
	if err := json.Unmarshal(message, &msg); err != nil {
		config.Log.Warnf("Failed to unmarshal message: %v", err)
		return h.AlwaysMark, nil
	}
	if h.Validate != nil && !h.Validate(&msg) {
		return h.AlwaysMark, nil
	}
	if err := h.Process(ctx, &msg); err != nil {
		return false, err
	}
	return true, nil
}
