package kafka

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"InvenPulse/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// MessageHandler handles messages from one topic.
type MessageHandler interface {
	Topic() string
	Handle(ctx context.Context, data []byte) error
}

// ConsumerOption configures Consumer.
type ConsumerOption func(*ConsumerConfig)

// ConsumerConfig holds consumer configuration.
type ConsumerConfig struct {
	Brokers     []string
	GroupID     string
	WorkerCount int
	BufferSize  int
	RetryMax    int
	BackoffMin  time.Duration
	BackoffMax  time.Duration
	DLQTopic    string
	MinBytes    int
	MaxBytes    int
}

// WithConsumerBrokers sets Kafka brokers.
func WithConsumerBrokers(brokers []string) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.Brokers = brokers
	}
}

// WithConsumerGroupID sets the consumer group ID.
func WithConsumerGroupID(groupID string) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.GroupID = groupID
	}
}

// WithConsumerWorkers sets the number of worker goroutines.
func WithConsumerWorkers(count int) ConsumerOption {
	return func(c *ConsumerConfig) {
		if count > 0 {
			c.WorkerCount = count
		}
	}
}

// WithConsumerRetry configures retry attempts and backoff range.
func WithConsumerRetry(max int, backoffMin, backoffMax time.Duration) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.RetryMax = max
		c.BackoffMin = backoffMin
		c.BackoffMax = backoffMax
	}
}

// WithConsumerBufferSize sets the dispatch channel capacity.
func WithConsumerBufferSize(size int) ConsumerOption {
	return func(c *ConsumerConfig) {
		if size > 0 {
			c.BufferSize = size
		}
	}
}

// WithConsumerFetch sets the reader fetch byte range.
func WithConsumerFetch(minBytes, maxBytes int) ConsumerOption {
	return func(c *ConsumerConfig) {
		if minBytes > 0 {
			c.MinBytes = minBytes
		}
		if maxBytes > 0 {
			c.MaxBytes = maxBytes
		}
	}
}

// WithConsumerDLQ sets the dead-letter topic.
func WithConsumerDLQ(topic string) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.DLQTopic = topic
	}
}

// Consumer reads registered topics and dispatches to a worker pool.
type Consumer struct {
	cfg      *ConsumerConfig
	logger   *logger.Logger
	readers  map[string]*kafka.Reader
	handlers map[string]MessageHandler
	stopChan chan struct{}
	stopOnce sync.Once
	msgChan  chan *message
	dlq      *kafka.Writer
	wg       sync.WaitGroup
}

type message struct {
	topic string
	km    kafka.Message
}

// NewConsumer creates a Kafka consumer.
func NewConsumer(lgr *logger.Logger, opts ...ConsumerOption) (*Consumer, error) {
	cfg := &ConsumerConfig{
		GroupID:     "default",
		WorkerCount: 1,
		BufferSize:  64,
		RetryMax:    3,
		BackoffMin:  50 * time.Millisecond,
		BackoffMax:  2 * time.Second,
		MinBytes:    10e3,
		MaxBytes:    10e6,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}

	c := &Consumer{
		cfg:      cfg,
		logger:   lgr,
		readers:  make(map[string]*kafka.Reader),
		handlers: make(map[string]MessageHandler),
		stopChan: make(chan struct{}),
		msgChan:  make(chan *message, cfg.BufferSize),
	}

	if cfg.DLQTopic != "" {
		c.dlq = &kafka.Writer{Addr: kafka.TCP(cfg.Brokers...), Balancer: &kafka.LeastBytes{}}
	}

	return c, nil
}

// RegisterHandler registers a message handler for its topic.
func (c *Consumer) RegisterHandler(handler MessageHandler) {
	topic := handler.Topic()
	if _, ok := c.handlers[topic]; ok {
		c.logger.Warn("handler already registered", logger.String("topic", topic))
		return
	}
	c.handlers[topic] = handler
}

// Start creates a reader per registered topic and spawns the worker pool.
func (c *Consumer) Start() error {
	if len(c.handlers) == 0 {
		return fmt.Errorf("no handlers registered")
	}

	for topic := range c.handlers {
		c.readers[topic] = kafka.NewReader(kafka.ReaderConfig{
			Brokers:  c.cfg.Brokers,
			Topic:    topic,
			GroupID:  c.cfg.GroupID,
			MinBytes: c.cfg.MinBytes,
			MaxBytes: c.cfg.MaxBytes,
		})
		c.logger.Info("kafka consumer topic registered", logger.String("topic", topic))
	}

	for i := 0; i < c.cfg.WorkerCount; i++ {
		c.wg.Add(1)
		go c.worker()
	}

	for topic, reader := range c.readers {
		c.wg.Add(1)
		go c.readLoop(topic, reader)
	}

	c.logger.Info("kafka consumer started",
		logger.Int("workers", c.cfg.WorkerCount),
		logger.String("group", c.cfg.GroupID))
	return nil
}

// Stop drains readers and workers, bounded by ctx.
func (c *Consumer) Stop(ctx context.Context) error {
	var stopErr error

	c.stopOnce.Do(func() {
		c.logger.Info("stopping kafka consumer...")

		close(c.stopChan)
		close(c.msgChan)

		doneChan := make(chan struct{})
		go func() {
			c.wg.Wait()
			close(doneChan)
		}()

		select {
		case <-ctx.Done():
			stopErr = fmt.Errorf("timeout waiting for consumer to stop: %w", ctx.Err())
		case <-doneChan:
		}

		for topic, reader := range c.readers {
			if err := reader.Close(); err != nil {
				c.logger.Error("close reader", logger.String("topic", topic), logger.Error(err))
			}
		}
		if c.dlq != nil {
			if err := c.dlq.Close(); err != nil {
				c.logger.Error("close dlq writer", logger.Error(err))
			}
		}

		if stopErr == nil {
			c.logger.Info("kafka consumer stopped")
		}
	})

	return stopErr
}

func (c *Consumer) readLoop(topic string, reader *kafka.Reader) {
	defer c.wg.Done()

	for {
		select {
		case <-c.stopChan:
			return
		default:
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			km, err := reader.ReadMessage(ctx)
			cancel()

			if err != nil {
				if !errors.Is(err, context.DeadlineExceeded) {
					c.logger.Error("read message", logger.String("topic", topic), logger.Error(err))
				}
				continue
			}

			select {
			case c.msgChan <- &message{topic: topic, km: km}:
			case <-c.stopChan:
				return
			}
		}
	}
}

func (c *Consumer) worker() {
	defer c.wg.Done()

	for msg := range c.msgChan {
		handler, exists := c.handlers[msg.topic]
		if !exists {
			continue
		}
		c.handleWithRetry(handler, msg)
	}
}

func (c *Consumer) handleWithRetry(handler MessageHandler, msg *message) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic in message handler",
				logger.String("topic", msg.topic),
				logger.Any("panic", r))
		}
	}()

	var err error
	for attempt := 1; ; attempt++ {
		err = handler.Handle(context.Background(), msg.km.Value)
		if err == nil || attempt > c.cfg.RetryMax {
			break
		}
		select {
		case <-time.After(backoffWithJitter(c.cfg.BackoffMin, c.cfg.BackoffMax, attempt)):
		case <-c.stopChan:
			return
		}
	}

	if err != nil {
		c.logger.Error("message handling failed",
			logger.String("topic", msg.topic),
			logger.Error(err))
		c.publishDLQ(msg)
	}
}

// publishDLQ moves a poison message aside so the offset can be committed.
func (c *Consumer) publishDLQ(msg *message) {
	if c.dlq == nil || c.cfg.DLQTopic == "" {
		return
	}
	err := c.dlq.WriteMessages(context.Background(), kafka.Message{
		Topic:   c.cfg.DLQTopic,
		Value:   msg.km.Value,
		Time:    time.Now(),
		Headers: []kafka.Header{{Key: "source_topic", Value: []byte(msg.topic)}},
	})
	if err != nil {
		c.logger.Error("write to dlq", logger.String("topic", c.cfg.DLQTopic), logger.Error(err))
	}
}

func backoffWithJitter(min, max time.Duration, attempt int) time.Duration {
	if min <= 0 {
		min = 50 * time.Millisecond
	}
	if max < min {
		max = min
	}
	exp := min * time.Duration(1<<uint(attempt-1))
	if exp > max {
		exp = max
	}
	jitter := time.Duration(rand.Int63n(int64(exp)/2 + 1))
	return exp - jitter
}
