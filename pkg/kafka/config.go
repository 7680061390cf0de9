package kafka

import "time"

// ProducerOption configures Producer.
type ProducerOption func(*ProducerConfig)

// ProducerConfig holds Kafka writer configuration.
type ProducerConfig struct {
	Brokers      []string
	RequiredAcks int
	Compression  string
	MaxAttempts  int
	WriteTimeout time.Duration
	ReadTimeout  time.Duration
	BatchSize    int
	BatchBytes   int
	BatchTimeout time.Duration
	Async        bool
	HashByKey    bool
}

// WithBrokers sets Kafka brokers.
func WithBrokers(brokers []string) ProducerOption {
	return func(c *ProducerConfig) {
		c.Brokers = brokers
	}
}

// WithRequiredAcks sets the ack level (-1 all, 0 none, 1 leader).
func WithRequiredAcks(acks int) ProducerOption {
	return func(c *ProducerConfig) {
		c.RequiredAcks = acks
	}
}

// WithCompression sets the compression codec by name.
func WithCompression(codec string) ProducerOption {
	return func(c *ProducerConfig) {
		c.Compression = codec
	}
}

// WithBatching sets batch size, bytes and linger.
func WithBatching(size, bytes int, timeout time.Duration) ProducerOption {
	return func(c *ProducerConfig) {
		c.BatchSize = size
		c.BatchBytes = bytes
		c.BatchTimeout = timeout
	}
}

// WithMaxAttempts sets the write retry limit.
func WithMaxAttempts(attempts int) ProducerOption {
	return func(c *ProducerConfig) {
		if attempts > 0 {
			c.MaxAttempts = attempts
		}
	}
}

// WithProducerTimeouts sets the writer I/O timeouts.
func WithProducerTimeouts(write, read time.Duration) ProducerOption {
	return func(c *ProducerConfig) {
		if write > 0 {
			c.WriteTimeout = write
		}
		if read > 0 {
			c.ReadTimeout = read
		}
	}
}

// WithAsync enables fire-and-forget writes.
func WithAsync(async bool) ProducerOption {
	return func(c *ProducerConfig) {
		c.Async = async
	}
}

// WithHashByKey routes messages with the same key to the same partition.
// Consumption events are keyed by item so per-item ordering holds.
func WithHashByKey(on bool) ProducerOption {
	return func(c *ProducerConfig) {
		c.HashByKey = on
	}
}
