package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dispatch-console/pkg/config"
	"dispatch-console/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	maxRetries    = 10
	retryInterval = 3 * time.Second
	maxBackoff    = 30 * time.Second
)

var ErrNotConnected = errors.New("rabbitmq is not connected")

// Handler processes one delivery and is responsible for acking it.
type Handler func(ctx context.Context, msg amqp.Delivery)

// Connection wraps an amqp connection, re-dialing and re-declaring the
// topology when the broker drops it.
type Connection struct {
	log         logger.Logger
	url         string
	topology    Topology
	conn        *amqp.Connection
	pubChannel  *amqp.Channel
	mu          sync.RWMutex // guards conn, pubChannel and isConnected
	isConnected bool
	notifyClose chan *amqp.Error
	done        chan struct{}
	closeOnce   sync.Once
}

func NewConnection(ctx context.Context, cfg *config.Config, topo Topology, log logger.Logger) (*Connection, error) {
	if err := topo.Validate(); err != nil {
		return nil, err
	}
	c := &Connection{
		log:      log,
		url:      cfg.AMQPURL(),
		topology: topo,
		done:     make(chan struct{}),
	}

	var err error
	for i := 0; i < maxRetries; i++ {
		if err = c.connect(); err == nil {
			log.Info("rabbitmq_connect", "Initial RabbitMQ connection established")
			if err := c.declare(); err != nil {
				c.Close()
				return nil, fmt.Errorf("failed to setup RabbitMQ topology: %w", err)
			}
			go c.reconnectLoop()
			return c, nil
		}

		log.Error("rabbitmq_connect_retry", fmt.Errorf("failed to connect to RabbitMQ (attempt %d/%d): %w", i+1, maxRetries, err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d retries: %w", maxRetries, err)
}

func (c *Connection) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("failed to dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open publisher channel: %w", err)
	}

	c.conn = conn
	c.pubChannel = ch
	c.isConnected = true
	c.notifyClose = conn.NotifyClose(make(chan *amqp.Error, 1))
	return nil
}

func (c *Connection) reconnectLoop() {
	for {
		c.mu.RLock()
		notify := c.notifyClose
		c.mu.RUnlock()

		select {
		case <-c.done:
			return
		case amqpErr := <-notify:
			if amqpErr == nil {
				c.log.Info("rabbitmq_reconnect_loop", "Connection closed gracefully")
				return
			}
			c.log.Error("rabbitmq_disconnect", fmt.Errorf("RabbitMQ connection lost: %w", amqpErr))
			c.mu.Lock()
			c.isConnected = false
			c.mu.Unlock()

			if !c.redial() {
				return
			}
		}
	}
}

// redial retries with a growing backoff until it succeeds or the connection
// is closed.
func (c *Connection) redial() bool {
	backoff := time.Second
	for {
		c.log.Info("rabbitmq_reconnect_attempt", fmt.Sprintf("Attempting to reconnect in %s...", backoff))
		select {
		case <-c.done:
			return false
		case <-time.After(backoff):
		}

		err := c.connect()
		if err == nil {
			err = c.declare()
		}
		if err == nil {
			c.log.Info("rabbitmq_reconnect_success", "RabbitMQ connection re-established")
			return true
		}

		c.log.Error("rabbitmq_reconnect_failed", err)
		backoff = min(time.Duration(float64(backoff)*1.5), maxBackoff)
	}
}

// declare applies the topology on a short-lived channel.
func (c *Connection) declare() error {
	c.mu.RLock()
	if !c.isConnected {
		c.mu.RUnlock()
		return ErrNotConnected
	}
	ch, err := c.conn.Channel()
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to open setup channel: %w", err)
	}
	defer ch.Close()

	for _, ex := range c.topology.Exchanges {
		if err := ch.ExchangeDeclare(ex.Name, ex.Kind, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", ex.Name, err)
		}
	}
	for _, q := range c.topology.Queues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", q, err)
		}
	}
	for _, b := range c.topology.Bindings {
		if err := ch.QueueBind(b.Queue, b.RoutingKey, b.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s to %s: %w", b.Queue, b.Exchange, err)
		}
	}
	c.log.Debug("rabbitmq_setup_success", "RabbitMQ topology declared")
	return nil
}

// Publish sends a persistent JSON message. It is safe for concurrent use.
func (c *Connection) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.isConnected {
		return ErrNotConnected
	}
	return c.pubChannel.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
}

// Consume runs handler for every delivery on queue until ctx is cancelled
// or the connection is closed. The consumer reopens its channel after a
// reconnect.
func (c *Connection) Consume(ctx context.Context, queue string, handler Handler) {
	log := c.log.WithFields(logger.LogFields{"queue": queue})
	log.Info("consumer_start", "Starting consumer")

	go func() {
		for {
			ch, msgs, err := c.openConsumer(queue)
			if err != nil {
				log.Error("consumer_open_failed", err)
				select {
				case <-ctx.Done():
					return
				case <-c.done:
					return
				case <-time.After(retryInterval):
					continue
				}
			}

			closed := ch.NotifyClose(make(chan *amqp.Error, 1))
			log.Info("consumer_running", "Consumer started and waiting for messages")

		deliveries:
			for {
				select {
				case <-ctx.Done():
					ch.Close()
					return
				case <-c.done:
					ch.Close()
					return
				case err := <-closed:
					log.Error("consumer_channel_closed", fmt.Errorf("consumer channel closed: %v", err))
					break deliveries
				case msg, ok := <-msgs:
					if !ok {
						break deliveries
					}
					handler(ctx, msg)
				}
			}
		}
	}()
}

func (c *Connection) openConsumer(queue string) (*amqp.Channel, <-chan amqp.Delivery, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.isConnected {
		return nil, nil, ErrNotConnected
	}

	ch, err := c.conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open consumer channel: %w", err)
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, nil, fmt.Errorf("failed to start consuming: %w", err)
	}
	return ch, msgs, nil
}

// Close stops consumers and the reconnect loop and closes the connection.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.log.Info("rabbitmq_close", "Closing RabbitMQ connection")
		c.isConnected = false
		if c.pubChannel != nil {
			c.pubChannel.Close()
		}
		if c.conn != nil {
			c.conn.Close()
		}
	})
}
