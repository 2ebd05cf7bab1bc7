package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/users"
)

const (
	DefaultExchange = "users.events"

	KeyUserCreated = "user.created"
	KeyUserUpdated = "user.updated"
	KeyUserDeleted = "user.deleted"

	appID = "user-service"

	// upper bound on waiting for a broker confirm when ctx has no deadline
	confirmWait = 2 * time.Second
)

// Publisher sends user lifecycle events to a durable topic exchange with
// publisher confirms. Safe for concurrent use; publishes are serialized.
type Publisher struct {
	url      string
	exchange string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
	now       func() time.Time
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{
		url:      url,
		exchange: exchange,
		now:      time.Now,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.resetConn()
	return nil
}

// Ping reports whether the broker connection is up.
func (p *Publisher) Ping(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		return errors.New("rabbitmq connection closed")
	}
	return nil
}

// ---- users.EventPublisher ----

func (p *Publisher) PublishUserCreated(ctx context.Context, evt users.UserEvent) error {
	return p.publishJSON(ctx, KeyUserCreated, evt)
}

func (p *Publisher) PublishUserUpdated(ctx context.Context, evt users.UserEvent) error {
	return p.publishJSON(ctx, KeyUserUpdated, evt)
}

func (p *Publisher) PublishUserDeleted(ctx context.Context, evt users.UserEvent) error {
	return p.publishJSON(ctx, KeyUserDeleted, evt)
}

// ---- internal ----

func (p *Publisher) connect() (err error) {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() {
		if err != nil {
			_ = conn.Close()
		}
	}()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err = declareAndConfirm(ch, p.exchange); err != nil {
		_ = ch.Close()
		return err
	}

	p.conn, p.ch = conn, ch
	p.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	return nil
}

// declareAndConfirm declares the durable topic exchange and puts ch in
// publisher confirm mode.
func declareAndConfirm(ch *amqp.Channel, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange declare %s: %w", exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		return fmt.Errorf("confirm mode: %w", err)
	}
	return nil
}

func (p *Publisher) ensureConnected() error {
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil {
		return nil
	}
	p.resetConn()
	return p.connect()
}

// buildMessage is split out so the envelope can be tested without a broker.
func buildMessage(routingKey string, payload any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal payload: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         routingKey,
		AppId:        appID,
		Timestamp:    now,
		Body:         body,
	}, nil
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, payload any) error {
	msg, err := buildMessage(routingKey, payload, p.now())
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, confirmWait)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnected(); err != nil {
		return err
	}

	// drop confirms left over from a publish that timed out
drain:
	for {
		select {
		case <-p.confirmCh:
		default:
			break drain
		}
	}

	// mandatory=false: an event with no bound queue is simply dropped
	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		p.resetConn()
		return fmt.Errorf("publish failed: %w", err)
	}

	select {
	case conf, ok := <-p.confirmCh:
		if !ok {
			p.resetConn()
			return fmt.Errorf("rabbitmq channel closed awaiting confirm: key=%s", routingKey)
		}
		if !conf.Ack {
			return fmt.Errorf("rabbitmq nack: key=%s deliveryTag=%d", routingKey, conf.DeliveryTag)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("rabbitmq confirm: key=%s: %w", routingKey, ctx.Err())
	}
}

func (p *Publisher) resetConn() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	p.confirmCh = nil
}
