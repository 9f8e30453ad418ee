package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "geo.events"

	// Upper bound on waiting for the broker's confirm
	confirmWait = time.Second
)

type Publisher struct {
	url      string
	exchange string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	returnCh <-chan amqp.Return
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	p := &Publisher{
		url:      url,
		exchange: exchange,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}

	// enable publisher confirms
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("enable confirms: %w", err)
	}

	p.conn = conn
	p.ch = ch

	p.returnCh = ch.NotifyReturn(make(chan amqp.Return, 8))

	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	return nil
}

// PublishEvent JSON-encodes payload and publishes it to the topic exchange with mandatory + confirms.
// The message id is taken from the payload's message_id field when present.
func (p *Publisher) PublishEvent(ctx context.Context, routingKey string, payload any) error {
	if strings.TrimSpace(routingKey) == "" {
		return errors.New("missing routingKey")
	}
	body, messageID, err := encodeBody(payload)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return errors.New("publisher channel not ready")
	}

	drainReturns(p.returnCh)

	dc, err := p.ch.PublishWithDeferredConfirmWithContext(
		ctx,
		p.exchange,
		routingKey,
		true,  // mandatory
		false, // immediate
		amqp.Publishing{
			MessageId:    messageID,
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	if dc == nil {
		return errors.New("channel not in confirm mode")
	}
	return awaitConfirm(ctx, dc, p.returnCh, messageID)
}

type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// awaitConfirm waits for the broker's ack of one message. The broker sends basic.return
// before the ack of the same message, so a return for messageID is already queued once acked.
func awaitConfirm(ctx context.Context, dc confirmation, returns <-chan amqp.Return, messageID string) error {
	waitCtx, cancel := context.WithTimeout(ctx, confirmWait)
	defer cancel()

	acked, err := dc.WaitContext(waitCtx)
	if err != nil {
		return fmt.Errorf("await confirm: %w", err)
	}
	if !acked {
		return errors.New("publish nack")
	}

	for {
		select {
		case ret := <-returns:
			if ret.MessageId == messageID {
				return errors.New("NO_ROUTE: " + ret.RoutingKey)
			}
		default:
			return nil
		}
	}
}

// drainReturns drops returns left over from publishes whose confirm wait timed out.
func drainReturns(returns <-chan amqp.Return) {
	for {
		select {
		case <-returns:
		default:
			return
		}
	}
}

func encodeBody(payload any) ([]byte, string, error) {
	if payload == nil {
		return nil, "", errors.New("missing payload")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("marshal payload: %w", err)
	}

	var head struct {
		MessageID string `json:"message_id"`
	}
	_ = json.Unmarshal(body, &head)
	if strings.TrimSpace(head.MessageID) == "" {
		head.MessageID = uuid.NewString()
	}
	return body, head.MessageID, nil
}
