package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/casuse/website-backend/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

// conn is the part of *nats.Conn the bus needs.
type conn interface {
	Publish(subject string, data []byte) error
	Close()
}

type NATSEventBus struct {
	conn conn
	log  *zap.Logger
}

func NewNATSEventBus(url string, log *zap.Logger) (*NATSEventBus, error) {
	nc, err := nats.Connect(url,
		nats.Name("website-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSEventBus{conn: nc, log: log}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.WithContext(ctx, n.log).Debug("publishing event", zap.String("subject", subject))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// NoopPublisher is used when no event bus is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NoopPublisher) Close() error                                       { return nil }

const (
	CustomerRegistered  = "website.customer.registered"
	CustomerPasswordSet = "website.customer.password_set"
)

// Payloads never carry the registration token value.
type CustomerRegisteredEvent struct {
	CustomerID   string    `json:"customer_id"`
	Email        string    `json:"email"`
	CustomerType string    `json:"customer_type"`
	RegisteredAt time.Time `json:"registered_at"`
}

type CustomerPasswordSetEvent struct {
	CustomerID string    `json:"customer_id"`
	Email      string    `json:"email"`
	SetAt      time.Time `json:"set_at"`
}
