package adapter

import (
	"github.com/nats-io/nats.go"
)

// NatsConn is the core pub/sub subset of a NATS connection
//
//go:generate mockgen -source=nats.go -destination=../mocks/nats.go -package=mocks -mock_names=NatsConn=MockNatsConn
type NatsConn interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (NatsSubscription, error)
	Drain() error
	Close()
}

// NatsSubscription defines an interface for NATS subscriptions to enable mocking
//
//go:generate mockgen -source=nats.go -destination=../mocks/nats.go -package=mocks -mock_names=NatsSubscription=MockNatsSubscription
type NatsSubscription interface {
	Unsubscribe() error
}

// NatsConnector defines an interface for creating NATS connections
//
//go:generate mockgen -source=nats.go -destination=../mocks/nats.go -package=mocks -mock_names=NatsConnector=MockNatsConnector
type NatsConnector interface {
	Connect(url string, options ...nats.Option) (NatsConn, error)
}

// RealNatsConnector implements NatsConnector using the standard nats package
type RealNatsConnector struct{}

// NewNatsConnector creates a new real NATS connector
func NewNatsConnector() NatsConnector {
	return &RealNatsConnector{}
}

func (n *RealNatsConnector) Connect(url string, options ...nats.Option) (NatsConn, error) {
	nc, err := nats.Connect(url, options...)
	if err != nil {
		return nil, err
	}
	return &natsConnAdapter{conn: nc}, nil
}

// natsConnAdapter hides *nats.Msg behind a plain payload callback
type natsConnAdapter struct {
	conn *nats.Conn
}

func (a *natsConnAdapter) Publish(subject string, data []byte) error {
	return a.conn.Publish(subject, data)
}

func (a *natsConnAdapter) Subscribe(subject string, handler func(data []byte)) (NatsSubscription, error) {
	sub, err := a.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (a *natsConnAdapter) Drain() error {
	return a.conn.Drain()
}

func (a *natsConnAdapter) Close() {
	a.conn.Close()
}
