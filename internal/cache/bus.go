package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/logger"
)

const DefaultInvalidationSubject = "ff-card.cache.invalidate"

type invalidationMessage struct {
	CardID string `json:"cardId"`
	Origin string `json:"origin"`
}

// InvalidationBus fans cache invalidations out to peer instances over NATS core pub/sub.
// Delivery is at-most-once; a peer that misses a message serves stale data until the TTL expires.
type InvalidationBus struct {
	conn    adapter.NatsConn
	subject string
	origin  string
	json    adapter.JSON
}

// NewInvalidationBus creates a bus with a random origin id for this instance
func NewInvalidationBus(conn adapter.NatsConn, subject string, json adapter.JSON) *InvalidationBus {
	if subject == "" {
		subject = DefaultInvalidationSubject
	}
	return &InvalidationBus{
		conn:    conn,
		subject: subject,
		origin:  uuid.NewString(),
		json:    json,
	}
}

// Origin returns the id this instance stamps on its own messages
func (b *InvalidationBus) Origin() string {
	return b.origin
}

func (b *InvalidationBus) Broadcast(cardID string) error {
	data, err := b.json.Marshal(invalidationMessage{CardID: cardID, Origin: b.origin})
	if err != nil {
		return fmt.Errorf("failed to encode invalidation: %w", err)
	}
	return b.conn.Publish(b.subject, data)
}

// Listen applies invalidations published by other instances to target
func (b *InvalidationBus) Listen(ctx context.Context, target ReadCache) (adapter.NatsSubscription, error) {
	sub, err := b.conn.Subscribe(b.subject, func(data []byte) {
		var msg invalidationMessage
		if err := b.json.Unmarshal(data, &msg); err != nil {
			logger.WarnCtx(ctx, "Dropping malformed invalidation message", zap.Error(err))
			return
		}
		if msg.Origin == b.origin {
			return
		}
		_ = target.ApplyRemoteInvalidation(ctx, msg.CardID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.subject, err)
	}

	logger.InfoCtx(ctx, "Listening for cache invalidations", zap.String("subject", b.subject), zap.String("origin", b.origin))
	return sub, nil
}
