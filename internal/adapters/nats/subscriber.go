package natsadapter

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geonotes/internal/core/ports"
)

// Subscriber implements ports.EventSubscriber. It uses a plain (non-durable)
// subscription so every replica receives every event.
type Subscriber struct {
	conn *nats.Conn
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber on an existing connection.
func NewSubscriber(conn *nats.Conn) *Subscriber {
	return &Subscriber{conn: conn}
}

func (s *Subscriber) SubscribeGeoEvents(ctx context.Context, handler func(ctx context.Context, ev ports.GeoEvent) error) error {
	sub, err := s.conn.Subscribe(SubjectAll, func(msg *nats.Msg) {
		ev, err := DecodeEvent(msg.Subject, msg.Data)
		if err != nil {
			slog.Warn("dropping undecodable geo event", "subject", msg.Subject, "error", err)
			return
		}
		if err := handler(ctx, ev); err != nil {
			slog.Warn("geo event handler failed", "subject", msg.Subject, "id", ev.ID, "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes. The connection is owned by the caller.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
}
