package workers

import (
	"context"
	"encoding/json"
	"log/slog"

	application "atelier/contexts/market-core/marketplace-engine/application"
	"atelier/contexts/market-core/marketplace-engine/ports"
)

// SaleFeedConsumer tails completed sale events off the bus and writes them
// to the structured log. Downstream analytics hang off the same topics, so
// the feed doubles as a liveness probe for event emission.
type SaleFeedConsumer struct {
	Subscriber    ports.EventSubscriber
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c SaleFeedConsumer) Start(ctx context.Context) error {
	for _, topic := range []string{"asset.minted", "asset.sold"} {
		if err := c.Subscriber.Subscribe(ctx, topic, c.ConsumerGroup, c.handle); err != nil {
			return err
		}
	}
	return nil
}

func (c SaleFeedConsumer) handle(_ context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)

	var payload map[string]any
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("sale event payload decode failed",
			"event", "sale_feed_decode_failed",
			"module", "market-core/marketplace-engine",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("sale event observed",
		"event", "sale_feed_event",
		"module", "market-core/marketplace-engine",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"asset_id", payload["asset_id"],
		"trade_id", payload["trade_id"],
	)
	return nil
}
