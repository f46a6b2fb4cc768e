package mq

import (
	"context"
	"encoding/json"
	"log"

	"villapik/models"
	"villapik/rdx"
)

// Channel carrying entity change events. The live hub subscribes to it so
// admin pages self-update on remote change.
const EventsChannel = "entity-events"

// Emit publishes an entity change event to Redis.
func Emit(ctx context.Context, eventName string, content models.Index) {
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, EventsChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s to Redis: %v", eventName, err)
		return
	}
}

// Subscribe returns a channel of decoded entity events.
func Subscribe(ctx context.Context) <-chan models.Index {
	sub := rdx.Conn.Subscribe(ctx, EventsChannel)
	out := make(chan models.Index)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var event models.Index
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("[Subscribe] Failed to parse event: %v", err)
				continue
			}
			select {
			case out <- event:
			case <-ctx.Done():
				sub.Close()
				return
			}
		}
	}()

	return out
}
