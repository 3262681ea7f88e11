// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ChangesTopic carries session change events.
const ChangesTopic = "session.changes"

// Bus is an in-process change bus. Publish returns once every subscriber has
// acknowledged the event, so a handler's side effects are visible to the
// publisher afterwards.
type Bus struct {
	pubSub *gochannel.GoChannel
}

// NewBus creates a bus. logger may be nil.
func NewBus(logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{BlockPublishUntilSubscriberAck: true}, logger),
	}
}

// Publish sends ev to all subscribers.
func (b *Bus) Publish(_ context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubSub.Publish(ChangesTopic, msg); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// Subscribe runs handle for every event until ctx ends or the bus closes.
// Events are acked after handle returns, whatever its result.
func (b *Bus) Subscribe(ctx context.Context, handle func(context.Context, Event)) error {
	messages, err := b.pubSub.Subscribe(ctx, ChangesTopic)
	if err != nil {
		return err
	}
	go func() {
		for msg := range messages {
			var ev Event
			if err := json.Unmarshal(msg.Payload, &ev); err == nil {
				handle(msg.Context(), ev)
			}
			msg.Ack()
		}
	}()
	return nil
}

// Close stops all subscriptions.
func (b *Bus) Close() error { return b.pubSub.Close() }
