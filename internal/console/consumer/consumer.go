// Package consumer turns dispatch events into stale notices for open
// console screens. Sessions react by sending a refresh command.
package consumer

import (
	"context"
	"encoding/json"
	"strings"

	"dispatch-console/internal/console/service"
	"dispatch-console/pkg/logger"
	"dispatch-console/pkg/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Subscriber starts a queue consumer. *rabbitmq.Connection satisfies it.
type Subscriber interface {
	Consume(ctx context.Context, queue string, handler rabbitmq.Handler)
}

// Notifier delivers a message to every session showing screen.
type Notifier interface {
	NotifyScreen(screen string, message interface{}) int
}

type StaleNotice struct {
	Type   string `json:"type"`
	Screen string `json:"screen"`
	Event  string `json:"event"`
	RowID  string `json:"row_id,omitempty"`
}

type eventBody struct {
	ID       string `json:"id"`
	DriverID string `json:"driver_id"`
	RideID   string `json:"ride_id"`
}

type Consumer struct {
	sub      Subscriber
	notifier Notifier
	log      logger.Logger
}

func New(sub Subscriber, notifier Notifier, log logger.Logger) *Consumer {
	return &Consumer{sub: sub, notifier: notifier, log: log}
}

// Start consumes the console refresh queue until ctx is done.
func (c *Consumer) Start(ctx context.Context) {
	c.log.WithFields(logger.LogFields{"queue": rabbitmq.ConsoleRefreshQueue}).Info("consumer_starting", "Starting console refresh consumer")
	c.sub.Consume(ctx, rabbitmq.ConsoleRefreshQueue, func(_ context.Context, msg amqp.Delivery) {
		c.Notify(msg.RoutingKey, msg.Body)
		msg.Ack(false)
	})
}

// Notify sends a stale notice to the screens affected by routingKey and
// returns how many sessions received one.
func (c *Consumer) Notify(routingKey string, body []byte) int {
	screens := ScreensFor(routingKey)
	if len(screens) == 0 {
		c.log.WithFields(logger.LogFields{"routing_key": routingKey}).Debug("event_ignored", "No screen shows this event")
		return 0
	}

	var ev eventBody
	if err := json.Unmarshal(body, &ev); err != nil {
		c.log.WithFields(logger.LogFields{"routing_key": routingKey}).Warn("unmarshal_event_failed", err.Error())
	}

	sent := 0
	for _, screen := range screens {
		notice := StaleNotice{Type: "stale", Screen: screen, Event: routingKey, RowID: rowID(screen, ev)}
		sent += c.notifier.NotifyScreen(screen, notice)
	}
	c.log.WithFields(logger.LogFields{
		"routing_key": routingKey,
		"sessions":    sent,
	}).Debug("stale_notice_sent", "Stale notice delivered")
	return sent
}

// ScreensFor maps an event routing key to the screens listing the changed
// rows. fleet.changed.<screen> names the screen directly.
func ScreensFor(routingKey string) []string {
	parts := strings.Split(routingKey, ".")
	if len(parts) < 2 {
		return nil
	}
	switch parts[0] + "." + parts[1] {
	case "driver.status":
		return []string{service.ScreenDrivers, service.ScreenBookings}
	case "ride.status":
		return []string{service.ScreenBookings}
	case "fleet.changed":
		if len(parts) != 3 {
			return nil
		}
		switch parts[2] {
		case service.ScreenDrivers, service.ScreenUsers, service.ScreenFares, service.ScreenPromos, service.ScreenBookings:
			return []string{parts[2]}
		}
	}
	return nil
}

func rowID(screen string, ev eventBody) string {
	switch {
	case screen == service.ScreenDrivers && ev.DriverID != "":
		return ev.DriverID
	case screen == service.ScreenBookings && ev.RideID != "":
		return ev.RideID
	}
	return ev.ID
}
