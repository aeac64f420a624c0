package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch-console/internal/console/domain"
	"dispatch-console/pkg/auth"
	"dispatch-console/pkg/logger"

	"github.com/google/uuid"
)

const (
	NotificationExchange = "notification_topic"
	broadcastKeyPrefix   = "sms.broadcast."
)

var (
	ErrEmptyMessage = errors.New("broadcast message is empty")
	ErrNoRecipients = errors.New("no reachable rows selected")
)

// Publisher sends a message to an exchange. The rabbitmq connection
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte) error
}

// SMSBroadcast is published once per broadcast command.
type SMSBroadcast struct {
	BroadcastID string   `json:"broadcast_id"`
	Screen      string   `json:"screen"`
	Recipients  []string `json:"recipients"`
	Message     string   `json:"message"`
	RequestedBy string   `json:"requested_by,omitempty"`
	RequestedAt string   `json:"requested_at"`
}

type BroadcastResult struct {
	BroadcastID string `json:"broadcast_id"`
	Recipients  int    `json:"recipients"`
	Skipped     int    `json:"skipped"`
}

// broadcast queues an SMS to every selected row with a phone number.
// The selection is left as is.
func (s *ListScreen[T, F]) broadcast(ctx context.Context, message string) (BroadcastResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return BroadcastResult{}, ErrEmptyMessage
	}
	if s.deps.Publisher == nil {
		return BroadcastResult{}, fmt.Errorf("broadcast: %w", domain.ErrUnsupported)
	}

	var res BroadcastResult
	var recipients []string
	for _, item := range s.engine.SelectedItems() {
		r, ok := any(item).(domain.Reachable)
		if !ok {
			return BroadcastResult{}, fmt.Errorf("broadcast on %s: %w", s.def.Name, domain.ErrUnsupported)
		}
		if r.PhoneNumber() == "" {
			res.Skipped++
			continue
		}
		recipients = append(recipients, r.PhoneNumber())
	}
	if len(recipients) == 0 {
		return BroadcastResult{}, ErrNoRecipients
	}

	msg := SMSBroadcast{
		BroadcastID: uuid.NewString(),
		Screen:      s.def.Name,
		Recipients:  recipients,
		Message:     message,
		RequestedAt: s.deps.Now().UTC().Format(time.RFC3339),
	}
	if claims, ok := auth.GetClaims(ctx); ok {
		msg.RequestedBy = claims.UserID
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return BroadcastResult{}, fmt.Errorf("marshal broadcast: %w", err)
	}
	if err := s.deps.Publisher.Publish(ctx, NotificationExchange, broadcastKeyPrefix+s.def.Name, body); err != nil {
		return BroadcastResult{}, fmt.Errorf("publish broadcast: %w", err)
	}

	res.BroadcastID = msg.BroadcastID
	res.Recipients = len(recipients)
	s.log.WithFields(logger.LogFields{
		"broadcast_id": msg.BroadcastID,
		"recipients":   res.Recipients,
	}).Info("sms_broadcast_published", "SMS broadcast queued")
	return res, nil
}
