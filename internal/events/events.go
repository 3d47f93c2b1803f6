// Package events publishes a summary of every committed state to the
// message broker.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"habitflow/internal/model"
	"habitflow/pkg/circuitbreaker"
	"habitflow/pkg/logger"
	"habitflow/pkg/metrics"
)

const StateCommitted = "habit.state.committed"

// Publisher is satisfied by *mq.Publisher.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Event is the envelope every message is wrapped in.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

func NewEvent(eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}, nil
}

type StateCommittedPayload struct {
	Habits        int              `json:"habits"`
	ActiveHabits  int              `json:"activeHabits"`
	Logs          int              `json:"logs"`
	SelectedRange *model.DateRange `json:"selectedRange,omitempty"`
}

func Summarize(st model.State) StateCommittedPayload {
	p := StateCommittedPayload{
		Habits:        len(st.Nodes.Items),
		Logs:          len(st.HabitLogs.Items),
		SelectedRange: st.HabitLogs.SelectedRange,
	}
	for _, h := range st.Nodes.Items {
		if h.IsActive() {
			p.ActiveHabits++
		}
	}
	return p
}

// CommitNotifier publishes StateCommitted after each commit. While the broker
// keeps failing the breaker short-circuits publishing.
type CommitNotifier struct {
	pub     Publisher
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
	logger  *zap.Logger
}

func NewCommitNotifier(pub Publisher, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *CommitNotifier {
	if breaker == nil {
		breaker = circuitbreaker.New(circuitbreaker.DefaultConfig())
	}
	return &CommitNotifier{pub: pub, breaker: breaker, timeout: 2 * time.Second, logger: logger}
}

// Hook matches the store commit hook signature.
func (n *CommitNotifier) Hook(ctx context.Context, st model.State) error {
	evt, err := NewEvent(StateCommitted, Summarize(st))
	if err != nil {
		metrics.IncrementEventPublish("error")
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	err = n.breaker.Execute(func() error {
		return n.pub.Publish(ctx, StateCommitted, evt)
	})
	switch {
	case errors.Is(err, circuitbreaker.ErrOpen):
		metrics.IncrementEventPublish("skipped")
		return nil
	case err != nil:
		metrics.IncrementEventPublish("error")
		return fmt.Errorf("publish %s: %w", StateCommitted, err)
	}

	metrics.IncrementEventPublish("success")
	logger.WithTrace(ctx, n.logger).Debug("Published state event",
		zap.String("event_id", evt.ID),
	)
	return nil
}
