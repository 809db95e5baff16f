package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/gestor-labs/be-case-tracking/internal/logger"
	"github.com/gestor-labs/be-case-tracking/internal/service"
)

// TransitionPublisher publishes committed case transitions to NATS for
// consumption by downstream services (notifications, reporting).
//
// Subject: notifications.cases.transition_applied
//
// All publish operations are non-fatal — errors are logged but never
// propagated, so broker trouble never interrupts a transition.
type TransitionPublisher struct {
	conn *nats.Conn
	log  *logger.Logger
}

// TransitionMessage is the JSON schema published to NATS.
type TransitionMessage struct {
	MessageID   string    `json:"messageId"`
	EventID     int64     `json:"eventId"`
	CaseID      int64     `json:"caseId"`
	CaseName    string    `json:"caseName"`
	FromStateID int64     `json:"fromStateId"`
	ToStateID   int64     `json:"toStateId"`
	StateName   string    `json:"stateName"`
	ActorID     *int64    `json:"actorId,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

const transitionSubject = "notifications.cases.transition_applied"

// NewTransitionPublisher connects to NATS. An empty URL returns a disabled
// publisher whose methods are no-ops.
func NewTransitionPublisher(url, serviceName string, log *logger.Logger) (*TransitionPublisher, error) {
	if url == "" {
		return &TransitionPublisher{log: log}, nil
	}

	conn, err := nats.Connect(url,
		nats.Name(serviceName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &TransitionPublisher{conn: conn, log: log}, nil
}

// Close drains the connection.
func (p *TransitionPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

// PublishTransition publishes one committed transition. Implements
// service.Notifier.
func (p *TransitionPublisher) PublishTransition(ctx context.Context, n service.TransitionNotification) {
	if p.conn == nil {
		return
	}

	msg := TransitionMessage{
		MessageID:   uuid.NewString(),
		EventID:     n.EventID,
		CaseID:      n.CaseID,
		CaseName:    n.CaseName,
		FromStateID: n.FromStateID,
		ToStateID:   n.ToStateID,
		StateName:   n.StateName,
		ActorID:     n.ActorID,
		Timestamp:   n.Timestamp,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		p.log.Warn().Err(err).Int64("case_id", n.CaseID).Msg("notification: failed to marshal transition")
		return
	}

	if err := p.conn.Publish(transitionSubject, data); err != nil {
		p.log.Warn().Err(err).
			Str("subject", transitionSubject).
			Int64("case_id", n.CaseID).
			Msg("notification: failed to publish transition (non-fatal)")
		return
	}

	p.log.Debug().
		Str("subject", transitionSubject).
		Int64("case_id", n.CaseID).
		Int64("event_id", n.EventID).
		Msg("notification: transition published")
}
