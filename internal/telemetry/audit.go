package telemetry

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// AuditEmitter publishes audit records for gateway actions. Multi-step
// sequences (friend accept/reject, message fan-out) are not transactional,
// so every step carries one correlation id to make partial failures
// diagnosable.
type AuditEmitter struct {
	publisher   Publisher
	routingKey  string
	service     string
	environment string
	logger      *zap.SugaredLogger
}

type AuditEnvelope struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	OccurredAt    string       `json:"occurred_at"`
	Service       string       `json:"service"`
	Environment   string       `json:"environment"`
	CorrelationID string       `json:"correlation_id"`
	UserID        *string      `json:"user_id,omitempty"`
	Payload       AuditPayload `json:"payload"`
}

type AuditPayload struct {
	Level string `json:"level"`
	Step  string `json:"step"`
	Text  string `json:"text"`
}

func NewAuditEmitter(publisher Publisher, routingKey, service, environment string, logger *zap.SugaredLogger) *AuditEmitter {
	return &AuditEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		service:     service,
		environment: environment,
		logger:      logger,
	}
}

// Emit records one step of a gateway sequence under its correlation id.
func (e *AuditEmitter) Emit(ctx context.Context, level, step, text, correlationID string, userID int) {
	if e == nil || e.publisher == nil {
		return
	}

	e.logger.Infow("audit emit", "level", level, "step", step, "correlation_id", correlationID, "user_id", userID, "text", text)

	var uid *string
	if userID != 0 {
		s := strconv.Itoa(userID)
		uid = &s
	}
	envelope := AuditEnvelope{
		SchemaVersion: 1,
		EventType:     "audit_log",
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		CorrelationID: correlationID,
		UserID:        uid,
		Payload: AuditPayload{
			Level: level,
			Step:  step,
			Text:  text,
		},
	}

	if err := e.publisher.Publish(ctx, e.routingKey, envelope); err != nil {
		e.logger.Warnw("audit publish failed", "error", err)
	}
}
