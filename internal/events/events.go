package events

import (
	"context"
	"time"

	"github.com/quizquest/quiz-service/internal/models"
)

// TopicAuditRecorded carries every audit event in the system.
const TopicAuditRecorded = "audit.recorded"

// AuditEvent is the wire form of one audit log entry. Producers publish it,
// the persister consumes it into the audit_logs table, and Kafka (when
// configured) mirrors it for downstream consumers.
type AuditEvent struct {
	ID         string             `json:"id"`
	OccurredAt time.Time          `json:"occurred_at"`
	UserID     *uint              `json:"user_id,omitempty"`
	Action     models.AuditAction `json:"action"`
	ModelName  string             `json:"model_name"`
	ObjectID   *uint              `json:"object_id,omitempty"`
	Details    string             `json:"details"`
	IPAddress  *string            `json:"ip_address,omitempty"`
	UserAgent  string             `json:"user_agent"`
	Metadata   map[string]any     `json:"metadata,omitempty"`
}

// Publisher is the producer side of the audit bus.
type Publisher interface {
	PublishAudit(ctx context.Context, event *AuditEvent) error
	Close() error
}
