package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/quizquest/quiz-service/internal/events"
	"github.com/quizquest/quiz-service/internal/models"
	"github.com/quizquest/quiz-service/internal/repositories"
)

type auditService struct {
	repo      repositories.Repository
	publisher events.Publisher
	logger    *slog.Logger
}

func NewAuditService(repo repositories.Repository, publisher events.Publisher, logger *slog.Logger) AuditService {
	return &auditService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Record publishes the entry onto the audit bus. Failures are logged, not
// surfaced: auditing never fails the request that triggered it.
func (s *auditService) Record(ctx context.Context, entry AuditEntry) {
	event := &events.AuditEvent{
		ID:         uuid.NewString(),
		OccurredAt: time.Now(),
		UserID:     entry.UserID,
		Action:     entry.Action,
		ModelName:  entry.ModelName,
		ObjectID:   entry.ObjectID,
		Details:    entry.Details,
		IPAddress:  entry.Meta.IPAddress,
		UserAgent:  entry.Meta.UserAgent,
		Metadata:   entry.Metadata,
	}

	if err := s.publisher.PublishAudit(ctx, event); err != nil {
		s.logger.Warn("failed to publish audit event",
			"action", entry.Action,
			"model", entry.ModelName,
			"error", err)
	}
}

func (s *auditService) Persist(ctx context.Context, event *events.AuditEvent) error {
	entry := &models.AuditLog{
		UserID:    event.UserID,
		Action:    event.Action,
		ModelName: event.ModelName,
		ObjectID:  event.ObjectID,
		Details:   event.Details,
		IPAddress: event.IPAddress,
		UserAgent: event.UserAgent,
		CreatedAt: event.OccurredAt,
	}

	if len(event.Metadata) > 0 {
		raw, err := json.Marshal(event.Metadata)
		if err != nil {
			s.logger.Warn("failed to marshal audit metadata", "event_id", event.ID, "error", err)
		} else {
			entry.Metadata = datatypes.JSON(raw)
		}
	}

	if err := s.repo.AuditLog().Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to persist audit event %s: %w", event.ID, err)
	}
	return nil
}

func (s *auditService) List(ctx context.Context, filters repositories.AuditLogFilters, actor *models.User) (*AuditLogListResponse, error) {
	if !actor.Role.Can(models.ActionViewAuditLog) {
		return nil, NewPermissionError(actor.ID, 0, "audit_log", "list", "admin role required")
	}

	entries, total, err := s.repo.AuditLog().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	size := filters.Limit
	if size <= 0 {
		size = 10
	}
	page := (filters.Offset / size) + 1

	return &AuditLogListResponse{
		Entries: entries,
		Total:   total,
		Page:    page,
		Size:    size,
	}, nil
}
