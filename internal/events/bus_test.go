package events

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quizquest/quiz-service/internal/config"
	"github.com/quizquest/quiz-service/internal/models"
)

func testBus(t *testing.T) *Bus {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	bus, err := NewBus(&config.Config{AuditTopic: "quizquest.audit"}, logger)
	if err != nil {
		t.Fatalf("NewBus failed: %v", err)
	}
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

func TestBus_PublishDeliversToSubscriber(t *testing.T) {
	bus := testBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *AuditEvent, 1)
	err := bus.SubscribeAudit(ctx, func(_ context.Context, event *AuditEvent) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("SubscribeAudit failed: %v", err)
	}

	userID := uint(3)
	event := &AuditEvent{
		ID:         uuid.NewString(),
		OccurredAt: time.Now(),
		UserID:     &userID,
		Action:     models.AuditLogin,
		ModelName:  "User",
		Details:    "user alice logged in",
		UserAgent:  "test-agent",
	}
	if err := bus.PublishAudit(ctx, event); err != nil {
		t.Fatalf("PublishAudit failed: %v", err)
	}

	select {
	case got := <-received:
		if got.ID != event.ID {
			t.Errorf("expected event id %s, got %s", event.ID, got.ID)
		}
		if got.Action != models.AuditLogin {
			t.Errorf("expected login action, got %s", got.Action)
		}
		if got.UserID == nil || *got.UserID != 3 {
			t.Errorf("expected user 3, got %v", got.UserID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit event")
	}
}

func TestMockEventPublisher_CapturesEvents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	mock := NewMockEventPublisher(logger)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := mock.PublishAudit(ctx, &AuditEvent{
			ID:     uuid.NewString(),
			Action: models.AuditCreate,
		})
		if err != nil {
			t.Fatalf("PublishAudit failed: %v", err)
		}
	}

	if got := len(mock.GetPublishedEvents()); got != 3 {
		t.Errorf("expected 3 events, got %d", got)
	}

	mock.ClearEvents()
	if got := len(mock.GetPublishedEvents()); got != 0 {
		t.Errorf("expected 0 events after clear, got %d", got)
	}
}
