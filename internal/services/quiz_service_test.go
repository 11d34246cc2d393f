package services

import (
	"context"
	"errors"
	"testing"

	"github.com/quizquest/quiz-service/internal/events"
	"github.com/quizquest/quiz-service/internal/models"
	"github.com/quizquest/quiz-service/internal/validator"
)

func newQuizFixture(t *testing.T) (QuizService, *mockRepository, *events.MockEventPublisher) {
	t.Helper()

	repo := newMockRepository()
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	audit := NewAuditService(repo, publisher, logger)
	return NewQuizService(repo, audit, logger, validator.New()), repo, publisher
}

func adminUser() *models.User {
	return &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}
}

func standardUser() *models.User {
	return &models.User{ID: 2, Username: "student", Role: models.RoleStandard}
}

func TestCreateQuizWithQuestions(t *testing.T) {
	svc, _, publisher := newQuizFixture(t)

	quiz, err := svc.Create(context.Background(), &CreateQuizRequest{
		Title: "Capitals",
		Questions: []QuizQuestionRequest{
			{
				Content: "Capital of France?",
				Points:  1,
				Choices: []ChoiceRequest{
					{Text: "Paris", IsCorrect: true},
					{Text: "Lyon"},
				},
			},
		},
	}, adminUser(), RequestMeta{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if quiz.ID == 0 {
		t.Error("quiz got no id")
	}
	if !quiz.IsActive {
		t.Error("new quiz should be active")
	}
	if len(quiz.Questions) != 1 || len(quiz.Questions[0].Choices) != 2 {
		t.Fatalf("unexpected shape: %+v", quiz.Questions)
	}

	recorded := publisher.GetPublishedEvents()
	if len(recorded) != 1 || recorded[0].ModelName != "Quiz" {
		t.Errorf("audit events = %+v, want one quiz create", recorded)
	}
}

func TestCreateQuizForbiddenForStandardUser(t *testing.T) {
	svc, _, _ := newQuizFixture(t)

	_, err := svc.Create(context.Background(), &CreateQuizRequest{Title: "Nope"}, standardUser(), RequestMeta{})
	if !IsPermissionError(err) {
		t.Fatalf("err = %v, want PermissionError", err)
	}
}

func TestCreateQuizValidation(t *testing.T) {
	svc, _, _ := newQuizFixture(t)

	_, err := svc.Create(context.Background(), &CreateQuizRequest{}, adminUser(), RequestMeta{})
	if !IsValidationError(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestGetForTakingHidesCorrectness(t *testing.T) {
	svc, repo, _ := newQuizFixture(t)
	quiz := seedMathQuiz(t, repo)

	resp, err := svc.GetForTaking(context.Background(), quiz.ID)
	if err != nil {
		t.Fatalf("GetForTaking: %v", err)
	}
	if resp.QuizID != quiz.ID || len(resp.Questions) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	for _, q := range resp.Questions {
		if len(q.Choices) != 2 {
			t.Errorf("question %d choices = %d, want 2", q.ID, len(q.Choices))
		}
	}
}

func TestGetForTakingSkipsInactiveQuestions(t *testing.T) {
	svc, repo, _ := newQuizFixture(t)
	quiz := seedMathQuiz(t, repo)

	if err := repo.Question().SetActive(context.Background(), quiz.Questions[1].ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	resp, err := svc.GetForTaking(context.Background(), quiz.ID)
	if err != nil {
		t.Fatalf("GetForTaking: %v", err)
	}
	if len(resp.Questions) != 1 {
		t.Errorf("questions = %d, want 1", len(resp.Questions))
	}
}

func TestUpdateQuiz(t *testing.T) {
	svc, repo, _ := newQuizFixture(t)
	quiz := seedMathQuiz(t, repo)

	title := "Math Basics v2"
	updated, err := svc.Update(context.Background(), quiz.ID, &UpdateQuizRequest{Title: &title}, adminUser(), RequestMeta{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != title {
		t.Errorf("title = %q, want %q", updated.Title, title)
	}
}

func TestDeleteQuizIsSoft(t *testing.T) {
	svc, repo, _ := newQuizFixture(t)
	quiz := seedMathQuiz(t, repo)

	if err := svc.Delete(context.Background(), quiz.ID, adminUser(), RequestMeta{}); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// Row survives, but the quiz no longer lists or loads for taking.
	stored, err := repo.Quiz().GetByID(context.Background(), quiz.ID)
	if err != nil {
		t.Fatalf("GetByID after delete: %v", err)
	}
	if stored.IsActive {
		t.Error("quiz still active after delete")
	}

	if _, err := svc.GetForTaking(context.Background(), quiz.ID); !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("GetForTaking err = %v, want ErrQuizNotFound", err)
	}

	listed, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	for _, q := range listed {
		if q.ID == quiz.ID {
			t.Error("deleted quiz still listed")
		}
	}
}

func TestDeleteQuizForbiddenForStandardUser(t *testing.T) {
	svc, repo, _ := newQuizFixture(t)
	quiz := seedMathQuiz(t, repo)

	if err := svc.Delete(context.Background(), quiz.ID, standardUser(), RequestMeta{}); !IsPermissionError(err) {
		t.Fatalf("err = %v, want PermissionError", err)
	}
}
