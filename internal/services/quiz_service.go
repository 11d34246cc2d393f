package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quizquest/quiz-service/internal/models"
	"github.com/quizquest/quiz-service/internal/repositories"
	"github.com/quizquest/quiz-service/internal/validator"
)

type quizService struct {
	repo      repositories.Repository
	audit     AuditService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuizService(repo repositories.Repository, audit AuditService, logger *slog.Logger, v *validator.Validator) QuizService {
	return &quizService{
		repo:      repo,
		audit:     audit,
		logger:    logger,
		validator: v,
	}
}

func (s *quizService) ListActive(ctx context.Context) ([]*models.Quiz, error) {
	quizzes, err := s.repo.Quiz().ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}

// GetForTaking returns the quiz with its active questions and choices,
// stripped of correctness flags so the payload is safe to hand to a taker.
func (s *quizService) GetForTaking(ctx context.Context, quizID uint) (*TakeQuizResponse, error) {
	quiz, err := s.repo.Quiz().GetActiveWithQuestions(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}

	resp := &TakeQuizResponse{
		QuizID:      quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
	}
	for _, question := range quiz.Questions {
		q := QuestionForTaking{
			ID:      question.ID,
			Content: question.Content,
			Points:  question.Points,
		}
		for _, choice := range question.Choices {
			q.Choices = append(q.Choices, ChoiceForTaking{
				ID:   choice.ID,
				Text: choice.Text,
			})
		}
		resp.Questions = append(resp.Questions, q)
	}

	return resp, nil
}

func (s *quizService) Create(ctx context.Context, req *CreateQuizRequest, actor *models.User, meta RequestMeta) (*models.Quiz, error) {
	if !actor.Role.Can(models.ActionAuthorContent) {
		return nil, NewPermissionError(actor.ID, 0, "quiz", "create", "admin role required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	quiz := &models.Quiz{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    true,
		CreatedBy:   &actor.ID,
	}
	for _, qr := range req.Questions {
		question := models.Question{
			Content:    qr.Content,
			Points:     qr.Points,
			Difficulty: qr.Difficulty,
			Category:   qr.Category,
			IsActive:   true,
		}
		if question.Difficulty == "" {
			question.Difficulty = models.DifficultyMedium
		}
		for _, cr := range qr.Choices {
			question.Choices = append(question.Choices, models.Choice{
				Text:      cr.Text,
				IsCorrect: cr.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := s.repo.Quiz().Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	s.logger.Info("quiz created", "quiz_id", quiz.ID, "user_id", actor.ID)
	s.audit.Record(ctx, AuditEntry{
		UserID:    &actor.ID,
		Action:    models.AuditCreate,
		ModelName: "Quiz",
		ObjectID:  &quiz.ID,
		Details:   fmt.Sprintf("created quiz %q", quiz.Title),
		Meta:      meta,
	})

	return quiz, nil
}

func (s *quizService) Update(ctx context.Context, quizID uint, req *UpdateQuizRequest, actor *models.User, meta RequestMeta) (*models.Quiz, error) {
	if !actor.Role.Can(models.ActionAuthorContent) {
		return nil, NewPermissionError(actor.ID, quizID, "quiz", "update", "admin role required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = req.Description
	}
	if req.IsActive != nil {
		quiz.IsActive = *req.IsActive
	}

	if err := s.repo.Quiz().Update(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		UserID:    &actor.ID,
		Action:    models.AuditUpdate,
		ModelName: "Quiz",
		ObjectID:  &quiz.ID,
		Details:   fmt.Sprintf("updated quiz %q", quiz.Title),
		Meta:      meta,
	})

	return quiz, nil
}

// Delete deactivates the quiz. Submissions referencing it survive; the quiz
// simply stops being listed or takeable.
func (s *quizService) Delete(ctx context.Context, quizID uint, actor *models.User, meta RequestMeta) error {
	if !actor.Role.Can(models.ActionDeleteContent) {
		return NewPermissionError(actor.ID, quizID, "quiz", "delete", "admin role required")
	}

	if err := s.repo.Quiz().SetActive(ctx, quizID, false); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to deactivate quiz: %w", err)
	}

	s.logger.Info("quiz deactivated", "quiz_id", quizID, "user_id", actor.ID)
	s.audit.Record(ctx, AuditEntry{
		UserID:    &actor.ID,
		Action:    models.AuditDelete,
		ModelName: "Quiz",
		ObjectID:  &quizID,
		Details:   "deactivated quiz",
		Meta:      meta,
	})

	return nil
}
