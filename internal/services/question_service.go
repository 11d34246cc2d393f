package services

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/quizquest/quiz-service/internal/models"
	"github.com/quizquest/quiz-service/internal/repositories"
	"github.com/quizquest/quiz-service/internal/validator"
)

// optionLetters fixes the order in which bank-question options map onto
// choice rows: index 0 is A, 1 is B, and so on.
var optionLetters = []string{"A", "B", "C", "D"}

type questionService struct {
	repo      repositories.Repository
	audit     AuditService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuestionService(repo repositories.Repository, audit AuditService, logger *slog.Logger, v *validator.Validator) QuestionService {
	return &questionService{
		repo:      repo,
		audit:     audit,
		logger:    logger,
		validator: v,
	}
}

func (s *questionService) List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error) {
	questions, total, err := s.repo.Question().ListActive(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	size := filters.Limit
	if size <= 0 {
		size = 10
	}

	return &QuestionListResponse{
		Questions: questions,
		Total:     total,
		Page:      (filters.Offset / size) + 1,
		Size:      size,
	}, nil
}

func (s *questionService) Get(ctx context.Context, questionID uint) (*models.Question, error) {
	question, err := s.repo.Question().GetByIDWithChoices(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	return question, nil
}

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest, actor *models.User, meta RequestMeta) (*models.Question, error) {
	if !actor.Role.Can(models.ActionAuthorContent) {
		return nil, NewPermissionError(actor.ID, 0, "question", "create", "admin role required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question := &models.Question{
		Content:    req.Content,
		Points:     req.Points,
		Difficulty: req.Difficulty,
		Category:   req.Category,
		ImagePath:  req.ImagePath,
		IsActive:   true,
		Choices:    buildChoices(req.OptionA, req.OptionB, req.OptionC, req.OptionD, req.CorrectAnswer),
	}
	if question.Points == 0 {
		question.Points = 1
	}
	if question.Difficulty == "" {
		question.Difficulty = models.DifficultyMedium
	}

	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("question created", "question_id", question.ID, "user_id", actor.ID)
	s.audit.Record(ctx, AuditEntry{
		UserID:    &actor.ID,
		Action:    models.AuditCreate,
		ModelName: "Question",
		ObjectID:  &question.ID,
		Details:   fmt.Sprintf("created question %q", truncate(question.Content, 80)),
		Meta:      meta,
	})

	return question, nil
}

func (s *questionService) Update(ctx context.Context, questionID uint, req *UpdateQuestionRequest, actor *models.User, meta RequestMeta) (*models.Question, error) {
	if !actor.Role.Can(models.ActionAuthorContent) {
		return nil, NewPermissionError(actor.ID, questionID, "question", "update", "admin role required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// The choice rebuild and the question row update land together or not
	// at all.
	var question *models.Question
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		question, err = tx.Question().GetByIDWithChoices(ctx, questionID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrQuestionNotFound
			}
			return fmt.Errorf("failed to load question: %w", err)
		}

		if req.Content != nil {
			question.Content = *req.Content
		}
		if req.Points != nil {
			question.Points = *req.Points
		}
		if req.Difficulty != nil {
			question.Difficulty = *req.Difficulty
		}
		if req.Category != nil {
			question.Category = *req.Category
		}
		if req.ImagePath != nil {
			question.ImagePath = req.ImagePath
		}

		// Any change to the options or the correct letter rebuilds the full
		// choice set, keeping exactly one correct row.
		if req.OptionA != nil || req.OptionB != nil || req.OptionC != nil || req.OptionD != nil || req.CorrectAnswer != nil {
			texts, correct := currentOptions(question)
			if req.OptionA != nil {
				texts[0] = *req.OptionA
			}
			if req.OptionB != nil {
				texts[1] = *req.OptionB
			}
			if req.OptionC != nil {
				texts[2] = *req.OptionC
			}
			if req.OptionD != nil {
				texts[3] = *req.OptionD
			}
			if req.CorrectAnswer != nil {
				correct = *req.CorrectAnswer
			}
			choices := buildChoices(texts[0], texts[1], texts[2], texts[3], correct)
			if err := tx.Question().ReplaceChoices(ctx, question.ID, choices); err != nil {
				return fmt.Errorf("failed to replace choices: %w", err)
			}
			question.Choices = choices
		}

		if err := tx.Question().Update(ctx, question); err != nil {
			return fmt.Errorf("failed to update question: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		UserID:    &actor.ID,
		Action:    models.AuditUpdate,
		ModelName: "Question",
		ObjectID:  &question.ID,
		Details:   fmt.Sprintf("updated question %q", truncate(question.Content, 80)),
		Meta:      meta,
	})

	return question, nil
}

func (s *questionService) Delete(ctx context.Context, questionID uint, actor *models.User, meta RequestMeta) error {
	if !actor.Role.Can(models.ActionDeleteContent) {
		return NewPermissionError(actor.ID, questionID, "question", "delete", "admin role required")
	}

	if err := s.repo.Question().SetActive(ctx, questionID, false); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to deactivate question: %w", err)
	}

	s.logger.Info("question deactivated", "question_id", questionID, "user_id", actor.ID)
	s.audit.Record(ctx, AuditEntry{
		UserID:    &actor.ID,
		Action:    models.AuditDelete,
		ModelName: "Question",
		ObjectID:  &questionID,
		Details:   "deactivated question",
		Meta:      meta,
	})

	return nil
}

func (s *questionService) AttachToQuiz(ctx context.Context, questionID, quizID uint, actor *models.User, meta RequestMeta) error {
	if !actor.Role.Can(models.ActionAuthorContent) {
		return NewPermissionError(actor.ID, questionID, "question", "attach", "admin role required")
	}

	if _, err := s.repo.Quiz().GetByID(ctx, quizID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to load quiz: %w", err)
	}

	if err := s.repo.Question().AttachToQuiz(ctx, questionID, quizID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to attach question: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		UserID:    &actor.ID,
		Action:    models.AuditUpdate,
		ModelName: "Question",
		ObjectID:  &questionID,
		Details:   fmt.Sprintf("attached question to quiz %d", quizID),
		Meta:      meta,
	})

	return nil
}

// buildChoices materializes the four lettered options as choice rows. The
// row matching correctLetter is the single correct one.
func buildChoices(a, b, c, d, correctLetter string) []models.Choice {
	texts := []string{a, b, c, d}
	choices := make([]models.Choice, 0, len(texts))
	for i, text := range texts {
		choices = append(choices, models.Choice{
			Text:      text,
			IsCorrect: optionLetters[i] == correctLetter,
		})
	}
	return choices
}

// currentOptions recovers the lettered option texts and correct letter from
// a question's existing choice rows.
func currentOptions(question *models.Question) ([4]string, string) {
	var texts [4]string
	correct := "A"
	for i, choice := range question.Choices {
		if i >= len(optionLetters) {
			break
		}
		texts[i] = choice.Text
		if choice.IsCorrect {
			correct = optionLetters[i]
		}
	}
	return texts, correct
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
