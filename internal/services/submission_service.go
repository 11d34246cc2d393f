package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quizquest/quiz-service/internal/models"
	"github.com/quizquest/quiz-service/internal/repositories"
)

type submissionService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewSubmissionService(repo repositories.Repository, logger *slog.Logger) SubmissionService {
	return &submissionService{
		repo:   repo,
		logger: logger,
	}
}

// Submit creates the submission, one answer per quiz question and the final
// score in a single transaction. Any invalid selection aborts the whole
// unit; no partial submission is ever visible.
func (s *submissionService) Submit(ctx context.Context, userID, quizID uint, selections map[uint]*uint) (*SubmissionResult, error) {
	s.logger.Info("submitting quiz",
		"user_id", userID,
		"quiz_id", quizID,
		"selections", len(selections))

	quiz, err := s.repo.Quiz().GetActiveWithQuestions(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}

	var submission *models.QuizSubmission
	var answers []models.Answer

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		submission = &models.QuizSubmission{
			UserID: userID,
			QuizID: quizID,
		}
		if err := tx.Submission().Create(ctx, submission); err != nil {
			return fmt.Errorf("failed to create submission: %w", err)
		}

		total, scored, err := scoreSelections(quiz.Questions, selections)
		if err != nil {
			return err
		}
		answers = scored

		for i := range answers {
			answers[i].SubmissionID = submission.ID
		}
		if err := tx.Submission().CreateAnswers(ctx, answers); err != nil {
			return fmt.Errorf("failed to create answers: %w", err)
		}

		submission.Score = total
		if err := tx.Submission().Update(ctx, submission); err != nil {
			return fmt.Errorf("failed to write score: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quiz submitted",
		"submission_id", submission.ID,
		"user_id", userID,
		"quiz_id", quizID,
		"score", submission.Score)

	return buildResult(quiz, submission, answers), nil
}

func (s *submissionService) GetResult(ctx context.Context, submissionID uint, actor *models.User) (*SubmissionResult, error) {
	submission, err := s.repo.Submission().GetByIDWithDetails(ctx, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}

	if submission.UserID != actor.ID && !actor.IsAdmin() {
		return nil, NewPermissionError(actor.ID, submissionID, "submission", "read", "not the submitter")
	}

	result := &SubmissionResult{
		SubmissionID: submission.ID,
		QuizID:       submission.QuizID,
		Score:        submission.Score,
		SubmittedAt:  submission.SubmittedAt,
	}
	if submission.Quiz != nil {
		result.QuizTitle = submission.Quiz.Title
	}
	for _, answer := range submission.Answers {
		ar := AnswerResult{
			QuestionID:       answer.QuestionID,
			SelectedChoiceID: answer.SelectedChoiceID,
		}
		if answer.Question != nil {
			ar.Content = answer.Question.Content
			ar.Points = answer.Question.Points
			result.MaxScore += answer.Question.Points
		}
		if answer.SelectedChoice != nil {
			ar.Correct = answer.SelectedChoice.IsCorrect
		}
		result.Answers = append(result.Answers, ar)
	}

	return result, nil
}

// scoreSelections walks the quiz's questions once, producing exactly one
// answer per question and the score total. A selection naming a choice that
// does not belong to its question fails the whole batch; selections for
// questions outside the quiz are ignored.
func scoreSelections(questions []models.Question, selections map[uint]*uint) (int, []models.Answer, error) {
	total := 0
	answers := make([]models.Answer, 0, len(questions))

	for i := range questions {
		question := &questions[i]
		answer := models.Answer{QuestionID: question.ID}

		if choiceID, ok := selections[question.ID]; ok && choiceID != nil {
			choice := findChoice(question, *choiceID)
			if choice == nil {
				return 0, nil, fmt.Errorf("%w: choice %d, question %d",
					ErrInvalidSelection, *choiceID, question.ID)
			}
			answer.SelectedChoiceID = &choice.ID
			if choice.IsCorrect {
				total += question.Points
			}
		}

		answers = append(answers, answer)
	}

	return total, answers, nil
}

func findChoice(question *models.Question, choiceID uint) *models.Choice {
	for i := range question.Choices {
		if question.Choices[i].ID == choiceID {
			return &question.Choices[i]
		}
	}
	return nil
}

func buildResult(quiz *models.Quiz, submission *models.QuizSubmission, answers []models.Answer) *SubmissionResult {
	result := &SubmissionResult{
		SubmissionID: submission.ID,
		QuizID:       quiz.ID,
		QuizTitle:    quiz.Title,
		Score:        submission.Score,
		SubmittedAt:  submission.SubmittedAt,
	}

	byQuestion := make(map[uint]*models.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		byQuestion[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	for _, answer := range answers {
		question := byQuestion[answer.QuestionID]
		if question == nil {
			continue
		}
		result.MaxScore += question.Points

		ar := AnswerResult{
			QuestionID:       answer.QuestionID,
			Content:          question.Content,
			Points:           question.Points,
			SelectedChoiceID: answer.SelectedChoiceID,
		}
		if answer.SelectedChoiceID != nil {
			if choice := findChoice(question, *answer.SelectedChoiceID); choice != nil {
				ar.Correct = choice.IsCorrect
			}
		}
		result.Answers = append(result.Answers, ar)
	}

	return result
}
