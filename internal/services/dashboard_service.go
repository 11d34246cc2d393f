package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quizquest/quiz-service/internal/repositories"
)

type dashboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		logger: logger,
	}
}

func (s *dashboardService) Landing(ctx context.Context) (*LandingStats, error) {
	quizCount, err := s.repo.Dashboard().ActiveQuizCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count quizzes: %w", err)
	}
	questionCount, err := s.repo.Dashboard().ActiveQuestionCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	return &LandingStats{
		ActiveQuizzes:   quizCount,
		ActiveQuestions: questionCount,
	}, nil
}

// StudentOverview aggregates the caller's attempt history. AverageScore
// stays nil until the user has at least one submission, so callers can tell
// "no attempts" apart from "average of zero".
func (s *dashboardService) StudentOverview(ctx context.Context, userID uint) (*StudentDashboard, error) {
	taken, err := s.repo.Submission().AttemptedQuizIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempted quizzes: %w", err)
	}

	avg, err := s.repo.Submission().AverageScoreByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average score: %w", err)
	}

	latest, _, err := s.repo.Submission().ListByUser(ctx, userID, repositories.SubmissionFilters{Limit: 5})
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	suggested, err := s.repo.Quiz().ListActiveExcluding(ctx, taken, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to load suggested quizzes: %w", err)
	}

	dashboard := &StudentDashboard{
		QuizzesTaken:     int64(len(taken)),
		AverageScore:     avg,
		SuggestedQuizzes: suggested,
	}
	for _, sub := range latest {
		summary := SubmissionSummary{
			ID:          sub.ID,
			QuizID:      sub.QuizID,
			Score:       sub.Score,
			SubmittedAt: sub.SubmittedAt,
		}
		if sub.Quiz != nil {
			summary.QuizTitle = sub.Quiz.Title
		}
		dashboard.LatestSubmissions = append(dashboard.LatestSubmissions, summary)
	}

	return dashboard, nil
}

func (s *dashboardService) AdminOverview(ctx context.Context) (*AdminDashboard, error) {
	totals, err := s.repo.Dashboard().Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load totals: %w", err)
	}

	quizzes, err := s.repo.Dashboard().RecentQuizzes(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent quizzes: %w", err)
	}

	submissions, err := s.repo.Submission().ListRecent(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent submissions: %w", err)
	}

	logs, err := s.repo.AuditLog().ListRecent(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit logs: %w", err)
	}

	dashboard := &AdminDashboard{
		Totals:          *totals,
		LatestQuizzes:   quizzes,
		RecentAuditLogs: logs,
	}
	for _, sub := range submissions {
		recent := RecentSubmission{
			ID:          sub.ID,
			Score:       sub.Score,
			SubmittedAt: sub.SubmittedAt,
		}
		if sub.Quiz != nil {
			recent.QuizTitle = sub.Quiz.Title
		}
		if sub.User != nil {
			recent.Username = sub.User.Username
		}
		dashboard.LatestSubmissions = append(dashboard.LatestSubmissions, recent)
	}

	return dashboard, nil
}
