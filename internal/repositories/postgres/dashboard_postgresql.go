package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizquest/quiz-service/internal/models"
	"github.com/quizquest/quiz-service/internal/repositories"
)

// DashboardPostgreSQL runs plain snapshot reads; aggregates are computed
// fresh per request and are not cached.
type DashboardPostgreSQL struct {
	db *gorm.DB
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &DashboardPostgreSQL{db: db}
}

func (r *DashboardPostgreSQL) Totals(ctx context.Context) (*repositories.SystemTotals, error) {
	var totals repositories.SystemTotals

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &totals.Users},
		{&models.Quiz{}, &totals.Quizzes},
		{&models.Question{}, &totals.Questions},
		{&models.QuizSubmission{}, &totals.Submissions},
	}
	for _, c := range counts {
		if err := r.db.WithContext(ctx).Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	return &totals, nil
}

func (r *DashboardPostgreSQL) RecentQuizzes(ctx context.Context, limit int) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&quizzes).Error
	return quizzes, err
}

func (r *DashboardPostgreSQL) ActiveQuizCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *DashboardPostgreSQL) ActiveQuestionCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}
