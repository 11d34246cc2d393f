package postgres

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/quizquest/quiz-service/internal/models"
	"github.com/quizquest/quiz-service/internal/repositories"
)

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

func (r *SubmissionPostgreSQL) Create(ctx context.Context, submission *models.QuizSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *SubmissionPostgreSQL) Update(ctx context.Context, submission *models.QuizSubmission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *SubmissionPostgreSQL) CreateAnswers(ctx context.Context, answers []models.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&answers).Error
}

func (r *SubmissionPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.QuizSubmission, error) {
	var submission models.QuizSubmission
	err := r.db.WithContext(ctx).
		Preload("Quiz").
		Preload("Answers").
		Preload("Answers.Question").
		Preload("Answers.SelectedChoice").
		First(&submission, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &submission, nil
}

func (r *SubmissionPostgreSQL) ListByUser(ctx context.Context, userID uint, filters repositories.SubmissionFilters) ([]*models.QuizSubmission, int64, error) {
	var submissions []*models.QuizSubmission
	var total int64

	query := r.db.WithContext(ctx).Model(&models.QuizSubmission{}).Where("user_id = ?", userID)
	if filters.QuizID != nil {
		query = query.Where("quiz_id = ?", *filters.QuizID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := normalizePage(filters.Limit, filters.Offset)
	err := query.Preload("Quiz").
		Order("submitted_at DESC").
		Limit(limit).Offset(offset).
		Find(&submissions).Error
	if err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (r *SubmissionPostgreSQL) AverageScoreByUser(ctx context.Context, userID uint) (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).
		Model(&models.QuizSubmission{}).
		Where("user_id = ?", userID).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

func (r *SubmissionPostgreSQL) AttemptedQuizIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.QuizSubmission{}).
		Where("user_id = ?", userID).
		Distinct("quiz_id").
		Pluck("quiz_id", &ids).Error
	return ids, err
}

func (r *SubmissionPostgreSQL) ListRecent(ctx context.Context, limit int) ([]*models.QuizSubmission, error) {
	var submissions []*models.QuizSubmission
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Quiz").
		Order("submitted_at DESC").
		Limit(limit).
		Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionPostgreSQL) ListAllWithDetails(ctx context.Context) ([]*models.QuizSubmission, error) {
	var submissions []*models.QuizSubmission
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Quiz").
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}
