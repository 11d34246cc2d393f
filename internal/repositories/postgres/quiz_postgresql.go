package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizquest/quiz-service/internal/models"
	"github.com/quizquest/quiz-service/internal/repositories"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

func (r *QuizPostgreSQL) Create(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *QuizPostgreSQL) Update(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Save(quiz).Error
}

func (r *QuizPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &quiz, nil
}

func (r *QuizPostgreSQL) GetActiveWithQuestions(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.WithContext(ctx).
		Preload("Questions", "is_active = ?", true).
		Preload("Questions.Choices").
		Where("is_active = ?", true).
		First(&quiz, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &quiz, nil
}

func (r *QuizPostgreSQL) ListActive(ctx context.Context) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizPostgreSQL) ListActiveExcluding(ctx context.Context, exclude []uint, limit int) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", exclude)
	}
	err := query.Order("created_at DESC").Limit(limit).Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizPostgreSQL) SetActive(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
