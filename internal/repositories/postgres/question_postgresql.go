package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizquest/quiz-service/internal/models"
	"github.com/quizquest/quiz-service/internal/repositories"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (r *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Omit("Choices").Save(question).Error
}

func (r *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &question, nil
}

func (r *QuestionPostgreSQL) GetByIDWithChoices(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).Preload("Choices").First(&question, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &question, nil
}

func (r *QuestionPostgreSQL) ListActive(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	var questions []*models.Question
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Question{}).Where("is_active = ?", true)
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.BankOnly {
		query = query.Where("quiz_id IS NULL")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := normalizePage(filters.Limit, filters.Offset)
	err := query.Preload("Choices").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

func (r *QuestionPostgreSQL) SetActive(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Question{}).
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

func (r *QuestionPostgreSQL) ReplaceChoices(ctx context.Context, questionID uint, choices []models.Choice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Existing answers keep their rows; the FK nulls the reference.
		if err := tx.Where("question_id = ?", questionID).Delete(&models.Choice{}).Error; err != nil {
			return err
		}
		for i := range choices {
			choices[i].ID = 0
			choices[i].QuestionID = questionID
		}
		return tx.Create(&choices).Error
	})
}

func (r *QuestionPostgreSQL) AttachToQuiz(ctx context.Context, questionID uint, quizID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", questionID).
		Update("quiz_id", quizID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
