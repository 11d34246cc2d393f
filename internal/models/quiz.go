package models

import (
	"time"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

type Quiz struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200;index"`
	Description *string `json:"description" gorm:"type:text"`
	IsActive    bool    `json:"is_active" gorm:"not null;default:true;index"`
	CreatedBy   *uint   `json:"created_by" gorm:"index"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// Questions are removed with their quiz at the database level.
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	Creator   *User      `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Question belongs to a quiz, or stands alone in the question bank when
// QuizID is nil. Correctness lives on the choices.
type Question struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	QuizID     *uint           `json:"quiz_id" gorm:"index"`
	Content    string          `json:"content" gorm:"type:text;not null"`
	Points     int             `json:"points" gorm:"not null;default:1"`
	Difficulty DifficultyLevel `json:"difficulty" gorm:"size:10;default:medium"`
	Category   string          `json:"category" gorm:"size:100;index"`
	ImagePath  *string         `json:"image_path" gorm:"size:500"`
	CreatedBy  *uint           `json:"created_by" gorm:"index"`
	IsActive   bool            `json:"is_active" gorm:"not null;default:true;index"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	Choices []Choice `json:"choices,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	Creator *User    `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectChoice returns the choice flagged correct, or nil when the
// question has none.
func (q *Question) CorrectChoice() *Choice {
	for i := range q.Choices {
		if q.Choices[i].IsCorrect {
			return &q.Choices[i]
		}
	}
	return nil
}

type Choice struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"not null;size:255"`
	IsCorrect  bool   `json:"is_correct" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Choice) TableName() string {
	return "choices"
}
