package models

import (
	"time"
)

// QuizSubmission records one attempt at one quiz. Immutable after scoring;
// the score is written once inside the submission transaction. Multiple
// attempts per (user, quiz) are allowed deliberately.
type QuizSubmission struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"not null;index"`
	QuizID uint `json:"quiz_id" gorm:"not null;index"`
	Score  int  `json:"score" gorm:"not null;default:0"`

	SubmittedAt time.Time `json:"submitted_at" gorm:"autoCreateTime;index"`

	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Quiz    *Quiz    `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
}

func (QuizSubmission) TableName() string {
	return "quiz_submissions"
}

// Answer is one per quiz question per submission, whether or not the user
// picked anything. A removed choice nulls the reference but keeps the row.
type Answer struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	SubmissionID uint `json:"submission_id" gorm:"not null;index"`
	QuestionID   uint `json:"question_id" gorm:"not null;index"`
	// Nullable: unanswered questions, and choices deleted after the fact.
	SelectedChoiceID *uint `json:"selected_choice_id"`

	CreatedAt time.Time `json:"created_at"`

	Question       *Question `json:"question,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	SelectedChoice *Choice   `json:"selected_choice,omitempty" gorm:"foreignKey:SelectedChoiceID;constraint:OnDelete:SET NULL"`
}

func (Answer) TableName() string {
	return "answers"
}
