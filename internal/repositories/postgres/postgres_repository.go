package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizquest/quiz-service/internal/repositories"
)

type repository struct {
	db *gorm.DB

	user       repositories.UserRepository
	quiz       repositories.QuizRepository
	question   repositories.QuestionRepository
	submission repositories.SubmissionRepository
	auditLog   repositories.AuditLogRepository
	dashboard  repositories.DashboardRepository
}

// NewRepository builds the Postgres-backed repository aggregate.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:         db,
		user:       NewUserPostgreSQL(db),
		quiz:       NewQuizPostgreSQL(db),
		question:   NewQuestionPostgreSQL(db),
		submission: NewSubmissionPostgreSQL(db),
		auditLog:   NewAuditLogPostgreSQL(db),
		dashboard:  NewDashboardPostgreSQL(db),
	}
}

func (r *repository) User() repositories.UserRepository             { return r.user }
func (r *repository) Quiz() repositories.QuizRepository             { return r.quiz }
func (r *repository) Question() repositories.QuestionRepository     { return r.question }
func (r *repository) Submission() repositories.SubmissionRepository { return r.submission }
func (r *repository) AuditLog() repositories.AuditLogRepository     { return r.auditLog }
func (r *repository) Dashboard() repositories.DashboardRepository   { return r.dashboard }

func (r *repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
