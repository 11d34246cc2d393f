package repositories

import (
	"context"
	"time"

	"github.com/quizquest/quiz-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role   *models.UserRole
	Limit  int
	Offset int
}

type QuestionFilters struct {
	Difficulty *models.DifficultyLevel
	Category   *string
	CreatedBy  *uint
	// Standalone bank questions only (quiz_id IS NULL) when true.
	BankOnly bool
	Limit    int
	Offset   int
}

type AuditLogFilters struct {
	UserID    *uint
	Action    *models.AuditAction
	ModelName *string
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}

type SubmissionFilters struct {
	QuizID *uint
	Limit  int
	Offset int
}

// ===== AGGREGATE DASHBOARD STRUCTS =====

type SystemTotals struct {
	Users       int64 `json:"users"`
	Quizzes     int64 `json:"quizzes"`
	Questions   int64 `json:"questions"`
	Submissions int64 `json:"submissions"`
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
}

type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	Update(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	// GetActiveWithQuestions loads the quiz with its active questions and
	// their choices; not-found covers inactive quizzes too.
	GetActiveWithQuestions(ctx context.Context, id uint) (*models.Quiz, error)
	ListActive(ctx context.Context) ([]*models.Quiz, error)
	// ListActiveExcluding returns active quizzes whose id is not in exclude,
	// newest first, capped at limit.
	ListActiveExcluding(ctx context.Context, exclude []uint, limit int) ([]*models.Quiz, error)
	SetActive(ctx context.Context, id uint, active bool) error
}

type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	Update(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	GetByIDWithChoices(ctx context.Context, id uint) (*models.Question, error)
	ListActive(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)
	SetActive(ctx context.Context, id uint, active bool) error
	// ReplaceChoices swaps a question's choices; removed rows null out any
	// answers referencing them at the database level.
	ReplaceChoices(ctx context.Context, questionID uint, choices []models.Choice) error
	AttachToQuiz(ctx context.Context, questionID uint, quizID uint) error
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.QuizSubmission) error
	Update(ctx context.Context, submission *models.QuizSubmission) error
	CreateAnswers(ctx context.Context, answers []models.Answer) error
	GetByIDWithDetails(ctx context.Context, id uint) (*models.QuizSubmission, error)
	ListByUser(ctx context.Context, userID uint, filters SubmissionFilters) ([]*models.QuizSubmission, int64, error)
	// AverageScoreByUser is nil when the user has no submissions.
	AverageScoreByUser(ctx context.Context, userID uint) (*float64, error)
	AttemptedQuizIDs(ctx context.Context, userID uint) ([]uint, error)
	ListRecent(ctx context.Context, limit int) ([]*models.QuizSubmission, error)
	ListAllWithDetails(ctx context.Context) ([]*models.QuizSubmission, error)
}

type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filters AuditLogFilters) ([]*models.AuditLog, int64, error)
	ListRecent(ctx context.Context, limit int) ([]*models.AuditLog, error)
}

type DashboardRepository interface {
	Totals(ctx context.Context) (*SystemTotals, error)
	RecentQuizzes(ctx context.Context, limit int) ([]*models.Quiz, error)
	ActiveQuizCount(ctx context.Context) (int64, error)
	ActiveQuestionCount(ctx context.Context) (int64, error)
}

// Repository aggregates all sub-repositories. WithTransaction runs fn
// against a transactional view; any error rolls the whole unit back.
type Repository interface {
	User() UserRepository
	Quiz() QuizRepository
	Question() QuestionRepository
	Submission() SubmissionRepository
	AuditLog() AuditLogRepository
	Dashboard() DashboardRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
}
