package services

import (
	"context"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/quizquest/quiz-service/internal/events"
	"github.com/quizquest/quiz-service/internal/models"
	"github.com/quizquest/quiz-service/internal/repositories"
)

// ===== REQUEST METADATA =====

// RequestMeta carries the requester context recorded in audit entries.
type RequestMeta struct {
	IPAddress *string
	UserAgent string
}

// ===== IDENTITY DTOs =====

type RegisterRequest struct {
	Username        string          `json:"username" form:"username" validate:"required,min=3,max=150"`
	Email           string          `json:"email" form:"email" validate:"required,email"`
	Password        string          `json:"password1" form:"password1" validate:"required,min=8,max=128"`
	PasswordConfirm string          `json:"password2" form:"password2" validate:"required,eqfield=Password"`
	Role            models.UserRole `json:"role" form:"role" validate:"omitempty,oneof=admin standard"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// ===== CONTENT DTOs =====

type ChoiceRequest struct {
	Text      string `json:"text" validate:"required,max=255"`
	IsCorrect bool   `json:"is_correct"`
}

type QuizQuestionRequest struct {
	Content    string                 `json:"content" validate:"required,max=2000"`
	Points     int                    `json:"points" validate:"required,min=1,max=100"`
	Difficulty models.DifficultyLevel `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Category   string                 `json:"category" validate:"omitempty,max=100"`
	Choices    []ChoiceRequest        `json:"choices" validate:"required,min=2,max=10,dive"`
}

type CreateQuizRequest struct {
	Title       string                `json:"title" validate:"required,max=200"`
	Description *string               `json:"description" validate:"omitempty,max=1000"`
	Questions   []QuizQuestionRequest `json:"questions" validate:"omitempty,dive"`
}

type UpdateQuizRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active"`
}

// CreateQuestionRequest is the standalone question-bank form: four fixed
// options and a correct letter, materialized as Choice rows on save.
type CreateQuestionRequest struct {
	Content       string                 `json:"content" form:"content" validate:"required,max=2000"`
	OptionA       string                 `json:"option_a" form:"option_a" validate:"required,max=255"`
	OptionB       string                 `json:"option_b" form:"option_b" validate:"required,max=255"`
	OptionC       string                 `json:"option_c" form:"option_c" validate:"required,max=255"`
	OptionD       string                 `json:"option_d" form:"option_d" validate:"required,max=255"`
	CorrectAnswer string                 `json:"correct_answer" form:"correct_answer" validate:"required,oneof=A B C D"`
	Points        int                    `json:"points" form:"points" validate:"omitempty,min=1,max=100"`
	Difficulty    models.DifficultyLevel `json:"difficulty" form:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Category      string                 `json:"category" form:"category" validate:"omitempty,max=100"`
	ImagePath     *string                `json:"image_path" form:"image_path" validate:"omitempty,max=500"`
}

type UpdateQuestionRequest struct {
	Content       *string                 `json:"content" validate:"omitempty,max=2000"`
	OptionA       *string                 `json:"option_a" validate:"omitempty,max=255"`
	OptionB       *string                 `json:"option_b" validate:"omitempty,max=255"`
	OptionC       *string                 `json:"option_c" validate:"omitempty,max=255"`
	OptionD       *string                 `json:"option_d" validate:"omitempty,max=255"`
	CorrectAnswer *string                 `json:"correct_answer" validate:"omitempty,oneof=A B C D"`
	Points        *int                    `json:"points" validate:"omitempty,min=1,max=100"`
	Difficulty    *models.DifficultyLevel `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Category      *string                 `json:"category" validate:"omitempty,max=100"`
	ImagePath     *string                 `json:"image_path" validate:"omitempty,max=500"`
}

type QuestionListResponse struct {
	Questions []*models.Question `json:"questions"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	Size      int                `json:"size"`
}

// ===== QUIZ-TAKING DTOs =====

// ChoiceForTaking deliberately omits the correctness flag.
type ChoiceForTaking struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type QuestionForTaking struct {
	ID      uint              `json:"id"`
	Content string            `json:"content"`
	Points  int               `json:"points"`
	Choices []ChoiceForTaking `json:"choices"`
}

type TakeQuizResponse struct {
	QuizID      uint                `json:"quiz_id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Questions   []QuestionForTaking `json:"questions"`
}

type AnswerResult struct {
	QuestionID       uint   `json:"question_id"`
	Content          string `json:"content"`
	Points           int    `json:"points"`
	SelectedChoiceID *uint  `json:"selected_choice_id"`
	Correct          bool   `json:"correct"`
}

type SubmissionResult struct {
	SubmissionID uint           `json:"submission_id"`
	QuizID       uint           `json:"quiz_id"`
	QuizTitle    string         `json:"quiz_title"`
	Score        int            `json:"score"`
	MaxScore     int            `json:"max_score"`
	SubmittedAt  time.Time      `json:"submitted_at"`
	Answers      []AnswerResult `json:"answers"`
}

// ===== DASHBOARD DTOs =====

type SubmissionSummary struct {
	ID          uint      `json:"id"`
	QuizID      uint      `json:"quiz_id"`
	QuizTitle   string    `json:"quiz_title"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type StudentDashboard struct {
	QuizzesTaken      int64               `json:"quizzes_taken"`
	AverageScore      *float64            `json:"average_score"`
	LatestSubmissions []SubmissionSummary `json:"latest_submissions"`
	SuggestedQuizzes  []*models.Quiz      `json:"suggested_quizzes"`
}

type RecentSubmission struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	QuizTitle   string    `json:"quiz_title"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type AdminDashboard struct {
	Totals            repositories.SystemTotals `json:"totals"`
	LatestQuizzes     []*models.Quiz            `json:"latest_quizzes"`
	LatestSubmissions []RecentSubmission        `json:"latest_submissions"`
	RecentAuditLogs   []*models.AuditLog        `json:"recent_audit_logs"`
}

type LandingStats struct {
	ActiveQuizzes   int64 `json:"active_quizzes"`
	ActiveQuestions int64 `json:"active_questions"`
}

// ===== AUDIT DTOs =====

type AuditEntry struct {
	UserID    *uint
	Action    models.AuditAction
	ModelName string
	ObjectID  *uint
	Details   string
	Meta      RequestMeta
	Metadata  map[string]any
}

type AuditLogListResponse struct {
	Entries []*models.AuditLog `json:"entries"`
	Total   int64              `json:"total"`
	Page    int                `json:"page"`
	Size    int                `json:"size"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	// Register creates the account and logs the user straight in,
	// returning the session token.
	Register(ctx context.Context, req *RegisterRequest, meta RequestMeta) (*models.User, string, error)
	Login(ctx context.Context, req *LoginRequest, meta RequestMeta) (*models.User, string, error)
	Logout(ctx context.Context, sessionID string, userID uint, meta RequestMeta) error
}

type QuizService interface {
	ListActive(ctx context.Context) ([]*models.Quiz, error)
	GetForTaking(ctx context.Context, quizID uint) (*TakeQuizResponse, error)
	Create(ctx context.Context, req *CreateQuizRequest, actor *models.User, meta RequestMeta) (*models.Quiz, error)
	Update(ctx context.Context, quizID uint, req *UpdateQuizRequest, actor *models.User, meta RequestMeta) (*models.Quiz, error)
	// Delete is a soft delete: the active flag is cleared, rows persist.
	Delete(ctx context.Context, quizID uint, actor *models.User, meta RequestMeta) error
}

type QuestionService interface {
	List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error)
	Get(ctx context.Context, questionID uint) (*models.Question, error)
	Create(ctx context.Context, req *CreateQuestionRequest, actor *models.User, meta RequestMeta) (*models.Question, error)
	Update(ctx context.Context, questionID uint, req *UpdateQuestionRequest, actor *models.User, meta RequestMeta) (*models.Question, error)
	Delete(ctx context.Context, questionID uint, actor *models.User, meta RequestMeta) error
	AttachToQuiz(ctx context.Context, questionID, quizID uint, actor *models.User, meta RequestMeta) error
}

type SubmissionService interface {
	// Submit scores the selections and persists submission plus one answer
	// per quiz question in a single transaction.
	Submit(ctx context.Context, userID, quizID uint, selections map[uint]*uint) (*SubmissionResult, error)
	GetResult(ctx context.Context, submissionID uint, actor *models.User) (*SubmissionResult, error)
}

type DashboardService interface {
	Landing(ctx context.Context) (*LandingStats, error)
	StudentOverview(ctx context.Context, userID uint) (*StudentDashboard, error)
	AdminOverview(ctx context.Context) (*AdminDashboard, error)
}

type AuditService interface {
	Record(ctx context.Context, entry AuditEntry)
	// Persist consumes a bus event into the audit table.
	Persist(ctx context.Context, event *events.AuditEvent) error
	List(ctx context.Context, filters repositories.AuditLogFilters, actor *models.User) (*AuditLogListResponse, error)
}

type ReportService interface {
	SubmissionsWorkbook(ctx context.Context, actor *models.User) (*excelize.File, error)
}

type ServiceManager interface {
	Auth() AuthService
	Quiz() QuizService
	Question() QuestionService
	Submission() SubmissionService
	Dashboard() DashboardService
	Audit() AuditService
	Report() ReportService
}
