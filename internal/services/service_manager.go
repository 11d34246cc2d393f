package services

import (
	"log/slog"

	"github.com/quizquest/quiz-service/internal/auth"
	"github.com/quizquest/quiz-service/internal/cache"
	"github.com/quizquest/quiz-service/internal/events"
	"github.com/quizquest/quiz-service/internal/repositories"
	"github.com/quizquest/quiz-service/internal/validator"
)

type serviceManager struct {
	auth       AuthService
	quiz       QuizService
	question   QuestionService
	submission SubmissionService
	dashboard  DashboardService
	audit      AuditService
	report     ReportService
}

// NewServiceManager wires every service against the shared repository,
// session store, event bus and validator.
func NewServiceManager(
	repo repositories.Repository,
	sessions *cache.SessionStore,
	tokens *auth.TokenManager,
	publisher events.Publisher,
	logger *slog.Logger,
	v *validator.Validator,
) ServiceManager {
	audit := NewAuditService(repo, publisher, logger)
	return &serviceManager{
		auth:       NewAuthService(repo, sessions, tokens, audit, logger, v),
		quiz:       NewQuizService(repo, audit, logger, v),
		question:   NewQuestionService(repo, audit, logger, v),
		submission: NewSubmissionService(repo, logger),
		dashboard:  NewDashboardService(repo, logger),
		audit:      audit,
		report:     NewReportService(repo, logger),
	}
}

func (m *serviceManager) Auth() AuthService             { return m.auth }
func (m *serviceManager) Quiz() QuizService             { return m.quiz }
func (m *serviceManager) Question() QuestionService     { return m.question }
func (m *serviceManager) Submission() SubmissionService { return m.submission }
func (m *serviceManager) Dashboard() DashboardService   { return m.dashboard }
func (m *serviceManager) Audit() AuditService           { return m.audit }
func (m *serviceManager) Report() ReportService         { return m.report }
