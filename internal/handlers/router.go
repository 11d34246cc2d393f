package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/quizquest/quiz-service/internal/auth"
	"github.com/quizquest/quiz-service/internal/cache"
	"github.com/quizquest/quiz-service/internal/models"
	"github.com/quizquest/quiz-service/internal/repositories"
	"github.com/quizquest/quiz-service/internal/services"
	"github.com/quizquest/quiz-service/internal/utils"
)

type HandlerManager struct {
	authHandler      *AuthHandler
	quizHandler      *QuizHandler
	questionHandler  *QuestionHandler
	dashboardHandler *DashboardHandler
	sessionAuth      *SessionAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens *auth.TokenManager,
	sessions *cache.SessionStore,
	users repositories.UserRepository,
	cookieTTLSeconds int,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:      NewAuthHandler(serviceManager.Auth(), cookieTTLSeconds, logger),
		quizHandler:      NewQuizHandler(serviceManager.Quiz(), serviceManager.Submission(), logger),
		questionHandler:  NewQuestionHandler(serviceManager.Question(), logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), serviceManager.Audit(), serviceManager.Report(), logger),
		sessionAuth:      NewSessionAuthMiddleware(tokens, sessions, users, logger),
	}
}

// SetupRoutes wires all routes. Paths keep their trailing slashes; gin's
// RedirectTrailingSlash keeps both spellings working.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/", hm.dashboardHandler.Landing)

	router.GET("/register/", hm.authHandler.RegisterForm)
	router.POST("/register/", hm.authHandler.Register)
	router.GET("/login/", hm.authHandler.LoginForm)
	router.POST("/login/", hm.authHandler.Login)

	authed := router.Group("")
	authed.Use(hm.sessionAuth.RequireAuth())
	{
		authed.GET("/logout/", hm.authHandler.Logout)
		authed.GET("/dashboard/", hm.dashboardHandler.Dashboard)

		authed.GET("/quizzes/", hm.quizHandler.ListQuizzes)
		authed.GET("/quizzes/:id/take/", hm.quizHandler.TakeQuiz)
		authed.POST("/quizzes/:id/take/", hm.quizHandler.SubmitQuiz)
		authed.GET("/submissions/:id/", hm.quizHandler.GetSubmission)

		authed.GET("/questions/", hm.questionHandler.ListQuestions)
		authed.GET("/questions/:id/", hm.questionHandler.GetQuestion)
	}

	admin := router.Group("")
	admin.Use(hm.sessionAuth.RequireAuth(), hm.sessionAuth.RequireRole(models.RoleAdmin))
	{
		admin.GET("/admin-dashboard/", hm.dashboardHandler.AdminDashboard)
		admin.GET("/admin-dashboard/export/", hm.dashboardHandler.ExportSubmissions)
		admin.GET("/audit-logs/", hm.dashboardHandler.ListAuditLogs)

		admin.POST("/quizzes/", hm.quizHandler.CreateQuiz)
		admin.PUT("/quizzes/:id/", hm.quizHandler.UpdateQuiz)
		admin.DELETE("/quizzes/:id/", hm.quizHandler.DeleteQuiz)

		admin.POST("/questions/create/", hm.questionHandler.CreateQuestion)
		admin.PUT("/questions/:id/update/", hm.questionHandler.UpdateQuestion)
		admin.DELETE("/questions/:id/delete/", hm.questionHandler.DeleteQuestion)
		admin.POST("/questions/:id/attach/:quiz_id/", hm.questionHandler.AttachQuestion)
	}
}
