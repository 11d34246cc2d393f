package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quizquest/quiz-service/internal/models"
	"github.com/quizquest/quiz-service/internal/repositories"
	"github.com/quizquest/quiz-service/internal/services"
	"github.com/quizquest/quiz-service/internal/utils"
)

type QuestionHandler struct {
	BaseHandler
	service services.QuestionService
}

func NewQuestionHandler(service services.QuestionService, logger utils.Logger) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListQuestions returns active questions, paginated and filterable by
// difficulty, category and bank membership.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	filters := repositories.QuestionFilters{
		BankOnly: c.Query("bank") == "true",
	}
	if v := c.Query("difficulty"); v != "" {
		difficulty := models.DifficultyLevel(v)
		filters.Difficulty = &difficulty
	}
	if v := c.Query("category"); v != "" {
		filters.Category = &v
	}
	if v := c.Query("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 1 {
			filters.Offset = (page - 1) * 10
		}
	}
	filters.Limit = 10
	if v := c.Query("size"); v != "" {
		if size, err := strconv.Atoi(v); err == nil && size > 0 && size <= 100 {
			filters.Limit = size
		}
	}

	resp, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	question, err := h.service.Get(c.Request.Context(), questionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req services.CreateQuestionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.service.Create(c.Request.Context(), &req, CurrentUser(c), requestMeta(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.service.Update(c.Request.Context(), questionID, &req, CurrentUser(c), requestMeta(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), questionID, CurrentUser(c), requestMeta(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Question deleted"})
}

// AttachQuestion moves a bank question onto a quiz.
func (h *QuestionHandler) AttachQuestion(c *gin.Context) {
	questionID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	quizID, ok := h.parseIDParam(c, "quiz_id")
	if !ok {
		return
	}

	if err := h.service.AttachToQuiz(c.Request.Context(), questionID, quizID, CurrentUser(c), requestMeta(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Question attached"})
}
