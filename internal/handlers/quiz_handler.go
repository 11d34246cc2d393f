package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quizquest/quiz-service/internal/services"
	"github.com/quizquest/quiz-service/internal/utils"
)

const selectionFieldPrefix = "question_"

type QuizHandler struct {
	BaseHandler
	quizzes     services.QuizService
	submissions services.SubmissionService
}

func NewQuizHandler(quizzes services.QuizService, submissions services.SubmissionService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: NewBaseHandler(logger),
		quizzes:     quizzes,
		submissions: submissions,
	}
}

// ListQuizzes returns every active quiz.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.quizzes.ListActive(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}

// TakeQuiz returns the quiz with questions and choices, correctness hidden.
func (h *QuizHandler) TakeQuiz(c *gin.Context) {
	quizID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.quizzes.GetForTaking(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitQuiz accepts the answer form and returns the scored result. The
// form encodes one field per answered question: question_<id>=<choiceID>.
// A JSON body with a "selections" object works the same way.
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	quizID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	selections, err := parseSelections(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid answer form",
			Details: err.Error(),
		})
		return
	}

	user := CurrentUser(c)
	result, err := h.submissions.Submit(c.Request.Context(), user.ID, quizID, selections)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetSubmission returns a scored submission to its owner or an admin.
func (h *QuizHandler) GetSubmission(c *gin.Context) {
	submissionID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.submissions.GetResult(c.Request.Context(), submissionID, CurrentUser(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ===== AUTHORING (admin) =====

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	quiz, err := h.quizzes.Create(c.Request.Context(), &req, CurrentUser(c), requestMeta(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	quizID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	quiz, err := h.quizzes.Update(c.Request.Context(), quizID, &req, CurrentUser(c), requestMeta(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.quizzes.Delete(c.Request.Context(), quizID, CurrentUser(c), requestMeta(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Quiz deleted"})
}

// parseSelections reads question_<id> fields from a form post, or the
// "selections" object of a JSON body.
func parseSelections(c *gin.Context) (map[uint]*uint, error) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var body struct {
			Selections map[string]*uint `json:"selections"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, err
		}
		selections := make(map[uint]*uint, len(body.Selections))
		for key, choiceID := range body.Selections {
			questionID, err := strconv.ParseUint(key, 10, 32)
			if err != nil {
				continue
			}
			selections[uint(questionID)] = choiceID
		}
		return selections, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	selections := make(map[uint]*uint)
	for field, values := range c.Request.PostForm {
		if !strings.HasPrefix(field, selectionFieldPrefix) {
			continue
		}
		questionID, err := strconv.ParseUint(strings.TrimPrefix(field, selectionFieldPrefix), 10, 32)
		if err != nil {
			continue
		}
		if len(values) == 0 || values[0] == "" {
			selections[uint(questionID)] = nil
			continue
		}
		choiceID, err := strconv.ParseUint(values[0], 10, 32)
		if err != nil {
			continue
		}
		id := uint(choiceID)
		selections[uint(questionID)] = &id
	}
	return selections, nil
}
