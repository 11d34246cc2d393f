package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizquest/quiz-service/internal/services"
	"github.com/quizquest/quiz-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	service   services.AuthService
	cookieTTL int
}

func NewAuthHandler(service services.AuthService, cookieTTLSeconds int, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		cookieTTL:   cookieTTLSeconds,
	}
}

type authResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// RegisterForm describes the registration endpoint for clients that fetch
// it with a GET before posting.
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields": []string{"username", "email", "password1", "password2"},
	})
}

// Register creates the account and opens a session in the same request.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	// Registration never grants admin directly.
	req.Role = ""

	user, token, err := h.service.Register(c.Request.Context(), &req, requestMeta(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, authResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	})
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields": []string{"username", "password"},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), &req, requestMeta(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, authResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	})
}

// Logout revokes the session, clears the cookie and sends the browser home.
func (h *AuthHandler) Logout(c *gin.Context) {
	user := CurrentUser(c)
	if user != nil {
		if err := h.service.Logout(c.Request.Context(), CurrentSessionID(c), user.ID, requestMeta(c)); err != nil {
			h.handleServiceError(c, err)
			return
		}
	}

	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(SessionCookieName, token, h.cookieTTL, "/", "", false, true)
}
