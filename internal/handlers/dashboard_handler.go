package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quizquest/quiz-service/internal/models"
	"github.com/quizquest/quiz-service/internal/repositories"
	"github.com/quizquest/quiz-service/internal/services"
	"github.com/quizquest/quiz-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	dashboards services.DashboardService
	audits     services.AuditService
	reports    services.ReportService
}

func NewDashboardHandler(
	dashboards services.DashboardService,
	audits services.AuditService,
	reports services.ReportService,
	logger utils.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		dashboards:  dashboards,
		audits:      audits,
		reports:     reports,
	}
}

// Landing is the public home payload: active content counts.
func (h *DashboardHandler) Landing(c *gin.Context) {
	stats, err := h.dashboards.Landing(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Dashboard serves the role-conditional overview: admins get the system
// view, everyone else their own attempt history.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	user := CurrentUser(c)

	if user.IsAdmin() {
		overview, err := h.dashboards.AdminOverview(c.Request.Context())
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, overview)
		return
	}

	overview, err := h.dashboards.StudentOverview(c.Request.Context(), user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// AdminDashboard serves the system-wide overview. Admin only.
func (h *DashboardHandler) AdminDashboard(c *gin.Context) {
	overview, err := h.dashboards.AdminOverview(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// ExportSubmissions streams the full submission history as an XLSX
// workbook. Admin only.
func (h *DashboardHandler) ExportSubmissions(c *gin.Context) {
	workbook, err := h.reports.SubmissionsWorkbook(c.Request.Context(), CurrentUser(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer workbook.Close()

	filename := "submissions-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		utils.FromContext(c, h.logger).Error("failed to stream workbook", "error", err)
	}
}

// ListAuditLogs returns paginated audit entries with optional filters.
// Admin only.
func (h *DashboardHandler) ListAuditLogs(c *gin.Context) {
	filters := repositories.AuditLogFilters{Limit: 20}
	if v := c.Query("user_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			userID := uint(id)
			filters.UserID = &userID
		}
	}
	if v := c.Query("action"); v != "" {
		action := models.AuditAction(v)
		filters.Action = &action
	}
	if v := c.Query("model"); v != "" {
		filters.ModelName = &v
	}
	if v := c.Query("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 1 {
			filters.Offset = (page - 1) * filters.Limit
		}
	}

	resp, err := h.audits.List(c.Request.Context(), filters, CurrentUser(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
