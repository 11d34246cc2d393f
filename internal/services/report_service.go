package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/quizquest/quiz-service/internal/models"
	"github.com/quizquest/quiz-service/internal/repositories"
)

const submissionsSheet = "Submissions"

var submissionsHeader = []string{"Submission ID", "Username", "Quiz", "Score", "Submitted At"}

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
	}
}

// SubmissionsWorkbook renders every submission into a single-sheet XLSX
// workbook, newest first. Admin only.
func (s *reportService) SubmissionsWorkbook(ctx context.Context, actor *models.User) (*excelize.File, error) {
	if !actor.Role.Can(models.ActionExportReports) {
		return nil, NewPermissionError(actor.ID, 0, "report", "export", "admin role required")
	}

	submissions, err := s.repo.Submission().ListAllWithDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", submissionsSheet)

	for col, title := range submissionsHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(submissionsSheet, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, sub := range submissions {
		row := i + 2

		username := ""
		if sub.User != nil {
			username = sub.User.Username
		}
		quizTitle := ""
		if sub.Quiz != nil {
			quizTitle = sub.Quiz.Title
		}

		values := []interface{}{
			sub.ID,
			username,
			quizTitle,
			sub.Score,
			sub.SubmittedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(submissionsSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	s.logger.Info("submissions workbook generated",
		"user_id", actor.ID,
		"rows", len(submissions))

	return f, nil
}
