package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/quizquest/quiz-service/internal/repositories"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// normalizePage clamps limit/offset to sane bounds.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// translateError maps gorm's missing-record error to the repository sentinel.
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	return err
}
