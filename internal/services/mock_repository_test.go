package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/quizquest/quiz-service/internal/models"
	"github.com/quizquest/quiz-service/internal/repositories"
)

// mockState is the in-memory backing store shared by the mock
// sub-repositories. WithTransaction clones it and swaps the clone in only
// when the unit of work succeeds, so rollback behavior is observable.
type mockState struct {
	mu          sync.Mutex
	nextID      uint
	users       []models.User
	quizzes     []models.Quiz
	submissions []models.QuizSubmission
	answers     []models.Answer
	auditLogs   []models.AuditLog

	// questionUpdateErr, when set, fails the next question Update. Lets
	// tests exercise rollback paths.
	questionUpdateErr error
}

func (s *mockState) id() uint {
	s.nextID++
	return s.nextID
}

func (s *mockState) clone() *mockState {
	c := &mockState{nextID: s.nextID, questionUpdateErr: s.questionUpdateErr}
	c.users = append([]models.User(nil), s.users...)
	c.submissions = append([]models.QuizSubmission(nil), s.submissions...)
	c.answers = append([]models.Answer(nil), s.answers...)
	c.auditLogs = append([]models.AuditLog(nil), s.auditLogs...)
	for _, quiz := range s.quizzes {
		q := quiz
		q.Questions = append([]models.Question(nil), quiz.Questions...)
		for i := range q.Questions {
			q.Questions[i].Choices = append([]models.Choice(nil), quiz.Questions[i].Choices...)
		}
		c.quizzes = append(c.quizzes, q)
	}
	return c
}

func (s *mockState) adopt(other *mockState) {
	s.nextID = other.nextID
	s.users = other.users
	s.quizzes = other.quizzes
	s.submissions = other.submissions
	s.answers = other.answers
	s.auditLogs = other.auditLogs
}

type mockRepository struct {
	state *mockState
}

func newMockRepository() *mockRepository {
	return &mockRepository{state: &mockState{}}
}

func (r *mockRepository) User() repositories.UserRepository             { return &mockUserRepo{r.state} }
func (r *mockRepository) Quiz() repositories.QuizRepository             { return &mockQuizRepo{r.state} }
func (r *mockRepository) Question() repositories.QuestionRepository     { return &mockQuestionRepo{r.state} }
func (r *mockRepository) Submission() repositories.SubmissionRepository { return &mockSubmissionRepo{r.state} }
func (r *mockRepository) AuditLog() repositories.AuditLogRepository     { return &mockAuditRepo{r.state} }
func (r *mockRepository) Dashboard() repositories.DashboardRepository   { return &mockDashboardRepo{r.state} }

func (r *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	tx := r.state.clone()
	if err := fn(&mockRepository{state: tx}); err != nil {
		return err
	}
	r.state.adopt(tx)
	return nil
}

func (r *mockRepository) Ping(ctx context.Context) error { return nil }

// ===== USERS =====

type mockUserRepo struct{ state *mockState }

func (r *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = r.state.id()
	user.CreatedAt = time.Now()
	r.state.users = append(r.state.users, *user)
	return nil
}

func (r *mockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	for i := range r.state.users {
		if r.state.users[i].ID == id {
			u := r.state.users[i]
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for i := range r.state.users {
		if r.state.users[i].Username == username {
			u := r.state.users[i]
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	for i := range r.state.users {
		if r.state.users[i].Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for i := range r.state.users {
		if strings.EqualFold(r.state.users[i].Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var out []*models.User
	for i := range r.state.users {
		if filters.Role != nil && r.state.users[i].Role != *filters.Role {
			continue
		}
		u := r.state.users[i]
		out = append(out, &u)
	}
	return out, int64(len(out)), nil
}

// ===== QUIZZES =====

type mockQuizRepo struct{ state *mockState }

func (r *mockQuizRepo) Create(ctx context.Context, quiz *models.Quiz) error {
	quiz.ID = r.state.id()
	quiz.CreatedAt = time.Now()
	for i := range quiz.Questions {
		quiz.Questions[i].ID = r.state.id()
		quiz.Questions[i].QuizID = &quiz.ID
		for j := range quiz.Questions[i].Choices {
			quiz.Questions[i].Choices[j].ID = r.state.id()
			quiz.Questions[i].Choices[j].QuestionID = quiz.Questions[i].ID
		}
	}
	r.state.quizzes = append(r.state.quizzes, *quiz)
	return nil
}

func (r *mockQuizRepo) Update(ctx context.Context, quiz *models.Quiz) error {
	for i := range r.state.quizzes {
		if r.state.quizzes[i].ID == quiz.ID {
			r.state.quizzes[i] = *quiz
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *mockQuizRepo) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	for i := range r.state.quizzes {
		if r.state.quizzes[i].ID == id {
			q := r.state.quizzes[i]
			return &q, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockQuizRepo) GetActiveWithQuestions(ctx context.Context, id uint) (*models.Quiz, error) {
	for i := range r.state.quizzes {
		if r.state.quizzes[i].ID == id && r.state.quizzes[i].IsActive {
			q := r.state.quizzes[i]
			var active []models.Question
			for _, question := range q.Questions {
				if question.IsActive {
					active = append(active, question)
				}
			}
			q.Questions = active
			return &q, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockQuizRepo) ListActive(ctx context.Context) ([]*models.Quiz, error) {
	var out []*models.Quiz
	for i := range r.state.quizzes {
		if r.state.quizzes[i].IsActive {
			q := r.state.quizzes[i]
			out = append(out, &q)
		}
	}
	return out, nil
}

func (r *mockQuizRepo) ListActiveExcluding(ctx context.Context, exclude []uint, limit int) ([]*models.Quiz, error) {
	excluded := make(map[uint]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}
	var out []*models.Quiz
	for i := range r.state.quizzes {
		if len(out) >= limit {
			break
		}
		if r.state.quizzes[i].IsActive && !excluded[r.state.quizzes[i].ID] {
			q := r.state.quizzes[i]
			out = append(out, &q)
		}
	}
	return out, nil
}

func (r *mockQuizRepo) SetActive(ctx context.Context, id uint, active bool) error {
	for i := range r.state.quizzes {
		if r.state.quizzes[i].ID == id {
			r.state.quizzes[i].IsActive = active
			return nil
		}
	}
	return repositories.ErrNotFound
}

// ===== QUESTIONS =====

type mockQuestionRepo struct{ state *mockState }

func (r *mockQuestionRepo) find(id uint) (*models.Question, bool) {
	for i := range r.state.quizzes {
		for j := range r.state.quizzes[i].Questions {
			if r.state.quizzes[i].Questions[j].ID == id {
				return &r.state.quizzes[i].Questions[j], true
			}
		}
	}
	return nil, false
}

func (r *mockQuestionRepo) Create(ctx context.Context, question *models.Question) error {
	question.ID = r.state.id()
	question.CreatedAt = time.Now()
	for i := range question.Choices {
		question.Choices[i].ID = r.state.id()
		question.Choices[i].QuestionID = question.ID
	}
	// Bank questions live on a synthetic quiz-less holder; the mock keeps
	// them in a hidden inactive quiz with ID 0.
	for i := range r.state.quizzes {
		if r.state.quizzes[i].ID == 0 {
			r.state.quizzes[i].Questions = append(r.state.quizzes[i].Questions, *question)
			return nil
		}
	}
	r.state.quizzes = append(r.state.quizzes, models.Quiz{
		ID:        0,
		Questions: []models.Question{*question},
	})
	return nil
}

func (r *mockQuestionRepo) Update(ctx context.Context, question *models.Question) error {
	if r.state.questionUpdateErr != nil {
		return r.state.questionUpdateErr
	}
	existing, ok := r.find(question.ID)
	if !ok {
		return repositories.ErrNotFound
	}
	*existing = *question
	return nil
}

func (r *mockQuestionRepo) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	return r.GetByIDWithChoices(ctx, id)
}

func (r *mockQuestionRepo) GetByIDWithChoices(ctx context.Context, id uint) (*models.Question, error) {
	existing, ok := r.find(id)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	q := *existing
	q.Choices = append([]models.Choice(nil), existing.Choices...)
	return &q, nil
}

func (r *mockQuestionRepo) ListActive(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	var out []*models.Question
	for i := range r.state.quizzes {
		for j := range r.state.quizzes[i].Questions {
			question := r.state.quizzes[i].Questions[j]
			if !question.IsActive {
				continue
			}
			if filters.BankOnly && question.QuizID != nil {
				continue
			}
			if filters.Difficulty != nil && question.Difficulty != *filters.Difficulty {
				continue
			}
			if filters.Category != nil && question.Category != *filters.Category {
				continue
			}
			q := question
			out = append(out, &q)
		}
	}
	return out, int64(len(out)), nil
}

func (r *mockQuestionRepo) SetActive(ctx context.Context, id uint, active bool) error {
	existing, ok := r.find(id)
	if !ok {
		return repositories.ErrNotFound
	}
	existing.IsActive = active
	return nil
}

func (r *mockQuestionRepo) ReplaceChoices(ctx context.Context, questionID uint, choices []models.Choice) error {
	existing, ok := r.find(questionID)
	if !ok {
		return repositories.ErrNotFound
	}
	for i := range choices {
		if choices[i].ID == 0 {
			choices[i].ID = r.state.id()
		}
		choices[i].QuestionID = questionID
	}
	existing.Choices = choices
	return nil
}

func (r *mockQuestionRepo) AttachToQuiz(ctx context.Context, questionID uint, quizID uint) error {
	existing, ok := r.find(questionID)
	if !ok {
		return repositories.ErrNotFound
	}
	moved := *existing
	moved.QuizID = &quizID

	// Detach from the current holder, then append to the target quiz.
	for i := range r.state.quizzes {
		questions := r.state.quizzes[i].Questions
		for j := range questions {
			if questions[j].ID == questionID {
				r.state.quizzes[i].Questions = append(questions[:j], questions[j+1:]...)
				break
			}
		}
	}
	for i := range r.state.quizzes {
		if r.state.quizzes[i].ID == quizID {
			r.state.quizzes[i].Questions = append(r.state.quizzes[i].Questions, moved)
			return nil
		}
	}
	return repositories.ErrNotFound
}

// ===== SUBMISSIONS =====

type mockSubmissionRepo struct{ state *mockState }

func (r *mockSubmissionRepo) Create(ctx context.Context, submission *models.QuizSubmission) error {
	submission.ID = r.state.id()
	submission.SubmittedAt = time.Now()
	r.state.submissions = append(r.state.submissions, *submission)
	return nil
}

func (r *mockSubmissionRepo) Update(ctx context.Context, submission *models.QuizSubmission) error {
	for i := range r.state.submissions {
		if r.state.submissions[i].ID == submission.ID {
			r.state.submissions[i] = *submission
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *mockSubmissionRepo) CreateAnswers(ctx context.Context, answers []models.Answer) error {
	for i := range answers {
		answers[i].ID = r.state.id()
		r.state.answers = append(r.state.answers, answers[i])
	}
	return nil
}

func (r *mockSubmissionRepo) GetByIDWithDetails(ctx context.Context, id uint) (*models.QuizSubmission, error) {
	for i := range r.state.submissions {
		if r.state.submissions[i].ID != id {
			continue
		}
		sub := r.state.submissions[i]
		for j := range r.state.quizzes {
			if r.state.quizzes[j].ID == sub.QuizID {
				quiz := r.state.quizzes[j]
				sub.Quiz = &quiz
			}
		}
		for j := range r.state.answers {
			if r.state.answers[j].SubmissionID != id {
				continue
			}
			answer := r.state.answers[j]
			if question, ok := (&mockQuestionRepo{r.state}).find(answer.QuestionID); ok {
				q := *question
				answer.Question = &q
				if answer.SelectedChoiceID != nil {
					for k := range q.Choices {
						if q.Choices[k].ID == *answer.SelectedChoiceID {
							choice := q.Choices[k]
							answer.SelectedChoice = &choice
						}
					}
				}
			}
			sub.Answers = append(sub.Answers, answer)
		}
		return &sub, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *mockSubmissionRepo) ListByUser(ctx context.Context, userID uint, filters repositories.SubmissionFilters) ([]*models.QuizSubmission, int64, error) {
	var out []*models.QuizSubmission
	for i := range r.state.submissions {
		if r.state.submissions[i].UserID != userID {
			continue
		}
		if filters.QuizID != nil && r.state.submissions[i].QuizID != *filters.QuizID {
			continue
		}
		sub := r.state.submissions[i]
		for j := range r.state.quizzes {
			if r.state.quizzes[j].ID == sub.QuizID {
				quiz := r.state.quizzes[j]
				sub.Quiz = &quiz
			}
		}
		out = append(out, &sub)
	}
	total := int64(len(out))
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, total, nil
}

func (r *mockSubmissionRepo) AverageScoreByUser(ctx context.Context, userID uint) (*float64, error) {
	sum, count := 0, 0
	for i := range r.state.submissions {
		if r.state.submissions[i].UserID == userID {
			sum += r.state.submissions[i].Score
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	avg := float64(sum) / float64(count)
	return &avg, nil
}

func (r *mockSubmissionRepo) AttemptedQuizIDs(ctx context.Context, userID uint) ([]uint, error) {
	seen := make(map[uint]bool)
	var out []uint
	for i := range r.state.submissions {
		sub := r.state.submissions[i]
		if sub.UserID == userID && !seen[sub.QuizID] {
			seen[sub.QuizID] = true
			out = append(out, sub.QuizID)
		}
	}
	return out, nil
}

func (r *mockSubmissionRepo) ListRecent(ctx context.Context, limit int) ([]*models.QuizSubmission, error) {
	var out []*models.QuizSubmission
	for i := len(r.state.submissions) - 1; i >= 0 && len(out) < limit; i-- {
		sub := r.state.submissions[i]
		out = append(out, &sub)
	}
	return out, nil
}

func (r *mockSubmissionRepo) ListAllWithDetails(ctx context.Context) ([]*models.QuizSubmission, error) {
	var out []*models.QuizSubmission
	for i := range r.state.submissions {
		sub := r.state.submissions[i]
		for j := range r.state.quizzes {
			if r.state.quizzes[j].ID == sub.QuizID {
				quiz := r.state.quizzes[j]
				sub.Quiz = &quiz
			}
		}
		for j := range r.state.users {
			if r.state.users[j].ID == sub.UserID {
				user := r.state.users[j]
				sub.User = &user
			}
		}
		out = append(out, &sub)
	}
	return out, nil
}

// ===== AUDIT LOGS =====

type mockAuditRepo struct{ state *mockState }

func (r *mockAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	entry.ID = r.state.id()
	r.state.auditLogs = append(r.state.auditLogs, *entry)
	return nil
}

func (r *mockAuditRepo) List(ctx context.Context, filters repositories.AuditLogFilters) ([]*models.AuditLog, int64, error) {
	var out []*models.AuditLog
	for i := range r.state.auditLogs {
		entry := r.state.auditLogs[i]
		if filters.UserID != nil && (entry.UserID == nil || *entry.UserID != *filters.UserID) {
			continue
		}
		if filters.Action != nil && entry.Action != *filters.Action {
			continue
		}
		if filters.ModelName != nil && entry.ModelName != *filters.ModelName {
			continue
		}
		out = append(out, &entry)
	}
	total := int64(len(out))
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, total, nil
}

func (r *mockAuditRepo) ListRecent(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	var out []*models.AuditLog
	for i := len(r.state.auditLogs) - 1; i >= 0 && len(out) < limit; i-- {
		entry := r.state.auditLogs[i]
		out = append(out, &entry)
	}
	return out, nil
}

// ===== DASHBOARD =====

type mockDashboardRepo struct{ state *mockState }

func (r *mockDashboardRepo) Totals(ctx context.Context) (*repositories.SystemTotals, error) {
	totals := &repositories.SystemTotals{
		Users:       int64(len(r.state.users)),
		Submissions: int64(len(r.state.submissions)),
	}
	for i := range r.state.quizzes {
		if r.state.quizzes[i].ID != 0 {
			totals.Quizzes++
		}
		totals.Questions += int64(len(r.state.quizzes[i].Questions))
	}
	return totals, nil
}

func (r *mockDashboardRepo) RecentQuizzes(ctx context.Context, limit int) ([]*models.Quiz, error) {
	var out []*models.Quiz
	for i := len(r.state.quizzes) - 1; i >= 0 && len(out) < limit; i-- {
		if r.state.quizzes[i].ID == 0 {
			continue
		}
		q := r.state.quizzes[i]
		out = append(out, &q)
	}
	return out, nil
}

func (r *mockDashboardRepo) ActiveQuizCount(ctx context.Context) (int64, error) {
	var count int64
	for i := range r.state.quizzes {
		if r.state.quizzes[i].ID != 0 && r.state.quizzes[i].IsActive {
			count++
		}
	}
	return count, nil
}

func (r *mockDashboardRepo) ActiveQuestionCount(ctx context.Context) (int64, error) {
	var count int64
	for i := range r.state.quizzes {
		for j := range r.state.quizzes[i].Questions {
			if r.state.quizzes[i].Questions[j].IsActive {
				count++
			}
		}
	}
	return count, nil
}
