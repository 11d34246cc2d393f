package models

import (
	"sync"
	"testing"

	"gorm.io/gorm/schema"
)

func parseRelation(t *testing.T, model interface{}, name string) *schema.Relationship {
	t.Helper()

	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	rel, ok := s.Relationships.Relations[name]
	if !ok {
		t.Fatalf("relation %q not found", name)
	}
	return rel
}

func assertOnDelete(t *testing.T, rel *schema.Relationship, want string) {
	t.Helper()

	constraint := rel.ParseConstraint()
	if constraint == nil {
		t.Fatalf("relation %s has no foreign key constraint", rel.Name)
	}
	if constraint.OnDelete != want {
		t.Fatalf("relation %s OnDelete = %q, want %q", rel.Name, constraint.OnDelete, want)
	}
}

func TestAnswerDeleteActions(t *testing.T) {
	assertOnDelete(t, parseRelation(t, &Answer{}, "Question"), "CASCADE")
	assertOnDelete(t, parseRelation(t, &Answer{}, "SelectedChoice"), "SET NULL")
}

func TestSubmissionAnswersCascade(t *testing.T) {
	assertOnDelete(t, parseRelation(t, &QuizSubmission{}, "Answers"), "CASCADE")
}

func TestAuditLogUserSetNull(t *testing.T) {
	assertOnDelete(t, parseRelation(t, &AuditLog{}, "User"), "SET NULL")
}
