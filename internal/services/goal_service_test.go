package services

import (
	"errors"
	"testing"

	"taskassistant/internal/apperr"
	"taskassistant/internal/models"

	"github.com/google/uuid"
)

func TestGoal_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	lead := env.seedUser(t, "lead@test", models.RoleLeadInstructor)
	student := env.seedUser(t, "student@test", models.RoleStudent)

	goal, err := env.goals.Create(lead, "Pass the semester", "all mandatory tasks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := env.goals.Get(goal.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Pass the semester" {
		t.Errorf("title not stored")
	}

	if _, err := env.goals.Create(student, "mine", ""); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("student: expected Forbidden, got %v", err)
	}
	if _, err := env.goals.Create(lead, "", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("empty title: expected Validation, got %v", err)
	}
}

func TestGoal_LinkTask(t *testing.T) {
	env := newTestEnv(t)
	lead := env.seedUser(t, "lead@test", models.RoleLeadInstructor)
	task := env.seedTask(t, lead, nil)

	goal, err := env.goals.Create(lead, "Semester", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := env.goals.LinkTask(goal.ID, task.ID, lead); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.goals.LinkTask(goal.ID, task.ID, lead); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("double link: expected Conflict, got %v", err)
	}

	if _, err := env.goals.LinkTask(uuid.New(), task.ID, lead); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing goal: expected NotFound, got %v", err)
	}
	if _, err := env.goals.LinkTask(goal.ID, uuid.New(), lead); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing task: expected NotFound, got %v", err)
	}

	if err := env.goals.UnlinkTask(goal.ID, task.ID, lead); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := env.goals.UnlinkTask(goal.ID, task.ID, lead); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unlink of unlinked: expected NotFound, got %v", err)
	}
}

func TestGoal_DeleteCascadesLinks(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@test", models.RoleAdmin)
	task := env.seedTask(t, admin, nil)

	goal, err := env.goals.Create(admin, "Semester", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.goals.LinkTask(goal.ID, task.ID, admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := env.goals.Delete(goal.ID, admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := env.countRows(t, &models.GoalTaskLink{}); n != 0 {
		t.Errorf("expected links removed with goal, got %d", n)
	}
	// Задача переживает удаление цели
	if n := env.countRows(t, &models.Task{}); n != 1 {
		t.Errorf("task must survive goal deletion")
	}
}

func TestGoal_RoleGate(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@test", models.RoleAdmin)
	guest := env.seedUser(t, "guest@test", models.RoleGuestInstructor)
	task := env.seedTask(t, admin, nil)

	goal, err := env.goals.Create(admin, "Semester", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := env.goals.LinkTask(goal.ID, task.ID, guest); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("guest link: expected Forbidden, got %v", err)
	}
	if err := env.goals.Delete(goal.ID, guest); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("guest delete: expected Forbidden, got %v", err)
	}
}
