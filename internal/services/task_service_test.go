package services

import (
	"errors"
	"sync"
	"testing"

	"taskassistant/internal/apperr"
	"taskassistant/internal/models"

	"github.com/google/uuid"
)

func TestCreateTask_Defaults(t *testing.T) {
	env := newTestEnv(t)
	lead := env.seedUser(t, "lead@test", models.RoleLeadInstructor)

	task, err := env.tasks.Create(lead, CreateTaskInput{Title: "Write report"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != models.StatusPending {
		t.Errorf("expected status pending, got %s", task.Status)
	}
	if task.Progress != 0 {
		t.Errorf("expected progress 0, got %d", task.Progress)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("expected default priority medium, got %s", task.Priority)
	}
	if task.CreatorID != lead.ID {
		t.Errorf("creator not recorded")
	}
	if task.AssigneeID != nil {
		t.Errorf("expected no assignee")
	}
}

func TestCreateTask_RoleGate(t *testing.T) {
	env := newTestEnv(t)
	guest := env.seedUser(t, "guest@test", models.RoleGuestInstructor)
	student := env.seedUser(t, "student@test", models.RoleStudent)

	for _, p := range []models.Principal{guest, student} {
		_, err := env.tasks.Create(p, CreateTaskInput{Title: "Nope"})
		if !errors.Is(err, apperr.ErrForbidden) {
			t.Errorf("role %s: expected Forbidden, got %v", p.Role, err)
		}
	}
}

func TestFindOne_NotFoundAndForbidden(t *testing.T) {
	env := newTestEnv(t)
	lead := env.seedUser(t, "lead@test", models.RoleLeadInstructor)
	stranger := env.seedUser(t, "stranger@test", models.RoleStudent)
	admin := env.seedUser(t, "admin@test", models.RoleAdmin)
	task := env.seedTask(t, lead, nil)

	if _, err := env.tasks.FindOne(uuid.New(), admin); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected NotFound for missing id, got %v", err)
	}
	if _, err := env.tasks.FindOne(task.ID, stranger); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected Forbidden for stranger, got %v", err)
	}
	if _, err := env.tasks.FindOne(task.ID, lead); err != nil {
		t.Errorf("creator must see the task: %v", err)
	}
	if _, err := env.tasks.FindOne(task.ID, admin); err != nil {
		t.Errorf("admin must see the task: %v", err)
	}
}

func TestFindAll_Visibility(t *testing.T) {
	env := newTestEnv(t)
	lead := env.seedUser(t, "lead@test", models.RoleLeadInstructor)
	admin := env.seedUser(t, "admin@test", models.RoleAdmin)
	student := env.seedUser(t, "student@test", models.RoleStudent)

	env.seedTask(t, lead, nil)
	env.seedTask(t, lead, &student)
	env.seedTask(t, admin, nil)

	all, err := env.tasks.FindAll(admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("admin: expected 3 tasks, got %d", len(all))
	}

	mine, err := env.tasks.FindAll(student)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("student: expected 1 assigned task, got %d", len(mine))
	}

	leads, err := env.tasks.FindAll(lead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leads) != 2 {
		t.Errorf("lead: expected 2 created tasks, got %d", len(leads))
	}
}

func TestUpdate_OwnershipAndPatch(t *testing.T) {
	env := newTestEnv(t)
	lead := env.seedUser(t, "lead@test", models.RoleLeadInstructor)
	other := env.seedUser(t, "other@test", models.RoleLeadInstructor)
	task := env.seedTask(t, lead, nil)

	// Другой инструктор - не создатель и не администратор
	title := "Hijacked"
	if _, err := env.tasks.Update(task.ID, other, UpdateTaskInput{Title: &title}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected Forbidden for non-creator, got %v", err)
	}

	// Частичный патч меняет только переданные поля
	newTitle := "Renamed"
	updated, err := env.tasks.Update(task.ID, lead, UpdateTaskInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Errorf("title not updated")
	}
	if updated.Priority != models.PriorityMedium {
		t.Errorf("priority must be untouched, got %s", updated.Priority)
	}

	badStatus := models.TaskStatus("bogus")
	if _, err := env.tasks.Update(task.ID, lead, UpdateTaskInput{Status: &badStatus}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected Validation for unknown status, got %v", err)
	}
}

func TestUpdateProgress_DerivesStatus(t *testing.T) {
	env := newTestEnv(t)
	lead := env.seedUser(t, "lead@test", models.RoleLeadInstructor)
	student := env.seedUser(t, "student@test", models.RoleStudent)
	task := env.seedTask(t, lead, &student)

	cases := []struct {
		percentage int
		progress   int
		status     models.TaskStatus
	}{
		{50, 50, models.StatusInProgress},
		{100, 100, models.StatusCompleted},
		{0, 0, models.StatusPending}, // откат назад разрешен
		{150, 100, models.StatusCompleted},
		{-10, 0, models.StatusPending},
	}

	for _, tc := range cases {
		updated, err := env.tasks.UpdateProgress(task.ID, student, tc.percentage)
		if err != nil {
			t.Fatalf("percentage %d: unexpected error: %v", tc.percentage, err)
		}
		if updated.Progress != tc.progress {
			t.Errorf("percentage %d: expected progress %d, got %d", tc.percentage, tc.progress, updated.Progress)
		}
		if updated.Status != tc.status {
			t.Errorf("percentage %d: expected status %s, got %s", tc.percentage, tc.status, updated.Status)
		}
	}
}

func TestUpdateProgress_AssigneeOnly(t *testing.T) {
	env := newTestEnv(t)
	lead := env.seedUser(t, "lead@test", models.RoleLeadInstructor)
	admin := env.seedUser(t, "admin@test", models.RoleAdmin)
	student := env.seedUser(t, "student@test", models.RoleStudent)
	other := env.seedUser(t, "other@test", models.RoleStudent)
	task := env.seedTask(t, lead, &student)

	// Создатель и администратор отчитываются за исполнителя не могут
	for _, p := range []models.Principal{lead, admin, other} {
		if _, err := env.tasks.UpdateProgress(task.ID, p, 10); !errors.Is(err, apperr.ErrForbidden) {
			t.Errorf("%s: expected Forbidden, got %v", p.Email, err)
		}
	}

	if _, err := env.tasks.UpdateProgress(task.ID, student, 10); err != nil {
		t.Errorf("assignee must be allowed: %v", err)
	}
}

func TestAssign_ResetsProgress(t *testing.T) {
	env := newTestEnv(t)
	lead := env.seedUser(t, "lead@test", models.RoleLeadInstructor)
	student1 := env.seedUser(t, "student1@test", models.RoleStudent)
	student2 := env.seedUser(t, "student2@test", models.RoleStudent)
	task := env.seedTask(t, lead, &student1)

	if _, err := env.tasks.UpdateProgress(task.ID, student1, 70); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reassigned, err := env.tasks.Assign(task.ID, student2.ID, lead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reassigned.Progress != 0 {
		t.Errorf("reassignment must reset progress, got %d", reassigned.Progress)
	}
	if reassigned.Status != models.StatusPending {
		t.Errorf("reassignment must reset status, got %s", reassigned.Status)
	}
	if reassigned.AssigneeID == nil || *reassigned.AssigneeID != student2.ID {
		t.Errorf("assignee not updated")
	}
}

func TestAssign_Validation(t *testing.T) {
	env := newTestEnv(t)
	lead := env.seedUser(t, "lead@test", models.RoleLeadInstructor)
	guest := env.seedUser(t, "guest@test", models.RoleGuestInstructor)
	student := env.seedUser(t, "student@test", models.RoleStudent)
	task := env.seedTask(t, lead, nil)

	if _, err := env.tasks.Assign(uuid.New(), student.ID, lead); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing task: expected NotFound, got %v", err)
	}
	if _, err := env.tasks.Assign(task.ID, uuid.New(), lead); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing assignee: expected NotFound, got %v", err)
	}
	if _, err := env.tasks.Assign(task.ID, guest.ID, lead); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("non-student assignee: expected Validation, got %v", err)
	}
	if _, err := env.tasks.Assign(task.ID, student.ID, guest); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("guest instructor: expected Forbidden, got %v", err)
	}
}

func TestLogTime_Validation(t *testing.T) {
	env := newTestEnv(t)
	lead := env.seedUser(t, "lead@test", models.RoleLeadInstructor)
	student := env.seedUser(t, "student@test", models.RoleStudent)
	task := env.seedTask(t, lead, &student)

	for _, minutes := range []int{0, -5} {
		if _, err := env.tasks.LogTime(task.ID, student, minutes); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("minutes %d: expected Validation, got %v", minutes, err)
		}
	}
	if _, err := env.tasks.LogTime(task.ID, lead, 30); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("creator: expected Forbidden, got %v", err)
	}

	updated, err := env.tasks.LogTime(task.ID, student, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.LoggedTimeMinutes != 30 {
		t.Errorf("expected 30 minutes, got %d", updated.LoggedTimeMinutes)
	}
}

func TestLogTime_ConcurrentCallsDoNotLoseMinutes(t *testing.T) {
	env := newTestEnv(t)
	lead := env.seedUser(t, "lead@test", models.RoleLeadInstructor)
	student := env.seedUser(t, "student@test", models.RoleStudent)
	task := env.seedTask(t, lead, &student)

	const workers = 20
	const minutes = 7

	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.tasks.LogTime(task.ID, student, minutes); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	final, err := env.tasks.FindOne(task.ID, student)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if final.LoggedTimeMinutes != workers*minutes {
		t.Errorf("expected %d minutes, got %d", workers*minutes, final.LoggedTimeMinutes)
	}
}

func TestGrade_PreconditionAndScoreRange(t *testing.T) {
	env := newTestEnv(t)
	lead := env.seedUser(t, "lead@test", models.RoleLeadInstructor)
	student := env.seedUser(t, "student@test", models.RoleStudent)
	task := env.seedTask(t, lead, &student)

	// pending
	if _, err := env.tasks.Grade(task.ID, lead, 80, ""); !errors.Is(err, apperr.ErrPrecondition) {
		t.Errorf("pending: expected PreconditionFailed, got %v", err)
	}

	// in_progress
	if _, err := env.tasks.UpdateProgress(task.ID, student, 40); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.tasks.Grade(task.ID, lead, 80, ""); !errors.Is(err, apperr.ErrPrecondition) {
		t.Errorf("in_progress: expected PreconditionFailed, got %v", err)
	}

	// completed: вне диапазона отклоняется, не приводится
	if _, err := env.tasks.UpdateProgress(task.ID, student, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, score := range []int{-1, 101} {
		if _, err := env.tasks.Grade(task.ID, lead, score, ""); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("score %d: expected Validation, got %v", score, err)
		}
	}

	grade, err := env.tasks.Grade(task.ID, lead, 85, "solid work")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if grade.Score != 85 || grade.GraderID != lead.ID {
		t.Errorf("grade fields wrong: %+v", grade)
	}

	grades, err := env.tasks.Grades(task.ID, lead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(grades) != 1 {
		t.Fatalf("expected 1 grade, got %d", len(grades))
	}

	// Исполнителю записано уведомление об оценке
	notifications, err := env.notifications.List(student)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, n := range notifications {
		if n.Type == models.NotificationGradeReceived {
			found = true
		}
	}
	if !found {
		t.Errorf("expected grade_received notification for assignee")
	}
}

func TestPin_ConflictAndNotFound(t *testing.T) {
	env := newTestEnv(t)
	lead := env.seedUser(t, "lead@test", models.RoleLeadInstructor)
	student := env.seedUser(t, "student@test", models.RoleStudent)
	task := env.seedTask(t, lead, &student)

	if _, err := env.tasks.Pin(task.ID, student); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.tasks.Pin(task.ID, student); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("double pin: expected Conflict, got %v", err)
	}

	// Закладки разных пользователей независимы
	if _, err := env.tasks.Pin(task.ID, lead); err != nil {
		t.Errorf("other user pin must succeed: %v", err)
	}

	if err := env.tasks.Unpin(task.ID, student); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := env.tasks.Unpin(task.ID, student); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unpin of non-pinned: expected NotFound, got %v", err)
	}
}

func TestLinkTag_ConflictAndNotFound(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@test", models.RoleAdmin)
	student := env.seedUser(t, "student@test", models.RoleStudent)
	task := env.seedTask(t, admin, &student)

	color, err := env.tags.CreateColor(admin, "#ff0000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Вязка этикетки открыта любому аутентифицированному пользователю
	if _, err := env.tasks.LinkTag(task.ID, color.ID, models.TagColor, student); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.tasks.LinkTag(task.ID, color.ID, models.TagColor, student); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("double link: expected Conflict, got %v", err)
	}

	if _, err := env.tasks.LinkTag(task.ID, uuid.New(), models.TagColor, student); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing master tag: expected NotFound, got %v", err)
	}
	if _, err := env.tasks.LinkTag(task.ID, color.ID, models.TagKind("shape"), student); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("unknown kind: expected Validation, got %v", err)
	}

	links, err := env.tasks.Tags(task.ID, student)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 1 || links[0].TagID != color.ID {
		t.Errorf("expected one color link, got %+v", links)
	}

	if err := env.tasks.UnlinkTag(task.ID, color.ID, models.TagColor, student); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := env.tasks.UnlinkTag(task.ID, color.ID, models.TagColor, student); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unlink of unlinked: expected NotFound, got %v", err)
	}
}

func TestRemove_CascadesDependents(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@test", models.RoleAdmin)
	student := env.seedUser(t, "student@test", models.RoleStudent)
	task := env.seedTask(t, admin, &student)

	// Наполняем задачу зависимыми записями
	color, err := env.tags.CreateColor(admin, "#00ff00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.tasks.LinkTag(task.ID, color.ID, models.TagColor, student); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.tasks.Pin(task.ID, student); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.tasks.AddLinkResource(task.ID, admin, "Docs", "https://example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.comments.Create(task.ID, student, "done soon", []uuid.UUID{admin.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.tasks.UpdateProgress(task.ID, student, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.tasks.Grade(task.ID, admin, 90, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	goal, err := env.goals.Create(admin, "Semester", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.goals.LinkTask(goal.ID, task.ID, admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := env.tasks.Remove(task.ID, admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, m := range []interface{}{
		&models.Task{}, &models.Grade{}, &models.Resource{}, &models.TagLink{},
		&models.GoalTaskLink{}, &models.Pin{}, &models.Comment{}, &models.Mention{},
	} {
		if n := env.countRows(t, m); n != 0 {
			t.Errorf("%T: expected 0 rows after cascade delete, got %d", m, n)
		}
	}

	// Сама цель и справочник этикеток остаются
	if n := env.countRows(t, &models.Goal{}); n != 1 {
		t.Errorf("goal must survive task deletion")
	}
	if n := env.countRows(t, &models.ColorTag{}); n != 1 {
		t.Errorf("master tag must survive task deletion")
	}
}

func TestScenario_FullLifecycle(t *testing.T) {
	env := newTestEnv(t)
	creator := env.seedUser(t, "u1@test", models.RoleAdmin)
	assignee := env.seedUser(t, "u2@test", models.RoleStudent)
	outsider := env.seedUser(t, "u3@test", models.RoleStudent)

	task, err := env.tasks.Create(creator, CreateTaskInput{Title: "Write report"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	task, err = env.tasks.Assign(task.ID, assignee.ID, creator)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	task, err = env.tasks.UpdateProgress(task.ID, assignee, 50)
	if err != nil {
		t.Fatalf("progress 50: %v", err)
	}
	if task.Status != models.StatusInProgress || task.Progress != 50 {
		t.Fatalf("expected in_progress/50, got %s/%d", task.Status, task.Progress)
	}

	// Посторонний студент не может отчитаться о прогрессе
	if _, err := env.tasks.UpdateProgress(task.ID, outsider, 60); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("outsider progress: expected Forbidden, got %v", err)
	}

	task, err = env.tasks.UpdateProgress(task.ID, assignee, 100)
	if err != nil {
		t.Fatalf("progress 100: %v", err)
	}
	if task.Status != models.StatusCompleted {
		t.Fatalf("expected completed, got %s", task.Status)
	}

	grade, err := env.tasks.Grade(task.ID, creator, 90, "Great")
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if grade.TaskID != task.ID || grade.Score != 90 {
		t.Fatalf("grade fields wrong: %+v", grade)
	}

	// Посторонний не видит задачу
	if _, err := env.tasks.FindOne(task.ID, outsider); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("outsider read: expected Forbidden, got %v", err)
	}
}
