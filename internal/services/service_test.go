package services

import (
	"testing"
	"time"

	"taskassistant/internal/models"
	"taskassistant/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB открывает изолированную in-memory базу для одного теста.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// Одно соединение: база живет в нем, записи сериализуются
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Grade{},
		&models.Resource{},
		&models.Pin{},
		&models.ColorTag{},
		&models.KeywordTag{},
		&models.TagLink{},
		&models.Goal{},
		&models.GoalTaskLink{},
		&models.Comment{},
		&models.Mention{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// testEnv собирает сервисы поверх общих репозиториев для одного теста.
type testEnv struct {
	db            *gorm.DB
	tasks         *TaskService
	tags          *TagService
	goals         *GoalService
	comments      *CommentService
	users         *UserService
	notifications *NotificationService
	auth          *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tagRepo := repository.NewTagRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	return &testEnv{
		db:            db,
		tasks:         NewTaskService(taskRepo, userRepo, tagRepo, notificationRepo),
		tags:          NewTagService(tagRepo),
		goals:         NewGoalService(goalRepo, taskRepo),
		comments:      NewCommentService(commentRepo, taskRepo),
		users:         NewUserService(userRepo),
		notifications: NewNotificationService(notificationRepo),
		auth:          NewAuthService(userRepo, "test-secret", 30*time.Minute),
	}
}

// seedUser создает пользователя с заданной ролью и возвращает его Principal.
func (e *testEnv) seedUser(t *testing.T, email string, role models.Role) models.Principal {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		Name:     email,
		Role:     role,
	}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return models.PrincipalFromUser(&user)
}

// seedTask создает задачу напрямую в базе.
func (e *testEnv) seedTask(t *testing.T, creator models.Principal, assignee *models.Principal) *models.Task {
	t.Helper()

	task := models.Task{
		ID:        uuid.New(),
		Title:     "Test task",
		Status:    models.StatusPending,
		Priority:  models.PriorityMedium,
		CreatorID: creator.ID,
	}
	if assignee != nil {
		task.AssigneeID = &assignee.ID
	}
	if err := e.db.Create(&task).Error; err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return &task
}

func (e *testEnv) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()

	var count int64
	if err := e.db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}
