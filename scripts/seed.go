package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskassistant/internal/models"
)

func main() {
	// Подключаемся к базе данных
	db, err := gorm.Open(sqlite.Open("taskassistant.db"), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Автомиграция
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
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Создаем тестовых пользователей
	adminID := uuid.New()
	leadID := uuid.New()
	guestID := uuid.New()
	student1ID := uuid.New()
	student2ID := uuid.New()

	users := []models.User{
		{ID: adminID, Email: "admin@taskassistant.local", Name: "Admin", Role: models.RoleAdmin},
		{ID: leadID, Email: "lead@taskassistant.local", Name: "Lead Instructor", Role: models.RoleLeadInstructor},
		{ID: guestID, Email: "guest@taskassistant.local", Name: "Guest Instructor", Role: models.RoleGuestInstructor},
		{ID: student1ID, Email: "student1@taskassistant.local", Name: "Student One", Role: models.RoleStudent},
		{ID: student2ID, Email: "student2@taskassistant.local", Name: "Student Two", Role: models.RoleStudent},
	}

	for i := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		users[i].Password = string(hash)
		users[i].CreatedAt = time.Now()
		users[i].UpdatedAt = time.Now()
		if err := db.Create(&users[i]).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", users[i].Email, err)
		}
	}

	// Создаем задачи
	due := time.Now().AddDate(0, 0, 14)
	tasks := []models.Task{
		{
			ID:          uuid.New(),
			Title:       "Write project report",
			Description: "Final report for the semester project",
			Status:      models.StatusPending,
			Priority:    models.PriorityHigh,
			DueDate:     &due,
			CreatorID:   leadID,
			AssigneeID:  &student1ID,
		},
		{
			ID:          uuid.New(),
			Title:       "Prepare presentation slides",
			Status:      models.StatusPending,
			Priority:    models.PriorityMedium,
			CreatorID:   leadID,
			AssigneeID:  &student2ID,
		},
		{
			ID:        uuid.New(),
			Title:     "Review course materials",
			Status:    models.StatusPending,
			Priority:  models.PriorityLow,
			CreatorID: adminID,
		},
	}
	for i := range tasks {
		if err := db.Create(&tasks[i]).Error; err != nil {
			log.Fatalf("Failed to create task: %v", err)
		}
	}

	// Справочник этикеток
	colors := []models.ColorTag{
		{ID: uuid.New(), Color: "#ff0000"},
		{ID: uuid.New(), Color: "#00ff00"},
		{ID: uuid.New(), Color: "#0000ff"},
	}
	for i := range colors {
		if err := db.Create(&colors[i]).Error; err != nil {
			log.Fatalf("Failed to create color tag: %v", err)
		}
	}

	keywords := []models.KeywordTag{
		{ID: uuid.New(), Word: "urgent"},
		{ID: uuid.New(), Word: "homework"},
		{ID: uuid.New(), Word: "exam"},
	}
	for i := range keywords {
		if err := db.Create(&keywords[i]).Error; err != nil {
			log.Fatalf("Failed to create keyword tag: %v", err)
		}
	}

	// Цель с вязанной задачей
	goal := models.Goal{
		ID:          uuid.New(),
		Title:       "Finish the semester",
		Description: "Everything due before the end of the semester",
	}
	if err := db.Create(&goal).Error; err != nil {
		log.Fatalf("Failed to create goal: %v", err)
	}
	link := models.GoalTaskLink{ID: uuid.New(), GoalID: goal.ID, TaskID: tasks[0].ID}
	if err := db.Create(&link).Error; err != nil {
		log.Fatalf("Failed to link task to goal: %v", err)
	}

	fmt.Println("Seed data created successfully")
	fmt.Printf("  users: %d, tasks: %d, color tags: %d, keyword tags: %d\n",
		len(users), len(tasks), len(colors), len(keywords))
}
