package main

import (
	"fmt"
	"log"

	"taskassistant/internal/config"
	"taskassistant/internal/handlers"
	"taskassistant/internal/models"
	"taskassistant/internal/repository"
	"taskassistant/internal/services"
	"taskassistant/pkg/database"
	"taskassistant/pkg/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Подключаемся к базе данных
	db, err := database.NewDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Создаем администратора по умолчанию
	if err := db.CreateDefaultAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Printf("Failed to create default admin: %v", err)
	}

	// Инициализируем файловое хранилище
	fileStorage, err := storage.NewStorage(cfg.UploadPath, cfg.MaxFileSize)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Создаем репозитории
	userRepo := repository.NewUserRepository(db.DB)
	taskRepo := repository.NewTaskRepository(db.DB)
	tagRepo := repository.NewTagRepository(db.DB)
	goalRepo := repository.NewGoalRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.DB)
	notificationRepo := repository.NewNotificationRepository(db.DB)

	// Создаем сервисы
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiration)
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, tagRepo, notificationRepo)
	tagService := services.NewTagService(tagRepo)
	goalService := services.NewGoalService(goalRepo, taskRepo)
	commentService := services.NewCommentService(commentRepo, taskRepo)
	notificationService := services.NewNotificationService(notificationRepo)

	// Создаем обработчики
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService, commentService, fileStorage)
	tagHandler := handlers.NewTagHandler(tagService)
	goalHandler := handlers.NewGoalHandler(goalService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	router := gin.Default()

	// Middleware
	router.Use(handlers.CORSMiddleware())

	// Публичные маршруты
	router.POST("/auth/login", authHandler.Login)

	// Защищенные маршруты (требуют авторизации)
	protected := router.Group("/")
	protected.Use(handlers.AuthMiddleware(authService))
	{
		protected.GET("/profile", authHandler.GetProfile)

		// Задачи
		tasks := protected.Group("/tasks")
		{
			tasks.POST("", handlers.RequireRoles(models.RoleAdmin, models.RoleLeadInstructor), taskHandler.CreateTask)
			tasks.GET("", taskHandler.GetTasks)
			tasks.GET("/pinned", taskHandler.GetPins)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", handlers.RequireRoles(models.RoleAdmin, models.RoleLeadInstructor), taskHandler.UpdateTask)
			tasks.DELETE("/:id", handlers.RequireRoles(models.RoleAdmin, models.RoleLeadInstructor), taskHandler.DeleteTask)

			tasks.POST("/:id/assign", handlers.RequireRoles(models.RoleAdmin, models.RoleLeadInstructor), taskHandler.AssignTask)
			tasks.PATCH("/:id/progress", taskHandler.UpdateProgress)
			tasks.POST("/:id/time", taskHandler.LogTime)
			tasks.POST("/:id/grade", handlers.RequireRoles(models.RoleAdmin, models.RoleLeadInstructor), taskHandler.GradeTask)
			tasks.GET("/:id/grades", taskHandler.GetGrades)

			tasks.POST("/:id/resources/link", handlers.RequireRoles(models.RoleAdmin, models.RoleLeadInstructor), taskHandler.AddLinkResource)
			tasks.POST("/:id/resources/upload", handlers.RequireRoles(models.RoleAdmin, models.RoleLeadInstructor), taskHandler.UploadFileResource)
			tasks.GET("/:id/resources", taskHandler.GetResources)
			tasks.DELETE("/:id/resources/:resourceId", handlers.RequireRoles(models.RoleAdmin, models.RoleLeadInstructor), taskHandler.DeleteResource)

			tasks.POST("/:id/pin", taskHandler.PinTask)
			tasks.DELETE("/:id/pin", taskHandler.UnpinTask)

			tasks.POST("/:id/comments", taskHandler.AddComment)
			tasks.GET("/:id/comments", taskHandler.GetComments)

			tasks.GET("/:id/tags", taskHandler.GetTaskTags)
			tasks.POST("/:id/tags/:kind", taskHandler.LinkTag)
			tasks.DELETE("/:id/tags/:kind/:tagId", taskHandler.UnlinkTag)
		}

		// Справочник этикеток
		tags := protected.Group("/tags")
		{
			tags.GET("/colors", tagHandler.GetColorTags)
			tags.POST("/colors", handlers.RequireRoles(models.RoleAdmin, models.RoleLeadInstructor), tagHandler.CreateColorTag)
			tags.DELETE("/colors/:id", handlers.RequireRoles(models.RoleAdmin, models.RoleLeadInstructor), tagHandler.DeleteColorTag)
			tags.GET("/keywords", tagHandler.GetKeywordTags)
			tags.POST("/keywords", handlers.RequireRoles(models.RoleAdmin, models.RoleLeadInstructor), tagHandler.CreateKeywordTag)
			tags.DELETE("/keywords/:id", handlers.RequireRoles(models.RoleAdmin, models.RoleLeadInstructor), tagHandler.DeleteKeywordTag)
		}

		// Цели
		goals := protected.Group("/goals")
		{
			goals.GET("", goalHandler.GetGoals)
			goals.GET("/:id", goalHandler.GetGoal)
			goals.POST("", handlers.RequireRoles(models.RoleAdmin, models.RoleLeadInstructor), goalHandler.CreateGoal)
			goals.DELETE("/:id", handlers.RequireRoles(models.RoleAdmin, models.RoleLeadInstructor), goalHandler.DeleteGoal)
			goals.POST("/:id/link-task", handlers.RequireRoles(models.RoleAdmin, models.RoleLeadInstructor), goalHandler.LinkTask)
			goals.DELETE("/:id/tasks/:taskId", handlers.RequireRoles(models.RoleAdmin, models.RoleLeadInstructor), goalHandler.UnlinkTask)
		}

		// Пользователи (только администратор)
		users := protected.Group("/users")
		users.Use(handlers.RequireRoles(models.RoleAdmin))
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.GetUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		// Уведомления
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.PATCH("/notifications/:id/read", notificationHandler.MarkNotificationRead)
	}

	// Запускаем сервер
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	log.Printf("Starting Task Assistant server on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
