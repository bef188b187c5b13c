package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Storage представляет файловое хранилище ресурсов задач
type Storage struct {
	basePath    string
	maxFileSize int64
}

// NewStorage создает новое файловое хранилище
func NewStorage(basePath string, maxFileSize int64) (*Storage, error) {
	// Создаем базовую директорию
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &Storage{
		basePath:    basePath,
		maxFileSize: maxFileSize,
	}, nil
}

// SaveTaskFile сохраняет загруженный файл в каталоге задачи и
// возвращает путь в хранилище
func (s *Storage) SaveTaskFile(file *multipart.FileHeader, taskID uuid.UUID) (string, error) {
	// Проверяем размер файла
	if file.Size > s.maxFileSize {
		return "", fmt.Errorf("file size exceeds maximum allowed size")
	}

	// Генерируем уникальное имя файла
	fileExt := filepath.Ext(file.Filename)
	fileName := uuid.New().String() + fileExt

	// Создаем путь для файла
	filePath := filepath.Join(s.basePath, "tasks", taskID.String(), fileName)

	// Создаем директории
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create file directory: %w", err)
	}

	// Открываем исходный файл
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// Создаем целевой файл
	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	// Копируем содержимое
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}

	// Создаем превью для изображений
	if strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		if err := s.createThumbnail(filePath); err != nil {
			// Логируем ошибку, но не прерываем выполнение
			fmt.Printf("Failed to create thumbnail: %v\n", err)
		}
	}

	return filePath, nil
}

// DeleteFile удаляет файл из хранилища вместе с превью
func (s *Storage) DeleteFile(filePath string) error {
	if !strings.HasPrefix(filePath, s.basePath) {
		return fmt.Errorf("file path is outside the storage")
	}
	thumbPath := strings.Replace(filePath, filepath.Ext(filePath), "_thumb.jpg", 1)
	_ = os.Remove(thumbPath)
	return os.Remove(filePath)
}

// createThumbnail создает миниатюру изображения
func (s *Storage) createThumbnail(filePath string) error {
	// Открываем изображение
	img, err := imaging.Open(filePath)
	if err != nil {
		return err
	}

	// Создаем миниатюру 300x300
	thumbnail := imaging.Resize(img, 300, 300, imaging.Lanczos)

	// Сохраняем миниатюру
	thumbPath := strings.Replace(filePath, filepath.Ext(filePath), "_thumb.jpg", 1)
	return imaging.Save(thumbnail, thumbPath, imaging.JPEGQuality(85))
}
