package services

import (
	"errors"

	"taskassistant/internal/apperr"
	"taskassistant/internal/models"
	"taskassistant/internal/policy"
	"taskassistant/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService управляет учетными записями пользователей
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput представляет входные данные создания пользователя
type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Role     models.Role
}

// UpdateUserInput представляет частичное обновление пользователя
type UpdateUserInput struct {
	Name     *string
	Password *string
	Role     *models.Role
}

// Create регистрирует пользователя с захешированным паролем.
func (s *UserService) Create(principal models.Principal, input CreateUserInput) (*models.User, error) {
	if !policy.Can(principal.Role, policy.ActionManageUsers) {
		return nil, apperr.Forbidden("role %s cannot manage users", principal.Role)
	}
	if input.Email == "" || input.Password == "" || input.Name == "" {
		return nil, apperr.Validation("email, password and name are required")
	}
	if !input.Role.Valid() {
		return nil, apperr.Validation("unknown role %q", input.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       uuid.New(),
		Email:    input.Email,
		Password: string(hash),
		Name:     input.Name,
		Role:     input.Role,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("email %s is already registered", input.Email)
		}
		return nil, err
	}
	return user, nil
}

// Get возвращает пользователя по id.
func (s *UserService) Get(id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s not found", id)
		}
		return nil, err
	}
	return user, nil
}

// List возвращает пользователей, при необходимости только с заданной ролью.
func (s *UserService) List(principal models.Principal, role *models.Role) ([]models.User, error) {
	if !policy.Can(principal.Role, policy.ActionManageUsers) {
		return nil, apperr.Forbidden("role %s cannot manage users", principal.Role)
	}
	if role != nil {
		if !role.Valid() {
			return nil, apperr.Validation("unknown role %q", *role)
		}
		return s.userRepo.ListByRole(*role)
	}
	return s.userRepo.GetAll()
}

// Update применяет частичное обновление; новый пароль хешируется.
func (s *UserService) Update(id uuid.UUID, principal models.Principal, patch UpdateUserInput) (*models.User, error) {
	if !policy.Can(principal.Role, policy.ActionManageUsers) {
		return nil, apperr.Forbidden("role %s cannot manage users", principal.Role)
	}
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hash)
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, apperr.Validation("unknown role %q", *patch.Role)
		}
		user.Role = *patch.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete удаляет пользователя.
func (s *UserService) Delete(id uuid.UUID, principal models.Principal) error {
	if !policy.Can(principal.Role, policy.ActionManageUsers) {
		return apperr.Forbidden("role %s cannot manage users", principal.Role)
	}
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.userRepo.Delete(id)
}
