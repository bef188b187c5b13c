// Package apperr определяет классы ошибок доменного слоя.
// Обработчики HTTP сопоставляют их со статус-кодами через errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound - сущность по указанному id не существует
	ErrNotFound = errors.New("not found")
	// ErrForbidden - аутентифицирован, но действие не разрешено
	ErrForbidden = errors.New("forbidden")
	// ErrConflict - нарушение уникальности или идемпотентности
	ErrConflict = errors.New("conflict")
	// ErrPrecondition - нарушение доменного правила
	ErrPrecondition = errors.New("precondition failed")
	// ErrValidation - некорректные входные данные
	ErrValidation = errors.New("validation failed")
)

// NotFound возвращает ошибку класса ErrNotFound с описанием.
func NotFound(format string, args ...interface{}) error {
	return wrap(ErrNotFound, format, args...)
}

// Forbidden возвращает ошибку класса ErrForbidden с описанием.
func Forbidden(format string, args ...interface{}) error {
	return wrap(ErrForbidden, format, args...)
}

// Conflict возвращает ошибку класса ErrConflict с описанием.
func Conflict(format string, args ...interface{}) error {
	return wrap(ErrConflict, format, args...)
}

// Precondition возвращает ошибку класса ErrPrecondition с описанием.
func Precondition(format string, args ...interface{}) error {
	return wrap(ErrPrecondition, format, args...)
}

// Validation возвращает ошибку класса ErrValidation с описанием.
func Validation(format string, args ...interface{}) error {
	return wrap(ErrValidation, format, args...)
}

func wrap(kind error, format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, kind)...)
}
