package service

import (
	"errors"
	"fmt"
)

// Ошибки сервисного слоя. Обработчики переводят их в HTTP-статусы,
// все остальные ошибки считаются сбоем хранилища (500).
var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	// ErrReferenceNotFound - в теле запроса указана несуществующая категория или площадка
	ErrReferenceNotFound = fmt.Errorf("referenced entity %w", ErrNotFound)
)
