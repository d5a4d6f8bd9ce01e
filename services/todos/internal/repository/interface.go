package repository

import (
	"context"

	"github.com/sun1tar/tech-ip-sem2/services/todos/internal/models"
)

// MutateFunc получает текущий список и возвращает новый.
// Ошибка отменяет запись.
type MutateFunc func(items []models.TodoItem) ([]models.TodoItem, error)

type TodoRepository interface {
	Load(ctx context.Context) ([]models.TodoItem, error)
	Save(ctx context.Context, items []models.TodoItem) error
	Mutate(ctx context.Context, fn MutateFunc) error
}
