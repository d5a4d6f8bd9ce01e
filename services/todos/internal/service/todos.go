package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	sharedlogger "github.com/sun1tar/tech-ip-sem2/shared/logger"
	"github.com/sun1tar/tech-ip-sem2/services/todos/internal/models"
	"github.com/sun1tar/tech-ip-sem2/services/todos/internal/repository"
)

// ErrNotFound - задачи с таким id нет в списке
var ErrNotFound = errors.New("to-do item not found")

type TodoService struct {
	repo   repository.TodoRepository
	logger *logrus.Logger
}

func NewTodoService(repo repository.TodoRepository, logger *logrus.Logger) *TodoService {
	if logger == nil {
		logger = sharedlogger.Default()
	}
	return &TodoService{
		repo:   repo,
		logger: logger,
	}
}

func (s *TodoService) log() *logrus.Entry {
	return s.logger.WithField("component", "todo_service")
}

// List возвращает список в порядке файла
func (s *TodoService) List(ctx context.Context) ([]models.TodoItem, error) {
	return s.repo.Load(ctx)
}

// Get возвращает первую задачу с данным id
func (s *TodoService) Get(ctx context.Context, id int) (models.TodoItem, error) {
	items, err := s.repo.Load(ctx)
	if err != nil {
		return models.TodoItem{}, err
	}
	i := models.IndexOf(items, id)
	if i < 0 {
		return models.TodoItem{}, ErrNotFound
	}
	return items[i], nil
}

// Create добавляет задачу в конец списка. Дубликаты id не проверяются.
func (s *TodoService) Create(ctx context.Context, item models.TodoItem) (models.TodoItem, error) {
	err := s.repo.Mutate(ctx, func(items []models.TodoItem) ([]models.TodoItem, error) {
		if models.IndexOf(items, item.ID) >= 0 {
			s.log().WithField("todo_id", item.ID).Debug("duplicate id accepted")
		}
		return append(items, item), nil
	})
	if err != nil {
		return models.TodoItem{}, err
	}
	s.log().WithField("todo_id", item.ID).Info("todo created")
	return item, nil
}

// Update заменяет все поля первой задачи с id, кроме completed.
// Возвращается item в том виде, в каком его прислал клиент.
func (s *TodoService) Update(ctx context.Context, id int, item models.TodoItem) (models.TodoItem, error) {
	err := s.repo.Mutate(ctx, func(items []models.TodoItem) ([]models.TodoItem, error) {
		i := models.IndexOf(items, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		stored := item
		stored.Completed = items[i].Completed
		items[i] = stored
		return items, nil
	})
	if err != nil {
		return models.TodoItem{}, err
	}
	s.log().WithField("todo_id", id).Info("todo updated")
	return item, nil
}

// Toggle инвертирует completed у первой задачи с id
func (s *TodoService) Toggle(ctx context.Context, id int) (models.TodoItem, error) {
	var toggled models.TodoItem
	err := s.repo.Mutate(ctx, func(items []models.TodoItem) ([]models.TodoItem, error) {
		i := models.IndexOf(items, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		items[i].Completed = !items[i].Completed
		toggled = items[i]
		return items, nil
	})
	if err != nil {
		return models.TodoItem{}, err
	}
	s.log().WithFields(logrus.Fields{
		"todo_id":   id,
		"completed": toggled.Completed,
	}).Info("todo toggled")
	return toggled, nil
}

// Delete убирает все задачи с id и всегда перезаписывает файл
func (s *TodoService) Delete(ctx context.Context, id int) error {
	removed := 0
	err := s.repo.Mutate(ctx, func(items []models.TodoItem) ([]models.TodoItem, error) {
		kept := items[:0]
		for _, it := range items {
			if it.ID == id {
				removed++
				continue
			}
			kept = append(kept, it)
		}
		return kept, nil
	})
	if err != nil {
		return err
	}
	s.log().WithFields(logrus.Fields{
		"todo_id": id,
		"removed": removed,
	}).Info("todo deleted")
	return nil
}

// Reorder полностью заменяет список присланным
func (s *TodoService) Reorder(ctx context.Context, items []models.TodoItem) error {
	if err := s.repo.Save(ctx, items); err != nil {
		return err
	}
	s.log().WithField("count", len(items)).Info("todo order updated")
	return nil
}
