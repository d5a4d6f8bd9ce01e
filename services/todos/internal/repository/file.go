package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	sharedlogger "github.com/sun1tar/tech-ip-sem2/shared/logger"
	"github.com/sun1tar/tech-ip-sem2/services/todos/internal/models"
)

// FileTodoRepository хранит весь список одним JSON-массивом в файле.
// Каждый вызов заново читает файл; состояние между запросами не кэшируется.
type FileTodoRepository struct {
	path   string
	mu     sync.Mutex
	logger *logrus.Logger
}

func NewFileTodoRepository(path string, logger *logrus.Logger) (*FileTodoRepository, error) {
	if path == "" {
		return nil, errors.New("data file path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve data file path: %w", err)
	}
	if logger == nil {
		logger = sharedlogger.Default()
	}
	return &FileTodoRepository{path: abs, logger: logger}, nil
}

// Path возвращает абсолютный путь к файлу
func (r *FileTodoRepository) Path() string {
	return r.path
}

func (r *FileTodoRepository) Load(ctx context.Context) ([]models.TodoItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *FileTodoRepository) Save(ctx context.Context, items []models.TodoItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(items)
}

// Mutate выполняет load -> fn -> save под одним мьютексом
func (r *FileTodoRepository) Mutate(ctx context.Context, fn MutateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	updated, err := fn(items)
	if err != nil {
		return err
	}
	return r.save(updated)
}

func (r *FileTodoRepository) load() (items []models.TodoItem, err error) {
	defer func() { observe("load", err) }()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.WithField("path", r.path).Debug("data file missing, using empty list")
			storedItems.Set(0)
			return []models.TodoItem{}, nil
		}
		return nil, fmt.Errorf("read data file: %w", err)
	}

	// пустой файл считаем пустым списком
	if len(bytes.TrimSpace(data)) == 0 {
		storedItems.Set(0)
		return []models.TodoItem{}, nil
	}

	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", r.path, err)
	}
	items = models.Normalize(items)
	storedItems.Set(float64(len(items)))
	return items, nil
}

func (r *FileTodoRepository) save(items []models.TodoItem) (err error) {
	defer func() { observe("save", err) }()

	items = models.Normalize(items)
	data, err := json.MarshalIndent(items, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal todos: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// пишем во временный файл и переименовываем поверх основного
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}

	storedItems.Set(float64(len(items)))
	r.logger.WithFields(logrus.Fields{
		"path":  r.path,
		"count": len(items),
	}).Debug("data file saved")
	return nil
}
