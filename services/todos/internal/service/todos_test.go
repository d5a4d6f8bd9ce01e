package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
	sharedlogger "github.com/sun1tar/tech-ip-sem2/shared/logger"
	"github.com/sun1tar/tech-ip-sem2/services/todos/internal/models"
	"github.com/sun1tar/tech-ip-sem2/services/todos/internal/repository"
)

func newTestService(t *testing.T) (*TodoService, *repository.FileTodoRepository) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo, err := repository.NewFileTodoRepository(filepath.Join(t.TempDir(), "todo.json"), logger)
	if err != nil {
		t.Fatal(err)
	}
	return NewTodoService(repo, logger), repo
}

func item(id int, title string, completed bool) models.TodoItem {
	return models.TodoItem{
		ID:          id,
		Title:       title,
		Description: title + " description",
		Completed:   completed,
		Priority:    "low",
		Tags:        []string{},
	}
}

func seed(t *testing.T, repo *repository.FileTodoRepository, items ...models.TodoItem) {
	t.Helper()
	if err := repo.Save(context.Background(), items); err != nil {
		t.Fatal(err)
	}
}

func TestListEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	items, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %v", items)
	}
}

func TestCreateAppends(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	seed(t, repo, item(1, "first", false))

	due := "2025-12-31"
	created := models.TodoItem{ID: 2, Title: "Test", Description: "d", DueDate: &due, Priority: "high", Tags: []string{"urgent"}}
	got, err := svc.Create(ctx, created)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !reflect.DeepEqual(got, created) {
		t.Errorf("returned item: got %+v, want %+v", got, created)
	}

	items, _ := svc.List(ctx)
	if len(items) != 2 {
		t.Fatalf("count: got %d, want 2", len(items))
	}
	if !reflect.DeepEqual(items[1], created) {
		t.Errorf("appended item: got %+v, want %+v", items[1], created)
	}
}

func TestCreateAcceptsDuplicateIDs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.Create(ctx, item(1, "a", false))
	svc.Create(ctx, item(1, "b", false))

	items, _ := svc.List(ctx)
	if len(items) != 2 {
		t.Fatalf("count: got %d, want 2", len(items))
	}
	got, err := svc.Get(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "a" {
		t.Errorf("Get should return first match, got %q", got.Title)
	}
}

func TestUpdateKeepsCompleted(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	seed(t, repo, item(1, "Original", true), item(2, "Other", false))

	due := "2026-01-01"
	submitted := models.TodoItem{ID: 1, Title: "Updated", Description: "Updated description", Completed: false, DueDate: &due, Priority: "medium", Tags: []string{"b", "c"}}
	got, err := svc.Update(ctx, 1, submitted)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !reflect.DeepEqual(got, submitted) {
		t.Errorf("response should echo submitted item: got %+v", got)
	}

	items, _ := svc.List(ctx)
	stored := items[0]
	if !stored.Completed {
		t.Error("completed must keep the stored value")
	}
	want := submitted
	want.Completed = true
	if !reflect.DeepEqual(stored, want) {
		t.Errorf("stored: got %+v, want %+v", stored, want)
	}
	if !reflect.DeepEqual(items[1], item(2, "Other", false)) {
		t.Errorf("other item changed: %+v", items[1])
	}
}

func TestUpdateNotFoundLeavesStorage(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	seed(t, repo, item(1, "a", false))
	before, _ := os.ReadFile(repo.Path())

	_, err := svc.Update(ctx, 99, item(99, "x", false))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	after, _ := os.ReadFile(repo.Path())
	if string(before) != string(after) {
		t.Error("storage changed on failed update")
	}
}

func TestToggleRoundTrip(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	seed(t, repo, item(1, "Toggle", false))

	got, err := svc.Toggle(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Completed {
		t.Error("first toggle should set completed=true")
	}
	got, err = svc.Toggle(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Completed {
		t.Error("second toggle should set completed=false")
	}

	items, _ := svc.List(ctx)
	if items[0].Completed {
		t.Error("stored value should be false after two toggles")
	}
}

func TestToggleNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Toggle(context.Background(), 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesAllMatches(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	seed(t, repo, item(1, "a", false), item(2, "b", false), item(1, "c", true))

	if err := svc.Delete(ctx, 1); err != nil {
		t.Fatal(err)
	}
	items, _ := svc.List(ctx)
	if len(items) != 1 || items[0].ID != 2 {
		t.Fatalf("unexpected items after delete: %+v", items)
	}
}

func TestDeleteMissingIsNoop(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	seed(t, repo, item(1, "a", false))

	if err := svc.Delete(ctx, 999); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	items, _ := svc.List(ctx)
	if len(items) != 1 || !reflect.DeepEqual(items[0], item(1, "a", false)) {
		t.Errorf("storage changed: %+v", items)
	}
}

func TestReorderReplacesList(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	a, b := item(1, "A", false), item(2, "B", true)
	seed(t, repo, a, b)

	if err := svc.Reorder(ctx, []models.TodoItem{b, a}); err != nil {
		t.Fatal(err)
	}
	items, _ := svc.List(ctx)
	if !reflect.DeepEqual(items, []models.TodoItem{b, a}) {
		t.Errorf("got %+v", items)
	}
}

func TestNewTodoServiceNilLoggerUsesShared(t *testing.T) {
	prev := sharedlogger.Logger
	t.Cleanup(func() { sharedlogger.Logger = prev })

	l := logrus.New()
	l.SetOutput(io.Discard)
	sharedlogger.Logger = l

	svc := NewTodoService(nil, nil)
	if svc.logger != l {
		t.Error("nil logger should fall back to the shared service logger")
	}
}
