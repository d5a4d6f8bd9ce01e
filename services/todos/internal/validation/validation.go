// Package validation проверяет тела запросов по JSON Schema до того,
// как они попадут в хранилище.
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sun1tar/tech-ip-sem2/services/todos/internal/models"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	schemaBaseURL = "https://schemas.todos.local/"
	itemSchema    = "todo_item.json"
	listSchema    = "todo_list.json"
)

// Violation - одно нарушение схемы
type Violation struct {
	Location string `json:"loc"`
	Message  string `json:"msg"`
}

// Error возвращается для некорректного тела запроса (HTTP 422)
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Location, v.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewError собирает Error из одного нарушения
func NewError(location, message string) *Error {
	return &Error{Violations: []Violation{{Location: location, Message: message}}}
}

// Validator держит скомпилированные схемы TodoItem и списка TodoItem
type Validator struct {
	item *jsonschema.Schema
	list *jsonschema.Schema
}

// New компилирует встроенные схемы
func New() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	for _, name := range []string{itemSchema, listSchema} {
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		if err := compiler.AddResource(schemaBaseURL+name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}

	item, err := compiler.Compile(schemaBaseURL + itemSchema)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", itemSchema, err)
	}
	list, err := compiler.Compile(schemaBaseURL + listSchema)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", listSchema, err)
	}

	return &Validator{item: item, list: list}, nil
}

// itemInput отличает отсутствующий priority от пустой строки.
// id читается как json.Number: схема пропускает 1.0 и 1e2 как integer.
type itemInput struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Completed   bool        `json:"completed"`
	DueDate     *string     `json:"due_date"`
	Priority    *string     `json:"priority"`
	Tags        []string    `json:"tags"`
}

// toItem применяет значения по умолчанию; loc - JSON-указатель на элемент
func (in itemInput) toItem(loc string) (models.TodoItem, error) {
	id, ok := parseID(in.ID)
	if !ok {
		return models.TodoItem{}, NewError(loc+"/id", "value is not a valid integer")
	}

	item := models.TodoItem{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		DueDate:     in.DueDate,
		Priority:    models.DefaultPriority,
		Tags:        in.Tags,
	}
	if in.Priority != nil {
		item.Priority = *in.Priority
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	return item, nil
}

// parseID принимает целые числа в любой записи, если они помещаются в int
func parseID(n json.Number) (int, bool) {
	var i64 int64
	if v, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		i64 = v
	} else {
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		i64 = int64(f)
	}
	if int64(int(i64)) != i64 {
		return 0, false
	}
	return int(i64), true
}

// DecodeItem читает, проверяет и декодирует один TodoItem
func (v *Validator) DecodeItem(r io.Reader) (models.TodoItem, error) {
	data, err := v.validate(r, v.item)
	if err != nil {
		return models.TodoItem{}, err
	}
	var in itemInput
	if err := json.Unmarshal(data, &in); err != nil {
		return models.TodoItem{}, NewError("body", err.Error())
	}
	return in.toItem("body")
}

// DecodeList читает, проверяет и декодирует полный упорядоченный список
func (v *Validator) DecodeList(r io.Reader) ([]models.TodoItem, error) {
	data, err := v.validate(r, v.list)
	if err != nil {
		return nil, err
	}
	var in []itemInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, NewError("body", err.Error())
	}

	items := make([]models.TodoItem, 0, len(in))
	out := &Error{}
	for i, raw := range in {
		item, err := raw.toItem(fmt.Sprintf("body/%d", i))
		if err != nil {
			var verr *Error
			if errors.As(err, &verr) {
				out.Violations = append(out.Violations, verr.Violations...)
				continue
			}
			return nil, err
		}
		items = append(items, item)
	}
	if len(out.Violations) > 0 {
		return nil, out
	}
	return items, nil
}

// validate читает тело и проверяет его по схеме
func (v *Validator) validate(r io.Reader, schema *jsonschema.Schema) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, NewError("body", "request body too large")
		}
		return nil, fmt.Errorf("read body: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, NewError("body", "invalid JSON: "+err.Error())
	}

	if err := schema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}
	return data, nil
}

func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return NewError("body", err.Error())
	}

	out := &Error{}
	collectViolations(ve, out)
	if len(out.Violations) == 0 {
		out.Violations = append(out.Violations, Violation{Location: location(ve.InstanceLocation), Message: ve.Message})
	}
	return out
}

// collectViolations рекурсивно собирает листовые ошибки схемы
func collectViolations(ve *jsonschema.ValidationError, out *Error) {
	if len(ve.Causes) == 0 {
		out.Violations = append(out.Violations, Violation{
			Location: location(ve.InstanceLocation),
			Message:  ve.Message,
		})
		return
	}
	for _, cause := range ve.Causes {
		collectViolations(cause, out)
	}
}

func location(pointer string) string {
	if pointer == "" || pointer == "/" {
		return "body"
	}
	return "body" + pointer
}
