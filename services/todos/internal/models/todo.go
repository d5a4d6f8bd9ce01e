package models

// DefaultPriority - приоритет задачи, если клиент его не указал
const DefaultPriority = "low"

// TodoItem - одна запись списка дел в файле
type TodoItem struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Completed   bool     `json:"completed"`
	DueDate     *string  `json:"due_date"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
}

// Normalize заменяет nil-срезы пустыми, чтобы в JSON уходил [] а не null
func Normalize(items []TodoItem) []TodoItem {
	if items == nil {
		return []TodoItem{}
	}
	for i := range items {
		if items[i].Tags == nil {
			items[i].Tags = []string{}
		}
	}
	return items
}

// IndexOf возвращает позицию первого элемента с данным id или -1
func IndexOf(items []TodoItem, id int) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
