package models

import (
	"encoding/json"
	"testing"
)

func TestNormalize(t *testing.T) {
	if got := Normalize(nil); got == nil || len(got) != 0 {
		t.Fatalf("Normalize(nil): got %#v, want empty slice", got)
	}

	items := Normalize([]TodoItem{{ID: 1}, {ID: 2, Tags: []string{"a"}}})
	if items[0].Tags == nil {
		t.Error("nil tags not replaced")
	}
	if len(items[1].Tags) != 1 {
		t.Errorf("tags changed: %v", items[1].Tags)
	}

	data, err := json.Marshal(items[0])
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":1,"title":"","description":"","completed":false,"due_date":null,"priority":"","tags":[]}`
	if string(data) != want {
		t.Errorf("json:\n got %s\nwant %s", data, want)
	}
}

func TestIndexOf(t *testing.T) {
	items := []TodoItem{{ID: 3}, {ID: 5}, {ID: 3}}

	tests := []struct {
		id   int
		want int
	}{
		{3, 0},
		{5, 1},
		{9, -1},
	}
	for _, tt := range tests {
		if got := IndexOf(items, tt.id); got != tt.want {
			t.Errorf("IndexOf(%d): got %d, want %d", tt.id, got, tt.want)
		}
	}
	if IndexOf(nil, 1) != -1 {
		t.Error("IndexOf(nil) should be -1")
	}
}
