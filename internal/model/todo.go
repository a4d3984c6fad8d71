package model

import "time"

type TodoList struct {
	Record
	Label string `json:"label"`
}

type TodoItem struct {
	Record
	TodoListID  int64      `json:"todo_list_id"`
	Label       string     `json:"label"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (i TodoItem) IsCompleted() bool {
	return i.CompletedAt != nil
}
