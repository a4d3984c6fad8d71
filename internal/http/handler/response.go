package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/jaekwang-park/todos/internal/model"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
		},
	})
}

// TodoListResponse exposes archive state as a flag; timestamps stay internal.
type TodoListResponse struct {
	ID         int64  `json:"id"`
	Label      string `json:"label"`
	IsArchived bool   `json:"isArchived"`
}

type TodoItemResponse struct {
	ID          int64  `json:"id"`
	TodoListID  int64  `json:"todoListId"`
	Label       string `json:"label"`
	IsCompleted bool   `json:"isCompleted"`
	IsArchived  bool   `json:"isArchived"`
}

func NewTodoListResponse(l *model.TodoList) TodoListResponse {
	return TodoListResponse{
		ID:         l.ID,
		Label:      l.Label,
		IsArchived: l.IsArchived(),
	}
}

func NewTodoItemResponse(i *model.TodoItem) TodoItemResponse {
	return TodoItemResponse{
		ID:          i.ID,
		TodoListID:  i.TodoListID,
		Label:       i.Label,
		IsCompleted: i.IsCompleted(),
		IsArchived:  i.IsArchived(),
	}
}

func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
