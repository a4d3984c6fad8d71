package handler

import (
	"context"
	"net/http"

	"github.com/jaekwang-park/todos/internal/model"
	"github.com/jaekwang-park/todos/internal/service"
)

const itemsPath = "/todos/items"

type TodoItemService interface {
	Create(ctx context.Context, input *service.CreateTodoItemInput) (*model.TodoItem, error)
	Update(ctx context.Context, id int64, input *service.UpdateTodoItemInput) (*model.TodoItem, error)
	Complete(ctx context.Context, id int64, input *service.CompleteTodoItemInput) (*model.TodoItem, error)
	Archive(ctx context.Context, id int64) (*model.TodoItem, error)
	Get(ctx context.Context, id int64, includeArchived bool) (*model.TodoItem, error)
	List(ctx context.Context, opts *model.TodoItemQueryOptions) ([]*model.TodoItem, error)
}

type TodoItemHandler struct {
	svc TodoItemService
}

func NewTodoItemHandler(svc TodoItemService) *TodoItemHandler {
	return &TodoItemHandler{svc: svc}
}

// ServeHTTP routes /todos/items, /todos/items/{id} and /todos/items/{id}/complete
func (h *TodoItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rawID, sub := splitPath(r.URL.Path, itemsPath)

	if rawID == "" {
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
		return
	}

	id, ok := parseID(rawID)
	if !ok {
		WriteError(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer")
		return
	}

	switch sub {
	case "":
	case "complete":
		if r.Method != http.MethodPatch {
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
			return
		}
		h.handleComplete(w, r, id)
		return
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, id)
	case http.MethodPatch:
		h.handleUpdate(w, r, id)
	case http.MethodDelete:
		h.handleArchive(w, r, id)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

type createTodoItemRequest struct {
	Label  string `json:"label"`
	ListID int64  `json:"listId"`
}

type updateTodoItemRequest struct {
	Label string `json:"label"`
}

type completeTodoItemRequest struct {
	Completed bool `json:"completed"`
}

func (h *TodoItemHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[createTodoItemRequest](w, r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	var input *service.CreateTodoItemInput
	if req != nil {
		input = &service.CreateTodoItemInput{Label: req.Label, TodoListID: req.ListID}
	}

	item, err := h.svc.Create(r.Context(), input)
	if err != nil {
		handleServiceError(w, err, http.StatusInternalServerError)
		return
	}

	WriteJSON(w, http.StatusCreated, NewTodoItemResponse(item))
}

func (h *TodoItemHandler) handleGet(w http.ResponseWriter, r *http.Request, id int64) {
	includeArchived, err := boolParam(r.URL.Query(), "includeArchived")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	item, err := h.svc.Get(r.Context(), id, includeArchived)
	if err != nil {
		handleServiceError(w, err, http.StatusNotFound)
		return
	}

	WriteJSON(w, http.StatusOK, NewTodoItemResponse(item))
}

func (h *TodoItemHandler) handleList(w http.ResponseWriter, r *http.Request) {
	opts, err := parseItemQueryOptions(r.URL.Query())
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	items, err := h.svc.List(r.Context(), opts)
	if err != nil {
		handleServiceError(w, err, http.StatusInternalServerError)
		return
	}

	WriteJSON(w, http.StatusOK, mapSlice(items, NewTodoItemResponse))
}

func (h *TodoItemHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id int64) {
	req, err := decodeBody[updateTodoItemRequest](w, r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	var input *service.UpdateTodoItemInput
	if req != nil {
		input = &service.UpdateTodoItemInput{Label: req.Label}
	}

	item, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		handleServiceError(w, err, http.StatusInternalServerError)
		return
	}

	WriteJSON(w, http.StatusOK, NewTodoItemResponse(item))
}

func (h *TodoItemHandler) handleComplete(w http.ResponseWriter, r *http.Request, id int64) {
	req, err := decodeBody[completeTodoItemRequest](w, r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	var input *service.CompleteTodoItemInput
	if req != nil {
		input = &service.CompleteTodoItemInput{Completed: req.Completed}
	}

	item, err := h.svc.Complete(r.Context(), id, input)
	if err != nil {
		handleServiceError(w, err, http.StatusInternalServerError)
		return
	}

	WriteJSON(w, http.StatusOK, NewTodoItemResponse(item))
}

func (h *TodoItemHandler) handleArchive(w http.ResponseWriter, r *http.Request, id int64) {
	item, err := h.svc.Archive(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, http.StatusInternalServerError)
		return
	}

	WriteJSON(w, http.StatusAccepted, NewTodoItemResponse(item))
}
