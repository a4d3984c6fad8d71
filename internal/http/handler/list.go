package handler

import (
	"context"
	"net/http"

	"github.com/jaekwang-park/todos/internal/model"
	"github.com/jaekwang-park/todos/internal/service"
)

const listsPath = "/todos/lists"

type TodoListService interface {
	Create(ctx context.Context, input *service.CreateTodoListInput) (*model.TodoList, error)
	Update(ctx context.Context, id int64, input *service.UpdateTodoListInput) (*model.TodoList, error)
	Archive(ctx context.Context, id int64) (*model.TodoList, error)
	Get(ctx context.Context, id int64, includeArchived bool) (*model.TodoList, error)
	List(ctx context.Context, opts *model.QueryOptions) ([]*model.TodoList, error)
}

type TodoListHandler struct {
	svc TodoListService
}

func NewTodoListHandler(svc TodoListService) *TodoListHandler {
	return &TodoListHandler{svc: svc}
}

// ServeHTTP routes /todos/lists and /todos/lists/{id}
func (h *TodoListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rawID, sub := splitPath(r.URL.Path, listsPath)

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
	if sub != "" {
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

type todoListRequest struct {
	Label string `json:"label"`
}

func (h *TodoListHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[todoListRequest](w, r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	var input *service.CreateTodoListInput
	if req != nil {
		input = &service.CreateTodoListInput{Label: req.Label}
	}

	list, err := h.svc.Create(r.Context(), input)
	if err != nil {
		handleServiceError(w, err, http.StatusInternalServerError)
		return
	}

	WriteJSON(w, http.StatusCreated, NewTodoListResponse(list))
}

func (h *TodoListHandler) handleGet(w http.ResponseWriter, r *http.Request, id int64) {
	includeArchived, err := boolParam(r.URL.Query(), "includeArchived")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	list, err := h.svc.Get(r.Context(), id, includeArchived)
	if err != nil {
		handleServiceError(w, err, http.StatusNotFound)
		return
	}

	WriteJSON(w, http.StatusOK, NewTodoListResponse(list))
}

func (h *TodoListHandler) handleList(w http.ResponseWriter, r *http.Request) {
	opts, err := parseQueryOptions(r.URL.Query())
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	lists, err := h.svc.List(r.Context(), opts)
	if err != nil {
		handleServiceError(w, err, http.StatusInternalServerError)
		return
	}

	WriteJSON(w, http.StatusOK, mapSlice(lists, NewTodoListResponse))
}

func (h *TodoListHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id int64) {
	req, err := decodeBody[todoListRequest](w, r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	var input *service.UpdateTodoListInput
	if req != nil {
		input = &service.UpdateTodoListInput{Label: req.Label}
	}

	list, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		handleServiceError(w, err, http.StatusInternalServerError)
		return
	}

	WriteJSON(w, http.StatusOK, NewTodoListResponse(list))
}

func (h *TodoListHandler) handleArchive(w http.ResponseWriter, r *http.Request, id int64) {
	list, err := h.svc.Archive(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, http.StatusInternalServerError)
		return
	}

	WriteJSON(w, http.StatusAccepted, NewTodoListResponse(list))
}
