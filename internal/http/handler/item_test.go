package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaekwang-park/todos/internal/http/handler"
	"github.com/jaekwang-park/todos/internal/model"
	"github.com/jaekwang-park/todos/internal/service"
)

type mockItemService struct {
	createFn   func(ctx context.Context, input *service.CreateTodoItemInput) (*model.TodoItem, error)
	updateFn   func(ctx context.Context, id int64, input *service.UpdateTodoItemInput) (*model.TodoItem, error)
	completeFn func(ctx context.Context, id int64, input *service.CompleteTodoItemInput) (*model.TodoItem, error)
	archiveFn  func(ctx context.Context, id int64) (*model.TodoItem, error)
	getFn      func(ctx context.Context, id int64, includeArchived bool) (*model.TodoItem, error)
	listFn     func(ctx context.Context, opts *model.TodoItemQueryOptions) ([]*model.TodoItem, error)
}

func (m *mockItemService) Create(ctx context.Context, input *service.CreateTodoItemInput) (*model.TodoItem, error) {
	return m.createFn(ctx, input)
}
func (m *mockItemService) Update(ctx context.Context, id int64, input *service.UpdateTodoItemInput) (*model.TodoItem, error) {
	return m.updateFn(ctx, id, input)
}
func (m *mockItemService) Complete(ctx context.Context, id int64, input *service.CompleteTodoItemInput) (*model.TodoItem, error) {
	return m.completeFn(ctx, id, input)
}
func (m *mockItemService) Archive(ctx context.Context, id int64) (*model.TodoItem, error) {
	return m.archiveFn(ctx, id)
}
func (m *mockItemService) Get(ctx context.Context, id int64, includeArchived bool) (*model.TodoItem, error) {
	return m.getFn(ctx, id, includeArchived)
}
func (m *mockItemService) List(ctx context.Context, opts *model.TodoItemQueryOptions) ([]*model.TodoItem, error) {
	return m.listFn(ctx, opts)
}

func sampleItem(id int64, label string) *model.TodoItem {
	i := &model.TodoItem{TodoListID: 1, Label: label}
	i.ID = id
	i.CreatedAt = now
	return i
}

func TestTodoItemHandler_Create(t *testing.T) {
	var got *service.CreateTodoItemInput
	svc := &mockItemService{
		createFn: func(_ context.Context, input *service.CreateTodoItemInput) (*model.TodoItem, error) {
			got = input
			i := sampleItem(5, input.Label)
			i.TodoListID = input.TodoListID
			return i, nil
		},
	}
	w := serve(handler.NewTodoItemHandler(svc), http.MethodPost, "/todos/items", `{"label":"milk","listId":3}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, &service.CreateTodoItemInput{Label: "milk", TodoListID: 3}, got)

	var resp handler.TodoItemResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, handler.TodoItemResponse{ID: 5, TodoListID: 3, Label: "milk"}, resp)
}

func TestTodoItemHandler_Complete(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		svcErr     error
		wantStatus int
		wantInput  *service.CompleteTodoItemInput
	}{
		{"complete", http.MethodPatch, `{"completed":true}`, nil, http.StatusOK, &service.CompleteTodoItemInput{Completed: true}},
		{"uncomplete", http.MethodPatch, `{"completed":false}`, nil, http.StatusOK, &service.CompleteTodoItemInput{Completed: false}},
		{"missing body", http.MethodPatch, "", service.ErrArgumentMissing, http.StatusBadRequest, nil},
		{"wrong method", http.MethodPost, `{"completed":true}`, nil, http.StatusMethodNotAllowed, nil},
		{
			name:       "same state",
			method:     http.MethodPatch,
			body:       `{"completed":true}`,
			svcErr:     &service.ValidationError{Messages: []string{"cannot set TodoItem completion to current completion state"}},
			wantStatus: http.StatusInternalServerError,
			wantInput:  &service.CompleteTodoItemInput{Completed: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *service.CompleteTodoItemInput
			svc := &mockItemService{
				completeFn: func(_ context.Context, id int64, input *service.CompleteTodoItemInput) (*model.TodoItem, error) {
					got = input
					if tt.svcErr != nil {
						return nil, tt.svcErr
					}
					i := sampleItem(id, "milk")
					if input.Completed {
						i.CompletedAt = &now
					}
					return i, nil
				},
			}
			w := serve(handler.NewTodoItemHandler(svc), tt.method, "/todos/items/4/complete", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantInput, got)
			if tt.wantStatus == http.StatusOK {
				var resp handler.TodoItemResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, int64(4), resp.ID)
				assert.Equal(t, tt.wantInput.Completed, resp.IsCompleted)
			}
		})
	}
}

func TestTodoItemHandler_ListFilters(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		wantStatus    int
		wantListID    *int64
		wantCompleted *bool
	}{
		{"no filters", "", http.StatusOK, nil, nil},
		{"list and completed", "?todoListId=3&completed=false", http.StatusOK, int64Ptr(3), boolPtr(false)},
		{"bad list id", "?todoListId=x", http.StatusBadRequest, nil, nil},
		{"bad completed", "?completed=maybe", http.StatusBadRequest, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *model.TodoItemQueryOptions
			svc := &mockItemService{
				listFn: func(_ context.Context, opts *model.TodoItemQueryOptions) ([]*model.TodoItem, error) {
					got = opts
					return []*model.TodoItem{}, nil
				},
			}
			w := serve(handler.NewTodoItemHandler(svc), http.MethodGet, "/todos/items"+tt.query, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantListID, got.TodoListID)
			assert.Equal(t, tt.wantCompleted, got.Completed)
			assert.Equal(t, "[]\n", w.Body.String())
		})
	}
}

func TestTodoItemHandler_GetAndArchive(t *testing.T) {
	svc := &mockItemService{
		getFn: func(_ context.Context, id int64, includeArchived bool) (*model.TodoItem, error) {
			if !includeArchived {
				return nil, service.ErrNotFound
			}
			return sampleItem(id, "milk"), nil
		},
		archiveFn: func(_ context.Context, id int64) (*model.TodoItem, error) {
			i := sampleItem(id, "milk")
			i.ArchivedAt = &now
			return i, nil
		},
		updateFn: func(context.Context, int64, *service.UpdateTodoItemInput) (*model.TodoItem, error) {
			return nil, errors.New("connection reset")
		},
	}
	h := handler.NewTodoItemHandler(svc)

	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/todos/items/2", "").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/todos/items/2?includeArchived=true", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodGet, "/todos/items/2?includeArchived=perhaps", "").Code)

	w := serve(h, http.MethodDelete, "/todos/items/2", "")
	require.Equal(t, http.StatusAccepted, w.Code)
	var resp handler.TodoItemResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.IsArchived)

	w = serve(h, http.MethodPatch, "/todos/items/2", `{"label":"oat milk"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Equal(t, "connection reset", body.Error.Message)
}

func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }
