package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/jaekwang-park/todos/internal/model"
)

var todoItemTable = Table[*model.TodoItem]{
	Name:    "todo_items",
	Entity:  "TodoItem",
	Columns: []string{"todo_list_id", "label", "completed_at"},
	New:     func() *model.TodoItem { return &model.TodoItem{} },
	Values: func(i *model.TodoItem) []any {
		return []any{i.TodoListID, i.Label, i.CompletedAt}
	},
	Targets: func(i *model.TodoItem) []any {
		return []any{&i.TodoListID, &i.Label, &i.CompletedAt}
	},
	Fields: map[string]string{
		"label":       "label",
		"todolistid":  "todo_list_id",
		"completedat": "completed_at",
	},
}

type ReadOnlyTodoItemRepository interface {
	ReadOnlyRepository[*model.TodoItem]
	ListItems(ctx context.Context, opts *model.TodoItemQueryOptions) ([]*model.TodoItem, error)
	GetByLabel(ctx context.Context, label string) (*model.TodoItem, bool, error)
}

type TodoItemRepository struct {
	*Repository[*model.TodoItem]
}

func NewTodoItemRepository(store *Store) *TodoItemRepository {
	return &TodoItemRepository{Repository: NewRepository(store, todoItemTable)}
}

// GetAllItems applies the generic options and then the item filters.
func (r *TodoItemRepository) GetAllItems(opts *model.TodoItemQueryOptions) (*Query[*model.TodoItem], error) {
	if opts == nil {
		return r.GetAll(nil)
	}

	q, err := r.GetAll(&opts.QueryOptions)
	if err != nil {
		return nil, err
	}
	if opts.TodoListID != nil {
		q = q.Where(sq.Eq{"todo_list_id": *opts.TodoListID})
	}
	if opts.Completed != nil {
		if *opts.Completed {
			q = q.Where(sq.NotEq{"completed_at": nil})
		} else {
			q = q.Where(sq.Eq{"completed_at": nil})
		}
	}
	return q, nil
}

func (r *TodoItemRepository) ListItems(ctx context.Context, opts *model.TodoItemQueryOptions) ([]*model.TodoItem, error) {
	q, err := r.GetAllItems(opts)
	if err != nil {
		return nil, err
	}
	return q.All(ctx)
}

// GetByLabel finds an item by exact label. Archived items are included.
func (r *TodoItemRepository) GetByLabel(ctx context.Context, label string) (*model.TodoItem, bool, error) {
	q, err := r.GetAll(nil)
	if err != nil {
		return nil, false, err
	}
	return q.Where(sq.Eq{"label": label}).First(ctx)
}

var (
	_ ReadOnlyTodoItemRepository           = (*TodoItemRepository)(nil)
	_ WriteOnlyRepository[*model.TodoItem] = (*TodoItemRepository)(nil)
)
