package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/jaekwang-park/todos/internal/model"
)

var todoListTable = Table[*model.TodoList]{
	Name:    "todo_lists",
	Entity:  "TodoList",
	Columns: []string{"label"},
	New:     func() *model.TodoList { return &model.TodoList{} },
	Values: func(l *model.TodoList) []any {
		return []any{l.Label}
	},
	Targets: func(l *model.TodoList) []any {
		return []any{&l.Label}
	},
	Fields: map[string]string{
		"label": "label",
	},
}

type ReadOnlyTodoListRepository interface {
	ReadOnlyRepository[*model.TodoList]
	GetByLabel(ctx context.Context, label string) (*model.TodoList, bool, error)
}

type TodoListRepository struct {
	*Repository[*model.TodoList]
}

func NewTodoListRepository(store *Store) *TodoListRepository {
	return &TodoListRepository{Repository: NewRepository(store, todoListTable)}
}

// GetByLabel finds a list by exact label. Archived lists are included.
func (r *TodoListRepository) GetByLabel(ctx context.Context, label string) (*model.TodoList, bool, error) {
	q, err := r.GetAll(nil)
	if err != nil {
		return nil, false, err
	}
	return q.Where(sq.Eq{"label": label}).First(ctx)
}

var (
	_ ReadOnlyTodoListRepository           = (*TodoListRepository)(nil)
	_ WriteOnlyRepository[*model.TodoList] = (*TodoListRepository)(nil)
)
