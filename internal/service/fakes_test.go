package service_test

import (
	"context"
	"time"

	"github.com/jaekwang-park/todos/internal/model"
	"github.com/jaekwang-park/todos/internal/repository"
	"github.com/jaekwang-park/todos/internal/validation"
)

var now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// txRecorder counts transaction calls made by a service.
type txRecorder struct {
	begun     int
	committed int
	flushed   int
	beginErr  error
	commitErr error
}

func (r *txRecorder) BeginDatabaseTransaction(ctx context.Context) (context.Context, *repository.Transaction, error) {
	if r.beginErr != nil {
		return ctx, nil, r.beginErr
	}
	r.begun++
	return ctx, repository.Detached(), nil
}

func (r *txRecorder) CommitDatabaseTransaction(*repository.Transaction) (bool, error) {
	r.committed++
	return true, nil
}

func (r *txRecorder) Commit(context.Context) (int64, error) {
	if r.commitErr != nil {
		return 0, r.commitErr
	}
	r.flushed++
	return 1, nil
}

type mockListRepo struct {
	txRecorder
	getFn        func(ctx context.Context, id int64, includeArchived bool) (*model.TodoList, bool, error)
	listFn       func(ctx context.Context, opts *model.QueryOptions) ([]*model.TodoList, error)
	getByLabelFn func(ctx context.Context, label string) (*model.TodoList, bool, error)
	archiveFn    func(ctx context.Context, id int64) (*model.TodoList, error)
	added        []*model.TodoList
	updated      []*model.TodoList
}

func (m *mockListRepo) Get(ctx context.Context, id int64, includeArchived bool) (*model.TodoList, bool, error) {
	return m.getFn(ctx, id, includeArchived)
}
func (m *mockListRepo) List(ctx context.Context, opts *model.QueryOptions) ([]*model.TodoList, error) {
	return m.listFn(ctx, opts)
}
func (m *mockListRepo) GetByLabel(ctx context.Context, label string) (*model.TodoList, bool, error) {
	return m.getByLabelFn(ctx, label)
}
func (m *mockListRepo) Add(_ context.Context, l *model.TodoList) (*model.TodoList, error) {
	l.CreatedAt = now
	m.added = append(m.added, l)
	return l, nil
}
func (m *mockListRepo) Update(_ context.Context, l *model.TodoList) (*model.TodoList, error) {
	m.updated = append(m.updated, l)
	return l, nil
}
func (m *mockListRepo) Archive(ctx context.Context, id int64) (*model.TodoList, error) {
	return m.archiveFn(ctx, id)
}

type mockItemRepo struct {
	txRecorder
	getFn       func(ctx context.Context, id int64, includeArchived bool) (*model.TodoItem, bool, error)
	listItemsFn func(ctx context.Context, opts *model.TodoItemQueryOptions) ([]*model.TodoItem, error)
	archiveFn   func(ctx context.Context, id int64) (*model.TodoItem, error)
	added       []*model.TodoItem
	updated     []*model.TodoItem
}

func (m *mockItemRepo) Get(ctx context.Context, id int64, includeArchived bool) (*model.TodoItem, bool, error) {
	return m.getFn(ctx, id, includeArchived)
}
func (m *mockItemRepo) List(context.Context, *model.QueryOptions) ([]*model.TodoItem, error) {
	return nil, nil
}
func (m *mockItemRepo) ListItems(ctx context.Context, opts *model.TodoItemQueryOptions) ([]*model.TodoItem, error) {
	return m.listItemsFn(ctx, opts)
}
func (m *mockItemRepo) GetByLabel(context.Context, string) (*model.TodoItem, bool, error) {
	return nil, false, nil
}
func (m *mockItemRepo) Add(_ context.Context, i *model.TodoItem) (*model.TodoItem, error) {
	i.CreatedAt = now
	m.added = append(m.added, i)
	return i, nil
}
func (m *mockItemRepo) Update(_ context.Context, i *model.TodoItem) (*model.TodoItem, error) {
	m.updated = append(m.updated, i)
	return i, nil
}
func (m *mockItemRepo) Archive(ctx context.Context, id int64) (*model.TodoItem, error) {
	return m.archiveFn(ctx, id)
}

type mockValidator[T any] struct {
	validateFn func(ctx context.Context, candidate T, ruleSet validation.RuleSet) (validation.Result, error)
	ruleSets   []validation.RuleSet
}

func (m *mockValidator[T]) Validate(ctx context.Context, candidate T, ruleSet validation.RuleSet) (validation.Result, error) {
	m.ruleSets = append(m.ruleSets, ruleSet)
	if m.validateFn == nil {
		return validation.Result{RuleSet: ruleSet}, nil
	}
	return m.validateFn(ctx, candidate, ruleSet)
}

func failing[T any](messages ...string) *mockValidator[T] {
	return &mockValidator[T]{
		validateFn: func(_ context.Context, _ T, ruleSet validation.RuleSet) (validation.Result, error) {
			return validation.Result{RuleSet: ruleSet, Errors: messages}, nil
		},
	}
}

func storedList(id int64, label string, archived bool) *model.TodoList {
	l := &model.TodoList{Label: label}
	l.ID = id
	l.CreatedAt = now
	if archived {
		l.ArchivedAt = &now
	}
	return l
}

func storedItem(id int64, label string, completed bool) *model.TodoItem {
	i := &model.TodoItem{TodoListID: 1, Label: label}
	i.ID = id
	i.CreatedAt = now
	if completed {
		i.CompletedAt = &now
	}
	return i
}
