package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jaekwang-park/todos/internal/model"
	"github.com/jaekwang-park/todos/internal/repository"
)

type CreateTodoListInput struct {
	Label string
}

type UpdateTodoListInput struct {
	Label string
}

// TodoListRepository is the storage the list service needs.
type TodoListRepository interface {
	repository.ReadOnlyTodoListRepository
	repository.WriteOnlyRepository[*model.TodoList]
}

type TodoListService struct {
	repo TodoListRepository
	uc   *useCases[*model.TodoList]
}

func NewTodoListService(repo TodoListRepository, validator Validator[*model.TodoList], logger *zap.Logger) *TodoListService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoListService{
		repo: repo,
		uc: &useCases[*model.TodoList]{
			entity:    "TodoList",
			repo:      repo,
			validator: validator,
			logger:    logger,
		},
	}
}

func (s *TodoListService) Create(ctx context.Context, input *CreateTodoListInput) (*model.TodoList, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: create TodoList request", ErrArgumentMissing)
	}
	return s.uc.create(ctx, &model.TodoList{Label: input.Label})
}

func (s *TodoListService) Update(ctx context.Context, id int64, input *UpdateTodoListInput) (*model.TodoList, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: update TodoList request", ErrArgumentMissing)
	}
	return s.uc.update(ctx, id, func(l *model.TodoList) {
		l.Label = input.Label
	})
}

func (s *TodoListService) Archive(ctx context.Context, id int64) (*model.TodoList, error) {
	return s.uc.archive(ctx, id)
}

// Get returns ErrNotFound when no eligible list has the id.
func (s *TodoListService) Get(ctx context.Context, id int64, includeArchived bool) (*model.TodoList, error) {
	return s.uc.load(ctx, id, includeArchived)
}

func (s *TodoListService) List(ctx context.Context, opts *model.QueryOptions) ([]*model.TodoList, error) {
	lists, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list TodoLists: %w", err)
	}
	return lists, nil
}
