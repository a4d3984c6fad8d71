package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jaekwang-park/todos/internal/model"
	"github.com/jaekwang-park/todos/internal/repository"
	"github.com/jaekwang-park/todos/internal/validation"
)

type CreateTodoItemInput struct {
	Label      string
	TodoListID int64
}

type UpdateTodoItemInput struct {
	Label string
}

type CompleteTodoItemInput struct {
	Completed bool
}

// TodoItemRepository is the storage the item service needs.
type TodoItemRepository interface {
	repository.ReadOnlyTodoItemRepository
	repository.WriteOnlyRepository[*model.TodoItem]
}

type TodoItemService struct {
	repo TodoItemRepository
	uc   *useCases[*model.TodoItem]
	now  func() time.Time
}

func NewTodoItemService(repo TodoItemRepository, validator Validator[*model.TodoItem], logger *zap.Logger) *TodoItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoItemService{
		repo: repo,
		uc: &useCases[*model.TodoItem]{
			entity:    "TodoItem",
			repo:      repo,
			validator: validator,
			logger:    logger,
		},
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (s *TodoItemService) Create(ctx context.Context, input *CreateTodoItemInput) (*model.TodoItem, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: create TodoItem request", ErrArgumentMissing)
	}
	return s.uc.create(ctx, &model.TodoItem{
		Label:      input.Label,
		TodoListID: input.TodoListID,
	})
}

func (s *TodoItemService) Update(ctx context.Context, id int64, input *UpdateTodoItemInput) (*model.TodoItem, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: update TodoItem request", ErrArgumentMissing)
	}
	return s.uc.update(ctx, id, func(i *model.TodoItem) {
		i.Label = input.Label
	})
}

// Complete sets or clears the completion time. The update is staged before
// validation, so the rule set sees the stored state while the candidate
// carries the requested one.
func (s *TodoItemService) Complete(ctx context.Context, id int64, input *CompleteTodoItemInput) (*model.TodoItem, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: complete TodoItem request", ErrArgumentMissing)
	}

	ctx, tx, err := s.uc.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.uc.rollback(tx)

	item, err := s.uc.load(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if input.Completed {
		completedAt := s.now()
		item.CompletedAt = &completedAt
	} else {
		item.CompletedAt = nil
	}

	item, err = s.repo.Update(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to update TodoItem: %w", err)
	}
	if err := s.uc.validate(ctx, item, validation.RuleSetComplete); err != nil {
		return nil, err
	}
	if err := s.uc.flush(ctx, tx); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *TodoItemService) Archive(ctx context.Context, id int64) (*model.TodoItem, error) {
	return s.uc.archive(ctx, id)
}

// Get returns ErrNotFound when no eligible item has the id.
func (s *TodoItemService) Get(ctx context.Context, id int64, includeArchived bool) (*model.TodoItem, error) {
	return s.uc.load(ctx, id, includeArchived)
}

func (s *TodoItemService) List(ctx context.Context, opts *model.TodoItemQueryOptions) ([]*model.TodoItem, error) {
	items, err := s.repo.ListItems(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list TodoItems: %w", err)
	}
	return items, nil
}
