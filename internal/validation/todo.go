package validation

import (
	"context"
	"fmt"

	"github.com/jaekwang-park/todos/internal/model"
	"github.com/jaekwang-park/todos/internal/repository"
)

type labelLookup[T model.DataRecord] interface {
	Get(ctx context.Context, id int64, includeArchived bool) (T, bool, error)
	GetByLabel(ctx context.Context, label string) (T, bool, error)
}

func existsActive[T model.DataRecord](entity string, repo labelLookup[T]) Rule[T] {
	return Rule[T]{
		Message: fmt.Sprintf("%s must exist and not be archived", entity),
		Check: func(ctx context.Context, candidate T) (bool, error) {
			_, found, err := repo.Get(ctx, candidate.Base().ID, false)
			return found, err
		},
	}
}

// labelUnused passes when no record other than the candidate carries its
// label. Archived records still hold their labels.
func labelUnused[T model.DataRecord](entity string, repo labelLookup[T], label func(T) string) Rule[T] {
	return Rule[T]{
		Message: fmt.Sprintf("each %s label must be unique", entity),
		Check: func(ctx context.Context, candidate T) (bool, error) {
			existing, found, err := repo.GetByLabel(ctx, label(candidate))
			if err != nil || !found {
				return true, err
			}
			id := candidate.Base().ID
			return id != 0 && existing.Base().ID == id, nil
		},
	}
}

func NewTodoListValidator(repo repository.ReadOnlyTodoListRepository) *Validator[*model.TodoList] {
	const entity = "TodoList"
	label := func(l *model.TodoList) string { return l.Label }

	return New(withGlobal(
		[]Rule[*model.TodoList]{labelRequired(entity, label)},
		map[RuleSet][]Rule[*model.TodoList]{
			RuleSetCreate: {
				labelUnused[*model.TodoList](entity, repo, label),
			},
			RuleSetUpdate: {
				existsActive[*model.TodoList](entity, repo),
				labelUnused[*model.TodoList](entity, repo, label),
			},
			RuleSetArchive: {
				existsActive[*model.TodoList](entity, repo),
			},
		},
	))
}

func NewTodoItemValidator(repo repository.ReadOnlyTodoItemRepository) *Validator[*model.TodoItem] {
	const entity = "TodoItem"
	label := func(i *model.TodoItem) string { return i.Label }

	return New(withGlobal(
		[]Rule[*model.TodoItem]{labelRequired(entity, label)},
		map[RuleSet][]Rule[*model.TodoItem]{
			RuleSetCreate: {
				labelUnused[*model.TodoItem](entity, repo, label),
			},
			RuleSetUpdate: {
				existsActive[*model.TodoItem](entity, repo),
				labelUnused[*model.TodoItem](entity, repo, label),
			},
			RuleSetArchive: {
				existsActive[*model.TodoItem](entity, repo),
			},
			RuleSetComplete: {
				completionChanged(repo),
				existsActive[*model.TodoItem](entity, repo),
			},
		},
	))
}

// completionChanged compares the candidate against the stored item. A missing
// item passes here and is reported by the existence rule.
func completionChanged(repo labelLookup[*model.TodoItem]) Rule[*model.TodoItem] {
	return Rule[*model.TodoItem]{
		Message: "cannot set TodoItem completion to current completion state",
		Check: func(ctx context.Context, candidate *model.TodoItem) (bool, error) {
			stored, found, err := repo.Get(ctx, candidate.ID, false)
			if err != nil || !found {
				return true, err
			}
			return stored.IsCompleted() != candidate.IsCompleted(), nil
		},
	}
}
