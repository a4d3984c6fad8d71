package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jaekwang-park/todos/internal/model"
	"github.com/jaekwang-park/todos/internal/repository"
	"github.com/jaekwang-park/todos/internal/validation"
)

// Validator checks a candidate entity against one rule set.
type Validator[T any] interface {
	Validate(ctx context.Context, candidate T, ruleSet validation.RuleSet) (validation.Result, error)
}

type recordStore[T model.DataRecord] interface {
	repository.ReadOnlyRepository[T]
	repository.WriteOnlyRepository[T]
}

// useCases holds the create/update/archive flows shared by every entity.
// Every flow after the argument check runs inside a transaction that is
// rolled back unless it reaches CommitDatabaseTransaction.
type useCases[T model.DataRecord] struct {
	entity    string
	repo      recordStore[T]
	validator Validator[T]
	logger    *zap.Logger
}

func (u *useCases[T]) begin(ctx context.Context) (context.Context, *repository.Transaction, error) {
	ctx, tx, err := u.repo.BeginDatabaseTransaction(ctx)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return ctx, tx, nil
}

func (u *useCases[T]) rollback(tx *repository.Transaction) {
	if err := tx.Close(); err != nil {
		u.logger.Warn("failed to roll back transaction", zap.String("entity", u.entity), zap.Error(err))
	}
}

func (u *useCases[T]) validate(ctx context.Context, candidate T, ruleSet validation.RuleSet) error {
	result, err := u.validator.Validate(ctx, candidate, ruleSet)
	if err != nil {
		return fmt.Errorf("failed to validate %s: %w", u.entity, err)
	}
	if !result.IsValid() {
		return &ValidationError{RuleSet: ruleSet, Messages: result.Errors}
	}
	return nil
}

// flush writes the staged changes and commits the transaction when tx owns it.
func (u *useCases[T]) flush(ctx context.Context, tx *repository.Transaction) error {
	if _, err := u.repo.Commit(ctx); err != nil {
		return fmt.Errorf("failed to save %s: %w", u.entity, err)
	}
	if _, err := u.repo.CommitDatabaseTransaction(tx); err != nil {
		return fmt.Errorf("failed to commit %s: %w", u.entity, err)
	}
	return nil
}

func (u *useCases[T]) create(ctx context.Context, candidate T) (T, error) {
	var zero T

	ctx, tx, err := u.begin(ctx)
	if err != nil {
		return zero, err
	}
	defer u.rollback(tx)

	if err := u.validate(ctx, candidate, validation.RuleSetCreate); err != nil {
		return zero, err
	}
	created, err := u.repo.Add(ctx, candidate)
	if err != nil {
		return zero, fmt.Errorf("failed to add %s: %w", u.entity, err)
	}
	if err := u.flush(ctx, tx); err != nil {
		return zero, err
	}
	return created, nil
}

func (u *useCases[T]) update(ctx context.Context, id int64, apply func(T)) (T, error) {
	var zero T

	ctx, tx, err := u.begin(ctx)
	if err != nil {
		return zero, err
	}
	defer u.rollback(tx)

	rec, err := u.load(ctx, id, false)
	if err != nil {
		return zero, err
	}
	apply(rec)

	if err := u.validate(ctx, rec, validation.RuleSetUpdate); err != nil {
		return zero, err
	}
	updated, err := u.repo.Update(ctx, rec)
	if err != nil {
		return zero, fmt.Errorf("failed to update %s: %w", u.entity, err)
	}
	if err := u.flush(ctx, tx); err != nil {
		return zero, err
	}
	return updated, nil
}

func (u *useCases[T]) archive(ctx context.Context, id int64) (T, error) {
	var zero T

	ctx, tx, err := u.begin(ctx)
	if err != nil {
		return zero, err
	}
	defer u.rollback(tx)

	rec, err := u.load(ctx, id, true)
	if err != nil {
		return zero, err
	}
	if err := u.validate(ctx, rec, validation.RuleSetArchive); err != nil {
		return zero, err
	}
	archived, err := u.repo.Archive(ctx, id)
	if err != nil {
		return zero, fmt.Errorf("failed to archive %s: %w", u.entity, err)
	}
	if err := u.flush(ctx, tx); err != nil {
		return zero, err
	}
	return archived, nil
}

func (u *useCases[T]) load(ctx context.Context, id int64, includeArchived bool) (T, error) {
	rec, found, err := u.repo.Get(ctx, id, includeArchived)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to get %s: %w", u.entity, err)
	}
	if !found {
		var zero T
		return zero, fmt.Errorf("%w: %s with id %d", ErrNotFound, u.entity, id)
	}
	return rec, nil
}
