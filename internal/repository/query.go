package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jaekwang-park/todos/internal/model"
)

// Query is a lazily evaluated listing. Nothing is read until All or First.
type Query[T model.DataRecord] struct {
	repo    *Repository[T]
	builder sq.SelectBuilder
}

// Where narrows the query. It composes with the filters already applied.
func (q *Query[T]) Where(pred any, args ...any) *Query[T] {
	return &Query[T]{repo: q.repo, builder: q.builder.Where(pred, args...)}
}

func (q *Query[T]) All(ctx context.Context) ([]T, error) {
	return q.repo.fetch(ctx, q.builder)
}

// First returns the first record of the query, if any.
func (q *Query[T]) First(ctx context.Context) (T, bool, error) {
	var zero T
	records, err := q.repo.fetch(ctx, q.builder.Limit(1))
	if err != nil {
		return zero, false, err
	}
	if len(records) == 0 {
		return zero, false, nil
	}
	return records[0], true, nil
}

func (r *Repository[T]) fetch(ctx context.Context, builder sq.SelectBuilder) ([]T, error) {
	ctx, span := r.startSpan(ctx, "repository.GetAll")
	defer span.End()

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.runner(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list %s: %w", r.table.Entity, err)
	}
	defer rows.Close()

	records := make([]T, 0)
	for rows.Next() {
		rec, err := r.table.scan(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan %s row: %w", r.table.Entity, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate %s rows: %w", r.table.Entity, err)
	}

	span.SetAttributes(attribute.Int("returned_count", len(records)))
	return records, nil
}
