package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jaekwang-park/todos/internal/model"
)

// ReadOnlyRepository is the read side of Repository.
type ReadOnlyRepository[T model.DataRecord] interface {
	Get(ctx context.Context, id int64, includeArchived bool) (T, bool, error)
	List(ctx context.Context, opts *model.QueryOptions) ([]T, error)
}

// WriteOnlyRepository is the write side of Repository. Add, Update and
// Archive only stage changes; Commit flushes them.
type WriteOnlyRepository[T model.DataRecord] interface {
	Add(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, rec T) (T, error)
	Archive(ctx context.Context, id int64) (T, error)
	Commit(ctx context.Context) (int64, error)
	BeginDatabaseTransaction(ctx context.Context) (context.Context, *Transaction, error)
	CommitDatabaseTransaction(tx *Transaction) (bool, error)
}

// Repository implements soft-delete CRUD for one table.
type Repository[T model.DataRecord] struct {
	*Store
	table Table[T]
}

func NewRepository[T model.DataRecord](store *Store, table Table[T]) *Repository[T] {
	return &Repository[T]{Store: store, table: table}
}

func (r *Repository[T]) selectBuilder() sq.SelectBuilder {
	return psql.Select(r.table.selectColumns()...).From(r.table.Name)
}

func (r *Repository[T]) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("db.table", r.table.Name))
	return r.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Get returns the record with the given id. Archived records are only
// eligible when includeArchived is set. A missing record is not an error.
func (r *Repository[T]) Get(ctx context.Context, id int64, includeArchived bool) (T, bool, error) {
	var zero T

	ctx, span := r.startSpan(ctx, "repository.Get", attribute.Int64("record.id", id))
	defer span.End()

	builder := r.selectBuilder().Where(sq.Eq{"id": id})
	if !includeArchived {
		builder = builder.Where(sq.Eq{"archived_at": nil})
	}
	query, args, err := builder.Limit(1).ToSql()
	if err != nil {
		return zero, false, fmt.Errorf("failed to build query: %w", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rec, err := r.table.scan(r.runner(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			span.SetAttributes(attribute.Bool("not_found", true))
			return zero, false, nil
		}
		span.RecordError(err)
		return zero, false, fmt.Errorf("failed to get %s: %w", r.table.Entity, err)
	}
	return rec, true, nil
}

// GetAll builds a lazy query over the table. With nil options every record is
// returned, archived ones included. Otherwise archived records are excluded
// unless opts.IncludeArchived is set, the result is ordered by opts.Order and
// paginated with a skip of Offset*Limit.
func (r *Repository[T]) GetAll(opts *model.QueryOptions) (*Query[T], error) {
	builder := r.selectBuilder()
	if opts == nil {
		return &Query[T]{repo: r, builder: builder.OrderBy("id")}, nil
	}

	if opts.Limit != nil {
		limit := *opts.Limit
		offset := 0
		if opts.Offset != nil {
			offset = *opts.Offset
		}
		if limit < 0 || offset < 0 {
			return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidQuery)
		}
		builder = builder.Limit(uint64(limit)).Offset(uint64(offset * limit))
	}

	if opts.Order != "" {
		col, ok := r.table.column(opts.Order)
		if !ok {
			return nil, fmt.Errorf("%w: entity of type %s does not have property %s", ErrNoSuchField, r.table.Entity, opts.Order)
		}
		direction := "ASC"
		if opts.IsDescending {
			direction = "DESC"
		}
		builder = builder.OrderBy(col + " " + direction)
		if col != "id" {
			builder = builder.OrderBy("id " + direction)
		}
	} else {
		builder = builder.OrderBy("id")
	}

	if !opts.IncludeArchived {
		builder = builder.Where(sq.Eq{"archived_at": nil})
	}

	return &Query[T]{repo: r, builder: builder}, nil
}

// List materializes GetAll.
func (r *Repository[T]) List(ctx context.Context, opts *model.QueryOptions) ([]T, error) {
	q, err := r.GetAll(opts)
	if err != nil {
		return nil, err
	}
	return q.All(ctx)
}

// Add stamps the creation time and stages an insert. The id is assigned when
// the change is flushed.
func (r *Repository[T]) Add(ctx context.Context, rec T) (T, error) {
	base := rec.Base()
	base.CreatedAt = r.now()

	err := r.stage(ctx, change{
		table:     r.table.Name,
		operation: "insert",
		exec: func(ctx context.Context, q runner) (int64, error) {
			columns := append([]string{"created_at", "archived_at"}, r.table.Columns...)
			values := append([]any{base.CreatedAt, base.ArchivedAt}, r.table.Values(rec)...)

			query, args, err := psql.Insert(r.table.Name).
				Columns(columns...).
				Values(values...).
				Suffix("RETURNING id").
				ToSql()
			if err != nil {
				return 0, fmt.Errorf("failed to build insert: %w", err)
			}

			ctx, cancel := r.withTimeout(ctx)
			defer cancel()

			if err := q.QueryRowContext(ctx, query, args...).Scan(&base.ID); err != nil {
				return 0, translateError(err)
			}
			return 1, nil
		},
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// Update stages a write of the record's current field values. Values are
// read when the change is flushed.
func (r *Repository[T]) Update(ctx context.Context, rec T) (T, error) {
	base := rec.Base()

	err := r.stage(ctx, change{
		table:     r.table.Name,
		operation: "update",
		exec: func(ctx context.Context, q runner) (int64, error) {
			builder := psql.Update(r.table.Name).Set("archived_at", base.ArchivedAt)
			values := r.table.Values(rec)
			for i, col := range r.table.Columns {
				builder = builder.Set(col, values[i])
			}

			query, args, err := builder.Where(sq.Eq{"id": base.ID}).ToSql()
			if err != nil {
				return 0, fmt.Errorf("failed to build update: %w", err)
			}

			ctx, cancel := r.withTimeout(ctx)
			defer cancel()

			result, err := q.ExecContext(ctx, query, args...)
			if err != nil {
				return 0, translateError(err)
			}
			rows, err := result.RowsAffected()
			if err != nil {
				return 0, fmt.Errorf("failed to get rows affected: %w", err)
			}
			if rows == 0 {
				return 0, fmt.Errorf("%w: %s with id %d", ErrNotFound, r.table.Entity, base.ID)
			}
			return rows, nil
		},
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// Archive stamps the archive time on an active record and stages the update.
func (r *Repository[T]) Archive(ctx context.Context, id int64) (T, error) {
	var zero T

	rec, ok, err := r.Get(ctx, id, false)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, fmt.Errorf("%w: un-archived %s with id %d not found during archive", ErrNotFound, r.table.Entity, id)
	}

	archivedAt := r.now()
	rec.Base().ArchivedAt = &archivedAt
	return r.Update(ctx, rec)
}

var (
	_ ReadOnlyRepository[*model.TodoList]  = (*Repository[*model.TodoList])(nil)
	_ WriteOnlyRepository[*model.TodoList] = (*Repository[*model.TodoList])(nil)
)
