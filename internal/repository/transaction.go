package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var stagedChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "todos_repository_flushed_changes_total",
		Help: "Number of staged changes written to the database",
	},
	[]string{"table", "operation"},
)

type unitOfWorkKey struct{}

// unitOfWork is the per-request change set bound to one database transaction.
type unitOfWork struct {
	tx      *sql.Tx
	changes []change
}

type change struct {
	table     string
	operation string
	exec      func(ctx context.Context, q runner) (int64, error)
}

func unitOfWorkFrom(ctx context.Context) *unitOfWork {
	uow, _ := ctx.Value(unitOfWorkKey{}).(*unitOfWork)
	return uow
}

// Transaction is a handle on the ambient database transaction. Only the
// owning handle, the one that started the transaction, commits or rolls it
// back; borrowed handles are inert.
type Transaction struct {
	uow       *unitOfWork
	owning    bool
	finalized bool
}

// Detached returns a handle bound to no transaction. Committing or closing it
// does nothing.
func Detached() *Transaction {
	return &Transaction{}
}

// IsTopLevel reports whether the handle owns the underlying transaction.
func (t *Transaction) IsTopLevel() bool {
	return t.owning
}

// Commit commits the transaction when the handle owns it and reports whether
// it did.
func (t *Transaction) Commit() (bool, error) {
	if !t.owning {
		return false, nil
	}
	if t.finalized {
		return false, ErrTransactionDone
	}
	t.finalized = true
	t.uow.changes = nil
	if err := t.uow.tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

// Close rolls back an owning handle that was never committed. It is safe to
// defer right after BeginDatabaseTransaction.
func (t *Transaction) Close() error {
	if !t.owning || t.finalized {
		return nil
	}
	t.finalized = true
	t.uow.changes = nil
	if err := t.uow.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

// BeginDatabaseTransaction joins the transaction carried by ctx, or starts a
// new one and returns a context carrying it.
func (s *Store) BeginDatabaseTransaction(ctx context.Context) (context.Context, *Transaction, error) {
	if uow := unitOfWorkFrom(ctx); uow != nil {
		return ctx, &Transaction{uow: uow}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	uow := &unitOfWork{tx: tx}
	return context.WithValue(ctx, unitOfWorkKey{}, uow), &Transaction{uow: uow, owning: true}, nil
}

func (s *Store) CommitDatabaseTransaction(tx *Transaction) (bool, error) {
	return tx.Commit()
}

func (s *Store) stage(ctx context.Context, c change) error {
	uow := unitOfWorkFrom(ctx)
	if uow == nil {
		return ErrNoTransaction
	}
	uow.changes = append(uow.changes, c)
	return nil
}

// Commit flushes every staged change of the ambient unit of work, in staging
// order, and returns the number of affected rows.
func (s *Store) Commit(ctx context.Context) (int64, error) {
	uow := unitOfWorkFrom(ctx)
	if uow == nil {
		return 0, ErrNoTransaction
	}

	ctx, span := s.tracer.Start(ctx, "repository.Commit")
	defer span.End()

	changes := uow.changes
	uow.changes = nil

	var affected int64
	for _, c := range changes {
		n, err := c.exec(ctx, uow.tx)
		if err != nil {
			span.RecordError(err)
			return affected, fmt.Errorf("failed to flush %s on %s: %w", c.operation, c.table, err)
		}
		stagedChangesTotal.WithLabelValues(c.table, c.operation).Inc()
		affected += n
	}

	span.SetAttributes(
		attribute.Int("changes", len(changes)),
		attribute.Int64("rows_affected", affected),
	)
	s.logger.Debug("flushed staged changes",
		zap.Int("changes", len(changes)),
		zap.Int64("rows_affected", affected),
		zap.String("trace_id", trace.SpanContextFromContext(ctx).TraceID().String()),
	)

	return affected, nil
}
