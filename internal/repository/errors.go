package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrNoSuchField      = errors.New("no such field")
	ErrInvalidQuery     = errors.New("invalid query options")
	ErrNoTransaction    = errors.New("no database transaction in context")
	ErrTransactionDone  = errors.New("transaction already finalized")
	ErrConflict         = errors.New("conflicting record")
	ErrInvalidReference = errors.New("invalid reference")
)

// translateError maps Postgres constraint violations onto repository sentinels.
func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code.Name() {
	case "unique_violation":
		return fmt.Errorf("%w: %s", ErrConflict, pqErr.Message)
	case "foreign_key_violation":
		return fmt.Errorf("%w: %s", ErrInvalidReference, pqErr.Detail)
	default:
		return err
	}
}
