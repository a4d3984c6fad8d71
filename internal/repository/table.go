package repository

import (
	"strings"

	"github.com/jaekwang-park/todos/internal/model"
)

// Table maps an entity type onto its database table. Columns lists the
// entity-specific columns; id, created_at and archived_at are implied.
type Table[T model.DataRecord] struct {
	Name    string
	Entity  string
	Columns []string
	New     func() T
	Values  func(T) []any
	Targets func(T) []any
	// Fields maps lower-cased property names accepted by QueryOptions.Order
	// onto columns.
	Fields map[string]string
}

var recordFields = map[string]string{
	"id":         "id",
	"createdat":  "created_at",
	"archivedat": "archived_at",
}

func (t Table[T]) selectColumns() []string {
	return append([]string{"id", "created_at", "archived_at"}, t.Columns...)
}

func (t Table[T]) column(property string) (string, bool) {
	key := strings.ToLower(property)
	if col, ok := recordFields[key]; ok {
		return col, true
	}
	col, ok := t.Fields[key]
	return col, ok
}

func (t Table[T]) scan(row scannable) (T, error) {
	rec := t.New()
	base := rec.Base()
	dest := append([]any{&base.ID, &base.CreatedAt, &base.ArchivedAt}, t.Targets(rec)...)
	if err := row.Scan(dest...); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}
