package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaekwang-park/todos/internal/model"
	"github.com/jaekwang-park/todos/internal/repository"
)

var now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

var (
	listColumns = []string{"id", "created_at", "archived_at", "label"}
	itemColumns = []string{"id", "created_at", "archived_at", "todo_list_id", "label", "completed_at"}
)

func newStore(t *testing.T) (*repository.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := repository.NewStore(db, nil, repository.WithClock(func() time.Time { return now }))
	return store, mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

func intPtr(v int) *int { return &v }

func TestGet(t *testing.T) {
	store, mock := newStore(t)
	repo := repository.NewTodoListRepository(store)

	mock.ExpectQuery(q("SELECT id, created_at, archived_at, label FROM todo_lists WHERE id = $1 AND archived_at IS NULL LIMIT 1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(listColumns).AddRow(3, now, nil, "groceries"))

	list, ok, err := repo.Get(context.Background(), 3, false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(3), list.ID)
	assert.Equal(t, "groceries", list.Label)
	assert.False(t, list.IsArchived())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_IncludeArchived(t *testing.T) {
	store, mock := newStore(t)
	repo := repository.NewTodoListRepository(store)

	mock.ExpectQuery(q("FROM todo_lists WHERE id = $1 LIMIT 1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(listColumns).AddRow(3, now, now, "groceries"))

	list, ok, err := repo.Get(context.Background(), 3, true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, list.IsArchived())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_Absent(t *testing.T) {
	store, mock := newStore(t)
	repo := repository.NewTodoListRepository(store)

	mock.ExpectQuery(q("FROM todo_lists WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(listColumns))

	list, ok, err := repo.Get(context.Background(), 99, false)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, list)
}

func TestGetAll(t *testing.T) {
	tests := []struct {
		name    string
		opts    *model.QueryOptions
		wantSQL string
		wantErr error
	}{
		{
			name:    "nil options include archived",
			opts:    nil,
			wantSQL: "SELECT id, created_at, archived_at, label FROM todo_lists ORDER BY id",
		},
		{
			name:    "empty options exclude archived",
			opts:    &model.QueryOptions{},
			wantSQL: "FROM todo_lists WHERE archived_at IS NULL ORDER BY id",
		},
		{
			name:    "include archived",
			opts:    &model.QueryOptions{IncludeArchived: true},
			wantSQL: "FROM todo_lists ORDER BY id",
		},
		{
			name:    "page and order",
			opts:    &model.QueryOptions{Limit: intPtr(2), Offset: intPtr(2), Order: "Label", IsDescending: true},
			wantSQL: "FROM todo_lists WHERE archived_at IS NULL ORDER BY label DESC, id DESC LIMIT 2 OFFSET 4",
		},
		{
			name:    "limit without offset",
			opts:    &model.QueryOptions{Limit: intPtr(5), Order: "createdAt"},
			wantSQL: "ORDER BY created_at ASC, id ASC LIMIT 5 OFFSET 0",
		},
		{
			name:    "unknown order",
			opts:    &model.QueryOptions{Order: "colour"},
			wantErr: repository.ErrNoSuchField,
		},
		{
			name:    "negative limit",
			opts:    &model.QueryOptions{Limit: intPtr(-1)},
			wantErr: repository.ErrInvalidQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newStore(t)
			repo := repository.NewTodoListRepository(store)

			if tt.wantErr == nil {
				mock.ExpectQuery(q(tt.wantSQL)).
					WillReturnRows(sqlmock.NewRows(listColumns).
						AddRow(1, now, nil, "a").
						AddRow(2, now, now, "b"))
			}

			lists, err := repo.List(context.Background(), tt.opts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, lists, 2)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetAll_EmptyResultIsNotNil(t *testing.T) {
	store, mock := newStore(t)
	repo := repository.NewTodoListRepository(store)

	mock.ExpectQuery(q("FROM todo_lists")).WillReturnRows(sqlmock.NewRows(listColumns))

	lists, err := repo.List(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, lists)
	assert.Empty(t, lists)
}

func TestGetAllItems_Filters(t *testing.T) {
	store, mock := newStore(t)
	repo := repository.NewTodoItemRepository(store)

	listID := int64(4)
	completed := true
	opts := &model.TodoItemQueryOptions{
		QueryOptions: model.QueryOptions{Order: "todoListId"},
		TodoListID:   &listID,
		Completed:    &completed,
	}

	mock.ExpectQuery(q("FROM todo_items WHERE archived_at IS NULL AND todo_list_id = $1 AND completed_at IS NOT NULL ORDER BY todo_list_id ASC, id ASC")).
		WithArgs(listID).
		WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(1, now, nil, listID, "milk", now))

	items, err := repo.ListItems(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsCompleted())
	assert.Equal(t, listID, items[0].TodoListID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllItems_Incomplete(t *testing.T) {
	store, mock := newStore(t)
	repo := repository.NewTodoItemRepository(store)

	completed := false
	mock.ExpectQuery(q("WHERE archived_at IS NULL AND completed_at IS NULL ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(itemColumns))

	_, err := repo.ListItems(context.Background(), &model.TodoItemQueryOptions{Completed: &completed})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByLabel_IncludesArchived(t *testing.T) {
	store, mock := newStore(t)
	repo := repository.NewTodoListRepository(store)

	mock.ExpectQuery(q("FROM todo_lists WHERE label = $1 ORDER BY id LIMIT 1")).
		WithArgs("groceries").
		WillReturnRows(sqlmock.NewRows(listColumns).AddRow(2, now, now, "groceries"))

	list, ok, err := repo.GetByLabel(context.Background(), "groceries")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, list.IsArchived())
}

func TestAdd_WithoutTransaction(t *testing.T) {
	store, _ := newStore(t)
	repo := repository.NewTodoListRepository(store)

	_, err := repo.Add(context.Background(), &model.TodoList{Label: "groceries"})
	assert.ErrorIs(t, err, repository.ErrNoTransaction)

	_, err = repo.Commit(context.Background())
	assert.ErrorIs(t, err, repository.ErrNoTransaction)
}

func TestAdd_CommitAssignsID(t *testing.T) {
	store, mock := newStore(t)
	repo := repository.NewTodoListRepository(store)

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO todo_lists")).
		WithArgs(now, sqlmock.AnyArg(), "groceries").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	ctx, tx, err := repo.BeginDatabaseTransaction(context.Background())
	require.NoError(t, err)
	defer tx.Close()

	list, err := repo.Add(ctx, &model.TodoList{Label: "groceries"})
	require.NoError(t, err)
	assert.Zero(t, list.ID, "id is assigned on flush")
	assert.Equal(t, now, list.CreatedAt)

	affected, err := repo.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.Equal(t, int64(11), list.ID)

	committed, err := repo.CommitDatabaseTransaction(tx)
	require.NoError(t, err)
	assert.True(t, committed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdd_MissingParentList(t *testing.T) {
	store, mock := newStore(t)
	repo := repository.NewTodoItemRepository(store)

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO todo_items")).
		WillReturnError(&pq.Error{Code: "23503", Detail: "todo_list_id missing"})
	mock.ExpectRollback()

	ctx, tx, err := repo.BeginDatabaseTransaction(context.Background())
	require.NoError(t, err)

	_, err = repo.Add(ctx, &model.TodoItem{TodoListID: 42, Label: "milk"})
	require.NoError(t, err)

	_, err = repo.Commit(ctx)
	assert.ErrorIs(t, err, repository.ErrInvalidReference)

	require.NoError(t, tx.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchive(t *testing.T) {
	store, mock := newStore(t)
	repo := repository.NewTodoListRepository(store)

	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM todo_lists WHERE id = $1 AND archived_at IS NULL LIMIT 1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(listColumns).AddRow(5, now, nil, "groceries"))
	mock.ExpectExec(q("UPDATE todo_lists SET archived_at = $1, label = $2 WHERE id = $3")).
		WithArgs(now, "groceries", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx, tx, err := repo.BeginDatabaseTransaction(context.Background())
	require.NoError(t, err)
	defer tx.Close()

	list, err := repo.Archive(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, list.ArchivedAt)
	assert.Equal(t, now, *list.ArchivedAt)

	_, err = repo.Commit(ctx)
	require.NoError(t, err)
	_, err = repo.CommitDatabaseTransaction(tx)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchive_NotFound(t *testing.T) {
	store, mock := newStore(t)
	repo := repository.NewTodoListRepository(store)

	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM todo_lists WHERE id = $1 AND archived_at IS NULL")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(listColumns))
	mock.ExpectRollback()

	ctx, tx, err := repo.BeginDatabaseTransaction(context.Background())
	require.NoError(t, err)

	_, err = repo.Archive(ctx, 5)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, tx.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_MissingRow(t *testing.T) {
	store, mock := newStore(t)
	repo := repository.NewTodoListRepository(store)

	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE todo_lists")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	ctx, tx, err := repo.BeginDatabaseTransaction(context.Background())
	require.NoError(t, err)
	defer tx.Close()

	list := &model.TodoList{Label: "renamed"}
	list.ID = 8
	_, err = repo.Update(ctx, list)
	require.NoError(t, err)

	_, err = repo.Commit(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestNestedTransaction(t *testing.T) {
	store, mock := newStore(t)
	lists := repository.NewTodoListRepository(store)
	items := repository.NewTodoItemRepository(store)

	mock.ExpectBegin()
	mock.ExpectCommit()

	ctx, outer, err := lists.BeginDatabaseTransaction(context.Background())
	require.NoError(t, err)
	defer outer.Close()
	assert.True(t, outer.IsTopLevel())

	innerCtx, inner, err := items.BeginDatabaseTransaction(ctx)
	require.NoError(t, err)
	assert.False(t, inner.IsTopLevel())
	assert.Equal(t, ctx, innerCtx)

	committed, err := items.CommitDatabaseTransaction(inner)
	require.NoError(t, err)
	assert.False(t, committed, "borrowed handle must not commit")
	require.NoError(t, inner.Close())

	committed, err = lists.CommitDatabaseTransaction(outer)
	require.NoError(t, err)
	assert.True(t, committed)

	_, err = outer.Commit()
	assert.ErrorIs(t, err, repository.ErrTransactionDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction_CloseRollsBack(t *testing.T) {
	store, mock := newStore(t)
	repo := repository.NewTodoListRepository(store)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, tx, err := repo.BeginDatabaseTransaction(context.Background())
	require.NoError(t, err)

	require.NoError(t, tx.Close())
	require.NoError(t, tx.Close(), "second close is a no-op")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBeginDatabaseTransaction_Error(t *testing.T) {
	store, mock := newStore(t)
	repo := repository.NewTodoListRepository(store)

	mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	_, _, err := repo.BeginDatabaseTransaction(context.Background())
	assert.True(t, errors.Is(err, sql.ErrConnDone))
}

func TestDetached(t *testing.T) {
	tx := repository.Detached()
	committed, err := tx.Commit()
	assert.NoError(t, err)
	assert.False(t, committed)
	assert.NoError(t, tx.Close())
}
