package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jaekwang-park/todos/internal/model"
)

const maxBodySize = 1 << 20 // 1 MB

var errInvalidQuery = errors.New("invalid query parameter")

// decodeBody returns nil for an empty or null body.
func decodeBody[T any](w http.ResponseWriter, r *http.Request) (*T, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req *T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

// splitPath turns "/todos/items/12/complete" under prefix "/todos/items"
// into "12" and "complete".
func splitPath(path, prefix string) (id, sub string) {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	parts := strings.SplitN(rest, "/", 2)
	id = parts[0]
	if len(parts) > 1 {
		sub = parts[1]
	}
	return id, sub
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func parseQueryOptions(q url.Values) (*model.QueryOptions, error) {
	opts := &model.QueryOptions{Order: q.Get("order")}

	var err error
	if opts.Limit, err = optionalInt(q, "limit"); err != nil {
		return nil, err
	}
	if opts.Offset, err = optionalInt(q, "offset"); err != nil {
		return nil, err
	}
	if opts.IsDescending, err = boolParam(q, "isDescending"); err != nil {
		return nil, err
	}
	if opts.IncludeArchived, err = boolParam(q, "includeArchived"); err != nil {
		return nil, err
	}
	return opts, nil
}

func parseItemQueryOptions(q url.Values) (*model.TodoItemQueryOptions, error) {
	base, err := parseQueryOptions(q)
	if err != nil {
		return nil, err
	}
	opts := &model.TodoItemQueryOptions{QueryOptions: *base}

	if raw := q.Get("todoListId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: todoListId must be an integer", errInvalidQuery)
		}
		opts.TodoListID = &id
	}
	if raw := q.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: completed must be a boolean", errInvalidQuery)
		}
		opts.Completed = &completed
	}
	return opts, nil
}

func optionalInt(q url.Values, key string) (*int, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("%w: %s must be a non-negative integer", errInvalidQuery, key)
	}
	return &v, nil
}

func boolParam(q url.Values, key string) (bool, error) {
	raw := q.Get(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", errInvalidQuery, key)
	}
	return v, nil
}
