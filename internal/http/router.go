package http

import (
	"net/http"

	"github.com/jaekwang-park/todos/internal/http/handler"
)

// NewRouter wires the todo resources. db may be nil, in which case /health
// does not probe the database.
func NewRouter(lists handler.TodoListService, items handler.TodoItemService, db handler.Pinger) http.Handler {
	mux := http.NewServeMux()

	// Health check stays outside /todos so load balancers can reach it without a token
	mux.Handle("/health", handler.NewHealthHandler(db))

	listHandler := handler.NewTodoListHandler(lists)
	mux.Handle("/todos/lists", listHandler)
	mux.Handle("/todos/lists/", listHandler)

	itemHandler := handler.NewTodoItemHandler(items)
	mux.Handle("/todos/items", itemHandler)
	mux.Handle("/todos/items/", itemHandler)

	return mux
}
