package model

// QueryOptions describes filtering, ordering and pagination of a listing.
// Offset is a page index: the number of skipped records is Offset*Limit.
type QueryOptions struct {
	Limit           *int
	Offset          *int
	Order           string
	IsDescending    bool
	IncludeArchived bool
}

// TodoItemQueryOptions adds item-specific filters to QueryOptions.
type TodoItemQueryOptions struct {
	QueryOptions
	TodoListID *int64
	Completed  *bool
}
