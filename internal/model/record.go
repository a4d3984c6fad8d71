package model

import "time"

// Record carries the identity and lifecycle timestamps shared by every persisted entity.
// ArchivedAt is nil while the record is active; once set it is never cleared.
type Record struct {
	ID         int64      `json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

// Base returns the embedded record so generic code can reach the common fields.
func (r *Record) Base() *Record {
	return r
}

func (r Record) IsArchived() bool {
	return r.ArchivedAt != nil
}

// DataRecord is satisfied by pointers to structs embedding Record.
type DataRecord interface {
	Base() *Record
}
