package codes

import "time"

// CodeCounter is the persisted sequence row behind document codes. One row
// exists per (department, doc_type, year) scope; the counter never decreases
// and rows are never deleted, so issued codes stay unique across restarts.
type CodeCounter struct {
	ID         int64     `db:"id" json:"id"`
	Department string    `db:"department" json:"department"`
	DocType    string    `db:"doc_type" json:"doc_type"`
	Year       int       `db:"year" json:"year"`
	Counter    int       `db:"counter" json:"counter"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
