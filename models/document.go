package models

import (
	"encoding/json"
	"time"
)

// Document is one record of a user-scoped collection as held by the document
// store. Data is the opaque JSON body; the store never interprets it.
type Document struct {
	Path      string          `json:"path"`
	ID        string          `json:"id"`
	UserID    int64           `json:"-"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// TableName returns the name of the database table
// associated with the Document model.
func (d Document) TableName() string {
	return "documents"
}

// Snapshot is the full content of a collection at one moment. Seq grows
// monotonically per path so stale deliveries can be recognised.
type Snapshot struct {
	Path      string     `json:"path"`
	Seq       uint64     `json:"seq"`
	Documents []Document `json:"documents"`
}
