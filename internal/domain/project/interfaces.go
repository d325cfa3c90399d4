package project

import "context"

// Repository provides row persistence for projects.
//
// Upsert is a whole-record overwrite with no version token: concurrent
// writers silently overwrite each other (last write wins). If stricter
// consistency is ever wanted, the extension point is a version column on
// the row plus a stale-version reject in the implementations.
type Repository interface {
	// Insert stores a new row, assigning a fresh UUID when the row carries
	// no id, and returns the stored row.
	Insert(ctx context.Context, row *Row) (*Row, error)
	// Upsert writes the whole row by id.
	Upsert(ctx context.Context, row *Row) error
	// Get returns a row visible to the principal.
	Get(ctx context.Context, principalID, id string) (*Row, error)
	// ListVisible returns all rows the principal owns or is a member of,
	// most recently updated first.
	ListVisible(ctx context.Context, principalID string) ([]Row, error)
	// Delete removes a row the principal owns.
	Delete(ctx context.Context, principalID, id string) error
}

// Store holds the in-memory collection of loaded projects. Mutations go
// through Apply so callers never share pointers into the collection.
type Store interface {
	Replace(projects []*Project)
	Put(p *Project)
	Get(id string) (Project, bool)
	Apply(id string, mutator func(*Project)) (Project, bool)
	Remove(id string)
}

// Scheduler coalesces rapid edits into delayed persistence writes.
type Scheduler interface {
	Schedule(ownerID string, snapshot Project)
}
