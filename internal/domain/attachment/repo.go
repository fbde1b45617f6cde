package attachment

import "context"

// Repository is the persistence contract of the categorized record store.
// Group documents are independent storage units: a failed append to one
// category never corrupts another.
type Repository interface {
	// CreateStores seeds one empty group document per group for a newly
	// registered patient.
	CreateStores(ctx context.Context, uhid int64, name, email string) error

	// GetStore returns a patient's document for one group, with an entry
	// (possibly empty) for each of the group's categories.
	GetStore(ctx context.Context, uhid int64, group Group) (*StoreDocument, error)

	// ListCategory returns the current contents of one category in
	// unspecified order. A category never appended to yields an empty
	// slice, not an error.
	ListCategory(ctx context.Context, uhid int64, category Category) ([]Record, error)

	// AppendRecord inserts rec into the named category at most once.
	// It returns ErrNotFound when no store exists for the patient's group
	// and ErrDuplicateID when rec.ID lost a concurrent allocation.
	AppendRecord(ctx context.Context, uhid int64, category Category, rec Record) error
}
