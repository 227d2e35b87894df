// Package repository provides the document stores backing users and parcels.
//
// Three implementations share one contract: MongoRepository (the production
// store), PostgresRepository (JSONB documents) and MemoryRepository (local
// development and tests). Identifier formats are owned by each store.
package repository

import (
	"errors"
	"sort"

	"github.com/easydelivery/easydelivery/internal/model"
)

// Common errors for repository operations.
var (
	ErrNotFound    = errors.New("document not found")
	ErrInvalidID   = errors.New("invalid document id")
	ErrEmailExists = errors.New("email already exists")

	// ErrDuplicateEmails means the unique email index cannot be built over
	// existing data.
	ErrDuplicateEmails = errors.New("users email index cannot be created")
)

// ParcelFilter narrows a parcel listing. The zero value matches every parcel.
type ParcelFilter struct {
	CreatedBy string
}

// Matches reports whether the parcel satisfies the filter.
func (f ParcelFilter) Matches(parcel model.Document) bool {
	return f.CreatedBy == "" || model.ParcelOwner(parcel) == f.CreatedBy
}

// sortNewestFirst orders parcels by createdAt descending. Parcels without a
// createdAt sort last. Ties are broken by identifier descending.
func sortNewestFirst(parcels []model.Document) {
	sort.SliceStable(parcels, func(i, j int) bool {
		a, b := model.ParcelCreatedAt(parcels[i]), model.ParcelCreatedAt(parcels[j])
		if a != b {
			if a == "" || b == "" {
				return b == ""
			}
			return a > b
		}
		return parcels[i].ID() > parcels[j].ID()
	})
}
