package repository

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/easydelivery/easydelivery/internal/model"
)

// MemoryRepository keeps documents in process memory.
// Identifiers are ULIDs. Safe for concurrent use.
type MemoryRepository struct {
	mu           sync.RWMutex
	users        map[string]model.Document
	usersByEmail map[string]string
	parcels      []model.Document
	parcelsByID  map[string]int
}

// NewMemory creates an empty MemoryRepository.
func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		users:        make(map[string]model.Document),
		usersByEmail: make(map[string]string),
		parcelsByID:  make(map[string]int),
	}
}

// Ping always succeeds.
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// InsertUser stores a user. The email uniqueness check and the insert happen
// under one lock, so concurrent inserts of the same email cannot both succeed.
func (r *MemoryRepository) InsertUser(ctx context.Context, user model.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	email := model.UserEmail(user)
	if _, exists := r.usersByEmail[email]; exists {
		return "", ErrEmailExists
	}

	id := ulid.Make().String()
	r.users[id] = user.WithID(id)
	r.usersByEmail[email] = id

	return id, nil
}

// FindUserByEmail returns the user with the exact email.
func (r *MemoryRepository) FindUserByEmail(ctx context.Context, email string) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.usersByEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return r.users[id].Clone(), nil
}

// InsertParcel stores a parcel and returns its identifier.
func (r *MemoryRepository) InsertParcel(ctx context.Context, parcel model.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := ulid.Make().String()
	r.parcelsByID[id] = len(r.parcels)
	r.parcels = append(r.parcels, parcel.WithID(id))

	return id, nil
}

// FindParcels returns the parcels matching filter, newest createdAt first.
func (r *MemoryRepository) FindParcels(ctx context.Context, filter ParcelFilter) ([]model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	result := make([]model.Document, 0, len(r.parcels))
	for _, parcel := range r.parcels {
		if filter.Matches(parcel) {
			result = append(result, parcel.Clone())
		}
	}
	r.mu.RUnlock()

	sortNewestFirst(result)
	return result, nil
}

// FindParcelByID returns the parcel with the given ULID.
func (r *MemoryRepository) FindParcelByID(ctx context.Context, id string) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := ulid.ParseStrict(id); err != nil {
		return nil, ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.parcelsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.parcels[idx].Clone(), nil
}
