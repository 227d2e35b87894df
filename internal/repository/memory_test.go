package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"

	"github.com/easydelivery/easydelivery/internal/model"
)

func TestMemoryRepository_Contract(t *testing.T) {
	runStoreContract(t, storeContract{
		newStore: func(t *testing.T) (context.Context, documentStore) {
			return context.Background(), NewMemory()
		},
		unissuedID: func() string { return ulid.Make().String() },
	})
}

func TestMemoryRepository_ConcurrentDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := NewMemory()
	ctx := context.Background()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.InsertUser(ctx, model.Document{model.FieldEmail: "race@x.com"})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrEmailExists) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("expected exactly one insert to succeed, got %d", succeeded)
	}
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()

	repo := NewMemory()
	ctx := context.Background()

	id, err := repo.InsertParcel(ctx, model.Document{model.FieldCreatedBy: "a@x.com"})
	if err != nil {
		t.Fatalf("InsertParcel failed: %v", err)
	}

	got, _ := repo.FindParcelByID(ctx, id)
	got[model.FieldCreatedBy] = "mutated@x.com"

	again, _ := repo.FindParcelByID(ctx, id)
	if model.ParcelOwner(again) != "a@x.com" {
		t.Errorf("stored document was mutated through a returned copy: %q", model.ParcelOwner(again))
	}
}

func TestMemoryRepository_CanceledContext(t *testing.T) {
	t.Parallel()

	repo := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.InsertParcel(ctx, model.Document{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, err := repo.FindParcels(ctx, ParcelFilter{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestParcelFilter_Matches(t *testing.T) {
	t.Parallel()

	parcel := model.Document{model.FieldCreatedBy: "a@x.com"}

	if !(ParcelFilter{}).Matches(parcel) {
		t.Error("zero filter should match every parcel")
	}
	if !(ParcelFilter{CreatedBy: "a@x.com"}).Matches(parcel) {
		t.Error("filter should match owner")
	}
	if (ParcelFilter{CreatedBy: "b@x.com"}).Matches(parcel) {
		t.Error("filter should not match other owner")
	}
}
