package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/easydelivery/easydelivery/internal/model"
	"github.com/easydelivery/easydelivery/internal/testutil"
)

// documentStore is the contract every repository implementation satisfies.
type documentStore interface {
	Ping(ctx context.Context) error
	InsertUser(ctx context.Context, user model.Document) (string, error)
	FindUserByEmail(ctx context.Context, email string) (model.Document, error)
	InsertParcel(ctx context.Context, parcel model.Document) (string, error)
	FindParcels(ctx context.Context, filter ParcelFilter) ([]model.Document, error)
	FindParcelByID(ctx context.Context, id string) (model.Document, error)
}

var (
	_ documentStore = (*MemoryRepository)(nil)
	_ documentStore = (*MongoRepository)(nil)
	_ documentStore = (*PostgresRepository)(nil)
)

// storeContract describes how to exercise one implementation.
type storeContract struct {
	// newStore returns an empty store.
	newStore func(t *testing.T) (context.Context, documentStore)
	// unissuedID returns a well-formed identifier that was never issued.
	unissuedID func() string
}

// runStoreContract runs the behavior shared by every store.
func runStoreContract(t *testing.T, c storeContract) {
	t.Run("Ping", func(t *testing.T) {
		ctx, store := c.newStore(t)
		if err := store.Ping(ctx); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})

	t.Run("InsertUser_ThenFindByEmail", func(t *testing.T) {
		ctx, store := c.newStore(t)
		email := testutil.UniqueEmail("find")

		id, err := store.InsertUser(ctx, testutil.NewTestUser(t, email))
		if err != nil {
			t.Fatalf("InsertUser failed: %v", err)
		}
		if id == "" {
			t.Fatal("InsertUser returned empty id")
		}

		user, err := store.FindUserByEmail(ctx, email)
		if err != nil {
			t.Fatalf("FindUserByEmail failed: %v", err)
		}
		if user.ID() != id {
			t.Errorf("_id mismatch: got %q, want %q", user.ID(), id)
		}
		if user.String("name") != "Test User" {
			t.Errorf("name not passed through: %v", user["name"])
		}
	})

	t.Run("InsertUser_DuplicateEmail", func(t *testing.T) {
		ctx, store := c.newStore(t)
		email := testutil.UniqueEmail("dup")

		if _, err := store.InsertUser(ctx, testutil.NewTestUser(t, email)); err != nil {
			t.Fatalf("InsertUser (first) failed: %v", err)
		}

		_, err := store.InsertUser(ctx, testutil.NewTestUser(t, email))
		if !errors.Is(err, ErrEmailExists) {
			t.Errorf("Expected ErrEmailExists, got: %v", err)
		}
	})

	t.Run("FindUserByEmail_NotFound", func(t *testing.T) {
		ctx, store := c.newStore(t)

		_, err := store.FindUserByEmail(ctx, testutil.UniqueEmail("missing"))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got: %v", err)
		}
	})

	t.Run("InsertParcel_ThenFindByID", func(t *testing.T) {
		ctx, store := c.newStore(t)
		parcel := testutil.NewTestParcel(t, "a@x.com", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

		id, err := store.InsertParcel(ctx, parcel)
		if err != nil {
			t.Fatalf("InsertParcel failed: %v", err)
		}

		got, err := store.FindParcelByID(ctx, id)
		if err != nil {
			t.Fatalf("FindParcelByID failed: %v", err)
		}
		if got.ID() != id {
			t.Errorf("_id mismatch: got %q, want %q", got.ID(), id)
		}
		for _, key := range []string{model.FieldCreatedBy, model.FieldCreatedAt, "parcelType", "receiverName"} {
			if got[key] != parcel[key] {
				t.Errorf("%s mismatch: got %v, want %v", key, got[key], parcel[key])
			}
		}
		if got["weight"] != 1.5 {
			t.Errorf("weight mismatch: got %v (%T)", got["weight"], got["weight"])
		}
		addr, ok := got["deliveryAddress"].(map[string]any)
		if !ok || addr["city"] != "Dhaka" {
			t.Errorf("nested document not preserved: %#v", got["deliveryAddress"])
		}
	})

	t.Run("FindParcelByID_NotFound", func(t *testing.T) {
		ctx, store := c.newStore(t)

		_, err := store.FindParcelByID(ctx, c.unissuedID())
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got: %v", err)
		}
	})

	t.Run("FindParcelByID_Malformed", func(t *testing.T) {
		ctx, store := c.newStore(t)

		for _, id := range []string{"not-an-id", "", "12345", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"} {
			_, err := store.FindParcelByID(ctx, id)
			if !errors.Is(err, ErrInvalidID) {
				t.Errorf("FindParcelByID(%q): expected ErrInvalidID, got: %v", id, err)
			}
		}
	})

	t.Run("FindParcels_SortedNewestFirst", func(t *testing.T) {
		ctx, store := c.newStore(t)
		base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

		idOld, _ := store.InsertParcel(ctx, testutil.NewTestParcel(t, "a@x.com", base))
		idNew, _ := store.InsertParcel(ctx, testutil.NewTestParcel(t, "a@x.com", base.Add(2*time.Hour)))
		idMid, _ := store.InsertParcel(ctx, testutil.NewTestParcel(t, "b@x.com", base.Add(time.Hour)))
		idNone, _ := store.InsertParcel(ctx, model.Document{model.FieldCreatedBy: "b@x.com"})

		parcels, err := store.FindParcels(ctx, ParcelFilter{})
		if err != nil {
			t.Fatalf("FindParcels failed: %v", err)
		}

		want := []string{idNew, idMid, idOld, idNone}
		if len(parcels) != len(want) {
			t.Fatalf("expected %d parcels, got %d", len(want), len(parcels))
		}
		for i, id := range want {
			if parcels[i].ID() != id {
				t.Errorf("position %d: got %q, want %q", i, parcels[i].ID(), id)
			}
		}
	})

	t.Run("FindParcels_TiesByIDDescending", func(t *testing.T) {
		ctx, store := c.newStore(t)
		at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

		var ids []string
		for i := 0; i < 3; i++ {
			id, err := store.InsertParcel(ctx, testutil.NewTestParcel(t, "a@x.com", at))
			if err != nil {
				t.Fatalf("InsertParcel failed: %v", err)
			}
			ids = append(ids, id)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(ids)))

		parcels, err := store.FindParcels(ctx, ParcelFilter{})
		if err != nil {
			t.Fatalf("FindParcels failed: %v", err)
		}
		if len(parcels) != len(ids) {
			t.Fatalf("expected %d parcels, got %d", len(ids), len(parcels))
		}
		for i, id := range ids {
			if parcels[i].ID() != id {
				t.Errorf("position %d: got %q, want %q", i, parcels[i].ID(), id)
			}
		}
	})

	t.Run("InsertParcel_StoredVerbatim", func(t *testing.T) {
		ctx, store := c.newStore(t)

		var parcel model.Document
		body := `{"created_by":"a@x.com","createdAt":"2024-05-01T12:00:00+02:00",` +
			`"receiver":{"name":"B","address":{"city":"Dhaka","zip":"1207"}},` +
			`"items":[{"sku":"X1","qty":2},{"sku":"Y2","qty":1}],"fragile":true,"note":null,"weight":2.75}`
		if err := json.Unmarshal([]byte(body), &parcel); err != nil {
			t.Fatal(err)
		}

		id, err := store.InsertParcel(ctx, parcel)
		if err != nil {
			t.Fatalf("InsertParcel failed: %v", err)
		}

		got, err := store.FindParcelByID(ctx, id)
		if err != nil {
			t.Fatalf("FindParcelByID failed: %v", err)
		}
		if got.ID() != id {
			t.Errorf("_id = %q, want %q", got.ID(), id)
		}

		gotJSON, _ := json.Marshal(got.Without(model.FieldID))
		wantJSON, _ := json.Marshal(parcel)
		if string(gotJSON) != string(wantJSON) {
			t.Errorf("stored parcel differs\n got: %s\nwant: %s", gotJSON, wantJSON)
		}
	})

	t.Run("FindParcels_FilterByCreator", func(t *testing.T) {
		ctx, store := c.newStore(t)
		base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

		_, _ = store.InsertParcel(ctx, testutil.NewTestParcel(t, "a@x.com", base))
		_, _ = store.InsertParcel(ctx, testutil.NewTestParcel(t, "b@x.com", base))
		_, _ = store.InsertParcel(ctx, testutil.NewTestParcel(t, "a@x.com", base.Add(time.Minute)))

		parcels, err := store.FindParcels(ctx, ParcelFilter{CreatedBy: "a@x.com"})
		if err != nil {
			t.Fatalf("FindParcels failed: %v", err)
		}
		if len(parcels) != 2 {
			t.Fatalf("expected 2 parcels, got %d", len(parcels))
		}
		for _, p := range parcels {
			if model.ParcelOwner(p) != "a@x.com" {
				t.Errorf("unexpected owner %q", model.ParcelOwner(p))
			}
		}
	})

	t.Run("FindParcels_Empty", func(t *testing.T) {
		ctx, store := c.newStore(t)

		parcels, err := store.FindParcels(ctx, ParcelFilter{CreatedBy: "nobody@x.com"})
		if err != nil {
			t.Fatalf("FindParcels failed: %v", err)
		}
		if parcels == nil {
			t.Error("FindParcels should return an empty slice, not nil")
		}
		if len(parcels) != 0 {
			t.Errorf("expected no parcels, got %d", len(parcels))
		}
	})
}
