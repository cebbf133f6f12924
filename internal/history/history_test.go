package history_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"testing"

	_ "modernc.org/sqlite" // pure-Go sqlite driver

	"github.com/raysh454/exploder/internal/history"
	"github.com/raysh454/exploder/internal/model"
	"github.com/raysh454/exploder/internal/testutil"
	"github.com/raysh454/exploder/internal/utils"
)

func openTestStore(t *testing.T) *history.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	// serialize access to avoid SQLITE deadlocks in concurrent writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store, err := history.NewStore(db, &testutil.DummyLogger{}, utils.CanonicalizeOptions{
		StripTrailingSlash: true,
		DefaultScheme:      "https",
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func sampleAssets() model.Assets {
	return model.Assets{
		Images: []string{"https://x.com/a.png"},
		Colors: []string{"#FFFFFF", "#11AAFF"},
		Fonts:  []string{"Arial"},
	}
}

func TestStore_RecordAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec, err := store.Record(ctx, "https://EXAMPLE.com/page/", sampleAssets())
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected generated ID")
	}
	if rec.CanonicalURL != "https://example.com/page" {
		t.Errorf("CanonicalURL = %q, want canonicalized form", rec.CanonicalURL)
	}
	if rec.ColorCount != 2 {
		t.Errorf("ColorCount = %d, want 2", rec.ColorCount)
	}

	got, err := store.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got.Assets, sampleAssets()) {
		t.Errorf("round-tripped assets = %+v", got.Assets)
	}
}

func TestStore_GetUnknownID(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, history.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListAppliesLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Record(ctx, fmt.Sprintf("https://x.com/p%d", i), sampleAssets()); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	recs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected limit to apply, got %d records", len(recs))
	}

	all, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
}

func TestStore_RecordUncanonicalizableURLFallsBack(t *testing.T) {
	store := openTestStore(t)

	rec, err := store.Record(context.Background(), "https:///nohost", sampleAssets())
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.CanonicalURL != "https:///nohost" {
		t.Errorf("expected raw URL fallback, got %q", rec.CanonicalURL)
	}
}
