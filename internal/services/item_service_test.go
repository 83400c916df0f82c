package services

import (
	"context"
	"reflect"
	"testing"

	"saletrack/internal/core"
	"saletrack/internal/items/memory"
	"saletrack/internal/prefs"
)

func TestListRefreshesTagCache(t *testing.T) {
	store := memory.New(
		core.Item{Owner: core.OwnerNeng, Status: core.StatusSold, Game: core.GamePES, Detail: "red, blue", Price: 100},
		core.Item{Owner: core.OwnerJoy, Status: core.StatusPending, Game: core.GameLRG, Detail: "blue, green", Price: 50},
	)
	prefsStore := prefs.NewStore(prefs.NewMapKV())
	svc := NewItemService(store, nil, prefsStore)

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}

	want := []string{"blue", "green", "red"}
	if tags := prefsStore.LoadDetailTags(); !reflect.DeepEqual(tags, want) {
		t.Errorf("cached tags = %v, want %v", tags, want)
	}
}

func TestCreateValidatesBeforeStore(t *testing.T) {
	store := memory.New()
	svc := NewItemService(store, nil, nil)

	_, err := svc.Create(context.Background(), core.Item{
		Owner: "Nobody", Status: core.StatusSold, Game: core.GamePES,
	})
	if err != core.ErrInvalidOwner {
		t.Fatalf("expected ErrInvalidOwner, got %v", err)
	}
	if all, _ := store.List(context.Background()); len(all) != 0 {
		t.Fatal("invalid item reached the store")
	}
}

func TestMutationFlow(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewItemService(store, nil, prefs.NewStore(prefs.NewMapKV()))

	created, err := svc.Create(ctx, core.Item{
		Owner: core.OwnerNeng, Status: core.StatusPending, Game: core.GamePES, Detail: "x", Price: 100,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	status := core.StatusSold
	updated, err := svc.Update(ctx, created.ID, core.ItemPatch{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != core.StatusSold {
		t.Errorf("status = %s", updated.Status)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if all, _ := svc.List(ctx); len(all) != 0 {
		t.Errorf("expected empty collection, got %d", len(all))
	}
}

func TestUpdateRejectsBadPatch(t *testing.T) {
	svc := NewItemService(memory.New(), nil, nil)
	bad := core.Game("chess")
	if _, err := svc.Update(context.Background(), "any", core.ItemPatch{Game: &bad}); err != core.ErrInvalidGame {
		t.Fatalf("expected ErrInvalidGame, got %v", err)
	}
}

func TestCloseWithNilClients(t *testing.T) {
	svc := NewItemService(memory.New(), nil, nil)
	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
