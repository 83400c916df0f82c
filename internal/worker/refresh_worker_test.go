package worker

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"saletrack/internal/amqp"
	"saletrack/internal/core"
	"saletrack/internal/items/memory"
	"saletrack/internal/prefs"
)

func TestRefreshStoresDerivedTags(t *testing.T) {
	store := memory.New(
		core.Item{Owner: core.OwnerNeng, Status: core.StatusSold, Game: core.GamePES, Detail: "A, b"},
		core.Item{Owner: core.OwnerJoy, Status: core.StatusSold, Game: core.GameLRG, Detail: "b,  C"},
	)
	prefsStore := prefs.NewStore(prefs.NewMapKV())
	w := NewRefreshWorker(store, prefsStore)

	if err := w.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	want := []string{"A", "C", "b"}
	if got := prefsStore.LoadDetailTags(); !reflect.DeepEqual(got, want) {
		t.Fatalf("cached tags = %v, want %v", got, want)
	}
}

func TestHandleChangeMessageRefreshes(t *testing.T) {
	store := memory.New(core.Item{Owner: core.OwnerNeng, Status: core.StatusSold, Game: core.GamePES, Detail: "z"})
	prefsStore := prefs.NewStore(prefs.NewMapKV())
	w := NewRefreshWorker(store, prefsStore)

	msg := amqp.NewItemChangeMessage("1", amqp.OpCreated)
	if err := w.HandleChangeMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleChangeMessage: %v", err)
	}
	if got := prefsStore.LoadDetailTags(); len(got) != 1 || got[0] != "z" {
		t.Fatalf("cached tags = %v", got)
	}
}

type failingLister struct{}

func (failingLister) List(context.Context) ([]core.Item, error) {
	return nil, errors.New("remote down")
}

func TestRefreshPropagatesListErrors(t *testing.T) {
	w := NewRefreshWorker(failingLister{}, prefs.NewStore(prefs.NewMapKV()))
	if err := w.Refresh(context.Background()); err == nil {
		t.Fatal("expected error when the lister fails")
	}
}
