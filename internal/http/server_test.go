package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"saletrack/internal/core"
	"saletrack/internal/items/memory"
	"saletrack/internal/prefs"
	"saletrack/internal/services"
)

func newTestServer(t *testing.T, seed ...core.Item) (*Server, *prefs.Store) {
	t.Helper()
	store := memory.New(seed...)
	prefsStore := prefs.NewStore(prefs.NewMapKV())
	svc := services.NewItemService(store, nil, prefsStore)
	s := NewServer(":0", svc, prefsStore, core.OwnerNeng, nil)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s, prefsStore
}

func doRequest(s *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func seedItems() []core.Item {
	return []core.Item{
		{Owner: core.OwnerNeng, Detail: "shoes", Price: 100, Status: core.StatusSold, Game: core.GamePES},
		{Owner: core.OwnerJoy, Detail: "bag, shoes", Price: 50, Status: core.StatusPending, Game: core.GameLRG},
		{Owner: core.OwnerNeng, Detail: "hat", Price: 25, Status: core.StatusSold, Game: core.GamePayroll},
	}
}

func TestListItems(t *testing.T) {
	s, _ := newTestServer(t, seedItems()...)

	rec := doRequest(s, http.MethodGet, "/api/items", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got []core.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("items = %d, want 3", len(got))
	}
}

func TestListItemsFiltered(t *testing.T) {
	s, _ := newTestServer(t, seedItems()...)

	rec := doRequest(s, http.MethodGet, "/api/items?owner=Neng&status=sold", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got []core.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("items = %d, want 2", len(got))
	}
	for _, it := range got {
		if it.Owner != core.OwnerNeng || it.Status != core.StatusSold {
			t.Fatalf("unexpected item %+v", it)
		}
	}
}

func TestListItemsRejectsBadDateRange(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name   string
		target string
	}{
		{"only from", "/api/items?from=2026-01-01"},
		{"garbage from", "/api/items?from=notadate&to=2026-01-31"},
		{"inverted range", "/api/items?from=2026-02-01&to=2026-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodGet, tt.target, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCreateItem(t *testing.T) {
	s, _ := newTestServer(t)

	body := []byte(`{"owner":"Joy","detail":"belt","price":"15","status":"pending","game":"lrg","createdBy":"joy@example.com"}`)
	rec := doRequest(s, http.MethodPost, "/api/items", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var created core.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created item has no id")
	}
	if created.Price != 15 {
		t.Fatalf("price = %v, want 15 (string price must coerce)", created.Price)
	}

	// The mutation must purge the read cache.
	list := doRequest(s, http.MethodGet, "/api/items", nil)
	var got []core.Item
	if err := json.Unmarshal(list.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("items after create = %d, want 1", len(got))
	}
}

func TestCreateItemRejectsUnknownOwner(t *testing.T) {
	s, _ := newTestServer(t)

	body := []byte(`{"owner":"Bob","detail":"x","price":1,"status":"sold","game":"pes"}`)
	rec := doRequest(s, http.MethodPost, "/api/items", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestPatchItem(t *testing.T) {
	s, _ := newTestServer(t, seedItems()...)

	rec := doRequest(s, http.MethodPatch, "/api/items/mem-2", []byte(`{"status":"sold"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var updated core.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Status != core.StatusSold {
		t.Fatalf("status = %s, want sold", updated.Status)
	}
	if updated.Detail != "bag, shoes" {
		t.Fatalf("unpatched field changed: %q", updated.Detail)
	}
}

func TestPatchUnknownItemReturns404(t *testing.T) {
	s, _ := newTestServer(t, seedItems()...)

	rec := doRequest(s, http.MethodPatch, "/api/items/ghost", []byte(`{"status":"sold"}`))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteItem(t *testing.T) {
	s, _ := newTestServer(t, seedItems()...)

	rec := doRequest(s, http.MethodDelete, "/api/items/mem-1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	list := doRequest(s, http.MethodGet, "/api/items", nil)
	var got []core.Item
	if err := json.Unmarshal(list.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("items after delete = %d, want 2", len(got))
	}

	if rec := doRequest(s, http.MethodDelete, "/api/items/mem-1", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestStats(t *testing.T) {
	s, _ := newTestServer(t, seedItems()...)

	rec := doRequest(s, http.MethodGet, "/api/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got core.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Total != 175 {
		t.Fatalf("total = %v, want 175", got.Total)
	}
	if got.NetTotal != 125 {
		t.Fatalf("net total = %v, want 125 (Neng items only)", got.NetTotal)
	}
	if got.SoldByOwner["Neng"] != 125 || got.PendingByOwner["Joy"] != 50 {
		t.Fatalf("owner breakdowns wrong: %+v", got)
	}
	if got.ItemCount != 3 {
		t.Fatalf("item count = %d", got.ItemCount)
	}
}

func TestStatsFiltered(t *testing.T) {
	s, _ := newTestServer(t, seedItems()...)

	rec := doRequest(s, http.MethodGet, "/api/stats?game=pes", nil)
	var got core.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Total != 100 || got.ItemCount != 1 {
		t.Fatalf("filtered summary = %+v", got)
	}
}

func TestDetailsDerivedFromCollection(t *testing.T) {
	s, _ := newTestServer(t, seedItems()...)

	// Prime the tag cache through a list, then read the vocabulary.
	doRequest(s, http.MethodGet, "/api/items", nil)

	rec := doRequest(s, http.MethodGet, "/api/details", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var tags []string
	if err := json.Unmarshal(rec.Body.Bytes(), &tags); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"bag", "hat", "shoes"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("tags = %v, want %v", tags, want)
		}
	}
}

func TestFiltersRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)

	body := []byte(`{"owner":["Neng"],"status":["sold"],"game":[],"details":["shoes"]}`)
	if rec := doRequest(s, http.MethodPut, "/api/filters", body); rec.Code != http.StatusOK {
		t.Fatalf("put status = %d", rec.Code)
	}

	rec := doRequest(s, http.MethodGet, "/api/filters", nil)
	var got core.Criteria
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Owners) != 1 || got.Owners[0] != "Neng" {
		t.Fatalf("owners = %v", got.Owners)
	}
	if len(got.DetailTags) != 1 || got.DetailTags[0] != "shoes" {
		t.Fatalf("details = %v", got.DetailTags)
	}
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	if rec := doRequest(s, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCriteriaKeyIgnoresParameterOrder(t *testing.T) {
	a := core.Criteria{Owners: []string{"Neng", "Joy"}, Games: []string{"pes"}}
	b := core.Criteria{Owners: []string{"Joy", "Neng"}, Games: []string{"pes"}}
	if criteriaKey(a) != criteriaKey(b) {
		t.Fatal("cache key must not depend on value order")
	}
	c := core.Criteria{Owners: []string{"Joy"}}
	if criteriaKey(a) == criteriaKey(c) {
		t.Fatal("distinct criteria must map to distinct keys")
	}
}
