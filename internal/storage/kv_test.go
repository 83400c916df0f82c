package storage

import (
	"path/filepath"
	"testing"
)

func newTestKV(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := NewSQLiteKV(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("NewSQLiteKV: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestGetMissingKey(t *testing.T) {
	kv := newTestKV(t)
	_, ok, err := kv.Get("nothing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("missing key reported as present")
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	kv := newTestKV(t)

	if err := kv.Set("app_filters", []byte(`{"owner":["Neng"]}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := kv.Get("app_filters")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"owner":["Neng"]}` {
		t.Errorf("value = %s", got)
	}
}

func TestSetOverwritesSlot(t *testing.T) {
	kv := newTestKV(t)

	if err := kv.Set("k", []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := kv.Set("k", []byte("second")); err != nil {
		t.Fatal(err)
	}
	got, ok, err := kv.Get("k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got) != "second" {
		t.Errorf("value = %s, want second", got)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")

	kv, err := NewSQLiteKV(path)
	if err != nil {
		t.Fatalf("NewSQLiteKV: %v", err)
	}
	if err := kv.Set("persist", []byte("yes")); err != nil {
		t.Fatal(err)
	}
	if err := kv.Close(); err != nil {
		t.Fatal(err)
	}

	kv2, err := NewSQLiteKV(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv2.Close()

	got, ok, err := kv2.Get("persist")
	if err != nil || !ok || string(got) != "yes" {
		t.Fatalf("Get after reopen: %s ok=%v err=%v", got, ok, err)
	}
}
