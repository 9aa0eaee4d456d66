package store

import (
	"context"
	"errors"
	"testing"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestFileStore_GetCreatesDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	data, err := s.Get(ctx, CollectionOrders)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if items := Items(data); len(items) != 0 {
		t.Fatalf("want empty collection, got %v", items)
	}

	settings, err := s.Get(ctx, CollectionSettings)
	if err != nil {
		t.Fatalf("Get settings: %v", err)
	}
	m, ok := settings.(map[string]any)
	if !ok || m["pizzariaName"] != "Anne & Tom" {
		t.Fatalf("settings default = %v", settings)
	}
}

func TestFileStore_UnknownCollection(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestFileStore_AddItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.AddItem(ctx, CollectionOrders, map[string]any{"status": "open"})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if created["id"] == "" || created["id"] == nil {
		t.Fatal("id must be generated")
	}
	if created["version"] != int64(1) {
		t.Fatalf("version = %v, want 1", created["version"])
	}

	data, _ := s.Get(ctx, CollectionOrders)
	if items := Items(data); len(items) != 1 {
		t.Fatalf("want 1 item, got %d", len(items))
	}
}

func TestFileStore_UpdateItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, _ := s.AddItem(ctx, CollectionOrders, map[string]any{"id": "o1", "status": "open", "note": "keep"})

	updated, err := s.UpdateItem(ctx, CollectionOrders, "o1", map[string]any{"status": "done"})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated["status"] != "done" || updated["note"] != "keep" {
		t.Fatalf("merge broken: %v", updated)
	}
	if updated["version"] == created["version"] {
		t.Fatal("version must be bumped")
	}

	if _, err := s.UpdateItem(ctx, CollectionOrders, "missing", nil); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestFileStore_UpdateItemCAS(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.AddItem(ctx, CollectionMotoboys, map[string]any{"id": "m1", "name": "João"})

	if _, err := s.UpdateItemCAS(ctx, CollectionMotoboys, "m1", map[string]any{"status": "busy"}, 1); err != nil {
		t.Fatalf("CAS with correct version: %v", err)
	}
	// версия стала 2, повтор с устаревшей версией конфликтует
	if _, err := s.UpdateItemCAS(ctx, CollectionMotoboys, "m1", map[string]any{"status": "idle"}, 1); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestFileStore_RemoveItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.AddItem(ctx, CollectionOrders, map[string]any{"id": "o1"})
	s.AddItem(ctx, CollectionOrders, map[string]any{"id": "o2"})

	if err := s.RemoveItem(ctx, CollectionOrders, "o1"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	data, _ := s.Get(ctx, CollectionOrders)
	items := Items(data)
	if len(items) != 1 || items[0]["id"] != "o2" {
		t.Fatalf("items = %v", items)
	}

	if err := s.RemoveItem(ctx, CollectionOrders, "o1"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestFileStore_SetBareArrayReadBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// легаси-формат: голый массив вместо конверта
	if err := s.Set(ctx, CollectionOrders, []any{map[string]any{"id": "o1"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, err := s.Get(ctx, CollectionOrders)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if items := Items(data); len(items) != 1 {
		t.Fatalf("bare array must still be readable, got %v", data)
	}
}

func TestBoltKV(t *testing.T) {
	kv, err := OpenBoltKV(t.TempDir() + "/local.db")
	if err != nil {
		t.Fatalf("OpenBoltKV: %v", err)
	}
	defer kv.Close()

	if _, ok, err := kv.GetItem("missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
	if err := kv.SetItem("k", `{"a":1}`); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	value, ok, err := kv.GetItem("k")
	if err != nil || !ok || value != `{"a":1}` {
		t.Fatalf("GetItem: %q ok=%v err=%v", value, ok, err)
	}
}
