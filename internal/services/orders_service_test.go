package services

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/agamariel/annetom/internal/models"
	"github.com/agamariel/annetom/internal/store"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestFetchOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("filters soft-deleted and normalizes", func(t *testing.T) {
		mock := &store.MockStore{
			GetFunc: func(ctx context.Context, collection string) (any, error) {
				return map[string]any{"items": []any{
					map[string]any{"id": "o1", "status": "aberto"},
					map[string]any{"id": "o2", "deleted": true},
				}}, nil
			},
		}
		svc := NewOrdersService(mock, testLogger())

		orders := svc.FetchOrders(ctx)
		if len(orders) != 1 {
			t.Fatalf("FetchOrders() returned %d orders, want 1", len(orders))
		}
		if orders[0].ID != "o1" {
			t.Errorf("ID = %q, want %q", orders[0].ID, "o1")
		}
		if orders[0].Status != "open" {
			t.Errorf("Status = %q, want %q", orders[0].Status, "open")
		}
	})

	t.Run("accepts bare array", func(t *testing.T) {
		mock := &store.MockStore{
			GetFunc: func(ctx context.Context, collection string) (any, error) {
				return []any{map[string]any{"id": "o1"}}, nil
			},
		}
		svc := NewOrdersService(mock, testLogger())

		if got := len(svc.FetchOrders(ctx)); got != 1 {
			t.Errorf("FetchOrders() returned %d orders, want 1", got)
		}
	})

	t.Run("degrades to empty on store failure", func(t *testing.T) {
		mock := &store.MockStore{
			GetFunc: func(ctx context.Context, collection string) (any, error) {
				return nil, errors.New("disk gone")
			},
		}
		svc := NewOrdersService(mock, testLogger())

		orders := svc.FetchOrders(ctx)
		if orders == nil || len(orders) != 0 {
			t.Errorf("FetchOrders() = %v, want empty slice", orders)
		}
	})

	t.Run("degrades to empty without store", func(t *testing.T) {
		svc := NewOrdersService(nil, testLogger())
		if got := len(svc.FetchOrders(ctx)); got != 0 {
			t.Errorf("FetchOrders() returned %d orders, want 0", got)
		}
	})
}

func TestSaveOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("maps draft and returns canonical order", func(t *testing.T) {
		var added map[string]any
		mock := &store.MockStore{
			AddItemFunc: func(ctx context.Context, collection string, item any) (map[string]any, error) {
				record, err := store.ToRecord(item)
				if err != nil {
					return nil, err
				}
				record["id"] = "orders-1"
				added = record
				return record, nil
			},
		}
		svc := NewOrdersService(mock, testLogger())

		order, err := svc.SaveOrder(ctx, map[string]any{
			"subtotal":    float64(50),
			"deliveryFee": float64(10),
			"discount":    float64(5),
		})
		if err != nil {
			t.Fatalf("SaveOrder() error = %v", err)
		}
		if added == nil {
			t.Fatal("SaveOrder() did not call AddItem")
		}
		if order.Totals.Total != 55 {
			t.Errorf("Totals.Total = %v, want 55", order.Totals.Total)
		}
		if order.Status != "open" {
			t.Errorf("Status = %q, want %q", order.Status, "open")
		}
	})

	t.Run("preserves free-form draft fields", func(t *testing.T) {
		var added map[string]any
		mock := &store.MockStore{
			AddItemFunc: func(ctx context.Context, collection string, item any) (map[string]any, error) {
				record, err := store.ToRecord(item)
				if err != nil {
					return nil, err
				}
				added = record
				return record, nil
			},
		}
		svc := NewOrdersService(mock, testLogger())

		if _, err := svc.SaveOrder(ctx, map[string]any{
			"subtotal":      float64(10),
			"paymentMethod": "cash",
		}); err != nil {
			t.Fatalf("SaveOrder() error = %v", err)
		}
		if added["paymentMethod"] != "cash" {
			t.Errorf("paymentMethod = %v, want cash (draft fields must survive)", added["paymentMethod"])
		}
		if added["status"] != "open" {
			t.Errorf("status = %v, want open", added["status"])
		}
	})

	t.Run("nil draft fails before store call", func(t *testing.T) {
		called := false
		mock := &store.MockStore{
			AddItemFunc: func(ctx context.Context, collection string, item any) (map[string]any, error) {
				called = true
				return nil, nil
			},
		}
		svc := NewOrdersService(mock, testLogger())

		if _, err := svc.SaveOrder(ctx, nil); !errors.Is(err, ErrInvalidPayload) {
			t.Errorf("SaveOrder(nil) error = %v, want ErrInvalidPayload", err)
		}
		if called {
			t.Error("SaveOrder(nil) must not reach the store")
		}
	})

	t.Run("without store fails loudly", func(t *testing.T) {
		svc := NewOrdersService(nil, testLogger())
		if _, err := svc.SaveOrder(ctx, map[string]any{}); !errors.Is(err, ErrStoreUnavailable) {
			t.Errorf("SaveOrder() error = %v, want ErrStoreUnavailable", err)
		}
	})
}

func TestUpdateOrderRecordFallback(t *testing.T) {
	ctx := context.Background()

	var written any
	mock := &store.MockStore{
		GetFunc: func(ctx context.Context, collection string) (any, error) {
			return map[string]any{"items": []any{
				map[string]any{"id": "a", "status": "open"},
				map[string]any{"id": "b", "status": "open"},
				map[string]any{"id": "c", "status": "open"},
			}}, nil
		},
		SetFunc: func(ctx context.Context, collection string, data any) error {
			written = data
			return nil
		},
	}
	svc := NewOrdersService(mock, testLogger())

	if err := svc.UpdateOrderRecord(ctx, "b", map[string]any{"status": "done"}); err != nil {
		t.Fatalf("UpdateOrderRecord() error = %v", err)
	}

	items := store.Items(written)
	if len(items) != 3 {
		t.Fatalf("written %d items, want 3", len(items))
	}
	for _, it := range items {
		id, _ := it["id"].(string)
		status, _ := it["status"].(string)
		switch id {
		case "b":
			if status != "done" {
				t.Errorf("item b status = %q, want done", status)
			}
		default:
			if status != "open" {
				t.Errorf("item %s status = %q, want open (untouched)", id, status)
			}
		}
	}
}

func TestUpdateOrderRecordUsesPrimitive(t *testing.T) {
	ctx := context.Background()

	var usedID string
	mock := &store.MockFullStore{
		UpdateItemFunc: func(ctx context.Context, collection, id string, changes map[string]any) (map[string]any, error) {
			usedID = id
			return changes, nil
		},
	}
	mock.SetFunc = func(ctx context.Context, collection string, data any) error {
		t.Error("primitive path must not rewrite the whole collection")
		return nil
	}
	svc := NewOrdersService(mock, testLogger())

	if err := svc.UpdateOrderRecord(ctx, "o1", map[string]any{"status": "done"}); err != nil {
		t.Fatalf("UpdateOrderRecord() error = %v", err)
	}
	if usedID != "o1" {
		t.Errorf("UpdateItem called with id %q, want o1", usedID)
	}
}

func TestDeleteOrderRecordFallback(t *testing.T) {
	ctx := context.Background()

	var written any
	mock := &store.MockStore{
		GetFunc: func(ctx context.Context, collection string) (any, error) {
			return map[string]any{"items": []any{
				map[string]any{"id": "a"},
				map[string]any{"_id": "legacy"},
			}}, nil
		},
		SetFunc: func(ctx context.Context, collection string, data any) error {
			written = data
			return nil
		},
	}
	svc := NewOrdersService(mock, testLogger())

	if err := svc.DeleteOrderRecord(ctx, "legacy"); err != nil {
		t.Fatalf("DeleteOrderRecord() error = %v", err)
	}

	items := store.Items(written)
	if len(items) != 1 {
		t.Fatalf("written %d items, want 1", len(items))
	}
	if items[0]["id"] != "a" {
		t.Errorf("remaining item = %v, want a", items[0]["id"])
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("appends entry and canonicalizes status", func(t *testing.T) {
		var gotChanges map[string]any
		mock := &store.MockFullStore{
			UpdateItemFunc: func(ctx context.Context, collection, id string, changes map[string]any) (map[string]any, error) {
				gotChanges = changes
				return changes, nil
			},
		}
		svc := NewOrdersService(mock, testLogger())

		history := []models.HistoryEntry{{Status: "open", At: "2024-01-01T00:00:00Z"}}
		if err := svc.UpdateOrderStatus(ctx, "o1", "em preparo", history); err != nil {
			t.Fatalf("UpdateOrderStatus() error = %v", err)
		}

		if gotChanges["status"] != "preparing" {
			t.Errorf("status = %v, want preparing", gotChanges["status"])
		}
		entries, ok := gotChanges["history"].([]any)
		if !ok || len(entries) != 2 {
			t.Fatalf("history = %v, want 2 entries", gotChanges["history"])
		}
		last, _ := entries[1].(map[string]any)
		if last["status"] != "preparing" {
			t.Errorf("appended status = %v, want preparing", last["status"])
		}
		if last["at"] == "" {
			t.Error("appended entry has empty at")
		}
	})

	t.Run("missing id fails before store call", func(t *testing.T) {
		svc := NewOrdersService(&store.MockStore{}, testLogger())
		if err := svc.UpdateOrderStatus(ctx, "", "done", nil); !errors.Is(err, ErrMissingOrderID) {
			t.Errorf("UpdateOrderStatus() error = %v, want ErrMissingOrderID", err)
		}
	})
}
