package normalize

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/agamariel/annetom/internal/models"
)

// decodeRecord имитирует запись, прочитанную из JSON-хранилища.
func decodeRecord(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("bad test fixture: %v", err)
	}
	return m
}

func orderToRecord(t *testing.T, o *models.Order) map[string]any {
	t.Helper()
	data, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("marshal order: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal order: %v", err)
	}
	return m
}

func TestOrder_Defaults(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty object", `{"_id":"legacy-1"}`},
		{"items is a string", `{"_id":"legacy-1","items":"oops"}`},
		{"items is a number", `{"_id":"legacy-1","items":42,"history":7}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Order(decodeRecord(t, tt.raw))
			if got.ID != "legacy-1" {
				t.Errorf("id = %q, want legacy-1 (от _id)", got.ID)
			}
			if got.Status != "open" {
				t.Errorf("status = %q, want open", got.Status)
			}
			if got.Items == nil || len(got.Items) != 0 {
				t.Errorf("items = %v, want пустую последовательность", got.Items)
			}
			if got.History == nil || len(got.History) != 0 {
				t.Errorf("history = %v, want пустую последовательность", got.History)
			}
			if got.Customer == nil {
				t.Error("customer must not be nil")
			}
		})
	}
}

func TestOrder_NilIdentity(t *testing.T) {
	if got := Order(nil); got != nil {
		t.Fatalf("Order(nil) = %v, want nil", got)
	}
}

func TestOrder_CustomerSnapshotFallback(t *testing.T) {
	got := Order(decodeRecord(t, `{"id":"o1","customerSnapshot":{"name":"Maria"}}`))
	if got.Customer["name"] != "Maria" {
		t.Fatalf("customer = %v, want snapshot fallback", got.Customer)
	}
}

func TestOrder_TotalsFromFlatFields(t *testing.T) {
	got := Order(decodeRecord(t, `{"id":"o1","subtotal":40,"deliveryFee":8,"discount":3,"total":45}`))
	want := models.Totals{Subtotal: 40, DeliveryFee: 8, Discount: 3, Total: 45}
	if got.Totals != want {
		t.Fatalf("totals = %+v, want %+v", got.Totals, want)
	}
	if got.Total != 45 || got.Subtotal != 40 {
		t.Fatalf("flat fields not mirrored: total=%v subtotal=%v", got.Total, got.Subtotal)
	}
}

func TestOrder_TotalsFinalTotalFallback(t *testing.T) {
	got := Order(decodeRecord(t, `{"id":"o1","totals":{"subtotal":10,"deliveryFee":0,"discount":0,"finalTotal":10}}`))
	if got.Totals.Total != 10 {
		t.Fatalf("total = %v, want 10 (из finalTotal)", got.Totals.Total)
	}
}

func TestOrder_Idempotent(t *testing.T) {
	fixtures := []string{
		`{"_id":"a","customerSnapshot":{"name":"Zé"},"subtotal":"30","total":30}`,
		`{"id":"b","status":"done","items":[{"name":"Calabresa","qty":2}],"history":[{"status":"open","at":"2024-01-01T00:00:00Z"}]}`,
		`{"id":"c","totals":{"subtotal":1,"deliveryFee":2,"discount":0,"finalTotal":3},"deleted":true}`,
	}

	for _, fixture := range fixtures {
		first := Order(decodeRecord(t, fixture))
		second := Order(orderToRecord(t, first))
		if !reflect.DeepEqual(first, second) {
			t.Errorf("not idempotent for %s:\n first = %+v\nsecond = %+v", fixture, first, second)
		}
	}
}

func TestMapDraftToOrder(t *testing.T) {
	t.Run("nil draft", func(t *testing.T) {
		if got := MapDraftToOrder(nil); got != nil {
			t.Fatalf("want nil, got %v", got)
		}
	})

	t.Run("computes total and stamps timestamps", func(t *testing.T) {
		got := MapDraftToOrder(decodeRecord(t, `{"subtotal":50,"deliveryFee":10,"discount":5}`))
		if got.Total != 55 {
			t.Fatalf("total = %v, want 55", got.Total)
		}
		if got.Totals.FinalTotal != 55 {
			t.Fatalf("totals.finalTotal = %v, want 55", got.Totals.FinalTotal)
		}
		if got.CreatedAt == "" || got.UpdatedAt == "" {
			t.Fatal("timestamps must be stamped on first save")
		}
		if got.Source != "desktop" {
			t.Fatalf("source = %q, want desktop", got.Source)
		}
	})

	t.Run("preserves existing createdAt and explicit total", func(t *testing.T) {
		got := MapDraftToOrder(decodeRecord(t, `{"id":"o1","createdAt":"2023-05-01T10:00:00Z","subtotal":50,"total":99}`))
		if got.CreatedAt != "2023-05-01T10:00:00Z" {
			t.Fatalf("createdAt = %q, must be preserved", got.CreatedAt)
		}
		if got.Total != 99 {
			t.Fatalf("total = %v, want explicit 99", got.Total)
		}
		if got.UpdatedAt == got.CreatedAt {
			t.Fatal("updatedAt must be refreshed")
		}
	})
}

func TestResolveOrderID(t *testing.T) {
	if got := ResolveOrderID(nil); got != "" {
		t.Fatalf("ResolveOrderID(nil) = %q", got)
	}
	if got := ResolveOrderID(map[string]any{"_id": "x"}); got != "x" {
		t.Fatalf("got %q, want x", got)
	}
	if got := ResolveOrderID(map[string]any{"id": "a", "_id": "b"}); got != "a" {
		t.Fatalf("got %q, want a", got)
	}
}
