package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/agamariel/annetom/internal/store"
)

func TestGetMotoboys(t *testing.T) {
	ctx := context.Background()

	mock := &store.MockStore{
		GetFunc: func(ctx context.Context, collection string) (any, error) {
			return map[string]any{"items": []any{
				map[string]any{"id": "m1", "name": "Carlos"},
				map[string]any{"id": "m2", "deleted": true},
			}}, nil
		},
	}
	svc := NewMotoboysService(mock, testLogger())

	motoboys := svc.GetMotoboys(ctx)
	if len(motoboys) != 1 {
		t.Fatalf("GetMotoboys() returned %d, want 1", len(motoboys))
	}
	m := motoboys[0]
	if !m.Active {
		t.Error("active should default to true")
	}
	if m.Status != "available" {
		t.Errorf("Status = %q, want available", m.Status)
	}
	if m.Tips == nil {
		t.Error("Tips should be an empty slice, not nil")
	}
}

func TestSaveMotoboy(t *testing.T) {
	ctx := context.Background()

	t.Run("create stamps createdAt", func(t *testing.T) {
		var added map[string]any
		mock := &store.MockStore{
			AddItemFunc: func(ctx context.Context, collection string, item any) (map[string]any, error) {
				record, err := store.ToRecord(item)
				if err != nil {
					return nil, err
				}
				record["id"] = "motoboys-1"
				added = record
				return record, nil
			},
		}
		svc := NewMotoboysService(mock, testLogger())

		m, err := svc.SaveMotoboy(ctx, map[string]any{"name": "Carlos"})
		if err != nil {
			t.Fatalf("SaveMotoboy() error = %v", err)
		}
		if added["createdAt"] == nil || added["createdAt"] == "" {
			t.Error("create must stamp createdAt")
		}
		if m.ID != "motoboys-1" {
			t.Errorf("ID = %q, want motoboys-1", m.ID)
		}
	})

	t.Run("update drops id from changes and stamps updatedAt", func(t *testing.T) {
		var gotChanges map[string]any
		mock := &store.MockFullStore{
			UpdateItemFunc: func(ctx context.Context, collection, id string, changes map[string]any) (map[string]any, error) {
				gotChanges = changes
				merged := map[string]any{"id": id}
				for k, v := range changes {
					merged[k] = v
				}
				return merged, nil
			},
		}
		svc := NewMotoboysService(mock, testLogger())

		if _, err := svc.SaveMotoboy(ctx, map[string]any{"id": "m1", "name": "Novo"}); err != nil {
			t.Fatalf("SaveMotoboy() error = %v", err)
		}
		if _, ok := gotChanges["id"]; ok {
			t.Error("changes must not carry id")
		}
		if gotChanges["updatedAt"] == nil || gotChanges["updatedAt"] == "" {
			t.Error("update must stamp updatedAt")
		}
	})
}

func TestToggleMotoboyActive(t *testing.T) {
	ctx := context.Background()

	var gotChanges map[string]any
	mock := &store.MockFullStore{
		UpdateItemFunc: func(ctx context.Context, collection, id string, changes map[string]any) (map[string]any, error) {
			gotChanges = changes
			return changes, nil
		},
	}
	svc := NewMotoboysService(mock, testLogger())

	if _, err := svc.ToggleMotoboyActive(ctx, "m1", false); err != nil {
		t.Fatalf("ToggleMotoboyActive() error = %v", err)
	}
	if gotChanges["active"] != false {
		t.Errorf("active = %v, want false", gotChanges["active"])
	}

	if _, err := svc.ToggleMotoboyActive(ctx, "", true); !errors.Is(err, ErrMissingMotoboyID) {
		t.Errorf("ToggleMotoboyActive(\"\") error = %v, want ErrMissingMotoboyID", err)
	}
}

func TestGenerateMotoboyQr(t *testing.T) {
	ctx := context.Background()

	var gotChanges map[string]any
	mock := &store.MockFullStore{
		UpdateItemFunc: func(ctx context.Context, collection, id string, changes map[string]any) (map[string]any, error) {
			gotChanges = changes
			return changes, nil
		},
	}
	svc := NewMotoboysService(mock, testLogger())

	token, err := svc.GenerateMotoboyQr(ctx, "m1")
	if err != nil {
		t.Fatalf("GenerateMotoboyQr() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateMotoboyQr() returned empty token")
	}
	if gotChanges["qrToken"] != token {
		t.Errorf("persisted token %v differs from returned %q", gotChanges["qrToken"], token)
	}
}

func TestAddMotoboyTipValidation(t *testing.T) {
	ctx := context.Background()

	storeTouched := false
	mock := &store.MockStore{
		GetFunc: func(ctx context.Context, collection string) (any, error) {
			storeTouched = true
			return map[string]any{"items": []any{}}, nil
		},
	}
	svc := NewMotoboysService(mock, testLogger())

	tests := []struct {
		name    string
		id      string
		draft   map[string]any
		wantErr error
	}{
		{name: "missing id", id: "", draft: map[string]any{"amount": 10}, wantErr: ErrMissingMotoboyID},
		{name: "nil draft", id: "m1", draft: nil, wantErr: ErrInvalidPayload},
		{name: "zero amount", id: "m1", draft: map[string]any{"amount": 0}, wantErr: ErrInvalidTipAmount},
		{name: "negative amount", id: "m1", draft: map[string]any{"amount": "-3,50"}, wantErr: ErrInvalidTipAmount},
		{name: "unparseable amount", id: "m1", draft: map[string]any{"amount": "abc"}, wantErr: ErrInvalidTipAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddMotoboyTip(ctx, tt.id, tt.draft)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddMotoboyTip() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if storeTouched {
		t.Error("validation failures must not touch the store")
	}
}

func TestAddMotoboyTipNotFound(t *testing.T) {
	ctx := context.Background()

	mock := &store.MockStore{
		GetFunc: func(ctx context.Context, collection string) (any, error) {
			return map[string]any{"items": []any{map[string]any{"id": "other"}}}, nil
		},
	}
	svc := NewMotoboysService(mock, testLogger())

	if _, err := svc.AddMotoboyTip(ctx, "m1", map[string]any{"amount": "12,50"}); !errors.Is(err, ErrMotoboyNotFound) {
		t.Errorf("AddMotoboyTip() error = %v, want ErrMotoboyNotFound", err)
	}
}

func TestAddMotoboyTipSequential(t *testing.T) {
	ctx := context.Background()

	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if _, err := fs.AddItem(ctx, store.CollectionMotoboys, map[string]any{"id": "m1", "name": "Carlos"}); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	svc := NewMotoboysService(fs, testLogger())

	if _, err := svc.AddMotoboyTip(ctx, "m1", map[string]any{"amount": 10}); err != nil {
		t.Fatalf("first tip error = %v", err)
	}
	tip, err := svc.AddMotoboyTip(ctx, "m1", map[string]any{"amount": "5"})
	if err != nil {
		t.Fatalf("second tip error = %v", err)
	}

	motoboys := svc.GetMotoboys(ctx)
	if len(motoboys) != 1 {
		t.Fatalf("GetMotoboys() returned %d, want 1", len(motoboys))
	}
	m := motoboys[0]
	if m.TipsTotal != 15 {
		t.Errorf("TipsTotal = %v, want 15", m.TipsTotal)
	}
	if len(m.Tips) != 2 {
		t.Fatalf("len(Tips) = %d, want 2", len(m.Tips))
	}
	if m.Tips[0].ID != tip.ID {
		t.Error("newest tip must be first")
	}
	if m.Tips[0].Amount != 5 || m.Tips[1].Amount != 10 {
		t.Errorf("tip order = [%v %v], want [5 10]", m.Tips[0].Amount, m.Tips[1].Amount)
	}
}

func TestAddMotoboyTipKeepsSuppliedID(t *testing.T) {
	ctx := context.Background()

	mock := &store.MockFullStore{}
	mock.GetFunc = func(ctx context.Context, collection string) (any, error) {
		return map[string]any{"items": []any{map[string]any{"id": "m1"}}}, nil
	}
	svc := NewMotoboysService(mock, testLogger())

	tip, err := svc.AddMotoboyTip(ctx, "m1", map[string]any{"id": "tip-import-1", "amount": 2})
	if err != nil {
		t.Fatalf("AddMotoboyTip() error = %v", err)
	}
	if tip.ID != "tip-import-1" {
		t.Errorf("tip ID = %q, want supplied tip-import-1", tip.ID)
	}

	tip, err = svc.AddMotoboyTip(ctx, "m1", map[string]any{"amount": 3})
	if err != nil {
		t.Fatalf("AddMotoboyTip() error = %v", err)
	}
	if tip.ID == "" {
		t.Error("tip without supplied id must get a generated one")
	}
}

func TestAddMotoboyTipRetriesOnConflict(t *testing.T) {
	ctx := context.Background()

	attempts := 0
	mock := &store.MockFullStore{
		UpdateItemCASFunc: func(ctx context.Context, collection, id string, changes map[string]any, expectedVersion int64) (map[string]any, error) {
			attempts++
			if attempts == 1 {
				return nil, fmt.Errorf("%w: stale", store.ErrVersionConflict)
			}
			return changes, nil
		},
	}
	mock.GetFunc = func(ctx context.Context, collection string) (any, error) {
		return map[string]any{"items": []any{
			map[string]any{"id": "m1", "name": "Carlos", "version": float64(attempts + 1)},
		}}, nil
	}
	svc := NewMotoboysService(mock, testLogger())

	tip, err := svc.AddMotoboyTip(ctx, "m1", map[string]any{"amount": "7,00"})
	if err != nil {
		t.Fatalf("AddMotoboyTip() error = %v", err)
	}
	if attempts != 2 {
		t.Errorf("CAS attempts = %d, want 2", attempts)
	}
	if tip.Amount != 7 {
		t.Errorf("tip amount = %v, want 7", tip.Amount)
	}
}

func TestAddMotoboyTipGivesUpAfterRetries(t *testing.T) {
	ctx := context.Background()

	attempts := 0
	mock := &store.MockFullStore{
		UpdateItemCASFunc: func(ctx context.Context, collection, id string, changes map[string]any, expectedVersion int64) (map[string]any, error) {
			attempts++
			return nil, fmt.Errorf("%w: stale", store.ErrVersionConflict)
		},
	}
	mock.GetFunc = func(ctx context.Context, collection string) (any, error) {
		return map[string]any{"items": []any{map[string]any{"id": "m1"}}}, nil
	}
	svc := NewMotoboysService(mock, testLogger())

	if _, err := svc.AddMotoboyTip(ctx, "m1", map[string]any{"amount": 1}); !errors.Is(err, store.ErrVersionConflict) {
		t.Errorf("AddMotoboyTip() error = %v, want ErrVersionConflict", err)
	}
	if attempts != tipRetries {
		t.Errorf("CAS attempts = %d, want %d", attempts, tipRetries)
	}
}
