package store

import "context"

// MockStore - мок базового контракта без точечных примитивов
// (экспортируемый для использования в других пакетах). Нужен для
// проверки фолбэков чтение-слияние-запись.
type MockStore struct {
	GetFunc     func(ctx context.Context, collection string) (any, error)
	SetFunc     func(ctx context.Context, collection string, data any) error
	AddItemFunc func(ctx context.Context, collection string, item any) (map[string]any, error)
}

func (m *MockStore) Get(ctx context.Context, collection string) (any, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, collection)
	}
	return defaultData(collection)
}

func (m *MockStore) Set(ctx context.Context, collection string, data any) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, collection, data)
	}
	return nil
}

func (m *MockStore) AddItem(ctx context.Context, collection string, item any) (map[string]any, error) {
	if m.AddItemFunc != nil {
		return m.AddItemFunc(ctx, collection, item)
	}
	return ToRecord(item)
}

// MockFullStore - мок хранилища со всеми опциональными примитивами.
type MockFullStore struct {
	MockStore
	UpdateItemFunc    func(ctx context.Context, collection, id string, changes map[string]any) (map[string]any, error)
	UpdateItemCASFunc func(ctx context.Context, collection, id string, changes map[string]any, expectedVersion int64) (map[string]any, error)
	RemoveItemFunc    func(ctx context.Context, collection, id string) error
}

func (m *MockFullStore) UpdateItem(ctx context.Context, collection, id string, changes map[string]any) (map[string]any, error) {
	if m.UpdateItemFunc != nil {
		return m.UpdateItemFunc(ctx, collection, id, changes)
	}
	return changes, nil
}

func (m *MockFullStore) UpdateItemCAS(ctx context.Context, collection, id string, changes map[string]any, expectedVersion int64) (map[string]any, error) {
	if m.UpdateItemCASFunc != nil {
		return m.UpdateItemCASFunc(ctx, collection, id, changes, expectedVersion)
	}
	return changes, nil
}

func (m *MockFullStore) RemoveItem(ctx context.Context, collection, id string) error {
	if m.RemoveItemFunc != nil {
		return m.RemoveItemFunc(ctx, collection, id)
	}
	return nil
}
