package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrItemNotFound      = errors.New("item not found")
	ErrVersionConflict   = errors.New("version conflict")
)

// Имена коллекций хранилища.
const (
	CollectionProducts     = "products"
	CollectionCustomers    = "customers"
	CollectionOrders       = "orders"
	CollectionMotoboys     = "motoboys"
	CollectionCashSessions = "cashSessions"
	CollectionSettings     = "settings"
	CollectionDashboard    = "dashboard"
)

// Store — минимальный контракт хранилища коллекций.
// Get возвращает коллекцию как декодированный JSON: конверт {items:[...]},
// голый массив или одиночный документ (settings, dashboard).
type Store interface {
	Get(ctx context.Context, collection string) (any, error)
	Set(ctx context.Context, collection string, data any) error
	AddItem(ctx context.Context, collection string, item any) (map[string]any, error)
}

// ItemUpdater — опциональный примитив точечного обновления записи.
// Наличие проверяется утверждением типа; фасады без него откатываются
// на чтение-слияние-запись всей коллекции.
type ItemUpdater interface {
	UpdateItem(ctx context.Context, collection, id string, changes map[string]any) (map[string]any, error)
}

// ItemRemover — опциональный примитив точечного удаления записи.
type ItemRemover interface {
	RemoveItem(ctx context.Context, collection, id string) error
}

// ConditionalUpdater — опциональное обновление со сравнением версии.
// Каждая запись несёт счётчик version, который хранилище увеличивает
// при каждом обновлении; несовпадение ожидаемой версии даёт
// ErrVersionConflict, который имеет смысл повторить после свежего чтения.
type ConditionalUpdater interface {
	UpdateItemCAS(ctx context.Context, collection, id string, changes map[string]any, expectedVersion int64) (map[string]any, error)
}

// LocalKV — локальное персистентное key-value хранилище для фолбэков
// (аналог localStorage рендерера).
type LocalKV interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
}

// Collections перечисляет известные коллекции.
func Collections() []string {
	return []string{
		CollectionProducts,
		CollectionCustomers,
		CollectionOrders,
		CollectionMotoboys,
		CollectionCashSessions,
		CollectionSettings,
		CollectionDashboard,
	}
}

// IsItemCollection сообщает, хранится ли коллекция в конверте {items:[...]}.
func IsItemCollection(collection string) bool {
	switch collection {
	case CollectionSettings, CollectionDashboard:
		return false
	default:
		return true
	}
}

// Items извлекает последовательность записей из конверта {items:[...]}
// или из голого массива. Любая другая форма даёт пустой срез.
func Items(data any) []map[string]any {
	switch v := data.(type) {
	case []any:
		return recordList(v)
	case []map[string]any:
		return v
	case map[string]any:
		switch arr := v["items"].(type) {
		case []any:
			return recordList(arr)
		case []map[string]any:
			return arr
		}
	}
	return []map[string]any{}
}

// Wrap оборачивает срез записей обратно в конверт {items:[...]}.
func Wrap(items []map[string]any) map[string]any {
	list := make([]any, len(items))
	for i, it := range items {
		list[i] = it
	}
	return map[string]any{"items": list}
}

// ToRecord приводит произвольное значение (структуру или карту) к карте
// через JSON, чтобы хранилище могло дописывать служебные поля.
func ToRecord(item any) (map[string]any, error) {
	if m, ok := item.(map[string]any); ok {
		return m, nil
	}
	data, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("encode item: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return m, nil
}

func recordList(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// defaultData возвращает содержимое коллекции по умолчанию.
func defaultData(collection string) (any, error) {
	switch collection {
	case CollectionProducts, CollectionCustomers, CollectionOrders,
		CollectionMotoboys, CollectionCashSessions:
		return map[string]any{"items": []any{}}, nil
	case CollectionSettings:
		return map[string]any{"pizzariaName": "Anne & Tom"}, nil
	case CollectionDashboard:
		return map[string]any{"stats": map[string]any{
			"lastUpdate":  nil,
			"today":       nil,
			"topProducts": []any{},
		}}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
}
