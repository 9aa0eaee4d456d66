package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agamariel/annetom/internal/normalize"
	"github.com/agamariel/annetom/internal/store"
)

var (
	ErrStoreUnavailable = errors.New("store is not available")
	ErrInvalidPayload   = errors.New("invalid payload")
)

// nowISO возвращает текущий момент в формате RFC3339 (UTC) — так же
// помечаются createdAt/updatedAt во всех коллекциях.
func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// matchesID сверяет запись с идентификатором, учитывая легаси-поле _id.
func matchesID(raw map[string]any, id string) bool {
	return id != "" && normalize.ResolveOrderID(raw) == id
}

// updateCollectionItem применяет точечное обновление, если бэкенд его
// предоставляет, иначе откатывается на чтение-слияние-запись всей
// коллекции. Возвращает обновлённую запись (nil, если в фолбэке
// совпадений не нашлось).
func updateCollectionItem(ctx context.Context, st store.Store, collection, id string, changes map[string]any) (map[string]any, error) {
	if updater, ok := st.(store.ItemUpdater); ok {
		return updater.UpdateItem(ctx, collection, id, changes)
	}

	data, err := st.Get(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}

	items := store.Items(data)
	var updated map[string]any
	for i, raw := range items {
		if !matchesID(raw, id) {
			continue
		}
		merged := make(map[string]any, len(raw)+len(changes))
		for k, v := range raw {
			merged[k] = v
		}
		for k, v := range changes {
			merged[k] = v
		}
		items[i] = merged
		updated = merged
	}

	if err := st.Set(ctx, collection, store.Wrap(items)); err != nil {
		return nil, fmt.Errorf("write %s: %w", collection, err)
	}
	return updated, nil
}

// removeCollectionItem удаляет запись напрямую, если бэкенд умеет,
// иначе перезаписывает коллекцию без неё.
func removeCollectionItem(ctx context.Context, st store.Store, collection, id string) error {
	if remover, ok := st.(store.ItemRemover); ok {
		return remover.RemoveItem(ctx, collection, id)
	}

	data, err := st.Get(ctx, collection)
	if err != nil {
		return fmt.Errorf("read %s: %w", collection, err)
	}

	items := store.Items(data)
	kept := make([]map[string]any, 0, len(items))
	for _, raw := range items {
		if matchesID(raw, id) {
			continue
		}
		kept = append(kept, raw)
	}

	if err := st.Set(ctx, collection, store.Wrap(kept)); err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	return nil
}
