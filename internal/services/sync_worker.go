package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/spf13/cast"

	"github.com/agamariel/annetom/internal/store"
	"github.com/agamariel/annetom/internal/syncapi"
)

// syncCursorPrefix — префикс ключей курсоров в локальном KV.
const syncCursorPrefix = "sync-cursor-"

// SyncWorker периодически подтягивает изменения коллекций с удалённого
// сервиса и вливает их в локальное хранилище. Это зеркало по принципу
// best-effort: при совпадении id остаётся запись с более свежим updatedAt.
type SyncWorker struct {
	store    store.Store
	local    store.LocalKV
	client   syncapi.SyncClient
	interval time.Duration
	logger   *log.Logger
}

// NewSyncWorker создаёт воркер синхронизации.
func NewSyncWorker(st store.Store, local store.LocalKV, client syncapi.SyncClient, interval time.Duration, logger *log.Logger) *SyncWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SyncWorker{
		store:    st,
		local:    local,
		client:   client,
		interval: interval,
		logger:   logger,
	}
}

// Start запускает воркер в отдельной горутине и останавливается по ctx.Done().
func (w *SyncWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	go func() {
		defer ticker.Stop()
		if err := w.processBatch(ctx); err != nil {
			w.logger.Printf("sync worker error on initial batch: %v", err)
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := w.processBatch(ctx); err != nil {
					w.logger.Printf("sync worker error: %v", err)
				}
			}
		}
	}()
}

func (w *SyncWorker) processBatch(ctx context.Context) error {
	for _, collection := range store.Collections() {
		if !store.IsItemCollection(collection) {
			continue
		}
		if err := w.pullCollection(ctx, collection); err != nil {
			w.logger.Printf("sync %s error: %v", collection, err)
		}
	}
	return nil
}

func (w *SyncWorker) pullCollection(ctx context.Context, collection string) error {
	cursor := w.loadCursor(collection)

	resp, err := w.client.PullCollection(ctx, collection, cursor)
	if err != nil {
		var rl syncapi.RateLimitError
		if errors.As(err, &rl) {
			w.logger.Printf("sync %s rate limited, retrying after %s", collection, rl.RetryAfter)
			time.Sleep(rl.RetryAfter)
			return nil
		}
		if errors.Is(err, syncapi.ErrNotFound) {
			return nil
		}
		return err
	}

	if len(resp.Items) > 0 {
		if err := w.mergeItems(ctx, collection, resp.Items); err != nil {
			return err
		}
		w.logger.Printf("sync %s: merged %d items", collection, len(resp.Items))
	}

	if resp.Cursor != "" {
		w.saveCursor(collection, resp.Cursor)
	}
	return nil
}

// mergeItems вливает входящие записи: совпадение по id разрешается в
// пользу более свежего updatedAt, новые записи добавляются в конец.
func (w *SyncWorker) mergeItems(ctx context.Context, collection string, incoming []map[string]any) error {
	data, err := w.store.Get(ctx, collection)
	if err != nil {
		return err
	}

	items := store.Items(data)
	index := make(map[string]int, len(items))
	for i, raw := range items {
		if id := cast.ToString(raw["id"]); id != "" {
			index[id] = i
		}
	}

	for _, in := range incoming {
		id := cast.ToString(in["id"])
		if id == "" {
			continue
		}
		pos, exists := index[id]
		if !exists {
			index[id] = len(items)
			items = append(items, in)
			continue
		}
		// RFC3339 сравнивается лексикографически
		if cast.ToString(in["updatedAt"]) >= cast.ToString(items[pos]["updatedAt"]) {
			items[pos] = in
		}
	}

	return w.store.Set(ctx, collection, store.Wrap(items))
}

func (w *SyncWorker) loadCursor(collection string) string {
	if w.local == nil {
		return ""
	}
	value, ok, err := w.local.GetItem(syncCursorPrefix + collection)
	if err != nil || !ok {
		return ""
	}
	return value
}

func (w *SyncWorker) saveCursor(collection, cursor string) {
	if w.local == nil {
		return
	}
	if err := w.local.SetItem(syncCursorPrefix+collection, cursor); err != nil {
		w.logger.Printf("sync %s: save cursor: %v", collection, err)
	}
}
