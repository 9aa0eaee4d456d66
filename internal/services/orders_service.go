package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cast"

	"github.com/agamariel/annetom/internal/models"
	"github.com/agamariel/annetom/internal/normalize"
	"github.com/agamariel/annetom/internal/store"
)

var (
	ErrMissingOrderID = errors.New("order id is required")
)

// OrdersService определяет фасад работы с заказами.
// Политика ошибок: чтение деградирует до пустого результата с записью
// в лог, запись валидирует вход и пробрасывает ошибки хранилища.
type OrdersService interface {
	FetchOrders(ctx context.Context) []*models.Order
	SaveOrder(ctx context.Context, draft map[string]any) (*models.Order, error)
	UpdateOrderRecord(ctx context.Context, id string, changes map[string]any) error
	DeleteOrderRecord(ctx context.Context, id string) error
	UpdateOrderStatus(ctx context.Context, id, status string, history []models.HistoryEntry) error
}

// OrdersServiceImpl реализует OrdersService.
type OrdersServiceImpl struct {
	store  store.Store
	logger *log.Logger
}

// NewOrdersService создаёт новый фасад заказов.
func NewOrdersService(st store.Store, logger *log.Logger) *OrdersServiceImpl {
	if logger == nil {
		logger = log.Default()
	}
	return &OrdersServiceImpl{store: st, logger: logger}
}

// FetchOrders возвращает все не удалённые заказы в канонической форме.
// Любой сбой чтения логируется и даёт пустой срез, а не ошибку.
func (s *OrdersServiceImpl) FetchOrders(ctx context.Context) []*models.Order {
	if s.store == nil {
		s.logger.Printf("fetch orders: store is not available")
		return []*models.Order{}
	}

	data, err := s.store.Get(ctx, store.CollectionOrders)
	if err != nil {
		s.logger.Printf("fetch orders: %v", err)
		return []*models.Order{}
	}

	items := store.Items(data)
	orders := make([]*models.Order, 0, len(items))
	for _, raw := range items {
		if cast.ToBool(raw["deleted"]) {
			continue
		}
		if order := normalize.Order(raw); order != nil {
			orders = append(orders, order)
		}
	}
	return orders
}

// SaveOrder превращает черновик в каноническую запись и добавляет её.
func (s *OrdersServiceImpl) SaveOrder(ctx context.Context, draft map[string]any) (*models.Order, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	if draft == nil {
		return nil, fmt.Errorf("%w: order draft is required", ErrInvalidPayload)
	}

	canonical, err := store.ToRecord(normalize.MapDraftToOrder(draft))
	if err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	// Свободные поля черновика (способ оплаты и т.п.) сохраняются,
	// канонические поля пишутся поверх них.
	record := make(map[string]any, len(draft)+len(canonical))
	for k, v := range draft {
		record[k] = v
	}
	for k, v := range canonical {
		record[k] = v
	}

	created, err := s.store.AddItem(ctx, store.CollectionOrders, record)
	if err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	return normalize.Order(created), nil
}

// UpdateOrderRecord сливает изменения в запись по id (или легаси _id).
func (s *OrdersServiceImpl) UpdateOrderRecord(ctx context.Context, id string, changes map[string]any) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}
	if id == "" {
		return ErrMissingOrderID
	}

	if _, err := updateCollectionItem(ctx, s.store, store.CollectionOrders, id, changes); err != nil {
		return fmt.Errorf("update order %s: %w", id, err)
	}
	return nil
}

// DeleteOrderRecord удаляет запись заказа.
func (s *OrdersServiceImpl) DeleteOrderRecord(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}
	if id == "" {
		return ErrMissingOrderID
	}

	if err := removeCollectionItem(ctx, s.store, store.CollectionOrders, id); err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}
	return nil
}

// UpdateOrderStatus дописывает запись {status, at} к переданной истории
// и делегирует UpdateOrderRecord. Историю поставляет вызывающий; если
// в хранилище она длиннее, фиксируем расхождение в логе.
func (s *OrdersServiceImpl) UpdateOrderStatus(ctx context.Context, id, status string, history []models.HistoryEntry) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}
	if id == "" {
		return ErrMissingOrderID
	}

	canonical := normalize.Status(status)
	now := nowISO()

	if stored := s.storedHistoryLen(ctx, id); stored > len(history) {
		s.logger.Printf("update order status %s: supplied history has %d entries, store has %d — possible lost update", id, len(history), stored)
	}

	next := make([]models.HistoryEntry, 0, len(history)+1)
	next = append(next, history...)
	next = append(next, models.HistoryEntry{Status: canonical, At: now})

	changes := map[string]any{
		"status":    canonical,
		"history":   historyRecords(next),
		"updatedAt": now,
	}
	return s.UpdateOrderRecord(ctx, id, changes)
}

// storedHistoryLen читает длину истории заказа в хранилище.
// Сбой чтения не мешает обновлению статуса.
func (s *OrdersServiceImpl) storedHistoryLen(ctx context.Context, id string) int {
	data, err := s.store.Get(ctx, store.CollectionOrders)
	if err != nil {
		return 0
	}
	for _, raw := range store.Items(data) {
		if matchesID(raw, id) {
			if list, ok := raw["history"].([]any); ok {
				return len(list)
			}
			return 0
		}
	}
	return 0
}

func historyRecords(entries []models.HistoryEntry) []any {
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = map[string]any{"status": e.Status, "at": e.At}
	}
	return out
}
