package normalize

import (
	"time"

	"github.com/spf13/cast"

	"github.com/agamariel/annetom/internal/models"
	"github.com/agamariel/annetom/internal/money"
)

// ResolveOrderID возвращает идентификатор заказа с учётом легаси-поля _id.
func ResolveOrderID(raw map[string]any) string {
	if raw == nil {
		return ""
	}
	return firstString(raw["id"], raw["_id"])
}

// Order приводит сырую запись заказа к канонической форме.
// Чистая тотальная функция: nil даёт nil, любая другая карта — заказ
// с заполненными ID, Status, Items, History, Customer и Totals.
// Идемпотентна: нормализация каноники даёт ту же канонику.
func Order(raw map[string]any) *models.Order {
	if raw == nil {
		return nil
	}

	totals := orderTotals(raw)
	return &models.Order{
		ID:          ResolveOrderID(raw),
		Status:      Status(raw["status"]),
		CreatedAt:   str(raw["createdAt"]),
		UpdatedAt:   str(raw["updatedAt"]),
		Source:      str(raw["source"]),
		Customer:    customerOf(raw),
		Items:       mapList(raw["items"]),
		History:     historyOf(raw["history"]),
		Subtotal:    totals.Subtotal,
		DeliveryFee: totals.DeliveryFee,
		Discount:    totals.Discount,
		Total:       totals.Total,
		Totals:      totals,
		Deleted:     cast.ToBool(raw["deleted"]),
		Version:     cast.ToInt64(raw["version"]),
	}
}

// MapDraftToOrder превращает черновик из UI в запись, готовую к сохранению.
// createdAt назначается только при первом сохранении, updatedAt обновляется
// всегда, total вычисляется из subtotal+deliveryFee-discount, если не задан.
// Для обратной совместимости пишутся и плоские числовые поля, и totals
// с finalTotal. Для nil возвращает nil.
func MapDraftToOrder(draft map[string]any) *models.Order {
	if draft == nil {
		return nil
	}

	now := nowISO()
	subtotal := money.Normalize(draft["subtotal"])
	deliveryFee := money.Normalize(draft["deliveryFee"])
	discount := money.Normalize(draft["discount"])
	total := money.Normalize(draft["total"])
	if total == 0 {
		total = subtotal + deliveryFee - discount
	}

	return &models.Order{
		ID:          ResolveOrderID(draft),
		Status:      Status(draft["status"]),
		CreatedAt:   defaultString(draft["createdAt"], now),
		UpdatedAt:   now,
		Source:      defaultString(draft["source"], "desktop"),
		Customer:    customerOf(draft),
		Items:       mapList(draft["items"]),
		History:     historyOf(draft["history"]),
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Discount:    discount,
		Total:       total,
		Totals: models.Totals{
			Subtotal:    subtotal,
			DeliveryFee: deliveryFee,
			Discount:    discount,
			FinalTotal:  total,
		},
		Version: cast.ToInt64(draft["version"]),
	}
}

// orderTotals собирает totals из вложенной карты либо из плоских полей.
func orderTotals(raw map[string]any) models.Totals {
	if tm := asMap(raw["totals"]); tm != nil {
		total := money.Normalize(tm["total"])
		if _, ok := tm["total"]; !ok {
			total = money.Normalize(tm["finalTotal"])
		}
		return models.Totals{
			Subtotal:    money.Normalize(tm["subtotal"]),
			DeliveryFee: money.Normalize(tm["deliveryFee"]),
			Discount:    money.Normalize(tm["discount"]),
			Total:       total,
		}
	}
	return models.Totals{
		Subtotal:    money.Normalize(raw["subtotal"]),
		DeliveryFee: money.Normalize(raw["deliveryFee"]),
		Discount:    money.Normalize(raw["discount"]),
		Total:       money.Normalize(raw["total"]),
	}
}

// customerOf берёт customer, при отсутствии — легаси customerSnapshot.
func customerOf(raw map[string]any) map[string]any {
	if m := asMap(raw["customer"]); m != nil {
		return m
	}
	if m := asMap(raw["customerSnapshot"]); m != nil {
		return m
	}
	return map[string]any{}
}

func historyOf(v any) []models.HistoryEntry {
	entries, ok := v.([]any)
	if !ok {
		return []models.HistoryEntry{}
	}
	out := make([]models.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if m, ok := e.(map[string]any); ok {
			out = append(out, models.HistoryEntry{Status: str(m["status"]), At: str(m["at"])})
		}
	}
	return out
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
