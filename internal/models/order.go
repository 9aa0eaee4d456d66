package models

// OrderStatus описывает статус жизненного цикла заказа.
type OrderStatus string

const (
	OrderStatusOpen           OrderStatus = "open"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDone           OrderStatus = "done"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// HistoryEntry — запись аудита смены статуса. История только дополняется.
type HistoryEntry struct {
	Status string `json:"status"`
	At     string `json:"at"`
}

// Totals содержит денежные итоги заказа.
// Путь чтения заполняет Total, путь записи — FinalTotal (легаси-формат записи).
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total,omitempty"`
	FinalTotal  float64 `json:"finalTotal,omitempty"`
}

// Order — каноническая форма заказа после нормализации.
// Инвариант: непустые ID и Status, Items/History/Customer/Totals всегда присутствуют.
type Order struct {
	ID          string           `json:"id,omitempty"`
	Status      string           `json:"status"`
	CreatedAt   string           `json:"createdAt,omitempty"`
	UpdatedAt   string           `json:"updatedAt,omitempty"`
	Source      string           `json:"source,omitempty"`
	Customer    map[string]any   `json:"customer"`
	Items       []map[string]any `json:"items"`
	History     []HistoryEntry   `json:"history"`
	Subtotal    float64          `json:"subtotal"`
	DeliveryFee float64          `json:"deliveryFee"`
	Discount    float64          `json:"discount"`
	Total       float64          `json:"total"`
	Totals      Totals           `json:"totals"`
	Deleted     bool             `json:"deleted,omitempty"`
	Version     int64            `json:"version,omitempty"`
}

// StatusPreset — пресет фильтрации заказов по статусу.
type StatusPreset struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Statuses []string `json:"statuses"`
}

// StatusPresets — стандартный набор фильтров (nil в Statuses означает "все").
var StatusPresets = []StatusPreset{
	{Key: "open", Label: "Em aberto", Statuses: []string{"open", "preparing", "out_for_delivery"}},
	{Key: "preparing", Label: "Em preparo", Statuses: []string{"preparing"}},
	{Key: "out_for_delivery", Label: "Saiu p/ entrega", Statuses: []string{"out_for_delivery"}},
	{Key: "done", Label: "Finalizado", Statuses: []string{"done"}},
	{Key: "cancelled", Label: "Cancelado", Statuses: []string{"cancelled"}},
	{Key: "all", Label: "Todos", Statuses: nil},
}
