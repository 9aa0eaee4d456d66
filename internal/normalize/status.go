package normalize

import (
	"strings"

	"github.com/agamariel/annetom/internal/models"
)

var statusSynonyms = map[string]models.OrderStatus{
	"finalizado": models.OrderStatusDone,
	"done":       models.OrderStatusDone,
	"entregue":   models.OrderStatusDone,
	"concluido":  models.OrderStatusDone,
	"concluída":  models.OrderStatusDone,

	"cancelado": models.OrderStatusCancelled,
	"cancelled": models.OrderStatusCancelled,

	"preparing":  models.OrderStatusPreparing,
	"preparo":    models.OrderStatusPreparing,
	"em_preparo": models.OrderStatusPreparing,
	"em preparo": models.OrderStatusPreparing,
	"preparando": models.OrderStatusPreparing,
	"ready":      models.OrderStatusPreparing,
	"pronto":     models.OrderStatusPreparing,
	"pronta":     models.OrderStatusPreparing,

	"out_for_delivery":  models.OrderStatusOutForDelivery,
	"em_entrega":        models.OrderStatusOutForDelivery,
	"em entrega":        models.OrderStatusOutForDelivery,
	"saiu para entrega": models.OrderStatusOutForDelivery,
	"delivery":          models.OrderStatusOutForDelivery,
	"delivering":        models.OrderStatusOutForDelivery,
	"assigned":          models.OrderStatusOutForDelivery,
	"em rota":           models.OrderStatusOutForDelivery,

	"open":      models.OrderStatusOpen,
	"aberto":    models.OrderStatusOpen,
	"em_aberto": models.OrderStatusOpen,
	"em aberto": models.OrderStatusOpen,
	"pendente":  models.OrderStatusOpen,
}

// Status приводит статус заказа к каноническому словарю.
// Синонимы (в т.ч. португальские легаси-значения) сводятся к пяти
// каноническим статусам; незнакомые строки проходят без изменений.
func Status(value any) string {
	s := strings.ToLower(strings.TrimSpace(str(value)))
	if s == "" {
		return string(models.OrderStatusOpen)
	}
	if canonical, ok := statusSynonyms[s]; ok {
		return string(canonical)
	}
	return s
}
