package normalize

import (
	"github.com/spf13/cast"

	"github.com/agamariel/annetom/internal/models"
	"github.com/agamariel/annetom/internal/money"
)

// Motoboy приводит сырую запись курьера к канонической форме.
// TipsTotal всегда пересчитывается из списка чаевых, хранимое значение
// игнорируется. Для nil возвращает nil.
func Motoboy(raw map[string]any) *models.Motoboy {
	if raw == nil {
		return nil
	}

	active := true
	if b, ok := raw["active"].(bool); ok {
		active = b
	}

	tips := tipsOf(raw["tips"])
	amounts := make([]float64, len(tips))
	for i, tip := range tips {
		amounts[i] = tip.Amount
	}

	return &models.Motoboy{
		ID:        firstString(raw["id"], raw["_id"]),
		Name:      str(raw["name"]),
		Phone:     str(raw["phone"]),
		Active:    active,
		Status:    defaultString(raw["status"], models.MotoboyStatusAvailable),
		QRToken:   str(raw["qrToken"]),
		Tips:      tips,
		TipsTotal: money.SumAmounts(amounts),
		CreatedAt: str(raw["createdAt"]),
		UpdatedAt: str(raw["updatedAt"]),
		Deleted:   cast.ToBool(raw["deleted"]),
		Version:   cast.ToInt64(raw["version"]),
	}
}

func tipsOf(v any) []models.Tip {
	entries, ok := v.([]any)
	if !ok {
		return []models.Tip{}
	}
	out := make([]models.Tip, 0, len(entries))
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, models.Tip{
			ID:        str(m["id"]),
			Amount:    money.Normalize(m["amount"]),
			Note:      str(m["note"]),
			At:        str(m["at"]),
			CreatedAt: str(m["createdAt"]),
		})
	}
	return out
}
