package normalize

import (
	"github.com/spf13/cast"

	"github.com/agamariel/annetom/internal/models"
)

// Customer приводит запись клиента к канонической форме.
func Customer(raw map[string]any) *models.Customer {
	if raw == nil {
		return nil
	}

	return &models.Customer{
		ID:        ResolveOrderID(raw),
		Name:      firstString(raw["name"], raw["nome"]),
		Phone:     firstString(raw["phone"], raw["telefone"]),
		Address:   asMap(raw["address"]),
		Notes:     str(raw["notes"]),
		CreatedAt: str(raw["createdAt"]),
		UpdatedAt: str(raw["updatedAt"]),
		Deleted:   cast.ToBool(raw["deleted"]),
		Version:   cast.ToInt64(raw["version"]),
	}
}
