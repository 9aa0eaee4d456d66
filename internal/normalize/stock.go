package normalize

import (
	"strings"

	"github.com/agamariel/annetom/internal/models"
)

// StockKey — ключ ингредиента для сопоставления склада и рецептов.
func StockKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// BuildIngredientStock строит индекс склада по ингредиентам пицц.
// Ингредиенты из рецептов, отсутствующие на складе, получают нулевые
// остатки; позиции склада без рецептов тоже попадают в индекс.
func BuildIngredientStock(products []models.Product, stockItems []models.StockItem) map[string]models.StockItem {
	index := map[string]models.StockItem{}

	for _, p := range products {
		if p.Type != models.ProductTypePizza {
			continue
		}
		for _, ing := range p.Ingredients {
			key := StockKey(ing)
			if key == "" {
				continue
			}
			if _, ok := index[key]; ok {
				continue
			}
			entry := models.StockItem{Key: key, Name: strings.TrimSpace(ing)}
			for _, s := range stockItems {
				if stockItemKey(s) == key {
					entry.Name = pickName(s.Name, entry.Name)
					entry.Quantity = s.Quantity
					entry.MinQuantity = s.MinQuantity
					entry.Unavailable = s.Unavailable
					break
				}
			}
			index[key] = entry
		}
	}

	for _, s := range stockItems {
		key := stockItemKey(s)
		if key == "" {
			continue
		}
		if _, ok := index[key]; ok {
			continue
		}
		index[key] = models.StockItem{
			Key:         key,
			Name:        pickName(s.Name, key),
			Quantity:    s.Quantity,
			MinQuantity: s.MinQuantity,
			Unavailable: s.Unavailable,
		}
	}

	return index
}

// ApplyStockToProducts гасит доступность пицц, у которых закончился
// отслеживаемый ингредиент, и возвращает авто-приостановленные пиццы
// в продажу, когда ингредиент снова в наличии.
func ApplyStockToProducts(products []models.Product, stock map[string]models.StockItem) []models.Product {
	missing := map[string]bool{}
	for key, item := range stock {
		if item.Unavailable || (item.MinQuantity > 0 && item.Quantity <= 0) {
			missing[key] = true
		}
	}

	out := make([]models.Product, len(products))
	for i, p := range products {
		next := p
		hasMissing := false
		if p.Type == models.ProductTypePizza {
			for _, ing := range p.Ingredients {
				if missing[StockKey(ing)] {
					hasMissing = true
					break
				}
			}
		}

		switch {
		case hasMissing || p.ManualOut:
			next.AutoPaused = hasMissing
			next.Active = false
			next.Available = false
		case p.AutoPaused:
			next.AutoPaused = false
			next.Active = true
			next.Available = true
		}
		out[i] = next
	}
	return out
}

func stockItemKey(s models.StockItem) string {
	if key := StockKey(s.Key); key != "" {
		return key
	}
	return StockKey(s.Name)
}

func pickName(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}
