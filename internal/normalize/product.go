package normalize

import (
	"fmt"
	"strings"

	"github.com/agamariel/annetom/internal/models"
	"github.com/agamariel/annetom/internal/money"
)

// ProductGroups разбирает коллекцию товаров в любом из исторических
// форматов ({items}, {products} или голый массив) и раскладывает её на
// три группы по разрешённому типу. Товар без единой положительной цены
// молча отбрасывается и не попадает ни в одну группу.
func ProductGroups(raw any) models.ProductGroups {
	groups := models.ProductGroups{
		Pizzas: []models.Product{},
		Drinks: []models.Product{},
		Extras: []models.Product{},
	}

	for i, entry := range productItems(raw) {
		p := product(entry, i)
		if p.Prices.Broto <= 0 && p.Prices.Grande <= 0 {
			continue
		}
		switch p.Type {
		case models.ProductTypePizza:
			groups.Pizzas = append(groups.Pizzas, p)
		case models.ProductTypeDrink:
			groups.Drinks = append(groups.Drinks, p)
		case models.ProductTypeExtra:
			groups.Extras = append(groups.Extras, p)
		}
	}
	return groups
}

// productItems вытаскивает последовательность товаров из любого конверта.
func productItems(raw any) []map[string]any {
	switch v := raw.(type) {
	case nil:
		return nil
	case map[string]any:
		if items, ok := v["items"].([]any); ok {
			return mapList(items)
		}
		if items, ok := v["products"].([]any); ok {
			return mapList(items)
		}
		return nil
	default:
		return mapList(raw)
	}
}

// product нормализует одну запись товара. Индекс нужен для синтеза
// идентификатора prod-<n> у записей без id.
func product(p map[string]any, index int) models.Product {
	explicitType := strings.ToLower(strings.TrimSpace(str(p["type"])))
	categoria := firstString(p["categoria"], p["category"])

	resolved := models.ProductType(explicitType)
	if explicitType == "" {
		cat := strings.ToLower(categoria)
		switch {
		case containsAny(cat, "bebida", "refrigerante", "suco"):
			resolved = models.ProductTypeDrink
		case containsAny(cat, "extra", "adicional", "borda"):
			resolved = models.ProductTypeExtra
		default:
			resolved = models.ProductTypePizza
		}
	}

	id := strings.TrimSpace(str(p["id"]))
	if id == "" {
		id = fmt.Sprintf("prod-%d", index+1)
	}

	active := true
	if b, ok := p["active"].(bool); ok {
		active = b
	}
	available := active
	if b, ok := p["isAvailable"].(bool); ok {
		available = b
	}

	return models.Product{
		ID:          id,
		Name:        firstString(p["name"], p["nome"]),
		Description: firstString(p["description"], p["descricao"]),
		Categoria:   categoria,
		Type:        resolved,
		Prices: models.Prices{
			Broto:  firstAmount(p, "priceBroto", "preco_broto"),
			Grande: firstAmount(p, "priceGrande", "preco_grande", "preco"),
		},
		Ingredients: stringList(p["ingredientes"]),
		Active:      active,
		Available:   available,
		ManualOut:   p["_manualOutOfStock"] == true,
		AutoPaused:  p["_autoPausedByStock"] == true,
	}
}

// firstAmount возвращает первую ненулевую цену по порядку ключей.
func firstAmount(p map[string]any, keys ...string) float64 {
	for _, k := range keys {
		if v := money.Normalize(p[k]); v != 0 {
			return v
		}
	}
	return 0
}
