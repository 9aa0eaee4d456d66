package models

// ProductType — группа товара в каталоге.
type ProductType string

const (
	ProductTypePizza ProductType = "pizza"
	ProductTypeDrink ProductType = "drink"
	ProductTypeExtra ProductType = "extra"
)

// Prices — цены по размерам. Ноль означает "размер недоступен".
type Prices struct {
	Broto  float64 `json:"broto"`
	Grande float64 `json:"grande"`
}

// Product — каноническая форма товара каталога.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Categoria   string      `json:"categoria"`
	Type        ProductType `json:"type"`
	Prices      Prices      `json:"prices"`
	Ingredients []string    `json:"ingredientes,omitempty"`
	Active      bool        `json:"active"`
	Available   bool        `json:"isAvailable"`
	ManualOut   bool        `json:"_manualOutOfStock,omitempty"`
	AutoPaused  bool        `json:"_autoPausedByStock,omitempty"`
}

// ProductGroups — три непересекающиеся группы каталога.
// Товар попадает ровно в одну группу по разрешённому типу.
type ProductGroups struct {
	Pizzas []Product `json:"pizzas"`
	Drinks []Product `json:"drinks"`
	Extras []Product `json:"extras"`
}

// All возвращает все товары в порядке pizzas, drinks, extras.
func (g ProductGroups) All() []Product {
	out := make([]Product, 0, len(g.Pizzas)+len(g.Drinks)+len(g.Extras))
	out = append(out, g.Pizzas...)
	out = append(out, g.Drinks...)
	out = append(out, g.Extras...)
	return out
}

// StockItem — позиция склада ингредиентов.
type StockItem struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	MinQuantity float64 `json:"minQuantity"`
	Unavailable bool    `json:"unavailable"`
}

// MenuProduct — товар в выгрузке меню с готовой ценовой подписью.
type MenuProduct struct {
	Product
	PriceLabel string `json:"priceLabel"`
}

// MenuPayload — формат выдачи каталога для сайта и интеграций.
type MenuPayload struct {
	Version    int           `json:"version"`
	ExportedAt string        `json:"exportedAt"`
	Products   []MenuProduct `json:"products"`
}
