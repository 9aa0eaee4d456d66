package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/agamariel/annetom/internal/models"
	"github.com/agamariel/annetom/internal/money"
	"github.com/agamariel/annetom/internal/normalize"
	"github.com/agamariel/annetom/internal/store"
)

var (
	ErrMissingProductID = errors.New("product id is required")
	ErrProductNotFound  = errors.New("product not found")
)

// menuVersion — версия формата выдачи каталога.
const menuVersion = 1

// ProductsService определяет фасад каталога товаров.
type ProductsService interface {
	FetchGrouped(ctx context.Context) models.ProductGroups
	FetchGroupedWithStock(ctx context.Context) models.ProductGroups
	MenuPayload(ctx context.Context) models.MenuPayload
	SaveProduct(ctx context.Context, record map[string]any) (map[string]any, error)
	UpdateProduct(ctx context.Context, id string, changes map[string]any) (map[string]any, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ProductsServiceImpl реализует ProductsService.
type ProductsServiceImpl struct {
	store    store.Store
	settings SettingsService
	logger   *log.Logger
}

// NewProductsService создаёт новый фасад каталога.
func NewProductsService(st store.Store, settings SettingsService, logger *log.Logger) *ProductsServiceImpl {
	if logger == nil {
		logger = log.Default()
	}
	return &ProductsServiceImpl{store: st, settings: settings, logger: logger}
}

// FetchGrouped возвращает каталог, разложенный на пиццы, напитки и
// дополнения. Сбой чтения логируется и даёт пустые группы.
func (s *ProductsServiceImpl) FetchGrouped(ctx context.Context) models.ProductGroups {
	if s.store == nil {
		s.logger.Printf("fetch products: store is not available")
		return normalize.ProductGroups(nil)
	}

	data, err := s.store.Get(ctx, store.CollectionProducts)
	if err != nil {
		s.logger.Printf("fetch products: %v", err)
		return normalize.ProductGroups(nil)
	}
	return normalize.ProductGroups(data)
}

// FetchGroupedWithStock возвращает каталог с учётом склада: пиццы с
// закончившимся отслеживаемым ингредиентом теряют доступность.
func (s *ProductsServiceImpl) FetchGroupedWithStock(ctx context.Context) models.ProductGroups {
	groups := s.FetchGrouped(ctx)

	stockItems := s.stockItems(ctx)
	stock := normalize.BuildIngredientStock(groups.All(), stockItems)
	groups.Pizzas = normalize.ApplyStockToProducts(groups.Pizzas, stock)
	return groups
}

// MenuPayload собирает выгрузку каталога для сайта и интеграций.
func (s *ProductsServiceImpl) MenuPayload(ctx context.Context) models.MenuPayload {
	groups := s.FetchGroupedWithStock(ctx)
	all := groups.All()

	products := make([]models.MenuProduct, len(all))
	for i, p := range all {
		products[i] = models.MenuProduct{Product: p, PriceLabel: menuPriceLabel(p)}
	}
	return models.MenuPayload{
		Version:    menuVersion,
		ExportedAt: nowISO(),
		Products:   products,
	}
}

// menuPriceLabel строит ценовую подпись товара в бразильском формате.
func menuPriceLabel(p models.Product) string {
	if p.Prices.Broto > 0 && p.Prices.Grande > 0 {
		return fmt.Sprintf("%s / %s", money.FormatBRL(p.Prices.Broto), money.FormatBRL(p.Prices.Grande))
	}
	if p.Prices.Grande > 0 {
		return money.FormatBRL(p.Prices.Grande)
	}
	return money.FormatBRL(p.Prices.Broto)
}

// SaveProduct добавляет товар в каталог.
func (s *ProductsServiceImpl) SaveProduct(ctx context.Context, record map[string]any) (map[string]any, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	if record == nil {
		return nil, fmt.Errorf("%w: product record is required", ErrInvalidPayload)
	}

	created, err := s.store.AddItem(ctx, store.CollectionProducts, record)
	if err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return created, nil
}

// UpdateProduct сливает изменения в товар по id.
func (s *ProductsServiceImpl) UpdateProduct(ctx context.Context, id string, changes map[string]any) (map[string]any, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	if id == "" {
		return nil, ErrMissingProductID
	}

	updated, err := updateCollectionItem(ctx, s.store, store.CollectionProducts, id, changes)
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return updated, nil
}

// DeleteProduct удаляет товар из каталога.
func (s *ProductsServiceImpl) DeleteProduct(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}
	if id == "" {
		return ErrMissingProductID
	}

	if err := removeCollectionItem(ctx, s.store, store.CollectionProducts, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}

// stockItems достаёт позиции склада из документа настроек.
func (s *ProductsServiceImpl) stockItems(ctx context.Context) []models.StockItem {
	if s.settings == nil {
		return nil
	}

	settings := s.settings.GetSettings(ctx)
	raw, ok := settings["stockItems"]
	if !ok {
		return nil
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		s.logger.Printf("stock items: %v", err)
		return nil
	}
	var items []models.StockItem
	if err := json.Unmarshal(encoded, &items); err != nil {
		s.logger.Printf("stock items: %v", err)
		return nil
	}
	return items
}
