package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agamariel/annetom/internal/services"
)

// ProductsHandler обрабатывает запросы каталога товаров.
type ProductsHandler struct {
	productsService services.ProductsService
}

func NewProductsHandler(productsService services.ProductsService) *ProductsHandler {
	return &ProductsHandler{productsService: productsService}
}

// GetProducts обрабатывает GET /api/products.
func (h *ProductsHandler) GetProducts(c echo.Context) error {
	groups := h.productsService.FetchGroupedWithStock(c.Request().Context())
	return c.JSON(http.StatusOK, groups)
}

// GetMenu обрабатывает GET /api/menu — выгрузка каталога для сайта.
func (h *ProductsHandler) GetMenu(c echo.Context) error {
	payload := h.productsService.MenuPayload(c.Request().Context())
	return c.JSON(http.StatusOK, payload)
}

// SaveProduct обрабатывает POST /api/products.
func (h *ProductsHandler) SaveProduct(c echo.Context) error {
	var record map[string]any
	if err := bindJSONBody(c, &record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	created, err := h.productsService.SaveProduct(c.Request().Context(), record)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateProduct обрабатывает PUT /api/products/:id.
func (h *ProductsHandler) UpdateProduct(c echo.Context) error {
	var changes map[string]any
	if err := bindJSONBody(c, &changes); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	updated, err := h.productsService.UpdateProduct(c.Request().Context(), c.Param("id"), changes)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteProduct обрабатывает DELETE /api/products/:id.
func (h *ProductsHandler) DeleteProduct(c echo.Context) error {
	if err := h.productsService.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
