package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agamariel/annetom/internal/models"
	"github.com/agamariel/annetom/internal/services"
)

// OrdersHandler обрабатывает запросы, связанные с заказами.
type OrdersHandler struct {
	ordersService services.OrdersService
}

func NewOrdersHandler(ordersService services.OrdersService) *OrdersHandler {
	return &OrdersHandler{ordersService: ordersService}
}

// GetOrders обрабатывает GET /api/orders.
func (h *OrdersHandler) GetOrders(c echo.Context) error {
	orders := h.ordersService.FetchOrders(c.Request().Context())
	return c.JSON(http.StatusOK, orders)
}

// GetStatusPresets обрабатывает GET /api/orders/status-presets.
func (h *OrdersHandler) GetStatusPresets(c echo.Context) error {
	return c.JSON(http.StatusOK, models.StatusPresets)
}

// SaveOrder обрабатывает POST /api/orders.
func (h *OrdersHandler) SaveOrder(c echo.Context) error {
	var draft map[string]any
	if err := bindJSONBody(c, &draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.ordersService.SaveOrder(c.Request().Context(), draft)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, order)
}

// UpdateOrder обрабатывает PUT /api/orders/:id.
func (h *OrdersHandler) UpdateOrder(c echo.Context) error {
	var changes map[string]any
	if err := bindJSONBody(c, &changes); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.ordersService.UpdateOrderRecord(c.Request().Context(), c.Param("id"), changes); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteOrder обрабатывает DELETE /api/orders/:id.
func (h *OrdersHandler) DeleteOrder(c echo.Context) error {
	if err := h.ordersService.DeleteOrderRecord(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// statusRequest — тело PATCH /api/orders/:id/status.
type statusRequest struct {
	Status  string                `json:"status"`
	History []models.HistoryEntry `json:"history"`
}

// UpdateOrderStatus обрабатывает PATCH /api/orders/:id/status.
func (h *OrdersHandler) UpdateOrderStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}

	if err := h.ordersService.UpdateOrderStatus(c.Request().Context(), c.Param("id"), req.Status, req.History); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
