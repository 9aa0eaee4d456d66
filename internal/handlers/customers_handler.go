package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agamariel/annetom/internal/services"
)

// CustomersHandler обрабатывает запросы, связанные с клиентами.
type CustomersHandler struct {
	customersService services.CustomersService
}

func NewCustomersHandler(customersService services.CustomersService) *CustomersHandler {
	return &CustomersHandler{customersService: customersService}
}

// GetCustomers обрабатывает GET /api/customers.
func (h *CustomersHandler) GetCustomers(c echo.Context) error {
	customers := h.customersService.FetchCustomers(c.Request().Context())
	return c.JSON(http.StatusOK, customers)
}

// SaveCustomer обрабатывает POST /api/customers.
func (h *CustomersHandler) SaveCustomer(c echo.Context) error {
	var record map[string]any
	if err := bindJSONBody(c, &record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	customer, err := h.customersService.SaveCustomer(c.Request().Context(), record)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, customer)
}

// FindByPhone обрабатывает GET /api/customers/by-phone?phone=...
func (h *CustomersHandler) FindByPhone(c echo.Context) error {
	customer, err := h.customersService.FindByPhone(c.Request().Context(), c.QueryParam("phone"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer обрабатывает DELETE /api/customers/:id.
func (h *CustomersHandler) DeleteCustomer(c echo.Context) error {
	if err := h.customersService.DeleteCustomer(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
