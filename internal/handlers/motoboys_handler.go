package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agamariel/annetom/internal/services"
)

// MotoboysHandler обрабатывает запросы, связанные с курьерами.
type MotoboysHandler struct {
	motoboysService services.MotoboysService
}

func NewMotoboysHandler(motoboysService services.MotoboysService) *MotoboysHandler {
	return &MotoboysHandler{motoboysService: motoboysService}
}

// GetMotoboys обрабатывает GET /api/motoboys.
func (h *MotoboysHandler) GetMotoboys(c echo.Context) error {
	motoboys := h.motoboysService.GetMotoboys(c.Request().Context())
	return c.JSON(http.StatusOK, motoboys)
}

// SaveMotoboy обрабатывает POST /api/motoboys.
func (h *MotoboysHandler) SaveMotoboy(c echo.Context) error {
	var record map[string]any
	if err := bindJSONBody(c, &record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	motoboy, err := h.motoboysService.SaveMotoboy(c.Request().Context(), record)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, motoboy)
}

// toggleRequest — тело PATCH /api/motoboys/:id/active.
type toggleRequest struct {
	Active any `json:"active"`
}

// ToggleActive обрабатывает PATCH /api/motoboys/:id/active.
func (h *MotoboysHandler) ToggleActive(c echo.Context) error {
	var req toggleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	motoboy, err := h.motoboysService.ToggleMotoboyActive(c.Request().Context(), c.Param("id"), req.Active)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, motoboy)
}

// GenerateQr обрабатывает POST /api/motoboys/:id/qr.
func (h *MotoboysHandler) GenerateQr(c echo.Context) error {
	token, err := h.motoboysService.GenerateMotoboyQr(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"qrToken": token})
}

// AddTip обрабатывает POST /api/motoboys/:id/tips.
func (h *MotoboysHandler) AddTip(c echo.Context) error {
	var draft map[string]any
	if err := bindJSONBody(c, &draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	tip, err := h.motoboysService.AddMotoboyTip(c.Request().Context(), c.Param("id"), draft)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, tip)
}
