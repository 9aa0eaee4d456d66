package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agamariel/annetom/internal/models"
	"github.com/agamariel/annetom/internal/services"
)

// SettingsHandler обрабатывает запросы документа настроек.
type SettingsHandler struct {
	settingsService services.SettingsService
}

func NewSettingsHandler(settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings обрабатывает GET /api/settings.
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	settings := h.settingsService.GetSettings(c.Request().Context())
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings обрабатывает PUT /api/settings.
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	var values map[string]any
	if err := bindJSONBody(c, &values); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if !h.settingsService.UpdateSettings(c.Request().Context(), models.Settings(values)) {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save settings")
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
