package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agamariel/annetom/internal/services"
)

// AuthHandler обрабатывает вход операторов кассы.
type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// loginRequest — тело POST /api/auth/login.
type loginRequest struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

// Login обрабатывает POST /api/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, err := h.authService.Login(c.Request().Context(), req.Name, req.PIN)
	if err != nil {
		return httpError(err)
	}

	c.Response().Header().Set("Authorization", "Bearer "+token)
	return c.JSON(http.StatusOK, map[string]any{"token": token})
}
