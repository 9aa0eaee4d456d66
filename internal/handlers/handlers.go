package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agamariel/annetom/internal/services"
	"github.com/agamariel/annetom/internal/store"
)

// httpError сводит сигнальные ошибки сервисов к HTTP-статусам.
// Деградирующие чтения сюда не попадают: они отвечают 200 и пустым
// результатом.
func httpError(err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidPayload),
		errors.Is(err, services.ErrMissingOrderID),
		errors.Is(err, services.ErrMissingMotoboyID),
		errors.Is(err, services.ErrMissingProductID),
		errors.Is(err, services.ErrMissingCustomerID),
		errors.Is(err, services.ErrMissingPhone),
		errors.Is(err, services.ErrInvalidTipAmount):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid name or pin")
	case errors.Is(err, services.ErrMotoboyNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, store.ErrItemNotFound),
		errors.Is(err, store.ErrUnknownCollection):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrVersionConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

// bindJSONBody декодирует тело запроса в карту. Echo при Bind в карту
// подмешивает в неё и path-параметры (а на nil-карте паникует), поэтому
// свободные поля черновиков читаем только из тела.
func bindJSONBody(c echo.Context, dest *map[string]any) error {
	*dest = map[string]any{}
	return (&echo.DefaultBinder{}).BindBody(c, dest)
}

// Health обрабатывает GET /api/health.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
