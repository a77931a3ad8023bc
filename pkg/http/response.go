package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// JSONResponse writes data as a bare JSON document.
func JSONResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// RawJSONResponse writes an already-encoded JSON document.
func RawJSONResponse(c echo.Context, body []byte) error {
	return c.JSONBlob(http.StatusOK, body)
}

// ErrorResponse writes an error message with the given status.
func ErrorResponse(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, map[string]string{"erro": message})
}

// UnavailableResponse signals that no feed data exists yet.
func UnavailableResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusServiceUnavailable, message)
}
