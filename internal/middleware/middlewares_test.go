package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amankumarsingh77/cloud-video-orchestrator/internal/config"
	"github.com/amankumarsingh77/cloud-video-orchestrator/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestRequestLoggerPassesThrough(t *testing.T) {
	mw := NewMiddlewareManager(&config.Config{}, nil, logger.NewNopLogger())
	e := echo.New()
	e.Use(mw.RequestLoggerMiddleware)
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusTeapot, "pong")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "pong", rec.Body.String())
	require.Equal(t, []string{"*"}, mw.Origins())
}
