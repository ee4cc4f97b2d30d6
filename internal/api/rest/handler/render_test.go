package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newRenderContext(timezone string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/files/info", nil)
	if timezone != "" {
		req.Header.Set(timezoneHeader, timezone)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestCallerLocation(t *testing.T) {
	assert.Equal(t, time.UTC, callerLocation(newRenderContext("")))
	assert.Equal(t, time.UTC, callerLocation(newRenderContext("Atlantis/Nowhere")))

	loc := callerLocation(newRenderContext("Europe/Moscow"))
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestFormatTime(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 30, 45, 0, time.UTC)

	assert.Equal(t, "01.05.2024 10:30:45 UTC", formatTime(at, time.UTC))

	moscow, err := time.LoadLocation("Europe/Moscow")
	if err == nil {
		assert.Equal(t, "01.05.2024 13:30:45 MSK", formatTime(at, moscow))
	}

	assert.Nil(t, formatTimePtr(nil, time.UTC))
	got := formatTimePtr(&at, time.UTC)
	assert.Equal(t, "01.05.2024 10:30:45 UTC", *got)
}
