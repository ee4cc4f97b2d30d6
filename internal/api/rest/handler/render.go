package handler

import (
	"time"

	"github.com/labstack/echo/v4"
)

// timeLayout renders dates as dd.mm.YYYY HH:MM:SS plus the zone name.
const timeLayout = "02.01.2006 15:04:05 MST"

// timezoneHeader carries an optional IANA zone name that rewrites rendered
// dates into the caller's zone. Unknown names fall back to UTC.
const timezoneHeader = "X-Timezone"

func callerLocation(c echo.Context) *time.Location {
	name := c.Request().Header.Get(timezoneHeader)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func formatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(timeLayout)
}

func formatTimePtr(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t, loc)
	return &s
}
