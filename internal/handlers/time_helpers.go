package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/middleware"
	"github.com/medplus/clinic-scheduler/internal/timezone"
	"github.com/medplus/clinic-scheduler/internal/validators"
)

// --------------------------------------------------
// Datas no fuso da clínica
// --------------------------------------------------

func parseDateTime(loc *time.Location, raw string) (time.Time, error) {
	t, err := timezone.ParseDateTime(strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, httperr.Validationf(
			"invalid_datetime",
			"Data e hora inválidas: %s (use %s)", raw, timezone.DateTimeLayout,
		)
	}
	return t, nil
}

func parseDate(loc *time.Location, raw string) (time.Time, error) {
	t, err := time.ParseInLocation(timezone.DateLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, httperr.Validationf(
			"invalid_date",
			"Data inválida: %s (use %s)", raw, timezone.DateLayout,
		)
	}
	return t, nil
}

// parseOptionalDate returns nil for an empty value.
func parseOptionalDate(loc *time.Location, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := parseDate(loc, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// --------------------------------------------------
// Request helpers
// --------------------------------------------------

// bindJSON writes the 400 itself and reports whether the handler may go on.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.InvalidRequest(c, validators.Details(err))
		return false
	}
	return true
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

func currentUserID(c *gin.Context) uint {
	id, _ := middleware.GetUserID(c)
	return id
}
