package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medplus/clinic-scheduler/internal/audit"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/httpresp"
	"github.com/medplus/clinic-scheduler/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogReader interface {
	List(ctx context.Context, q audit.Query) ([]models.AuditLog, int64, error)
}

type AuditLogsHandler struct {
	reader AuditLogReader
	loc    *time.Location
}

func NewAuditLogsHandler(reader AuditLogReader, loc *time.Location) *AuditLogsHandler {
	return &AuditLogsHandler{reader: reader, loc: loc}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	q := audit.Query{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q.Page = page
	q.Limit = limit

	// --------------------------------------------------
	// Filtros opcionais de data
	// --------------------------------------------------

	from, err := parseOptionalDate(h.loc, c.Query("from"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	to, err := parseOptionalDate(h.loc, c.Query("to"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	q.From, q.To = from, to

	logs, total, err := h.reader.List(c.Request.Context(), q)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
