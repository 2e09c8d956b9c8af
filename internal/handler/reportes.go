package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/apierror"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	dashboardCacheKey = "reportes:dashboard"
	dashboardCacheTTL = 60 * time.Second
)

var mesRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

type ReportesHandler struct {
	svc service.ReporteService
	rdb *redis.Client
}

func NewReportesHandler(svc service.ReporteService, rdb *redis.Client) *ReportesHandler {
	return &ReportesHandler{svc: svc, rdb: rdb}
}

// Dashboard godoc
// @Summary Tablero de ganancias y órdenes
// @Tags reportes
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Router /v1/reportes/dashboard [get]
func (h *ReportesHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	// Short-lived cache: deliveries invalidate naturally within the TTL.
	if cached, err := h.rdb.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
		var resp dto.DashboardResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	resp, err := h.svc.Dashboard(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el tablero"))
		return
	}

	// Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), dashboardCacheKey, b, dashboardCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Agenda(c *gin.Context) {
	mes := c.Query("mes")
	if mes == "" {
		mes = time.Now().Format("2006-01")
	}
	if !mesRe.MatchString(mes) {
		c.JSON(http.StatusBadRequest, apierror.New("mes inválido, use YYYY-MM"))
		return
	}
	resp, err := h.svc.Agenda(c.Request.Context(), mes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar la agenda"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
