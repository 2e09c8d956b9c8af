package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/apierror"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const precioCacheTTL = 4 * time.Hour

// ConsultaPreciosHandler serves the public price check endpoint.
// No authentication required — no side effects whatsoever.
type ConsultaPreciosHandler struct {
	svc service.CatalogoService
	rdb *redis.Client
}

func NewConsultaPreciosHandler(svc service.CatalogoService, rdb *redis.Client) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{svc: svc, rdb: rdb}
}

// GetPrecioPorCodigo godoc
// @Summary Consulta de precio por código de estudio o paquete (sin autenticación)
// @Tags precios
// @Produce json
// @Param codigo path string true "Código (p.ej. HEM-001, PKG-002)"
// @Success 200 {object} dto.ConsultaPreciosResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precios/{codigo} [get]
func (h *ConsultaPreciosHandler) GetPrecioPorCodigo(c *gin.Context) {
	codigo := c.Param("codigo")
	ctx := c.Request.Context()
	cacheKey := "precio:" + codigo

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.ConsultaPreciosResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query DB
	resp, err := h.svc.ConsultarPrecio(ctx, codigo)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Código no encontrado"))
		return
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, precioCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
