package handler

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/apierror"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HistorialHandler serves the delivered-order archive.
type HistorialHandler struct{ svc service.HistorialService }

func NewHistorialHandler(svc service.HistorialService) *HistorialHandler {
	return &HistorialHandler{svc: svc}
}

func (h *HistorialHandler) Listar(c *gin.Context) {
	var filter dto.OrdenFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar historial"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HistorialHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Orden histórica no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recibo godoc
// @Summary Descargar el comprobante de pago de una orden entregada
// @Description Genera el PDF a partir del snapshot tomado al entregar; los precios no cambian aunque el catálogo cambie.
// @Tags historial
// @Produce application/pdf
// @Param id path string true "ID de la orden"
// @Success 200 {file} file
// @Failure 404 {object} apierror.APIError
// @Router /v1/historial/{id}/recibo [get]
func (h *HistorialHandler) Recibo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	path, err := h.svc.Recibo(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrHistorialNoEncontrado) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el recibo"))
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

// Eliminar godoc
// @Summary Eliminar una orden del historial
// @Description Borra solo el registro archivado; la ganancia ya acreditada no se revierte.
// @Tags historial
// @Param id path string true "ID de la orden"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/historial/{id} [delete]
func (h *HistorialHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
