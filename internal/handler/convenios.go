package handler

import (
	"net/http"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/apierror"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConveniosHandler struct{ svc service.ConvenioService }

func NewConveniosHandler(svc service.ConvenioService) *ConveniosHandler {
	return &ConveniosHandler{svc: svc}
}

func (h *ConveniosHandler) Crear(c *gin.Context) {
	var req dto.CrearConvenioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ConveniosHandler) Listar(c *gin.Context) {
	incluirInactivos := c.Query("incluir_inactivos") == "true"
	resp, err := h.svc.Listar(c.Request.Context(), incluirInactivos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar convenios"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ConveniosHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Convenio no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ConveniosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ActualizarConvenioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ConveniosHandler) Eliminar(c *gin.Context) {
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
