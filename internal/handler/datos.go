package handler

import (
	"net/http"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/apierror"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/service"

	"github.com/gin-gonic/gin"
)

// DatosHandler serves full-state export / import and remote backup.
type DatosHandler struct{ svc service.DatosService }

func NewDatosHandler(svc service.DatosService) *DatosHandler {
	return &DatosHandler{svc: svc}
}

// Exportar godoc
// @Summary Exportar todos los datos como snapshot JSON
// @Tags datos
// @Produce json
// @Success 200 {object} dto.Snapshot
// @Router /v1/datos/exportar [get]
func (h *DatosHandler) Exportar(c *gin.Context) {
	snap, err := h.svc.Exportar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al exportar datos"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="jovalabs_respaldo.json"`)
	c.JSON(http.StatusOK, snap)
}

// Importar replaces ALL current data with the uploaded snapshot.
func (h *DatosHandler) Importar(c *gin.Context) {
	var snap dto.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Snapshot inválido: "+err.Error()))
		return
	}
	if err := h.svc.Importar(c.Request.Context(), &snap); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al importar datos"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Respaldar queues an async push of the current state to the remote
// backup server.
func (h *DatosHandler) Respaldar(c *gin.Context) {
	if err := h.svc.ProgramarRespaldo(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al programar el respaldo"))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"ok": true})
}
