package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// OrdenFilter is bound from the query string of GET /v1/ordenes and
// GET /v1/historial. Busqueda matches patient name or order id.
type OrdenFilter struct {
	Busqueda string `form:"busqueda"`
	Estado   string `form:"estado,default=all"` // pendiente | completado | cancelado | entregado | all
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type OrdenListResponse struct {
	Data  []OrdenResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearOrdenRequest requires a patient and at least one study or package
// (the service enforces the latter — either list may be empty, not both).
// Duplicated ids are allowed and each occurrence is charged.
type CrearOrdenRequest struct {
	PacienteID string   `json:"paciente_id" validate:"required,uuid"`
	EstudioIDs []string `json:"estudio_ids" validate:"omitempty,dive,uuid"`
	PaqueteIDs []string `json:"paquete_ids" validate:"omitempty,dive,uuid"`
	ConvenioID *string  `json:"convenio_id" validate:"omitempty,uuid"`
	FechaCita  *string  `json:"fecha_cita"  validate:"omitempty,datetime=2006-01-02"`
	HoraCita   *string  `json:"hora_cita"   validate:"omitempty,datetime=15:04"`
}

// ActualizarOrdenRequest edits a pending order. The patient, creation date
// and status are never touched by an update.
type ActualizarOrdenRequest struct {
	EstudioIDs []string `json:"estudio_ids" validate:"omitempty,dive,uuid"`
	PaqueteIDs []string `json:"paquete_ids" validate:"omitempty,dive,uuid"`
	ConvenioID *string  `json:"convenio_id" validate:"omitempty,uuid"`
	FechaCita  *string  `json:"fecha_cita"  validate:"omitempty,datetime=2006-01-02"`
	HoraCita   *string  `json:"hora_cita"   validate:"omitempty,datetime=15:04"`
}

type CambiarEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=completado cancelado entregado"`
}

// PrecioPreviewRequest computes a live total before the order exists.
type PrecioPreviewRequest struct {
	EstudioIDs []string `json:"estudio_ids" validate:"omitempty,dive,uuid"`
	PaqueteIDs []string `json:"paquete_ids" validate:"omitempty,dive,uuid"`
	ConvenioID *string  `json:"convenio_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ItemOrdenResponse is one priced line of an order. Items whose catalog
// entry no longer exists are omitted from responses entirely.
type ItemOrdenResponse struct {
	ID     string          `json:"id"`
	Tipo   string          `json:"tipo"` // estudio | paquete
	Codigo string          `json:"codigo"`
	Nombre string          `json:"nombre"`
	Precio decimal.Decimal `json:"precio"`
}

type OrdenResponse struct {
	ID            string              `json:"id"`
	PacienteID    string              `json:"paciente_id"`
	Paciente      string              `json:"paciente"` // "Desconocido" when the reference misses
	ConvenioID    *string             `json:"convenio_id,omitempty"`
	Convenio      *string             `json:"convenio,omitempty"`
	Items         []ItemOrdenResponse `json:"items"`
	FechaCreacion string              `json:"fecha_creacion"`
	FechaCita     *string             `json:"fecha_cita,omitempty"`
	HoraCita      *string             `json:"hora_cita,omitempty"`
	Estado        string              `json:"estado"`
	TotalBruto    decimal.Decimal     `json:"total_bruto"`
	TotalFinal    decimal.Decimal     `json:"total_final"`
}

type PrecioPreviewResponse struct {
	TotalBruto decimal.Decimal `json:"total_bruto"`
	Descuento  decimal.Decimal `json:"descuento"`
	TotalFinal decimal.Decimal `json:"total_final"`
}

// OrdenHistoricaResponse is a delivered order from the archive. Totals are
// the ones captured at delivery time.
type OrdenHistoricaResponse struct {
	ID            string              `json:"id"`
	PacienteID    string              `json:"paciente_id"`
	Paciente      string              `json:"paciente"`
	ConvenioID    *string             `json:"convenio_id,omitempty"`
	Convenio      *string             `json:"convenio,omitempty"`
	Items         []ItemOrdenResponse `json:"items"`
	FechaCreacion string              `json:"fecha_creacion"`
	FechaEntrega  string              `json:"fecha_entrega"`
	Estado        string              `json:"estado"`
	TotalBruto    decimal.Decimal     `json:"total_bruto"`
	TotalFinal    decimal.Decimal     `json:"total_final"`
}

type HistorialListResponse struct {
	Data  []OrdenHistoricaResponse `json:"data"`
	Total int64                    `json:"total"`
	Page  int                      `json:"page"`
	Limit int                      `json:"limit"`
}
