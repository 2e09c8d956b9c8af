package dto

import "github.com/shopspring/decimal"

// CrearConvenioRequest validates the discount into [0,100] here, at
// creation time — the pricing engine trusts stored values afterwards.
type CrearConvenioRequest struct {
	Nombre    string          `json:"nombre"    validate:"required,min=2"`
	Descuento decimal.Decimal `json:"descuento" validate:"min=0,max=100"`
}

type ActualizarConvenioRequest struct {
	Nombre    *string          `json:"nombre"    validate:"omitempty,min=2"`
	Descuento *decimal.Decimal `json:"descuento" validate:"omitempty,min=0,max=100"`
}

type ConvenioResponse struct {
	ID        string          `json:"id"`
	Nombre    string          `json:"nombre"`
	Descuento decimal.Decimal `json:"descuento"`
	Activo    bool            `json:"activo"`
}
