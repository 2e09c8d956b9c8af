package dto

import "github.com/shopspring/decimal"

// ─── Estudios ────────────────────────────────────────────────────────────────

type CrearEstudioRequest struct {
	Codigo    string          `json:"codigo"    validate:"required,min=3"`
	Nombre    string          `json:"nombre"    validate:"required"`
	Categoria string          `json:"categoria" validate:"required"`
	Precio    decimal.Decimal `json:"precio"    validate:"min=0"`
}

type ActualizarEstudioRequest struct {
	Nombre    *string          `json:"nombre"    validate:"omitempty,min=1"`
	Categoria *string          `json:"categoria" validate:"omitempty,min=1"`
	Precio    *decimal.Decimal `json:"precio"    validate:"omitempty,min=0"`
}

type EstudioResponse struct {
	ID        string          `json:"id"`
	Codigo    string          `json:"codigo"`
	Nombre    string          `json:"nombre"`
	Categoria string          `json:"categoria"`
	Precio    decimal.Decimal `json:"precio"`
	Fijo      bool            `json:"fijo"`
	Activo    bool            `json:"activo"`
}

// ─── Paquetes ────────────────────────────────────────────────────────────────

type CrearPaqueteRequest struct {
	Codigo      string          `json:"codigo"      validate:"required,min=3"`
	Nombre      string          `json:"nombre"      validate:"required"`
	Descripcion *string         `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"      validate:"min=0"`
	// EstudioIDs is the informational "includes" list — it never affects
	// the package price.
	EstudioIDs []string `json:"estudio_ids" validate:"required,min=1,dive,uuid"`
}

type ActualizarPaqueteRequest struct {
	Nombre      *string          `json:"nombre"      validate:"omitempty,min=1"`
	Descripcion *string          `json:"descripcion"`
	Precio      *decimal.Decimal `json:"precio"      validate:"omitempty,min=0"`
	EstudioIDs  []string         `json:"estudio_ids" validate:"omitempty,min=1,dive,uuid"`
}

type PaqueteResponse struct {
	ID          string           `json:"id"`
	Codigo      string           `json:"codigo"`
	Nombre      string           `json:"nombre"`
	Descripcion *string          `json:"descripcion,omitempty"`
	Precio      decimal.Decimal  `json:"precio"`
	Fijo        bool             `json:"fijo"`
	Activo      bool             `json:"activo"`
	Incluye     []EstudioResumen `json:"incluye"`
}

// EstudioResumen is the compact study view used inside package and order
// responses.
type EstudioResumen struct {
	ID        string          `json:"id"`
	Codigo    string          `json:"codigo"`
	Nombre    string          `json:"nombre"`
	Categoria string          `json:"categoria"`
	Precio    decimal.Decimal `json:"precio"`
}

// ─── Categorías ──────────────────────────────────────────────────────────────

type CategoriaRequest struct {
	Nombre      string  `json:"nombre" validate:"required,min=2"`
	Descripcion *string `json:"descripcion"`
}

type CategoriaResponse struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion,omitempty"`
	Activo      bool    `json:"activo"`
}

// ─── Consulta de precios ─────────────────────────────────────────────────────

// ConsultaPreciosResponse is returned by the public price check endpoint.
type ConsultaPreciosResponse struct {
	Codigo    string          `json:"codigo"`
	Nombre    string          `json:"nombre"`
	Tipo      string          `json:"tipo"` // estudio | paquete
	Categoria string          `json:"categoria,omitempty"`
	Precio    decimal.Decimal `json:"precio"`
}

// ─── Historial de precios ────────────────────────────────────────────────────

type HistorialPrecioResponse struct {
	ID            string          `json:"id"`
	ItemTipo      string          `json:"item_tipo"`
	ItemID        string          `json:"item_id"`
	PrecioAntes   decimal.Decimal `json:"precio_antes"`
	PrecioDespues decimal.Decimal `json:"precio_despues"`
	CreatedAt     string          `json:"created_at"`
}
