package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item types for HistorialPrecio.ItemTipo.
const (
	PrecioItemEstudio = "estudio"
	PrecioItemPaquete = "paquete"
)

// HistorialPrecio registra cada cambio de precio de un estudio o paquete.
// Los registros son inmutables — nunca se eliminan ni modifican.
type HistorialPrecio struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemTipo      string          `gorm:"type:varchar(10);not null;index:idx_historial_item"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_historial_item"`
	PrecioAntes   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioDespues decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UsuarioID     *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt     time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (HistorialPrecio) TableName() string { return "historial_precios" }
