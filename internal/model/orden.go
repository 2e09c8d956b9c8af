package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. Estado: "pendiente" | "completado" | "cancelado" | "entregado".
// "cancelado" and "entregado" are terminal; "entregado" additionally moves the
// order into the historical archive and credits the daily revenue ledger.
const (
	EstadoPendiente  = "pendiente"
	EstadoCompletado = "completado"
	EstadoCancelado  = "cancelado"
	EstadoEntregado  = "entregado"
)

// transiciones enumerates every allowed status transition.
var transiciones = map[string][]string{
	EstadoPendiente:  {EstadoCompletado, EstadoCancelado},
	EstadoCompletado: {EstadoCancelado, EstadoEntregado},
}

// TransicionValida reports whether desde → hacia is an allowed transition.
func TransicionValida(desde, hacia string) bool {
	for _, permitido := range transiciones[desde] {
		if permitido == hacia {
			return true
		}
	}
	return false
}

// Orden is an active study order: a patient, a selection of studies and/or
// packages, an optional convenio, and optional appointment scheduling.
// FechaCreacion is fixed at creation and never altered by edits.
type Orden struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PacienteID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ConvenioID    *uuid.UUID `gorm:"type:uuid"`
	FechaCreacion string     `gorm:"type:varchar(10);not null"` // YYYY-MM-DD
	// FechaCita / HoraCita schedule the sample-taking appointment;
	// independent of the order status.
	FechaCita *string `gorm:"type:varchar(10);index"`
	HoraCita  *string `gorm:"type:varchar(5)"`
	Estado    string  `gorm:"type:varchar(20);not null;default:'pendiente'"`
	// RecordatorioEnviado guards the appointment reminder email against
	// duplicate sends by the reminder cron.
	RecordatorioEnviado bool `gorm:"not null;default:false"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Items []OrdenItem `gorm:"foreignKey:OrdenID"`

	Paciente *Paciente `gorm:"foreignKey:PacienteID"`
	Convenio *Convenio `gorm:"foreignKey:ConvenioID"`
}

// Item types for OrdenItem.Tipo.
const (
	ItemEstudio = "estudio"
	ItemPaquete = "paquete"
)

// OrdenItem is one selected study or package on an order. Posicion keeps
// the operator's selection order; the same item may appear more than once.
type OrdenItem struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrdenID uuid.UUID `gorm:"type:uuid;index;not null"`
	Tipo    string    `gorm:"type:varchar(10);not null"`
	// ItemID references an Estudio or Paquete depending on Tipo. A dangling
	// reference (the catalog entry was deleted) is tolerated everywhere:
	// it prices at zero and renders as omitted.
	ItemID   uuid.UUID `gorm:"type:uuid;not null"`
	Posicion int       `gorm:"not null"`
}

// OrdenHistorica is a delivered order in the append-only archive. The
// totals are captured once, at delivery time; deleting a historical order
// never adjusts the revenue ledger.
type OrdenHistorica struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"` // same id the order had while active
	PacienteID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	ConvenioID   *uuid.UUID `gorm:"type:uuid"`
	FechaCreacion string    `gorm:"type:varchar(10);not null"`
	FechaCita    *string    `gorm:"type:varchar(10)"`
	HoraCita     *string    `gorm:"type:varchar(5)"`
	FechaEntrega string     `gorm:"type:varchar(10);index;not null"` // YYYY-MM-DD
	Estado       string     `gorm:"type:varchar(20);not null;default:'entregado'"`
	TotalBruto   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalFinal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time

	Items []OrdenHistoricaItem `gorm:"foreignKey:OrdenID"`

	Paciente *Paciente `gorm:"foreignKey:PacienteID"`
	Convenio *Convenio `gorm:"foreignKey:ConvenioID"`
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (OrdenHistorica) TableName() string { return "ordenes_historicas" }

// OrdenHistoricaItem mirrors OrdenItem for archived orders. Descripcion
// and Precio freeze the catalog entry at delivery time, so the receipt
// keeps rendering the amounts actually charged even after later price
// edits or deletions. A reference that was already dangling at delivery
// archives with an empty Descripcion and zero Precio.
type OrdenHistoricaItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrdenID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Tipo        string    `gorm:"type:varchar(10);not null"`
	ItemID      uuid.UUID `gorm:"type:uuid;not null"`
	Posicion    int       `gorm:"not null"`
	Descripcion string    `gorm:"type:varchar(150);not null;default:''"`
	Precio      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (OrdenHistoricaItem) TableName() string { return "ordenes_historicas_items" }
