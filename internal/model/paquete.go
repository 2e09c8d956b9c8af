package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Paquete is a bundle of studies sold at one fixed bundle price.
// Precio is the amount charged — never the sum of the included studies'
// individual prices. The composition rows are informational (receipts,
// dashboard expansion) and do not participate in pricing.
type Paquete struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string    `gorm:"uniqueIndex;not null"` // e.g. "PKG-001"
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Fijo        bool            `gorm:"not null;default:false"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Estudios []PaqueteEstudio `gorm:"foreignKey:PaqueteID"`
}

// PaqueteEstudio links a package to one of its included studies.
type PaqueteEstudio struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PaqueteID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_paquete_estudio;not null"`
	EstudioID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_paquete_estudio;not null"`

	Estudio *Estudio `gorm:"foreignKey:EstudioID"`
}
