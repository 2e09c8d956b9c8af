package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Convenio is a discount contract with a payer (insurer, company) that
// applies a flat percentage reduction to an order's total at billing time.
// Descuento is validated into [0,100] on creation and trusted afterwards.
type Convenio struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string          `gorm:"uniqueIndex;not null"`
	Descuento decimal.Decimal `gorm:"type:decimal(5,2);not null"` // percent, 0-100
	Activo    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
