package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GananciaDiaria is one bucket of the revenue ledger: the accumulated total
// of orders delivered on Fecha. Buckets only grow — a delivery adds to the
// bucket of the delivery date, and deleting a historical order does NOT
// subtract its contribution.
type GananciaDiaria struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha     string          `gorm:"type:varchar(10);uniqueIndex;not null"` // YYYY-MM-DD
	Monto     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (GananciaDiaria) TableName() string { return "ganancias_diarias" }
