package model

import (
	"time"

	"github.com/google/uuid"
)

// Paciente holds contact details for a patient. Orders reference patients
// by id; deleting a patient leaves existing orders untouched (the reference
// simply misses and renders as "unknown").
type Paciente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	Apellido  string    `gorm:"not null"`
	Telefono  string    `gorm:"not null"`
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
