package repository

import (
	"context"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PacienteRepository interface {
	Create(ctx context.Context, p *model.Paciente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Paciente, error)
	List(ctx context.Context, busqueda string) ([]model.Paciente, error)
	Update(ctx context.Context, p *model.Paciente) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pacienteRepo struct{ db *gorm.DB }

func NewPacienteRepository(db *gorm.DB) PacienteRepository { return &pacienteRepo{db: db} }

func (r *pacienteRepo) Create(ctx context.Context, p *model.Paciente) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pacienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Paciente, error) {
	var p model.Paciente
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *pacienteRepo) List(ctx context.Context, busqueda string) ([]model.Paciente, error) {
	var pacientes []model.Paciente
	q := r.db.WithContext(ctx)
	if busqueda != "" {
		like := "%" + busqueda + "%"
		q = q.Where("nombre ILIKE ? OR apellido ILIKE ?", like, like)
	}
	err := q.Order("apellido ASC, nombre ASC").Find(&pacientes).Error
	return pacientes, err
}

func (r *pacienteRepo) Update(ctx context.Context, p *model.Paciente) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete removes the patient row. Orders referencing the patient are left
// untouched — the dangling reference renders as "Desconocido".
func (r *pacienteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Paciente{}, id).Error
}
