package repository

import (
	"context"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConvenioRepository interface {
	Create(ctx context.Context, c *model.Convenio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Convenio, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Convenio, error)
	Update(ctx context.Context, c *model.Convenio) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type convenioRepo struct{ db *gorm.DB }

func NewConvenioRepository(db *gorm.DB) ConvenioRepository { return &convenioRepo{db: db} }

func (r *convenioRepo) Create(ctx context.Context, c *model.Convenio) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *convenioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Convenio, error) {
	var c model.Convenio
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *convenioRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Convenio, error) {
	var convenios []model.Convenio
	q := r.db.WithContext(ctx)
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Order("nombre ASC").Find(&convenios).Error
	return convenios, err
}

func (r *convenioRepo) Update(ctx context.Context, c *model.Convenio) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *convenioRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Convenio{}).Where("id = ?", id).Update("activo", false).Error
}
