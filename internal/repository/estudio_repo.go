package repository

import (
	"context"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EstudioRepository defines the data access contract for individual studies.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type EstudioRepository interface {
	Create(ctx context.Context, e *model.Estudio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Estudio, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Estudio, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Estudio, error)
	Update(ctx context.Context, e *model.Estudio) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	FindAllByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Estudio, error)
}

type estudioRepo struct{ db *gorm.DB }

func NewEstudioRepository(db *gorm.DB) EstudioRepository { return &estudioRepo{db: db} }

func (r *estudioRepo) Create(ctx context.Context, e *model.Estudio) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *estudioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Estudio, error) {
	var e model.Estudio
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *estudioRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Estudio, error) {
	var e model.Estudio
	err := r.db.WithContext(ctx).Where("codigo = ? AND activo = true", codigo).First(&e).Error
	return &e, err
}

func (r *estudioRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Estudio, error) {
	var estudios []model.Estudio
	q := r.db.WithContext(ctx)
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Order("codigo ASC").Find(&estudios).Error
	return estudios, err
}

func (r *estudioRepo) Update(ctx context.Context, e *model.Estudio) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *estudioRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Estudio{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *estudioRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Estudio{}).Count(&n).Error
	return n, err
}

func (r *estudioRepo) FindAllByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Estudio, error) {
	var estudios []model.Estudio
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&estudios).Error
	return estudios, err
}
