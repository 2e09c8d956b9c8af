package repository

import (
	"context"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaqueteRepository interface {
	Create(ctx context.Context, p *model.Paquete) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Paquete, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Paquete, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Paquete, error)
	Update(ctx context.Context, p *model.Paquete) error
	// ReplaceEstudios swaps the informational includes list of a package.
	ReplaceEstudios(ctx context.Context, paqueteID uuid.UUID, estudioIDs []uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type paqueteRepo struct{ db *gorm.DB }

func NewPaqueteRepository(db *gorm.DB) PaqueteRepository { return &paqueteRepo{db: db} }

func (r *paqueteRepo) Create(ctx context.Context, p *model.Paquete) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paqueteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Paquete, error) {
	var p model.Paquete
	err := r.db.WithContext(ctx).Preload("Estudios.Estudio").First(&p, id).Error
	return &p, err
}

func (r *paqueteRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Paquete, error) {
	var p model.Paquete
	err := r.db.WithContext(ctx).Preload("Estudios.Estudio").
		Where("codigo = ? AND activo = true", codigo).First(&p).Error
	return &p, err
}

func (r *paqueteRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Paquete, error) {
	var paquetes []model.Paquete
	q := r.db.WithContext(ctx).Preload("Estudios.Estudio")
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Order("codigo ASC").Find(&paquetes).Error
	return paquetes, err
}

func (r *paqueteRepo) Update(ctx context.Context, p *model.Paquete) error {
	return r.db.WithContext(ctx).Omit("Estudios").Save(p).Error
}

func (r *paqueteRepo) ReplaceEstudios(ctx context.Context, paqueteID uuid.UUID, estudioIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("paquete_id = ?", paqueteID).Delete(&model.PaqueteEstudio{}).Error; err != nil {
			return err
		}
		for _, eid := range estudioIDs {
			link := model.PaqueteEstudio{PaqueteID: paqueteID, EstudioID: eid}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *paqueteRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Paquete{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *paqueteRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Paquete{}).Count(&n).Error
	return n, err
}
