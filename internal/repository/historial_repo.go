package repository

import (
	"context"
	"errors"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistorialRepository manages the append-only archive of delivered orders.
// Rows are inserted exactly once by the delivery transaction; the only
// mutation allowed afterwards is explicit deletion, which never touches the
// revenue ledger.
type HistorialRepository interface {
	// Used inside transactions — callers must pass the tx instance
	ExistsTx(tx *gorm.DB, id uuid.UUID) (bool, error)
	CreateTx(tx *gorm.DB, o *model.OrdenHistorica) error

	FindByID(ctx context.Context, id uuid.UUID) (*model.OrdenHistorica, error)
	List(ctx context.Context, filter dto.OrdenFilter) ([]model.OrdenHistorica, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	ListAll(ctx context.Context) ([]model.OrdenHistorica, error)
}

type historialRepo struct{ db *gorm.DB }

func NewHistorialRepository(db *gorm.DB) HistorialRepository { return &historialRepo{db: db} }

func (r *historialRepo) ExistsTx(tx *gorm.DB, id uuid.UUID) (bool, error) {
	var o model.OrdenHistorica
	err := tx.Select("id").First(&o, id).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (r *historialRepo) CreateTx(tx *gorm.DB, o *model.OrdenHistorica) error {
	return tx.Create(o).Error
}

func (r *historialRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.OrdenHistorica, error) {
	var o model.OrdenHistorica
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }).
		Preload("Paciente").Preload("Convenio").
		First(&o, id).Error
	return &o, err
}

func (r *historialRepo) List(ctx context.Context, filter dto.OrdenFilter) ([]model.OrdenHistorica, int64, error) {
	var ordenes []model.OrdenHistorica
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.OrdenHistorica{})

	if filter.Busqueda != "" {
		like := "%" + filter.Busqueda + "%"
		q = q.Joins("LEFT JOIN pacientes ON pacientes.id = ordenes_historicas.paciente_id").
			Where("pacientes.nombre ILIKE ? OR pacientes.apellido ILIKE ? OR ordenes_historicas.id::text ILIKE ?",
				like, like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }).
		Preload("Paciente").Preload("Convenio").
		Order("ordenes_historicas.fecha_entrega DESC, ordenes_historicas.created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ordenes).Error

	return ordenes, total, err
}

func (r *historialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("orden_id = ?", id).Delete(&model.OrdenHistoricaItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.OrdenHistorica{}, id).Error
	})
}

func (r *historialRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.OrdenHistorica{}).Count(&n).Error
	return n, err
}

func (r *historialRepo) ListAll(ctx context.Context) ([]model.OrdenHistorica, error) {
	var ordenes []model.OrdenHistorica
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }).
		Find(&ordenes).Error
	return ordenes, err
}
