package repository

import (
	"context"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrdenRepository manages the ACTIVE order set. Delivered orders leave this
// repository inside the delivery transaction and are owned by
// HistorialRepository from then on.
type OrdenRepository interface {
	Create(ctx context.Context, o *model.Orden) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Orden, error)
	List(ctx context.Context, filter dto.OrdenFilter) ([]model.Orden, int64, error)
	// ReplaceItems swaps the item rows of an order in one transaction.
	ReplaceItems(ctx context.Context, ordenID uuid.UUID, items []model.OrdenItem) error
	Update(ctx context.Context, o *model.Orden) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	CountByEstado(ctx context.Context, estado string) (int64, error)
	// ListCitasPorMes returns active orders whose appointment date falls in
	// mes (YYYY-MM), for the calendar view.
	ListCitasPorMes(ctx context.Context, mes string) ([]model.Orden, error)
	// ListRecordatoriosPendientes returns orders with an appointment on
	// fecha whose reminder has not been sent yet.
	ListRecordatoriosPendientes(ctx context.Context, fecha string) ([]model.Orden, error)
	MarcarRecordatorioEnviado(ctx context.Context, id uuid.UUID) error

	ListAll(ctx context.Context) ([]model.Orden, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type ordenRepo struct{ db *gorm.DB }

func NewOrdenRepository(db *gorm.DB) OrdenRepository { return &ordenRepo{db: db} }

func (r *ordenRepo) DB() *gorm.DB { return r.db }

func (r *ordenRepo) Create(ctx context.Context, o *model.Orden) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *ordenRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Orden, error) {
	var o model.Orden
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }).
		Preload("Paciente").Preload("Convenio").
		First(&o, id).Error
	return &o, err
}

func (r *ordenRepo) List(ctx context.Context, filter dto.OrdenFilter) ([]model.Orden, int64, error) {
	var ordenes []model.Orden
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Orden{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Busqueda != "" {
		like := "%" + filter.Busqueda + "%"
		q = q.Joins("LEFT JOIN pacientes ON pacientes.id = ordenes.paciente_id").
			Where("pacientes.nombre ILIKE ? OR pacientes.apellido ILIKE ? OR ordenes.id::text ILIKE ?",
				like, like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }).
		Preload("Paciente").Preload("Convenio").
		Order("ordenes.created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ordenes).Error

	return ordenes, total, err
}

func (r *ordenRepo) ReplaceItems(ctx context.Context, ordenID uuid.UUID, items []model.OrdenItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("orden_id = ?", ordenID).Delete(&model.OrdenItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrdenID = ordenID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ordenRepo) Update(ctx context.Context, o *model.Orden) error {
	return r.db.WithContext(ctx).Omit("Items", "Paciente", "Convenio").Save(o).Error
}

func (r *ordenRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("orden_id = ?", id).Delete(&model.OrdenItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Orden{}, id).Error
	})
}

func (r *ordenRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Orden{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *ordenRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("orden_id = ?", id).Delete(&model.OrdenItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Orden{}, id).Error
}

func (r *ordenRepo) CountByEstado(ctx context.Context, estado string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Orden{}).Where("estado = ?", estado).Count(&n).Error
	return n, err
}

func (r *ordenRepo) ListCitasPorMes(ctx context.Context, mes string) ([]model.Orden, error) {
	var ordenes []model.Orden
	err := r.db.WithContext(ctx).
		Preload("Paciente").
		Where("fecha_cita LIKE ?", mes+"%").
		Order("fecha_cita ASC, hora_cita ASC").
		Find(&ordenes).Error
	return ordenes, err
}

func (r *ordenRepo) ListRecordatoriosPendientes(ctx context.Context, fecha string) ([]model.Orden, error) {
	var ordenes []model.Orden
	err := r.db.WithContext(ctx).
		Preload("Paciente").
		Where("fecha_cita = ? AND recordatorio_enviado = false AND estado = ?", fecha, model.EstadoPendiente).
		Find(&ordenes).Error
	return ordenes, err
}

func (r *ordenRepo) MarcarRecordatorioEnviado(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Orden{}).Where("id = ?", id).
		Update("recordatorio_enviado", true).Error
}

func (r *ordenRepo) ListAll(ctx context.Context) ([]model.Orden, error) {
	var ordenes []model.Orden
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }).
		Find(&ordenes).Error
	return ordenes, err
}
