package repository

import (
	"context"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistorialPrecioRepository interface {
	Create(ctx context.Context, h *model.HistorialPrecio) error
	ListByItem(ctx context.Context, itemTipo string, itemID uuid.UUID) ([]model.HistorialPrecio, error)
}

type historialPrecioRepo struct{ db *gorm.DB }

func NewHistorialPrecioRepository(db *gorm.DB) HistorialPrecioRepository {
	return &historialPrecioRepo{db: db}
}

func (r *historialPrecioRepo) Create(ctx context.Context, h *model.HistorialPrecio) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *historialPrecioRepo) ListByItem(ctx context.Context, itemTipo string, itemID uuid.UUID) ([]model.HistorialPrecio, error) {
	var historial []model.HistorialPrecio
	err := r.db.WithContext(ctx).
		Where("item_tipo = ? AND item_id = ?", itemTipo, itemID).
		Order("created_at DESC").
		Find(&historial).Error
	return historial, err
}
