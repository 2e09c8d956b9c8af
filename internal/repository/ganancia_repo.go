package repository

import (
	"context"
	"errors"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrMontoNegativo rejects attempts to credit a negative amount: the
// ledger only ever grows, and a negative credit would silently shrink a
// bucket.
var ErrMontoNegativo = errors.New("el monto a acreditar no puede ser negativo")

// GananciaRepository is the per-day revenue ledger. Buckets are created at
// zero and only ever accumulate — deliveries add, nothing subtracts.
type GananciaRepository interface {
	// AcumularTx adds monto to the bucket for fecha inside the caller's
	// transaction, creating the bucket first when absent. A negative
	// monto returns ErrMontoNegativo without touching the ledger.
	AcumularTx(tx *gorm.DB, fecha string, monto decimal.Decimal) error

	FindByFecha(ctx context.Context, fecha string) (*model.GananciaDiaria, error)
	ListAll(ctx context.Context) ([]model.GananciaDiaria, error)
	Sum(ctx context.Context) (decimal.Decimal, error)
}

type gananciaRepo struct{ db *gorm.DB }

func NewGananciaRepository(db *gorm.DB) GananciaRepository { return &gananciaRepo{db: db} }

func (r *gananciaRepo) AcumularTx(tx *gorm.DB, fecha string, monto decimal.Decimal) error {
	if monto.IsNegative() {
		return ErrMontoNegativo
	}
	g := model.GananciaDiaria{Fecha: fecha, Monto: monto}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fecha"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"monto": gorm.Expr("ganancias_diarias.monto + ?", monto),
		}),
	}).Create(&g).Error
}

func (r *gananciaRepo) FindByFecha(ctx context.Context, fecha string) (*model.GananciaDiaria, error) {
	var g model.GananciaDiaria
	err := r.db.WithContext(ctx).Where("fecha = ?", fecha).First(&g).Error
	return &g, err
}

func (r *gananciaRepo) ListAll(ctx context.Context) ([]model.GananciaDiaria, error) {
	var ganancias []model.GananciaDiaria
	err := r.db.WithContext(ctx).Order("fecha ASC").Find(&ganancias).Error
	return ganancias, err
}

func (r *gananciaRepo) Sum(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.GananciaDiaria{}).
		Select("SUM(monto)").Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}
