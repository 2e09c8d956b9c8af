package service

import (
	"context"
	"errors"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogoLookup resolves study/package references at pricing time.
// A reference that cannot be resolved is a soft miss, never an error:
// the item simply contributes zero to the total.
type CatalogoLookup interface {
	FindEstudio(ctx context.Context, id uuid.UUID) (*model.Estudio, error)
	FindPaquete(ctx context.Context, id uuid.UUID) (*model.Paquete, error)
}

// ConvenioLookup resolves the optional discount agreement of an order.
type ConvenioLookup interface {
	FindConvenio(ctx context.Context, id uuid.UUID) (*model.Convenio, error)
}

// Seleccion is the priced content of an order: ordered id sequences,
// duplicates permitted (each occurrence is charged).
type Seleccion struct {
	Estudios []uuid.UUID
	Paquetes []uuid.UUID
}

var cien = decimal.NewFromInt(100)

// errLookupMiss marks a soft catalog miss (absent or soft-deleted entry).
var errLookupMiss = errors.New("no encontrado")

// CalcularTotal sums the unit price of every resolvable study plus the
// bundle price of every resolvable package. A package is charged at its own
// price — never at the sum of its included studies. The result is rounded
// half-up to 2 decimals.
func CalcularTotal(ctx context.Context, sel Seleccion, cat CatalogoLookup) decimal.Decimal {
	total := decimal.Zero
	for _, id := range sel.Estudios {
		if e, err := cat.FindEstudio(ctx, id); err == nil {
			total = total.Add(e.Precio)
		}
	}
	for _, id := range sel.Paquetes {
		if p, err := cat.FindPaquete(ctx, id); err == nil {
			total = total.Add(p.Precio)
		}
	}
	return total.Round(2)
}

// AplicarDescuento applies a convenio's percentage discount to total.
// A nil or unresolvable convenio leaves the total unchanged. The stored
// discount is trusted here — it was validated into [0,100] on creation.
func AplicarDescuento(ctx context.Context, total decimal.Decimal, convenioID *uuid.UUID, reg ConvenioLookup) decimal.Decimal {
	if convenioID == nil {
		return total
	}
	conv, err := reg.FindConvenio(ctx, *convenioID)
	if err != nil {
		return total
	}
	return total.Mul(cien.Sub(conv.Descuento)).Div(cien).Round(2)
}

// ─── Repository adapters ─────────────────────────────────────────────────────

type catalogoLookup struct {
	estudios repository.EstudioRepository
	paquetes repository.PaqueteRepository
}

// NewCatalogo adapts the catalog repositories into a CatalogoLookup.
// Soft-deleted entries are reported as misses so that orders referencing a
// removed study or package price it at zero instead of resurrecting it.
func NewCatalogo(e repository.EstudioRepository, p repository.PaqueteRepository) CatalogoLookup {
	return &catalogoLookup{estudios: e, paquetes: p}
}

func (c *catalogoLookup) FindEstudio(ctx context.Context, id uuid.UUID) (*model.Estudio, error) {
	e, err := c.estudios.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.Activo {
		return nil, errLookupMiss
	}
	return e, nil
}

func (c *catalogoLookup) FindPaquete(ctx context.Context, id uuid.UUID) (*model.Paquete, error) {
	p, err := c.paquetes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Activo {
		return nil, errLookupMiss
	}
	return p, nil
}

type convenioLookup struct {
	convenios repository.ConvenioRepository
}

// NewRegistroConvenios adapts the convenio repository into a ConvenioLookup.
func NewRegistroConvenios(r repository.ConvenioRepository) ConvenioLookup {
	return &convenioLookup{convenios: r}
}

func (c *convenioLookup) FindConvenio(ctx context.Context, id uuid.UUID) (*model.Convenio, error) {
	conv, err := c.convenios.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !conv.Activo {
		return nil, errLookupMiss
	}
	return conv, nil
}
