package service

import (
	"context"
	"errors"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ConvenioService interface {
	Crear(ctx context.Context, req dto.CrearConvenioRequest) (*dto.ConvenioResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ConvenioResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.ConvenioResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarConvenioRequest) (*dto.ConvenioResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type convenioService struct {
	repo repository.ConvenioRepository
}

func NewConvenioService(repo repository.ConvenioRepository) ConvenioService {
	return &convenioService{repo: repo}
}

func (s *convenioService) Crear(ctx context.Context, req dto.CrearConvenioRequest) (*dto.ConvenioResponse, error) {
	c := model.Convenio{
		Nombre:    req.Nombre,
		Descuento: clampDescuento(req.Descuento),
		Activo:    true,
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	return convenioToResponse(&c), nil
}

func (s *convenioService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ConvenioResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("convenio no encontrado")
	}
	return convenioToResponse(c), nil
}

func (s *convenioService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.ConvenioResponse, error) {
	convenios, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConvenioResponse, 0, len(convenios))
	for i := range convenios {
		out = append(out, *convenioToResponse(&convenios[i]))
	}
	return out, nil
}

func (s *convenioService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarConvenioRequest) (*dto.ConvenioResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("convenio no encontrado")
	}
	if req.Nombre != nil {
		c.Nombre = *req.Nombre
	}
	if req.Descuento != nil {
		c.Descuento = clampDescuento(*req.Descuento)
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return convenioToResponse(c), nil
}

func (s *convenioService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("convenio no encontrado")
	}
	return s.repo.SoftDelete(ctx, id)
}

// clampDescuento bounds the percentage into [0,100] at write time; the
// pricing engine trusts stored values afterwards.
func clampDescuento(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(cien) {
		return cien
	}
	return d.Round(2)
}

func convenioToResponse(c *model.Convenio) *dto.ConvenioResponse {
	return &dto.ConvenioResponse{
		ID:        c.ID.String(),
		Nombre:    c.Nombre,
		Descuento: c.Descuento,
		Activo:    c.Activo,
	}
}
