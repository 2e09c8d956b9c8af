package service

import (
	"context"
	"errors"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/infra"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/repository"

	"github.com/google/uuid"
)

// ErrHistorialNoEncontrado marks lookups against the archive that found
// nothing; handlers map it to 404.
var ErrHistorialNoEncontrado = errors.New("orden histórica no encontrada")

type HistorialService interface {
	Obtener(ctx context.Context, id uuid.UUID) (*dto.OrdenHistoricaResponse, error)
	Listar(ctx context.Context, filter dto.OrdenFilter) (*dto.HistorialListResponse, error)
	// Recibo renders the payment receipt PDF for an archived order and
	// returns the path of the generated file. Regenerating is safe: the
	// lines come from the snapshot taken at delivery, so the output is
	// the same every time.
	Recibo(ctx context.Context, id uuid.UUID) (string, error)
	// Eliminar removes the archived record only. The revenue already
	// credited for its delivery stays in the ledger untouched.
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type historialService struct {
	repo           repository.HistorialRepository
	catalogo       CatalogoLookup
	convenios      ConvenioLookup
	pdfStoragePath string
	nombreClinica  string
}

func NewHistorialService(
	repo repository.HistorialRepository,
	catalogo CatalogoLookup,
	convenios ConvenioLookup,
	pdfStoragePath string,
	nombreClinica string,
) HistorialService {
	return &historialService{
		repo:           repo,
		catalogo:       catalogo,
		convenios:      convenios,
		pdfStoragePath: pdfStoragePath,
		nombreClinica:  nombreClinica,
	}
}

func (s *historialService) Obtener(ctx context.Context, id uuid.UUID) (*dto.OrdenHistoricaResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrHistorialNoEncontrado
	}
	return s.toResponse(ctx, o), nil
}

func (s *historialService) Listar(ctx context.Context, filter dto.OrdenFilter) (*dto.HistorialListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ordenes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrdenHistoricaResponse, 0, len(ordenes))
	for i := range ordenes {
		data = append(data, *s.toResponse(ctx, &ordenes[i]))
	}
	return &dto.HistorialListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *historialService) Recibo(ctx context.Context, id uuid.UUID) (string, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", ErrHistorialNoEncontrado
	}
	return infra.GenerarReciboPDF(infra.ReciboDesdeOrden(o, s.nombreClinica), s.pdfStoragePath)
}

func (s *historialService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrHistorialNoEncontrado
	}
	return s.repo.Delete(ctx, id)
}

func (s *historialService) toResponse(ctx context.Context, o *model.OrdenHistorica) *dto.OrdenHistoricaResponse {
	resp := &dto.OrdenHistoricaResponse{
		ID:            o.ID.String(),
		PacienteID:    o.PacienteID.String(),
		Paciente:      "Desconocido",
		Items:         resolverItems(ctx, s.catalogo, historicaItemsComunes(o.Items)),
		FechaCreacion: o.FechaCreacion,
		FechaEntrega:  o.FechaEntrega,
		Estado:        o.Estado,
		TotalBruto:    o.TotalBruto,
		TotalFinal:    o.TotalFinal,
	}
	if o.Paciente != nil {
		resp.Paciente = o.Paciente.Nombre + " " + o.Paciente.Apellido
	}
	if o.ConvenioID != nil {
		id := o.ConvenioID.String()
		resp.ConvenioID = &id
		if conv, err := s.convenios.FindConvenio(ctx, *o.ConvenioID); err == nil {
			resp.Convenio = &conv.Nombre
		}
	}
	return resp
}

func historicaItemsComunes(items []model.OrdenHistoricaItem) []itemComun {
	out := make([]itemComun, 0, len(items))
	for _, i := range items {
		out = append(out, itemComun{tipo: i.Tipo, itemID: i.ItemID})
	}
	return out
}
