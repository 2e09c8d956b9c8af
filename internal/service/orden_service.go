package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/repository"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrOrdenNoEncontrada marks lookups against the active set that found
// nothing; handlers map it to 404.
var ErrOrdenNoEncontrada = errors.New("orden no encontrada")

type OrdenService interface {
	Crear(ctx context.Context, req dto.CrearOrdenRequest) (*dto.OrdenResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.OrdenResponse, error)
	Listar(ctx context.Context, filter dto.OrdenFilter) (*dto.OrdenListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarOrdenRequest) (*dto.OrdenResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	// CambiarEstado validates the requested transition and, for "entregado",
	// runs the delivery side effect atomically with it.
	CambiarEstado(ctx context.Context, id uuid.UUID, nuevoEstado string) (*dto.OrdenResponse, error)
	Preview(ctx context.Context, req dto.PrecioPreviewRequest) (*dto.PrecioPreviewResponse, error)
}

type ordenService struct {
	repo       repository.OrdenRepository
	historial  repository.HistorialRepository
	ganancias  repository.GananciaRepository
	catalogo   CatalogoLookup
	convenios  ConvenioLookup
	dispatcher *worker.Dispatcher
}

func NewOrdenService(
	repo repository.OrdenRepository,
	historial repository.HistorialRepository,
	ganancias repository.GananciaRepository,
	catalogo CatalogoLookup,
	convenios ConvenioLookup,
	dispatcher *worker.Dispatcher,
) OrdenService {
	return &ordenService{
		repo:       repo,
		historial:  historial,
		ganancias:  ganancias,
		catalogo:   catalogo,
		convenios:  convenios,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func hoy() string { return time.Now().Format("2006-01-02") }

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *ordenService) Crear(ctx context.Context, req dto.CrearOrdenRequest) (*dto.OrdenResponse, error) {
	if len(req.EstudioIDs) == 0 && len(req.PaqueteIDs) == 0 {
		return nil, errors.New("La orden debe incluir al menos un estudio o paquete")
	}

	pacienteID, err := uuid.Parse(req.PacienteID)
	if err != nil {
		return nil, fmt.Errorf("paciente_id inválido: %w", err)
	}

	convenioID, err := parseOptionalUUID(req.ConvenioID)
	if err != nil {
		return nil, fmt.Errorf("convenio_id inválido: %w", err)
	}

	items, err := buildItems(req.EstudioIDs, req.PaqueteIDs)
	if err != nil {
		return nil, err
	}

	orden := model.Orden{
		PacienteID:    pacienteID,
		ConvenioID:    convenioID,
		FechaCreacion: hoy(),
		FechaCita:     req.FechaCita,
		HoraCita:      req.HoraCita,
		Estado:        model.EstadoPendiente,
		Items:         items,
	}
	if err := s.repo.Create(ctx, &orden); err != nil {
		return nil, err
	}
	return s.Obtener(ctx, orden.ID)
}

// ── Obtener / Listar ─────────────────────────────────────────────────────────

func (s *ordenService) Obtener(ctx context.Context, id uuid.UUID) (*dto.OrdenResponse, error) {
	orden, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrOrdenNoEncontrada
	}
	return s.toResponse(ctx, orden), nil
}

func (s *ordenService) Listar(ctx context.Context, filter dto.OrdenFilter) (*dto.OrdenListResponse, error) {
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
	data := make([]dto.OrdenResponse, 0, len(ordenes))
	for i := range ordenes {
		data = append(data, *s.toResponse(ctx, &ordenes[i]))
	}
	return &dto.OrdenListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Actualizar ───────────────────────────────────────────────────────────────
// Only pending orders may be edited. The stored patient, creation date and
// status always survive an update — status moves only through CambiarEstado.

func (s *ordenService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarOrdenRequest) (*dto.OrdenResponse, error) {
	orden, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrOrdenNoEncontrada
	}
	if orden.Estado != model.EstadoPendiente {
		return nil, errors.New("Solo las órdenes pendientes pueden modificarse")
	}
	if len(req.EstudioIDs) == 0 && len(req.PaqueteIDs) == 0 {
		return nil, errors.New("La orden debe incluir al menos un estudio o paquete")
	}

	convenioID, err := parseOptionalUUID(req.ConvenioID)
	if err != nil {
		return nil, fmt.Errorf("convenio_id inválido: %w", err)
	}
	items, err := buildItems(req.EstudioIDs, req.PaqueteIDs)
	if err != nil {
		return nil, err
	}

	orden.ConvenioID = convenioID
	orden.FechaCita = req.FechaCita
	orden.HoraCita = req.HoraCita
	if err := s.repo.Update(ctx, orden); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceItems(ctx, orden.ID, items); err != nil {
		return nil, err
	}
	return s.Obtener(ctx, orden.ID)
}

// ── Eliminar ─────────────────────────────────────────────────────────────────
// Removes the order from the active set without any historical trace —
// distinct from delivery-driven archival.

func (s *ordenService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrOrdenNoEncontrada
	}
	return s.repo.Delete(ctx, id)
}

// ── CambiarEstado ────────────────────────────────────────────────────────────

func (s *ordenService) CambiarEstado(ctx context.Context, id uuid.UUID, nuevoEstado string) (*dto.OrdenResponse, error) {
	orden, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrOrdenNoEncontrada
	}
	if !model.TransicionValida(orden.Estado, nuevoEstado) {
		return nil, fmt.Errorf("transición de estado inválida: %s → %s", orden.Estado, nuevoEstado)
	}

	if nuevoEstado != model.EstadoEntregado {
		orden.Estado = nuevoEstado
		if err := s.repo.Update(ctx, orden); err != nil {
			return nil, err
		}
		return s.toResponse(ctx, orden), nil
	}

	return s.entregar(ctx, orden)
}

// entregar executes the delivery side effect as one synchronous unit:
// credit today's revenue bucket, archive the order (id-idempotent), and
// remove it from the active set — all inside a single transaction so no
// reader can observe the order in both collections or in neither.
func (s *ordenService) entregar(ctx context.Context, orden *model.Orden) (*dto.OrdenResponse, error) {
	// Pricing is pure and runs before the transaction. The ledger is
	// bucketed under the DELIVERY date, not the order's creation date:
	// revenue is recognized when the results are handed over.
	totalBruto, totalFinal := s.totales(ctx, orden)
	fechaEntrega := hoy()

	historica := model.OrdenHistorica{
		ID:            orden.ID,
		PacienteID:    orden.PacienteID,
		ConvenioID:    orden.ConvenioID,
		FechaCreacion: orden.FechaCreacion,
		FechaCita:     orden.FechaCita,
		HoraCita:      orden.HoraCita,
		FechaEntrega:  fechaEntrega,
		Estado:        model.EstadoEntregado,
		TotalBruto:    totalBruto,
		TotalFinal:    totalFinal,
	}
	for _, item := range orden.Items {
		hi := model.OrdenHistoricaItem{
			OrdenID:  orden.ID,
			Tipo:     item.Tipo,
			ItemID:   item.ItemID,
			Posicion: item.Posicion,
		}
		// Freeze description and unit price so the receipt matches the
		// totals charged today, not whatever the catalog says tomorrow.
		switch item.Tipo {
		case model.ItemEstudio:
			if e, err := s.catalogo.FindEstudio(ctx, item.ItemID); err == nil {
				hi.Descripcion = e.Nombre
				hi.Precio = e.Precio
			}
		case model.ItemPaquete:
			if p, err := s.catalogo.FindPaquete(ctx, item.ItemID); err == nil {
				hi.Descripcion = "Paquete " + p.Nombre
				hi.Precio = p.Precio
			}
		}
		historica.Items = append(historica.Items, hi)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Idempotence guard: a re-invoked delivery must not archive twice
		// nor credit the ledger twice.
		existe, err := s.historial.ExistsTx(tx, orden.ID)
		if err != nil {
			return err
		}
		if !existe {
			if err := s.ganancias.AcumularTx(tx, fechaEntrega, totalFinal); err != nil {
				return err
			}
			if err := s.historial.CreateTx(tx, &historica); err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(tx, orden.ID)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async receipt job (PDF + optional email) — best-effort, fire & forget.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueRecibo(ctx, worker.ReciboJobPayload{OrdenID: orden.ID.String()})
	}

	resp := s.toResponse(ctx, orden)
	resp.Estado = model.EstadoEntregado
	resp.TotalBruto = totalBruto
	resp.TotalFinal = totalFinal
	return resp, nil
}

// ── Preview ──────────────────────────────────────────────────────────────────
// Live price preview before the order exists. Pricing is referentially
// transparent: the same selection yields the same totals here and at
// delivery time.

func (s *ordenService) Preview(ctx context.Context, req dto.PrecioPreviewRequest) (*dto.PrecioPreviewResponse, error) {
	sel, err := toSeleccion(req.EstudioIDs, req.PaqueteIDs)
	if err != nil {
		return nil, err
	}
	convenioID, err := parseOptionalUUID(req.ConvenioID)
	if err != nil {
		return nil, fmt.Errorf("convenio_id inválido: %w", err)
	}

	bruto := CalcularTotal(ctx, sel, s.catalogo)
	final := AplicarDescuento(ctx, bruto, convenioID, s.convenios)
	return &dto.PrecioPreviewResponse{
		TotalBruto: bruto,
		Descuento:  bruto.Sub(final),
		TotalFinal: final,
	}, nil
}

// ── Internals ────────────────────────────────────────────────────────────────

func (s *ordenService) totales(ctx context.Context, orden *model.Orden) (bruto, final decimal.Decimal) {
	sel := Seleccion{}
	for _, item := range orden.Items {
		switch item.Tipo {
		case model.ItemEstudio:
			sel.Estudios = append(sel.Estudios, item.ItemID)
		case model.ItemPaquete:
			sel.Paquetes = append(sel.Paquetes, item.ItemID)
		}
	}
	bruto = CalcularTotal(ctx, sel, s.catalogo)
	final = AplicarDescuento(ctx, bruto, orden.ConvenioID, s.convenios)
	return bruto, final
}

func (s *ordenService) toResponse(ctx context.Context, orden *model.Orden) *dto.OrdenResponse {
	bruto, final := s.totales(ctx, orden)

	resp := &dto.OrdenResponse{
		ID:            orden.ID.String(),
		PacienteID:    orden.PacienteID.String(),
		Paciente:      "Desconocido",
		Items:         resolverItems(ctx, s.catalogo, ordenItemsComunes(orden.Items)),
		FechaCreacion: orden.FechaCreacion,
		FechaCita:     orden.FechaCita,
		HoraCita:      orden.HoraCita,
		Estado:        orden.Estado,
		TotalBruto:    bruto,
		TotalFinal:    final,
	}
	if orden.Paciente != nil {
		resp.Paciente = orden.Paciente.Nombre + " " + orden.Paciente.Apellido
	}
	if orden.ConvenioID != nil {
		id := orden.ConvenioID.String()
		resp.ConvenioID = &id
		if conv, err := s.convenios.FindConvenio(ctx, *orden.ConvenioID); err == nil {
			resp.Convenio = &conv.Nombre
		}
	}
	return resp
}

// resolverItems resolves items against the catalog; dangling references
// are omitted from the response (they also price at zero).
func resolverItems(ctx context.Context, catalogo CatalogoLookup, items []itemComun) []dto.ItemOrdenResponse {
	out := make([]dto.ItemOrdenResponse, 0, len(items))
	for _, item := range items {
		switch item.tipo {
		case model.ItemEstudio:
			if e, err := catalogo.FindEstudio(ctx, item.itemID); err == nil {
				out = append(out, dto.ItemOrdenResponse{
					ID:     e.ID.String(),
					Tipo:   model.ItemEstudio,
					Codigo: e.Codigo,
					Nombre: e.Nombre,
					Precio: e.Precio,
				})
			}
		case model.ItemPaquete:
			if p, err := catalogo.FindPaquete(ctx, item.itemID); err == nil {
				out = append(out, dto.ItemOrdenResponse{
					ID:     p.ID.String(),
					Tipo:   model.ItemPaquete,
					Codigo: p.Codigo,
					Nombre: p.Nombre,
					Precio: p.Precio,
				})
			}
		}
	}
	return out
}

type itemComun struct {
	tipo   string
	itemID uuid.UUID
}

func ordenItemsComunes(items []model.OrdenItem) []itemComun {
	out := make([]itemComun, 0, len(items))
	for _, i := range items {
		out = append(out, itemComun{tipo: i.Tipo, itemID: i.ItemID})
	}
	return out
}

func buildItems(estudioIDs, paqueteIDs []string) ([]model.OrdenItem, error) {
	items := make([]model.OrdenItem, 0, len(estudioIDs)+len(paqueteIDs))
	pos := 0
	for _, raw := range estudioIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("estudio_id inválido: %w", err)
		}
		items = append(items, model.OrdenItem{Tipo: model.ItemEstudio, ItemID: id, Posicion: pos})
		pos++
	}
	for _, raw := range paqueteIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("paquete_id inválido: %w", err)
		}
		items = append(items, model.OrdenItem{Tipo: model.ItemPaquete, ItemID: id, Posicion: pos})
		pos++
	}
	return items, nil
}

func toSeleccion(estudioIDs, paqueteIDs []string) (Seleccion, error) {
	sel := Seleccion{}
	for _, raw := range estudioIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return sel, fmt.Errorf("estudio_id inválido: %w", err)
		}
		sel.Estudios = append(sel.Estudios, id)
	}
	for _, raw := range paqueteIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return sel, fmt.Errorf("paquete_id inválido: %w", err)
		}
		sel.Paquetes = append(sel.Paquetes, id)
	}
	return sel, nil
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
