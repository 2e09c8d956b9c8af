package service

import (
	"context"
	"sort"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/repository"

	"github.com/shopspring/decimal"
)

type ReporteService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	// Agenda returns the scheduled appointments of one calendar month,
	// grouped by day. mes has the form "2006-01".
	Agenda(ctx context.Context, mes string) (*dto.AgendaResponse, error)
}

type reporteService struct {
	ordenes   repository.OrdenRepository
	historial repository.HistorialRepository
	ganancias repository.GananciaRepository
	catalogo  CatalogoLookup
}

func NewReporteService(
	ordenes repository.OrdenRepository,
	historial repository.HistorialRepository,
	ganancias repository.GananciaRepository,
	catalogo CatalogoLookup,
) ReporteService {
	return &reporteService{
		ordenes:   ordenes,
		historial: historial,
		ganancias: ganancias,
		catalogo:  catalogo,
	}
}

func (s *reporteService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	pendientes, err := s.ordenes.CountByEstado(ctx, model.EstadoPendiente)
	if err != nil {
		return nil, err
	}
	entregadas, err := s.historial.Count(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.ganancias.Sum(ctx)
	if err != nil {
		return nil, err
	}
	buckets, err := s.ganancias.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	porDia := make(map[string]decimal.Decimal, len(buckets))
	for _, b := range buckets {
		porDia[b.Fecha] = b.Monto
	}

	porMes, err := s.estudiosPorMes(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		OrdenesPendientes: pendientes,
		OrdenesEntregadas: entregadas,
		GananciasTotales:  total,
		GananciasPorDia:   porDia,
		EstudiosPorMes:    porMes,
	}, nil
}

// estudiosPorMes counts performed studies per delivery month and category
// over the archive. Package items expand into their included studies so
// the workload counts reflect what the lab actually ran.
func (s *reporteService) estudiosPorMes(ctx context.Context) (map[string]map[string]int, error) {
	ordenes, err := s.historial.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]int)
	suma := func(mes, categoria string) {
		if out[mes] == nil {
			out[mes] = make(map[string]int)
		}
		out[mes][categoria]++
	}
	for i := range ordenes {
		o := &ordenes[i]
		if len(o.FechaEntrega) < 7 {
			continue
		}
		mes := o.FechaEntrega[:7] // YYYY-MM
		for _, item := range o.Items {
			switch item.Tipo {
			case model.ItemEstudio:
				if e, err := s.catalogo.FindEstudio(ctx, item.ItemID); err == nil {
					suma(mes, e.Categoria)
				}
			case model.ItemPaquete:
				p, err := s.catalogo.FindPaquete(ctx, item.ItemID)
				if err != nil {
					continue
				}
				for _, pe := range p.Estudios {
					if pe.Estudio != nil {
						suma(mes, pe.Estudio.Categoria)
					}
				}
			}
		}
	}
	return out, nil
}

func (s *reporteService) Agenda(ctx context.Context, mes string) (*dto.AgendaResponse, error) {
	ordenes, err := s.ordenes.ListCitasPorMes(ctx, mes)
	if err != nil {
		return nil, err
	}

	porDia := make(map[string][]dto.CitaResponse)
	for i := range ordenes {
		o := &ordenes[i]
		if o.FechaCita == nil {
			continue
		}
		paciente := "Desconocido"
		if o.Paciente != nil {
			paciente = o.Paciente.Nombre + " " + o.Paciente.Apellido
		}
		porDia[*o.FechaCita] = append(porDia[*o.FechaCita], dto.CitaResponse{
			OrdenID:  o.ID.String(),
			Paciente: paciente,
			Hora:     o.HoraCita,
			Estado:   o.Estado,
		})
	}

	fechas := make([]string, 0, len(porDia))
	for fecha := range porDia {
		fechas = append(fechas, fecha)
	}
	sort.Strings(fechas)

	resp := &dto.AgendaResponse{Mes: mes, Dias: make([]dto.AgendaDia, 0, len(fechas))}
	for _, fecha := range fechas {
		citas := porDia[fecha]
		sort.SliceStable(citas, func(a, b int) bool {
			ha, hb := citas[a].Hora, citas[b].Hora
			switch {
			case ha == nil:
				return false
			case hb == nil:
				return true
			default:
				return *ha < *hb
			}
		})
		resp.Dias = append(resp.Dias, dto.AgendaDia{Fecha: fecha, Citas: citas})
	}
	return resp, nil
}
