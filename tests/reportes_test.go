package tests

import (
	"context"
	"testing"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fixture ──────────────────────────────────────────────────────────────────

type reporteFixture struct {
	ordenes   *stubOrdenRepo
	historial *stubHistorialRepo
	ganancias *stubGananciaRepo
	catalogo  *stubCatalogo
	svc       service.ReporteService
}

func newReporteFixture() *reporteFixture {
	f := &reporteFixture{
		ordenes:   newStubOrdenRepo(),
		historial: newStubHistorialRepo(),
		ganancias: newStubGananciaRepo(),
		catalogo:  newStubCatalogo(),
	}
	f.svc = service.NewReporteService(f.ordenes, f.historial, f.ganancias, f.catalogo)
	return f
}

func (f *reporteFixture) archivar(fechaEntrega string, items ...model.OrdenHistoricaItem) {
	id := uuid.New()
	for i := range items {
		items[i].OrdenID = id
		items[i].Posicion = i
	}
	f.historial.ordenes[id] = &model.OrdenHistorica{
		ID:           id,
		PacienteID:   uuid.New(),
		FechaCreacion: fechaEntrega,
		FechaEntrega: fechaEntrega,
		Estado:       model.EstadoEntregado,
		Items:        items,
	}
}

// ── Dashboard ────────────────────────────────────────────────────────────────

func TestDashboard_Conteos(t *testing.T) {
	f := newReporteFixture()
	for i := 0; i < 3; i++ {
		f.ordenes.ordenes[uuid.New()] = &model.Orden{ID: uuid.New(), Estado: model.EstadoPendiente}
	}
	f.ordenes.ordenes[uuid.New()] = &model.Orden{ID: uuid.New(), Estado: model.EstadoCompletado}
	f.archivar("2026-08-01")
	f.archivar("2026-08-02")

	require.NoError(t, f.ganancias.AcumularTx(nil, "2026-08-01", decimal.RequireFromString("135.00")))
	require.NoError(t, f.ganancias.AcumularTx(nil, "2026-08-02", decimal.RequireFromString("65.00")))

	resp, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 3, resp.OrdenesPendientes)
	assert.EqualValues(t, 2, resp.OrdenesEntregadas)
	assert.True(t, resp.GananciasTotales.Equal(decimal.RequireFromString("200.00")),
		"total = %s", resp.GananciasTotales)
	assert.True(t, resp.GananciasPorDia["2026-08-01"].Equal(decimal.RequireFromString("135.00")))
	assert.True(t, resp.GananciasPorDia["2026-08-02"].Equal(decimal.RequireFromString("65.00")))
}

func TestDashboard_EstudiosPorMesExpandePaquetes(t *testing.T) {
	f := newReporteFixture()
	hem := f.catalogo.addEstudio("HEM-001", "Biometría hemática", "Hematología", "120.00")
	qui := f.catalogo.addEstudio("QUI-001", "Glucosa", "Química clínica", "60.00")
	uri := f.catalogo.addEstudio("URI-001", "Examen general de orina", "Urianálisis", "80.00")
	pkg := f.catalogo.addPaquete("PKG-005", "INFANTIL", "500.00", hem, qui, uri)

	// Una entrega con un estudio suelto y otra con el paquete.
	f.archivar("2026-08-10", model.OrdenHistoricaItem{Tipo: model.ItemEstudio, ItemID: qui.ID})
	f.archivar("2026-08-15", model.OrdenHistoricaItem{Tipo: model.ItemPaquete, ItemID: pkg.ID})
	// Y una de otro mes.
	f.archivar("2026-07-01", model.OrdenHistoricaItem{Tipo: model.ItemEstudio, ItemID: hem.ID})

	resp, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)

	agosto := resp.EstudiosPorMes["2026-08"]
	require.NotNil(t, agosto)
	// El paquete cuenta como sus tres estudios incluídos.
	assert.Equal(t, 1, agosto["Hematología"])
	assert.Equal(t, 2, agosto["Química clínica"]) // suelto + incluído
	assert.Equal(t, 1, agosto["Urianálisis"])

	julio := resp.EstudiosPorMes["2026-07"]
	require.NotNil(t, julio)
	assert.Equal(t, 1, julio["Hematología"])
}

func TestDashboard_ItemColganteSeIgnora(t *testing.T) {
	f := newReporteFixture()
	f.archivar("2026-08-10",
		model.OrdenHistoricaItem{Tipo: model.ItemEstudio, ItemID: uuid.New()},
		model.OrdenHistoricaItem{Tipo: model.ItemPaquete, ItemID: uuid.New()},
	)

	resp, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resp.EstudiosPorMes)
}

// ── Agenda ───────────────────────────────────────────────────────────────────

func citaOrden(f *reporteFixture, fecha string, hora *string, paciente *model.Paciente) {
	id := uuid.New()
	o := &model.Orden{
		ID:        id,
		FechaCita: &fecha,
		HoraCita:  hora,
		Estado:    model.EstadoPendiente,
	}
	if paciente != nil {
		o.PacienteID = paciente.ID
		o.Paciente = paciente
	}
	f.ordenes.ordenes[id] = o
}

func strPtr(s string) *string { return &s }

func TestAgenda_AgrupaPorDiaYOrdenaPorHora(t *testing.T) {
	f := newReporteFixture()
	ana := &model.Paciente{ID: uuid.New(), Nombre: "Ana", Apellido: "García"}
	luis := &model.Paciente{ID: uuid.New(), Nombre: "Luis", Apellido: "Pérez"}

	citaOrden(f, "2026-08-20", strPtr("10:30"), ana)
	citaOrden(f, "2026-08-20", strPtr("08:00"), luis)
	citaOrden(f, "2026-08-18", strPtr("09:00"), ana)
	citaOrden(f, "2026-09-01", strPtr("09:00"), ana) // otro mes, fuera

	resp, err := f.svc.Agenda(context.Background(), "2026-08")
	require.NoError(t, err)

	require.Len(t, resp.Dias, 2)
	assert.Equal(t, "2026-08-18", resp.Dias[0].Fecha)
	assert.Equal(t, "2026-08-20", resp.Dias[1].Fecha)

	dia20 := resp.Dias[1]
	require.Len(t, dia20.Citas, 2)
	assert.Equal(t, "Luis Pérez", dia20.Citas[0].Paciente)
	assert.Equal(t, "Ana García", dia20.Citas[1].Paciente)
}

func TestAgenda_CitaSinHoraVaAlFinal(t *testing.T) {
	f := newReporteFixture()
	ana := &model.Paciente{ID: uuid.New(), Nombre: "Ana", Apellido: "García"}

	citaOrden(f, "2026-08-20", nil, nil)
	citaOrden(f, "2026-08-20", strPtr("16:00"), ana)

	resp, err := f.svc.Agenda(context.Background(), "2026-08")
	require.NoError(t, err)

	require.Len(t, resp.Dias, 1)
	citas := resp.Dias[0].Citas
	require.Len(t, citas, 2)
	assert.Equal(t, "Ana García", citas[0].Paciente)
	assert.Equal(t, "Desconocido", citas[1].Paciente)
	assert.Nil(t, citas[1].Hora)
}

func TestAgenda_MesVacio(t *testing.T) {
	f := newReporteFixture()

	resp, err := f.svc.Agenda(context.Background(), "2026-12")
	require.NoError(t, err)
	assert.Equal(t, "2026-12", resp.Mes)
	assert.Empty(t, resp.Dias)
}
