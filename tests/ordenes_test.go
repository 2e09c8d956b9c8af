package tests

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/handler"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/repository"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Repository stubs ─────────────────────────────────────────────────────────

// stubOrdenRepo is an in-memory OrdenRepository. DB() returns nil so the
// service runs its delivery callback without a real transaction.
type stubOrdenRepo struct {
	ordenes map[uuid.UUID]*model.Orden
}

func newStubOrdenRepo() *stubOrdenRepo {
	return &stubOrdenRepo{ordenes: make(map[uuid.UUID]*model.Orden)}
}

func (r *stubOrdenRepo) DB() *gorm.DB { return nil }

func (r *stubOrdenRepo) Create(_ context.Context, o *model.Orden) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.ordenes[o.ID] = o
	return nil
}

func (r *stubOrdenRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Orden, error) {
	o, ok := r.ordenes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrdenRepo) List(_ context.Context, filter dto.OrdenFilter) ([]model.Orden, int64, error) {
	var out []model.Orden
	for _, o := range r.ordenes {
		if filter.Estado != "" && filter.Estado != "all" && o.Estado != filter.Estado {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrdenRepo) ReplaceItems(_ context.Context, ordenID uuid.UUID, items []model.OrdenItem) error {
	o, ok := r.ordenes[ordenID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range items {
		items[i].OrdenID = ordenID
	}
	o.Items = items
	return nil
}

func (r *stubOrdenRepo) Update(_ context.Context, o *model.Orden) error {
	if _, ok := r.ordenes[o.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.ordenes[o.ID] = o
	return nil
}

func (r *stubOrdenRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.ordenes, id)
	return nil
}

func (r *stubOrdenRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	o, ok := r.ordenes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Estado = estado
	return nil
}

func (r *stubOrdenRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.ordenes, id)
	return nil
}

func (r *stubOrdenRepo) CountByEstado(_ context.Context, estado string) (int64, error) {
	var n int64
	for _, o := range r.ordenes {
		if o.Estado == estado {
			n++
		}
	}
	return n, nil
}

func (r *stubOrdenRepo) ListCitasPorMes(_ context.Context, mes string) ([]model.Orden, error) {
	var out []model.Orden
	for _, o := range r.ordenes {
		if o.FechaCita != nil && len(*o.FechaCita) >= 7 && (*o.FechaCita)[:7] == mes {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubOrdenRepo) ListRecordatoriosPendientes(_ context.Context, fecha string) ([]model.Orden, error) {
	var out []model.Orden
	for _, o := range r.ordenes {
		if o.FechaCita != nil && *o.FechaCita == fecha && !o.RecordatorioEnviado && o.Estado == model.EstadoPendiente {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubOrdenRepo) MarcarRecordatorioEnviado(_ context.Context, id uuid.UUID) error {
	o, ok := r.ordenes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.RecordatorioEnviado = true
	return nil
}

func (r *stubOrdenRepo) ListAll(_ context.Context) ([]model.Orden, error) {
	var out []model.Orden
	for _, o := range r.ordenes {
		out = append(out, *o)
	}
	return out, nil
}

var _ repository.OrdenRepository = (*stubOrdenRepo)(nil)

// stubHistorialRepo is an in-memory append-only archive.
type stubHistorialRepo struct {
	ordenes map[uuid.UUID]*model.OrdenHistorica
	creates int // number of CreateTx calls, for idempotence assertions
}

func newStubHistorialRepo() *stubHistorialRepo {
	return &stubHistorialRepo{ordenes: make(map[uuid.UUID]*model.OrdenHistorica)}
}

func (r *stubHistorialRepo) ExistsTx(_ *gorm.DB, id uuid.UUID) (bool, error) {
	_, ok := r.ordenes[id]
	return ok, nil
}

func (r *stubHistorialRepo) CreateTx(_ *gorm.DB, o *model.OrdenHistorica) error {
	if _, ok := r.ordenes[o.ID]; ok {
		return errors.New("duplicate key")
	}
	r.ordenes[o.ID] = o
	r.creates++
	return nil
}

func (r *stubHistorialRepo) FindByID(_ context.Context, id uuid.UUID) (*model.OrdenHistorica, error) {
	o, ok := r.ordenes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubHistorialRepo) List(_ context.Context, _ dto.OrdenFilter) ([]model.OrdenHistorica, int64, error) {
	var out []model.OrdenHistorica
	for _, o := range r.ordenes {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubHistorialRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.ordenes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.ordenes, id)
	return nil
}

func (r *stubHistorialRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.ordenes)), nil
}

func (r *stubHistorialRepo) ListAll(_ context.Context) ([]model.OrdenHistorica, error) {
	var out []model.OrdenHistorica
	for _, o := range r.ordenes {
		out = append(out, *o)
	}
	return out, nil
}

var _ repository.HistorialRepository = (*stubHistorialRepo)(nil)

// stubGananciaRepo accumulates revenue buckets in a map.
type stubGananciaRepo struct {
	buckets map[string]decimal.Decimal
}

func newStubGananciaRepo() *stubGananciaRepo {
	return &stubGananciaRepo{buckets: make(map[string]decimal.Decimal)}
}

func (r *stubGananciaRepo) AcumularTx(_ *gorm.DB, fecha string, monto decimal.Decimal) error {
	if monto.IsNegative() {
		return repository.ErrMontoNegativo
	}
	r.buckets[fecha] = r.buckets[fecha].Add(monto)
	return nil
}

func (r *stubGananciaRepo) FindByFecha(_ context.Context, fecha string) (*model.GananciaDiaria, error) {
	monto, ok := r.buckets[fecha]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.GananciaDiaria{Fecha: fecha, Monto: monto}, nil
}

func (r *stubGananciaRepo) ListAll(_ context.Context) ([]model.GananciaDiaria, error) {
	fechas := make([]string, 0, len(r.buckets))
	for f := range r.buckets {
		fechas = append(fechas, f)
	}
	sort.Strings(fechas)
	out := make([]model.GananciaDiaria, 0, len(fechas))
	for _, f := range fechas {
		out = append(out, model.GananciaDiaria{Fecha: f, Monto: r.buckets[f]})
	}
	return out, nil
}

func (r *stubGananciaRepo) Sum(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.buckets {
		total = total.Add(m)
	}
	return total, nil
}

var _ repository.GananciaRepository = (*stubGananciaRepo)(nil)

// ── Fixture ──────────────────────────────────────────────────────────────────

type ordenFixture struct {
	repo      *stubOrdenRepo
	historial *stubHistorialRepo
	ganancias *stubGananciaRepo
	catalogo  *stubCatalogo
	convenios *stubConvenios
	svc       service.OrdenService
}

func newOrdenFixture() *ordenFixture {
	f := &ordenFixture{
		repo:      newStubOrdenRepo(),
		historial: newStubHistorialRepo(),
		ganancias: newStubGananciaRepo(),
		catalogo:  newStubCatalogo(),
		convenios: newStubConvenios(),
	}
	f.svc = service.NewOrdenService(f.repo, f.historial, f.ganancias, f.catalogo, f.convenios, nil)
	return f
}

func (f *ordenFixture) crearOrden(t *testing.T, req dto.CrearOrdenRequest) *dto.OrdenResponse {
	t.Helper()
	resp, err := f.svc.Crear(context.Background(), req)
	require.NoError(t, err)
	return resp
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func TestCrearOrden_RequiereAlMenosUnItem(t *testing.T) {
	f := newOrdenFixture()

	_, err := f.svc.Crear(context.Background(), dto.CrearOrdenRequest{
		PacienteID: uuid.NewString(),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "al menos un estudio o paquete")
}

func TestCrearOrden_NacePendienteConFechaDeHoy(t *testing.T) {
	f := newOrdenFixture()
	e := f.catalogo.addEstudio("QUI-001", "Glucosa", "Química clínica", "60.00")

	resp := f.crearOrden(t, dto.CrearOrdenRequest{
		PacienteID: uuid.NewString(),
		EstudioIDs: []string{e.ID.String()},
	})

	assert.Equal(t, model.EstadoPendiente, resp.Estado)
	assert.Equal(t, time.Now().Format("2006-01-02"), resp.FechaCreacion)
	assert.True(t, resp.TotalBruto.Equal(decimal.RequireFromString("60.00")))
}

func TestCrearOrden_TotalesConConvenio(t *testing.T) {
	f := newOrdenFixture()
	e1 := f.catalogo.addEstudio("QUI-001", "Glucosa", "Química clínica", "100.00")
	e2 := f.catalogo.addEstudio("URI-001", "Examen general de orina", "Urianálisis", "50.00")
	conv := f.convenios.add("IMSS", "10")
	convID := conv.ID.String()

	resp := f.crearOrden(t, dto.CrearOrdenRequest{
		PacienteID: uuid.NewString(),
		EstudioIDs: []string{e1.ID.String(), e2.ID.String()},
		ConvenioID: &convID,
	})

	assert.True(t, resp.TotalBruto.Equal(decimal.RequireFromString("150.00")), "bruto = %s", resp.TotalBruto)
	assert.True(t, resp.TotalFinal.Equal(decimal.RequireFromString("135.00")), "final = %s", resp.TotalFinal)
}

func TestCrearOrden_PacienteDesconocidoSinPreload(t *testing.T) {
	f := newOrdenFixture()
	e := f.catalogo.addEstudio("QUI-001", "Glucosa", "Química clínica", "60.00")

	resp := f.crearOrden(t, dto.CrearOrdenRequest{
		PacienteID: uuid.NewString(),
		EstudioIDs: []string{e.ID.String()},
	})

	assert.Equal(t, "Desconocido", resp.Paciente)
}

// ── Actualizar ───────────────────────────────────────────────────────────────

func TestActualizarOrden_NoTocaEstadoNiFechaNiPaciente(t *testing.T) {
	f := newOrdenFixture()
	e1 := f.catalogo.addEstudio("QUI-001", "Glucosa", "Química clínica", "60.00")
	e2 := f.catalogo.addEstudio("QUI-003", "Colesterol total", "Química clínica", "70.00")

	pacienteID := uuid.NewString()
	creada := f.crearOrden(t, dto.CrearOrdenRequest{
		PacienteID: pacienteID,
		EstudioIDs: []string{e1.ID.String()},
	})
	id := uuid.MustParse(creada.ID)

	actualizada, err := f.svc.Actualizar(context.Background(), id, dto.ActualizarOrdenRequest{
		EstudioIDs: []string{e2.ID.String()},
	})
	require.NoError(t, err)

	assert.Equal(t, model.EstadoPendiente, actualizada.Estado)
	assert.Equal(t, creada.FechaCreacion, actualizada.FechaCreacion)
	assert.Equal(t, pacienteID, actualizada.PacienteID)
	require.Len(t, actualizada.Items, 1)
	assert.Equal(t, "QUI-003", actualizada.Items[0].Codigo)
	assert.True(t, actualizada.TotalBruto.Equal(decimal.RequireFromString("70.00")))
}

func TestActualizarOrden_SoloPendientes(t *testing.T) {
	f := newOrdenFixture()
	e := f.catalogo.addEstudio("QUI-001", "Glucosa", "Química clínica", "60.00")
	creada := f.crearOrden(t, dto.CrearOrdenRequest{
		PacienteID: uuid.NewString(),
		EstudioIDs: []string{e.ID.String()},
	})
	id := uuid.MustParse(creada.ID)

	_, err := f.svc.CambiarEstado(context.Background(), id, model.EstadoCompletado)
	require.NoError(t, err)

	_, err = f.svc.Actualizar(context.Background(), id, dto.ActualizarOrdenRequest{
		EstudioIDs: []string{e.ID.String()},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pendientes")
}

func TestActualizarOrden_RequiereAlMenosUnItem(t *testing.T) {
	f := newOrdenFixture()
	e := f.catalogo.addEstudio("QUI-001", "Glucosa", "Química clínica", "60.00")
	creada := f.crearOrden(t, dto.CrearOrdenRequest{
		PacienteID: uuid.NewString(),
		EstudioIDs: []string{e.ID.String()},
	})

	_, err := f.svc.Actualizar(context.Background(), uuid.MustParse(creada.ID), dto.ActualizarOrdenRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "al menos un estudio o paquete")
}

// ── CambiarEstado ────────────────────────────────────────────────────────────

func TestCambiarEstado_Transiciones(t *testing.T) {
	casos := []struct {
		desde  string
		hacia  string
		valida bool
	}{
		{model.EstadoPendiente, model.EstadoCompletado, true},
		{model.EstadoPendiente, model.EstadoCancelado, true},
		{model.EstadoPendiente, model.EstadoEntregado, false},
		{model.EstadoCompletado, model.EstadoEntregado, true},
		{model.EstadoCompletado, model.EstadoCancelado, true},
		{model.EstadoCompletado, model.EstadoPendiente, false},
		{model.EstadoCancelado, model.EstadoPendiente, false},
		{model.EstadoCancelado, model.EstadoEntregado, false},
		{model.EstadoEntregado, model.EstadoCancelado, false},
	}
	for _, c := range casos {
		assert.Equal(t, c.valida, model.TransicionValida(c.desde, c.hacia),
			"%s → %s", c.desde, c.hacia)
	}
}

func TestCambiarEstado_TransicionInvalidaRechazada(t *testing.T) {
	f := newOrdenFixture()
	e := f.catalogo.addEstudio("QUI-001", "Glucosa", "Química clínica", "60.00")
	creada := f.crearOrden(t, dto.CrearOrdenRequest{
		PacienteID: uuid.NewString(),
		EstudioIDs: []string{e.ID.String()},
	})
	id := uuid.MustParse(creada.ID)

	// pendiente → entregado salta la etapa de proceso
	_, err := f.svc.CambiarEstado(context.Background(), id, model.EstadoEntregado)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transición de estado inválida")

	// La orden sigue intacta.
	orden, err := f.repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoPendiente, orden.Estado)
}

func TestCambiarEstado_CanceladoNoTocaGanancias(t *testing.T) {
	f := newOrdenFixture()
	e := f.catalogo.addEstudio("QUI-001", "Glucosa", "Química clínica", "60.00")
	creada := f.crearOrden(t, dto.CrearOrdenRequest{
		PacienteID: uuid.NewString(),
		EstudioIDs: []string{e.ID.String()},
	})

	_, err := f.svc.CambiarEstado(context.Background(), uuid.MustParse(creada.ID), model.EstadoCancelado)
	require.NoError(t, err)

	total, err := f.ganancias.Sum(context.Background())
	require.NoError(t, err)
	assert.True(t, total.IsZero())
	n, _ := f.historial.Count(context.Background())
	assert.Zero(t, n)
}

// ── Entrega ──────────────────────────────────────────────────────────────────

func entregarOrden(t *testing.T, f *ordenFixture, id uuid.UUID) *dto.OrdenResponse {
	t.Helper()
	_, err := f.svc.CambiarEstado(context.Background(), id, model.EstadoCompletado)
	require.NoError(t, err)
	resp, err := f.svc.CambiarEstado(context.Background(), id, model.EstadoEntregado)
	require.NoError(t, err)
	return resp
}

func TestEntregar_ArchivaYAcreditaGanancia(t *testing.T) {
	f := newOrdenFixture()
	e1 := f.catalogo.addEstudio("QUI-001", "Glucosa", "Química clínica", "100.00")
	e2 := f.catalogo.addEstudio("URI-001", "Examen general de orina", "Urianálisis", "50.00")
	conv := f.convenios.add("IMSS", "10")
	convID := conv.ID.String()

	creada := f.crearOrden(t, dto.CrearOrdenRequest{
		PacienteID: uuid.NewString(),
		EstudioIDs: []string{e1.ID.String(), e2.ID.String()},
		ConvenioID: &convID,
	})
	id := uuid.MustParse(creada.ID)

	resp := entregarOrden(t, f, id)
	assert.Equal(t, model.EstadoEntregado, resp.Estado)

	// Pasó al archivo con los totales congelados al momento de la entrega.
	hist, err := f.historial.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, hist.TotalBruto.Equal(decimal.RequireFromString("150.00")), "bruto = %s", hist.TotalBruto)
	assert.True(t, hist.TotalFinal.Equal(decimal.RequireFromString("135.00")), "final = %s", hist.TotalFinal)
	assert.Equal(t, time.Now().Format("2006-01-02"), hist.FechaEntrega)

	// El balde de ganancias del día de la entrega recibe el total final.
	bucket, err := f.ganancias.FindByFecha(context.Background(), hist.FechaEntrega)
	require.NoError(t, err)
	assert.True(t, bucket.Monto.Equal(decimal.RequireFromString("135.00")), "monto = %s", bucket.Monto)

	// Y desaparece del conjunto activo.
	_, err = f.repo.FindByID(context.Background(), id)
	assert.Error(t, err)
}

func TestEntregar_Idempotente(t *testing.T) {
	f := newOrdenFixture()
	e := f.catalogo.addEstudio("QUI-001", "Glucosa", "Química clínica", "100.00")

	creada := f.crearOrden(t, dto.CrearOrdenRequest{
		PacienteID: uuid.NewString(),
		EstudioIDs: []string{e.ID.String()},
	})
	id := uuid.MustParse(creada.ID)
	entregarOrden(t, f, id)

	// Simula una entrega re-invocada: la orden sigue en el conjunto activo
	// (p.ej. el borrado no llegó a confirmarse) pero el archivo ya la tiene.
	pacienteID := uuid.New()
	f.repo.ordenes[id] = &model.Orden{
		ID:            id,
		PacienteID:    pacienteID,
		FechaCreacion: time.Now().Format("2006-01-02"),
		Estado:        model.EstadoCompletado,
		Items:         []model.OrdenItem{{OrdenID: id, Tipo: model.ItemEstudio, ItemID: e.ID}},
	}
	_, err := f.svc.CambiarEstado(context.Background(), id, model.EstadoEntregado)
	require.NoError(t, err)

	// Ni segundo archivo ni segundo crédito, pero la orden sí se retira.
	assert.Equal(t, 1, f.historial.creates)
	total, _ := f.ganancias.Sum(context.Background())
	assert.True(t, total.Equal(decimal.RequireFromString("100.00")), "total = %s", total)
	_, err = f.repo.FindByID(context.Background(), id)
	assert.Error(t, err)
}

func TestEntregar_PreciosVigentesAlMomentoDeEntrega(t *testing.T) {
	f := newOrdenFixture()
	e := f.catalogo.addEstudio("QUI-001", "Glucosa", "Química clínica", "60.00")

	creada := f.crearOrden(t, dto.CrearOrdenRequest{
		PacienteID: uuid.NewString(),
		EstudioIDs: []string{e.ID.String()},
	})
	id := uuid.MustParse(creada.ID)

	// El precio cambia entre la creación y la entrega.
	e.Precio = decimal.RequireFromString("80.00")

	entregarOrden(t, f, id)

	hist, err := f.historial.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, hist.TotalFinal.Equal(decimal.RequireFromString("80.00")), "final = %s", hist.TotalFinal)
}

// ── Eliminar historial ───────────────────────────────────────────────────────

func TestEliminarHistorial_NoReviertesGanancia(t *testing.T) {
	f := newOrdenFixture()
	e := f.catalogo.addEstudio("QUI-001", "Glucosa", "Química clínica", "100.00")
	creada := f.crearOrden(t, dto.CrearOrdenRequest{
		PacienteID: uuid.NewString(),
		EstudioIDs: []string{e.ID.String()},
	})
	id := uuid.MustParse(creada.ID)
	entregarOrden(t, f, id)

	histSvc := service.NewHistorialService(f.historial, f.catalogo, f.convenios, t.TempDir(), "JovaLabs")
	require.NoError(t, histSvc.Eliminar(context.Background(), id))

	// El archivo queda vacío pero el libro de ganancias no retrocede.
	n, _ := f.historial.Count(context.Background())
	assert.Zero(t, n)
	total, _ := f.ganancias.Sum(context.Background())
	assert.True(t, total.Equal(decimal.RequireFromString("100.00")), "total = %s", total)
}

// ── Eliminar orden activa ────────────────────────────────────────────────────

func TestEliminarOrdenActiva_SinRastroHistorico(t *testing.T) {
	f := newOrdenFixture()
	e := f.catalogo.addEstudio("QUI-001", "Glucosa", "Química clínica", "100.00")
	creada := f.crearOrden(t, dto.CrearOrdenRequest{
		PacienteID: uuid.NewString(),
		EstudioIDs: []string{e.ID.String()},
	})
	id := uuid.MustParse(creada.ID)

	require.NoError(t, f.svc.Eliminar(context.Background(), id))

	_, err := f.repo.FindByID(context.Background(), id)
	assert.Error(t, err)
	n, _ := f.historial.Count(context.Background())
	assert.Zero(t, n)
	total, _ := f.ganancias.Sum(context.Background())
	assert.True(t, total.IsZero())
}

// ── Preview ──────────────────────────────────────────────────────────────────

func TestPreview_CoincideConTotalesDeEntrega(t *testing.T) {
	f := newOrdenFixture()
	e1 := f.catalogo.addEstudio("QUI-001", "Glucosa", "Química clínica", "100.00")
	p := f.catalogo.addPaquete("PKG-006", "RIESGO CARDÍACO", "400.00")
	conv := f.convenios.add("IMSS", "15")
	convID := conv.ID.String()

	preview, err := f.svc.Preview(context.Background(), dto.PrecioPreviewRequest{
		EstudioIDs: []string{e1.ID.String()},
		PaqueteIDs: []string{p.ID.String()},
		ConvenioID: &convID,
	})
	require.NoError(t, err)
	assert.True(t, preview.TotalBruto.Equal(decimal.RequireFromString("500.00")))
	assert.True(t, preview.TotalFinal.Equal(decimal.RequireFromString("425.00")))
	assert.True(t, preview.Descuento.Equal(decimal.RequireFromString("75.00")))

	creada := f.crearOrden(t, dto.CrearOrdenRequest{
		PacienteID: uuid.NewString(),
		EstudioIDs: []string{e1.ID.String()},
		PaqueteIDs: []string{p.ID.String()},
		ConvenioID: &convID,
	})
	entregada := entregarOrden(t, f, uuid.MustParse(creada.ID))

	assert.True(t, preview.TotalFinal.Equal(entregada.TotalFinal),
		"preview %s vs entrega %s", preview.TotalFinal, entregada.TotalFinal)
}

// ── Libro de ganancias ───────────────────────────────────────────────────────

func TestAcumularTx_RechazaMontoNegativo(t *testing.T) {
	// El guard corre antes de tocar la transacción, así que el repositorio
	// real se puede ejercitar sin base de datos.
	repo := repository.NewGananciaRepository(nil)

	err := repo.AcumularTx(nil, "2026-08-29", decimal.RequireFromString("-50.00"))

	assert.ErrorIs(t, err, repository.ErrMontoNegativo)
}

func TestAcumularTx_MontoNegativoNoTocaElLibro(t *testing.T) {
	stub := newStubGananciaRepo()
	require.NoError(t, stub.AcumularTx(nil, "2026-08-29", decimal.RequireFromString("100.00")))

	err := stub.AcumularTx(nil, "2026-08-29", decimal.RequireFromString("-30.00"))

	assert.ErrorIs(t, err, repository.ErrMontoNegativo)
	total, _ := stub.Sum(context.Background())
	assert.True(t, total.Equal(decimal.RequireFromString("100.00")), "total = %s", total)
}

// ── Códigos de estado HTTP ───────────────────────────────────────────────────

func TestCambiarEstadoHTTP_OrdenInexistenteDevuelve404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newOrdenFixture()
	h := handler.NewOrdenesHandler(f.svc)
	r := gin.New()
	r.PUT("/v1/ordenes/:id/estado", h.CambiarEstado)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v1/ordenes/"+uuid.NewString()+"/estado",
		strings.NewReader(`{"estado":"completado"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCambiarEstadoHTTP_TransicionInvalidaDevuelve409(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newOrdenFixture()
	e := f.catalogo.addEstudio("QUI-001", "Glucosa", "Química clínica", "100.00")
	creada := f.crearOrden(t, dto.CrearOrdenRequest{
		PacienteID: uuid.NewString(),
		EstudioIDs: []string{e.ID.String()},
	})
	h := handler.NewOrdenesHandler(f.svc)
	r := gin.New()
	r.PUT("/v1/ordenes/:id/estado", h.CambiarEstado)

	// pendiente → entregado no está permitido.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v1/ordenes/"+creada.ID+"/estado",
		strings.NewReader(`{"estado":"entregado"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
