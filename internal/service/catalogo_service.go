package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ErrCatalogoFijo is returned when a client tries to edit or delete a seed
// catalog entry.
var ErrCatalogoFijo = errors.New("Los elementos fijos del catálogo no pueden modificarse ni eliminarse")

type CatalogoService interface {
	// Estudios
	CrearEstudio(ctx context.Context, req dto.CrearEstudioRequest) (*dto.EstudioResponse, error)
	ObtenerEstudio(ctx context.Context, id uuid.UUID) (*dto.EstudioResponse, error)
	ListarEstudios(ctx context.Context, incluirInactivos bool) ([]dto.EstudioResponse, error)
	ActualizarEstudio(ctx context.Context, id uuid.UUID, req dto.ActualizarEstudioRequest, usuarioID *uuid.UUID) (*dto.EstudioResponse, error)
	EliminarEstudio(ctx context.Context, id uuid.UUID) error

	// Paquetes
	CrearPaquete(ctx context.Context, req dto.CrearPaqueteRequest) (*dto.PaqueteResponse, error)
	ObtenerPaquete(ctx context.Context, id uuid.UUID) (*dto.PaqueteResponse, error)
	ListarPaquetes(ctx context.Context, incluirInactivos bool) ([]dto.PaqueteResponse, error)
	ActualizarPaquete(ctx context.Context, id uuid.UUID, req dto.ActualizarPaqueteRequest, usuarioID *uuid.UUID) (*dto.PaqueteResponse, error)
	EliminarPaquete(ctx context.Context, id uuid.UUID) error

	// Categorías
	CrearCategoria(ctx context.Context, req dto.CategoriaRequest) (*dto.CategoriaResponse, error)
	ListarCategorias(ctx context.Context) ([]dto.CategoriaResponse, error)
	ActualizarCategoria(ctx context.Context, id uuid.UUID, req dto.CategoriaRequest) (*dto.CategoriaResponse, error)
	EliminarCategoria(ctx context.Context, id uuid.UUID) error

	// ConsultarPrecio resolves a study or package code to its public price.
	ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPreciosResponse, error)
	HistorialPrecios(ctx context.Context, itemTipo string, itemID uuid.UUID) ([]dto.HistorialPrecioResponse, error)

	// SeedInicial loads the fixed base catalog on an empty database.
	SeedInicial(ctx context.Context) error
}

type catalogoService struct {
	estudios   repository.EstudioRepository
	paquetes   repository.PaqueteRepository
	categorias repository.CategoriaRepository
	precios    repository.HistorialPrecioRepository
}

func NewCatalogoService(
	estudios repository.EstudioRepository,
	paquetes repository.PaqueteRepository,
	categorias repository.CategoriaRepository,
	precios repository.HistorialPrecioRepository,
) CatalogoService {
	return &catalogoService{
		estudios:   estudios,
		paquetes:   paquetes,
		categorias: categorias,
		precios:    precios,
	}
}

// ── Estudios ─────────────────────────────────────────────────────────────────

func (s *catalogoService) CrearEstudio(ctx context.Context, req dto.CrearEstudioRequest) (*dto.EstudioResponse, error) {
	if existente, err := s.estudios.FindByCodigo(ctx, req.Codigo); err == nil && existente != nil {
		return nil, fmt.Errorf("ya existe un estudio con código %s", req.Codigo)
	}
	e := model.Estudio{
		Codigo:    req.Codigo,
		Nombre:    req.Nombre,
		Categoria: req.Categoria,
		Precio:    req.Precio.Round(2),
		Fijo:      false,
		Activo:    true,
	}
	if err := s.estudios.Create(ctx, &e); err != nil {
		return nil, err
	}
	return estudioToResponse(&e), nil
}

func (s *catalogoService) ObtenerEstudio(ctx context.Context, id uuid.UUID) (*dto.EstudioResponse, error) {
	e, err := s.estudios.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("estudio no encontrado")
	}
	return estudioToResponse(e), nil
}

func (s *catalogoService) ListarEstudios(ctx context.Context, incluirInactivos bool) ([]dto.EstudioResponse, error) {
	estudios, err := s.estudios.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EstudioResponse, 0, len(estudios))
	for i := range estudios {
		out = append(out, *estudioToResponse(&estudios[i]))
	}
	return out, nil
}

func (s *catalogoService) ActualizarEstudio(ctx context.Context, id uuid.UUID, req dto.ActualizarEstudioRequest, usuarioID *uuid.UUID) (*dto.EstudioResponse, error) {
	e, err := s.estudios.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("estudio no encontrado")
	}
	if e.Fijo {
		return nil, ErrCatalogoFijo
	}
	if req.Nombre != nil {
		e.Nombre = *req.Nombre
	}
	if req.Categoria != nil {
		e.Categoria = *req.Categoria
	}
	if req.Precio != nil {
		nuevo := req.Precio.Round(2)
		if !nuevo.Equal(e.Precio) {
			s.registrarCambioPrecio(ctx, model.PrecioItemEstudio, e.ID, e.Precio, nuevo, usuarioID)
			e.Precio = nuevo
		}
	}
	if err := s.estudios.Update(ctx, e); err != nil {
		return nil, err
	}
	return estudioToResponse(e), nil
}

func (s *catalogoService) EliminarEstudio(ctx context.Context, id uuid.UUID) error {
	e, err := s.estudios.FindByID(ctx, id)
	if err != nil {
		return errors.New("estudio no encontrado")
	}
	if e.Fijo {
		return ErrCatalogoFijo
	}
	return s.estudios.SoftDelete(ctx, id)
}

// ── Paquetes ─────────────────────────────────────────────────────────────────

func (s *catalogoService) CrearPaquete(ctx context.Context, req dto.CrearPaqueteRequest) (*dto.PaqueteResponse, error) {
	if existente, err := s.paquetes.FindByCodigo(ctx, req.Codigo); err == nil && existente != nil {
		return nil, fmt.Errorf("ya existe un paquete con código %s", req.Codigo)
	}
	estudioIDs, err := parseUUIDs(req.EstudioIDs)
	if err != nil {
		return nil, fmt.Errorf("estudio_ids inválidos: %w", err)
	}
	p := model.Paquete{
		Codigo:      req.Codigo,
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Precio:      req.Precio.Round(2),
		Fijo:        false,
		Activo:      true,
	}
	if err := s.paquetes.Create(ctx, &p); err != nil {
		return nil, err
	}
	if err := s.paquetes.ReplaceEstudios(ctx, p.ID, estudioIDs); err != nil {
		return nil, err
	}
	return s.ObtenerPaquete(ctx, p.ID)
}

func (s *catalogoService) ObtenerPaquete(ctx context.Context, id uuid.UUID) (*dto.PaqueteResponse, error) {
	p, err := s.paquetes.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("paquete no encontrado")
	}
	return paqueteToResponse(p), nil
}

func (s *catalogoService) ListarPaquetes(ctx context.Context, incluirInactivos bool) ([]dto.PaqueteResponse, error) {
	paquetes, err := s.paquetes.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaqueteResponse, 0, len(paquetes))
	for i := range paquetes {
		out = append(out, *paqueteToResponse(&paquetes[i]))
	}
	return out, nil
}

func (s *catalogoService) ActualizarPaquete(ctx context.Context, id uuid.UUID, req dto.ActualizarPaqueteRequest, usuarioID *uuid.UUID) (*dto.PaqueteResponse, error) {
	p, err := s.paquetes.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("paquete no encontrado")
	}
	if p.Fijo {
		return nil, ErrCatalogoFijo
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.Precio != nil {
		nuevo := req.Precio.Round(2)
		if !nuevo.Equal(p.Precio) {
			s.registrarCambioPrecio(ctx, model.PrecioItemPaquete, p.ID, p.Precio, nuevo, usuarioID)
			p.Precio = nuevo
		}
	}
	if err := s.paquetes.Update(ctx, p); err != nil {
		return nil, err
	}
	if len(req.EstudioIDs) > 0 {
		estudioIDs, err := parseUUIDs(req.EstudioIDs)
		if err != nil {
			return nil, fmt.Errorf("estudio_ids inválidos: %w", err)
		}
		if err := s.paquetes.ReplaceEstudios(ctx, p.ID, estudioIDs); err != nil {
			return nil, err
		}
	}
	return s.ObtenerPaquete(ctx, p.ID)
}

func (s *catalogoService) EliminarPaquete(ctx context.Context, id uuid.UUID) error {
	p, err := s.paquetes.FindByID(ctx, id)
	if err != nil {
		return errors.New("paquete no encontrado")
	}
	if p.Fijo {
		return ErrCatalogoFijo
	}
	return s.paquetes.SoftDelete(ctx, id)
}

// ── Categorías ───────────────────────────────────────────────────────────────

func (s *catalogoService) CrearCategoria(ctx context.Context, req dto.CategoriaRequest) (*dto.CategoriaResponse, error) {
	c := model.Categoria{Nombre: req.Nombre, Descripcion: req.Descripcion, Activo: true}
	if err := s.categorias.Create(ctx, &c); err != nil {
		return nil, err
	}
	return categoriaToResponse(&c), nil
}

func (s *catalogoService) ListarCategorias(ctx context.Context) ([]dto.CategoriaResponse, error) {
	cats, err := s.categorias.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoriaResponse, 0, len(cats))
	for i := range cats {
		out = append(out, *categoriaToResponse(&cats[i]))
	}
	return out, nil
}

func (s *catalogoService) ActualizarCategoria(ctx context.Context, id uuid.UUID, req dto.CategoriaRequest) (*dto.CategoriaResponse, error) {
	c, err := s.categorias.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("categoría no encontrada")
	}
	c.Nombre = req.Nombre
	c.Descripcion = req.Descripcion
	if err := s.categorias.Update(ctx, c); err != nil {
		return nil, err
	}
	return categoriaToResponse(c), nil
}

func (s *catalogoService) EliminarCategoria(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categorias.FindByID(ctx, id); err != nil {
		return errors.New("categoría no encontrada")
	}
	return s.categorias.SoftDelete(ctx, id)
}

// ── Consulta de precios ──────────────────────────────────────────────────────

func (s *catalogoService) ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPreciosResponse, error) {
	if e, err := s.estudios.FindByCodigo(ctx, codigo); err == nil {
		return &dto.ConsultaPreciosResponse{
			Codigo:    e.Codigo,
			Nombre:    e.Nombre,
			Tipo:      model.ItemEstudio,
			Categoria: e.Categoria,
			Precio:    e.Precio,
		}, nil
	}
	if p, err := s.paquetes.FindByCodigo(ctx, codigo); err == nil {
		return &dto.ConsultaPreciosResponse{
			Codigo: p.Codigo,
			Nombre: p.Nombre,
			Tipo:   model.ItemPaquete,
			Precio: p.Precio,
		}, nil
	}
	return nil, fmt.Errorf("código %s no encontrado", codigo)
}

func (s *catalogoService) HistorialPrecios(ctx context.Context, itemTipo string, itemID uuid.UUID) ([]dto.HistorialPrecioResponse, error) {
	registros, err := s.precios.ListByItem(ctx, itemTipo, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistorialPrecioResponse, 0, len(registros))
	for _, r := range registros {
		out = append(out, dto.HistorialPrecioResponse{
			ID:            r.ID.String(),
			ItemTipo:      r.ItemTipo,
			ItemID:        r.ItemID.String(),
			PrecioAntes:   r.PrecioAntes,
			PrecioDespues: r.PrecioDespues,
			CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// registrarCambioPrecio is best-effort: a failed audit write never blocks
// the price change itself.
func (s *catalogoService) registrarCambioPrecio(ctx context.Context, itemTipo string, itemID uuid.UUID, antes, despues decimal.Decimal, usuarioID *uuid.UUID) {
	err := s.precios.Create(ctx, &model.HistorialPrecio{
		ItemTipo:      itemTipo,
		ItemID:        itemID,
		PrecioAntes:   antes,
		PrecioDespues: despues,
		UsuarioID:     usuarioID,
	})
	if err != nil {
		log.Warn().Err(err).Str("item_id", itemID.String()).Msg("no se pudo registrar el cambio de precio")
	}
}

// ── Seed ─────────────────────────────────────────────────────────────────────

type seedEstudio struct {
	codigo    string
	nombre    string
	categoria string
	precio    string
}

type seedPaquete struct {
	codigo  string
	nombre  string
	precio  string
	incluye []string // study codes
}

var seedEstudios = []seedEstudio{
	{"HEM-001", "Biometría hemática", "Hematología", "120.00"},
	{"HEM-002", "Grupo sanguíneo y factor Rh", "Hematología", "100.00"},
	{"QUI-001", "Glucosa", "Química clínica", "60.00"},
	{"QUI-003", "Colesterol total", "Química clínica", "70.00"},
	{"QUI-006", "Triglicéridos", "Química clínica", "70.00"},
	{"QUI-007", "Ácido úrico", "Química clínica", "70.00"},
	{"INM-005", "HIV (anticuerpos)", "Inmunología", "180.00"},
	{"INM-006", "VDRL", "Inmunología", "100.00"},
	{"INM-010", "Reacciones febriles", "Inmunología", "130.00"},
	{"URI-001", "Examen general de orina", "Urianálisis", "80.00"},
	{"PAR-003", "Coproparasitoscópico 3 muestras", "Parasitología", "120.00"},
	{"PAR-004", "Coprológico", "Parasitología", "90.00"},
	{"COG-001", "Tiempo de protrombina", "Coagulación", "110.00"},
	{"COG-002", "Tiempo de tromboplastina", "Coagulación", "110.00"},
	{"MIC-016", "Cultivo de exudado faríngeo", "Microbiología", "220.00"},
	{"MAR-001", "Antígeno prostático", "Marcadores", "250.00"},
}

var seedPaquetes = []seedPaquete{
	{"PKG-001", "PRE-NATAL", "500.00", []string{"HEM-001", "HEM-002", "QUI-001", "URI-001", "INM-006", "INM-005"}},
	{"PKG-002", "PRE-OPERATORIO", "550.00", []string{"HEM-001", "HEM-002", "QUI-001", "COG-001", "COG-002", "URI-001"}},
	{"PKG-003", "GUARDERÍA", "500.00", []string{"HEM-001", "URI-001", "PAR-003", "MIC-016"}},
	{"PKG-004", "GENERAL ADULTO", "600.00", []string{"HEM-001", "QUI-001", "QUI-003", "QUI-006", "QUI-007", "URI-001"}},
	{"PKG-005", "INFANTIL", "500.00", []string{"HEM-001", "QUI-001", "URI-001", "PAR-004"}},
	{"PKG-006", "RIESGO CARDÍACO", "400.00", []string{"QUI-001", "QUI-003", "QUI-006"}},
}

// SeedInicial loads the base catalog when the database is empty. Seeded
// entries are marked Fijo so they cannot be edited or removed later.
func (s *catalogoService) SeedInicial(ctx context.Context) error {
	n, err := s.estudios.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	porCodigo := make(map[string]uuid.UUID, len(seedEstudios))
	for _, se := range seedEstudios {
		precio, err := decimal.NewFromString(se.precio)
		if err != nil {
			return fmt.Errorf("precio semilla inválido para %s: %w", se.codigo, err)
		}
		e := model.Estudio{
			Codigo:    se.codigo,
			Nombre:    se.nombre,
			Categoria: se.categoria,
			Precio:    precio,
			Fijo:      true,
			Activo:    true,
		}
		if err := s.estudios.Create(ctx, &e); err != nil {
			return err
		}
		porCodigo[se.codigo] = e.ID
	}

	for _, sp := range seedPaquetes {
		precio, err := decimal.NewFromString(sp.precio)
		if err != nil {
			return fmt.Errorf("precio semilla inválido para %s: %w", sp.codigo, err)
		}
		p := model.Paquete{
			Codigo: sp.codigo,
			Nombre: sp.nombre,
			Precio: precio,
			Fijo:   true,
			Activo: true,
		}
		if err := s.paquetes.Create(ctx, &p); err != nil {
			return err
		}
		var ids []uuid.UUID
		for _, codigo := range sp.incluye {
			if id, ok := porCodigo[codigo]; ok {
				ids = append(ids, id)
			}
		}
		if err := s.paquetes.ReplaceEstudios(ctx, p.ID, ids); err != nil {
			return err
		}
	}

	log.Info().Int("estudios", len(seedEstudios)).Int("paquetes", len(seedPaquetes)).
		Msg("catálogo base cargado")
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func estudioToResponse(e *model.Estudio) *dto.EstudioResponse {
	return &dto.EstudioResponse{
		ID:        e.ID.String(),
		Codigo:    e.Codigo,
		Nombre:    e.Nombre,
		Categoria: e.Categoria,
		Precio:    e.Precio,
		Fijo:      e.Fijo,
		Activo:    e.Activo,
	}
}

func paqueteToResponse(p *model.Paquete) *dto.PaqueteResponse {
	resp := &dto.PaqueteResponse{
		ID:          p.ID.String(),
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Precio:      p.Precio,
		Fijo:        p.Fijo,
		Activo:      p.Activo,
		Incluye:     []dto.EstudioResumen{},
	}
	for _, pe := range p.Estudios {
		if pe.Estudio == nil {
			continue
		}
		resp.Incluye = append(resp.Incluye, dto.EstudioResumen{
			ID:        pe.Estudio.ID.String(),
			Codigo:    pe.Estudio.Codigo,
			Nombre:    pe.Estudio.Nombre,
			Categoria: pe.Estudio.Categoria,
			Precio:    pe.Estudio.Precio,
		})
	}
	return resp
}

func categoriaToResponse(c *model.Categoria) *dto.CategoriaResponse {
	return &dto.CategoriaResponse{
		ID:          c.ID.String(),
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Activo:      c.Activo,
	}
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
