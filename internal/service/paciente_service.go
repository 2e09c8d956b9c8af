package service

import (
	"context"
	"errors"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/repository"

	"github.com/google/uuid"
)

type PacienteService interface {
	Crear(ctx context.Context, req dto.CrearPacienteRequest) (*dto.PacienteResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PacienteResponse, error)
	Listar(ctx context.Context, busqueda string) ([]dto.PacienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPacienteRequest) (*dto.PacienteResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type pacienteService struct {
	repo repository.PacienteRepository
}

func NewPacienteService(repo repository.PacienteRepository) PacienteService {
	return &pacienteService{repo: repo}
}

func (s *pacienteService) Crear(ctx context.Context, req dto.CrearPacienteRequest) (*dto.PacienteResponse, error) {
	p := model.Paciente{
		Nombre:   req.Nombre,
		Apellido: req.Apellido,
		Telefono: req.Telefono,
		Email:    req.Email,
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return pacienteToResponse(&p), nil
}

func (s *pacienteService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PacienteResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("paciente no encontrado")
	}
	return pacienteToResponse(p), nil
}

func (s *pacienteService) Listar(ctx context.Context, busqueda string) ([]dto.PacienteResponse, error) {
	pacientes, err := s.repo.List(ctx, busqueda)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PacienteResponse, 0, len(pacientes))
	for i := range pacientes {
		out = append(out, *pacienteToResponse(&pacientes[i]))
	}
	return out, nil
}

func (s *pacienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPacienteRequest) (*dto.PacienteResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("paciente no encontrado")
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Apellido != nil {
		p.Apellido = *req.Apellido
	}
	if req.Telefono != nil {
		p.Telefono = *req.Telefono
	}
	if req.Email != nil {
		p.Email = req.Email
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return pacienteToResponse(p), nil
}

// Eliminar removes the patient record. Orders keep their paciente_id;
// resolvers render "Desconocido" for the dangling reference.
func (s *pacienteService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("paciente no encontrado")
	}
	return s.repo.Delete(ctx, id)
}

func pacienteToResponse(p *model.Paciente) *dto.PacienteResponse {
	return &dto.PacienteResponse{
		ID:       p.ID.String(),
		Nombre:   p.Nombre,
		Apellido: p.Apellido,
		Telefono: p.Telefono,
		Email:    p.Email,
	}
}
