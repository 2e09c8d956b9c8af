package service

import (
	"context"
	"time"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/repository"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/worker"

	"gorm.io/gorm"
)

type DatosService interface {
	// Exportar produces a full-state snapshot of every collection.
	Exportar(ctx context.Context) (*dto.Snapshot, error)
	// Importar replaces the current state with the snapshot's, atomically.
	Importar(ctx context.Context, snap *dto.Snapshot) error
	// ProgramarRespaldo enqueues an async push of the current snapshot to
	// the configured remote backup endpoint.
	ProgramarRespaldo(ctx context.Context) error
}

type datosService struct {
	db         *gorm.DB
	pacientes  repository.PacienteRepository
	estudios   repository.EstudioRepository
	paquetes   repository.PaqueteRepository
	convenios  repository.ConvenioRepository
	ordenes    repository.OrdenRepository
	historial  repository.HistorialRepository
	ganancias  repository.GananciaRepository
	dispatcher *worker.Dispatcher
}

func NewDatosService(
	db *gorm.DB,
	pacientes repository.PacienteRepository,
	estudios repository.EstudioRepository,
	paquetes repository.PaqueteRepository,
	convenios repository.ConvenioRepository,
	ordenes repository.OrdenRepository,
	historial repository.HistorialRepository,
	ganancias repository.GananciaRepository,
	dispatcher *worker.Dispatcher,
) DatosService {
	return &datosService{
		db:         db,
		pacientes:  pacientes,
		estudios:   estudios,
		paquetes:   paquetes,
		convenios:  convenios,
		ordenes:    ordenes,
		historial:  historial,
		ganancias:  ganancias,
		dispatcher: dispatcher,
	}
}

func (s *datosService) Exportar(ctx context.Context) (*dto.Snapshot, error) {
	pacientes, err := s.pacientes.List(ctx, "")
	if err != nil {
		return nil, err
	}
	estudios, err := s.estudios.List(ctx, true)
	if err != nil {
		return nil, err
	}
	paquetes, err := s.paquetes.List(ctx, true)
	if err != nil {
		return nil, err
	}
	convenios, err := s.convenios.List(ctx, true)
	if err != nil {
		return nil, err
	}
	ordenes, err := s.ordenes.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	historicas, err := s.historial.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ganancias, err := s.ganancias.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.Snapshot{
		ExportadoEn:       time.Now().Format(time.RFC3339),
		Pacientes:         pacientes,
		Estudios:          estudios,
		Paquetes:          paquetes,
		Convenios:         convenios,
		Ordenes:           ordenes,
		OrdenesHistoricas: historicas,
		GananciasDiarias:  ganancias,
	}, nil
}

// Importar wipes every collection and loads the snapshot's rows in one
// transaction. A failed import leaves the previous state intact.
func (s *datosService) Importar(ctx context.Context, snap *dto.Snapshot) error {
	return runTx(ctx, s.db, func(tx *gorm.DB) error {
		// Children before parents, so foreign keys never dangle mid-wipe.
		for _, m := range []interface{}{
			&model.OrdenItem{}, &model.Orden{},
			&model.OrdenHistoricaItem{}, &model.OrdenHistorica{},
			&model.PaqueteEstudio{}, &model.Paquete{},
			&model.Estudio{}, &model.Convenio{}, &model.Paciente{},
			&model.GananciaDiaria{},
		} {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return err
			}
		}

		if len(snap.Pacientes) > 0 {
			if err := tx.Create(&snap.Pacientes).Error; err != nil {
				return err
			}
		}
		if len(snap.Estudios) > 0 {
			if err := tx.Create(&snap.Estudios).Error; err != nil {
				return err
			}
		}
		if len(snap.Convenios) > 0 {
			if err := tx.Create(&snap.Convenios).Error; err != nil {
				return err
			}
		}
		if len(snap.Paquetes) > 0 {
			if err := tx.Create(&snap.Paquetes).Error; err != nil {
				return err
			}
		}
		if len(snap.Ordenes) > 0 {
			if err := tx.Create(&snap.Ordenes).Error; err != nil {
				return err
			}
		}
		if len(snap.OrdenesHistoricas) > 0 {
			if err := tx.Create(&snap.OrdenesHistoricas).Error; err != nil {
				return err
			}
		}
		if len(snap.GananciasDiarias) > 0 {
			if err := tx.Create(&snap.GananciasDiarias).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *datosService) ProgramarRespaldo(ctx context.Context) error {
	if s.dispatcher == nil {
		return nil
	}
	return s.dispatcher.EnqueueRespaldo(ctx)
}
