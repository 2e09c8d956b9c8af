package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/config"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/infra"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/repository"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/router"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/service"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Load the fixed base catalog on first boot
	estudioRepo := repository.NewEstudioRepository(db)
	paqueteRepo := repository.NewPaqueteRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	historialPrecioRepo := repository.NewHistorialPrecioRepository(db)
	catalogoSvc := service.NewCatalogoService(estudioRepo, paqueteRepo, categoriaRepo, historialPrecioRepo)
	if err := catalogoSvc.SeedInicial(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to seed base catalog")
	}

	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	respaldoClient := infra.NewRespaldoClient(cfg.BackupURL)
	respaldoBreaker := infra.NewRespaldoBreaker(infra.DefaultRespaldoBreakerConfig())
	dispatcher := worker.NewDispatcher(rdb)

	pacienteRepo := repository.NewPacienteRepository(db)
	convenioRepo := repository.NewConvenioRepository(db)
	ordenRepo := repository.NewOrdenRepository(db)
	historialRepo := repository.NewHistorialRepository(db)
	gananciaRepo := repository.NewGananciaRepository(db)
	datosSvc := service.NewDatosService(db, pacienteRepo, estudioRepo, paqueteRepo, convenioRepo,
		ordenRepo, historialRepo, gananciaRepo, dispatcher)

	workerHandlers := worker.WorkerHandlers{
		Recibo:   worker.NewReciboWorker(historialRepo, dispatcher, cfg.PDFStoragePath, cfg.NombreClinica),
		Email:    worker.NewEmailWorker(mailer),
		Respaldo: worker.NewRespaldoWorker(respaldoClient, respaldoBreaker, rdb, datosSvc.Exportar),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	worker.StartRecordatorioCron(ctx, worker.RecordatorioCronConfig{
		OrdenRepo:     ordenRepo,
		Dispatcher:    dispatcher,
		NombreClinica: cfg.NombreClinica,
	})

	r := router.New(cfg, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("JovaLabs backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
