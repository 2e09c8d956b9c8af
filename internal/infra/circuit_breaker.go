package infra

// circuit_breaker.go — corta los envíos al servidor de respaldo cuando
// encadena fallas (cerrado → abierto → semiabierto). Mientras el corte
// está abierto los trabajos de respaldo fallan rápido y terminan en la
// DLQ en lugar de colgar el pool esperando timeouts del servidor caído.

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// EstadoRespaldo is the current state of the backup cutoff.
type EstadoRespaldo int

const (
	RespaldoCerrado     EstadoRespaldo = iota // operación normal, los envíos pasan
	RespaldoAbierto                           // cortado — todo envío falla de inmediato
	RespaldoSemiabierto                       // sondeo — se permite un envío de prueba
)

// String returns the state name used in logs and the health endpoint.
func (s EstadoRespaldo) String() string {
	switch s {
	case RespaldoCerrado:
		return "cerrado"
	case RespaldoAbierto:
		return "abierto"
	case RespaldoSemiabierto:
		return "semiabierto"
	default:
		return "desconocido"
	}
}

// ErrRespaldoSuspendido is returned while the cutoff is open.
var ErrRespaldoSuspendido = errors.New("envíos de respaldo suspendidos por fallas consecutivas")

// RespaldoBreakerConfig holds the cutoff tuning.
type RespaldoBreakerConfig struct {
	UmbralFallas    int           // consecutive failures before cutting off (default: 5)
	UmbralExitos    int           // consecutive probe successes before resuming (default: 2)
	EsperaReintento time.Duration // how long to stay cut off before probing (default: 60s)
}

// DefaultRespaldoBreakerConfig returns the defaults used by the server.
func DefaultRespaldoBreakerConfig() RespaldoBreakerConfig {
	return RespaldoBreakerConfig{
		UmbralFallas:    5,
		UmbralExitos:    2,
		EsperaReintento: 60 * time.Second,
	}
}

// RespaldoBreaker guards the backup push with thread-safe state
// transitions.
type RespaldoBreaker struct {
	mu              sync.Mutex
	estado          EstadoRespaldo
	fallas          int
	exitos          int
	ultimaFalla     time.Time
	umbralFallas    int
	umbralExitos    int
	esperaReintento time.Duration
}

// NewRespaldoBreaker creates the cutoff in the closed (passing) state.
func NewRespaldoBreaker(cfg RespaldoBreakerConfig) *RespaldoBreaker {
	if cfg.UmbralFallas <= 0 {
		cfg.UmbralFallas = 5
	}
	if cfg.UmbralExitos <= 0 {
		cfg.UmbralExitos = 2
	}
	if cfg.EsperaReintento <= 0 {
		cfg.EsperaReintento = 60 * time.Second
	}
	return &RespaldoBreaker{
		estado:          RespaldoCerrado,
		umbralFallas:    cfg.UmbralFallas,
		umbralExitos:    cfg.UmbralExitos,
		esperaReintento: cfg.EsperaReintento,
	}
}

// Estado returns the current state (safe for concurrent reads). An open
// cutoff whose wait elapsed moves to semiabierto here, before the caller
// decides whether to send.
func (b *RespaldoBreaker) Estado() EstadoRespaldo {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.estado == RespaldoAbierto && time.Since(b.ultimaFalla) >= b.esperaReintento {
		b.transicion(RespaldoSemiabierto)
		b.exitos = 0
	}
	return b.estado
}

// Ejecutar runs fn through the cutoff. Returns ErrRespaldoSuspendido
// immediately while cut off.
func (b *RespaldoBreaker) Ejecutar(fn func() error) error {
	if b.Estado() == RespaldoAbierto {
		return ErrRespaldoSuspendido
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.registrarFalla()
		return err
	}
	b.registrarExito()
	return nil
}

// registrarFalla must be called under lock.
func (b *RespaldoBreaker) registrarFalla() {
	b.fallas++
	b.ultimaFalla = time.Now()

	switch b.estado {
	case RespaldoCerrado:
		if b.fallas >= b.umbralFallas {
			b.transicion(RespaldoAbierto)
			b.exitos = 0
		}
	case RespaldoSemiabierto:
		// La prueba falló — de vuelta al corte
		b.transicion(RespaldoAbierto)
		b.fallas = 0
	}
}

// registrarExito must be called under lock.
func (b *RespaldoBreaker) registrarExito() {
	switch b.estado {
	case RespaldoCerrado:
		b.fallas = 0
	case RespaldoSemiabierto:
		b.exitos++
		if b.exitos >= b.umbralExitos {
			b.transicion(RespaldoCerrado)
			b.fallas = 0
			b.exitos = 0
		}
	}
}

// transicion must be called under lock.
func (b *RespaldoBreaker) transicion(nuevo EstadoRespaldo) {
	log.Warn().
		Str("componente", "respaldo").
		Str("desde", b.estado.String()).
		Str("hacia", nuevo.String()).
		Msg("circuito de respaldo cambió de estado")
	b.estado = nuevo
}
