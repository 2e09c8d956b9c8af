package tests

import (
	"errors"
	"testing"
	"time"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Corte de envíos de respaldo ──────────────────────────────────────────────

func TestRespaldoBreaker_CortaTrasFallasConsecutivas(t *testing.T) {
	b := infra.NewRespaldoBreaker(infra.RespaldoBreakerConfig{
		UmbralFallas:    3,
		UmbralExitos:    1,
		EsperaReintento: time.Hour,
	})
	caido := errors.New("servidor de respaldo caído")

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, b.Ejecutar(func() error { return caido }), caido)
	}
	assert.Equal(t, infra.RespaldoAbierto, b.Estado())

	// Abierto: el envío ni siquiera se intenta.
	llamado := false
	err := b.Ejecutar(func() error { llamado = true; return nil })
	assert.ErrorIs(t, err, infra.ErrRespaldoSuspendido)
	assert.False(t, llamado)
}

func TestRespaldoBreaker_ReanudaTrasSondeoExitoso(t *testing.T) {
	b := infra.NewRespaldoBreaker(infra.RespaldoBreakerConfig{
		UmbralFallas:    1,
		UmbralExitos:    1,
		EsperaReintento: 10 * time.Millisecond,
	})
	require.Error(t, b.Ejecutar(func() error { return errors.New("falla") }))
	require.Equal(t, infra.RespaldoAbierto, b.Estado())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, infra.RespaldoSemiabierto, b.Estado())

	require.NoError(t, b.Ejecutar(func() error { return nil }))
	assert.Equal(t, infra.RespaldoCerrado, b.Estado())
}

func TestRespaldoBreaker_SondeoFallidoVuelveAlCorte(t *testing.T) {
	b := infra.NewRespaldoBreaker(infra.RespaldoBreakerConfig{
		UmbralFallas:    1,
		UmbralExitos:    2,
		EsperaReintento: 10 * time.Millisecond,
	})
	require.Error(t, b.Ejecutar(func() error { return errors.New("falla") }))

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, infra.RespaldoSemiabierto, b.Estado())

	require.Error(t, b.Ejecutar(func() error { return errors.New("sigue caído") }))
	assert.Equal(t, infra.RespaldoAbierto, b.Estado())
}
