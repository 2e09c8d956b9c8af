package dto

import "github.com/shopspring/decimal"

// DashboardResponse feeds the revenue dashboard. EstudiosPorMes counts
// performed studies per month and category over delivered orders, with
// package contents expanded into their included studies.
type DashboardResponse struct {
	OrdenesPendientes int64                      `json:"ordenes_pendientes"`
	OrdenesEntregadas int64                      `json:"ordenes_entregadas"`
	GananciasTotales  decimal.Decimal            `json:"ganancias_totales"`
	GananciasPorDia   map[string]decimal.Decimal `json:"ganancias_por_dia"`
	EstudiosPorMes    map[string]map[string]int  `json:"estudios_por_mes"`
}

// AgendaDia groups scheduled appointments of one calendar day.
type AgendaDia struct {
	Fecha string         `json:"fecha"` // YYYY-MM-DD
	Citas []CitaResponse `json:"citas"`
}

type CitaResponse struct {
	OrdenID  string  `json:"orden_id"`
	Paciente string  `json:"paciente"`
	Hora     *string `json:"hora,omitempty"`
	Estado   string  `json:"estado"`
}

type AgendaResponse struct {
	Mes  string      `json:"mes"` // YYYY-MM
	Dias []AgendaDia `json:"dias"`
}
