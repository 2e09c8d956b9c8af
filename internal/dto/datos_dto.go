package dto

import "github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"

// Snapshot is the full-state export/import envelope: every collection the
// clinic owns, in one JSON document. The same shape is pushed to the remote
// backup endpoint.
type Snapshot struct {
	ExportadoEn       string                 `json:"exportado_en"` // RFC 3339
	Pacientes         []model.Paciente       `json:"pacientes"`
	Estudios          []model.Estudio        `json:"estudios"`
	Paquetes          []model.Paquete        `json:"paquetes"`
	Convenios         []model.Convenio       `json:"convenios"`
	Ordenes           []model.Orden          `json:"ordenes"`
	OrdenesHistoricas []model.OrdenHistorica `json:"ordenes_historicas"`
	GananciasDiarias  []model.GananciaDiaria `json:"ganancias_diarias"`
}
