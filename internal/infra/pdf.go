package infra

// pdf.go — payment receipt generation using go-pdf/fpdf.
// Generates receipt-style documents with:
//   - Clinic name header
//   - Order id and delivery date
//   - Line per study / package with its price
//   - Discount line (if a convenio applied)
//   - Bold final total
//
// The output file is saved to storagePath/recibo_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// ReciboLinea is one priced line on the receipt.
type ReciboLinea struct {
	Descripcion string
	Precio      decimal.Decimal
}

// ReciboData carries everything the receipt renders, already resolved —
// the generator never touches the database.
type ReciboData struct {
	OrdenID       string
	NombreClinica string
	Paciente      string
	Convenio      *string
	FechaEntrega  string
	Lineas        []ReciboLinea
	TotalBruto    decimal.Decimal
	Descuento     decimal.Decimal
	TotalFinal    decimal.Decimal
}

// ReciboDesdeOrden maps an archived order to its receipt data. The lines
// come from the snapshot the delivery took, so a later catalog edit never
// changes what the receipt shows. Items whose catalog entry was already
// gone at delivery archived with an empty description and stay off the
// receipt.
func ReciboDesdeOrden(orden *model.OrdenHistorica, nombreClinica string) ReciboData {
	data := ReciboData{
		OrdenID:       orden.ID.String(),
		NombreClinica: nombreClinica,
		Paciente:      "Desconocido",
		FechaEntrega:  orden.FechaEntrega,
		TotalBruto:    orden.TotalBruto,
		Descuento:     orden.TotalBruto.Sub(orden.TotalFinal),
		TotalFinal:    orden.TotalFinal,
	}
	if orden.Paciente != nil {
		data.Paciente = orden.Paciente.Nombre + " " + orden.Paciente.Apellido
	}
	if orden.Convenio != nil {
		data.Convenio = &orden.Convenio.Nombre
	}
	for _, item := range orden.Items {
		if item.Descripcion == "" {
			continue
		}
		data.Lineas = append(data.Lineas, ReciboLinea{Descripcion: item.Descripcion, Precio: item.Precio})
	}
	return data
}

// GenerarReciboPDF writes the payment receipt for a delivered order.
// storagePath is created if needed. Returns the absolute path of the file.
func GenerarReciboPDF(data ReciboData, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%s.pdf", data.OrdenID)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm wide — thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 140},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, data.NombreClinica, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "COMPROBANTE DE PAGO", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Order info ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Orden "+data.OrdenID[:8], "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "Paciente: "+data.Paciente, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Entregado: "+data.FechaEntrega, "", 1, "L", false, 0, "")
	if data.Convenio != nil {
		pdf.CellFormat(contentW, 4, "Convenio: "+*data.Convenio, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Lines ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.68
	col2 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Estudio", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Precio", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, linea := range data.Lineas {
		nombre := linea.Descripcion
		if len(nombre) > 30 {
			nombre = nombre[:29] + "…"
		}
		pdf.CellFormat(col1, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "$"+linea.Precio.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1, 5, "Subtotal:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "$"+data.TotalBruto.StringFixed(2), "", 1, "R", false, 0, "")
	if !data.Descuento.IsZero() {
		pdf.CellFormat(col1, 5, "Descuento:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "-$"+data.Descuento.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "$"+data.TotalFinal.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Gracias por su preferencia", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
