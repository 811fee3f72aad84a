// Package pdf implementa el comprobante de cierre de sesión de caja.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del negocio  │  N° Sesión + Fechas          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CAJERO: nombre + duración del turno                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Hora | Tipo | Descripción | Monto                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ARQUEO: teórico / contado / diferencia / utilidad          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  NOTAS + firma del cajero                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appsession "github.com/jhoicas/Caja-api/internal/application/session"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/ledger"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
	colorGreen   = &props.Color{Red: 20, Green: 120, Blue: 60}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// Ensure CloseReceiptGenerator implements session.ReceiptGenerator.
var _ appsession.ReceiptGenerator = (*CloseReceiptGenerator)(nil)

// CloseReceiptGenerator implementa session.ReceiptGenerator usando Maroto v2.
type CloseReceiptGenerator struct {
	businessName string
}

// NewCloseReceiptGenerator construye el generador del comprobante de cierre.
func NewCloseReceiptGenerator(businessName string) *CloseReceiptGenerator {
	return &CloseReceiptGenerator{businessName: businessName}
}

// GenerateCloseReceipt genera el PDF del arqueo de una sesión cerrada y
// devuelve sus bytes.
func (g *CloseReceiptGenerator) GenerateCloseReceipt(_ context.Context, l ledger.Ledger, username string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de cierre de caja", true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.businessName, l.Session))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(cashierRow(l.Session, username))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Movimientos del turno
	m.AddRows(tableHeaderRow())
	for _, r := range movementRows(l) {
		m.AddRows(r)
	}

	// Arqueo
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range reconciliationRows(l.Reconcile().Round()) {
		m.AddRows(r)
	}

	// Notas + firma
	m.AddRows(line.NewRow(3))
	for _, r := range footerRows(l.Session) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del negocio (izq) y sesión + fechas (der).
func headerRow(businessName string, s entity.CashSession) core.Row {
	endLabel := "—"
	if s.EndTime != nil {
		endLabel = s.EndTime.Format("02/01/2006 15:04")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(businessName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprobante de cierre de caja", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("SESIÓN "+shortID(s.ID), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New("Apertura: "+s.StartTime.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Cierre: "+endLabel, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// cashierRow: cajero responsable del turno.
func cashierRow(s entity.CashSession, username string) core.Row {
	duration := "—"
	if s.EndTime != nil {
		d := s.EndTime.Sub(s.StartTime)
		duration = fmt.Sprintf("%dh %02dm", int(d.Hours()), int(d.Minutes())%60)
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CAJERO RESPONSABLE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Duración del turno: %s", username, duration),
				props.Text{Size: 9, Top: 7}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Hora", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Descripción", 5, align.Left),
		h("Monto", 3, align.Right),
	)
}

// movementRows: gastos y recargas flexi intercalados, más recientes primero.
func movementRows(l ledger.Ledger) []core.Row {
	kindLabel := map[string]string{
		entity.KindExpense: "Gasto",
		entity.KindIncome:  "Ingreso",
	}

	var result []core.Row
	for _, t := range l.SortedTransactions() {
		result = append(result, movementRow(
			t.Timestamp.Format("15:04"), kindLabel[t.Kind], t.Description, t.Amount, colorRed,
		))
	}
	for _, f := range l.SortedFlexi() {
		label := "Flexi"
		if f.IsPaid {
			label = "Flexi (pagado)"
		}
		result = append(result, movementRow(
			f.Timestamp.Format("15:04"), label, f.Description, f.Amount, colorGray,
		))
	}
	if len(result) == 0 {
		result = append(result, row.New(7).Add(col.New(12).Add(
			text.New("Sin movimientos registrados en este turno.", props.Text{
				Size: 8, Color: colorGray, Top: 1, Left: 1,
			}),
		)))
	}
	return result
}

func movementRow(hora, tipo, descripcion string, monto decimal.Decimal, amountColor *props.Color) core.Row {
	return row.New(7).Add(
		col.New(2).Add(text.New(hora, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(tipo, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(5).Add(text.New(descripcion, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(3).Add(text.New("$"+monto.StringFixed(2), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1, Color: amountColor,
		})),
	)
}

// reconciliationRows: bloque de arqueo con la diferencia resaltada.
func reconciliationRows(r ledger.Reconciliation) []core.Row {
	pair := func(label string, value decimal.Decimal) core.Row {
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
			})),
			col.New(3).Add(text.New("$"+value.StringFixed(2), props.Text{
				Size: 9, Align: align.Right, Right: 1,
			})),
		)
	}

	diffColor := colorGreen
	if r.NetCashDifference.IsNegative() {
		diffColor = colorRed
	}

	return []core.Row{
		row.New(7).Add(col.New(12).Add(text.New("ARQUEO DE CAJA", props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1,
		}))),
		pair("Gastos del turno:", r.TotalExpense),
		pair("Flexi pagado en efectivo:", r.TotalFlexiPaid),
		pair("Efectivo teórico:", r.TheoreticalCash),
		row.New(8).Add(
			col.New(6),
			col.New(3).Add(text.New("DIFERENCIA DE CAJA:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: diffColor, Right: 2,
			})),
			col.New(3).Add(text.New("$"+r.NetCashDifference.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: diffColor, Right: 1,
			})),
		),
		pair("Flexi teórico:", r.TheoreticalFlexi),
		pair("Flexi consumido:", r.FlexiConsumed),
		row.New(8).Add(
			col.New(6),
			col.New(3).Add(text.New("UTILIDAD NETA:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 2,
			})),
			col.New(3).Add(text.New("$"+r.NetProfit.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1,
			})),
		),
	}
}

// footerRows: notas del turno + línea de firma.
func footerRows(s entity.CashSession) []core.Row {
	rows := []core.Row{}
	if s.Notes != "" {
		rows = append(rows,
			row.New(5).Add(col.New(12).Add(text.New("NOTAS DEL TURNO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}))),
			row.New(8).Add(col.New(12).Add(text.New(s.Notes, props.Text{
				Size: 8, Color: colorGray, Top: 1, Left: 2,
			}))),
		)
	}
	rows = append(rows,
		row.New(12),
		row.New(1).Add(
			col.New(4),
			line.NewCol(4, props.Line{Color: colorGray, Thickness: 0.3}),
			col.New(4),
		),
		row.New(6).Add(col.New(12).Add(text.New("Firma del cajero", props.Text{
			Size: 8, Align: align.Center, Color: colorGray, Top: 1,
		}))),
	)
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// shortID los primeros 8 caracteres del UUID, suficientes para identificar la
// sesión en un comprobante impreso.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
