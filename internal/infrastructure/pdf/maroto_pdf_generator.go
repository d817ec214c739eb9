// Package pdf genera el comprobante de compra de una venta del marketplace.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: FarmLink             │  N° Comprobante + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VENDEDOR (agricultor)        │  COMPRADOR                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Unidad | Producto | P.Unit | Total            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL PAGADO                                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con la referencia de la venta + leyenda          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/farmlink-api/internal/application/usecase"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
)

var _ usecase.ReceiptGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 34, Green: 110, Blue: 58}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa usecase.ReceiptGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	appName string
}

// NewMarotoPDFGenerator construye el generador. appName aparece en el encabezado.
func NewMarotoPDFGenerator(appName string) *MarotoPDFGenerator {
	if appName == "" {
		appName = "FarmLink"
	}
	return &MarotoPDFGenerator{appName: appName}
}

// GenerateReceiptPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReceiptPDF(
	_ context.Context,
	sale *entity.Sale,
	farmer, buyer *entity.User,
) ([]byte, error) {
	if sale == nil {
		return nil, fmt.Errorf("pdf: venta nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de compra", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(farmer, buyer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(detailRow(sale))

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(sale))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la plataforma (izq) y N° de comprobante + fecha (der).
func (g *MarotoPDFGenerator) headerRow(sale *entity.Sale) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.appName, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Del campo al comprador", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE COMPRA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(ReceiptNumber(sale.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+sale.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// partiesRow: datos del agricultor y del comprador.
func partiesRow(farmer, buyer *entity.User) core.Row {
	party := func(title string, u *entity.User) core.Col {
		name, email := "Cuenta eliminada", "-"
		if u != nil {
			name, email = nonEmpty(u.Name, u.Email), u.Email
		}
		return col.New(6).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New("Email: "+email, props.Text{Size: 8, Top: 12, Color: colorGray}),
		)
	}
	return row.New(18).Add(party("VENDEDOR", farmer), party("COMPRADOR", buyer))
}

// tableHeaderRow: cabecera de la tabla de detalle.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Unidad", 1, align.Center),
		h("Producto", 4, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// detailRow: la venta tiene una sola línea.
func detailRow(sale *entity.Sale) core.Row {
	return row.New(7).Add(
		col.New(2).Add(text.New(
			sale.Quantity.String(),
			props.Text{Size: 8, Align: align.Center, Top: 1},
		)),
		col.New(1).Add(text.New(
			sale.Unit,
			props.Text{Size: 8, Align: align.Center, Top: 1},
		)),
		col.New(4).Add(text.New(
			sale.ListingName,
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
		)),
		col.New(2).Add(text.New(
			"$"+FormatMoney(sale.UnitPrice),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
		col.New(3).Add(text.New(
			"$"+FormatMoney(sale.TotalPrice),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
	)
}

// totalRow: total pagado alineado a la derecha.
func totalRow(sale *entity.Sale) core.Row {
	return row.New(12).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL PAGADO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 3,
		})),
		col.New(3).Add(text.New("$"+FormatMoney(sale.TotalPrice), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 3,
		})),
	)
}

// footerRow: QR con la referencia de la venta y leyenda.
func footerRow(sale *entity.Sale) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr("farmlink:sale:"+sale.ID, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Referencia: "+sale.ID, props.Text{
				Size: 7, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Precio registrado al momento de la compra. "+
				"Conserve este comprobante como soporte de su pedido.", props.Text{
				Size: 7, Top: 12, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// ReceiptNumber número corto legible del comprobante, ej: "N° 3F1C1F3E".
func ReceiptNumber(saleID string) string {
	id := strings.ReplaceAll(saleID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return "N° " + strings.ToUpper(id)
}

// FormatMoney formatea con puntos de miles y coma decimal (dos decimales).
// Ej: 25000 → "25.000,00", 1234567.5 → "1.234.567,50"
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}
