// Package pdf genera la lista de inscritos de una formación.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Categoría   │  Estado + Fecha de emisión  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Fechas / Formador / Precio                          │
//	│  PLAZAS: Cupo / Confirmadas / Pendientes / Libres           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Estudiante | Email | Estado | Fecha solicitud   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

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

	"github.com/jhoicas/formaciones-api/internal/application/analytics"
	"github.com/jhoicas/formaciones-api/internal/application/dto"
)

var _ analytics.RosterPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var statusLabels = map[string]string{
	"pending":       "Pendiente",
	"pre_validated": "Pre-validada",
	"validated":     "Validada",
	"published":     "Publicada",
	"archived":      "Archivada",
	"rejected":      "Rechazada",
	"confirmed":     "Confirmada",
	"declined":      "Rechazada",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa analytics.RosterPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateRosterPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateRosterPDF(_ context.Context, roster *dto.RosterDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Lista de inscritos - "+roster.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(roster))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailsRow(roster))
	m.AddRows(capacityRow(roster.Capacity))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(roster.Rows) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin inscripciones.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	m.AddRows(tableRows(roster.Rows)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *dto.RosterDTO) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(r.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Categoría: "+nonEmpty(r.CategoryName, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("LISTA DE INSCRITOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(label(r.Status), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+formatDate(r.GeneratedAt), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func detailsRow(r *dto.RosterDTO) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DE LA FORMACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Del %s al %s   |   Formador: %s   |   Precio: $%s",
				formatDate(r.StartDate),
				formatDate(r.EndDate),
				nonEmpty(r.InstructorName, "—"),
				formatMoney(r.Price.StringFixed(0)),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func capacityRow(c dto.CapacityResponse) core.Row {
	remaining := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2}
	if c.Full {
		remaining.Color = colorAlert
	}
	cell := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Top: 2})
	}
	return row.New(9).Add(
		col.New(3).Add(cell(fmt.Sprintf("Cupo: %d", c.Capacity))),
		col.New(3).Add(cell(fmt.Sprintf("Confirmadas: %d", c.Confirmed))),
		col.New(3).Add(cell(fmt.Sprintf("Pendientes: %d", c.Pending))),
		col.New(3).Add(text.New(fmt.Sprintf("Plazas libres: %d", max(c.Remaining, 0)), remaining)),
	)
}

func tableHeaderRow() core.Row {
	h := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Estudiante", 4, align.Left),
		h("Email", 3, align.Left),
		h("Estado", 2, align.Center),
		h("Solicitud", 2, align.Right),
	)
}

func tableRows(rows []dto.RosterRowDTO) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for i, r := range rows {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(r.StudentName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(nonEmpty(r.Email, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(label(r.Status), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatDate(r.SubmittedAt), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func label(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return strings.ToUpper(status)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02/01/2006")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	buf := make([]byte, 0, n+n/3+1)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
