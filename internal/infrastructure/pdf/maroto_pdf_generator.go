// Package pdf genera la hoja de ruta de la factura de proveedor: el documento que acompaña la
// factura en su paso por Facturación, el área responsable, Contabilidad y Tesorería.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Proveedor + NIT      │  N° Factura + Total + QR     │
//	│  POSICIÓN: Estado / Área / Origen / Asignado                 │
//	│  CLASIFICACIÓN: CC / CO / UN / CA + anticipo + gasto adm     │
//	│  INVENTARIOS: destino + códigos                              │
//	│  DISTRIBUCIÓN: CC | CO | %                                   │
//	│  HISTORIAL: fecha | área | responsable                       │
//	│  DOCUMENTOS: tipo | archivo                                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	appfactura "github.com/jhoicas/contabilidadcq-api/internal/application/factura"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appfactura.HojaRutaRenderer = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa factura.HojaRutaRenderer usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// RenderHojaRuta genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderHojaRuta(_ context.Context, d *appfactura.HojaRutaData) ([]byte, error) {
	if d == nil || d.Factura == nil {
		return nil, fmt.Errorf("pdf: hoja de ruta sin factura")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de ruta "+d.Factura.NumeroFactura, true).
		WithAuthor(d.Factura.Proveedor, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(posicionRows(d)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(clasificacionRows(d)...)
	m.AddRows(inventarioRows(d)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(distribucionRows(d)...)
	m.AddRows(historialRows(d)...)
	m.AddRows(documentoRows(d)...)
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("Generada el "+d.GeneradoEn.Format("02/01/2006 15:04"), props.Text{
			Size: 7, Color: colorGray, Align: align.Right, Top: 1,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: proveedor + NIT (izq), número, total y QR con el id (der).
func headerRow(d *appfactura.HojaRutaData) core.Row {
	f := d.Factura
	fecha := "—"
	if f.FechaEmision != nil {
		fecha = f.FechaEmision.Format("02/01/2006")
	}
	return row.New(26).Add(
		col.New(6).Add(
			text.New(f.Proveedor, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+nonEmpty(f.ProveedorNIT, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
			text.New("Emisión: "+fecha, props.Text{
				Size: 8, Top: 15, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("HOJA DE RUTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(f.NumeroFactura, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Total: $"+formatMoney(f.Total.StringFixed(0)), props.Text{
				Size: 9, Align: align.Right, Top: 15,
			}),
		),
		col.New(2).Add(code.NewQr(f.ID, props.Rect{Percent: 90, Center: true})),
	)
}

func posicionRows(d *appfactura.HojaRutaData) []core.Row {
	rows := []core.Row{
		sectionTitle("POSICIÓN EN EL FLUJO"),
		pairRow("Estado", d.Estado, "Área actual", d.Area),
		pairRow("Área de origen", nonEmpty(d.AreaOrigen, "—"), "Asignada a", nonEmpty(d.AsignadoA, "—")),
	}
	if d.Factura.MotivoDevolucion != nil {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Devuelta: "+*d.Factura.MotivoDevolucion, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorAlert, Top: 1,
			}),
		)))
	}
	return rows
}

func clasificacionRows(d *appfactura.HojaRutaData) []core.Row {
	f := d.Factura
	anticipo := "No"
	if f.TieneAnticipo && f.PorcentajeAnticipo != nil {
		anticipo = f.PorcentajeAnticipo.StringFixed(2) + "%"
	}
	gasto := "No"
	if f.EsGastoAdm {
		gasto = "Sí"
	}
	return []core.Row{
		sectionTitle("CLASIFICACIÓN CONTABLE"),
		pairRow("Centro de costo", nonEmpty(d.CentroCosto, "—"), "Centro de operación", nonEmpty(d.CentroOperacion, "—")),
		pairRow("Unidad de negocio", nonEmpty(d.UnidadNegocio, "—"), "Cuenta auxiliar", nonEmpty(d.CuentaAuxiliar, "—")),
		pairRow("Anticipo", anticipo, "Entrega a Contabilidad", string(f.IntervaloEntregaContabilidad)),
		pairRow("Gasto administrativo", gasto, "", ""),
	}
}

func inventarioRows(d *appfactura.HojaRutaData) []core.Row {
	f := d.Factura
	if !f.RequiereEntradaInventarios {
		return []core.Row{pairRow("Entrada de inventarios", "No requiere", "", "")}
	}
	destino := "—"
	if f.DestinoInventarios != nil {
		destino = string(*f.DestinoInventarios)
	}
	novedad := "No"
	if f.PresentaNovedad {
		novedad = "Sí"
	}
	rows := []core.Row{
		sectionTitle("ENTRADA DE INVENTARIOS"),
		pairRow("Destino", destino, "Presenta novedad", novedad),
	}
	for _, c := range d.Codigos {
		rows = append(rows, pairRow("Código "+string(c.Codigo), nonEmpty(c.Valor, "—"), "", ""))
	}
	return rows
}

func distribucionRows(d *appfactura.HojaRutaData) []core.Row {
	if len(d.Distribucion) == 0 {
		return nil
	}
	rows := []core.Row{
		sectionTitle("DISTRIBUCIÓN CC / CO"),
		tableHeader([]string{"Centro de costo", "Centro de operación", "%"}, []int{5, 5, 2}),
	}
	for _, l := range d.Distribucion {
		rows = append(rows, tableRow([]string{l.CentroCosto, l.CentroOperacion, l.Porcentaje.StringFixed(2)}, []int{5, 5, 2}))
	}
	return rows
}

func historialRows(d *appfactura.HojaRutaData) []core.Row {
	if len(d.Asignaciones) == 0 {
		return nil
	}
	rows := []core.Row{
		sectionTitle("HISTORIAL DE ASIGNACIONES"),
		tableHeader([]string{"Fecha", "Área", "Responsable"}, []int{3, 4, 5}),
	}
	for _, a := range d.Asignaciones {
		rows = append(rows, tableRow([]string{a.Fecha.Format("02/01/2006 15:04"), a.Area, a.Responsable}, []int{3, 4, 5}))
	}
	return rows
}

func documentoRows(d *appfactura.HojaRutaData) []core.Row {
	if len(d.Documentos) == 0 {
		return nil
	}
	rows := []core.Row{
		sectionTitle("DOCUMENTOS SOPORTE"),
		tableHeader([]string{"Tipo", "Archivo"}, []int{3, 9}),
	}
	for _, f := range d.Documentos {
		rows = append(rows, tableRow([]string{string(f.DocType), f.Filename}, []int{3, 9}))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func pairRow(l1, v1, l2, v2 string) core.Row {
	cell := func(label, value string) []core.Col {
		if label == "" {
			return []core.Col{col.New(6)}
		}
		return []core.Col{
			col.New(2).Add(text.New(label+":", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
			col.New(4).Add(text.New(value, props.Text{Size: 8, Top: 1})),
		}
	}
	return row.New(6).Add(append(cell(l1, v1), cell(l2, v2)...)...)
}

func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, len(labels))
	for i, l := range labels {
		cols[i] = col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1, Left: 1,
		}))
	}
	return row.New(6).Add(cols...)
}

func tableRow(values []string, sizes []int) core.Row {
	cols := make([]core.Col, len(values))
	for i, v := range values {
		cols[i] = col.New(sizes[i]).Add(text.New(v, props.Text{Size: 8, Top: 1, Left: 1}))
	}
	return row.New(6).Add(cols...)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
