package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appfactura "github.com/jhoicas/contabilidadcq-api/internal/application/factura"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0", formatMoney("0"))
	assert.Equal(t, "999", formatMoney("999"))
	assert.Equal(t, "25.000", formatMoney("25000"))
	assert.Equal(t, "1.000.000", formatMoney("1000000"))
	assert.Equal(t, "-1.500", formatMoney("-1500"))
}

func TestRenderHojaRuta_GeneraPDF(t *testing.T) {
	destino := entity.DestinoTienda
	pct := decimal.NewFromInt(30)
	motivo := "Falta la orden de compra firmada"
	emision := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	data := &appfactura.HojaRutaData{
		Factura: &entity.Factura{
			ID:                           "3f1c1a9e-1111-4a4a-9b9b-000000000001",
			Proveedor:                    "Comercial Andina S.A.S.",
			ProveedorNIT:                 "900123456-8",
			NumeroFactura:                "FE-1001",
			FechaEmision:                 &emision,
			Total:                        decimal.NewFromInt(1190000),
			RequiereEntradaInventarios:   true,
			DestinoInventarios:           &destino,
			TieneAnticipo:                true,
			PorcentajeAnticipo:           &pct,
			IntervaloEntregaContabilidad: entity.Intervalo2Semanas,
			MotivoDevolucion:             &motivo,
		},
		Estado:     "ASIGNADA",
		Area:       "Compras",
		AreaOrigen: "Compras",
		Codigos: []entity.FacturaInventarioCodigo{
			{Codigo: entity.CodigoOCT, Valor: "OCT-1"},
			{Codigo: entity.CodigoECT, Valor: "ECT-1"},
		},
		Distribucion: []appfactura.HojaRutaLinea{
			{CentroCosto: "CC01", CentroOperacion: "CO01", Porcentaje: decimal.NewFromInt(60)},
			{CentroCosto: "CC02", CentroOperacion: "CO07", Porcentaje: decimal.NewFromInt(40)},
		},
		Asignaciones: []appfactura.HojaRutaAsignacion{
			{Fecha: emision, Area: "Compras", Responsable: "Ana Ruiz"},
		},
		Documentos: []*entity.FacturaFile{{DocType: entity.DocOC, Filename: "oc-17.pdf"}},
		GeneradoEn: emision,
	}

	out, err := NewMarotoPDFGenerator().RenderHojaRuta(context.Background(), data)
	require.NoError(t, err)
	require.Greater(t, len(out), 4)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRenderHojaRuta_SinFactura(t *testing.T) {
	_, err := NewMarotoPDFGenerator().RenderHojaRuta(context.Background(), &appfactura.HojaRutaData{})
	assert.Error(t, err)
}
