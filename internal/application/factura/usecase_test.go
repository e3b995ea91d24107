package factura_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contabilidadcq-api/internal/application/dto"
	"github.com/jhoicas/contabilidadcq-api/internal/application/factura"
	"github.com/jhoicas/contabilidadcq-api/internal/application/workflow"
	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	domainwf "github.com/jhoicas/contabilidadcq-api/internal/domain/workflow"
	"github.com/jhoicas/contabilidadcq-api/internal/infrastructure/memory"
	"github.com/jhoicas/contabilidadcq-api/pkg/logger"
)

type stubParser struct {
	inv *factura.SupplierInvoice
	err error
}

func (p stubParser) Parse([]byte) (*factura.SupplierInvoice, error) { return p.inv, p.err }

type captureRenderer struct{ got *factura.HojaRutaData }

func (r *captureRenderer) RenderHojaRuta(_ context.Context, d *factura.HojaRutaData) ([]byte, error) {
	r.got = d
	return []byte("%PDF-1.4"), nil
}

type fixture struct {
	store    *memory.Store
	flow     *workflow.UseCase
	uc       *factura.UseCase
	renderer *captureRenderer
	areaAlm  string
	userAlm  string
	cc1, co1 string
	cc2, co2 string

	facturacion entity.Actor
	responsable entity.Actor
}

func newFixture(t *testing.T, parser factura.UBLParser) *fixture {
	t.Helper()
	st := memory.NewStore()
	fx := &fixture{store: st, renderer: &captureRenderer{}}
	areaFac := st.AddArea("Facturación", entity.AreaCodeFacturacion)
	st.AddArea("Contabilidad", entity.AreaCodeContabilidad)
	st.AddArea("Tesorería", entity.AreaCodeTesoreria)
	fx.areaAlm = st.AddArea("Almacén", "alm")
	fx.userAlm = st.AddUser(entity.User{Email: "almacen@cq.co", Name: "Laura Almacén", Role: entity.RoleResponsable, AreaID: &fx.areaAlm, IsActive: true})
	fx.cc1 = st.AddCentroCosto("CC-1")
	fx.co1 = st.AddCentroOperacion(fx.cc1, "CO-1")
	fx.cc2 = st.AddCentroCosto("CC-2")
	fx.co2 = st.AddCentroOperacion(fx.cc2, "CO-2")

	refs, err := workflow.ResolveRefs(context.Background(), st.Repos().Catalogo, workflow.AreaCodes{
		Facturacion: entity.AreaCodeFacturacion, Contabilidad: entity.AreaCodeContabilidad, Tesoreria: entity.AreaCodeTesoreria,
	}, "")
	require.NoError(t, err)
	fx.flow = workflow.NewUseCase(st, domainwf.NewMachine(refs), logger.Nop())
	fx.uc = factura.NewUseCase(st, fx.flow, parser, fx.renderer, logger.Nop())
	fx.facturacion = entity.Actor{UserID: "u-fac", Role: entity.RoleFacturacion, AreaID: areaFac}
	fx.responsable = entity.Actor{UserID: fx.userAlm, Role: entity.RoleResponsable, AreaID: fx.areaAlm}
	return fx
}

func (fx *fixture) asignada(t *testing.T, numero string) string {
	t.Helper()
	ctx := context.Background()
	f, err := fx.uc.Crear(ctx, fx.facturacion, dto.CreateFacturaRequest{
		Proveedor: "Lácteos del Valle", NumeroFactura: numero, Total: decimal.NewFromInt(500000),
	})
	require.NoError(t, err)
	_, err = fx.flow.Asignar(ctx, fx.facturacion, f.ID, fx.areaAlm, fx.userAlm)
	require.NoError(t, err)
	return f.ID
}

func TestCrear_ParseaFechas(t *testing.T) {
	fx := newFixture(t, nil)
	out, err := fx.uc.Crear(context.Background(), fx.facturacion, dto.CreateFacturaRequest{
		Proveedor: "Proveedor", NumeroFactura: "FE-10", Total: decimal.NewFromInt(10),
		FechaEmision: "2025-02-01", FechaVencimiento: "2025-03-01",
	})
	require.NoError(t, err)
	require.NotNil(t, out.FechaEmision)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), *out.FechaEmision)
	assert.Equal(t, "RECIBIDA", out.Estado)
	assert.Nil(t, out.AreaOrigenID)
}

func TestCrear_FechaInvalida(t *testing.T) {
	fx := newFixture(t, nil)
	_, err := fx.uc.Crear(context.Background(), fx.facturacion, dto.CreateFacturaRequest{
		Proveedor: "Proveedor", NumeroFactura: "FE-10", Total: decimal.NewFromInt(10), FechaEmision: "01/02/2025",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestarUBL(t *testing.T) {
	emision := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	fx := newFixture(t, stubParser{inv: &factura.SupplierInvoice{
		Numero: "SETP990000001", Proveedor: "Proveedor SAS", ProveedorNIT: "900123456", ProveedorDV: "8",
		FechaEmision: &emision, Total: decimal.RequireFromString("119000.00"), CUFE: "abc",
	}})
	out, err := fx.uc.IngestarUBL(context.Background(), entity.SystemActor, []byte("<Invoice/>"))
	require.NoError(t, err)
	assert.Equal(t, "900123456-8", out.ProveedorNIT)
	assert.Equal(t, "SETP990000001", out.NumeroFactura)
	assert.Equal(t, entity.EstadoRecibida, out.EstadoID)
}

func TestIngestarUBL_ErrorDelParser(t *testing.T) {
	fx := newFixture(t, stubParser{err: domain.ErrInvalidInput})
	_, err := fx.uc.IngestarUBL(context.Background(), entity.SystemActor, []byte("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateCentros(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	id := fx.asignada(t, "FE-1")

	_, err := fx.uc.UpdateCentros(ctx, fx.responsable, id, dto.UpdateCentrosRequest{CentroCostoID: &fx.cc1, CentroOperacionID: &fx.co2})
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	missing := "no-existe"
	_, err = fx.uc.UpdateCentros(ctx, fx.responsable, id, dto.UpdateCentrosRequest{CentroCostoID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err := fx.uc.UpdateCentros(ctx, fx.responsable, id, dto.UpdateCentrosRequest{CentroCostoID: &fx.cc1, CentroOperacionID: &fx.co1})
	require.NoError(t, err)
	require.NotNil(t, out.CentroOperacionID)
	assert.Equal(t, fx.co1, *out.CentroOperacionID)
}

func TestUpdateCentros_OperacionSinCentroDeCosto(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	id := fx.asignada(t, "FE-11")

	_, err := fx.uc.UpdateCentros(ctx, fx.responsable, id, dto.UpdateCentrosRequest{CentroOperacionID: &fx.co1})
	var inv *domain.InvariantError
	require.ErrorAs(t, err, &inv)
	assert.Contains(t, inv.Reasons[0], "requiere su centro de costo")

	got, err := fx.uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.CentroOperacionID, "la escritura rechazada no modifica la factura")
}

func TestUpdateInventarios_ApagarDescartaTodo(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	id := fx.asignada(t, "FE-2")
	tienda := "tienda"

	out, err := fx.uc.UpdateInventarios(ctx, fx.responsable, id, dto.UpdateInventariosRequest{
		RequiereEntradaInventarios: true, DestinoInventarios: &tienda, PresentaNovedad: true,
		Codigos: []dto.InventarioCodigoDTO{{Codigo: "oct", Valor: "1"}, {Codigo: "NP", Valor: "faltante"}},
	})
	require.NoError(t, err)
	require.NotNil(t, out.DestinoInventarios)
	assert.Equal(t, "TIENDA", *out.DestinoInventarios)
	assert.Len(t, out.Codigos, 2)

	out, err = fx.uc.UpdateInventarios(ctx, fx.responsable, id, dto.UpdateInventariosRequest{RequiereEntradaInventarios: false})
	require.NoError(t, err)
	assert.Nil(t, out.DestinoInventarios)
	assert.False(t, out.PresentaNovedad)
	assert.Empty(t, out.Codigos)
}

func TestUpdateInventarios_EntradaInvalida(t *testing.T) {
	fx := newFixture(t, nil)
	id := fx.asignada(t, "FE-3")
	bodega := "BODEGA"
	_, err := fx.uc.UpdateInventarios(context.Background(), fx.responsable, id, dto.UpdateInventariosRequest{
		RequiereEntradaInventarios: true, DestinoInventarios: &bodega,
		Codigos: []dto.InventarioCodigoDTO{{Codigo: "XYZ"}, {Codigo: "OCC"}, {Codigo: "OCC"}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "BODEGA")
	assert.Contains(t, err.Error(), "XYZ")
	assert.Contains(t, err.Error(), "repetido")
}

func TestUpdateAnticipo(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	id := fx.asignada(t, "FE-4")

	_, err := fx.uc.UpdateAnticipo(ctx, fx.responsable, id, dto.UpdateAnticipoRequest{TieneAnticipo: true})
	var inv *domain.InvariantError
	require.ErrorAs(t, err, &inv)
	assert.Len(t, inv.Reasons, 2, "falta porcentaje y falta intervalo")

	pct := decimal.NewFromInt(30)
	out, err := fx.uc.UpdateAnticipo(ctx, fx.responsable, id, dto.UpdateAnticipoRequest{
		TieneAnticipo: true, PorcentajeAnticipo: &pct, IntervaloEntregaContabilidad: "2_SEMANAS",
	})
	require.NoError(t, err)
	assert.True(t, out.TieneAnticipo)
	assert.Equal(t, "2_SEMANAS", out.IntervaloEntregaContabilidad)
}

func TestUpdateAnticipo_PrecisionDelPorcentaje(t *testing.T) {
	fx := newFixture(t, nil)
	id := fx.asignada(t, "FE-12")

	pct := decimal.RequireFromString("12.345")
	_, err := fx.uc.UpdateAnticipo(context.Background(), fx.responsable, id, dto.UpdateAnticipoRequest{
		TieneAnticipo: true, PorcentajeAnticipo: &pct, IntervaloEntregaContabilidad: "1_MES",
	})
	var inv *domain.InvariantError
	require.ErrorAs(t, err, &inv)
	assert.Contains(t, inv.Reasons[0], "2 decimales")
}

func TestEdicion_Permisos(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	id := fx.asignada(t, "FE-5")

	_, err := fx.uc.UpdateGastoAdm(ctx, fx.facturacion, id, dto.UpdateGastoAdmRequest{EsGastoAdm: true})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	f := fx.store.Factura(id)
	f.EstadoID = entity.EstadoFinalizada
	fx.store.PutFactura(*f)
	_, err = fx.uc.UpdateGastoAdm(ctx, fx.responsable, id, dto.UpdateGastoAdmRequest{EsGastoAdm: true})
	assert.ErrorIs(t, err, domain.ErrGuardFailed)
}

func TestList_ResponsableSoloVeSuArea(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	fx.asignada(t, "FE-6")
	_, err := fx.uc.Crear(ctx, fx.facturacion, dto.CreateFacturaRequest{Proveedor: "Otro", NumeroFactura: "FE-7", Total: decimal.NewFromInt(1)})
	require.NoError(t, err)

	all, err := fx.uc.List(ctx, fx.facturacion, dto.FacturaListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Page.Total)
	assert.Equal(t, 20, all.Page.Limit)

	mine, err := fx.uc.List(ctx, fx.responsable, dto.FacturaListQuery{})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, "FE-6", mine.Items[0].NumeroFactura)
}

func TestHojaRuta_ResuelveEtiquetas(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	id := fx.asignada(t, "FE-8")
	_, err := fx.uc.UpdateCentros(ctx, fx.responsable, id, dto.UpdateCentrosRequest{CentroCostoID: &fx.cc1, CentroOperacionID: &fx.co1})
	require.NoError(t, err)

	pdf, err := fx.uc.HojaRuta(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(pdf))

	d := fx.renderer.got
	require.NotNil(t, d)
	assert.Equal(t, "Almacén", d.Area)
	assert.Equal(t, "Almacén", d.AreaOrigen)
	assert.Equal(t, "Laura Almacén", d.AsignadoA)
	assert.Equal(t, "CC-1 - Centro CC-1", d.CentroCosto)
	require.Len(t, d.Asignaciones, 1)
	assert.Equal(t, "Laura Almacén", d.Asignaciones[0].Responsable)

	_, err = fx.uc.HojaRuta(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
