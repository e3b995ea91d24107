package workflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contabilidadcq-api/internal/application/workflow"
	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	domainwf "github.com/jhoicas/contabilidadcq-api/internal/domain/workflow"
	"github.com/jhoicas/contabilidadcq-api/internal/infrastructure/memory"
	"github.com/jhoicas/contabilidadcq-api/pkg/logger"
)

var fixedNow = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

type fixture struct {
	store   *memory.Store
	uc      *workflow.UseCase
	areaFac string
	areaCon string
	areaTes string
	areaAlm string
	userAlm string
	cc      string
	co      string

	facturacion  entity.Actor
	responsable  entity.Actor
	contabilidad entity.Actor
	tesoreria    entity.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.NewStore().WithClock(func() time.Time { return fixedNow })
	fx := &fixture{store: st}
	fx.areaFac = st.AddArea("Facturación", entity.AreaCodeFacturacion)
	fx.areaCon = st.AddArea("Contabilidad", entity.AreaCodeContabilidad)
	fx.areaTes = st.AddArea("Tesorería", entity.AreaCodeTesoreria)
	fx.areaAlm = st.AddArea("Almacén", "alm")
	fx.userAlm = st.AddUser(entity.User{Email: "jefe.almacen@cq.co", Name: "Jefe Almacén", Role: entity.RoleResponsable, AreaID: &fx.areaAlm, IsActive: true})
	fx.cc = st.AddCentroCosto("CC-01")
	fx.co = st.AddCentroOperacion(fx.cc, "CO-01")

	refs, err := workflow.ResolveRefs(ctx, st.Repos().Catalogo, workflow.AreaCodes{
		Facturacion:  entity.AreaCodeFacturacion,
		Contabilidad: entity.AreaCodeContabilidad,
		Tesoreria:    entity.AreaCodeTesoreria,
	}, "")
	require.NoError(t, err)
	m := domainwf.NewMachine(refs).WithClock(func() time.Time { return fixedNow })
	fx.uc = workflow.NewUseCase(st, m, logger.Nop())

	fx.facturacion = entity.Actor{UserID: "u-fac", Role: entity.RoleFacturacion, AreaID: fx.areaFac}
	fx.responsable = entity.Actor{UserID: fx.userAlm, Role: entity.RoleResponsable, AreaID: fx.areaAlm}
	fx.contabilidad = entity.Actor{UserID: "u-con", Role: entity.RoleContabilidad, AreaID: fx.areaCon}
	fx.tesoreria = entity.Actor{UserID: "u-tes", Role: entity.RoleTesoreria, AreaID: fx.areaTes}
	return fx
}

// crearAsignada crea la factura y la asigna al área de almacén.
func (fx *fixture) crearAsignada(t *testing.T, numero string) *entity.Factura {
	t.Helper()
	ctx := context.Background()
	f, err := fx.uc.Crear(ctx, fx.facturacion, &entity.Factura{
		Proveedor: "Distribuidora Andina SAS", NumeroFactura: numero, Total: decimal.RequireFromString("1250000"),
	})
	require.NoError(t, err)
	res, err := fx.uc.Asignar(ctx, fx.facturacion, f.ID, fx.areaAlm, fx.userAlm)
	require.NoError(t, err)
	return res.Factura
}

// completarAlmacen deja la factura lista para Contabilidad con destino ALMACEN.
func (fx *fixture) completarAlmacen(t *testing.T, f *entity.Factura, codigos map[entity.CodigoInventario]string, novedad bool) {
	t.Helper()
	destino := entity.DestinoAlmacen
	f.CentroCostoID = &fx.cc
	f.CentroOperacionID = &fx.co
	f.RequiereEntradaInventarios = true
	f.DestinoInventarios = &destino
	f.PresentaNovedad = novedad
	fx.store.PutFactura(*f)
	var rows []entity.FacturaInventarioCodigo
	for c, v := range codigos {
		rows = append(rows, entity.FacturaInventarioCodigo{Codigo: c, Valor: v})
	}
	require.NoError(t, fx.store.Repos().Codigos.Replace(context.Background(), f.ID, rows))
}

func (fx *fixture) adjuntar(t *testing.T, facturaID string, docs ...entity.DocType) {
	t.Helper()
	for _, d := range docs {
		require.NoError(t, fx.store.Repos().Files.Create(context.Background(), &entity.FacturaFile{
			FacturaID: facturaID, DocType: d, StorageProvider: entity.StorageLocal,
			StoragePath: facturaID + "/" + string(d), Filename: string(d) + ".pdf",
		}))
	}
}

func TestUseCase_FlujoCompletoAlmacen(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f := fx.crearAsignada(t, "FE-1001")
	fx.completarAlmacen(t, f, map[entity.CodigoInventario]string{
		entity.CodigoOCC: "x", entity.CodigoEDO: "y", entity.CodigoFPC: "z",
	}, false)

	res, err := fx.uc.EnviarAContabilidad(ctx, fx.responsable, f.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Report)
	assert.True(t, res.Report.OK())
	assert.Equal(t, entity.EstadoEnContabilidad, res.Factura.EstadoID)
	assert.Equal(t, fx.areaCon, res.Factura.AreaID)
	assert.Len(t, res.Codigos, 3)

	res, err = fx.uc.EnviarATesoreria(ctx, fx.contabilidad, f.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoEnTesoreria, res.Factura.EstadoID)

	fx.adjuntar(t, f.ID, entity.DocPEC, entity.DocPCE)
	_, err = fx.uc.CerrarEnTesoreria(ctx, fx.tesoreria, f.ID)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	rep := domainwf.Report{Violations: verr.Violations}
	assert.Equal(t, []string{"EC"}, rep.MissingFiles())
	assert.Equal(t, entity.EstadoEnTesoreria, fx.store.Factura(f.ID).EstadoID)

	fx.adjuntar(t, f.ID, entity.DocEC)
	res, err = fx.uc.CerrarEnTesoreria(ctx, fx.tesoreria, f.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoFinalizada, res.Factura.EstadoID)
	assert.Equal(t, fx.areaTes, res.Factura.AreaID)

	_, err = fx.uc.CerrarEnTesoreria(ctx, fx.tesoreria, f.ID)
	assert.ErrorIs(t, err, domain.ErrGuardFailed)
}

func TestUseCase_NovedadSinCodigoNP(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f := fx.crearAsignada(t, "FE-1002")
	fx.completarAlmacen(t, f, map[entity.CodigoInventario]string{
		entity.CodigoOCC: "x", entity.CodigoEDO: "y", entity.CodigoFPC: "z",
	}, true)

	_, err := fx.uc.EnviarAContabilidad(ctx, fx.responsable, f.ID)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	rep := domainwf.Report{Violations: verr.Violations}
	assert.Equal(t, []string{"NP"}, rep.MissingCodes())

	stored := fx.store.Factura(f.ID)
	assert.Equal(t, entity.EstadoAsignada, stored.EstadoID)
	assert.Equal(t, fx.areaAlm, stored.AreaID)
}

func TestUseCase_AsignarRegistraHistorial(t *testing.T) {
	fx := newFixture(t)
	f := fx.crearAsignada(t, "FE-1003")

	hist, err := fx.uc.Asignaciones(context.Background(), f.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, fx.areaAlm, hist[0].AreaID)
	assert.Equal(t, fx.userAlm, hist[0].ResponsableUserID)
	require.NotNil(t, f.AreaOrigenID)
	assert.Equal(t, fx.areaAlm, *f.AreaOrigenID)
}

func TestUseCase_AsignarRechazos(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f, err := fx.uc.Crear(ctx, fx.facturacion, &entity.Factura{
		Proveedor: "Proveedor", NumeroFactura: "FE-1", Total: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	inactivo := fx.store.AddUser(entity.User{Email: "x@cq.co", Role: entity.RoleResponsable, AreaID: &fx.areaAlm})

	cases := []struct {
		name   string
		areaID string
		userID string
		want   error
	}{
		{"área inexistente", "no-existe", fx.userAlm, domain.ErrNotFound},
		{"usuario inexistente", fx.areaAlm, "no-existe", domain.ErrNotFound},
		{"usuario inactivo", fx.areaAlm, inactivo, domain.ErrInvalidInput},
		{"área fija", fx.areaCon, fx.userAlm, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.uc.Asignar(ctx, fx.facturacion, f.ID, tc.areaID, tc.userID)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	hist, err := fx.uc.Asignaciones(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestUseCase_Autorizacion(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f := fx.crearAsignada(t, "FE-1004")

	_, err := fx.uc.EnviarAContabilidad(ctx, fx.contabilidad, f.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	otraArea := entity.Actor{UserID: "u-otro", Role: entity.RoleResponsable, AreaID: "otra-area"}
	_, err = fx.uc.DevolverAFacturacion(ctx, otraArea, f.ID, "faltan soportes de la compra")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = fx.uc.Crear(ctx, fx.tesoreria, &entity.Factura{Proveedor: "P", NumeroFactura: "N", Total: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	admin := entity.Actor{UserID: "u-admin", Role: entity.RoleAdmin}
	res, err := fx.uc.DevolverAFacturacion(ctx, admin, f.ID, "faltan soportes de la compra")
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoRecibida, res.Factura.EstadoID)
	require.NotNil(t, res.Factura.MotivoDevolucion)
}

func TestUseCase_FacturaInexistente(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.uc.EnviarATesoreria(context.Background(), fx.contabilidad, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUseCase_CrearDuplicada(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	nueva := func() *entity.Factura {
		return &entity.Factura{Proveedor: "Proveedor", NumeroFactura: "FE-9", Total: decimal.NewFromInt(10)}
	}
	_, err := fx.uc.Crear(ctx, fx.facturacion, nueva())
	require.NoError(t, err)
	_, err = fx.uc.Crear(ctx, fx.facturacion, nueva())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUseCase_CrearReportaTodosLosProblemas(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.uc.Crear(context.Background(), fx.facturacion, &entity.Factura{Total: decimal.Zero})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "proveedor")
	assert.Contains(t, err.Error(), "número de factura")
	assert.Contains(t, err.Error(), "total")
}

func TestUseCase_CrearTotalConMasDeDosDecimales(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.uc.Crear(ctx, fx.facturacion, &entity.Factura{
		Proveedor: "Proveedor", NumeroFactura: "FE-10", Total: decimal.RequireFromString("0.001"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "2 decimales")

	f, err := fx.uc.Crear(ctx, fx.facturacion, &entity.Factura{
		Proveedor: "Proveedor", NumeroFactura: "FE-10", Total: decimal.RequireFromString("1500.500"),
	})
	require.NoError(t, err, "ceros a la derecha no cuentan")
	assert.Equal(t, entity.EstadoRecibida, f.EstadoID)
}

func TestUseCase_CrearSinFactura(t *testing.T) {
	fx := newFixture(t)
	var f *entity.Factura
	assert.NotPanics(t, func() {
		_, err := fx.uc.Crear(context.Background(), fx.facturacion, f)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestUseCase_DevolucionYReenvio(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f := fx.crearAsignada(t, "FE-1005")
	fx.completarAlmacen(t, f, map[entity.CodigoInventario]string{
		entity.CodigoOCC: "1", entity.CodigoEDO: "2", entity.CodigoFPC: "3",
	}, false)
	_, err := fx.uc.EnviarAContabilidad(ctx, fx.responsable, f.ID)
	require.NoError(t, err)

	_, err = fx.uc.DevolverAResponsable(ctx, fx.contabilidad, f.ID, "corto")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := fx.uc.DevolverAResponsable(ctx, fx.contabilidad, f.ID, "el EDO no coincide con la factura")
	require.NoError(t, err)
	assert.Equal(t, fx.areaAlm, res.Factura.AreaID)
	assert.Equal(t, entity.EstadoAsignada, res.Factura.EstadoID)

	res, err = fx.uc.EnviarAContabilidad(ctx, fx.responsable, f.ID)
	require.NoError(t, err)
	assert.Nil(t, res.Factura.MotivoDevolucion)
}

func TestUseCase_VersionObsoleta(t *testing.T) {
	fx := newFixture(t)
	f := fx.crearAsignada(t, "FE-1006")

	stale := *fx.store.Factura(f.ID)
	ctx := context.Background()
	_, err := fx.uc.DevolverAFacturacion(ctx, fx.responsable, f.ID, "la factura no corresponde al área")
	require.NoError(t, err)

	err = fx.store.Repos().Facturas.Update(ctx, &stale)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestUseCase_ValidarNoModifica(t *testing.T) {
	fx := newFixture(t)
	f := fx.crearAsignada(t, "FE-1007")
	before := *fx.store.Factura(f.ID)

	rep, err := fx.uc.Validar(context.Background(), fx.responsable, f.ID, domainwf.TransitionEnviarAContabilidad)
	require.NoError(t, err)
	assert.False(t, rep.OK())
	assert.ElementsMatch(t, []string{domainwf.FieldCentroCosto, domainwf.FieldCentroOperacion}, rep.MissingFields())
	assert.Equal(t, before, *fx.store.Factura(f.ID))
}
