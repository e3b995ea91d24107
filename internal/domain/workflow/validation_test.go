package workflow_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/workflow"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	ccID    = "cc-1"
	coID    = "co-1"
	otroCC  = "cc-2"
	otroCO  = "co-2"
	unidad  = "un-1"
	cuenta  = "ca-1"
	areaFac = "area-fact"
	areaCon = "area-cont"
	areaTes = "area-tes"
	areaRes = "area-compras"
	areaRe2 = "area-mercadeo"
	userFac = "user-fact"
	userRes = "user-compras"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// facturaCompleta devuelve una factura sin inventarios que cumple todas las reglas de Contabilidad.
func facturaCompleta() *entity.Factura {
	return &entity.Factura{
		ID:                           "fac-1",
		Proveedor:                    "Proveedor SAS",
		NumeroFactura:                "FE-100",
		Total:                        dec("1500000"),
		AreaID:                       areaRes,
		EstadoID:                     entity.EstadoAsignada,
		AreaOrigenID:                 ptr(areaRes),
		CentroCostoID:                ptr(ccID),
		CentroOperacionID:            ptr(coID),
		IntervaloEntregaContabilidad: entity.Intervalo1Semana,
		Version:                      3,
	}
}

func owners() workflow.CentroOwners {
	return workflow.CentroOwners{coID: ccID, otroCO: otroCC}
}

func codigos(pairs ...string) []entity.FacturaInventarioCodigo {
	var out []entity.FacturaInventarioCodigo
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, entity.FacturaInventarioCodigo{FacturaID: "fac-1", Codigo: entity.CodigoInventario(pairs[i]), Valor: pairs[i+1]})
	}
	return out
}

func validarContabilidad(f *entity.Factura, cods []entity.FacturaInventarioCodigo) workflow.Report {
	return workflow.Validate(workflow.TransitionEnviarAContabilidad, workflow.Snapshot{
		Factura: f, Codigos: cods, CentroOwners: owners(),
	})
}

func rules(r workflow.Report) []string {
	out := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		out = append(out, v.Rule)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Grupo 1: clasificación de costo
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_FacturaCompletaSinInventariosEsElegible(t *testing.T) {
	rep := validarContabilidad(facturaCompleta(), nil)

	assert.True(t, rep.OK())
	assert.NoError(t, rep.Err())
	assert.Empty(t, rep.MissingFields())
	assert.Empty(t, rep.MissingCodes())
	assert.Empty(t, rep.ExtraCodes())
	assert.Empty(t, rep.MissingFiles())
}

func TestValidate_SinCentroCostoNiOperacionReportaAmbos(t *testing.T) {
	f := facturaCompleta()
	f.CentroCostoID = nil
	f.CentroOperacionID = ptr("  ")

	rep := validarContabilidad(f, nil)

	assert.Equal(t, []string{workflow.FieldCentroCosto, workflow.FieldCentroOperacion}, rep.MissingFields())
	assert.False(t, rep.HasFatal())
}

func TestValidate_CentroOperacionDeOtroCentroCostoEsFatal(t *testing.T) {
	f := facturaCompleta()
	f.CentroOperacionID = ptr(otroCO)

	rep := validarContabilidad(f, nil)

	require.Len(t, rep.Violations, 1)
	assert.Equal(t, workflow.RuleCentroOperacionFueraDeCC, rep.Violations[0].Rule)
	assert.True(t, rep.Violations[0].Fatal)
}

// ──────────────────────────────────────────────────────────────────────────────
// Grupo 2: anticipo e intervalo
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_AnticipoConsistencia(t *testing.T) {
	cases := []struct {
		name       string
		tiene      bool
		porcentaje *decimal.Decimal
		wantRules  []string
	}{
		{"sin anticipo y sin porcentaje", false, nil, []string{}},
		{"con anticipo y porcentaje válido", true, ptr(dec("30")), []string{}},
		{"con anticipo en cero", true, ptr(dec("0")), []string{}},
		{"con anticipo en cien", true, ptr(dec("100")), []string{}},
		{"con anticipo sin porcentaje", true, nil, []string{workflow.RuleAnticipoSinPorcentaje}},
		{"sin anticipo con porcentaje", false, ptr(dec("10")), []string{workflow.RulePorcentajeSinAnticipo}},
		{"porcentaje negativo", true, ptr(dec("-1")), []string{workflow.RulePorcentajeFueraDeRango}},
		{"porcentaje mayor a cien", true, ptr(dec("100.5")), []string{workflow.RulePorcentajeFueraDeRango}},
		{"ambas reglas a la vez", false, ptr(dec("150")), []string{workflow.RulePorcentajeSinAnticipo, workflow.RulePorcentajeFueraDeRango}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := facturaCompleta()
			f.TieneAnticipo = tc.tiene
			f.PorcentajeAnticipo = tc.porcentaje

			rep := validarContabilidad(f, nil)

			assert.Equal(t, tc.wantRules, rules(rep))
		})
	}
}

func TestValidate_IntervaloEntregaObligatorioYCerrado(t *testing.T) {
	f := facturaCompleta()
	f.IntervaloEntregaContabilidad = ""
	rep := validarContabilidad(f, nil)
	assert.Equal(t, []string{workflow.RuleIntervaloRequerido}, rules(rep))

	f.IntervaloEntregaContabilidad = "2_MESES"
	rep = validarContabilidad(f, nil)
	assert.Equal(t, []string{workflow.RuleIntervaloInvalido}, rules(rep))
	assert.Equal(t, []string{workflow.FieldIntervaloEntrega}, rep.MissingFields())
}

// ──────────────────────────────────────────────────────────────────────────────
// Grupo 3: inventarios
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_SinInventariosNoAdmiteDestinoNovedadNiNP(t *testing.T) {
	f := facturaCompleta()
	destino := entity.DestinoTienda
	f.DestinoInventarios = &destino
	f.PresentaNovedad = true

	rep := validarContabilidad(f, codigos("NP", "faltante"))

	assert.Equal(t, []string{
		workflow.RuleDestinoSinInventarios, workflow.RuleNovedadSinInventarios, workflow.RuleCodigoNPSinInventarios,
	}, rules(rep))
	assert.Equal(t, []string{"NP"}, rep.ExtraCodes())
	for _, v := range rep.Violations {
		assert.True(t, v.Fatal, "toda inconsistencia sin inventarios es fatal: %s", v.Rule)
	}
}

func TestValidate_SinInventariosCadaCondicionPorSeparado(t *testing.T) {
	destino := entity.DestinoAlmacen

	f := facturaCompleta()
	f.DestinoInventarios = &destino
	assert.False(t, validarContabilidad(f, nil).OK())

	f = facturaCompleta()
	f.PresentaNovedad = true
	assert.False(t, validarContabilidad(f, nil).OK())

	f = facturaCompleta()
	assert.False(t, validarContabilidad(f, codigos("NP", "x")).OK())

	f = facturaCompleta()
	assert.True(t, validarContabilidad(f, nil).OK())
}

func TestValidate_TiendaRequiereExactamenteSusCodigosBase(t *testing.T) {
	destino := entity.DestinoTienda
	base := func() *entity.Factura {
		f := facturaCompleta()
		f.RequiereEntradaInventarios = true
		f.DestinoInventarios = &destino
		return f
	}

	t.Run("conjunto exacto", func(t *testing.T) {
		rep := validarContabilidad(base(), codigos("OCT", "1", "ECT", "2", "FPC", "3"))
		assert.True(t, rep.OK())
	})
	t.Run("subconjunto", func(t *testing.T) {
		rep := validarContabilidad(base(), codigos("OCT", "1"))
		assert.Equal(t, []string{"ECT", "FPC"}, rep.MissingCodes())
		assert.Empty(t, rep.ExtraCodes())
	})
	t.Run("superconjunto", func(t *testing.T) {
		rep := validarContabilidad(base(), codigos("OCT", "1", "ECT", "2", "FPC", "3", "OCC", "4"))
		assert.Empty(t, rep.MissingCodes())
		assert.Equal(t, []string{"OCC"}, rep.ExtraCodes())
	})
	t.Run("NP sin novedad es sobrante", func(t *testing.T) {
		rep := validarContabilidad(base(), codigos("OCT", "1", "ECT", "2", "FPC", "3", "NP", "5"))
		assert.Equal(t, []string{"NP"}, rep.ExtraCodes())
	})
	t.Run("códigos de almacén en tienda", func(t *testing.T) {
		rep := validarContabilidad(base(), codigos("OCC", "1", "EDO", "2", "FPC", "3"))
		assert.Equal(t, []string{"OCT", "ECT"}, rep.MissingCodes())
		assert.Equal(t, []string{"OCC", "EDO"}, rep.ExtraCodes())
	})
}

func TestValidate_NovedadSiempreExigeNP(t *testing.T) {
	for _, destino := range []entity.DestinoInventarios{entity.DestinoTienda, entity.DestinoAlmacen} {
		t.Run(string(destino), func(t *testing.T) {
			f := facturaCompleta()
			f.RequiereEntradaInventarios = true
			d := destino
			f.DestinoInventarios = &d
			f.PresentaNovedad = true

			var cods []entity.FacturaInventarioCodigo
			for _, c := range entity.CodigosBasePorDestino[destino] {
				cods = append(cods, entity.FacturaInventarioCodigo{Codigo: c, Valor: "v"})
			}

			rep := validarContabilidad(f, cods)
			assert.Equal(t, []string{"NP"}, rep.MissingCodes())

			cods = append(cods, entity.FacturaInventarioCodigo{Codigo: entity.CodigoNP, Valor: "novedad"})
			rep = validarContabilidad(f, cods)
			assert.True(t, rep.OK(), "con NP la factura es elegible: %v", rules(rep))
		})
	}
}

func TestValidate_InventariosSinDestino(t *testing.T) {
	f := facturaCompleta()
	f.RequiereEntradaInventarios = true
	f.PresentaNovedad = true

	rep := validarContabilidad(f, codigos("OCT", "1"))

	assert.Equal(t, []string{workflow.FieldDestinoInventarios}, rep.MissingFields())
	assert.Equal(t, []string{"NP"}, rep.MissingCodes())
	// Sin destino no se puede juzgar si OCT sobra.
	assert.Empty(t, rep.ExtraCodes())
}

func TestValidate_CodigoSinValor(t *testing.T) {
	f := facturaCompleta()
	f.RequiereEntradaInventarios = true
	destino := entity.DestinoAlmacen
	f.DestinoInventarios = &destino

	rep := validarContabilidad(f, codigos("OCC", "x", "EDO", "  ", "FPC", "z"))

	assert.Equal(t, []string{workflow.RuleCodigoSinValor}, rules(rep))
	assert.Equal(t, []string{"codigo_edo"}, rep.MissingFields())
}

// ──────────────────────────────────────────────────────────────────────────────
// Reporte completo, sin truncar
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_NoSeDetieneEnLaPrimeraFalla(t *testing.T) {
	f := facturaCompleta()
	f.CentroCostoID = nil
	f.TieneAnticipo = true
	f.IntervaloEntregaContabilidad = ""
	f.RequiereEntradaInventarios = true
	destino := entity.DestinoTienda
	f.DestinoInventarios = &destino
	f.PresentaNovedad = true

	rep := validarContabilidad(f, codigos("OCT", "1", "OCC", "2"))

	assert.Equal(t, []string{workflow.FieldCentroCosto, workflow.FieldPorcentajeAnticipo, workflow.FieldIntervaloEntrega}, rep.MissingFields())
	assert.Equal(t, []string{"ECT", "FPC", "NP"}, rep.MissingCodes())
	assert.Equal(t, []string{"OCC"}, rep.ExtraCodes())

	err := rep.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidationFailed))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, len(rep.Violations))
	assert.Equal(t, string(workflow.TransitionEnviarAContabilidad), verr.Transition)
}

func TestValidate_DistribucionInvalidaBloqueaContabilidad(t *testing.T) {
	f := facturaCompleta()
	snap := workflow.Snapshot{
		Factura:      f,
		CentroOwners: owners(),
		Distribucion: []entity.DistribucionCCCO{
			{CentroCostoID: ccID, CentroOperacionID: coID, Porcentaje: dec("60")},
			{CentroCostoID: otroCC, CentroOperacionID: otroCO, Porcentaje: dec("39.99")},
		},
	}

	rep := workflow.Validate(workflow.TransitionEnviarAContabilidad, snap)

	require.Len(t, rep.Violations, 1)
	assert.Equal(t, workflow.RuleDistribucionInvalida, rep.Violations[0].Rule)
	assert.True(t, rep.Violations[0].Fatal)

	snap.Distribucion[1].Porcentaje = dec("40")
	assert.True(t, workflow.Validate(workflow.TransitionEnviarAContabilidad, snap).OK())
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos de cierre y transiciones sin reglas
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_CierreTesoreriaExigePECECyPCE(t *testing.T) {
	snap := workflow.Snapshot{Factura: facturaCompleta(), DocTypes: []entity.DocType{entity.DocPEC, entity.DocPCE, entity.DocOC}}

	rep := workflow.Validate(workflow.TransitionCerrarEnTesoreria, snap)
	assert.Equal(t, []string{"EC"}, rep.MissingFiles())

	snap.DocTypes = nil
	rep = workflow.Validate(workflow.TransitionCerrarEnTesoreria, snap)
	assert.Equal(t, []string{"PEC", "EC", "PCE"}, rep.MissingFiles())
}

func TestValidate_TransicionesSinReglasDeDatos(t *testing.T) {
	f := &entity.Factura{} // todo vacío
	for _, tr := range []workflow.Transition{
		workflow.TransitionCrear, workflow.TransitionAsignar, workflow.TransitionEnviarATesoreria,
		workflow.TransitionDevolverAResponsable, workflow.TransitionDevolverAFacturacion,
	} {
		assert.True(t, workflow.Validate(tr, workflow.Snapshot{Factura: f}).OK(), string(tr))
	}
}

func TestParseTransition(t *testing.T) {
	tr, ok := workflow.ParseTransition(" enviar_a_contabilidad ")
	assert.True(t, ok)
	assert.Equal(t, workflow.TransitionEnviarAContabilidad, tr)

	_, ok = workflow.ParseTransition("archivar")
	assert.False(t, ok)
}
