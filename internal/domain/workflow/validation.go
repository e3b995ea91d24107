// Package workflow contiene el motor de validación y la máquina de estados del flujo de facturas
// (Facturación → Área responsable → Contabilidad → Tesorería). Todo aquí es puro: sin I/O.
package workflow

import (
	"fmt"
	"strings"

	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Transition nombre estable de una transición del flujo.
type Transition string

const (
	TransitionCrear                Transition = "crear"
	TransitionAsignar              Transition = "asignar"
	TransitionEnviarAContabilidad  Transition = "enviar_a_contabilidad"
	TransitionEnviarATesoreria     Transition = "enviar_a_tesoreria"
	TransitionCerrarEnTesoreria    Transition = "cerrar_en_tesoreria"
	TransitionDevolverAResponsable Transition = "devolver_a_responsable"
	TransitionDevolverAFacturacion Transition = "devolver_a_facturacion"
)

// ParseTransition convierte el nombre recibido por la API en una Transition conocida.
func ParseTransition(s string) (Transition, bool) {
	switch t := Transition(strings.TrimSpace(s)); t {
	case TransitionCrear, TransitionAsignar, TransitionEnviarAContabilidad, TransitionEnviarATesoreria,
		TransitionCerrarEnTesoreria, TransitionDevolverAResponsable, TransitionDevolverAFacturacion:
		return t, true
	}
	return "", false
}

// Códigos de regla estables (los consumen el frontend y los reportes).
const (
	RuleCentroCostoRequerido     = "centro_costo_requerido"
	RuleCentroOperacionRequerido = "centro_operacion_requerido"
	RuleCentroOperacionFueraDeCC = "centro_operacion_fuera_de_cc"
	RuleAnticipoSinPorcentaje    = "anticipo_sin_porcentaje"
	RulePorcentajeSinAnticipo    = "porcentaje_sin_anticipo"
	RulePorcentajeFueraDeRango   = "porcentaje_anticipo_fuera_de_rango"
	RuleIntervaloRequerido       = "intervalo_entrega_requerido"
	RuleIntervaloInvalido        = "intervalo_entrega_invalido"
	RuleDestinoSinInventarios    = "destino_sin_inventarios"
	RuleNovedadSinInventarios    = "novedad_sin_inventarios"
	RuleCodigoNPSinInventarios   = "codigo_np_sin_inventarios"
	RuleDestinoRequerido         = "destino_inventarios_requerido"
	RuleDestinoInvalido          = "destino_inventarios_invalido"
	RuleCodigoFaltante           = "codigo_inventario_faltante"
	RuleCodigoSobrante           = "codigo_inventario_sobrante"
	RuleCodigoSinValor           = "codigo_inventario_sin_valor"
	RuleDistribucionInvalida     = "distribucion_ccco_invalida"
	RuleDocumentoRequerido       = "documento_requerido"
)

// Campos reportados en las violaciones (nombres de la API).
const (
	FieldCentroCosto        = "centro_costo_id"
	FieldCentroOperacion    = "centro_operacion_id"
	FieldTieneAnticipo      = "tiene_anticipo"
	FieldPorcentajeAnticipo = "porcentaje_anticipo"
	FieldIntervaloEntrega   = "intervalo_entrega_contabilidad"
	FieldDestinoInventarios = "destino_inventarios"
	FieldPresentaNovedad    = "presenta_novedad"
	FieldDistribucion       = "distribucion_ccco"
)

// DocumentosCierreTesoreria tipos de documento obligatorios para cerrar en Tesorería.
var DocumentosCierreTesoreria = []entity.DocType{entity.DocPEC, entity.DocEC, entity.DocPCE}

// ordenCodigos orden canónico para reportar códigos faltantes o sobrantes.
var ordenCodigos = []entity.CodigoInventario{
	entity.CodigoOCT, entity.CodigoECT, entity.CodigoOCC, entity.CodigoEDO, entity.CodigoFPC, entity.CodigoNP,
}

var cien = decimal.NewFromInt(100)

// Snapshot estado de la factura y sus hijos tal como se cargaron dentro de la transacción.
// CentroOwners relaciona cada centro de operación referenciado con su centro de costo; si es nil
// no se verifica la pertenencia CO→CC.
type Snapshot struct {
	Factura      *entity.Factura
	Codigos      []entity.FacturaInventarioCodigo
	DocTypes     []entity.DocType
	Distribucion []entity.DistribucionCCCO
	CentroOwners CentroOwners
}

// Report resultado de evaluar una transición. Violations conserva el orden de evaluación.
type Report struct {
	Transition Transition
	Violations []domain.Violation
}

// OK indica que no hay violaciones.
func (r Report) OK() bool { return len(r.Violations) == 0 }

// HasFatal indica si alguna violación es una inconsistencia dura.
func (r Report) HasFatal() bool {
	for _, v := range r.Violations {
		if v.Fatal {
			return true
		}
	}
	return false
}

// MissingFields campos escalares faltantes o inválidos (sin duplicados, en orden de evaluación).
func (r Report) MissingFields() []string {
	return r.bucket(domain.KindMissingField, domain.KindInvalidField)
}

// MissingCodes códigos de inventario requeridos que no están.
func (r Report) MissingCodes() []string { return r.bucket(domain.KindMissingCode) }

// ExtraCodes códigos de inventario presentes que no corresponden.
func (r Report) ExtraCodes() []string { return r.bucket(domain.KindExtraCode) }

// MissingFiles tipos de documento requeridos que no están adjuntos.
func (r Report) MissingFiles() []string { return r.bucket(domain.KindMissingFile) }

func (r Report) bucket(kinds ...domain.ViolationKind) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, v := range r.Violations {
		for _, k := range kinds {
			if v.Kind == k && !seen[v.Field] {
				seen[v.Field] = true
				out = append(out, v.Field)
			}
		}
	}
	return out
}

// Err devuelve nil si no hay violaciones o un *domain.ValidationError con el reporte completo.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	return &domain.ValidationError{Transition: string(r.Transition), Violations: r.Violations}
}

// Validate evalúa todas las reglas de datos de la transición sobre el snapshot.
// Nunca se detiene en la primera falla. Las transiciones sin reglas de datos devuelven un reporte vacío.
func Validate(t Transition, snap Snapshot) Report {
	rep := Report{Transition: t, Violations: []domain.Violation{}}
	if snap.Factura == nil {
		return rep
	}
	var c collector
	switch t {
	case TransitionEnviarAContabilidad:
		c.clasificacion(snap)
		c.anticipo(snap.Factura)
		c.inventarios(snap)
		c.distribucion(snap)
	case TransitionCerrarEnTesoreria:
		c.documentos(snap.DocTypes, DocumentosCierreTesoreria)
	}
	rep.Violations = append(rep.Violations, c.out...)
	return rep
}

type collector struct {
	out []domain.Violation
}

func (c *collector) add(kind domain.ViolationKind, field, rule, reason string, fatal bool) {
	c.out = append(c.out, domain.Violation{Field: field, Rule: rule, Reason: reason, Kind: kind, Fatal: fatal})
}

// Grupo 1: CC y CO obligatorios.
func (c *collector) clasificacion(snap Snapshot) {
	f := snap.Factura
	if isBlank(f.CentroCostoID) {
		c.add(domain.KindMissingField, FieldCentroCosto, RuleCentroCostoRequerido,
			"el centro de costo es obligatorio", false)
	}
	if isBlank(f.CentroOperacionID) {
		c.add(domain.KindMissingField, FieldCentroOperacion, RuleCentroOperacionRequerido,
			"el centro de operación es obligatorio", false)
	}
	if !isBlank(f.CentroCostoID) && !isBlank(f.CentroOperacionID) && snap.CentroOwners != nil {
		if owner, ok := snap.CentroOwners[*f.CentroOperacionID]; ok && owner != *f.CentroCostoID {
			c.add(domain.KindInvalidField, FieldCentroOperacion, RuleCentroOperacionFueraDeCC,
				"el centro de operación no pertenece al centro de costo", true)
		}
	}
}

// Grupo 2: anticipo e intervalo de entrega.
func (c *collector) anticipo(f *entity.Factura) {
	switch {
	case f.TieneAnticipo && f.PorcentajeAnticipo == nil:
		c.add(domain.KindMissingField, FieldPorcentajeAnticipo, RuleAnticipoSinPorcentaje,
			"tiene anticipo pero no se indicó el porcentaje", false)
	case !f.TieneAnticipo && f.PorcentajeAnticipo != nil:
		c.add(domain.KindInvalidField, FieldPorcentajeAnticipo, RulePorcentajeSinAnticipo,
			"hay porcentaje de anticipo pero la factura no tiene anticipo", false)
	}
	if p := f.PorcentajeAnticipo; p != nil && (p.IsNegative() || p.GreaterThan(cien)) {
		c.add(domain.KindInvalidField, FieldPorcentajeAnticipo, RulePorcentajeFueraDeRango,
			fmt.Sprintf("el porcentaje de anticipo %s debe estar entre 0 y 100", p.String()), false)
	}
	switch {
	case f.IntervaloEntregaContabilidad == "":
		c.add(domain.KindMissingField, FieldIntervaloEntrega, RuleIntervaloRequerido,
			"el intervalo de entrega a contabilidad es obligatorio", false)
	case !f.IntervaloEntregaContabilidad.Valid():
		c.add(domain.KindInvalidField, FieldIntervaloEntrega, RuleIntervaloInvalido,
			fmt.Sprintf("intervalo de entrega %q no reconocido", f.IntervaloEntregaContabilidad), false)
	}
}

// Grupo 3: entrada de inventarios.
func (c *collector) inventarios(snap Snapshot) {
	f := snap.Factura
	present := make(map[entity.CodigoInventario]string, len(snap.Codigos))
	for _, cod := range snap.Codigos {
		present[cod.Codigo] = cod.Valor
	}

	if !f.RequiereEntradaInventarios {
		if f.DestinoInventarios != nil {
			c.add(domain.KindInvalidField, FieldDestinoInventarios, RuleDestinoSinInventarios,
				"no requiere entrada de inventarios pero tiene destino", true)
		}
		if f.PresentaNovedad {
			c.add(domain.KindInvalidField, FieldPresentaNovedad, RuleNovedadSinInventarios,
				"no requiere entrada de inventarios pero reporta novedad", true)
		}
		if _, ok := present[entity.CodigoNP]; ok {
			c.add(domain.KindExtraCode, string(entity.CodigoNP), RuleCodigoNPSinInventarios,
				"no requiere entrada de inventarios pero tiene código NP", true)
		}
		return
	}

	required := make(map[entity.CodigoInventario]bool)
	destinoConocido := false
	switch {
	case f.DestinoInventarios == nil:
		c.add(domain.KindMissingField, FieldDestinoInventarios, RuleDestinoRequerido,
			"requiere entrada de inventarios: el destino (TIENDA o ALMACEN) es obligatorio", false)
	case !f.DestinoInventarios.Valid():
		c.add(domain.KindInvalidField, FieldDestinoInventarios, RuleDestinoInvalido,
			fmt.Sprintf("destino de inventarios %q no reconocido", *f.DestinoInventarios), false)
	default:
		destinoConocido = true
		for _, cod := range entity.CodigosBasePorDestino[*f.DestinoInventarios] {
			required[cod] = true
		}
	}
	if f.PresentaNovedad {
		required[entity.CodigoNP] = true
	}

	for _, cod := range ordenCodigos {
		_, has := present[cod]
		if required[cod] && !has {
			c.add(domain.KindMissingCode, string(cod), RuleCodigoFaltante,
				fmt.Sprintf("falta el código de inventario %s", cod), false)
		}
	}
	for _, cod := range ordenCodigos {
		if _, has := present[cod]; !has || required[cod] {
			continue
		}
		// Sin destino válido solo se puede juzgar NP.
		if !destinoConocido && cod != entity.CodigoNP {
			continue
		}
		reason := fmt.Sprintf("el código de inventario %s no corresponde", cod)
		if cod == entity.CodigoNP {
			reason = "código NP presente sin novedad reportada"
		}
		c.add(domain.KindExtraCode, string(cod), RuleCodigoSobrante, reason, false)
	}
	for _, cod := range ordenCodigos {
		if v, has := present[cod]; has && required[cod] && strings.TrimSpace(v) == "" {
			c.add(domain.KindMissingField, "codigo_"+strings.ToLower(string(cod)), RuleCodigoSinValor,
				fmt.Sprintf("el código de inventario %s no tiene valor", cod), false)
		}
	}
}

// La distribución CC/CO, si existe, debe cumplir su invariante antes de salir del área responsable.
func (c *collector) distribucion(snap Snapshot) {
	if len(snap.Distribucion) == 0 {
		return
	}
	for _, reason := range DistribucionReasons(snap.Distribucion, snap.CentroOwners) {
		c.add(domain.KindInvalidField, FieldDistribucion, RuleDistribucionInvalida, reason, true)
	}
}

func (c *collector) documentos(have []entity.DocType, required []entity.DocType) {
	set := make(map[entity.DocType]bool, len(have))
	for _, d := range have {
		set[d] = true
	}
	for _, d := range required {
		if !set[d] {
			c.add(domain.KindMissingFile, string(d), RuleDocumentoRequerido,
				fmt.Sprintf("falta el documento %s", d), false)
		}
	}
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
