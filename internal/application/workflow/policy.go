package workflow

import (
	"fmt"

	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	domainwf "github.com/jhoicas/contabilidadcq-api/internal/domain/workflow"
)

// Authorize decide si el actor puede pedir la transición sobre la factura.
// Admin puede todo; el responsable solo actúa sobre facturas que están en su área.
func Authorize(a entity.Actor, t domainwf.Transition, f *entity.Factura) error {
	if a.IsAdmin() {
		return nil
	}
	var ok bool
	switch t {
	case domainwf.TransitionCrear, domainwf.TransitionAsignar:
		ok = a.Role == entity.RoleFacturacion
	case domainwf.TransitionEnviarAContabilidad, domainwf.TransitionDevolverAFacturacion:
		ok = a.Role == entity.RoleResponsable && f != nil && a.AreaID != "" && a.AreaID == f.AreaID
	case domainwf.TransitionEnviarATesoreria, domainwf.TransitionDevolverAResponsable:
		ok = a.Role == entity.RoleContabilidad
	case domainwf.TransitionCerrarEnTesoreria:
		ok = a.Role == entity.RoleTesoreria
	}
	if !ok {
		return fmt.Errorf("%w: el rol %q no puede ejecutar %s sobre esta factura", domain.ErrForbidden, a.Role, t)
	}
	return nil
}

// CanEdit decide si el actor puede modificar los datos de la factura (secciones, distribución,
// documentos). Solo el área que la tiene puede editarla y una factura finalizada es de solo lectura.
func CanEdit(a entity.Actor, f *entity.Factura) error {
	if f.EstadoID == entity.EstadoFinalizada {
		return &domain.GuardError{Transition: "editar", Reason: "la factura está finalizada"}
	}
	if a.IsAdmin() || (a.AreaID != "" && a.AreaID == f.AreaID) {
		return nil
	}
	return fmt.Errorf("%w: la factura no está en el área del usuario", domain.ErrForbidden)
}
