package workflow

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
)

// MinMotivoDevolucion longitud mínima (en caracteres, sin espacios de borde) del motivo de devolución.
const MinMotivoDevolucion = 10

// Refs ids fijos que la máquina necesita para enrutar la factura.
type Refs struct {
	FacturacionAreaID  string
	ContabilidadAreaID string
	TesoreriaAreaID    string
	FacturacionUserID  string // Usuario de Facturación que recibe las devoluciones; vacío = sin asignar
}

// IsResponsable indica si el área no es una de las áreas fijas del flujo.
func (r Refs) IsResponsable(areaID string) bool {
	return areaID != "" && areaID != r.FacturacionAreaID && areaID != r.ContabilidadAreaID && areaID != r.TesoreriaAreaID
}

// Machine aplica guardas y efectos de cada transición sobre la factura.
// Si una guarda falla no se modifica nada.
type Machine struct {
	refs Refs
	now  func() time.Time
}

// NewMachine construye la máquina con las referencias del flujo.
func NewMachine(refs Refs) *Machine {
	return &Machine{refs: refs, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (m *Machine) WithClock(now func() time.Time) *Machine {
	m.now = now
	return m
}

// Refs devuelve las referencias configuradas.
func (m *Machine) Refs() Refs { return m.refs }

// Crear fija el estado inicial de una factura recién ingresada.
func (m *Machine) Crear(f *entity.Factura) {
	now := m.now()
	f.EstadoID = entity.EstadoRecibida
	f.AreaID = m.refs.FacturacionAreaID
	f.AreaOrigenID = nil
	f.AssignedToUserID = nil
	f.AssignedAt = nil
	f.MotivoDevolucion = nil
	if f.IntervaloEntregaContabilidad == "" {
		f.IntervaloEntregaContabilidad = entity.Intervalo1Semana
	}
	f.Version = 1
	f.CreatedAt = now
	f.UpdatedAt = now
}

// Asignar envía la factura a un área responsable y a un usuario de esa área.
// La existencia del área y del usuario la verifica el llamador.
func (m *Machine) Asignar(f *entity.Factura, areaID string, user *entity.User) error {
	if f.EstadoID != entity.EstadoRecibida {
		return guard(TransitionAsignar, "solo se puede asignar una factura en estado %s (actual: %s)",
			entity.EstadoCode(entity.EstadoRecibida), entity.EstadoCode(f.EstadoID))
	}
	if !m.refs.IsResponsable(areaID) {
		return fmt.Errorf("%w: el área destino debe ser un área responsable", domain.ErrInvalidInput)
	}
	if user == nil || !user.BelongsToArea(areaID) {
		return fmt.Errorf("%w: el usuario no pertenece al área destino", domain.ErrInvalidInput)
	}
	now := m.now()
	f.AreaID = areaID
	f.EstadoID = entity.EstadoAsignada
	uid := user.ID
	f.AssignedToUserID = &uid
	f.AssignedAt = &now
	if f.AreaOrigenID == nil {
		origen := areaID
		f.AreaOrigenID = &origen
	}
	f.MotivoDevolucion = nil
	f.UpdatedAt = now
	return nil
}

// EnviarAContabilidad valida el conjunto completo de reglas y, si no hay violaciones, pasa la
// factura a Contabilidad. El reporte se devuelve siempre.
func (m *Machine) EnviarAContabilidad(snap Snapshot) (Report, error) {
	f := snap.Factura
	if f.EstadoID != entity.EstadoRecibida && f.EstadoID != entity.EstadoAsignada {
		return Report{Transition: TransitionEnviarAContabilidad},
			guard(TransitionEnviarAContabilidad, "la factura ya salió del área responsable (estado %s)", entity.EstadoCode(f.EstadoID))
	}
	rep := Validate(TransitionEnviarAContabilidad, snap)
	if err := rep.Err(); err != nil {
		return rep, err
	}
	now := m.now()
	f.AreaID = m.refs.ContabilidadAreaID
	f.EstadoID = entity.EstadoEnContabilidad
	f.AssignedToUserID = nil
	f.AssignedAt = &now
	f.MotivoDevolucion = nil
	f.UpdatedAt = now
	return rep, nil
}

// EnviarATesoreria pasa la factura de Contabilidad a Tesorería.
func (m *Machine) EnviarATesoreria(f *entity.Factura) error {
	if f.AreaID == m.refs.TesoreriaAreaID {
		return guard(TransitionEnviarATesoreria, "la factura ya está en Tesorería")
	}
	if f.AreaID != m.refs.ContabilidadAreaID {
		return guard(TransitionEnviarATesoreria, "la factura no está en Contabilidad")
	}
	now := m.now()
	f.AreaID = m.refs.TesoreriaAreaID
	f.EstadoID = entity.EstadoEnTesoreria
	f.AssignedToUserID = nil
	f.AssignedAt = &now
	f.MotivoDevolucion = nil
	f.UpdatedAt = now
	return nil
}

// CerrarEnTesoreria finaliza la factura si tiene los documentos de cierre. El área no cambia.
func (m *Machine) CerrarEnTesoreria(snap Snapshot) (Report, error) {
	f := snap.Factura
	if f.AreaID != m.refs.TesoreriaAreaID {
		return Report{Transition: TransitionCerrarEnTesoreria},
			guard(TransitionCerrarEnTesoreria, "la factura no está en Tesorería")
	}
	if f.EstadoID == entity.EstadoFinalizada {
		return Report{Transition: TransitionCerrarEnTesoreria},
			guard(TransitionCerrarEnTesoreria, "la factura ya está finalizada")
	}
	rep := Validate(TransitionCerrarEnTesoreria, snap)
	if err := rep.Err(); err != nil {
		return rep, err
	}
	f.EstadoID = entity.EstadoFinalizada
	f.MotivoDevolucion = nil
	f.UpdatedAt = m.now()
	return rep, nil
}

// DevolverAResponsable regresa la factura desde Contabilidad al área responsable de origen.
func (m *Machine) DevolverAResponsable(f *entity.Factura, motivo string) error {
	if f.EstadoID != entity.EstadoEnContabilidad {
		return guard(TransitionDevolverAResponsable, "solo se devuelven facturas en estado %s (actual: %s)",
			entity.EstadoCode(entity.EstadoEnContabilidad), entity.EstadoCode(f.EstadoID))
	}
	if f.AreaOrigenID == nil || *f.AreaOrigenID == "" {
		return guard(TransitionDevolverAResponsable, "la factura no tiene área de origen registrada")
	}
	motivo, err := normalizeMotivo(motivo)
	if err != nil {
		return err
	}
	f.AreaID = *f.AreaOrigenID
	f.EstadoID = entity.EstadoAsignada
	f.AssignedToUserID = nil
	f.MotivoDevolucion = &motivo
	f.UpdatedAt = m.now()
	return nil
}

// DevolverAFacturacion regresa la factura desde el área responsable a Facturación.
func (m *Machine) DevolverAFacturacion(f *entity.Factura, motivo string) error {
	if f.EstadoID != entity.EstadoAsignada {
		return guard(TransitionDevolverAFacturacion, "solo se devuelven facturas en estado %s (actual: %s)",
			entity.EstadoCode(entity.EstadoAsignada), entity.EstadoCode(f.EstadoID))
	}
	motivo, err := normalizeMotivo(motivo)
	if err != nil {
		return err
	}
	f.AreaID = m.refs.FacturacionAreaID
	f.EstadoID = entity.EstadoRecibida
	if m.refs.FacturacionUserID != "" {
		uid := m.refs.FacturacionUserID
		f.AssignedToUserID = &uid
	} else {
		f.AssignedToUserID = nil
	}
	f.MotivoDevolucion = &motivo
	f.UpdatedAt = m.now()
	return nil
}

func normalizeMotivo(motivo string) (string, error) {
	motivo = strings.TrimSpace(motivo)
	if utf8.RuneCountInString(motivo) < MinMotivoDevolucion {
		return "", fmt.Errorf("%w: el motivo de devolución debe tener al menos %d caracteres", domain.ErrInvalidInput, MinMotivoDevolucion)
	}
	return motivo, nil
}

func guard(t Transition, format string, args ...any) error {
	return &domain.GuardError{Transition: string(t), Reason: fmt.Sprintf(format, args...)}
}
