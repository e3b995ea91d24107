package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrValidationFailed   = errors.New("la factura no cumple las validaciones requeridas")
	ErrGuardFailed        = errors.New("transición no permitida desde la posición actual")
	ErrInvariantViolation = errors.New("invariante de datos violada")
)

// Violation es un incumplimiento puntual detectado por el motor de validación.
type Violation struct {
	Field  string        `json:"field"`
	Rule   string        `json:"rule"`
	Reason string        `json:"reason"`
	Kind   ViolationKind `json:"kind"`
	Fatal  bool          `json:"fatal,omitempty"`
}

// ViolationKind clasifica la violación para agruparla en el reporte.
type ViolationKind string

const (
	KindMissingField ViolationKind = "missing_field"
	KindInvalidField ViolationKind = "invalid_field"
	KindMissingCode  ViolationKind = "missing_code"
	KindExtraCode    ViolationKind = "extra_code"
	KindMissingFile  ViolationKind = "missing_file"
)

// ValidationError envuelve el reporte completo de violaciones de una transición.
// Nunca se trunca al primer error.
type ValidationError struct {
	Transition string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%d violaciones)", ErrValidationFailed.Error(), e.Transition, len(e.Violations))
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// GuardError indica que la factura no está en el área/estado requerido por la transición.
type GuardError struct {
	Transition string
	Reason     string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("%s: %s", e.Transition, e.Reason)
}

func (e *GuardError) Unwrap() error { return ErrGuardFailed }

// InvariantError agrupa las razones por las que un conjunto de datos viola una invariante
// (distribución que no suma 100, CO que no pertenece al CC, anticipo inconsistente...).
type InvariantError struct {
	Reasons []string
}

func (e *InvariantError) Error() string {
	return ErrInvariantViolation.Error() + ": " + strings.Join(e.Reasons, "; ")
}

func (e *InvariantError) Unwrap() error { return ErrInvariantViolation }

// NewInvariantError construye el error solo si hay razones; en otro caso devuelve nil.
func NewInvariantError(reasons []string) error {
	if len(reasons) == 0 {
		return nil
	}
	return &InvariantError{Reasons: reasons}
}
