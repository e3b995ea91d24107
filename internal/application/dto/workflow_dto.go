package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/contabilidadcq-api/internal/domain"
)

// AsignarRequest envío de la factura a un área responsable.
type AsignarRequest struct {
	AreaID            string `json:"area_id" validate:"required,uuid"`
	ResponsableUserID string `json:"responsable_user_id" validate:"required,uuid"`
}

// DevolucionRequest motivo de una devolución (mínimo 10 caracteres).
type DevolucionRequest struct {
	Motivo string `json:"motivo" validate:"required,min=10"`
}

// ReportResponse reporte del motor de validación.
type ReportResponse struct {
	Transition    string             `json:"transition"`
	OK            bool               `json:"ok"`
	MissingFields []string           `json:"missing_fields"`
	MissingCodes  []string           `json:"missing_codes"`
	ExtraCodes    []string           `json:"extra_codes"`
	MissingFiles  []string           `json:"missing_files"`
	Violations    []domain.Violation `json:"violations"`
}

// TransitionResponse resultado de una transición exitosa.
type TransitionResponse struct {
	Factura FacturaResponse `json:"factura"`
	Report  *ReportResponse `json:"report,omitempty"`
}

// AsignacionResponse entrada del historial de asignaciones.
type AsignacionResponse struct {
	ID                string    `json:"id"`
	FacturaID         string    `json:"factura_id"`
	AreaID            string    `json:"area_id"`
	ResponsableUserID string    `json:"responsable_user_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// DistribucionLineaRequest línea de reparto CC/CO.
type DistribucionLineaRequest struct {
	CentroCostoID     string          `json:"centro_costo_id"`
	CentroOperacionID string          `json:"centro_operacion_id"`
	UnidadNegocioID   *string         `json:"unidad_negocio_id"`
	CuentaAuxiliarID  *string         `json:"cuenta_auxiliar_id"`
	Porcentaje        decimal.Decimal `json:"porcentaje"`
}

// ReplaceDistribucionRequest conjunto completo de líneas (lista vacía = sin reparto explícito).
type ReplaceDistribucionRequest struct {
	Lineas []DistribucionLineaRequest `json:"lineas"`
}

// DistribucionLineaResponse línea persistida.
type DistribucionLineaResponse struct {
	ID                string          `json:"id"`
	Linea             int             `json:"linea"`
	CentroCostoID     string          `json:"centro_costo_id"`
	CentroOperacionID string          `json:"centro_operacion_id"`
	UnidadNegocioID   *string         `json:"unidad_negocio_id"`
	CuentaAuxiliarID  *string         `json:"cuenta_auxiliar_id"`
	Porcentaje        decimal.Decimal `json:"porcentaje"`
}

// DistribucionResponse distribución completa de la factura.
type DistribucionResponse struct {
	FacturaID string                      `json:"factura_id"`
	Lineas    []DistribucionLineaResponse `json:"lineas"`
	Total     decimal.Decimal             `json:"total"`
	Completa  bool                        `json:"completa"`
}

// DeleteDistribucionResponse resultado del borrado total.
type DeleteDistribucionResponse struct {
	Eliminadas int64 `json:"eliminadas"`
}
