package dto

import "github.com/jhoicas/contabilidadcq-api/internal/domain"

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero o están fuera de rango.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Reasons []string `json:"reasons,omitempty"`
}

// ValidationErrorResponse cuerpo 422 cuando una transición no supera las validaciones.
// Siempre trae el reporte completo, agrupado por tipo.
type ValidationErrorResponse struct {
	Code          string             `json:"code"`
	Message       string             `json:"message"`
	Transition    string             `json:"transition"`
	MissingFields []string           `json:"missing_fields"`
	MissingCodes  []string           `json:"missing_codes"`
	ExtraCodes    []string           `json:"extra_codes"`
	MissingFiles  []string           `json:"missing_files"`
	Violations    []domain.Violation `json:"violations"`
}
