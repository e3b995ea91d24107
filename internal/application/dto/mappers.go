package dto

import (
	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/workflow"
)

// FacturaFromEntity proyecta la factura; codigos puede ser nil.
func FacturaFromEntity(f *entity.Factura, codigos []entity.FacturaInventarioCodigo) FacturaResponse {
	out := FacturaResponse{
		ID:                           f.ID,
		Proveedor:                    f.Proveedor,
		ProveedorNIT:                 f.ProveedorNIT,
		NumeroFactura:                f.NumeroFactura,
		FechaEmision:                 f.FechaEmision,
		FechaVencimiento:             f.FechaVencimiento,
		Total:                        f.Total,
		AreaID:                       f.AreaID,
		EstadoID:                     f.EstadoID,
		Estado:                       entity.EstadoCode(f.EstadoID),
		AreaOrigenID:                 f.AreaOrigenID,
		AssignedToUserID:             f.AssignedToUserID,
		AssignedAt:                   f.AssignedAt,
		CentroCostoID:                f.CentroCostoID,
		CentroOperacionID:            f.CentroOperacionID,
		UnidadNegocioID:              f.UnidadNegocioID,
		CuentaAuxiliarID:             f.CuentaAuxiliarID,
		RequiereEntradaInventarios:   f.RequiereEntradaInventarios,
		PresentaNovedad:              f.PresentaNovedad,
		TieneAnticipo:                f.TieneAnticipo,
		PorcentajeAnticipo:           f.PorcentajeAnticipo,
		IntervaloEntregaContabilidad: string(f.IntervaloEntregaContabilidad),
		EsGastoAdm:                   f.EsGastoAdm,
		MotivoDevolucion:             f.MotivoDevolucion,
		Version:                      f.Version,
		CreatedAt:                    f.CreatedAt,
		UpdatedAt:                    f.UpdatedAt,
	}
	if f.DestinoInventarios != nil {
		d := string(*f.DestinoInventarios)
		out.DestinoInventarios = &d
	}
	for _, c := range codigos {
		out.Codigos = append(out.Codigos, InventarioCodigoDTO{Codigo: string(c.Codigo), Valor: c.Valor})
	}
	return out
}

// ReportFrom proyecta el reporte del motor de validación.
func ReportFrom(r workflow.Report) *ReportResponse {
	v := r.Violations
	if v == nil {
		v = []domain.Violation{}
	}
	return &ReportResponse{
		Transition:    string(r.Transition),
		OK:            r.OK(),
		MissingFields: r.MissingFields(),
		MissingCodes:  r.MissingCodes(),
		ExtraCodes:    r.ExtraCodes(),
		MissingFiles:  r.MissingFiles(),
		Violations:    v,
	}
}

// ValidationErrorFrom construye el cuerpo 422 a partir del error tipado.
func ValidationErrorFrom(e *domain.ValidationError) ValidationErrorResponse {
	rep := ReportFrom(workflow.Report{Transition: workflow.Transition(e.Transition), Violations: e.Violations})
	return ValidationErrorResponse{
		Code:          "VALIDATION_FAILED",
		Message:       domain.ErrValidationFailed.Error(),
		Transition:    rep.Transition,
		MissingFields: rep.MissingFields,
		MissingCodes:  rep.MissingCodes,
		ExtraCodes:    rep.ExtraCodes,
		MissingFiles:  rep.MissingFiles,
		Violations:    rep.Violations,
	}
}

// DistribucionFrom proyecta las líneas y su suma.
func DistribucionFrom(facturaID string, lines []entity.DistribucionCCCO) DistribucionResponse {
	out := DistribucionResponse{FacturaID: facturaID, Lineas: make([]DistribucionLineaResponse, 0, len(lines))}
	for _, l := range lines {
		out.Total = out.Total.Add(l.Porcentaje)
		out.Lineas = append(out.Lineas, DistribucionLineaResponse{
			ID:                l.ID,
			Linea:             l.Linea,
			CentroCostoID:     l.CentroCostoID,
			CentroOperacionID: l.CentroOperacionID,
			UnidadNegocioID:   l.UnidadNegocioID,
			CuentaAuxiliarID:  l.CuentaAuxiliarID,
			Porcentaje:        l.Porcentaje,
		})
	}
	out.Completa = len(lines) > 0 && workflow.SumaCompleta(out.Total)
	return out
}

// FileFrom proyecta los metadatos de un documento.
func FileFrom(f *entity.FacturaFile) FacturaFileResponse {
	return FacturaFileResponse{
		ID:              f.ID,
		FacturaID:       f.FacturaID,
		DocType:         string(f.DocType),
		Filename:        f.Filename,
		ContentType:     f.ContentType,
		SizeBytes:       f.SizeBytes,
		StorageProvider: f.StorageProvider,
		UploadedBy:      f.UploadedBy,
		CreatedAt:       f.CreatedAt,
	}
}

// ComentarioFrom proyecta un comentario.
func ComentarioFrom(c *entity.Comentario) ComentarioResponse {
	return ComentarioResponse{
		ID:        c.ID,
		FacturaID: c.FacturaID,
		UserID:    c.UserID,
		Contenido: c.Contenido,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// UserFrom proyecta un usuario sin el hash de la contraseña.
func UserFrom(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		AreaID:    u.AreaID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
