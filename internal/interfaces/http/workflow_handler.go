package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contabilidadcq-api/internal/application/dto"
	"github.com/jhoicas/contabilidadcq-api/internal/application/workflow"
	domainwf "github.com/jhoicas/contabilidadcq-api/internal/domain/workflow"
)

// WorkflowHandler transiciones de la factura entre áreas.
type WorkflowHandler struct {
	uc *workflow.UseCase
}

// NewWorkflowHandler construye el handler.
func NewWorkflowHandler(uc *workflow.UseCase) *WorkflowHandler {
	return &WorkflowHandler{uc: uc}
}

func transitionResponse(res *workflow.Result) dto.TransitionResponse {
	out := dto.TransitionResponse{Factura: dto.FacturaFromEntity(res.Factura, res.Codigos)}
	if res.Report != nil {
		out.Report = dto.ReportFrom(*res.Report)
	}
	return out
}

// Asignar godoc
// @Summary      Asignar a área responsable
// @Tags         workflow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string              true  "id de la factura"
// @Param        body  body  dto.AsignarRequest  true  "área y responsable"
// @Success      200  {object}  dto.TransitionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/asignar [post]
func (h *WorkflowHandler) Asignar(c *fiber.Ctx) error {
	var in dto.AsignarRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.AreaID == "" || in.ResponsableUserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "area_id y responsable_user_id son requeridos"})
	}
	res, err := h.uc.Asignar(c.UserContext(), ActorFrom(c), c.Params("id"), in.AreaID, in.ResponsableUserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(transitionResponse(res))
}

// EnviarAContabilidad godoc
// @Summary      Enviar a Contabilidad
// @Description  Evalúa todas las reglas; si alguna falla responde 422 con el reporte completo.
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "id de la factura"
// @Success      200  {object}  dto.TransitionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ValidationErrorResponse
// @Router       /api/facturas/{id}/enviar-contabilidad [post]
func (h *WorkflowHandler) EnviarAContabilidad(c *fiber.Ctx) error {
	res, err := h.uc.EnviarAContabilidad(c.UserContext(), ActorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(transitionResponse(res))
}

// EnviarATesoreria godoc
// @Summary      Enviar a Tesorería
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "id de la factura"
// @Success      200  {object}  dto.TransitionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/enviar-tesoreria [post]
func (h *WorkflowHandler) EnviarATesoreria(c *fiber.Ctx) error {
	res, err := h.uc.EnviarATesoreria(c.UserContext(), ActorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(transitionResponse(res))
}

// Cerrar godoc
// @Summary      Cerrar en Tesorería
// @Description  Requiere documentos PEC, EC y PCE.
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "id de la factura"
// @Success      200  {object}  dto.TransitionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ValidationErrorResponse
// @Router       /api/facturas/{id}/cerrar [post]
func (h *WorkflowHandler) Cerrar(c *fiber.Ctx) error {
	res, err := h.uc.CerrarEnTesoreria(c.UserContext(), ActorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(transitionResponse(res))
}

// DevolverAResponsable godoc
// @Summary      Devolver al área responsable
// @Tags         workflow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "id de la factura"
// @Param        body  body  dto.DevolucionRequest  true  "motivo (mínimo 10 caracteres)"
// @Success      200  {object}  dto.TransitionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/devolver-responsable [post]
func (h *WorkflowHandler) DevolverAResponsable(c *fiber.Ctx) error {
	var in dto.DevolucionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.DevolverAResponsable(c.UserContext(), ActorFrom(c), c.Params("id"), in.Motivo)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(transitionResponse(res))
}

// DevolverAFacturacion godoc
// @Summary      Devolver a Facturación
// @Tags         workflow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "id de la factura"
// @Param        body  body  dto.DevolucionRequest  true  "motivo (mínimo 10 caracteres)"
// @Success      200  {object}  dto.TransitionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/devolver-facturacion [post]
func (h *WorkflowHandler) DevolverAFacturacion(c *fiber.Ctx) error {
	var in dto.DevolucionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.DevolverAFacturacion(c.UserContext(), ActorFrom(c), c.Params("id"), in.Motivo)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(transitionResponse(res))
}

// Validar godoc
// @Summary      Validar sin aplicar
// @Description  Reporte de las reglas de la transición indicada (por defecto enviar_a_contabilidad). No modifica nada.
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        id          path   string  true   "id de la factura"
// @Param        transition  query  string  false  "enviar_a_contabilidad | cerrar_en_tesoreria"
// @Success      200  {object}  dto.ReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/validar [get]
func (h *WorkflowHandler) Validar(c *fiber.Ctx) error {
	t := domainwf.TransitionEnviarAContabilidad
	if raw := c.Query("transition"); raw != "" {
		var ok bool
		if t, ok = domainwf.ParseTransition(raw); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "transición desconocida: " + raw})
		}
	}
	rep, err := h.uc.Validar(c.UserContext(), ActorFrom(c), c.Params("id"), t)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReportFrom(rep))
}

// Asignaciones godoc
// @Summary      Historial de asignaciones
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "id de la factura"
// @Success      200  {array}   dto.AsignacionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/asignaciones [get]
func (h *WorkflowHandler) Asignaciones(c *fiber.Ctx) error {
	rows, err := h.uc.Asignaciones(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.AsignacionResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, dto.AsignacionResponse{
			ID: a.ID, FacturaID: a.FacturaID, AreaID: a.AreaID, ResponsableUserID: a.ResponsableUserID, CreatedAt: a.CreatedAt,
		})
	}
	return c.JSON(out)
}
