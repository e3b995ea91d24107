package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contabilidadcq-api/internal/application/comentarios"
	"github.com/jhoicas/contabilidadcq-api/internal/application/dto"
)

// ComentarioHandler comentarios de la factura.
type ComentarioHandler struct {
	uc *comentarios.UseCase
}

// NewComentarioHandler construye el handler.
func NewComentarioHandler(uc *comentarios.UseCase) *ComentarioHandler {
	return &ComentarioHandler{uc: uc}
}

// List godoc
// @Summary      Comentarios de la factura
// @Tags         comentarios
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "id de la factura"
// @Success      200  {array}   dto.ComentarioResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/comentarios [get]
func (h *ComentarioHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Comentar la factura
// @Tags         comentarios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "id de la factura"
// @Param        body  body  dto.ComentarioRequest  true  "contenido"
// @Success      201  {object}  dto.ComentarioResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/comentarios [post]
func (h *ComentarioHandler) Create(c *fiber.Ctx) error {
	var in dto.ComentarioRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar comentario propio
// @Tags         comentarios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        comentarioId  path  string                 true  "id del comentario"
// @Param        body          body  dto.ComentarioRequest  true  "contenido"
// @Success      200  {object}  dto.ComentarioResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/comentarios/{comentarioId} [put]
func (h *ComentarioHandler) Update(c *fiber.Ctx) error {
	var in dto.ComentarioRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), ActorFrom(c), c.Params("comentarioId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar comentario propio
// @Tags         comentarios
// @Security     BearerAuth
// @Param        comentarioId  path  string  true  "id del comentario"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/comentarios/{comentarioId} [delete]
func (h *ComentarioHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), ActorFrom(c), c.Params("comentarioId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
