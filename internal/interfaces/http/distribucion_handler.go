package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contabilidadcq-api/internal/application/distribucion"
	"github.com/jhoicas/contabilidadcq-api/internal/application/dto"
)

// DistribucionHandler reparto CC/CO de la factura.
type DistribucionHandler struct {
	uc *distribucion.UseCase
}

// NewDistribucionHandler construye el handler.
func NewDistribucionHandler(uc *distribucion.UseCase) *DistribucionHandler {
	return &DistribucionHandler{uc: uc}
}

// Get godoc
// @Summary      Distribución CC/CO
// @Tags         distribucion
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "id de la factura"
// @Success      200  {object}  dto.DistribucionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/distribucion [get]
func (h *DistribucionHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Replace godoc
// @Summary      Reemplazar distribución CC/CO
// @Description  La suma debe ser 100 (tolerancia estricta 0.01) y cada CO debe pertenecer a su CC.
// @Tags         distribucion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                          true  "id de la factura"
// @Param        body  body  dto.ReplaceDistribucionRequest  true  "líneas"
// @Success      200  {object}  dto.DistribucionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/distribucion [put]
func (h *DistribucionHandler) Replace(c *fiber.Ctx) error {
	var in dto.ReplaceDistribucionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Replace(c.UserContext(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar distribución CC/CO
// @Tags         distribucion
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "id de la factura"
// @Success      200  {object}  dto.DeleteDistribucionResponse
// @Router       /api/facturas/{id}/distribucion [delete]
func (h *DistribucionHandler) Delete(c *fiber.Ctx) error {
	n, err := h.uc.DeleteAll(c.UserContext(), ActorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeleteDistribucionResponse{Eliminadas: n})
}
