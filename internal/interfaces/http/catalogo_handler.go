package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contabilidadcq-api/internal/application/catalogo"
)

// CatalogoHandler catálogos de solo lectura.
type CatalogoHandler struct {
	uc *catalogo.UseCase
}

// NewCatalogoHandler construye el handler.
func NewCatalogoHandler(uc *catalogo.UseCase) *CatalogoHandler {
	return &CatalogoHandler{uc: uc}
}

// Areas godoc
// @Summary      Áreas
// @Tags         catalogos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.AreaResponse
// @Router       /api/catalogos/areas [get]
func (h *CatalogoHandler) Areas(c *fiber.Ctx) error {
	return respond(c, func() (any, error) { return h.uc.Areas(c.UserContext()) })
}

// UsuariosDeArea godoc
// @Summary      Usuarios activos del área
// @Tags         catalogos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "id del área"
// @Success      200  {array}   dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalogos/areas/{id}/usuarios [get]
func (h *CatalogoHandler) UsuariosDeArea(c *fiber.Ctx) error {
	return respond(c, func() (any, error) { return h.uc.UsuariosDeArea(c.UserContext(), c.Params("id")) })
}

// Estados godoc
// @Summary      Estados del flujo
// @Tags         catalogos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.EstadoResponse
// @Router       /api/catalogos/estados [get]
func (h *CatalogoHandler) Estados(c *fiber.Ctx) error {
	return respond(c, func() (any, error) { return h.uc.Estados(c.UserContext()) })
}

// CentrosCosto godoc
// @Summary      Centros de costo
// @Tags         catalogos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.CatalogItemResponse
// @Router       /api/catalogos/centros-costo [get]
func (h *CatalogoHandler) CentrosCosto(c *fiber.Ctx) error {
	return respond(c, func() (any, error) { return h.uc.CentrosCosto(c.UserContext()) })
}

// CentrosOperacion godoc
// @Summary      Centros de operación
// @Tags         catalogos
// @Produce      json
// @Security     BearerAuth
// @Param        centro_costo_id  query  string  false  "filtrar por centro de costo"
// @Success      200  {array}  dto.CentroOperacionResponse
// @Router       /api/catalogos/centros-operacion [get]
func (h *CatalogoHandler) CentrosOperacion(c *fiber.Ctx) error {
	return respond(c, func() (any, error) { return h.uc.CentrosOperacion(c.UserContext(), c.Query("centro_costo_id")) })
}

// UnidadesNegocio godoc
// @Summary      Unidades de negocio
// @Tags         catalogos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.CatalogItemResponse
// @Router       /api/catalogos/unidades-negocio [get]
func (h *CatalogoHandler) UnidadesNegocio(c *fiber.Ctx) error {
	return respond(c, func() (any, error) { return h.uc.UnidadesNegocio(c.UserContext()) })
}

// CuentasAuxiliares godoc
// @Summary      Cuentas auxiliares
// @Tags         catalogos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.CatalogItemResponse
// @Router       /api/catalogos/cuentas-auxiliares [get]
func (h *CatalogoHandler) CuentasAuxiliares(c *fiber.Ctx) error {
	return respond(c, func() (any, error) { return h.uc.CuentasAuxiliares(c.UserContext()) })
}

func respond(c *fiber.Ctx, fn func() (any, error)) error {
	out, err := fn()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
