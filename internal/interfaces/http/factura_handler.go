package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contabilidadcq-api/internal/application/dto"
	"github.com/jhoicas/contabilidadcq-api/internal/application/factura"
)

// maxUBLBytes tope del XML recibido en la ingesta UBL.
const maxUBLBytes = 5 << 20

// FacturaHandler ingesta, consulta y edición por secciones.
type FacturaHandler struct {
	uc *factura.UseCase
}

// NewFacturaHandler construye el handler.
func NewFacturaHandler(uc *factura.UseCase) *FacturaHandler {
	return &FacturaHandler{uc: uc}
}

// Create godoc
// @Summary      Ingresar factura de proveedor
// @Description  Crea la factura en Facturación con estado RECIBIDA. Acepta JWT de facturación o X-API-Key.
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFacturaRequest  true  "datos de la factura"
// @Success      201   {object}  dto.FacturaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/facturas [post]
func (h *FacturaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFacturaRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Crear(c.UserContext(), ActorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// IngestUBL godoc
// @Summary      Ingresar factura desde XML UBL DIAN
// @Description  Acepta Invoice o AttachedDocument como cuerpo (application/xml) o en el campo multipart "file".
// @Tags         facturas
// @Accept       xml
// @Produce      json
// @Success      201   {object}  dto.FacturaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/facturas/ingesta/ubl [post]
func (h *FacturaHandler) IngestUBL(c *fiber.Ctx) error {
	data := c.Body()
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return badBody(c)
		}
		defer f.Close()
		if data, err = io.ReadAll(io.LimitReader(f, maxUBLBytes)); err != nil {
			return badBody(c)
		}
	}
	if len(data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "XML requerido"})
	}
	out, err := h.uc.IngestarUBL(c.UserContext(), ActorFrom(c), data)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         facturas
// @Produce      json
// @Security     BearerAuth
// @Param        area_id      query  string  false  "área actual"
// @Param        estado_id    query  int     false  "estado"
// @Param        assigned_to  query  string  false  "usuario asignado"
// @Param        q            query  string  false  "proveedor o número"
// @Param        limit        query  int     false  "límite (máx 100)"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {object}  dto.FacturaListResponse
// @Router       /api/facturas [get]
func (h *FacturaHandler) List(c *fiber.Ctx) error {
	var q dto.FacturaListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de consulta inválidos"})
	}
	out, err := h.uc.List(c.UserContext(), ActorFrom(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de factura
// @Tags         facturas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "id de la factura"
// @Success      200  {object}  dto.FacturaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id} [get]
func (h *FacturaHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateCentros godoc
// @Summary      Clasificación contable (CC, CO, UN, CA)
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "id de la factura"
// @Param        body  body  dto.UpdateCentrosRequest  true  "centros"
// @Success      200  {object}  dto.FacturaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/centros [patch]
func (h *FacturaHandler) UpdateCentros(c *fiber.Ctx) error {
	var in dto.UpdateCentrosRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateCentros(c.UserContext(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateInventarios godoc
// @Summary      Entrada de inventarios
// @Description  Los códigos se reemplazan completos. Si no requiere entrada se descartan destino, novedad y códigos.
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                        true  "id de la factura"
// @Param        body  body  dto.UpdateInventariosRequest  true  "sección de inventarios"
// @Success      200  {object}  dto.FacturaResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/inventarios [patch]
func (h *FacturaHandler) UpdateInventarios(c *fiber.Ctx) error {
	var in dto.UpdateInventariosRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateInventarios(c.UserContext(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateAnticipo godoc
// @Summary      Anticipo e intervalo de entrega
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                     true  "id de la factura"
// @Param        body  body  dto.UpdateAnticipoRequest  true  "anticipo"
// @Success      200  {object}  dto.FacturaResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/anticipo [patch]
func (h *FacturaHandler) UpdateAnticipo(c *fiber.Ctx) error {
	var in dto.UpdateAnticipoRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateAnticipo(c.UserContext(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateGastoAdm godoc
// @Summary      Marcar gasto administrativo
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                     true  "id de la factura"
// @Param        body  body  dto.UpdateGastoAdmRequest  true  "gasto administrativo"
// @Success      200  {object}  dto.FacturaResponse
// @Router       /api/facturas/{id}/gasto-adm [patch]
func (h *FacturaHandler) UpdateGastoAdm(c *fiber.Ctx) error {
	var in dto.UpdateGastoAdmRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateGastoAdm(c.UserContext(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// HojaRuta godoc
// @Summary      Hoja de ruta en PDF
// @Tags         facturas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "id de la factura"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/hoja-ruta [get]
func (h *FacturaHandler) HojaRuta(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.uc.HojaRuta(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="hoja-ruta-`+id+`.pdf"`)
	return c.Send(pdf)
}
