package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contabilidadcq-api/internal/application/documentos"
	"github.com/jhoicas/contabilidadcq-api/internal/application/dto"
)

// DocumentoHandler documentos soporte adjuntos a la factura.
type DocumentoHandler struct {
	uc *documentos.UseCase
}

// NewDocumentoHandler construye el handler.
func NewDocumentoHandler(uc *documentos.UseCase) *DocumentoHandler {
	return &DocumentoHandler{uc: uc}
}

// Upload godoc
// @Summary      Adjuntar documento soporte
// @Description  doc_type: OC, ECT, ECC, EC, PEC, PCE, FIR. Solo OC admite varios archivos.
// @Tags         documentos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string  true  "id de la factura"
// @Param        doc_type  formData  string  true  "tipo de documento"
// @Param        file      formData  file    true  "archivo"
// @Success      201  {object}  dto.FacturaFileResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/documentos [post]
func (h *DocumentoHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo requerido en el campo file"})
	}
	f, err := fh.Open()
	if err != nil {
		return badBody(c)
	}
	defer f.Close()

	out, err := h.uc.Upload(c.UserContext(), ActorFrom(c), c.Params("id"), documentos.Upload{
		DocType:     c.FormValue("doc_type"),
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Documentos de la factura
// @Tags         documentos
// @Produce      json
// @Security     BearerAuth
// @Param        id        path   string  true   "id de la factura"
// @Param        doc_type  query  string  false  "filtrar por tipo"
// @Success      200  {array}   dto.FacturaFileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/documentos [get]
func (h *DocumentoHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Params("id"), c.Query("doc_type"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Metadatos y enlace de descarga
// @Tags         documentos
// @Produce      json
// @Security     BearerAuth
// @Param        fileId  path  string  true  "id del documento"
// @Success      200  {object}  dto.FacturaFileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documentos/{fileId} [get]
func (h *DocumentoHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("fileId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Download godoc
// @Summary      Descargar documento
// @Tags         documentos
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        fileId  path  string  true  "id del documento"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documentos/{fileId}/contenido [get]
func (h *DocumentoHandler) Download(c *fiber.Ctx) error {
	file, body, err := h.uc.Open(c.UserContext(), c.Params("fileId"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	// fasthttp cierra el lector al terminar de enviar.
	return c.SendStream(body, int(file.SizeBytes))
}

// Delete godoc
// @Summary      Eliminar documento
// @Tags         documentos
// @Security     BearerAuth
// @Param        fileId  path  string  true  "id del documento"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documentos/{fileId} [delete]
func (h *DocumentoHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), ActorFrom(c), c.Params("fileId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

