package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contabilidadcq-api/internal/application/auth"
	"github.com/jhoicas/contabilidadcq-api/internal/application/catalogo"
	"github.com/jhoicas/contabilidadcq-api/internal/application/comentarios"
	"github.com/jhoicas/contabilidadcq-api/internal/application/distribucion"
	"github.com/jhoicas/contabilidadcq-api/internal/application/documentos"
	"github.com/jhoicas/contabilidadcq-api/internal/application/factura"
	"github.com/jhoicas/contabilidadcq-api/internal/application/workflow"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	WorkflowUC     *workflow.UseCase
	FacturaUC      *factura.UseCase
	DistribucionUC *distribucion.UseCase
	DocumentosUC   *documentos.UseCase
	ComentariosUC  *comentarios.UseCase
	CatalogoUC     *catalogo.UseCase
	JWTSecret      string
	IntakeAPIKey   string
}

// Router registra las rutas de la API. RequireRole filtra por rol; la regla fina
// (área responsable, estado, autor del comentario) la aplican los casos de uso.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	const (
		admin = entity.RoleAdmin
		fact  = entity.RoleFacturacion
		resp  = entity.RoleResponsable
		cont  = entity.RoleContabilidad
		tes   = entity.RoleTesoreria
	)
	anyRole := RequireRole(fact, resp, cont, tes)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), RequireRole(admin), authHandler.Register)

	facturaHandler := NewFacturaHandler(deps.FacturaUC)
	workflowHandler := NewWorkflowHandler(deps.WorkflowUC)
	distribucionHandler := NewDistribucionHandler(deps.DistribucionUC)
	documentoHandler := NewDocumentoHandler(deps.DocumentosUC)
	comentarioHandler := NewComentarioHandler(deps.ComentariosUC)
	catalogoHandler := NewCatalogoHandler(deps.CatalogoUC)

	// Ingesta: JWT de facturación o API key de integración.
	intake := IntakeAuth(deps.IntakeAPIKey, deps.JWTSecret)
	api.Post("/facturas", intake, RequireRole(fact), facturaHandler.Create)
	api.Post("/facturas/ingesta/ubl", intake, RequireRole(fact), facturaHandler.IngestUBL)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	facturas := protected.Group("/facturas")
	facturas.Get("/", anyRole, facturaHandler.List)
	facturas.Get("/:id", anyRole, facturaHandler.GetByID)
	facturas.Get("/:id/hoja-ruta", anyRole, facturaHandler.HojaRuta)
	facturas.Patch("/:id/centros", anyRole, facturaHandler.UpdateCentros)
	facturas.Patch("/:id/inventarios", anyRole, facturaHandler.UpdateInventarios)
	facturas.Patch("/:id/anticipo", anyRole, facturaHandler.UpdateAnticipo)
	facturas.Patch("/:id/gasto-adm", anyRole, facturaHandler.UpdateGastoAdm)

	// Transiciones
	facturas.Get("/:id/validar", anyRole, workflowHandler.Validar)
	facturas.Get("/:id/asignaciones", anyRole, workflowHandler.Asignaciones)
	facturas.Post("/:id/asignar", RequireRole(fact), workflowHandler.Asignar)
	facturas.Post("/:id/enviar-contabilidad", RequireRole(resp), workflowHandler.EnviarAContabilidad)
	facturas.Post("/:id/devolver-facturacion", RequireRole(resp), workflowHandler.DevolverAFacturacion)
	facturas.Post("/:id/enviar-tesoreria", RequireRole(cont), workflowHandler.EnviarATesoreria)
	facturas.Post("/:id/devolver-responsable", RequireRole(cont), workflowHandler.DevolverAResponsable)
	facturas.Post("/:id/cerrar", RequireRole(tes), workflowHandler.Cerrar)

	// Distribución CC/CO
	facturas.Get("/:id/distribucion", anyRole, distribucionHandler.Get)
	facturas.Put("/:id/distribucion", anyRole, distribucionHandler.Replace)
	facturas.Delete("/:id/distribucion", anyRole, distribucionHandler.Delete)

	// Documentos soporte
	facturas.Get("/:id/documentos", anyRole, documentoHandler.List)
	facturas.Post("/:id/documentos", anyRole, documentoHandler.Upload)
	docs := protected.Group("/documentos", anyRole)
	docs.Get("/:fileId", documentoHandler.Get)
	docs.Get("/:fileId/contenido", documentoHandler.Download)
	docs.Delete("/:fileId", documentoHandler.Delete)

	// Comentarios
	facturas.Get("/:id/comentarios", anyRole, comentarioHandler.List)
	facturas.Post("/:id/comentarios", anyRole, comentarioHandler.Create)
	coments := protected.Group("/comentarios", anyRole)
	coments.Put("/:comentarioId", comentarioHandler.Update)
	coments.Delete("/:comentarioId", comentarioHandler.Delete)

	// Catálogos
	catalogos := protected.Group("/catalogos", anyRole)
	catalogos.Get("/areas", catalogoHandler.Areas)
	catalogos.Get("/areas/:id/usuarios", catalogoHandler.UsuariosDeArea)
	catalogos.Get("/estados", catalogoHandler.Estados)
	catalogos.Get("/centros-costo", catalogoHandler.CentrosCosto)
	catalogos.Get("/centros-operacion", catalogoHandler.CentrosOperacion)
	catalogos.Get("/unidades-negocio", catalogoHandler.UnidadesNegocio)
	catalogos.Get("/cuentas-auxiliares", catalogoHandler.CuentasAuxiliares)
}
