package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/contabilidadcq-api/internal/application/auth"
	"github.com/jhoicas/contabilidadcq-api/internal/application/catalogo"
	"github.com/jhoicas/contabilidadcq-api/internal/application/comentarios"
	"github.com/jhoicas/contabilidadcq-api/internal/application/distribucion"
	"github.com/jhoicas/contabilidadcq-api/internal/application/documentos"
	"github.com/jhoicas/contabilidadcq-api/internal/application/factura"
	"github.com/jhoicas/contabilidadcq-api/internal/application/workflow"
	domainwf "github.com/jhoicas/contabilidadcq-api/internal/domain/workflow"
	infrapdf "github.com/jhoicas/contabilidadcq-api/internal/infrastructure/pdf"
	"github.com/jhoicas/contabilidadcq-api/internal/infrastructure/postgres"
	"github.com/jhoicas/contabilidadcq-api/internal/infrastructure/storage"
	"github.com/jhoicas/contabilidadcq-api/internal/infrastructure/ubl"
	httpRouter "github.com/jhoicas/contabilidadcq-api/internal/interfaces/http"
	"github.com/jhoicas/contabilidadcq-api/pkg/config"
	"github.com/jhoicas/contabilidadcq-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	catalogRepo := postgres.NewCatalogRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	facturaRepo := postgres.NewFacturaRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Las áreas fijas del flujo se resuelven una vez al arrancar.
	refs, err := workflow.ResolveRefs(ctx, catalogRepo, workflow.AreaCodes{
		Facturacion:  cfg.Workflow.FacturacionAreaCode,
		Contabilidad: cfg.Workflow.ContabilidadAreaCode,
		Tesoreria:    cfg.Workflow.TesoreriaAreaCode,
	}, cfg.Workflow.FacturacionUserID)
	if err != nil {
		log.Fatal().Err(err).Msg("resolver áreas del flujo")
	}

	objects, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.Storage.Provider).Msg("almacenamiento de documentos")
	}

	workflowUC := workflow.NewUseCase(txRunner, domainwf.NewMachine(refs), log)
	facturaUC := factura.NewUseCase(txRunner, workflowUC, ubl.NewParser(), infrapdf.NewMarotoPDFGenerator(), log)
	distribucionUC := distribucion.NewUseCase(txRunner, log)
	documentosUC := documentos.NewUseCase(txRunner, objects, documentos.Options{
		MaxBytes:   int64(cfg.Storage.MaxUploadMB) << 20,
		PresignTTL: time.Duration(cfg.Storage.PresignMinutes) * time.Minute,
	}, log)
	comentariosUC := comentarios.NewUseCase(facturaRepo, postgres.NewComentarioRepository(pool))
	catalogoUC := catalogo.NewUseCase(catalogRepo, userRepo, refs)
	authUC := auth.NewAuthUseCase(userRepo, catalogRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB << 20,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + httpRouter.HeaderAPIKey,
	}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs (requiere docs/swagger.json generado con swag).
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "ContabilidadCQ API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("sin documentación swagger")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		WorkflowUC:     workflowUC,
		FacturaUC:      facturaUC,
		DistribucionUC: distribucionUC,
		DocumentosUC:   documentosUC,
		ComentariosUC:  comentariosUC,
		CatalogoUC:     catalogoUC,
		JWTSecret:      cfg.JWT.Secret,
		IntakeAPIKey:   cfg.Intake.APIKey,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
