// Command cqctl tareas operativas: migraciones, validación de facturas y hoja de ruta.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/contabilidadcq-api/internal/application/workflow"
	domainwf "github.com/jhoicas/contabilidadcq-api/internal/domain/workflow"
	"github.com/jhoicas/contabilidadcq-api/internal/infrastructure/postgres"
	"github.com/jhoicas/contabilidadcq-api/pkg/config"
	"github.com/jhoicas/contabilidadcq-api/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "cqctl",
	Short:         "Herramientas de operación de ContabilidadCQ",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env dependencias compartidas por los subcomandos que tocan la base.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("cqctl")
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, pool: pool}, nil
}

func (e *env) Close() { e.pool.Close() }

func (e *env) workflow(ctx context.Context) (*workflow.UseCase, error) {
	refs, err := workflow.ResolveRefs(ctx, postgres.NewCatalogRepository(e.pool), workflow.AreaCodes{
		Facturacion:  e.cfg.Workflow.FacturacionAreaCode,
		Contabilidad: e.cfg.Workflow.ContabilidadAreaCode,
		Tesoreria:    e.cfg.Workflow.TesoreriaAreaCode,
	}, e.cfg.Workflow.FacturacionUserID)
	if err != nil {
		return nil, err
	}
	return workflow.NewUseCase(postgres.NewTxRunner(e.pool), domainwf.NewMachine(refs), e.log), nil
}
