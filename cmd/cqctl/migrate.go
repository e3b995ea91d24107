package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/contabilidadcq-api/internal/infrastructure/postgres"
	"github.com/jhoicas/contabilidadcq-api/pkg/config"
	"github.com/jhoicas/contabilidadcq-api/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migraciones del esquema (golang-migrate)",
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.PersistentFlags().String("path", "", "directorio de migraciones (por defecto MIGRATIONS_PATH)")

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, (*postgres.Migrator).Up)
		},
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revierte la última migración",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, (*postgres.Migrator).Down)
		},
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Muestra la versión actual del esquema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(mg *postgres.Migrator) error {
				v, dirty, err := mg.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "versión %d (dirty=%t)\n", v, dirty)
				return nil
			})
		},
	})
}

func withMigrator(cmd *cobra.Command, fn func(*postgres.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	path, _ := cmd.Flags().GetString("path")
	if path == "" {
		path = cfg.DB.MigrationsPath
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")
	mg, err := postgres.NewMigrator(cfg.DB.ConnectionString(), path, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := mg.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("cerrar migrador")
		}
	}()
	return fn(mg)
}
