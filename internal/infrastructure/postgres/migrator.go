package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // fuente file:// para los .sql
	_ "github.com/jackc/pgx/v5/stdlib"                   // driver "pgx" para database/sql

	"github.com/jhoicas/contabilidadcq-api/pkg/logger"
)

// Migrator aplica las migraciones SQL del directorio migrations/ con golang-migrate.
type Migrator struct {
	m   *migrate.Migrate
	db  *sql.DB
	log *logger.Logger
}

// NewMigrator abre una conexión database/sql dedicada y prepara golang-migrate.
func NewMigrator(dsn, migrationsPath string, log *logger.Logger) (*Migrator, error) {
	abs, err := filepath.Abs(filepath.Clean(migrationsPath))
	if err != nil {
		return nil, fmt.Errorf("ruta de migraciones inválida: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("directorio de migraciones %s: %w", abs, err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir conexión de migraciones: %w", err)
	}
	driver, err := migratepg.WithInstance(db, &migratepg.Config{SchemaName: "public"})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("driver postgres de migrate: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+filepath.ToSlash(abs), "postgres", driver)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("crear instancia de migrate: %w", err)
	}
	return &Migrator{m: m, db: db, log: log}, nil
}

// Up aplica todas las migraciones pendientes. Sin cambios no es error.
func (mg *Migrator) Up() error {
	return mg.handle("up", mg.m.Up())
}

// Down revierte una migración.
func (mg *Migrator) Down() error {
	return mg.handle("down", mg.m.Steps(-1))
}

// Version devuelve la versión actual y si quedó sucia.
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Close libera la fuente y la conexión.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (mg *Migrator) handle(op string, err error) error {
	if err == nil {
		v, _, _ := mg.Version()
		mg.log.Info().Str("op", op).Uint("version", v).Msg("migraciones aplicadas")
		return nil
	}
	if errors.Is(err, migrate.ErrNoChange) {
		mg.log.Info().Str("op", op).Msg("sin migraciones pendientes")
		return nil
	}
	var dirty migrate.ErrDirty
	if errors.As(err, &dirty) {
		mg.log.Error().Int("version", dirty.Version).Msg("base de datos en versión sucia")
		return fmt.Errorf("migración %s: versión sucia %d: %w", op, dirty.Version, err)
	}
	return fmt.Errorf("migración %s: %w", op, err)
}
