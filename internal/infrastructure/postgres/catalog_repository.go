package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lecturas de áreas, estados y catálogos contables.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// getOne ejecuta un SELECT de una fila; devuelve (false, nil) si no hay filas o el id no es UUID.
func (r *CatalogRepo) getOne(ctx context.Context, what, query, id string, dest ...any) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	if err := r.q.QueryRow(ctx, query, id).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("get %s: %w", what, err)
	}
	return true, nil
}

// GetArea devuelve (nil, nil) si no existe.
func (r *CatalogRepo) GetArea(ctx context.Context, id string) (*entity.Area, error) {
	var a entity.Area
	ok, err := r.getOne(ctx, "area", `SELECT id, nombre, code FROM areas WHERE id = $1`, id, &a.ID, &a.Nombre, &a.Code)
	if !ok {
		return nil, err
	}
	return &a, nil
}

// GetAreaByCode busca el área por su código estable (fact, cont, tes...).
func (r *CatalogRepo) GetAreaByCode(ctx context.Context, code string) (*entity.Area, error) {
	var a entity.Area
	err := r.q.QueryRow(ctx, `SELECT id, nombre, code FROM areas WHERE code = $1`, code).Scan(&a.ID, &a.Nombre, &a.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get area by code: %w", err)
	}
	return &a, nil
}

// ListAreas lista todas las áreas por nombre.
func (r *CatalogRepo) ListAreas(ctx context.Context) ([]*entity.Area, error) {
	rows, err := r.q.Query(ctx, `SELECT id, nombre, code FROM areas ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Area
	for rows.Next() {
		var a entity.Area
		if err := rows.Scan(&a.ID, &a.Nombre, &a.Code); err != nil {
			return nil, fmt.Errorf("scan area: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// ListEstados lista los estados en orden del flujo.
func (r *CatalogRepo) ListEstados(ctx context.Context) ([]*entity.Estado, error) {
	rows, err := r.q.Query(ctx, `SELECT id, code, label, orden, is_final FROM estados ORDER BY orden`)
	if err != nil {
		return nil, fmt.Errorf("list estados: %w", err)
	}
	defer rows.Close()
	var list []*entity.Estado
	for rows.Next() {
		var e entity.Estado
		if err := rows.Scan(&e.ID, &e.Code, &e.Label, &e.Order, &e.IsFinal); err != nil {
			return nil, fmt.Errorf("scan estado: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// GetCentroCosto devuelve (nil, nil) si no existe.
func (r *CatalogRepo) GetCentroCosto(ctx context.Context, id string) (*entity.CentroCosto, error) {
	var c entity.CentroCosto
	ok, err := r.getOne(ctx, "centro costo", `SELECT id, codigo, nombre, activo FROM centros_costo WHERE id = $1`, id,
		&c.ID, &c.Codigo, &c.Nombre, &c.Activo)
	if !ok {
		return nil, err
	}
	return &c, nil
}

// ListCentrosCosto lista los centros de costo por código.
func (r *CatalogRepo) ListCentrosCosto(ctx context.Context) ([]*entity.CentroCosto, error) {
	rows, err := r.q.Query(ctx, `SELECT id, codigo, nombre, activo FROM centros_costo ORDER BY codigo`)
	if err != nil {
		return nil, fmt.Errorf("list centros costo: %w", err)
	}
	defer rows.Close()
	var list []*entity.CentroCosto
	for rows.Next() {
		var c entity.CentroCosto
		if err := rows.Scan(&c.ID, &c.Codigo, &c.Nombre, &c.Activo); err != nil {
			return nil, fmt.Errorf("scan centro costo: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// GetCentroOperacion devuelve (nil, nil) si no existe.
func (r *CatalogRepo) GetCentroOperacion(ctx context.Context, id string) (*entity.CentroOperacion, error) {
	var c entity.CentroOperacion
	ok, err := r.getOne(ctx, "centro operacion",
		`SELECT id, centro_costo_id, codigo, nombre, activo FROM centros_operacion WHERE id = $1`, id,
		&c.ID, &c.CentroCostoID, &c.Codigo, &c.Nombre, &c.Activo)
	if !ok {
		return nil, err
	}
	return &c, nil
}

// ListCentrosOperacion lista los centros de operación, opcionalmente de un centro de costo.
func (r *CatalogRepo) ListCentrosOperacion(ctx context.Context, centroCostoID string) ([]*entity.CentroOperacion, error) {
	query := `SELECT id, centro_costo_id, codigo, nombre, activo FROM centros_operacion`
	var args []any
	if centroCostoID != "" {
		if _, err := uuid.Parse(centroCostoID); err != nil {
			return nil, nil
		}
		query += ` WHERE centro_costo_id = $1`
		args = append(args, centroCostoID)
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY codigo`, args...)
	if err != nil {
		return nil, fmt.Errorf("list centros operacion: %w", err)
	}
	defer rows.Close()
	var list []*entity.CentroOperacion
	for rows.Next() {
		var c entity.CentroOperacion
		if err := rows.Scan(&c.ID, &c.CentroCostoID, &c.Codigo, &c.Nombre, &c.Activo); err != nil {
			return nil, fmt.Errorf("scan centro operacion: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// CentroOwners devuelve co → cc para los centros de operación que existen.
func (r *CatalogRepo) CentroOwners(ctx context.Context, centroOperacionIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(centroOperacionIDs))
	ids := make([]string, 0, len(centroOperacionIDs))
	for _, id := range centroOperacionIDs {
		if _, err := uuid.Parse(id); err == nil {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT id, centro_costo_id FROM centros_operacion WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("centro owners: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var co, cc string
		if err := rows.Scan(&co, &cc); err != nil {
			return nil, fmt.Errorf("scan centro owner: %w", err)
		}
		out[co] = cc
	}
	return out, rows.Err()
}

// GetUnidadNegocio devuelve (nil, nil) si no existe.
func (r *CatalogRepo) GetUnidadNegocio(ctx context.Context, id string) (*entity.UnidadNegocio, error) {
	var u entity.UnidadNegocio
	ok, err := r.getOne(ctx, "unidad negocio", `SELECT id, codigo, nombre, activo FROM unidades_negocio WHERE id = $1`, id,
		&u.ID, &u.Codigo, &u.Nombre, &u.Activo)
	if !ok {
		return nil, err
	}
	return &u, nil
}

// ListUnidadesNegocio lista las unidades de negocio por código.
func (r *CatalogRepo) ListUnidadesNegocio(ctx context.Context) ([]*entity.UnidadNegocio, error) {
	rows, err := r.q.Query(ctx, `SELECT id, codigo, nombre, activo FROM unidades_negocio ORDER BY codigo`)
	if err != nil {
		return nil, fmt.Errorf("list unidades negocio: %w", err)
	}
	defer rows.Close()
	var list []*entity.UnidadNegocio
	for rows.Next() {
		var u entity.UnidadNegocio
		if err := rows.Scan(&u.ID, &u.Codigo, &u.Nombre, &u.Activo); err != nil {
			return nil, fmt.Errorf("scan unidad negocio: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// GetCuentaAuxiliar devuelve (nil, nil) si no existe.
func (r *CatalogRepo) GetCuentaAuxiliar(ctx context.Context, id string) (*entity.CuentaAuxiliar, error) {
	var c entity.CuentaAuxiliar
	ok, err := r.getOne(ctx, "cuenta auxiliar", `SELECT id, codigo, nombre, activo FROM cuentas_auxiliares WHERE id = $1`, id,
		&c.ID, &c.Codigo, &c.Nombre, &c.Activo)
	if !ok {
		return nil, err
	}
	return &c, nil
}

// ListCuentasAuxiliares lista las cuentas auxiliares por código.
func (r *CatalogRepo) ListCuentasAuxiliares(ctx context.Context) ([]*entity.CuentaAuxiliar, error) {
	rows, err := r.q.Query(ctx, `SELECT id, codigo, nombre, activo FROM cuentas_auxiliares ORDER BY codigo`)
	if err != nil {
		return nil, fmt.Errorf("list cuentas auxiliares: %w", err)
	}
	defer rows.Close()
	var list []*entity.CuentaAuxiliar
	for rows.Next() {
		var c entity.CuentaAuxiliar
		if err := rows.Scan(&c.ID, &c.Codigo, &c.Nombre, &c.Activo); err != nil {
			return nil, fmt.Errorf("scan cuenta auxiliar: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
