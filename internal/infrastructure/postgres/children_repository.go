package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/repository"
)

var (
	_ repository.InventarioCodigoRepository = (*InventarioCodigoRepo)(nil)
	_ repository.DistribucionRepository     = (*DistribucionRepo)(nil)
	_ repository.AsignacionRepository       = (*AsignacionRepo)(nil)
)

// ──────────────────────────────────────────────────────────────────────────────
// Códigos de inventario
// ──────────────────────────────────────────────────────────────────────────────

// InventarioCodigoRepo implementación de InventarioCodigoRepository.
type InventarioCodigoRepo struct {
	q Querier
}

// NewInventarioCodigoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventarioCodigoRepository(q Querier) *InventarioCodigoRepo {
	return &InventarioCodigoRepo{q: q}
}

// ListByFactura devuelve los códigos ordenados por código.
func (r *InventarioCodigoRepo) ListByFactura(ctx context.Context, facturaID string) ([]entity.FacturaInventarioCodigo, error) {
	rows, err := r.q.Query(ctx, `
		SELECT factura_id, codigo, valor, created_at, updated_at
		FROM factura_inventarios_codigos WHERE factura_id = $1 ORDER BY codigo`, facturaID)
	if err != nil {
		return nil, fmt.Errorf("list codigos inventario: %w", err)
	}
	defer rows.Close()
	var list []entity.FacturaInventarioCodigo
	for rows.Next() {
		var c entity.FacturaInventarioCodigo
		var codigo string
		if err := rows.Scan(&c.FacturaID, &codigo, &c.Valor, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan codigo inventario: %w", err)
		}
		c.Codigo = entity.CodigoInventario(codigo)
		list = append(list, c)
	}
	return list, rows.Err()
}

// Replace upsert de los códigos dados y borrado de los que ya no están.
func (r *InventarioCodigoRepo) Replace(ctx context.Context, facturaID string, codigos []entity.FacturaInventarioCodigo) error {
	keep := make([]string, 0, len(codigos))
	now := time.Now()
	for _, c := range codigos {
		keep = append(keep, string(c.Codigo))
		_, err := r.q.Exec(ctx, `
			INSERT INTO factura_inventarios_codigos (factura_id, codigo, valor, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
			ON CONFLICT (factura_id, codigo) DO UPDATE SET valor = EXCLUDED.valor, updated_at = EXCLUDED.updated_at`,
			facturaID, string(c.Codigo), c.Valor, now)
		if err != nil {
			return fmt.Errorf("upsert codigo inventario %s: %w", c.Codigo, err)
		}
	}
	_, err := r.q.Exec(ctx, `
		DELETE FROM factura_inventarios_codigos
		WHERE factura_id = $1 AND NOT (codigo = ANY($2::text[]))`, facturaID, keep)
	if err != nil {
		return fmt.Errorf("delete codigos inventario: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Distribución CC/CO
// ──────────────────────────────────────────────────────────────────────────────

// DistribucionRepo implementación de DistribucionRepository.
type DistribucionRepo struct {
	q Querier
}

// NewDistribucionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDistribucionRepository(q Querier) *DistribucionRepo {
	return &DistribucionRepo{q: q}
}

// ListByFactura devuelve las líneas en orden de inserción.
func (r *DistribucionRepo) ListByFactura(ctx context.Context, facturaID string) ([]entity.DistribucionCCCO, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, factura_id, linea, centro_costo_id, centro_operacion_id, unidad_negocio_id, cuenta_auxiliar_id,
		       porcentaje, created_at, updated_at
		FROM factura_distribucion_ccco WHERE factura_id = $1 ORDER BY linea`, facturaID)
	if err != nil {
		return nil, fmt.Errorf("list distribucion: %w", err)
	}
	defer rows.Close()
	var list []entity.DistribucionCCCO
	for rows.Next() {
		var d entity.DistribucionCCCO
		if err := rows.Scan(&d.ID, &d.FacturaID, &d.Linea, &d.CentroCostoID, &d.CentroOperacionID, &d.UnidadNegocioID,
			&d.CuentaAuxiliarID, &d.Porcentaje, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan distribucion: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// ReplaceAll borra todas las líneas de la factura e inserta el nuevo conjunto.
func (r *DistribucionRepo) ReplaceAll(ctx context.Context, facturaID string, lines []entity.DistribucionCCCO) error {
	if _, err := r.DeleteAll(ctx, facturaID); err != nil {
		return err
	}
	now := time.Now()
	for i := range lines {
		l := &lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.FacturaID, l.Linea = facturaID, i+1
		l.CreatedAt, l.UpdatedAt = now, now
		_, err := r.q.Exec(ctx, `
			INSERT INTO factura_distribucion_ccco
				(id, factura_id, linea, centro_costo_id, centro_operacion_id, unidad_negocio_id, cuenta_auxiliar_id, porcentaje, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			l.ID, facturaID, l.Linea, l.CentroCostoID, l.CentroOperacionID, l.UnidadNegocioID, l.CuentaAuxiliarID,
			l.Porcentaje, l.CreatedAt, l.UpdatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: línea %d referencia un catálogo inexistente", domain.ErrNotFound, i+1)
			}
			if isCheckViolation(err) {
				return fmt.Errorf("%w: línea %d: porcentaje fuera de rango", domain.ErrInvariantViolation, i+1)
			}
			return fmt.Errorf("insert distribucion: %w", err)
		}
	}
	return nil
}

// DeleteAll elimina todas las líneas y devuelve cuántas había.
func (r *DistribucionRepo) DeleteAll(ctx context.Context, facturaID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM factura_distribucion_ccco WHERE factura_id = $1`, facturaID)
	if err != nil {
		return 0, fmt.Errorf("delete distribucion: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial de asignaciones
// ──────────────────────────────────────────────────────────────────────────────

// AsignacionRepo implementación de AsignacionRepository.
type AsignacionRepo struct {
	q Querier
}

// NewAsignacionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAsignacionRepository(q Querier) *AsignacionRepo {
	return &AsignacionRepo{q: q}
}

// Create agrega una fila al historial.
func (r *AsignacionRepo) Create(ctx context.Context, a *entity.FacturaAsignacion) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO factura_asignaciones (id, factura_id, area_id, responsable_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`, a.ID, a.FacturaID, a.AreaID, a.ResponsableUserID, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert asignacion: %w", err)
	}
	return nil
}

// ListByFactura historial de la factura, del más antiguo al más reciente.
func (r *AsignacionRepo) ListByFactura(ctx context.Context, facturaID string) ([]*entity.FacturaAsignacion, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, factura_id, area_id, responsable_user_id, created_at
		FROM factura_asignaciones WHERE factura_id = $1 ORDER BY created_at, id`, facturaID)
	if err != nil {
		return nil, fmt.Errorf("list asignaciones: %w", err)
	}
	defer rows.Close()
	var list []*entity.FacturaAsignacion
	for rows.Next() {
		var a entity.FacturaAsignacion
		if err := rows.Scan(&a.ID, &a.FacturaID, &a.AreaID, &a.ResponsableUserID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan asignacion: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
