package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/repository"
)

var _ repository.FacturaRepository = (*FacturaRepo)(nil)

const facturaColumns = `
	id, proveedor, proveedor_nit, numero_factura, fecha_emision, fecha_vencimiento, total,
	area_id, estado_id, area_origen_id, assigned_to_user_id, assigned_at,
	centro_costo_id, centro_operacion_id, unidad_negocio_id, cuenta_auxiliar_id,
	requiere_entrada_inventarios, destino_inventarios, presenta_novedad,
	tiene_anticipo, porcentaje_anticipo, intervalo_entrega_contabilidad,
	es_gasto_adm, motivo_devolucion, version, created_at, updated_at`

// FacturaRepo implementación de FacturaRepository (usable con pool o tx).
type FacturaRepo struct {
	q Querier
}

// NewFacturaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFacturaRepository(q Querier) *FacturaRepo {
	return &FacturaRepo{q: q}
}

// Create persiste la factura recién ingresada.
func (r *FacturaRepo) Create(ctx context.Context, f *entity.Factura) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	query := `
		INSERT INTO facturas (` + facturaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
		        $20, $21, $22, $23, $24, $25, $26, $27)`
	_, err := r.q.Exec(ctx, query,
		f.ID, f.Proveedor, nullIfEmpty(f.ProveedorNIT), f.NumeroFactura, f.FechaEmision, f.FechaVencimiento, f.Total,
		f.AreaID, f.EstadoID, f.AreaOrigenID, f.AssignedToUserID, f.AssignedAt,
		f.CentroCostoID, f.CentroOperacionID, f.UnidadNegocioID, f.CuentaAuxiliarID,
		f.RequiereEntradaInventarios, destinoParam(f.DestinoInventarios), f.PresentaNovedad,
		f.TieneAnticipo, f.PorcentajeAnticipo, string(f.IntervaloEntregaContabilidad),
		f.EsGastoAdm, f.MotivoDevolucion, f.Version, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe la factura %s del proveedor %s", domain.ErrDuplicate, f.NumeroFactura, f.Proveedor)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: referencia inexistente al crear factura", domain.ErrNotFound)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrInvariantViolation, err)
		}
		return fmt.Errorf("insert factura: %w", err)
	}
	return nil
}

// GetByID obtiene la factura o (nil, nil) si no existe.
func (r *FacturaRepo) GetByID(ctx context.Context, id string) (*entity.Factura, error) {
	return r.get(ctx, `SELECT `+facturaColumns+` FROM facturas WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE); solo tiene sentido dentro de una tx.
func (r *FacturaRepo) GetForUpdate(ctx context.Context, id string) (*entity.Factura, error) {
	return r.get(ctx, `SELECT `+facturaColumns+` FROM facturas WHERE id = $1 FOR UPDATE`, id)
}

func (r *FacturaRepo) get(ctx context.Context, query, id string) (*entity.Factura, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	f, err := scanFactura(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get factura: %w", err)
	}
	return f, nil
}

// Update persiste los campos mutables con control de versión.
func (r *FacturaRepo) Update(ctx context.Context, f *entity.Factura) error {
	query := `
		UPDATE facturas
		SET proveedor_nit                  = $3,
		    fecha_emision                  = $4,
		    fecha_vencimiento              = $5,
		    area_id                        = $6,
		    estado_id                      = $7,
		    area_origen_id                 = $8,
		    assigned_to_user_id            = $9,
		    assigned_at                    = $10,
		    centro_costo_id                = $11,
		    centro_operacion_id            = $12,
		    unidad_negocio_id              = $13,
		    cuenta_auxiliar_id             = $14,
		    requiere_entrada_inventarios   = $15,
		    destino_inventarios            = $16,
		    presenta_novedad               = $17,
		    tiene_anticipo                 = $18,
		    porcentaje_anticipo            = $19,
		    intervalo_entrega_contabilidad = $20,
		    es_gasto_adm                   = $21,
		    motivo_devolucion              = $22,
		    updated_at                     = $23,
		    version                        = version + 1
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(ctx, query,
		f.ID, f.Version,
		nullIfEmpty(f.ProveedorNIT), f.FechaEmision, f.FechaVencimiento,
		f.AreaID, f.EstadoID, f.AreaOrigenID, f.AssignedToUserID, f.AssignedAt,
		f.CentroCostoID, f.CentroOperacionID, f.UnidadNegocioID, f.CuentaAuxiliarID,
		f.RequiereEntradaInventarios, destinoParam(f.DestinoInventarios), f.PresentaNovedad,
		f.TieneAnticipo, f.PorcentajeAnticipo, string(f.IntervaloEntregaContabilidad),
		f.EsGastoAdm, f.MotivoDevolucion, f.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: referencia inexistente al actualizar factura", domain.ErrNotFound)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrInvariantViolation, err)
		}
		return fmt.Errorf("update factura: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: la factura %s cambió desde que se leyó (versión %d)", domain.ErrConflict, f.ID, f.Version)
	}
	f.Version++
	return nil
}

// List lista facturas con filtros y paginación; devuelve también el total sin paginar.
func (r *FacturaRepo) List(ctx context.Context, filter repository.FacturaFilter) ([]*entity.Factura, int, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.AreaID != "" {
		add("area_id = $%d", filter.AreaID)
	}
	if filter.EstadoID > 0 {
		add("estado_id = $%d", filter.EstadoID)
	}
	if filter.AssignedToUserID != "" {
		add("assigned_to_user_id = $%d", filter.AssignedToUserID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(proveedor ILIKE $%d OR numero_factura ILIKE $%d)", n, n))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM facturas`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count facturas: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM facturas%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		facturaColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list facturas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Factura
	for rows.Next() {
		f, err := scanFactura(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan factura: %w", err)
		}
		list = append(list, f)
	}
	return list, total, rows.Err()
}

func scanFactura(row pgx.Row) (*entity.Factura, error) {
	var (
		f         entity.Factura
		nit       *string
		destino   *string
		intervalo string
	)
	err := row.Scan(
		&f.ID, &f.Proveedor, &nit, &f.NumeroFactura, &f.FechaEmision, &f.FechaVencimiento, &f.Total,
		&f.AreaID, &f.EstadoID, &f.AreaOrigenID, &f.AssignedToUserID, &f.AssignedAt,
		&f.CentroCostoID, &f.CentroOperacionID, &f.UnidadNegocioID, &f.CuentaAuxiliarID,
		&f.RequiereEntradaInventarios, &destino, &f.PresentaNovedad,
		&f.TieneAnticipo, &f.PorcentajeAnticipo, &intervalo,
		&f.EsGastoAdm, &f.MotivoDevolucion, &f.Version, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.ProveedorNIT = emptyIfNull(nit)
	if destino != nil {
		d := entity.DestinoInventarios(*destino)
		f.DestinoInventarios = &d
	}
	f.IntervaloEntregaContabilidad = entity.IntervaloEntrega(intervalo)
	return &f, nil
}

func destinoParam(d *entity.DestinoInventarios) *string {
	if d == nil {
		return nil
	}
	s := string(*d)
	return &s
}
