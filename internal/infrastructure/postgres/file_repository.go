package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/repository"
)

var (
	_ repository.FacturaFileRepository = (*FacturaFileRepo)(nil)
	_ repository.ComentarioRepository  = (*ComentarioRepo)(nil)
)

// FacturaFileRepo implementación de FacturaFileRepository.
type FacturaFileRepo struct {
	q Querier
}

// NewFacturaFileRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFacturaFileRepository(q Querier) *FacturaFileRepo {
	return &FacturaFileRepo{q: q}
}

const fileColumns = `id, factura_id, doc_type, storage_provider, storage_path, filename, content_type, size_bytes, uploaded_by, created_at`

// Create registra los metadatos del archivo. El índice único parcial impide un segundo archivo del mismo tipo (salvo OC).
func (r *FacturaFileRepo) Create(ctx context.Context, f *entity.FacturaFile) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	_, err := r.q.Exec(ctx, `INSERT INTO factura_files (`+fileColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		f.ID, f.FacturaID, string(f.DocType), f.StorageProvider, f.StoragePath, f.Filename, f.ContentType,
		f.SizeBytes, f.UploadedBy, f.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la factura ya tiene un documento %s", domain.ErrDuplicate, f.DocType)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, f.FacturaID)
		}
		return fmt.Errorf("insert factura file: %w", err)
	}
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *FacturaFileRepo) GetByID(ctx context.Context, id string) (*entity.FacturaFile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	f, err := scanFile(r.q.QueryRow(ctx, `SELECT `+fileColumns+` FROM factura_files WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get factura file: %w", err)
	}
	return f, nil
}

// ListByFactura lista los archivos; docType vacío = todos los tipos.
func (r *FacturaFileRepo) ListByFactura(ctx context.Context, facturaID string, docType entity.DocType) ([]*entity.FacturaFile, error) {
	query := `SELECT ` + fileColumns + ` FROM factura_files WHERE factura_id = $1`
	args := []any{facturaID}
	if docType != "" {
		query += ` AND doc_type = $2`
		args = append(args, string(docType))
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY created_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("list factura files: %w", err)
	}
	defer rows.Close()
	var list []*entity.FacturaFile
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan factura file: %w", err)
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// DocTypes tipos presentes en la factura.
func (r *FacturaFileRepo) DocTypes(ctx context.Context, facturaID string) ([]entity.DocType, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT doc_type FROM factura_files WHERE factura_id = $1 ORDER BY doc_type`, facturaID)
	if err != nil {
		return nil, fmt.Errorf("list doc types: %w", err)
	}
	defer rows.Close()
	var out []entity.DocType
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan doc type: %w", err)
		}
		out = append(out, entity.DocType(t))
	}
	return out, rows.Err()
}

// Delete elimina los metadatos del archivo.
func (r *FacturaFileRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM factura_files WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete factura file: %w", err)
	}
	return nil
}

func scanFile(row pgx.Row) (*entity.FacturaFile, error) {
	var f entity.FacturaFile
	var docType string
	if err := row.Scan(&f.ID, &f.FacturaID, &docType, &f.StorageProvider, &f.StoragePath, &f.Filename,
		&f.ContentType, &f.SizeBytes, &f.UploadedBy, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.DocType = entity.DocType(docType)
	return &f, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Comentarios
// ──────────────────────────────────────────────────────────────────────────────

// ComentarioRepo implementación de ComentarioRepository.
type ComentarioRepo struct {
	q Querier
}

// NewComentarioRepository construye el adaptador. Pasar pool o tx (Querier).
func NewComentarioRepository(q Querier) *ComentarioRepo {
	return &ComentarioRepo{q: q}
}

// Create persiste un comentario.
func (r *ComentarioRepo) Create(ctx context.Context, c *entity.Comentario) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO comentarios_factura (id, factura_id, user_id, contenido, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`, c.ID, c.FacturaID, c.UserID, c.Contenido, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: factura o usuario del comentario", domain.ErrNotFound)
		}
		return fmt.Errorf("insert comentario: %w", err)
	}
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ComentarioRepo) GetByID(ctx context.Context, id string) (*entity.Comentario, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	var c entity.Comentario
	err := r.q.QueryRow(ctx, `
		SELECT id, factura_id, user_id, contenido, created_at, updated_at
		FROM comentarios_factura WHERE id = $1`, id).
		Scan(&c.ID, &c.FacturaID, &c.UserID, &c.Contenido, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comentario: %w", err)
	}
	return &c, nil
}

// ListByFactura comentarios de la factura, del más antiguo al más reciente.
func (r *ComentarioRepo) ListByFactura(ctx context.Context, facturaID string) ([]*entity.Comentario, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, factura_id, user_id, contenido, created_at, updated_at
		FROM comentarios_factura WHERE factura_id = $1 ORDER BY created_at`, facturaID)
	if err != nil {
		return nil, fmt.Errorf("list comentarios: %w", err)
	}
	defer rows.Close()
	var list []*entity.Comentario
	for rows.Next() {
		var c entity.Comentario
		if err := rows.Scan(&c.ID, &c.FacturaID, &c.UserID, &c.Contenido, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan comentario: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza el contenido.
func (r *ComentarioRepo) Update(ctx context.Context, c *entity.Comentario) error {
	_, err := r.q.Exec(ctx, `UPDATE comentarios_factura SET contenido = $2, updated_at = $3 WHERE id = $1`,
		c.ID, c.Contenido, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update comentario: %w", err)
	}
	return nil
}

// Delete elimina el comentario.
func (r *ComentarioRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM comentarios_factura WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete comentario: %w", err)
	}
	return nil
}
