package repository

import (
	"context"

	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
)

// FacturaFilter filtros del listado de facturas.
type FacturaFilter struct {
	AreaID           string
	EstadoID         int
	AssignedToUserID string
	Search           string // proveedor o número de factura
	Limit            int
	Offset           int
}

// FacturaRepository puerto de persistencia de la raíz del agregado.
type FacturaRepository interface {
	// Create inserta la factura; devuelve domain.ErrDuplicate si (proveedor, número) ya existe.
	Create(ctx context.Context, f *entity.Factura) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Factura, error)
	// GetForUpdate carga la factura bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Factura, error)
	// Update persiste todos los campos mutables si la versión coincide e incrementa f.Version.
	// Una versión obsoleta devuelve domain.ErrConflict.
	Update(ctx context.Context, f *entity.Factura) error
	List(ctx context.Context, filter FacturaFilter) ([]*entity.Factura, int, error)
}

// InventarioCodigoRepository códigos de inventario de la factura.
type InventarioCodigoRepository interface {
	ListByFactura(ctx context.Context, facturaID string) ([]entity.FacturaInventarioCodigo, error)
	// Replace deja exactamente el conjunto dado: actualiza los existentes, inserta los nuevos y borra el resto.
	Replace(ctx context.Context, facturaID string, codigos []entity.FacturaInventarioCodigo) error
}

// DistribucionRepository líneas de distribución CC/CO.
type DistribucionRepository interface {
	ListByFactura(ctx context.Context, facturaID string) ([]entity.DistribucionCCCO, error)
	// ReplaceAll borra todas las líneas e inserta las nuevas; debe ejecutarse dentro de una transacción.
	ReplaceAll(ctx context.Context, facturaID string, lines []entity.DistribucionCCCO) error
	DeleteAll(ctx context.Context, facturaID string) (int64, error)
}

// FacturaFileRepository metadatos de documentos adjuntos.
type FacturaFileRepository interface {
	// Create devuelve domain.ErrDuplicate si el tipo solo admite un archivo y ya existe.
	Create(ctx context.Context, f *entity.FacturaFile) error
	GetByID(ctx context.Context, id string) (*entity.FacturaFile, error)
	ListByFactura(ctx context.Context, facturaID string, docType entity.DocType) ([]*entity.FacturaFile, error)
	// DocTypes tipos de documento presentes (sin repetidos).
	DocTypes(ctx context.Context, facturaID string) ([]entity.DocType, error)
	Delete(ctx context.Context, id string) error
}

// AsignacionRepository historial de asignaciones (solo inserción).
type AsignacionRepository interface {
	Create(ctx context.Context, a *entity.FacturaAsignacion) error
	ListByFactura(ctx context.Context, facturaID string) ([]*entity.FacturaAsignacion, error)
}

// ComentarioRepository comentarios de facturas.
type ComentarioRepository interface {
	Create(ctx context.Context, c *entity.Comentario) error
	GetByID(ctx context.Context, id string) (*entity.Comentario, error)
	ListByFactura(ctx context.Context, facturaID string) ([]*entity.Comentario, error)
	Update(ctx context.Context, c *entity.Comentario) error
	Delete(ctx context.Context, id string) error
}
