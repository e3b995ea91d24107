package repository

import (
	"context"

	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
)

// CatalogRepository catálogos de solo lectura usados por el flujo.
// Los Get devuelven (nil, nil) si no existe.
type CatalogRepository interface {
	GetArea(ctx context.Context, id string) (*entity.Area, error)
	GetAreaByCode(ctx context.Context, code string) (*entity.Area, error)
	ListAreas(ctx context.Context) ([]*entity.Area, error)
	ListEstados(ctx context.Context) ([]*entity.Estado, error)

	GetCentroCosto(ctx context.Context, id string) (*entity.CentroCosto, error)
	ListCentrosCosto(ctx context.Context) ([]*entity.CentroCosto, error)
	GetCentroOperacion(ctx context.Context, id string) (*entity.CentroOperacion, error)
	// ListCentrosOperacion filtra por centro de costo si centroCostoID no es vacío.
	ListCentrosOperacion(ctx context.Context, centroCostoID string) ([]*entity.CentroOperacion, error)
	// CentroOwners devuelve centro de operación → centro de costo para los ids existentes.
	CentroOwners(ctx context.Context, centroOperacionIDs []string) (map[string]string, error)

	GetUnidadNegocio(ctx context.Context, id string) (*entity.UnidadNegocio, error)
	ListUnidadesNegocio(ctx context.Context) ([]*entity.UnidadNegocio, error)
	GetCuentaAuxiliar(ctx context.Context, id string) (*entity.CuentaAuxiliar, error)
	ListCuentasAuxiliares(ctx context.Context) ([]*entity.CuentaAuxiliar, error)
}
