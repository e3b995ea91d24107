// Package catalogo consulta de catálogos de solo lectura para la interfaz.
package catalogo

import (
	"context"

	"github.com/jhoicas/contabilidadcq-api/internal/application/dto"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/repository"
	domainwf "github.com/jhoicas/contabilidadcq-api/internal/domain/workflow"
)

// UseCase lectura de catálogos.
type UseCase struct {
	repo  repository.CatalogRepository
	users repository.UserRepository
	refs  domainwf.Refs
}

// NewUseCase construye el caso de uso. refs permite marcar las áreas responsables.
func NewUseCase(repo repository.CatalogRepository, users repository.UserRepository, refs domainwf.Refs) *UseCase {
	return &UseCase{repo: repo, users: users, refs: refs}
}

func (uc *UseCase) Areas(ctx context.Context) ([]dto.AreaResponse, error) {
	rows, err := uc.repo.ListAreas(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AreaResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, dto.AreaResponse{ID: a.ID, Nombre: a.Nombre, Code: a.Code, Responsable: uc.refs.IsResponsable(a.ID)})
	}
	return out, nil
}

// UsuariosDeArea usuarios activos del área (para elegir responsable al asignar).
func (uc *UseCase) UsuariosDeArea(ctx context.Context, areaID string) ([]dto.UserResponse, error) {
	rows, err := uc.users.ListByArea(ctx, areaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(rows))
	for _, u := range rows {
		out = append(out, dto.UserFrom(u))
	}
	return out, nil
}

func (uc *UseCase) Estados(ctx context.Context) ([]dto.EstadoResponse, error) {
	rows, err := uc.repo.ListEstados(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EstadoResponse, 0, len(rows))
	for _, e := range rows {
		out = append(out, dto.EstadoResponse{ID: e.ID, Code: e.Code, Label: e.Label, Order: e.Order, IsFinal: e.IsFinal})
	}
	return out, nil
}

func (uc *UseCase) CentrosCosto(ctx context.Context) ([]dto.CatalogItemResponse, error) {
	rows, err := uc.repo.ListCentrosCosto(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogItemResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, dto.CatalogItemResponse{ID: c.ID, Codigo: c.Codigo, Nombre: c.Nombre, Activo: c.Activo})
	}
	return out, nil
}

// CentrosOperacion filtra por centro de costo si se indica.
func (uc *UseCase) CentrosOperacion(ctx context.Context, centroCostoID string) ([]dto.CentroOperacionResponse, error) {
	rows, err := uc.repo.ListCentrosOperacion(ctx, centroCostoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CentroOperacionResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, dto.CentroOperacionResponse{
			CatalogItemResponse: dto.CatalogItemResponse{ID: c.ID, Codigo: c.Codigo, Nombre: c.Nombre, Activo: c.Activo},
			CentroCostoID:       c.CentroCostoID,
		})
	}
	return out, nil
}

func (uc *UseCase) UnidadesNegocio(ctx context.Context) ([]dto.CatalogItemResponse, error) {
	rows, err := uc.repo.ListUnidadesNegocio(ctx)
	if err != nil {
		return nil, err
	}
	return items(rows, func(u *entity.UnidadNegocio) dto.CatalogItemResponse {
		return dto.CatalogItemResponse{ID: u.ID, Codigo: u.Codigo, Nombre: u.Nombre, Activo: u.Activo}
	}), nil
}

func (uc *UseCase) CuentasAuxiliares(ctx context.Context) ([]dto.CatalogItemResponse, error) {
	rows, err := uc.repo.ListCuentasAuxiliares(ctx)
	if err != nil {
		return nil, err
	}
	return items(rows, func(c *entity.CuentaAuxiliar) dto.CatalogItemResponse {
		return dto.CatalogItemResponse{ID: c.ID, Codigo: c.Codigo, Nombre: c.Nombre, Activo: c.Activo}
	}), nil
}

func items[T any](rows []T, fn func(T) dto.CatalogItemResponse) []dto.CatalogItemResponse {
	out := make([]dto.CatalogItemResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, fn(r))
	}
	return out
}
