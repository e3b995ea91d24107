// Package distribucion casos de uso del reparto porcentual del costo de la factura entre
// centros de costo y de operación.
package distribucion

import (
	"context"
	"fmt"

	"github.com/jhoicas/contabilidadcq-api/internal/application/dto"
	"github.com/jhoicas/contabilidadcq-api/internal/application/workflow"
	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/repository"
	domainwf "github.com/jhoicas/contabilidadcq-api/internal/domain/workflow"
	"github.com/jhoicas/contabilidadcq-api/pkg/logger"
)

// UseCase consulta y reemplaza la distribución CC/CO de una factura.
type UseCase struct {
	tx  repository.TxRunner
	log *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx repository.TxRunner, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, log: log.Component("distribucion")}
}

// Get devuelve las líneas actuales con su suma.
func (uc *UseCase) Get(ctx context.Context, facturaID string) (*dto.DistribucionResponse, error) {
	var lines []entity.DistribucionCCCO
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		if _, err := loadFactura(ctx, repos, facturaID, false); err != nil {
			return err
		}
		var err error
		lines, err = repos.Distribucion.ListByFactura(ctx, facturaID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := dto.DistribucionFrom(facturaID, lines)
	return &out, nil
}

// Replace sustituye todas las líneas. Si alguna regla falla no se toca nada.
func (uc *UseCase) Replace(ctx context.Context, actor entity.Actor, facturaID string, req dto.ReplaceDistribucionRequest) (*dto.DistribucionResponse, error) {
	lines := make([]entity.DistribucionCCCO, 0, len(req.Lineas))
	for _, l := range req.Lineas {
		lines = append(lines, entity.DistribucionCCCO{
			FacturaID:         facturaID,
			CentroCostoID:     l.CentroCostoID,
			CentroOperacionID: l.CentroOperacionID,
			UnidadNegocioID:   nonEmpty(l.UnidadNegocioID),
			CuentaAuxiliarID:  nonEmpty(l.CuentaAuxiliarID),
			Porcentaje:        l.Porcentaje,
		})
	}

	var saved []entity.DistribucionCCCO
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		f, err := loadFactura(ctx, repos, facturaID, true)
		if err != nil {
			return err
		}
		if err := workflow.CanEdit(actor, f); err != nil {
			return err
		}
		if err := checkReferences(ctx, repos.Catalogo, lines); err != nil {
			return err
		}
		ids := make([]string, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.CentroOperacionID)
		}
		owners, err := repos.Catalogo.CentroOwners(ctx, ids)
		if err != nil {
			return err
		}
		if err := domainwf.ValidateDistribucion(lines, owners); err != nil {
			return err
		}
		if err := repos.Distribucion.ReplaceAll(ctx, facturaID, lines); err != nil {
			return err
		}
		saved, err = repos.Distribucion.ListByFactura(ctx, facturaID)
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("factura_id", facturaID).Int("lineas", len(lines)).Msg("distribución rechazada")
		return nil, err
	}
	uc.log.Info().Str("factura_id", facturaID).Int("lineas", len(saved)).Str("actor_id", actor.UserID).Msg("distribución reemplazada")
	out := dto.DistribucionFrom(facturaID, saved)
	return &out, nil
}

// DeleteAll elimina la distribución; la factura vuelve a usar su CC/CO propio.
func (uc *UseCase) DeleteAll(ctx context.Context, actor entity.Actor, facturaID string) (int64, error) {
	var n int64
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		f, err := loadFactura(ctx, repos, facturaID, true)
		if err != nil {
			return err
		}
		if err := workflow.CanEdit(actor, f); err != nil {
			return err
		}
		n, err = repos.Distribucion.DeleteAll(ctx, facturaID)
		return err
	})
	if err != nil {
		return 0, err
	}
	uc.log.Info().Str("factura_id", facturaID).Int64("eliminadas", n).Msg("distribución eliminada")
	return n, nil
}

func loadFactura(ctx context.Context, repos repository.TxRepos, id string, lock bool) (*entity.Factura, error) {
	get := repos.Facturas.GetByID
	if lock {
		get = repos.Facturas.GetForUpdate
	}
	f, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	return f, nil
}

// checkReferences verifica que cada catálogo referenciado exista.
func checkReferences(ctx context.Context, cat repository.CatalogRepository, lines []entity.DistribucionCCCO) error {
	for i, l := range lines {
		n := i + 1
		if l.CentroCostoID != "" {
			cc, err := cat.GetCentroCosto(ctx, l.CentroCostoID)
			if err != nil {
				return err
			}
			if cc == nil {
				return fmt.Errorf("%w: línea %d: centro de costo %s", domain.ErrNotFound, n, l.CentroCostoID)
			}
		}
		if l.CentroOperacionID != "" {
			co, err := cat.GetCentroOperacion(ctx, l.CentroOperacionID)
			if err != nil {
				return err
			}
			if co == nil {
				return fmt.Errorf("%w: línea %d: centro de operación %s", domain.ErrNotFound, n, l.CentroOperacionID)
			}
		}
		if l.UnidadNegocioID != nil {
			un, err := cat.GetUnidadNegocio(ctx, *l.UnidadNegocioID)
			if err != nil {
				return err
			}
			if un == nil {
				return fmt.Errorf("%w: línea %d: unidad de negocio %s", domain.ErrNotFound, n, *l.UnidadNegocioID)
			}
		}
		if l.CuentaAuxiliarID != nil {
			ca, err := cat.GetCuentaAuxiliar(ctx, *l.CuentaAuxiliarID)
			if err != nil {
				return err
			}
			if ca == nil {
				return fmt.Errorf("%w: línea %d: cuenta auxiliar %s", domain.ErrNotFound, n, *l.CuentaAuxiliarID)
			}
		}
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
