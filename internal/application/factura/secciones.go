package factura

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/contabilidadcq-api/internal/application/dto"
	"github.com/jhoicas/contabilidadcq-api/internal/application/workflow"
	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/repository"
)

var cien = decimal.NewFromInt(100)

type editFn func(ctx context.Context, repos repository.TxRepos, f *entity.Factura) error

// edit carga la factura bloqueada, verifica permisos, aplica fn y persiste con control de versión.
func (uc *UseCase) edit(ctx context.Context, actor entity.Actor, id, seccion string, fn editFn) (*dto.FacturaResponse, error) {
	var out dto.FacturaResponse
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		f, err := repos.Facturas.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
		}
		if err := workflow.CanEdit(actor, f); err != nil {
			return err
		}
		if err := fn(ctx, repos, f); err != nil {
			return err
		}
		f.UpdatedAt = uc.now()
		if err := repos.Facturas.Update(ctx, f); err != nil {
			return err
		}
		codigos, err := repos.Codigos.ListByFactura(ctx, f.ID)
		if err != nil {
			return err
		}
		out = dto.FacturaFromEntity(f, codigos)
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("factura_id", id).Str("seccion", seccion).Msg("edición rechazada")
		return nil, err
	}
	uc.log.Info().Str("factura_id", id).Str("seccion", seccion).Str("actor_id", actor.UserID).Msg("sección actualizada")
	return &out, nil
}

// UpdateCentros fija la clasificación contable. El centro de operación debe pertenecer al centro de costo.
func (uc *UseCase) UpdateCentros(ctx context.Context, actor entity.Actor, id string, req dto.UpdateCentrosRequest) (*dto.FacturaResponse, error) {
	return uc.edit(ctx, actor, id, "centros", func(ctx context.Context, repos repository.TxRepos, f *entity.Factura) error {
		cc, co, un, ca := blankToNil(req.CentroCostoID), blankToNil(req.CentroOperacionID),
			blankToNil(req.UnidadNegocioID), blankToNil(req.CuentaAuxiliarID)
		if cc != nil {
			row, err := repos.Catalogo.GetCentroCosto(ctx, *cc)
			if err != nil {
				return err
			}
			if row == nil {
				return fmt.Errorf("%w: centro de costo %s", domain.ErrNotFound, *cc)
			}
		}
		if co != nil {
			row, err := repos.Catalogo.GetCentroOperacion(ctx, *co)
			if err != nil {
				return err
			}
			if row == nil {
				return fmt.Errorf("%w: centro de operación %s", domain.ErrNotFound, *co)
			}
			switch {
			case cc == nil:
				return domain.NewInvariantError([]string{
					fmt.Sprintf("el centro de operación %s requiere su centro de costo", row.Codigo),
				})
			case row.CentroCostoID != *cc:
				return domain.NewInvariantError([]string{
					fmt.Sprintf("el centro de operación %s no pertenece al centro de costo %s", row.Codigo, *cc),
				})
			}
		}
		if un != nil {
			row, err := repos.Catalogo.GetUnidadNegocio(ctx, *un)
			if err != nil {
				return err
			}
			if row == nil {
				return fmt.Errorf("%w: unidad de negocio %s", domain.ErrNotFound, *un)
			}
		}
		if ca != nil {
			row, err := repos.Catalogo.GetCuentaAuxiliar(ctx, *ca)
			if err != nil {
				return err
			}
			if row == nil {
				return fmt.Errorf("%w: cuenta auxiliar %s", domain.ErrNotFound, *ca)
			}
		}
		f.CentroCostoID, f.CentroOperacionID, f.UnidadNegocioID, f.CuentaAuxiliarID = cc, co, un, ca
		return nil
	})
}

// UpdateInventarios reemplaza la sección de entrada de inventarios. Si la factura no requiere
// entrada se descartan destino, novedad y códigos.
func (uc *UseCase) UpdateInventarios(ctx context.Context, actor entity.Actor, id string, req dto.UpdateInventariosRequest) (*dto.FacturaResponse, error) {
	var reasons []string
	var destino *entity.DestinoInventarios
	if d := blankToNil(req.DestinoInventarios); d != nil {
		v := entity.DestinoInventarios(strings.ToUpper(*d))
		if !v.Valid() {
			reasons = append(reasons, fmt.Sprintf("destino de inventarios %q no reconocido", *d))
		}
		destino = &v
	}
	codigos := make([]entity.FacturaInventarioCodigo, 0, len(req.Codigos))
	seen := make(map[entity.CodigoInventario]bool, len(req.Codigos))
	for _, c := range req.Codigos {
		cod := entity.CodigoInventario(strings.ToUpper(strings.TrimSpace(c.Codigo)))
		switch {
		case !cod.Valid():
			reasons = append(reasons, fmt.Sprintf("código de inventario %q no reconocido", c.Codigo))
		case seen[cod]:
			reasons = append(reasons, fmt.Sprintf("código de inventario %s repetido", cod))
		default:
			seen[cod] = true
			codigos = append(codigos, entity.FacturaInventarioCodigo{Codigo: cod, Valor: strings.TrimSpace(c.Valor)})
		}
	}
	if len(reasons) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(reasons, "; "))
	}

	return uc.edit(ctx, actor, id, "inventarios", func(ctx context.Context, repos repository.TxRepos, f *entity.Factura) error {
		f.RequiereEntradaInventarios = req.RequiereEntradaInventarios
		if !req.RequiereEntradaInventarios {
			f.DestinoInventarios = nil
			f.PresentaNovedad = false
			return repos.Codigos.Replace(ctx, f.ID, nil)
		}
		f.DestinoInventarios = destino
		f.PresentaNovedad = req.PresentaNovedad
		return repos.Codigos.Replace(ctx, f.ID, codigos)
	})
}

// UpdateAnticipo fija anticipo y plazo de entrega. tiene_anticipo y porcentaje van juntos.
func (uc *UseCase) UpdateAnticipo(ctx context.Context, actor entity.Actor, id string, req dto.UpdateAnticipoRequest) (*dto.FacturaResponse, error) {
	intervalo := entity.IntervaloEntrega(strings.TrimSpace(req.IntervaloEntregaContabilidad))
	var reasons []string
	switch {
	case req.TieneAnticipo && req.PorcentajeAnticipo == nil:
		reasons = append(reasons, "tiene anticipo pero no se indicó el porcentaje")
	case !req.TieneAnticipo && req.PorcentajeAnticipo != nil:
		reasons = append(reasons, "hay porcentaje de anticipo pero la factura no tiene anticipo")
	}
	if p := req.PorcentajeAnticipo; p != nil && (p.IsNegative() || p.GreaterThan(cien)) {
		reasons = append(reasons, fmt.Sprintf("el porcentaje de anticipo %s debe estar entre 0 y 100", p.String()))
	}
	if p := req.PorcentajeAnticipo; p != nil && !p.Equal(p.Round(entity.DecimalesAnticipo)) {
		reasons = append(reasons, fmt.Sprintf("el porcentaje de anticipo %s admite a lo sumo %d decimales", p.String(), entity.DecimalesAnticipo))
	}
	switch {
	case intervalo == "":
		reasons = append(reasons, "el intervalo de entrega a contabilidad es obligatorio")
	case !intervalo.Valid():
		reasons = append(reasons, fmt.Sprintf("intervalo de entrega %q no reconocido", intervalo))
	}
	if err := domain.NewInvariantError(reasons); err != nil {
		return nil, err
	}
	return uc.edit(ctx, actor, id, "anticipo", func(_ context.Context, _ repository.TxRepos, f *entity.Factura) error {
		f.TieneAnticipo = req.TieneAnticipo
		f.PorcentajeAnticipo = req.PorcentajeAnticipo
		f.IntervaloEntregaContabilidad = intervalo
		return nil
	})
}

// UpdateGastoAdm marca la factura como gasto administrativo.
func (uc *UseCase) UpdateGastoAdm(ctx context.Context, actor entity.Actor, id string, req dto.UpdateGastoAdmRequest) (*dto.FacturaResponse, error) {
	return uc.edit(ctx, actor, id, "gasto_adm", func(_ context.Context, _ repository.TxRepos, f *entity.Factura) error {
		f.EsGastoAdm = req.EsGastoAdm
		return nil
	})
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
