// Package factura casos de uso de ingesta, consulta y edición por secciones de las facturas.
package factura

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/contabilidadcq-api/internal/application/dto"
	"github.com/jhoicas/contabilidadcq-api/internal/application/workflow"
	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/repository"
	"github.com/jhoicas/contabilidadcq-api/pkg/logger"
)

const dateLayout = "2006-01-02"

// UseCase ingesta y edición de facturas. Las transiciones de estado las hace workflow.UseCase.
type UseCase struct {
	tx       repository.TxRunner
	flow     *workflow.UseCase
	parser   UBLParser
	renderer HojaRutaRenderer
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. parser y renderer pueden ser nil si el despliegue no los usa.
func NewUseCase(tx repository.TxRunner, flow *workflow.UseCase, parser UBLParser, renderer HojaRutaRenderer, log *logger.Logger) *UseCase {
	return &UseCase{
		tx:       tx,
		flow:     flow,
		parser:   parser,
		renderer: renderer,
		log:      log.Component("factura"),
		now:      time.Now,
	}
}

// Crear registra una factura a partir de la petición de ingesta.
func (uc *UseCase) Crear(ctx context.Context, actor entity.Actor, req dto.CreateFacturaRequest) (*dto.FacturaResponse, error) {
	var reasons []string
	emision, err := parseDate(req.FechaEmision)
	if err != nil {
		reasons = append(reasons, "fecha_emision: "+err.Error())
	}
	vencimiento, err := parseDate(req.FechaVencimiento)
	if err != nil {
		reasons = append(reasons, "fecha_vencimiento: "+err.Error())
	}
	if len(reasons) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(reasons, "; "))
	}
	f, err := uc.flow.Crear(ctx, actor, &entity.Factura{
		Proveedor:                    req.Proveedor,
		ProveedorNIT:                 strings.TrimSpace(req.ProveedorNIT),
		NumeroFactura:                req.NumeroFactura,
		FechaEmision:                 emision,
		FechaVencimiento:             vencimiento,
		Total:                        req.Total,
		IntervaloEntregaContabilidad: entity.IntervaloEntrega(strings.TrimSpace(req.IntervaloEntregaContabilidad)),
	})
	if err != nil {
		return nil, err
	}
	out := dto.FacturaFromEntity(f, nil)
	return &out, nil
}

// IngestarUBL registra la factura a partir del XML electrónico enviado por el proveedor.
func (uc *UseCase) IngestarUBL(ctx context.Context, actor entity.Actor, data []byte) (*dto.FacturaResponse, error) {
	if uc.parser == nil {
		return nil, fmt.Errorf("%w: la ingesta UBL no está habilitada", domain.ErrInvalidInput)
	}
	inv, err := uc.parser.Parse(data)
	if err != nil {
		return nil, err
	}
	nit := inv.ProveedorNIT
	if inv.ProveedorDV != "" {
		nit += "-" + inv.ProveedorDV
	}
	f, err := uc.flow.Crear(ctx, actor, &entity.Factura{
		Proveedor:        inv.Proveedor,
		ProveedorNIT:     nit,
		NumeroFactura:    inv.Numero,
		FechaEmision:     inv.FechaEmision,
		FechaVencimiento: inv.FechaVencimiento,
		Total:            inv.Total,
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("factura_id", f.ID).
		Str("proveedor_nit", nit).
		Str("numero", inv.Numero).
		Bool("cufe", inv.CUFE != "").
		Msg("factura ingresada desde UBL")
	out := dto.FacturaFromEntity(f, nil)
	return &out, nil
}

// Get devuelve la factura con sus códigos de inventario.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.FacturaResponse, error) {
	var out dto.FacturaResponse
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		f, err := repos.Facturas.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
		}
		codigos, err := repos.Codigos.ListByFactura(ctx, id)
		if err != nil {
			return err
		}
		out = dto.FacturaFromEntity(f, codigos)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List lista facturas. Un responsable solo ve las que están en su área.
func (uc *UseCase) List(ctx context.Context, actor entity.Actor, q dto.FacturaListQuery) (*dto.FacturaListResponse, error) {
	q.DefaultPage()
	filter := repository.FacturaFilter{
		AreaID:           q.AreaID,
		EstadoID:         q.EstadoID,
		AssignedToUserID: q.AssignedTo,
		Search:           q.Search,
		Limit:            q.Limit,
		Offset:           q.Offset,
	}
	if actor.Role == entity.RoleResponsable {
		filter.AreaID = actor.AreaID
	}
	var (
		items []*entity.Factura
		total int
	)
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		items, total, err = repos.Facturas.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := &dto.FacturaListResponse{
		Items: make([]dto.FacturaResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}
	for _, f := range items {
		out.Items = append(out.Items, dto.FacturaFromEntity(f, nil))
	}
	return out, nil
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("formato esperado YYYY-MM-DD, recibido %q", s)
	}
	return &t, nil
}
