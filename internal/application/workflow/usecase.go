package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/repository"
	domainwf "github.com/jhoicas/contabilidadcq-api/internal/domain/workflow"
	"github.com/jhoicas/contabilidadcq-api/pkg/logger"
)

const tracerName = "github.com/jhoicas/contabilidadcq-api/internal/application/workflow"

// Result estado de la factura después de una transición exitosa.
type Result struct {
	Factura *entity.Factura
	Codigos []entity.FacturaInventarioCodigo
	Report  *domainwf.Report // Solo en transiciones con reglas de datos
}

// UseCase ejecuta cada transición como una unidad leer-validar-escribir dentro de una transacción.
type UseCase struct {
	tx      repository.TxRunner
	machine *domainwf.Machine
	log     *logger.Logger
	tracer  trace.Tracer
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx repository.TxRunner, machine *domainwf.Machine, log *logger.Logger) *UseCase {
	return &UseCase{
		tx:      tx,
		machine: machine,
		log:     log.Component("workflow"),
		tracer:  otel.Tracer(tracerName),
	}
}

// Machine devuelve la máquina de estados configurada.
func (uc *UseCase) Machine() *domainwf.Machine { return uc.machine }

// step aplica guardas y efectos sobre la factura bloqueada. Puede devolver un reporte de validación.
type step func(ctx context.Context, repos repository.TxRepos, f *entity.Factura) (*domainwf.Report, error)

// Crear registra una factura nueva en Facturación con estado RECIBIDA.
func (uc *UseCase) Crear(ctx context.Context, actor entity.Actor, f *entity.Factura) (*entity.Factura, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: factura vacía", domain.ErrInvalidInput)
	}
	ctx, span := uc.start(ctx, domainwf.TransitionCrear, "", actor)
	defer span.End()

	err := Authorize(actor, domainwf.TransitionCrear, nil)
	if err == nil {
		err = validateIntake(f)
	}
	if err == nil {
		uc.machine.Crear(f)
		err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
			return repos.Facturas.Create(ctx, f)
		})
	}
	uc.finish(span, domainwf.TransitionCrear, f.ID, actor, 0, f.EstadoID, err)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Asignar envía la factura a un área responsable y registra la asignación en el historial.
func (uc *UseCase) Asignar(ctx context.Context, actor entity.Actor, facturaID, areaID, userID string) (*Result, error) {
	return uc.run(ctx, actor, domainwf.TransitionAsignar, facturaID,
		func(ctx context.Context, repos repository.TxRepos, f *entity.Factura) (*domainwf.Report, error) {
			area, err := repos.Catalogo.GetArea(ctx, areaID)
			if err != nil {
				return nil, err
			}
			if area == nil {
				return nil, fmt.Errorf("%w: área %s", domain.ErrNotFound, areaID)
			}
			user, err := repos.Users.GetByID(ctx, userID)
			if err != nil {
				return nil, err
			}
			if user == nil {
				return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, userID)
			}
			if !user.IsActive {
				return nil, fmt.Errorf("%w: el usuario %s está inactivo", domain.ErrInvalidInput, user.Email)
			}
			if err := uc.machine.Asignar(f, area.ID, user); err != nil {
				return nil, err
			}
			return nil, repos.Asignaciones.Create(ctx, &entity.FacturaAsignacion{
				FacturaID:         f.ID,
				AreaID:            area.ID,
				ResponsableUserID: user.ID,
				CreatedAt:         f.UpdatedAt,
			})
		})
}

// EnviarAContabilidad valida el conjunto completo de reglas y mueve la factura a Contabilidad.
func (uc *UseCase) EnviarAContabilidad(ctx context.Context, actor entity.Actor, facturaID string) (*Result, error) {
	return uc.run(ctx, actor, domainwf.TransitionEnviarAContabilidad, facturaID,
		func(ctx context.Context, repos repository.TxRepos, f *entity.Factura) (*domainwf.Report, error) {
			snap, err := loadSnapshot(ctx, repos, f)
			if err != nil {
				return nil, err
			}
			rep, err := uc.machine.EnviarAContabilidad(snap)
			return &rep, err
		})
}

// EnviarATesoreria mueve la factura de Contabilidad a Tesorería.
func (uc *UseCase) EnviarATesoreria(ctx context.Context, actor entity.Actor, facturaID string) (*Result, error) {
	return uc.run(ctx, actor, domainwf.TransitionEnviarATesoreria, facturaID,
		func(_ context.Context, _ repository.TxRepos, f *entity.Factura) (*domainwf.Report, error) {
			return nil, uc.machine.EnviarATesoreria(f)
		})
}

// CerrarEnTesoreria finaliza la factura si tiene los documentos de cierre.
func (uc *UseCase) CerrarEnTesoreria(ctx context.Context, actor entity.Actor, facturaID string) (*Result, error) {
	return uc.run(ctx, actor, domainwf.TransitionCerrarEnTesoreria, facturaID,
		func(ctx context.Context, repos repository.TxRepos, f *entity.Factura) (*domainwf.Report, error) {
			docTypes, err := repos.Files.DocTypes(ctx, f.ID)
			if err != nil {
				return nil, err
			}
			rep, err := uc.machine.CerrarEnTesoreria(domainwf.Snapshot{Factura: f, DocTypes: docTypes})
			return &rep, err
		})
}

// DevolverAResponsable regresa la factura al área responsable de origen.
func (uc *UseCase) DevolverAResponsable(ctx context.Context, actor entity.Actor, facturaID, motivo string) (*Result, error) {
	return uc.run(ctx, actor, domainwf.TransitionDevolverAResponsable, facturaID,
		func(_ context.Context, _ repository.TxRepos, f *entity.Factura) (*domainwf.Report, error) {
			return nil, uc.machine.DevolverAResponsable(f, motivo)
		})
}

// DevolverAFacturacion regresa la factura a Facturación.
func (uc *UseCase) DevolverAFacturacion(ctx context.Context, actor entity.Actor, facturaID, motivo string) (*Result, error) {
	return uc.run(ctx, actor, domainwf.TransitionDevolverAFacturacion, facturaID,
		func(_ context.Context, _ repository.TxRepos, f *entity.Factura) (*domainwf.Report, error) {
			return nil, uc.machine.DevolverAFacturacion(f, motivo)
		})
}

// Validar evalúa las reglas de datos de la transición sin modificar nada.
func (uc *UseCase) Validar(ctx context.Context, _ entity.Actor, facturaID string, t domainwf.Transition) (domainwf.Report, error) {
	ctx, span := uc.tracer.Start(ctx, "workflow.validar", trace.WithAttributes(
		attribute.String("factura.id", facturaID),
		attribute.String("workflow.transition", string(t)),
	))
	defer span.End()

	var rep domainwf.Report
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		f, err := repos.Facturas.GetByID(ctx, facturaID)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, facturaID)
		}
		snap, err := loadSnapshot(ctx, repos, f)
		if err != nil {
			return err
		}
		rep = domainwf.Validate(t, snap)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domainwf.Report{}, err
	}
	span.SetAttributes(attribute.Int("workflow.violations", len(rep.Violations)))
	return rep, nil
}

// Asignaciones historial de asignaciones de la factura, del más antiguo al más reciente.
func (uc *UseCase) Asignaciones(ctx context.Context, facturaID string) ([]*entity.FacturaAsignacion, error) {
	var out []*entity.FacturaAsignacion
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		f, err := repos.Facturas.GetByID(ctx, facturaID)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, facturaID)
		}
		out, err = repos.Asignaciones.ListByFactura(ctx, facturaID)
		return err
	})
	return out, err
}

func (uc *UseCase) run(ctx context.Context, actor entity.Actor, t domainwf.Transition, facturaID string, fn step) (*Result, error) {
	ctx, span := uc.start(ctx, t, facturaID, actor)
	defer span.End()

	var (
		res  Result
		from int
	)
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		f, err := repos.Facturas.GetForUpdate(ctx, facturaID)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, facturaID)
		}
		from = f.EstadoID
		if err := Authorize(actor, t, f); err != nil {
			return err
		}
		rep, err := fn(ctx, repos, f)
		res.Report = rep
		if err != nil {
			return err
		}
		if err := repos.Facturas.Update(ctx, f); err != nil {
			return err
		}
		res.Factura = f
		res.Codigos, err = repos.Codigos.ListByFactura(ctx, f.ID)
		return err
	})
	to := from
	if res.Factura != nil {
		to = res.Factura.EstadoID
	}
	uc.finish(span, t, facturaID, actor, from, to, err)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (uc *UseCase) start(ctx context.Context, t domainwf.Transition, facturaID string, actor entity.Actor) (context.Context, trace.Span) {
	return uc.tracer.Start(ctx, "workflow."+string(t), trace.WithAttributes(
		attribute.String("factura.id", facturaID),
		attribute.String("actor.id", actor.UserID),
		attribute.String("actor.role", actor.Role),
	))
}

// finish registra el resultado en el span y en el log. Los rechazos de negocio se registran como warn.
func (uc *UseCase) finish(span trace.Span, t domainwf.Transition, facturaID string, actor entity.Actor, from, to int, err error) {
	if err == nil {
		span.SetAttributes(
			attribute.String("factura.id", facturaID),
			attribute.String("estado.desde", entity.EstadoCode(from)),
			attribute.String("estado.hacia", entity.EstadoCode(to)),
		)
		uc.log.Info().
			Str("transition", string(t)).
			Str("factura_id", facturaID).
			Str("actor_id", actor.UserID).
			Str("desde", entity.EstadoCode(from)).
			Str("hacia", entity.EstadoCode(to)).
			Msg("transición aplicada")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	ev := uc.log.Error()
	if isBusinessError(err) {
		ev = uc.log.Warn()
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		ev = ev.Int("violations", len(verr.Violations))
	}
	ev.Err(err).
		Str("transition", string(t)).
		Str("factura_id", facturaID).
		Str("actor_id", actor.UserID).
		Msg("transición rechazada")
}

func isBusinessError(err error) bool {
	for _, target := range []error{
		domain.ErrValidationFailed, domain.ErrGuardFailed, domain.ErrInvalidInput, domain.ErrNotFound,
		domain.ErrForbidden, domain.ErrConflict, domain.ErrDuplicate, domain.ErrInvariantViolation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// loadSnapshot carga los hijos de la factura y la pertenencia CO→CC de todos los centros referenciados.
func loadSnapshot(ctx context.Context, repos repository.TxRepos, f *entity.Factura) (domainwf.Snapshot, error) {
	snap := domainwf.Snapshot{Factura: f}
	var err error
	if snap.Codigos, err = repos.Codigos.ListByFactura(ctx, f.ID); err != nil {
		return snap, err
	}
	if snap.DocTypes, err = repos.Files.DocTypes(ctx, f.ID); err != nil {
		return snap, err
	}
	if snap.Distribucion, err = repos.Distribucion.ListByFactura(ctx, f.ID); err != nil {
		return snap, err
	}
	var ids []string
	if f.CentroOperacionID != nil {
		ids = append(ids, *f.CentroOperacionID)
	}
	for _, l := range snap.Distribucion {
		ids = append(ids, l.CentroOperacionID)
	}
	owners, err := repos.Catalogo.CentroOwners(ctx, ids)
	if err != nil {
		return snap, err
	}
	snap.CentroOwners = owners
	return snap, nil
}

// validateIntake datos mínimos de ingesta; reporta todos los problemas juntos.
func validateIntake(f *entity.Factura) error {
	var reasons []string
	if strings.TrimSpace(f.Proveedor) == "" {
		reasons = append(reasons, "el proveedor es obligatorio")
	}
	if strings.TrimSpace(f.NumeroFactura) == "" {
		reasons = append(reasons, "el número de factura es obligatorio")
	}
	if !f.Total.IsPositive() {
		reasons = append(reasons, "el total debe ser mayor que cero")
	} else if !f.Total.Equal(f.Total.Round(entity.DecimalesMoneda)) {
		reasons = append(reasons, fmt.Sprintf("el total %s admite a lo sumo %d decimales", f.Total.String(), entity.DecimalesMoneda))
	}
	if f.IntervaloEntregaContabilidad != "" && !f.IntervaloEntregaContabilidad.Valid() {
		reasons = append(reasons, fmt.Sprintf("intervalo de entrega %q no reconocido", f.IntervaloEntregaContabilidad))
	}
	if f.FechaEmision != nil && f.FechaVencimiento != nil && f.FechaVencimiento.Before(*f.FechaEmision) {
		reasons = append(reasons, "la fecha de vencimiento es anterior a la de emisión")
	}
	if len(reasons) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(reasons, "; "))
	}
	f.Proveedor = strings.TrimSpace(f.Proveedor)
	f.NumeroFactura = strings.TrimSpace(f.NumeroFactura)
	return nil
}
