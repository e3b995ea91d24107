package factura

import (
	"context"
	"fmt"

	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/repository"
)

// HojaRuta arma los datos de la hoja de ruta con etiquetas legibles y genera el PDF.
func (uc *UseCase) HojaRuta(ctx context.Context, id string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("%w: la generación de la hoja de ruta no está habilitada", domain.ErrInvalidInput)
	}
	data, err := uc.HojaRutaData(ctx, id)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.renderer.RenderHojaRuta(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("hoja de ruta %s: %w", id, err)
	}
	uc.log.Info().Str("factura_id", id).Int("bytes", len(pdf)).Msg("hoja de ruta generada")
	return pdf, nil
}

// HojaRutaData resuelve la factura, sus hijos y los nombres de catálogo en una sola lectura.
func (uc *UseCase) HojaRutaData(ctx context.Context, id string) (*HojaRutaData, error) {
	var d HojaRutaData
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		f, err := repos.Facturas.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
		}
		l := labeler{ctx: ctx, repos: repos}
		d = HojaRutaData{
			Factura:         f,
			Estado:          entity.EstadoCode(f.EstadoID),
			Area:            l.area(f.AreaID),
			CentroCosto:     l.centroCosto(f.CentroCostoID),
			CentroOperacion: l.centroOperacion(f.CentroOperacionID),
			UnidadNegocio:   l.unidad(f.UnidadNegocioID),
			CuentaAuxiliar:  l.cuenta(f.CuentaAuxiliarID),
			GeneradoEn:      uc.now(),
		}
		if f.AreaOrigenID != nil {
			d.AreaOrigen = l.area(*f.AreaOrigenID)
		}
		if f.AssignedToUserID != nil {
			d.AsignadoA = l.user(*f.AssignedToUserID)
		}
		if d.Codigos, err = repos.Codigos.ListByFactura(ctx, id); err != nil {
			return err
		}
		lines, err := repos.Distribucion.ListByFactura(ctx, id)
		if err != nil {
			return err
		}
		for _, ln := range lines {
			d.Distribucion = append(d.Distribucion, HojaRutaLinea{
				CentroCosto:     l.centroCosto(&ln.CentroCostoID),
				CentroOperacion: l.centroOperacion(&ln.CentroOperacionID),
				Porcentaje:      ln.Porcentaje,
			})
		}
		asignaciones, err := repos.Asignaciones.ListByFactura(ctx, id)
		if err != nil {
			return err
		}
		for _, a := range asignaciones {
			d.Asignaciones = append(d.Asignaciones, HojaRutaAsignacion{
				Fecha:       a.CreatedAt,
				Area:        l.area(a.AreaID),
				Responsable: l.user(a.ResponsableUserID),
			})
		}
		if d.Documentos, err = repos.Files.ListByFactura(ctx, id, ""); err != nil {
			return err
		}
		return l.err
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// labeler traduce ids a etiquetas; guarda el primer error de lectura.
type labeler struct {
	ctx   context.Context
	repos repository.TxRepos
	err   error
}

func (l *labeler) keep(err error) {
	if l.err == nil {
		l.err = err
	}
}

func (l *labeler) area(id string) string {
	a, err := l.repos.Catalogo.GetArea(l.ctx, id)
	l.keep(err)
	if a == nil {
		return id
	}
	return a.Nombre
}

func (l *labeler) user(id string) string {
	u, err := l.repos.Users.GetByID(l.ctx, id)
	l.keep(err)
	if u == nil {
		return id
	}
	return u.Name
}

func (l *labeler) centroCosto(id *string) string {
	if id == nil {
		return ""
	}
	c, err := l.repos.Catalogo.GetCentroCosto(l.ctx, *id)
	l.keep(err)
	if c == nil {
		return *id
	}
	return c.Codigo + " - " + c.Nombre
}

func (l *labeler) centroOperacion(id *string) string {
	if id == nil {
		return ""
	}
	c, err := l.repos.Catalogo.GetCentroOperacion(l.ctx, *id)
	l.keep(err)
	if c == nil {
		return *id
	}
	return c.Codigo + " - " + c.Nombre
}

func (l *labeler) unidad(id *string) string {
	if id == nil {
		return ""
	}
	u, err := l.repos.Catalogo.GetUnidadNegocio(l.ctx, *id)
	l.keep(err)
	if u == nil {
		return *id
	}
	return u.Codigo + " - " + u.Nombre
}

func (l *labeler) cuenta(id *string) string {
	if id == nil {
		return ""
	}
	c, err := l.repos.Catalogo.GetCuentaAuxiliar(l.ctx, *id)
	l.keep(err)
	if c == nil {
		return *id
	}
	return c.Codigo + " - " + c.Nombre
}
