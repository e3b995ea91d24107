// Package comentarios notas libres de los usuarios sobre una factura.
package comentarios

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/contabilidadcq-api/internal/application/dto"
	"github.com/jhoicas/contabilidadcq-api/internal/domain"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
	"github.com/jhoicas/contabilidadcq-api/internal/domain/repository"
)

// MaxContenido longitud máxima de un comentario en caracteres.
const MaxContenido = 2000

// UseCase comentarios de facturas. Solo el autor edita o borra.
type UseCase struct {
	facturas    repository.FacturaRepository
	comentarios repository.ComentarioRepository
	now         func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(facturas repository.FacturaRepository, comentarios repository.ComentarioRepository) *UseCase {
	return &UseCase{facturas: facturas, comentarios: comentarios, now: time.Now}
}

// List comentarios de la factura del más antiguo al más reciente.
func (uc *UseCase) List(ctx context.Context, facturaID string) ([]dto.ComentarioResponse, error) {
	if err := uc.checkFactura(ctx, facturaID); err != nil {
		return nil, err
	}
	rows, err := uc.comentarios.ListByFactura(ctx, facturaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ComentarioResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, dto.ComentarioFrom(c))
	}
	return out, nil
}

// Create agrega un comentario del actor.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, facturaID string, req dto.ComentarioRequest) (*dto.ComentarioResponse, error) {
	if actor.UserID == "" {
		return nil, fmt.Errorf("%w: solo los usuarios pueden comentar", domain.ErrForbidden)
	}
	contenido, err := normalize(req.Contenido)
	if err != nil {
		return nil, err
	}
	if err := uc.checkFactura(ctx, facturaID); err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.Comentario{FacturaID: facturaID, UserID: actor.UserID, Contenido: contenido, CreatedAt: now, UpdatedAt: now}
	if err := uc.comentarios.Create(ctx, c); err != nil {
		return nil, err
	}
	out := dto.ComentarioFrom(c)
	return &out, nil
}

// Update cambia el contenido; solo el autor.
func (uc *UseCase) Update(ctx context.Context, actor entity.Actor, id string, req dto.ComentarioRequest) (*dto.ComentarioResponse, error) {
	contenido, err := normalize(req.Contenido)
	if err != nil {
		return nil, err
	}
	c, err := uc.own(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	c.Contenido = contenido
	c.UpdatedAt = uc.now()
	if err := uc.comentarios.Update(ctx, c); err != nil {
		return nil, err
	}
	out := dto.ComentarioFrom(c)
	return &out, nil
}

// Delete borra el comentario; solo el autor.
func (uc *UseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if _, err := uc.own(ctx, actor, id); err != nil {
		return err
	}
	return uc.comentarios.Delete(ctx, id)
}

func (uc *UseCase) own(ctx context.Context, actor entity.Actor, id string) (*entity.Comentario, error) {
	c, err := uc.comentarios.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: comentario %s", domain.ErrNotFound, id)
	}
	if c.UserID != actor.UserID {
		return nil, fmt.Errorf("%w: solo el autor puede modificar el comentario", domain.ErrForbidden)
	}
	return c, nil
}

func (uc *UseCase) checkFactura(ctx context.Context, id string) error {
	f, err := uc.facturas.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	return nil
}

func normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	switch n := utf8.RuneCountInString(s); {
	case n == 0:
		return "", fmt.Errorf("%w: el comentario está vacío", domain.ErrInvalidInput)
	case n > MaxContenido:
		return "", fmt.Errorf("%w: el comentario supera %d caracteres", domain.ErrInvalidInput, MaxContenido)
	}
	return s, nil
}
