package repository

import (
	"context"

	"github.com/jhoicas/contabilidadcq-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get/Find devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByArea(ctx context.Context, areaID string) ([]*entity.User, error)
}
