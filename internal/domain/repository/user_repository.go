package repository

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	// Delete elimina el usuario; las sesiones y movimientos dependientes caen
	// en cascada por las reglas de FK del esquema.
	Delete(ctx context.Context, id string) error
}
