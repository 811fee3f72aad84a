package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// SessionFilter acota listados y reportes por dueño y rango de fechas
// (sobre start_time). Los campos nil/vacíos no filtran.
type SessionFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
}

// SessionRepository define el puerto de persistencia para CashSession.
type SessionRepository interface {
	// Create inserta la sesión. Si el dueño ya tiene una sesión abierta
	// devuelve domain.ErrSessionAlreadyOpen (índice único parcial).
	Create(ctx context.Context, s *entity.CashSession) error
	GetByID(ctx context.Context, id string) (*entity.CashSession, error)
	// FindOpenByUser devuelve la sesión abierta del usuario o nil si no hay.
	FindOpenByUser(ctx context.Context, userID string) (*entity.CashSession, error)
	Update(ctx context.Context, s *entity.CashSession) error
	List(ctx context.Context, filter SessionFilter) ([]*entity.CashSession, error)
	Delete(ctx context.Context, id string) error
}
