package repository

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// TransactionRepository define el puerto de persistencia para Transaction.
type TransactionRepository interface {
	Create(ctx context.Context, t *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	ListBySession(ctx context.Context, sessionID string) ([]entity.Transaction, error)
	Update(ctx context.Context, t *entity.Transaction) error
	Delete(ctx context.Context, id string) error
}

// FlexiRepository define el puerto de persistencia para FlexiTransaction.
type FlexiRepository interface {
	Create(ctx context.Context, f *entity.FlexiTransaction) error
	GetByID(ctx context.Context, id string) (*entity.FlexiTransaction, error)
	ListBySession(ctx context.Context, sessionID string) ([]entity.FlexiTransaction, error)
	Update(ctx context.Context, f *entity.FlexiTransaction) error
	Delete(ctx context.Context, id string) error
}
