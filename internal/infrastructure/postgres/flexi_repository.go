package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.FlexiRepository = (*FlexiRepo)(nil)

// FlexiRepo implementación del puerto FlexiRepository sobre PostgreSQL.
type FlexiRepo struct {
	q Querier
}

// NewFlexiRepository construye el adaptador de recargas flexi. Pasar pool o tx (Querier).
func NewFlexiRepository(q Querier) *FlexiRepo {
	return &FlexiRepo{q: q}
}

// Create persiste una recarga flexi.
func (r *FlexiRepo) Create(ctx context.Context, f *entity.FlexiTransaction) error {
	query := `
		INSERT INTO flexi_transactions (id, session_id, user_id, amount, description, timestamp, is_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		f.ID, f.SessionID, f.UserID, f.Amount, f.Description, f.Timestamp, f.IsPaid,
	)
	if err != nil {
		return fmt.Errorf("insert flexi transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una recarga por ID, o nil si no existe.
func (r *FlexiRepo) GetByID(ctx context.Context, id string) (*entity.FlexiTransaction, error) {
	query := `
		SELECT id, session_id, user_id, amount, description, timestamp, is_paid
		FROM flexi_transactions WHERE id = $1`
	var f entity.FlexiTransaction
	err := r.q.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.SessionID, &f.UserID, &f.Amount, &f.Description, &f.Timestamp, &f.IsPaid,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get flexi transaction by id: %w", err)
	}
	return &f, nil
}

// ListBySession lista las recargas de una sesión, más recientes primero.
func (r *FlexiRepo) ListBySession(ctx context.Context, sessionID string) ([]entity.FlexiTransaction, error) {
	query := `
		SELECT id, session_id, user_id, amount, description, timestamp, is_paid
		FROM flexi_transactions WHERE session_id = $1 ORDER BY timestamp DESC`
	rows, err := r.q.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list flexi transactions: %w", err)
	}
	defer rows.Close()
	var list []entity.FlexiTransaction
	for rows.Next() {
		var f entity.FlexiTransaction
		if err := rows.Scan(&f.ID, &f.SessionID, &f.UserID, &f.Amount, &f.Description, &f.Timestamp, &f.IsPaid); err != nil {
			return nil, fmt.Errorf("scan flexi transaction: %w", err)
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// Update actualiza monto, descripción y marca de pago de una recarga.
func (r *FlexiRepo) Update(ctx context.Context, f *entity.FlexiTransaction) error {
	query := `UPDATE flexi_transactions SET amount = $2, description = $3, is_paid = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, f.ID, f.Amount, f.Description, f.IsPaid)
	if err != nil {
		return fmt.Errorf("update flexi transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una recarga por ID.
func (r *FlexiRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM flexi_transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete flexi transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
