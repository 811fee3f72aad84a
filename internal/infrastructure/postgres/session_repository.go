package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementación del puerto SessionRepository sobre PostgreSQL.
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el adaptador de sesiones. Pasar pool o tx (Querier).
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

const sessionColumns = `id, user_id, start_time, end_time, start_balance, end_balance, status, notes, start_flexi, end_flexi`

// Create inserta la sesión. El índice único parcial sobre (user_id) WHERE
// status = 'open' convierte una segunda apertura concurrente en
// ErrSessionAlreadyOpen.
func (r *SessionRepo) Create(ctx context.Context, s *entity.CashSession) error {
	query := `
		INSERT INTO cash_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.UserID, s.StartTime, s.EndTime, s.StartBalance, nullDecimal(s.EndBalance),
		s.Status, s.Notes, s.StartFlexi, nullDecimal(s.EndFlexi),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSessionAlreadyOpen
		}
		return fmt.Errorf("insert cash session: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión por ID, o nil si no existe.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*entity.CashSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cash_sessions WHERE id = $1`
	s, err := scanSession(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash session by id: %w", err)
	}
	return s, nil
}

// FindOpenByUser devuelve la sesión abierta del usuario o nil si no hay.
func (r *SessionRepo) FindOpenByUser(ctx context.Context, userID string) (*entity.CashSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM cash_sessions WHERE user_id = $1 AND status = 'open'`
	s, err := scanSession(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open session: %w", err)
	}
	return s, nil
}

// Update sobreescribe todos los campos mutables de la sesión.
func (r *SessionRepo) Update(ctx context.Context, s *entity.CashSession) error {
	query := `
		UPDATE cash_sessions
		SET end_time = $2, start_balance = $3, end_balance = $4, status = $5,
		    notes = $6, start_flexi = $7, end_flexi = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.EndTime, s.StartBalance, nullDecimal(s.EndBalance),
		s.Status, s.Notes, s.StartFlexi, nullDecimal(s.EndFlexi),
	)
	if err != nil {
		return fmt.Errorf("update cash session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve las sesiones del filtro, aperturas más recientes primero.
func (r *SessionRepo) List(ctx context.Context, filter repository.SessionFilter) ([]*entity.CashSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cash_sessions`
	where, args := sessionFilterClauses(filter)
	query += where + ` ORDER BY start_time DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cash sessions: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash session: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Delete elimina la sesión; sus movimientos caen en cascada (FK).
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM cash_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cash session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// sessionFilterClauses arma el WHERE dinámico compartido por listados y reportes.
func sessionFilterClauses(filter repository.SessionFilter) (string, []any) {
	var clauses []string
	var args []any
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("start_time >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("start_time <= $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	where := " WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}

// scanSession escanea una fila de cash_sessions manejando los campos NULL
// de la sesión abierta (end_time, end_balance, end_flexi).
func scanSession(row pgx.Row) (*entity.CashSession, error) {
	var s entity.CashSession
	var endBalance, endFlexi decimal.NullDecimal
	err := row.Scan(
		&s.ID, &s.UserID, &s.StartTime, &s.EndTime, &s.StartBalance, &endBalance,
		&s.Status, &s.Notes, &s.StartFlexi, &endFlexi,
	)
	if err != nil {
		return nil, err
	}
	if endBalance.Valid {
		s.EndBalance = &endBalance.Decimal
	}
	if endFlexi.Valid {
		s.EndFlexi = &endFlexi.Decimal
	}
	return &s, nil
}

// nullDecimal mapea *decimal.Decimal a NULL cuando es nil.
func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
