package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/ledger"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo puerto de solo lectura del reporte agregado. Carga sesiones y sus
// movimientos en tres consultas (una por tabla, con ANY sobre los IDs) en vez
// de N+1 por sesión.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// ListLedgers carga las sesiones del filtro como instantáneas completas listas
// para la calculadora de arqueo, aperturas más recientes primero.
func (r *ReportRepo) ListLedgers(ctx context.Context, filter repository.SessionFilter) ([]ledger.Ledger, error) {
	query := `SELECT ` + sessionColumns + ` FROM cash_sessions`
	where, args := sessionFilterClauses(filter)
	query += where + ` ORDER BY start_time DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list report sessions: %w", err)
	}
	defer rows.Close()

	var ledgers []ledger.Ledger
	var sessionIDs []string
	index := map[string]int{} // session_id → posición en ledgers
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report session: %w", err)
		}
		index[s.ID] = len(ledgers)
		sessionIDs = append(sessionIDs, s.ID)
		ledgers = append(ledgers, ledger.Ledger{Session: *s})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report sessions: %w", err)
	}
	if len(ledgers) == 0 {
		return nil, nil
	}

	if err := r.attachTransactions(ctx, sessionIDs, index, ledgers); err != nil {
		return nil, err
	}
	if err := r.attachFlexi(ctx, sessionIDs, index, ledgers); err != nil {
		return nil, err
	}
	return ledgers, nil
}

func (r *ReportRepo) attachTransactions(ctx context.Context, ids []string, index map[string]int, ledgers []ledger.Ledger) error {
	query := `
		SELECT id, session_id, type, amount, description, timestamp
		FROM transactions WHERE session_id = ANY($1) ORDER BY timestamp DESC`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list report transactions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Kind, &t.Amount, &t.Description, &t.Timestamp); err != nil {
			return fmt.Errorf("scan report transaction: %w", err)
		}
		if i, ok := index[t.SessionID]; ok {
			ledgers[i].Transactions = append(ledgers[i].Transactions, t)
		}
	}
	return rows.Err()
}

func (r *ReportRepo) attachFlexi(ctx context.Context, ids []string, index map[string]int, ledgers []ledger.Ledger) error {
	query := `
		SELECT id, session_id, user_id, amount, description, timestamp, is_paid
		FROM flexi_transactions WHERE session_id = ANY($1) ORDER BY timestamp DESC`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list report flexi transactions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var f entity.FlexiTransaction
		if err := rows.Scan(&f.ID, &f.SessionID, &f.UserID, &f.Amount, &f.Description, &f.Timestamp, &f.IsPaid); err != nil {
			return fmt.Errorf("scan report flexi transaction: %w", err)
		}
		if i, ok := index[f.SessionID]; ok {
			ledgers[i].Flexi = append(ledgers[i].Flexi, f)
		}
	}
	return rows.Err()
}

// Usernames devuelve el mapa id → username de todos los usuarios.
func (r *ReportRepo) Usernames(ctx context.Context) (map[string]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id, username FROM users`)
	if err != nil {
		return nil, fmt.Errorf("list usernames: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var id, username string
		if err := rows.Scan(&id, &username); err != nil {
			return nil, fmt.Errorf("scan username: %w", err)
		}
		out[id] = username
	}
	return out, rows.Err()
}
