package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/ledger"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// UseCase implementa la máquina de estados de la sesión de caja: apertura,
// movimientos, cierre y las operaciones privilegiadas de administrador.
// Toda validación ocurre antes de cualquier escritura; los errores de
// persistencia dejan el libro sin cambios (rollback de la operación).
type UseCase struct {
	tx           TxRunner
	sessions     repository.SessionRepository
	transactions repository.TransactionRepository
	flexi        repository.FlexiRepository
	users        repository.UserRepository
	reauth       Reauthenticator
	receipts     ReceiptGenerator
}

// NewUseCase construye el caso de uso con sus puertos.
func NewUseCase(
	tx TxRunner,
	sessions repository.SessionRepository,
	transactions repository.TransactionRepository,
	flexi repository.FlexiRepository,
	users repository.UserRepository,
	reauth Reauthenticator,
	receipts ReceiptGenerator,
) *UseCase {
	return &UseCase{
		tx:           tx,
		sessions:     sessions,
		transactions: transactions,
		flexi:        flexi,
		users:        users,
		reauth:       reauth,
		receipts:     receipts,
	}
}

// Open abre una sesión de caja con los saldos iniciales contados. La regla
// "una sola sesión abierta por cajero" se verifica dentro de la misma
// transacción que inserta la fila (check-then-insert atómico).
func (uc *UseCase) Open(ctx context.Context, userID string, in dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	if in.StartBalance.IsNegative() {
		return nil, fmt.Errorf("%w: el saldo inicial no puede ser negativo", domain.ErrValidation)
	}
	if in.StartFlexi.IsNegative() {
		return nil, fmt.Errorf("%w: el saldo flexi inicial no puede ser negativo", domain.ErrValidation)
	}

	s := &entity.CashSession{
		ID:           uuid.New().String(),
		UserID:       userID,
		StartTime:    time.Now().UTC(),
		StartBalance: in.StartBalance,
		StartFlexi:   in.StartFlexi,
		Status:       entity.SessionOpen,
	}
	err := uc.tx.Run(ctx, func(sessions repository.SessionRepository, _ repository.TransactionRepository, _ repository.FlexiRepository) error {
		existing, err := sessions.FindOpenByUser(ctx, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrSessionAlreadyOpen
		}
		return sessions.Create(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ledger.Ledger{Session: *s}, false), nil
}

// Close cierra la sesión con los saldos contados de efectivo y flexi.
// Ambos son obligatorios; un flexi de 0 debe declararse explícitamente.
func (uc *UseCase) Close(ctx context.Context, sessionID string, in dto.CloseSessionRequest) (*dto.SessionResponse, error) {
	if in.EndBalance == nil {
		return nil, fmt.Errorf("%w: el efectivo contado es obligatorio al cerrar", domain.ErrValidation)
	}
	if in.EndFlexi == nil {
		return nil, fmt.Errorf("%w: el saldo flexi contado es obligatorio al cerrar", domain.ErrValidation)
	}
	if in.EndBalance.IsNegative() || in.EndFlexi.IsNegative() {
		return nil, fmt.Errorf("%w: los saldos contados no pueden ser negativos", domain.ErrValidation)
	}

	s, err := uc.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.Close(*in.EndBalance, *in.EndFlexi, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := uc.sessions.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("guardar cierre: %w", err)
	}
	return uc.loadResponse(ctx, s)
}

// AddExpense registra un gasto en una sesión abierta.
func (uc *UseCase) AddExpense(ctx context.Context, sessionID string, in dto.AddTransactionRequest) (*dto.TransactionResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor a cero", domain.ErrValidation)
	}
	if _, err := uc.getOpenSession(ctx, sessionID); err != nil {
		return nil, err
	}
	t := &entity.Transaction{
		ID:          uuid.New().String(),
		SessionID:   sessionID,
		Kind:        entity.KindExpense,
		Amount:      in.Amount,
		Description: in.Description,
		Timestamp:   time.Now().UTC(),
	}
	if err := uc.transactions.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("registrar gasto: %w", err)
	}
	resp := toTransactionResponse(*t)
	return &resp, nil
}

// AddFlexiEntry registra una recarga flexi en una sesión abierta, anotando
// el usuario que la registró y si se pagó en efectivo desde el cajón.
func (uc *UseCase) AddFlexiEntry(ctx context.Context, sessionID, userID string, in dto.AddFlexiRequest) (*dto.FlexiResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor a cero", domain.ErrValidation)
	}
	if _, err := uc.getOpenSession(ctx, sessionID); err != nil {
		return nil, err
	}
	f := &entity.FlexiTransaction{
		ID:          uuid.New().String(),
		SessionID:   sessionID,
		UserID:      userID,
		Amount:      in.Amount,
		Description: in.Description,
		Timestamp:   time.Now().UTC(),
		IsPaid:      in.IsPaid,
	}
	if err := uc.flexi.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("registrar recarga flexi: %w", err)
	}
	resp := toFlexiResponse(*f)
	return &resp, nil
}

// EditTransaction modifica un gasto existente mientras su sesión siga abierta.
func (uc *UseCase) EditTransaction(ctx context.Context, id string, in dto.EditEntryRequest) (*dto.TransactionResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor a cero", domain.ErrValidation)
	}
	t, err := uc.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("buscar movimiento: %w", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.getOpenSession(ctx, t.SessionID); err != nil {
		return nil, err
	}
	t.Amount = in.Amount
	t.Description = in.Description
	if err := uc.transactions.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("editar movimiento: %w", err)
	}
	resp := toTransactionResponse(*t)
	return &resp, nil
}

// DeleteTransaction elimina un gasto mientras su sesión siga abierta.
func (uc *UseCase) DeleteTransaction(ctx context.Context, id string) error {
	t, err := uc.transactions.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("buscar movimiento: %w", err)
	}
	if t == nil {
		return domain.ErrNotFound
	}
	if _, err := uc.getOpenSession(ctx, t.SessionID); err != nil {
		return err
	}
	if err := uc.transactions.Delete(ctx, id); err != nil {
		return fmt.Errorf("eliminar movimiento: %w", err)
	}
	return nil
}

// EditFlexiEntry modifica una recarga flexi mientras su sesión siga abierta.
func (uc *UseCase) EditFlexiEntry(ctx context.Context, id string, in dto.EditEntryRequest) (*dto.FlexiResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor a cero", domain.ErrValidation)
	}
	f, err := uc.flexi.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("buscar recarga: %w", err)
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.getOpenSession(ctx, f.SessionID); err != nil {
		return nil, err
	}
	f.Amount = in.Amount
	f.Description = in.Description
	if in.IsPaid != nil {
		f.IsPaid = *in.IsPaid
	}
	if err := uc.flexi.Update(ctx, f); err != nil {
		return nil, fmt.Errorf("editar recarga: %w", err)
	}
	resp := toFlexiResponse(*f)
	return &resp, nil
}

// DeleteFlexiEntry elimina una recarga flexi mientras su sesión siga abierta.
func (uc *UseCase) DeleteFlexiEntry(ctx context.Context, id string) error {
	f, err := uc.flexi.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("buscar recarga: %w", err)
	}
	if f == nil {
		return domain.ErrNotFound
	}
	if _, err := uc.getOpenSession(ctx, f.SessionID); err != nil {
		return err
	}
	if err := uc.flexi.Delete(ctx, id); err != nil {
		return fmt.Errorf("eliminar recarga: %w", err)
	}
	return nil
}

// UpdateNotes reemplaza las notas libres de una sesión abierta.
func (uc *UseCase) UpdateNotes(ctx context.Context, sessionID string, in dto.UpdateNotesRequest) (*dto.SessionResponse, error) {
	s, err := uc.getOpenSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.Notes = in.Notes
	if err := uc.sessions.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("guardar notas: %w", err)
	}
	return uc.toResponse(ledger.Ledger{Session: *s}, false), nil
}

// Get devuelve la sesión con sus movimientos cargados y el arqueo calculado
// (operación compute_reconciliation del núcleo).
func (uc *UseCase) Get(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	s, err := uc.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return uc.loadResponse(ctx, s)
}

// FindOpen devuelve la sesión abierta del cajero, o nil si no tiene ninguna.
// Reemplaza cualquier estado global de "sesión actual": se consulta fresco.
func (uc *UseCase) FindOpen(ctx context.Context, userID string) (*dto.SessionResponse, error) {
	s, err := uc.sessions.FindOpenByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("buscar sesión abierta: %w", err)
	}
	if s == nil {
		return nil, nil
	}
	return uc.loadResponse(ctx, s)
}

// List devuelve las sesiones del filtro con su arqueo, sin los movimientos.
func (uc *UseCase) List(ctx context.Context, filter repository.SessionFilter) ([]dto.SessionResponse, error) {
	list, err := uc.sessions.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar sesiones: %w", err)
	}
	out := make([]dto.SessionResponse, 0, len(list))
	for _, s := range list {
		l, err := uc.loadLedger(ctx, s)
		if err != nil {
			return nil, err
		}
		out = append(out, *uc.toResponse(l, false))
	}
	return out, nil
}

// AdminEditSession sobreescribe saldos de una sesión (abierta o cerrada) sin
// transición de estado. Exige re-autenticación del administrador.
func (uc *UseCase) AdminEditSession(ctx context.Context, adminID, sessionID string, in dto.AdminEditSessionRequest) (*dto.SessionResponse, error) {
	if err := uc.reauth.Reauthenticate(ctx, adminID, in.AdminPassword); err != nil {
		return nil, err
	}
	for _, v := range []*decimal.Decimal{in.StartBalance, in.EndBalance, in.StartFlexi, in.EndFlexi} {
		if v != nil && v.IsNegative() {
			return nil, fmt.Errorf("%w: los saldos no pueden ser negativos", domain.ErrValidation)
		}
	}
	s, err := uc.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if in.StartBalance != nil {
		s.StartBalance = *in.StartBalance
	}
	if in.EndBalance != nil {
		s.EndBalance = in.EndBalance
	}
	if in.StartFlexi != nil {
		s.StartFlexi = *in.StartFlexi
	}
	if in.EndFlexi != nil {
		s.EndFlexi = in.EndFlexi
	}
	if in.Notes != nil {
		s.Notes = *in.Notes
	}
	if err := uc.sessions.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("guardar edición: %w", err)
	}
	return uc.loadResponse(ctx, s)
}

// DeleteSession elimina una sesión y, en cascada, todos sus movimientos.
// Exige re-autenticación del administrador.
func (uc *UseCase) DeleteSession(ctx context.Context, adminID, sessionID, adminPassword string) error {
	if err := uc.reauth.Reauthenticate(ctx, adminID, adminPassword); err != nil {
		return err
	}
	if _, err := uc.getSession(ctx, sessionID); err != nil {
		return err
	}
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("eliminar sesión: %w", err)
	}
	return nil
}

// CloseReceipt genera el comprobante de cierre (PDF) de una sesión cerrada.
func (uc *UseCase) CloseReceipt(ctx context.Context, sessionID string) ([]byte, error) {
	s, err := uc.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.IsOpen() {
		return nil, fmt.Errorf("%w: la sesión sigue abierta, no hay cierre que comprobar", domain.ErrValidation)
	}
	l, err := uc.loadLedger(ctx, s)
	if err != nil {
		return nil, err
	}
	username := s.UserID
	if owner, err := uc.users.GetByID(ctx, s.UserID); err == nil && owner != nil {
		username = owner.Username
	}
	return uc.receipts.GenerateCloseReceipt(ctx, l, username)
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers internos
// ──────────────────────────────────────────────────────────────────────────────

func (uc *UseCase) getSession(ctx context.Context, id string) (*entity.CashSession, error) {
	s, err := uc.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("buscar sesión: %w", err)
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// getOpenSession carga la sesión y rechaza con ErrSessionClosed cualquier
// mutación sobre una sesión ya cerrada (movimientos, recargas y notas quedan
// congelados tras el cierre).
func (uc *UseCase) getOpenSession(ctx context.Context, id string) (*entity.CashSession, error) {
	s, err := uc.getSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.IsOpen() {
		return nil, domain.ErrSessionClosed
	}
	return s, nil
}

func (uc *UseCase) loadLedger(ctx context.Context, s *entity.CashSession) (ledger.Ledger, error) {
	txs, err := uc.transactions.ListBySession(ctx, s.ID)
	if err != nil {
		return ledger.Ledger{}, fmt.Errorf("cargar movimientos: %w", err)
	}
	fxs, err := uc.flexi.ListBySession(ctx, s.ID)
	if err != nil {
		return ledger.Ledger{}, fmt.Errorf("cargar recargas flexi: %w", err)
	}
	return ledger.Ledger{Session: *s, Transactions: txs, Flexi: fxs}, nil
}

func (uc *UseCase) loadResponse(ctx context.Context, s *entity.CashSession) (*dto.SessionResponse, error) {
	l, err := uc.loadLedger(ctx, s)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(l, true), nil
}

func (uc *UseCase) toResponse(l ledger.Ledger, withEntries bool) *dto.SessionResponse {
	s := l.Session
	resp := &dto.SessionResponse{
		ID:             s.ID,
		UserID:         s.UserID,
		Status:         s.Status,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		StartBalance:   s.StartBalance,
		EndBalance:     s.EndBalance,
		StartFlexi:     s.StartFlexi,
		EndFlexi:       s.EndFlexi,
		Notes:          s.Notes,
		Reconciliation: l.Reconcile().Round(),
	}
	if withEntries {
		for _, t := range l.SortedTransactions() {
			resp.Transactions = append(resp.Transactions, toTransactionResponse(t))
		}
		for _, f := range l.SortedFlexi() {
			resp.Flexi = append(resp.Flexi, toFlexiResponse(f))
		}
	}
	return resp
}

func toTransactionResponse(t entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          t.ID,
		SessionID:   t.SessionID,
		Kind:        t.Kind,
		Amount:      t.Amount,
		Description: t.Description,
		Timestamp:   t.Timestamp,
	}
}

func toFlexiResponse(f entity.FlexiTransaction) dto.FlexiResponse {
	return dto.FlexiResponse{
		ID:          f.ID,
		SessionID:   f.SessionID,
		UserID:      f.UserID,
		Amount:      f.Amount,
		Description: f.Description,
		Timestamp:   f.Timestamp,
		IsPaid:      f.IsPaid,
	}
}
