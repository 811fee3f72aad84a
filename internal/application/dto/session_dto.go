package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/ledger"
)

// OpenSessionRequest apertura de caja con los saldos iniciales contados.
type OpenSessionRequest struct {
	StartBalance decimal.Decimal `json:"start_balance"`
	StartFlexi   decimal.Decimal `json:"start_flexi"`
}

// CloseSessionRequest cierre de caja. Ambos saldos contados son obligatorios;
// son punteros solo para distinguir "0 contado" de "no enviado".
type CloseSessionRequest struct {
	EndBalance *decimal.Decimal `json:"end_balance"`
	EndFlexi   *decimal.Decimal `json:"end_flexi"`
}

// AddTransactionRequest registro de un gasto en la sesión abierta.
type AddTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// AddFlexiRequest registro de una recarga flexi en la sesión abierta.
type AddFlexiRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	IsPaid      bool            `json:"is_paid"`
}

// EditEntryRequest edición explícita de un movimiento o recarga mientras la
// sesión dueña sigue abierta. IsPaid solo aplica a recargas flexi.
type EditEntryRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	IsPaid      *bool           `json:"is_paid"`
}

// UpdateNotesRequest notas libres de la sesión abierta.
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// AdminEditSessionRequest sobreescritura directa de saldos por un administrador
// re-autenticado; no hay transición de estado. Solo los campos no nulos se aplican.
type AdminEditSessionRequest struct {
	StartBalance  *decimal.Decimal `json:"start_balance"`
	EndBalance    *decimal.Decimal `json:"end_balance"`
	StartFlexi    *decimal.Decimal `json:"start_flexi"`
	EndFlexi      *decimal.Decimal `json:"end_flexi"`
	Notes         *string          `json:"notes"`
	AdminPassword string           `json:"admin_password"`
}

// TransactionResponse movimiento de caja.
type TransactionResponse struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"session_id"`
	Kind        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}

// FlexiResponse recarga flexi.
type FlexiResponse struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"session_id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
	IsPaid      bool            `json:"is_paid"`
}

// SessionResponse sesión con su arqueo derivado. Los movimientos van ordenados
// por fecha descendente y solo se incluyen en la consulta por ID.
type SessionResponse struct {
	ID             string                `json:"id"`
	UserID         string                `json:"user_id"`
	Status         string                `json:"status"`
	StartTime      time.Time             `json:"start_time"`
	EndTime        *time.Time            `json:"end_time,omitempty"`
	StartBalance   decimal.Decimal       `json:"start_balance"`
	EndBalance     *decimal.Decimal      `json:"end_balance,omitempty"`
	StartFlexi     decimal.Decimal       `json:"start_flexi"`
	EndFlexi       *decimal.Decimal      `json:"end_flexi,omitempty"`
	Notes          string                `json:"notes"`
	Reconciliation ledger.Reconciliation `json:"reconciliation"`
	Transactions   []TransactionResponse `json:"transactions,omitempty"`
	Flexi          []FlexiResponse       `json:"flexi_transactions,omitempty"`
}
