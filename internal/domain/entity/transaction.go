package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de caja. Operativamente solo se registra "expense";
// "income" queda reservado en el esquema para compatibilidad futura.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// Transaction es un movimiento de efectivo registrado dentro de una sesión.
// Solo puede crearse, editarse o eliminarse mientras la sesión dueña está abierta.
type Transaction struct {
	ID          string
	SessionID   string
	Kind        string // income, expense
	Amount      decimal.Decimal
	Description string
	Timestamp   time.Time
}
