package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FlexiTransaction es una recarga de crédito flexi registrada dentro de una
// sesión. IsPaid marca si el monto se pagó en efectivo desde el cajón en el
// momento (afecta el saldo teórico de efectivo) o quedó pendiente/externo.
type FlexiTransaction struct {
	ID          string
	SessionID   string
	UserID      string // usuario que registró la recarga
	Amount      decimal.Decimal
	Description string
	Timestamp   time.Time
	IsPaid      bool
}
