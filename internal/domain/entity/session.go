package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
)

// Estados de una sesión de caja. No existen sub-estados ni reapertura:
// corregir una sesión cerrada requiere la edición privilegiada de administrador.
const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// CashSession representa un turno de cajero sobre un cajón de efectivo
// más un saldo de crédito flexi. Mientras está abierta, EndTime, EndBalance
// y EndFlexi son nil; al cerrarse quedan todos sellados.
type CashSession struct {
	ID           string
	UserID       string
	StartTime    time.Time
	EndTime      *time.Time
	StartBalance decimal.Decimal
	EndBalance   *decimal.Decimal
	Status       string // open, closed
	Notes        string
	StartFlexi   decimal.Decimal
	EndFlexi     *decimal.Decimal
}

// IsOpen indica si la sesión sigue abierta (admite movimientos).
func (s *CashSession) IsOpen() bool { return s.Status == SessionOpen }

// Close sella la sesión con los saldos contados. La transición es única:
// cerrar una sesión ya cerrada devuelve ErrSessionClosed y no modifica nada.
func (s *CashSession) Close(endCash, endFlexi decimal.Decimal, at time.Time) error {
	if !s.IsOpen() {
		return domain.ErrSessionClosed
	}
	s.Status = SessionClosed
	s.EndTime = &at
	s.EndBalance = &endCash
	s.EndFlexi = &endFlexi
	return nil
}
