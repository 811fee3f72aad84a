// Package ledger implementa la calculadora de arqueo (servicio de dominio puro).
//
// Todos los valores son derivados: nunca se persisten redundantemente, para
// evitar que el valor almacenado y el calculado diverjan. La calculadora opera
// sobre una instantánea plana de la sesión con sus movimientos ya cargados, sin
// tocar la base de datos, por lo que es trivialmente testeable.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// Ledger es la instantánea de una sesión de caja con sus movimientos cargados.
type Ledger struct {
	Session      entity.CashSession
	Transactions []entity.Transaction
	Flexi        []entity.FlexiTransaction
}

// Reconciliation agrupa todos los valores derivados del arqueo de una sesión.
type Reconciliation struct {
	TotalExpense        decimal.Decimal `json:"total_expense"`
	TotalFlexiAdditions decimal.Decimal `json:"total_flexi_additions"`
	TotalFlexiPaid      decimal.Decimal `json:"total_flexi_paid"`
	TheoreticalCash     decimal.Decimal `json:"theoretical_cash"`
	NetCashDifference   decimal.Decimal `json:"net_cash_difference"`
	TheoreticalFlexi    decimal.Decimal `json:"theoretical_flexi"`
	FlexiConsumed       decimal.Decimal `json:"flexi_consumed"`
	GrossIncome         decimal.Decimal `json:"gross_income"`
	NetProfit           decimal.Decimal `json:"total_net_profit"`
}

// TotalExpense suma los movimientos de tipo "expense". Los movimientos de tipo
// "income" (reservado) nunca se cuentan como gasto.
func (l Ledger) TotalExpense() decimal.Decimal {
	total := decimal.Zero
	for _, t := range l.Transactions {
		if t.Kind == entity.KindExpense {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// TotalFlexiAdditions suma todas las recargas flexi, pagadas o no.
func (l Ledger) TotalFlexiAdditions() decimal.Decimal {
	total := decimal.Zero
	for _, f := range l.Flexi {
		total = total.Add(f.Amount)
	}
	return total
}

// TotalFlexiPaid suma solo las recargas flexi saldadas en efectivo desde el
// cajón (IsPaid). Es la porción que reduce el efectivo teórico.
func (l Ledger) TotalFlexiPaid() decimal.Decimal {
	total := decimal.Zero
	for _, f := range l.Flexi {
		if f.IsPaid {
			total = total.Add(f.Amount)
		}
	}
	return total
}

// TheoreticalCash es el efectivo que el cajón debería contener:
// saldo inicial − gastos − flexi pagado en efectivo.
func (l Ledger) TheoreticalCash() decimal.Decimal {
	return l.Session.StartBalance.Sub(l.TotalExpense()).Sub(l.TotalFlexiPaid())
}

// NetCashDifference es el contado menos el teórico. Positivo ⇒ sobrante,
// negativo ⇒ faltante. Mientras la sesión no tenga saldo contado es cero.
func (l Ledger) NetCashDifference() decimal.Decimal {
	if l.Session.EndBalance == nil {
		return decimal.Zero
	}
	return l.Session.EndBalance.Sub(l.TheoreticalCash())
}

// TheoreticalFlexi es el saldo flexi esperado: inicial + todas las recargas.
func (l Ledger) TheoreticalFlexi() decimal.Decimal {
	return l.Session.StartFlexi.Add(l.TotalFlexiAdditions())
}

// FlexiConsumed es el crédito flexi gastado durante el turno:
// teórico − contado. Cero mientras no haya saldo flexi contado.
func (l Ledger) FlexiConsumed() decimal.Decimal {
	if l.Session.EndFlexi == nil {
		return decimal.Zero
	}
	return l.TheoreticalFlexi().Sub(*l.Session.EndFlexi)
}

// GrossIncome es el ingreso bruto de efectivo (contado − inicial). Cero
// mientras la sesión sigue abierta.
func (l Ledger) GrossIncome() decimal.Decimal {
	if l.Session.EndBalance == nil {
		return decimal.Zero
	}
	return l.Session.EndBalance.Sub(l.Session.StartBalance)
}

// NetProfit combina el resultado de caja con el margen flexi en una sola
// cifra: (contado − inicial − gastos) + (recargas − flexi consumido).
// Solo es significativo una vez cerrada la sesión.
func (l Ledger) NetProfit() decimal.Decimal {
	cash := l.GrossIncome().Sub(l.TotalExpense())
	flexi := l.TotalFlexiAdditions().Sub(l.FlexiConsumed())
	return cash.Add(flexi)
}

// Reconcile calcula el arqueo completo de la sesión.
func (l Ledger) Reconcile() Reconciliation {
	return Reconciliation{
		TotalExpense:        l.TotalExpense(),
		TotalFlexiAdditions: l.TotalFlexiAdditions(),
		TotalFlexiPaid:      l.TotalFlexiPaid(),
		TheoreticalCash:     l.TheoreticalCash(),
		NetCashDifference:   l.NetCashDifference(),
		TheoreticalFlexi:    l.TheoreticalFlexi(),
		FlexiConsumed:       l.FlexiConsumed(),
		GrossIncome:         l.GrossIncome(),
		NetProfit:           l.NetProfit(),
	}
}

// Round redondea todos los valores a 2 decimales (borde de presentación).
// El cálculo interno conserva la precisión completa.
func (r Reconciliation) Round() Reconciliation {
	return Reconciliation{
		TotalExpense:        r.TotalExpense.Round(2),
		TotalFlexiAdditions: r.TotalFlexiAdditions.Round(2),
		TotalFlexiPaid:      r.TotalFlexiPaid.Round(2),
		TheoreticalCash:     r.TheoreticalCash.Round(2),
		NetCashDifference:   r.NetCashDifference.Round(2),
		TheoreticalFlexi:    r.TheoreticalFlexi.Round(2),
		FlexiConsumed:       r.FlexiConsumed.Round(2),
		GrossIncome:         r.GrossIncome.Round(2),
		NetProfit:           r.NetProfit.Round(2),
	}
}

// SortedTransactions devuelve los movimientos ordenados por fecha descendente
// (orden de presentación; el orden de inserción no es significativo).
func (l Ledger) SortedTransactions() []entity.Transaction {
	out := make([]entity.Transaction, len(l.Transactions))
	copy(out, l.Transactions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

// SortedFlexi devuelve las recargas flexi ordenadas por fecha descendente.
func (l Ledger) SortedFlexi() []entity.FlexiTransaction {
	out := make([]entity.FlexiTransaction, len(l.Flexi))
	copy(out, l.Flexi)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}
