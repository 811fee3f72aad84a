package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func openSession(start, startFlexi string) entity.CashSession {
	return entity.CashSession{
		ID:           "s1",
		UserID:       "u1",
		StartTime:    time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC),
		StartBalance: dec(start),
		StartFlexi:   dec(startFlexi),
		Status:       entity.SessionOpen,
	}
}

func closedSession(start, startFlexi, end, endFlexi string) entity.CashSession {
	s := openSession(start, startFlexi)
	endTime := s.StartTime.Add(8 * time.Hour)
	s.Status = entity.SessionClosed
	s.EndTime = &endTime
	s.EndBalance = decPtr(end)
	s.EndFlexi = decPtr(endFlexi)
	return s
}

func expense(amount string, at time.Time) entity.Transaction {
	return entity.Transaction{
		ID: "t-" + amount, SessionID: "s1", Kind: entity.KindExpense,
		Amount: dec(amount), Timestamp: at,
	}
}

func flexi(amount string, paid bool) entity.FlexiTransaction {
	return entity.FlexiTransaction{
		ID: "f-" + amount, SessionID: "s1", UserID: "u1",
		Amount: dec(amount), IsPaid: paid,
		Timestamp: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func assertDecEqual(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: esperado %s, obtenido %s", msg, want, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios del arqueo
// ──────────────────────────────────────────────────────────────────────────────

// Escenario A: 1600 inicial, un gasto de 200, cierre con 1400 contados ⇒ sin diferencia.
func TestReconcile_GastoSimpleSinDiferencia(t *testing.T) {
	l := ledger.Ledger{
		Session:      closedSession("1600.00", "0", "1400.00", "0"),
		Transactions: []entity.Transaction{expense("200.00", time.Now())},
	}

	r := l.Reconcile()
	assertDecEqual(t, "200.00", r.TotalExpense, "total de gastos")
	assertDecEqual(t, "1400.00", r.TheoreticalCash, "efectivo teórico")
	assertDecEqual(t, "0.00", r.NetCashDifference, "diferencia neta")
}

// Escenario B: recarga flexi de 500 pagada en efectivo; los saldos contados
// coinciden exactamente con los teóricos.
func TestReconcile_FlexiPagadoCuadraExacto(t *testing.T) {
	l := ledger.Ledger{
		Session: closedSession("1600.00", "1000.00", "1100.00", "1500.00"),
		Flexi:   []entity.FlexiTransaction{flexi("500.00", true)},
	}

	r := l.Reconcile()
	assertDecEqual(t, "1100.00", r.TheoreticalCash, "efectivo teórico (1600 − 0 − 500)")
	assertDecEqual(t, "0.00", r.NetCashDifference, "diferencia neta")
	assertDecEqual(t, "1500.00", r.TheoreticalFlexi, "flexi teórico (1000 + 500)")
	assertDecEqual(t, "0.00", r.FlexiConsumed, "flexi consumido")
}

// Escenario C: igual que B pero con 1200 de flexi contado ⇒ 300 consumidos.
func TestReconcile_FlexiConsumido(t *testing.T) {
	l := ledger.Ledger{
		Session: closedSession("1600.00", "1000.00", "1100.00", "1200.00"),
		Flexi:   []entity.FlexiTransaction{flexi("500.00", true)},
	}

	assertDecEqual(t, "300.00", l.FlexiConsumed(), "flexi consumido (1500 − 1200)")
}

// Una recarga no pagada suma al flexi teórico pero no toca el efectivo.
func TestReconcile_FlexiNoPagadoNoAfectaEfectivo(t *testing.T) {
	l := ledger.Ledger{
		Session: openSession("1000.00", "0"),
		Flexi:   []entity.FlexiTransaction{flexi("300.00", false)},
	}

	assertDecEqual(t, "0.00", l.TotalFlexiPaid(), "flexi pagado")
	assertDecEqual(t, "300.00", l.TotalFlexiAdditions(), "recargas flexi")
	assertDecEqual(t, "1000.00", l.TheoreticalCash(), "efectivo teórico")
}

// Los movimientos de tipo "income" (reservado) nunca cuentan como gasto.
func TestTotalExpense_IgnoraTipoIncome(t *testing.T) {
	income := expense("999.00", time.Now())
	income.Kind = entity.KindIncome
	l := ledger.Ledger{
		Session:      openSession("500.00", "0"),
		Transactions: []entity.Transaction{expense("50.00", time.Now()), income},
	}

	assertDecEqual(t, "50.00", l.TotalExpense(), "solo los expense suman")
}

// Ida y vuelta: si el contado es exactamente el teórico, la diferencia es cero.
func TestReconcile_RoundTripDiferenciaCero(t *testing.T) {
	l := ledger.Ledger{
		Session: openSession("2500.00", "100.00"),
		Transactions: []entity.Transaction{
			expense("120.50", time.Now()),
			expense("79.49", time.Now()),
		},
		Flexi: []entity.FlexiTransaction{flexi("200.01", true), flexi("55.00", false)},
	}
	theoretical := l.TheoreticalCash()
	require.NoError(t, l.Session.Close(theoretical, l.TheoreticalFlexi(), time.Now()))

	assertDecEqual(t, "0.00", l.NetCashDifference(), "diferencia tras cierre exacto")
	assertDecEqual(t, "0.00", l.FlexiConsumed(), "flexi consumido tras cierre exacto")
}

// Mientras la sesión está abierta, los derivados dependientes del contado son cero.
func TestReconcile_SesionAbiertaDerivadosEnCero(t *testing.T) {
	l := ledger.Ledger{
		Session:      openSession("800.00", "50.00"),
		Transactions: []entity.Transaction{expense("100.00", time.Now())},
	}

	r := l.Reconcile()
	assertDecEqual(t, "0.00", r.NetCashDifference, "diferencia con sesión abierta")
	assertDecEqual(t, "0.00", r.FlexiConsumed, "flexi consumido con sesión abierta")
	assertDecEqual(t, "0.00", r.GrossIncome, "ingreso bruto con sesión abierta")
	assertDecEqual(t, "700.00", r.TheoreticalCash, "el teórico sí se calcula en abierto")
}

// Ganancia neta: (contado − inicial − gastos) + (recargas − consumido).
func TestReconcile_GananciaNeta(t *testing.T) {
	l := ledger.Ledger{
		// 1600 → 1450 contados, 100 de gasto: lado efectivo = −250.
		// 1000 flexi + 500 recargados, 1200 contados: consumido 300, lado flexi = +200.
		Session:      closedSession("1600.00", "1000.00", "1450.00", "1200.00"),
		Transactions: []entity.Transaction{expense("100.00", time.Now())},
		Flexi:        []entity.FlexiTransaction{flexi("500.00", true)},
	}

	assertDecEqual(t, "-50.00", l.NetProfit(), "ganancia neta combinada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Transición de estado en la entidad
// ──────────────────────────────────────────────────────────────────────────────

func TestCashSession_CierreUnico(t *testing.T) {
	s := openSession("100.00", "0")
	require.NoError(t, s.Close(dec("90.00"), dec("0"), time.Now()))

	assert.Equal(t, entity.SessionClosed, s.Status)
	require.NotNil(t, s.EndTime)
	require.NotNil(t, s.EndBalance)
	require.NotNil(t, s.EndFlexi)

	err := s.Close(dec("80.00"), dec("0"), time.Now())
	assert.Error(t, err, "el segundo cierre debe rechazarse")
	assertDecEqual(t, "90.00", *s.EndBalance, "el contado original no debe cambiar")
}

func TestSortedTransactions_DescendentePorFecha(t *testing.T) {
	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	l := ledger.Ledger{
		Session: openSession("100.00", "0"),
		Transactions: []entity.Transaction{
			expense("1.00", base),
			expense("2.00", base.Add(2*time.Hour)),
			expense("3.00", base.Add(time.Hour)),
		},
	}

	sorted := l.SortedTransactions()
	require.Len(t, sorted, 3)
	assertDecEqual(t, "2.00", sorted[0].Amount, "el más reciente primero")
	assertDecEqual(t, "3.00", sorted[1].Amount, "orden intermedio")
	assertDecEqual(t, "1.00", sorted[2].Amount, "el más antiguo al final")
	// El ledger original no se reordena
	assertDecEqual(t, "1.00", l.Transactions[0].Amount, "la instantánea no muta")
}
