package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/report"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/ledger"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

type fakeReports struct {
	ledgers    []ledger.Ledger
	usernames  map[string]string
	lastFilter repository.SessionFilter
}

func (f *fakeReports) ListLedgers(_ context.Context, filter repository.SessionFilter) ([]ledger.Ledger, error) {
	f.lastFilter = filter
	return f.ledgers, nil
}

func (f *fakeReports) Usernames(_ context.Context) (map[string]string, error) {
	return f.usernames, nil
}

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

func closedLedger(id, userID string, day time.Time, start, end, expense string) ledger.Ledger {
	endTime := day.Add(8 * time.Hour)
	l := ledger.Ledger{
		Session: entity.CashSession{
			ID:           id,
			UserID:       userID,
			StartTime:    day,
			EndTime:      &endTime,
			StartBalance: dec(start),
			EndBalance:   decPtr(end),
			Status:       entity.SessionClosed,
			StartFlexi:   decimal.Zero,
			EndFlexi:     decPtr("0"),
		},
	}
	if expense != "0" {
		l.Transactions = []entity.Transaction{{
			ID: id + "-t1", SessionID: id, Kind: entity.KindExpense,
			Amount: dec(expense), Timestamp: day.Add(time.Hour),
		}}
	}
	return l
}

func openLedger(id, userID string, day time.Time, start string) ledger.Ledger {
	return ledger.Ledger{
		Session: entity.CashSession{
			ID:           id,
			UserID:       userID,
			StartTime:    day,
			StartBalance: dec(start),
			Status:       entity.SessionOpen,
			StartFlexi:   decimal.Zero,
		},
	}
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d.Add(9 * time.Hour)
}

func TestSummarize_TotalesGlobales(t *testing.T) {
	repo := &fakeReports{
		ledgers: []ledger.Ledger{
			closedLedger("s1", "u1", day("2026-08-01"), "1000", "1400", "100"), // utilidad 300
			closedLedger("s2", "u2", day("2026-08-02"), "1000", "1100", "0"),   // utilidad 100
			openLedger("s3", "u1", day("2026-08-03"), "1000"),
		},
		usernames: map[string]string{"u1": "ana", "u2": "beto"},
	}
	uc := report.NewUseCase(repo)

	out, err := uc.Summarize(context.Background(), dto.ReportRequest{})
	require.NoError(t, err)

	assert.Equal(t, 3, out.Totals.TotalSessions)
	assert.Equal(t, 1, out.Totals.OpenSessions)
	assert.True(t, dec("100.00").Equal(out.Totals.TotalExpense))
	assert.True(t, dec("400.00").Equal(out.Totals.NetProfit))
	assert.True(t, dec("133.33").Equal(out.Totals.AverageProfit), "got %s", out.Totals.AverageProfit)
	assert.Len(t, out.Sessions, 3)
}

func TestSummarize_SinSesiones(t *testing.T) {
	uc := report.NewUseCase(&fakeReports{usernames: map[string]string{}})

	out, err := uc.Summarize(context.Background(), dto.ReportRequest{})
	require.NoError(t, err)

	assert.Zero(t, out.Totals.TotalSessions)
	assert.True(t, out.Totals.AverageProfit.IsZero(), "el promedio de cero sesiones es cero, no una división")
	assert.Nil(t, out.TopPerformer)
	assert.Empty(t, out.Sessions)
	assert.Empty(t, out.Owners)
	assert.Empty(t, out.Trend)
}

func TestSummarize_AcumuladoPorCajero(t *testing.T) {
	repo := &fakeReports{
		ledgers: []ledger.Ledger{
			closedLedger("s1", "u1", day("2026-08-01"), "1000", "1300", "0"), // +300
			closedLedger("s2", "u1", day("2026-08-02"), "1000", "1050", "0"), // +50
			closedLedger("s3", "u2", day("2026-08-02"), "1000", "1200", "0"), // +200
			openLedger("s4", "u2", day("2026-08-03"), "1000"),
		},
		usernames: map[string]string{"u1": "ana", "u2": "beto"},
	}
	uc := report.NewUseCase(repo)

	out, err := uc.Summarize(context.Background(), dto.ReportRequest{})
	require.NoError(t, err)

	require.Len(t, out.Owners, 2)
	ana, beto := out.Owners[0], out.Owners[1]
	assert.Equal(t, "ana", ana.Username, "orden de primera aparición")
	assert.Equal(t, 2, ana.SessionCount)
	assert.Zero(t, ana.OpenSessions)
	assert.True(t, dec("350.00").Equal(ana.CumulativeProfit))
	assert.Equal(t, 2, beto.SessionCount)
	assert.Equal(t, 1, beto.OpenSessions)
	assert.True(t, dec("200.00").Equal(beto.CumulativeProfit))
	assert.Equal(t, "2026-08-03 09:00", beto.LastActivity, "la apertura cuenta como actividad")

	require.NotNil(t, out.TopPerformer)
	assert.Equal(t, "u1", out.TopPerformer.UserID)
}

func TestSummarize_EmpateDeUtilidadGanaElPrimero(t *testing.T) {
	repo := &fakeReports{
		ledgers: []ledger.Ledger{
			closedLedger("s1", "u1", day("2026-08-01"), "1000", "1100", "0"),
			closedLedger("s2", "u2", day("2026-08-01"), "1000", "1100", "0"),
		},
		usernames: map[string]string{"u1": "ana", "u2": "beto"},
	}
	uc := report.NewUseCase(repo)

	out, err := uc.Summarize(context.Background(), dto.ReportRequest{})
	require.NoError(t, err)
	require.NotNil(t, out.TopPerformer)
	assert.Equal(t, "u1", out.TopPerformer.UserID)
}

func TestSummarize_SerieDiaria(t *testing.T) {
	repo := &fakeReports{
		ledgers: []ledger.Ledger{
			closedLedger("s2", "u1", day("2026-08-02"), "1000", "1500", "50"),
			closedLedger("s1", "u1", day("2026-08-01"), "1000", "1200", "100"),
			openLedger("s3", "u1", day("2026-08-02"), "1000"),
		},
		usernames: map[string]string{"u1": "ana"},
	}
	uc := report.NewUseCase(repo)

	out, err := uc.Summarize(context.Background(), dto.ReportRequest{})
	require.NoError(t, err)

	require.Len(t, out.Trend, 2)
	assert.Equal(t, "2026-08-01", out.Trend[0].Date, "serie ordenada por fecha ascendente")
	assert.True(t, dec("200.00").Equal(out.Trend[0].Income))
	assert.True(t, dec("100.00").Equal(out.Trend[0].Expense))
	assert.True(t, dec("500.00").Equal(out.Trend[1].Income), "la sesión abierta no aporta ingreso")
}

func TestSummarize_FiltroDeFechas(t *testing.T) {
	repo := &fakeReports{usernames: map[string]string{}}
	uc := report.NewUseCase(repo)

	_, err := uc.Summarize(context.Background(), dto.ReportRequest{
		UserID: "u1", StartDate: "2026-08-01", EndDate: "2026-08-15",
	})
	require.NoError(t, err)

	assert.Equal(t, "u1", repo.lastFilter.UserID)
	require.NotNil(t, repo.lastFilter.From)
	require.NotNil(t, repo.lastFilter.To)
	assert.True(t, repo.lastFilter.To.After(*repo.lastFilter.From))
	// El límite superior cubre el día completo.
	assert.Equal(t, "2026-08-15", repo.lastFilter.To.Format("2006-01-02"))
}

func TestSummarize_FechasInvalidas(t *testing.T) {
	uc := report.NewUseCase(&fakeReports{})

	_, err := uc.Summarize(context.Background(), dto.ReportRequest{StartDate: "01/08/2026"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Summarize(context.Background(), dto.ReportRequest{
		StartDate: "2026-08-15", EndDate: "2026-08-01",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSummarize_FilaConDiferenciaDeCaja(t *testing.T) {
	l := closedLedger("s1", "u1", day("2026-08-01"), "1600", "1450", "120")
	repo := &fakeReports{ledgers: []ledger.Ledger{l}, usernames: map[string]string{"u1": "ana"}}
	uc := report.NewUseCase(repo)

	out, err := uc.Summarize(context.Background(), dto.ReportRequest{})
	require.NoError(t, err)

	require.Len(t, out.Sessions, 1)
	row := out.Sessions[0]
	assert.Equal(t, "ana", row.Username)
	assert.True(t, dec("1480.00").Equal(row.TheoreticalCash))
	assert.True(t, dec("-30.00").Equal(row.NetCashDifference), "faltante de 30")
	assert.Equal(t, "8h 00m", row.Duration)
}
