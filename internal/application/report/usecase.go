package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/ledger"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// UseCase reporte agregado sobre el histórico de sesiones: totales globales,
// acumulados por cajero y serie diaria de ingreso/gasto.
type UseCase struct {
	reports repository.ReportRepository
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(reports repository.ReportRepository) *UseCase {
	return &UseCase{reports: reports}
}

// Summarize arma el reporte agregado para el filtro dado. Las fechas vacías no
// acotan; una fecha mal formada devuelve ErrValidation.
func (uc *UseCase) Summarize(ctx context.Context, req dto.ReportRequest) (*dto.AggregateReportDTO, error) {
	filter, period, err := parseFilter(req)
	if err != nil {
		return nil, err
	}

	ledgers, err := uc.reports.ListLedgers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("cargar sesiones del reporte: %w", err)
	}
	usernames, err := uc.reports.Usernames(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar nombres de usuario: %w", err)
	}

	out := &dto.AggregateReportDTO{
		Period:   period,
		Sessions: make([]dto.SessionSummaryDTO, 0, len(ledgers)),
		Owners:   []dto.OwnerRollupDTO{},
		Trend:    []dto.TrendPointDTO{},
	}

	ownerIdx := map[string]int{} // user_id → posición en Owners, orden de primera aparición
	trendIdx := map[string]int{}

	for _, l := range ledgers {
		name := usernames[l.Session.UserID]
		out.Sessions = append(out.Sessions, summarize(l, name))

		closed := !l.Session.IsOpen()
		profit := l.NetProfit().Round(2)

		// Totales globales.
		out.Totals.TotalSessions++
		if !closed {
			out.Totals.OpenSessions++
		}
		out.Totals.TotalExpense = out.Totals.TotalExpense.Add(l.TotalExpense())
		out.Totals.NetProfit = out.Totals.NetProfit.Add(profit)

		// Acumulado por dueño.
		idx, ok := ownerIdx[l.Session.UserID]
		if !ok {
			idx = len(out.Owners)
			ownerIdx[l.Session.UserID] = idx
			out.Owners = append(out.Owners, dto.OwnerRollupDTO{
				UserID:   l.Session.UserID,
				Username: name,
			})
		}
		owner := &out.Owners[idx]
		owner.SessionCount++
		if closed {
			owner.NetDifferenceSum = owner.NetDifferenceSum.Add(l.NetCashDifference().Round(2))
		} else {
			owner.OpenSessions++
		}
		owner.CumulativeProfit = owner.CumulativeProfit.Add(profit)
		if last := lastActivity(l.Session); last.Format(dateTimeLayout) > owner.LastActivity {
			owner.LastActivity = last.Format(dateTimeLayout)
		}

		// Serie diaria, anclada al día de apertura.
		day := l.Session.StartTime.Format(dateLayout)
		ti, ok := trendIdx[day]
		if !ok {
			ti = len(out.Trend)
			trendIdx[day] = ti
			out.Trend = append(out.Trend, dto.TrendPointDTO{Date: day})
		}
		point := &out.Trend[ti]
		if closed {
			point.Income = point.Income.Add(l.GrossIncome().Round(2))
		}
		point.Expense = point.Expense.Add(l.TotalExpense().Round(2))
	}

	out.Totals.TotalExpense = out.Totals.TotalExpense.Round(2)
	if out.Totals.TotalSessions > 0 {
		out.Totals.AverageProfit = out.Totals.NetProfit.
			Div(decimal.NewFromInt(int64(out.Totals.TotalSessions))).Round(2)
	}

	sort.Slice(out.Trend, func(i, j int) bool { return out.Trend[i].Date < out.Trend[j].Date })
	out.TopPerformer = topPerformer(out.Owners)

	return out, nil
}

func parseFilter(req dto.ReportRequest) (repository.SessionFilter, dto.PeriodDTO, error) {
	filter := repository.SessionFilter{UserID: req.UserID}
	period := dto.PeriodDTO{StartDate: req.StartDate, EndDate: req.EndDate}

	if req.StartDate != "" {
		from, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return filter, period, fmt.Errorf("%w: start_date inválida %q", domain.ErrValidation, req.StartDate)
		}
		filter.From = &from
	}
	if req.EndDate != "" {
		to, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return filter, period, fmt.Errorf("%w: end_date inválida %q", domain.ErrValidation, req.EndDate)
		}
		// Límite superior inclusivo: todo el día indicado.
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return filter, period, fmt.Errorf("%w: start_date posterior a end_date", domain.ErrValidation)
	}
	return filter, period, nil
}

func summarize(l ledger.Ledger, username string) dto.SessionSummaryDTO {
	s := l.Session
	row := dto.SessionSummaryDTO{
		SessionID:         s.ID,
		UserID:            s.UserID,
		Username:          username,
		Status:            s.Status,
		StartTime:         s.StartTime.Format(dateTimeLayout),
		StartBalance:      s.StartBalance.Round(2),
		TotalExpense:      l.TotalExpense().Round(2),
		TheoreticalCash:   l.TheoreticalCash().Round(2),
		NetCashDifference: l.NetCashDifference().Round(2),
		TheoreticalFlexi:  l.TheoreticalFlexi().Round(2),
		FlexiConsumed:     l.FlexiConsumed().Round(2),
		NetProfit:         l.NetProfit().Round(2),
	}
	if s.EndBalance != nil {
		row.EndBalance = s.EndBalance.Round(2)
	}
	end := time.Now()
	if s.EndTime != nil {
		row.EndTime = s.EndTime.Format(dateTimeLayout)
		end = *s.EndTime
	}
	row.Duration = formatDuration(end.Sub(s.StartTime))
	return row
}

// lastActivity el instante más reciente de la sesión: cierre si existe,
// apertura en caso contrario.
func lastActivity(s entity.CashSession) time.Time {
	if s.EndTime != nil {
		return *s.EndTime
	}
	return s.StartTime
}

// topPerformer el dueño con mayor utilidad acumulada; nil si no hay sesiones.
// El empate lo gana el primero en aparecer (comparación estricta).
func topPerformer(owners []dto.OwnerRollupDTO) *dto.OwnerRollupDTO {
	if len(owners) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(owners); i++ {
		if owners[i].CumulativeProfit.GreaterThan(owners[best].CumulativeProfit) {
			best = i
		}
	}
	cp := owners[best]
	return &cp
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %02dm", h, m)
}
