package dto

import "github.com/shopspring/decimal"

// ReportRequest filtros del reporte agregado. Fechas en formato 2006-01-02;
// vacías = sin acotar.
type ReportRequest struct {
	UserID    string `query:"user_id"`
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// PeriodDTO período efectivo del reporte (vacío si no se acotó).
type PeriodDTO struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// SessionSummaryDTO fila por sesión del reporte: todos los derivados del
// arqueo más fechas y duración formateadas para presentación.
type SessionSummaryDTO struct {
	SessionID         string          `json:"session_id"`
	UserID            string          `json:"user_id"`
	Username          string          `json:"username"`
	Status            string          `json:"status"`
	StartTime         string          `json:"start_time"`
	EndTime           string          `json:"end_time,omitempty"`
	Duration          string          `json:"duration"`
	StartBalance      decimal.Decimal `json:"start_balance"`
	EndBalance        decimal.Decimal `json:"end_balance"`
	TotalExpense      decimal.Decimal `json:"total_expense"`
	TheoreticalCash   decimal.Decimal `json:"theoretical_cash"`
	NetCashDifference decimal.Decimal `json:"net_cash_difference"`
	TheoreticalFlexi  decimal.Decimal `json:"theoretical_flexi"`
	FlexiConsumed     decimal.Decimal `json:"flexi_consumed"`
	NetProfit         decimal.Decimal `json:"net_profit"`
}

// OwnerRollupDTO acumulado por dueño de sesión.
type OwnerRollupDTO struct {
	UserID            string          `json:"user_id"`
	Username          string          `json:"username"`
	SessionCount      int             `json:"session_count"`
	OpenSessions      int             `json:"open_sessions"`
	NetDifferenceSum  decimal.Decimal `json:"net_difference_sum"` // solo sesiones cerradas
	CumulativeProfit  decimal.Decimal `json:"cumulative_profit"`
	LastActivity      string          `json:"last_activity"` // max(cierre o apertura)
}

// TrendPointDTO punto diario de la serie ingreso/gasto para gráficas.
type TrendPointDTO struct {
	Date    string          `json:"date"` // 2006-01-02 de la apertura
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// ReportTotalsDTO totales globales del reporte.
type ReportTotalsDTO struct {
	TotalSessions int             `json:"total_sessions"`
	OpenSessions  int             `json:"open_sessions"`
	TotalExpense  decimal.Decimal `json:"total_expense"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	AverageProfit decimal.Decimal `json:"average_profit"` // 0 si no hay sesiones
}

// AggregateReportDTO reporte completo consumido por los dashboards.
type AggregateReportDTO struct {
	Period       PeriodDTO           `json:"period"`
	Totals       ReportTotalsDTO     `json:"totals"`
	Sessions     []SessionSummaryDTO `json:"sessions"`
	Owners       []OwnerRollupDTO    `json:"owners"`
	TopPerformer *OwnerRollupDTO     `json:"top_performer,omitempty"`
	Trend        []TrendPointDTO     `json:"trend"`
}
