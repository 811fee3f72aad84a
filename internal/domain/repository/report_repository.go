package repository

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/ledger"
)

// ReportRepository es el puerto de solo lectura del reporte agregado.
// Sus consultas pueden correr concurrentes con escrituras no relacionadas;
// no requieren aislamiento mayor a read-committed.
type ReportRepository interface {
	// ListLedgers carga las sesiones del filtro como instantáneas completas
	// (sesión + movimientos + recargas flexi), ordenadas por apertura
	// descendente, listas para la calculadora de arqueo.
	ListLedgers(ctx context.Context, filter SessionFilter) ([]ledger.Ledger, error)
	// Usernames devuelve el mapa id → username de todos los usuarios.
	Usernames(ctx context.Context) (map[string]string, error)
}
