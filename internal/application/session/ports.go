package session

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/ledger"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la verificación "ya hay sesión
// abierta" y el insert de apertura sean atómicos frente a procesos concurrentes.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		sessions repository.SessionRepository,
		transactions repository.TransactionRepository,
		flexi repository.FlexiRepository,
	) error) error
}

// Reauthenticator verifica la credencial re-ingresada de un administrador
// antes de una operación privilegiada.
type Reauthenticator interface {
	Reauthenticate(ctx context.Context, adminID, password string) error
}

// ReceiptGenerator produce el comprobante de cierre (PDF) de una sesión cerrada.
type ReceiptGenerator interface {
	GenerateCloseReceipt(ctx context.Context, l ledger.Ledger, username string) ([]byte, error)
}
