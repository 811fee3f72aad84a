package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

// SchemaVersion es la versión de esquema que esta build requiere. Un esquema
// en versión menor se migra paso a paso al arrancar; uno en esta versión no se
// toca.
const SchemaVersion = 4

// Credencial inicial del administrador sembrado en una base vacía. Debe
// cambiarse tras el primer login.
const (
	seedAdminUsername = "admin"
	seedAdminPassword = "admin"
)

// Beginner es el subconjunto del pool que necesita el runner de migraciones.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// MigrationRunner lleva el esquema de la base a SchemaVersion al arrancar.
// Toda la migración (detección, pasos y sello de versión) corre dentro de una
// única transacción: o el esquema queda completo en la versión nueva, o queda
// intacto en la anterior.
type MigrationRunner struct {
	db  Beginner
	log *logger.Logger
}

// NewMigrationRunner construye el runner de migraciones.
func NewMigrationRunner(db Beginner, log *logger.Logger) *MigrationRunner {
	return &MigrationRunner{db: db, log: log}
}

// Run detecta la versión del esquema y aplica lo que falte. Los fallos se
// envuelven en domain.ErrMigration; el llamador decide si son fatales.
func (m *MigrationRunner) Run(ctx context.Context) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrMigration, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	version, err := detectVersion(ctx, tx)
	if err != nil {
		return fmt.Errorf("%w: detectar versión: %v", domain.ErrMigration, err)
	}
	if version > SchemaVersion {
		return fmt.Errorf("%w: el esquema está en versión %d, esta build solo conoce hasta %d",
			domain.ErrMigration, version, SchemaVersion)
	}
	if version == SchemaVersion {
		m.log.Debug().Int("version", version).Msg("esquema al día")
		return nil
	}

	m.log.Info().Int("from", version).Int("to", SchemaVersion).Msg("migrando esquema")

	if version == 0 {
		if err := initSchema(ctx, tx); err != nil {
			return fmt.Errorf("%w: inicializar esquema: %v", domain.ErrMigration, err)
		}
	} else {
		if err := runSteps(ctx, tx, version); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrMigration, err)
		}
	}
	if err := setVersion(ctx, tx, SchemaVersion); err != nil {
		return fmt.Errorf("%w: sellar versión: %v", domain.ErrMigration, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrMigration, err)
	}
	m.log.Info().Int("version", SchemaVersion).Msg("esquema migrado")
	return nil
}

// detectVersion clasifica el estado del esquema:
// sin tabla users ⇒ 0 (base vacía); con users pero sin schema_version ⇒ 1
// (instalación anterior al versionado); si no, la versión almacenada.
func detectVersion(ctx context.Context, q Querier) (int, error) {
	hasUsers, err := tableExists(ctx, q, "users")
	if err != nil {
		return 0, err
	}
	if !hasUsers {
		return 0, nil
	}
	hasVersion, err := tableExists(ctx, q, "schema_version")
	if err != nil {
		return 0, err
	}
	if !hasVersion {
		return 1, nil
	}
	var version int
	err = q.QueryRow(ctx, `SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 1, nil
		}
		return 0, err
	}
	return version, nil
}

// initSchema crea el esquema completo en su versión actual y siembra el
// administrador inicial. Solo corre sobre una base vacía.
func initSchema(ctx context.Context, q Querier) error {
	ddl := []string{
		`CREATE TABLE users (
			id              UUID PRIMARY KEY,
			username        TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL,
			role            TEXT NOT NULL CHECK (role IN ('admin', 'user')),
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE cash_sessions (
			id            UUID PRIMARY KEY,
			user_id       UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			start_time    TIMESTAMPTZ NOT NULL,
			end_time      TIMESTAMPTZ,
			start_balance NUMERIC(14,2) NOT NULL CHECK (start_balance >= 0),
			end_balance   NUMERIC(14,2),
			status        TEXT NOT NULL CHECK (status IN ('open', 'closed')),
			notes         TEXT NOT NULL DEFAULT '',
			start_flexi   NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (start_flexi >= 0),
			end_flexi     NUMERIC(14,2)
		)`,
		// Una sola sesión abierta por cajero, garantizada por la base y no
		// solo por la verificación de la capa de aplicación.
		`CREATE UNIQUE INDEX cash_sessions_one_open_per_user
			ON cash_sessions (user_id) WHERE status = 'open'`,
		`CREATE INDEX cash_sessions_start_time_idx ON cash_sessions (start_time)`,
		`CREATE TABLE transactions (
			id          UUID PRIMARY KEY,
			session_id  UUID NOT NULL REFERENCES cash_sessions(id) ON DELETE CASCADE,
			type        TEXT NOT NULL CHECK (type IN ('income', 'expense')),
			amount      NUMERIC(14,2) NOT NULL CHECK (amount > 0),
			description TEXT NOT NULL DEFAULT '',
			timestamp   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX transactions_session_idx ON transactions (session_id)`,
		`CREATE TABLE flexi_transactions (
			id          UUID PRIMARY KEY,
			session_id  UUID NOT NULL REFERENCES cash_sessions(id) ON DELETE CASCADE,
			user_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			amount      NUMERIC(14,2) NOT NULL CHECK (amount > 0),
			description TEXT NOT NULL DEFAULT '',
			timestamp   TIMESTAMPTZ NOT NULL DEFAULT now(),
			is_paid     BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX flexi_transactions_session_idx ON flexi_transactions (session_id)`,
		`CREATE TABLE schema_version (
			version INTEGER NOT NULL
		)`,
	}
	for _, stmt := range ddl {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("crear esquema: %w", err)
		}
	}
	return seedAdmin(ctx, q)
}

// seedAdmin siembra el administrador inicial si no existe.
func seedAdmin(ctx context.Context, q Querier) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash de admin inicial: %w", err)
	}
	_, err = q.Exec(ctx, `
		INSERT INTO users (id, username, hashed_password, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO NOTHING`,
		uuid.New().String(), seedAdminUsername, string(hash), entity.RoleAdmin, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("sembrar admin inicial: %w", err)
	}
	return nil
}

// migrationStep lleva el esquema de version−1 a version. Los pasos son
// idempotentes: verifican en information_schema antes de alterar, de modo que
// una instalación a medio camino puede reintentarse.
type migrationStep struct {
	version int
	name    string
	apply   func(ctx context.Context, q Querier) error
}

var migrationSteps = []migrationStep{
	{version: 2, name: "notas de sesión", apply: stepSessionNotes},
	{version: 3, name: "saldos y recargas flexi", apply: stepFlexi},
	{version: 4, name: "marca de pago en flexi", apply: stepFlexiIsPaid},
}

// runSteps aplica en orden los pasos posteriores a from.
func runSteps(ctx context.Context, q Querier, from int) error {
	for _, s := range migrationSteps {
		if s.version <= from {
			continue
		}
		if err := s.apply(ctx, q); err != nil {
			return fmt.Errorf("paso v%d (%s): %w", s.version, s.name, err)
		}
	}
	return nil
}

func stepSessionNotes(ctx context.Context, q Querier) error {
	return addColumnIfMissing(ctx, q, "cash_sessions", "notes", `TEXT NOT NULL DEFAULT ''`)
}

func stepFlexi(ctx context.Context, q Querier) error {
	if err := addColumnIfMissing(ctx, q, "cash_sessions", "start_flexi", `NUMERIC(14,2) NOT NULL DEFAULT 0`); err != nil {
		return err
	}
	if err := addColumnIfMissing(ctx, q, "cash_sessions", "end_flexi", `NUMERIC(14,2)`); err != nil {
		return err
	}
	exists, err := tableExists(ctx, q, "flexi_transactions")
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = q.Exec(ctx, `
		CREATE TABLE flexi_transactions (
			id          UUID PRIMARY KEY,
			session_id  UUID NOT NULL REFERENCES cash_sessions(id) ON DELETE CASCADE,
			user_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			amount      NUMERIC(14,2) NOT NULL CHECK (amount > 0),
			description TEXT NOT NULL DEFAULT '',
			timestamp   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

func stepFlexiIsPaid(ctx context.Context, q Querier) error {
	// Las recargas preexistentes quedan como no pagadas: la marca no se puede
	// reconstruir y el arqueo histórico no debe cambiar.
	return addColumnIfMissing(ctx, q, "flexi_transactions", "is_paid", `BOOLEAN NOT NULL DEFAULT FALSE`)
}

// setVersion deja schema_version con una única fila.
func setVersion(ctx context.Context, q Querier, version int) error {
	exists, err := tableExists(ctx, q, "schema_version")
	if err != nil {
		return err
	}
	if !exists {
		if _, err := q.Exec(ctx, `CREATE TABLE schema_version (version INTEGER NOT NULL)`); err != nil {
			return err
		}
	}
	if _, err := q.Exec(ctx, `DELETE FROM schema_version`); err != nil {
		return err
	}
	_, err = q.Exec(ctx, `INSERT INTO schema_version (version) VALUES ($1)`, version)
	return err
}

func tableExists(ctx context.Context, q Querier, table string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_name = $1
		)`, table).Scan(&exists)
	return exists, err
}

func columnExists(ctx context.Context, q Querier, table, column string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2
		)`, table, column).Scan(&exists)
	return exists, err
}

func addColumnIfMissing(ctx context.Context, q Querier, table, column, definition string) error {
	exists, err := columnExists(ctx, q, table, column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = q.Exec(ctx, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition))
	return err
}
