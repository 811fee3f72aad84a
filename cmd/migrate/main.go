// Comando migrate: lleva el esquema de la base a la versión actual sin
// levantar el servidor HTTP. Útil en despliegues donde la migración corre como
// paso previo al rollout.
package main

import (
	"context"
	"os"

	"github.com/jhoicas/Caja-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Caja-api/pkg/config"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.NewMigrationRunner(pool, log).Run(ctx); err != nil {
		log.Error().Err(err).Msg("migración de esquema")
		os.Exit(1)
	}
	log.Info().Int("version", postgres.SchemaVersion).Msg("esquema en la versión actual")
}
