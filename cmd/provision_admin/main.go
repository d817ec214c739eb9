// provision_admin crea (o confirma) una cuenta de administrador directamente en la base de datos.
// Las credenciales nunca viven en el código: se leen de flags o de ADMIN_EMAIL / ADMIN_PASSWORD / ADMIN_NAME.
//
// Uso: ADMIN_PASSWORD=... go run ./cmd/provision_admin -email admin@finca.co
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jhoicas/farmlink-api/internal/application/auth"
	"github.com/jhoicas/farmlink-api/internal/infrastructure/memory"
	"github.com/jhoicas/farmlink-api/internal/infrastructure/postgres"
	"github.com/jhoicas/farmlink-api/pkg/config"
	"github.com/jhoicas/farmlink-api/pkg/logger"
)

func main() {
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "email del administrador")
	name := flag.String("name", envOr("ADMIN_NAME", "Administrador"), "nombre visible")
	flag.Parse()
	// la contraseña solo por entorno para que no quede en el historial del shell
	password := os.Getenv("ADMIN_PASSWORD")

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if *email == "" || password == "" {
		log.Fatal().Msg("se requieren -email (o ADMIN_EMAIL) y ADMIN_PASSWORD")
	}
	if cfg.App.StorageBackend != config.StoragePostgres {
		log.Fatal().Str("storage", cfg.App.StorageBackend).Msg("provision_admin solo aplica al backend postgres")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	// la revocación no se usa aquí; el caso de uso solo necesita el repositorio de usuarios
	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), memory.NewRevocationStore(), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	user, created, err := authUC.ProvisionAdmin(ctx, *email, password, *name)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo crear el administrador")
	}
	if created {
		log.Info().Str("id", user.ID).Str("email", user.Email).Msg("administrador creado")
		return
	}
	log.Info().Str("id", user.ID).Str("email", user.Email).Msg("el administrador ya existía, sin cambios")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
