package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/pulse-backoffice/config"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	"github.com/oksasatya/pulse-backoffice/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/pulse-backoffice/internal/infrastructure/postgres"
	"github.com/oksasatya/pulse-backoffice/pkg/helpers"
)

// seed copies the demo staff and investor accounts into Postgres so
// STORE_DRIVER=postgres starts with the same logins as the mock store.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	hash, err := helpers.HashPassword(cfg.SeedPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	store := memory.NewStore()
	memory.Seed(store, time.Now(), hash)
	users, err := store.Repositories().Users.List(ctx)
	if err != nil {
		log.Fatalf("failed to read seed users: %v", err)
	}

	repo := pginfra.NewUserRepository(pool)
	for i := range users {
		u := users[i]
		err := repo.Create(ctx, &u)
		switch {
		case errors.Is(err, entity.ErrValidation):
			fmt.Printf("exists: %s\n", u.Email)
		case err != nil:
			log.Fatalf("failed to seed %s: %v", u.Email, err)
		default:
			fmt.Printf("seeded user: id=%s email=%s role=%s\n", u.ID, u.Email, u.Role)
		}
	}
	fmt.Printf("password for seeded accounts: %s\n", cfg.SeedPassword)
}
