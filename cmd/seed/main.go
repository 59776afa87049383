// Seeds an admin account. Moderation endpoints require an admin user and
// there is no in-band way to create the first one.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/famcare/chat-service/config"
	"github.com/famcare/chat-service/internal/domain/entity"
	"github.com/famcare/chat-service/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := envOr("SEED_ADMIN_EMAIL", "admin@famcare.local")
	name := envOr("SEED_ADMIN_NAME", "Administrator")
	password := envOr("SEED_ADMIN_PASSWORD", "changeme-now")

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash, role, is_admin)
		VALUES ($1, $2, $3, $4, true)
		ON CONFLICT (email) DO UPDATE SET is_admin = true
		RETURNING id
	`, name, email, hash, entity.RoleDoctor).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s\n", id, email)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
