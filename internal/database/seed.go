package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a staff user
// and a few categories and tags to write against. It is a no-op when users
// already exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, first_name, last_name, is_staff)
		VALUES ($1, $2, $3, $4, TRUE)
	`, "admin@inkwell.local", string(hash), "Admin", "User")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	seedNamed := map[string][]string{
		"categories": {"News", "Engineering"},
		"tags":       {"go", "postgres", "web"},
	}
	for table, names := range seedNamed {
		for _, name := range names {
			slugged := slugify(name)
			if _, err := db.Exec(
				// Table names come from the fixed map above, never from input.
				fmt.Sprintf("INSERT INTO %s (name, slug) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING", table),
				name, slugged,
			); err != nil {
				return fmt.Errorf("seed insert %s %q: %w", table, name, err)
			}
		}
	}

	slog.Info("database seeded with default development data",
		"email", "admin@inkwell.local",
		"password", "admin",
	)

	return nil
}

// slugify is a minimal lowercase transform for the fixed seed names; real
// slug assignment lives in the slug package.
func slugify(name string) string {
	b := []byte(name)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
