package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
)

// ensureDatabase creates the target database if it does not exist yet, using
// an admin connection to the postgres maintenance database.
func ensureDatabase(databaseURL string) error {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}
	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return errors.New("database name missing from url")
	}

	u.Path = "/postgres"
	admin, err := sql.Open("postgres", u.String())
	if err != nil {
		return fmt.Errorf("open admin connection: %w", err)
	}
	defer admin.Close()
	if err := admin.Ping(); err != nil {
		return fmt.Errorf("ping admin connection: %w", err)
	}

	var exists bool
	err = admin.QueryRow("SELECT true FROM pg_database WHERE datname = $1", name).Scan(&exists)
	switch {
	case err == sql.ErrNoRows:
		// fall through to create
	case err != nil:
		return fmt.Errorf("check database %q: %w", name, err)
	case exists:
		return nil
	}

	if _, err := admin.Exec("CREATE DATABASE " + pq.QuoteIdentifier(name)); err != nil {
		return fmt.Errorf("create database %q: %w", name, err)
	}
	log.Printf("database: created %q", name)
	return nil
}

// migrationsDir finds the SQL migrations relative to the working directory,
// so both `complaint-service migrate up` from the repo root and tests run
// from a package dir resolve it.
func migrationsDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for _, d := range []string{
		filepath.Join(cwd, "database", "migrations"),
		filepath.Join(cwd, "..", "database", "migrations"),
		filepath.Join(cwd, "..", "..", "database", "migrations"),
	} {
		if _, err := os.Stat(d); err == nil {
			return filepath.Abs(d)
		}
	}
	return "", errors.New("database/migrations directory not found")
}

// MigrateUp creates the database if needed and applies all pending
// migrations.
func MigrateUp(databaseURL string) error {
	if err := ensureDatabase(databaseURL); err != nil {
		return fmt.Errorf("ensure database: %w", err)
	}
	dir, err := migrationsDir()
	if err != nil {
		return err
	}
	m, err := migrate.New("file://"+filepath.ToSlash(dir), databaseURL)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("migrate: no pending migrations")
			return nil
		}
		return err
	}
	log.Println("migrate: applied pending migrations")
	return nil
}
