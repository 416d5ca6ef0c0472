// Command migrate applies the SQL migrations for the admin session store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gpdecorators/site/internal/config"
	"github.com/gpdecorators/site/internal/logging"
	"github.com/gpdecorators/site/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  (default)   apply pending migrations
  status      list migrations and whether they are applied
  down        roll back the most recent migration
  fresh       drop every table, then apply all migrations`)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(logging.Options{Level: cfg.LogLevel, Format: "text"})

	if cfg.DatabaseURL == "" {
		logging.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	dir := findMigrationDir()
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "":
		runUp(ctx, pool, dir)
	case "status":
		runStatus(ctx, pool, dir)
	case "down":
		runDown(ctx, pool, dir)
	case "fresh":
		runDropAll(ctx, pool, dir)
		runUp(ctx, pool, dir)
	default:
		usage()
	}
}

func findMigrationDir() string {
	dir := "migrations"
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dir = "../migrations"
	}
	return dir
}

// collectUpFiles returns the sorted .up.sql file names in dir.
func collectUpFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.Fatal("read migrations dir failed", "error", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files
}

func ensureSchemaMigrations(ctx context.Context, pool *pgxpool.Pool) {
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		logging.Fatal("create schema_migrations failed", "error", err)
	}
}

func isApplied(ctx context.Context, pool *pgxpool.Pool, name string) bool {
	var exists bool
	if err := pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=$1)", name).Scan(&exists); err != nil {
		logging.Fatal("check migration failed", "migration", name, "error", err)
	}
	return exists
}

func execFile(ctx context.Context, pool *pgxpool.Pool, path string) {
	sql, err := os.ReadFile(path)
	if err != nil {
		logging.Fatal("read migration failed", "file", path, "error", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		logging.Fatal("migration failed", "file", path, "error", err)
	}
}

func runUp(ctx context.Context, pool *pgxpool.Pool, dir string) {
	ensureSchemaMigrations(ctx, pool)

	applied := 0
	for _, filename := range collectUpFiles(dir) {
		name := strings.TrimSuffix(filename, ".up.sql")
		if isApplied(ctx, pool, name) {
			continue
		}
		execFile(ctx, pool, filepath.Join(dir, filename))
		if _, err := pool.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
			logging.Fatal("record migration failed", "migration", name, "error", err)
		}
		applied++
		slog.Info("migration applied", "migration", name)
	}

	if applied == 0 {
		slog.Info("all migrations already applied")
		return
	}
	slog.Info("migrations completed", "count", applied)
}

func runStatus(ctx context.Context, pool *pgxpool.Pool, dir string) {
	ensureSchemaMigrations(ctx, pool)
	for _, filename := range collectUpFiles(dir) {
		name := strings.TrimSuffix(filename, ".up.sql")
		state := "pending"
		if isApplied(ctx, pool, name) {
			state = "applied"
		}
		fmt.Printf("%-40s %s\n", name, state)
	}
}

func runDown(ctx context.Context, pool *pgxpool.Pool, dir string) {
	ensureSchemaMigrations(ctx, pool)

	var name string
	err := pool.QueryRow(ctx, "SELECT name FROM schema_migrations ORDER BY name DESC LIMIT 1").Scan(&name)
	if err != nil {
		slog.Info("nothing to roll back")
		return
	}
	execFile(ctx, pool, filepath.Join(dir, name+".down.sql"))
	if _, err := pool.Exec(ctx, "DELETE FROM schema_migrations WHERE name=$1", name); err != nil {
		logging.Fatal("unrecord migration failed", "migration", name, "error", err)
	}
	slog.Info("migration rolled back", "migration", name)
}

func runDropAll(ctx context.Context, pool *pgxpool.Pool, dir string) {
	slog.Info("dropping all tables")
	execFile(ctx, pool, filepath.Join(dir, "000_drop_all.sql"))
	slog.Info("all tables dropped")
}
