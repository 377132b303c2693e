package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/linemk/coin-trader/internal/config"
)

const migrationTableName = "migrations"

func main() {
	var migrationsPathFlag string
	var down bool
	flag.StringVar(&migrationsPathFlag, "migrations-path", "", "path to migration files")
	flag.BoolVar(&down, "down", false, "roll back all migrations")

	// MustLoad сам вызывает flag.Parse, поэтому флаги мигратора объявлены до него
	cfg := config.MustLoad()

	migrationsPath := cfg.Migrations.Path
	if migrationsPathFlag != "" {
		migrationsPath = migrationsPathFlag
	}

	m, err := migrate.New(
		"file://"+migrationsPath,
		cfg.Database.DSN(url.Values{"x-migrations-table": {migrationTableName}}),
	)
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}

	apply := m.Up
	if down {
		apply = m.Down
	}
	if err := apply(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migrations to apply")
		} else {
			log.Fatalf("migration failed: %v", err)
		}
	} else {
		log.Println("Migrations applied successfully")
	}

	db, err := sql.Open("postgres", cfg.Database.DSN(nil))
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	tables, err := listTables(db)
	if err != nil {
		log.Fatalf("failed to list tables: %v", err)
	}
	fmt.Println("Current tables in the database:")
	for _, name := range tables {
		fmt.Println(" -", name)
	}

	coins, err := listCoins(db)
	if err != nil {
		// после -down таблицы coins уже нет
		return
	}
	fmt.Println("Tracked coins:")
	for _, c := range coins {
		fmt.Println(" -", c)
	}
}

func listTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func listCoins(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT name, is_active FROM coins ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coins []string
	for rows.Next() {
		var name string
		var active bool
		if err := rows.Scan(&name, &active); err != nil {
			return nil, err
		}
		if !active {
			name += " (inactive)"
		}
		coins = append(coins, name)
	}
	return coins, rows.Err()
}
