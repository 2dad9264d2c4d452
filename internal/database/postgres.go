package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// ConnectPostgres connects to PostgreSQL and creates the audit tables.
func ConnectPostgres(postgresURI string) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		return nil, err
	}

	log.Println("✅ Connected to PostgreSQL")

	if err = initPostgresTables(db); err != nil {
		return nil, err
	}

	return db, nil
}

// initPostgresTables creates the abuse-audit tables if they don't exist.
func initPostgresTables(db *sql.DB) error {
	queries := []string{
		// Rate-limit violations, kept for a few hours for operator visibility
		`CREATE TABLE IF NOT EXISTS violations (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			ip_address VARCHAR(255) NOT NULL,
			type VARCHAR(50) NOT NULL,
			message TEXT NOT NULL,
			action_taken VARCHAR(50) NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_violations_ip_address ON violations(ip_address)`,
		`CREATE INDEX IF NOT EXISTS idx_violations_created_at ON violations(created_at)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}
