package services

import (
	"database/sql"
	"log"
	"time"
)

// AuditService records abuse events (rate-limit violations, IP blocks) in
// PostgreSQL for operator visibility. Recording never fails a request.
type AuditService struct {
	db *sql.DB
}

func NewAuditService(db *sql.DB) *AuditService {
	return &AuditService{db: db}
}

// RecordViolation persists one abuse event. Errors are logged and dropped.
func (s *AuditService) RecordViolation(ipAddress, violationType, message, actionTaken string) {
	if s == nil || s.db == nil {
		return
	}

	_, err := s.db.Exec(`
		INSERT INTO violations (ip_address, type, message, action_taken)
		VALUES ($1, $2, $3, $4)
	`, ipAddress, violationType, message, actionTaken)
	if err != nil {
		log.Printf("failed to record violation for %s: %v", ipAddress, err)
	}
}

// StartCleanup launches a background sweeper that deletes violations
// older than maxAge every interval. Blocked-IP state lives in Redis with
// its own TTL and is not touched here.
func (s *AuditService) StartCleanup(interval, maxAge time.Duration) {
	if s == nil || s.db == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			res, err := s.db.Exec(`DELETE FROM violations WHERE created_at < $1`, time.Now().Add(-maxAge))
			if err != nil {
				log.Printf("violation cleanup failed: %v", err)
				continue
			}
			if n, err := res.RowsAffected(); err == nil && n > 0 {
				log.Printf("violation cleanup removed %d old entries", n)
			}
		}
	}()
}
