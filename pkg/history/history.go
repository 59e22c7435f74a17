// Package history pkg/history/history.go provides the local SQLite log of
// discovery scans and bulk operations driven through this dashboard.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	log "github.com/sirupsen/logrus"

	"github.com/mfreeman451/scandeck/pkg/models"
)

var (
	errFailedOpenDB      = errors.New("failed to open database")
	errFailedToEnableWAL = errors.New("failed to enable WAL mode")
	errFailedToInit      = errors.New("failed to initialize schema")
	errFailedToInsert    = errors.New("failed to insert")
	errFailedToQuery     = errors.New("failed to query")
	errFailedToScan      = errors.New("failed to scan")
	errFailedToClean     = errors.New("failed to clean")
)

const createTablesSQL = `
	-- Discovery scan jobs started from this dashboard
	CREATE TABLE IF NOT EXISTS discovery_scans (
		scan_id TEXT PRIMARY KEY,
		network_range TEXT NOT NULL,
		outcome TEXT NOT NULL DEFAULT 'running',
		total_devices INTEGER NOT NULL DEFAULT 0,
		started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		completed_at TIMESTAMP
	);

	-- Settled bulk scan operations
	CREATE TABLE IF NOT EXISTS bulk_operations (
		op_id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		targets INTEGER NOT NULL,
		success INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_discovery_started ON discovery_scans(started_at);
	CREATE INDEX IF NOT EXISTS idx_bulk_created ON bulk_operations(created_at);
`

// DiscoveryEntry is one logged discovery scan.
type DiscoveryEntry struct {
	ScanID       string  `json:"scan_id"`
	NetworkRange string  `json:"network_range"`
	Outcome      string  `json:"outcome"`
	TotalDevices int     `json:"total_devices"`
	StartedAt    string  `json:"started_at"`
	CompletedAt  *string `json:"completed_at,omitempty"`
}

// BulkEntry is one logged bulk operation.
type BulkEntry struct {
	OpID      string `json:"op_id"`
	Category  string `json:"category"`
	Targets   int    `json:"targets"`
	Success   int    `json:"success"`
	Failed    int    `json:"failed"`
	CreatedAt string `json:"created_at"`
}

// Store wraps the history database.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the history database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedOpenDB, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", errFailedToEnableWAL, err)
	}

	if _, err := db.Exec(createTablesSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", errFailedToInit, err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) RecordDiscovery(scanID, networkRange string) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO discovery_scans (scan_id, network_range) VALUES (?, ?)",
		scanID, networkRange)
	if err != nil {
		return fmt.Errorf("%w discovery scan: %w", errFailedToInsert, err)
	}

	return nil
}

func (s *Store) CompleteDiscovery(scanID, outcome string, totalDevices int) error {
	_, err := s.db.Exec(
		`UPDATE discovery_scans
		 SET outcome = ?, total_devices = ?, completed_at = CURRENT_TIMESTAMP
		 WHERE scan_id = ?`,
		outcome, totalDevices, scanID)
	if err != nil {
		return fmt.Errorf("%w discovery outcome: %w", errFailedToInsert, err)
	}

	return nil
}

func (s *Store) RecordBulk(result *models.BulkResult, category string, targets int) error {
	_, err := s.db.Exec(
		"INSERT INTO bulk_operations (op_id, category, targets, success, failed) VALUES (?, ?, ?, ?, ?)",
		result.OpID, category, targets, result.Success, result.Failed)
	if err != nil {
		return fmt.Errorf("%w bulk operation: %w", errFailedToInsert, err)
	}

	return nil
}

// Discoveries returns the most recent discovery scans, newest first.
func (s *Store) Discoveries(limit int) ([]DiscoveryEntry, error) {
	rows, err := s.db.Query(
		`SELECT scan_id, network_range, outcome, total_devices, started_at, completed_at
		 FROM discovery_scans ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w discovery scans: %w", errFailedToQuery, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Errorf("Error closing rows: %v", err)
		}
	}()

	entries := make([]DiscoveryEntry, 0)

	for rows.Next() {
		var e DiscoveryEntry
		if err := rows.Scan(&e.ScanID, &e.NetworkRange, &e.Outcome, &e.TotalDevices, &e.StartedAt, &e.CompletedAt); err != nil {
			return nil, fmt.Errorf("%w discovery scan: %w", errFailedToScan, err)
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// BulkOps returns the most recent bulk operations, newest first.
func (s *Store) BulkOps(limit int) ([]BulkEntry, error) {
	rows, err := s.db.Query(
		`SELECT op_id, category, targets, success, failed, created_at
		 FROM bulk_operations ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w bulk operations: %w", errFailedToQuery, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Errorf("Error closing rows: %v", err)
		}
	}()

	entries := make([]BulkEntry, 0)

	for rows.Next() {
		var e BulkEntry
		if err := rows.Scan(&e.OpID, &e.Category, &e.Targets, &e.Success, &e.Failed, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w bulk operation: %w", errFailedToScan, err)
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Prune removes entries older than age.
func (s *Store) Prune(age time.Duration) error {
	cutoff := time.Now().Add(-age)

	for _, q := range []string{
		"DELETE FROM discovery_scans WHERE started_at < ?",
		"DELETE FROM bulk_operations WHERE created_at < ?",
	} {
		if _, err := s.db.Exec(q, cutoff); err != nil {
			return fmt.Errorf("%w history: %w", errFailedToClean, err)
		}
	}

	return nil
}
