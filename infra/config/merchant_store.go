package config

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrMerchantNotFound is returned when no credentials exist for a merchant ID.
var ErrMerchantNotFound = errors.New("merchant not found")

// Merchant holds the processor credentials of one merchant account.
type Merchant struct {
	ID          string `json:"id"`
	EptCode     string `json:"eptCode"`
	CompanyCode string `json:"companyCode"`
	SecurityKey string `json:"-"`
	TestMode    bool   `json:"testMode"`
}

// MerchantStore handles persistent storage of merchant credentials
type MerchantStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// retryOperation executes a database operation with retry logic for SQLITE_BUSY errors
func (s *MerchantStore) retryOperation(operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		if strings.Contains(err.Error(), "SQLITE_BUSY") || strings.Contains(err.Error(), "database is locked") {
			lastErr = err
			if attempt < maxRetries {
				// Exponential backoff: 10ms, 20ms, 40ms, 80ms
				backoff := time.Duration(10*(1<<attempt)) * time.Millisecond
				log.Printf("SQLite busy, retrying in %v (attempt %d/%d)", backoff, attempt+1, maxRetries+1)
				time.Sleep(backoff)
				continue
			}
		} else {
			return err
		}
	}

	return fmt.Errorf("operation failed after %d retries, last error: %w", maxRetries+1, lastErr)
}

// NewMerchantStore creates a new SQLite-backed merchant store
func NewMerchantStore(dbPath string) (*MerchantStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// SQLite connection string with multi-process optimizations
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000&_timeout=20000&_txlock=immediate", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)

	store := &MerchantStore{
		db:   db,
		path: dbPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Printf("Merchant store initialized at: %s", dbPath)
	return store, nil
}

// initSchema creates the necessary tables
func (s *MerchantStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS merchants (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		merchant_id TEXT NOT NULL UNIQUE,
		ept_code TEXT NOT NULL,
		company_code TEXT NOT NULL,
		security_key TEXT NOT NULL,
		test_mode INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_merchant_id ON merchants(merchant_id);

	-- Trigger to update updated_at column
	CREATE TRIGGER IF NOT EXISTS update_merchants_updated_at
		AFTER UPDATE ON merchants
	BEGIN
		UPDATE merchants SET updated_at = CURRENT_TIMESTAMP WHERE id = NEW.id;
	END;
	`

	_, err := s.db.Exec(query)
	return err
}

// SaveMerchant inserts or updates a merchant's credentials
func (s *MerchantStore) SaveMerchant(merchant Merchant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if merchant.ID == "" {
		return fmt.Errorf("merchant id is required")
	}

	return s.retryOperation(func() error {
		query := `
		INSERT INTO merchants (merchant_id, ept_code, company_code, security_key, test_mode, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(merchant_id)
		DO UPDATE SET
			ept_code = excluded.ept_code,
			company_code = excluded.company_code,
			security_key = excluded.security_key,
			test_mode = excluded.test_mode,
			updated_at = CURRENT_TIMESTAMP
		`

		testMode := 0
		if merchant.TestMode {
			testMode = 1
		}

		_, err := s.db.Exec(query, merchant.ID, merchant.EptCode, merchant.CompanyCode, merchant.SecurityKey, testMode)
		if err != nil {
			return fmt.Errorf("failed to save merchant: %w", err)
		}

		log.Printf("Saved credentials for merchant %s", merchant.ID)
		return nil
	}, 3)
}

// LoadMerchant loads one merchant's credentials by merchant ID
func (s *MerchantStore) LoadMerchant(merchantID string) (Merchant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var merchant Merchant
	err := s.retryOperation(func() error {
		query := `
		SELECT merchant_id, ept_code, company_code, security_key, test_mode
		FROM merchants
		WHERE merchant_id = ?
		`

		var testMode int
		err := s.db.QueryRow(query, merchantID).Scan(
			&merchant.ID, &merchant.EptCode, &merchant.CompanyCode, &merchant.SecurityKey, &testMode,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", ErrMerchantNotFound, merchantID)
			}
			return fmt.Errorf("failed to load merchant: %w", err)
		}

		merchant.TestMode = testMode == 1
		return nil
	}, 3)

	return merchant, err
}

// LoadAllMerchants loads every configured merchant
func (s *MerchantStore) LoadAllMerchants() ([]Merchant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var merchants []Merchant
	err := s.retryOperation(func() error {
		query := `
		SELECT merchant_id, ept_code, company_code, security_key, test_mode
		FROM merchants
		ORDER BY merchant_id
		`

		rows, err := s.db.Query(query)
		if err != nil {
			return fmt.Errorf("failed to query merchants: %w", err)
		}
		defer rows.Close()

		merchants = merchants[:0]

		for rows.Next() {
			var merchant Merchant
			var testMode int
			if err := rows.Scan(&merchant.ID, &merchant.EptCode, &merchant.CompanyCode, &merchant.SecurityKey, &testMode); err != nil {
				return fmt.Errorf("failed to scan row: %w", err)
			}
			merchant.TestMode = testMode == 1
			merchants = append(merchants, merchant)
		}

		if err = rows.Err(); err != nil {
			return fmt.Errorf("error iterating rows: %w", err)
		}

		return nil
	}, 3)

	if err != nil {
		return nil, err
	}

	return merchants, nil
}

// DeleteMerchant removes a merchant's credentials
func (s *MerchantStore) DeleteMerchant(merchantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.retryOperation(func() error {
		result, err := s.db.Exec("DELETE FROM merchants WHERE merchant_id = ?", merchantID)
		if err != nil {
			return fmt.Errorf("failed to delete merchant: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		if rowsAffected == 0 {
			return fmt.Errorf("no credentials found for merchant: %s", merchantID)
		}

		log.Printf("Deleted credentials for merchant %s", merchantID)
		return nil
	}, 3)
}

// Close closes the database connection
func (s *MerchantStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStats returns database statistics
func (s *MerchantStore) GetStats() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make(map[string]any)

	var totalMerchants int
	err := s.db.QueryRow("SELECT COUNT(*) FROM merchants").Scan(&totalMerchants)
	if err != nil {
		return nil, fmt.Errorf("failed to count merchants: %w", err)
	}
	stats["total_merchants"] = totalMerchants

	if fileInfo, err := os.Stat(s.path); err == nil {
		stats["db_size_bytes"] = fileInfo.Size()
	}

	stats["db_path"] = s.path

	return stats, nil
}
