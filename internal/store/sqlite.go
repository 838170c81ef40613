package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ashureev/saleswizz/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db           *sql.DB
	transcriptMu sync.Mutex // serialize transcript writes to prevent SQLITE_BUSY
}

// NewSQLite creates a new SQLite-backed repository and seeds the fictional
// roster and sales tables on first run.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%w: ping database: %v", ErrUnavailable, err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	if err := store.seed(); err != nil {
		return nil, fmt.Errorf("seed dataset: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS employees (
		employee_id TEXT PRIMARY KEY,
		employee_name TEXT NOT NULL,
		photo TEXT,
		role TEXT NOT NULL,
		region TEXT NOT NULL,
		employment_type TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS salesdata (
		region TEXT NOT NULL,
		quarter TEXT NOT NULL,
		quota REAL NOT NULL,
		profit REAL NOT NULL,
		commission REAL NOT NULL,
		revenue REAL NOT NULL,
		PRIMARY KEY (region, quarter)
	);

	CREATE TABLE IF NOT EXISTS chat_transcripts (
		session_id TEXT PRIMARY KEY,
		identity_json TEXT NOT NULL,
		messages_json TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chat_transcripts_updated ON chat_transcripts(updated_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListEmployees returns every roster row as an Identity. Unparseable role,
// region or employment type values are kept, mapped to their fail-closed
// defaults, so that the policy engine still sees (and denies) those rows.
func (s *SQLiteStore) ListEmployees(ctx context.Context) ([]domain.Identity, error) {
	query := `
		SELECT employee_name, photo, role, region, employment_type
		FROM employees ORDER BY employee_name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query employees: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var identities []domain.Identity
	for rows.Next() {
		var name, role, region, employment string
		var photo sql.NullString
		if err := rows.Scan(&name, &photo, &role, &region, &employment); err != nil {
			return nil, fmt.Errorf("scan employee row: %w", err)
		}

		parsedRole, _ := domain.ParseRole(role)
		parsedEmployment, _ := domain.ParseEmploymentType(employment)
		parsedRegion, err := domain.ParseRegion(region)
		if err != nil {
			// Keep the raw value; the policy engine denies unknown regions.
			parsedRegion = domain.Region(region)
		}

		identities = append(identities, domain.Identity{
			Name:           name,
			Role:           parsedRole,
			Region:         parsedRegion,
			EmploymentType: parsedEmployment,
			AvatarRef:      photo.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate employees: %v", ErrUnavailable, err)
	}

	return identities, nil
}

// ListSalesRecords returns the full sales fact table.
func (s *SQLiteStore) ListSalesRecords(ctx context.Context) ([]domain.SalesRecord, error) {
	query := `
		SELECT region, quarter, quota, profit, commission, revenue
		FROM salesdata ORDER BY region, quarter`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query salesdata: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var records []domain.SalesRecord
	for rows.Next() {
		var region, quarter string
		var rec domain.SalesRecord
		if err := rows.Scan(&region, &quarter, &rec.Quota, &rec.Profit, &rec.Commission, &rec.Revenue); err != nil {
			return nil, fmt.Errorf("scan sales row: %w", err)
		}

		parsedRegion, err := domain.ParseRegion(region)
		if err != nil {
			return nil, fmt.Errorf("sales row region: %w", err)
		}
		parsedQuarter, err := domain.ParseQuarter(quarter)
		if err != nil {
			return nil, fmt.Errorf("sales row quarter: %w", err)
		}

		rec.Region = parsedRegion
		rec.Quarter = parsedQuarter
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate salesdata: %v", ErrUnavailable, err)
	}

	return records, nil
}

// GetChatTranscript retrieves a persisted session transcript.
func (s *SQLiteStore) GetChatTranscript(ctx context.Context, sessionID string) (*domain.ChatTranscript, error) {
	query := `
		SELECT session_id, identity_json, messages_json, created_at, updated_at
		FROM chat_transcripts WHERE session_id = ?`

	row := s.db.QueryRowContext(ctx, query, sessionID)

	var t domain.ChatTranscript
	var createdAt, updatedAt int64
	err := row.Scan(&t.SessionID, &t.IdentityJSON, &t.MessagesJSON, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan transcript row: %w", err)
	}

	t.CreatedAt = time.Unix(createdAt, 0)
	t.UpdatedAt = time.Unix(updatedAt, 0)
	return &t, nil
}

// UpsertChatTranscript creates or updates a session transcript.
func (s *SQLiteStore) UpsertChatTranscript(ctx context.Context, t *domain.ChatTranscript) error {
	s.transcriptMu.Lock()
	defer s.transcriptMu.Unlock()

	now := time.Now()
	created := t.CreatedAt
	if created.IsZero() {
		created = now
	}

	query := `
		INSERT INTO chat_transcripts (session_id, identity_json, messages_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			identity_json = excluded.identity_json,
			messages_json = excluded.messages_json,
			updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query, t.SessionID, t.IdentityJSON, t.MessagesJSON, created.Unix(), now.Unix()); err != nil {
		return fmt.Errorf("upsert transcript: %w", err)
	}
	return nil
}

// DeleteChatTranscript removes a session transcript.
func (s *SQLiteStore) DeleteChatTranscript(ctx context.Context, sessionID string) error {
	s.transcriptMu.Lock()
	defer s.transcriptMu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_transcripts WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete transcript: %w", err)
	}
	return nil
}

// CleanupExpiredTranscripts removes transcripts idle for longer than ttl.
func (s *SQLiteStore) CleanupExpiredTranscripts(ctx context.Context, ttl time.Duration) (int64, error) {
	s.transcriptMu.Lock()
	defer s.transcriptMu.Unlock()

	cutoff := time.Now().Add(-ttl).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM chat_transcripts WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup transcripts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cleanup transcripts rows affected: %w", err)
	}
	return n, nil
}
