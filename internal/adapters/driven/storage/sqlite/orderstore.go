// Package sqlite provides the durable order store backed by SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/goimon-labs/goimon-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/goimon-labs/goimon-cli/internal/core/domain"
	"github.com/goimon-labs/goimon-cli/internal/core/ports/driven"
)

// Ensure OrderStore implements the interface.
var _ driven.OrderStore = (*OrderStore)(nil)

// OrderStore persists orders in a SQLite database. Item snapshots are
// stored as JSON alongside the precomputed total; the total is written once
// at creation and never recomputed from the items.
type OrderStore struct {
	db   *sql.DB
	path string
}

// NewOrderStore opens (or creates) the order database in dataDir.
// If dataDir is empty, defaults to ~/.goimon/data/orders.db.
func NewOrderStore(dataDir string) (*OrderStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".goimon", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "orders.db")

	// WAL mode for concurrent confirm/cancel from parallel sessions
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &OrderStore{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *OrderStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *OrderStore) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *OrderStore) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// CreateOrder persists a new pending order and returns its assigned ID.
func (s *OrderStore) CreateOrder(ctx context.Context, sessionID string, items []domain.MenuItem, total int64) (int64, error) {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("marshalling items: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (session_id, items, total_price, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, sessionID, string(itemsJSON), total, string(domain.OrderStatusPending), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting order id: %w", err)
	}
	return id, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderStore) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, items, total_price, status, created_at
		FROM orders WHERE id = ?
	`, orderID)

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}
	return order, nil
}

// CancelOrder moves a pending order to cancelled with a single conditional
// update; the status check and the write are one atomic statement. Returns
// whether a row changed.
func (s *OrderStore) CancelOrder(ctx context.Context, orderID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE orders SET status = ?
		WHERE id = ? AND status = ?
	`, string(domain.OrderStatusCancelled), orderID, string(domain.OrderStatusPending))
	if err != nil {
		return false, fmt.Errorf("cancelling order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting affected rows: %w", err)
	}
	return affected > 0, nil
}

// ListOrdersForSession returns a session's orders, newest first.
func (s *OrderStore) ListOrdersForSession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, items, total_price, status, created_at
		FROM orders WHERE session_id = ?
		ORDER BY created_at DESC, id DESC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}
	return orders, nil
}

// scanner abstracts over *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*domain.Order, error) {
	var order domain.Order
	var itemsJSON, status string

	if err := row.Scan(&order.ID, &order.SessionID, &itemsJSON, &order.Total, &status, &order.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(itemsJSON), &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshalling items: %w", err)
	}
	order.Status = domain.OrderStatus(status)
	return &order, nil
}
