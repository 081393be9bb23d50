package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"freightbill/internal/logger"
	"freightbill/pkg/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS bookings (
	position INTEGER PRIMARY KEY,
	id       TEXT NOT NULL UNIQUE,
	data     TEXT NOT NULL
);`

const (
	metaVersion   = "version"
	metaProfile   = "profile"
	metaTemplate  = "template"
	metaCustomers = "customers"
)

// SQLiteBackend keeps state in a SQLite database: one row per booking in
// collection order, plus JSON documents for the profile, template and
// customer settings.
type SQLiteBackend struct {
	db   *sql.DB
	path string
	log  zerolog.Logger
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	const op = "OpenSQLite"

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrap(op, path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, wrap(op, path, fmt.Errorf("apply schema: %w", err))
	}

	return &SQLiteBackend{
		db:   db,
		path: path,
		log:  logger.WithComponent("storage-sqlite"),
	}, nil
}

// Load reads all state. An empty database yields the empty state.
func (b *SQLiteBackend) Load(ctx context.Context) (*State, error) {
	const op = "Load"

	meta, err := b.loadMeta(ctx)
	if err != nil {
		return nil, wrap(op, b.path, err)
	}

	if v, ok := meta[metaVersion]; ok {
		version, err := strconv.Atoi(v)
		if err != nil {
			return nil, wrap(op, b.path, fmt.Errorf("%w: version %q", ErrCorruptState, v))
		}
		if version > CurrentVersion {
			return nil, wrap(op, b.path, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version))
		}
	}

	rows, err := b.db.QueryContext(ctx, `SELECT data FROM bookings ORDER BY position`)
	if err != nil {
		return nil, wrap(op, b.path, err)
	}
	defer rows.Close()

	bookings := []models.BookingRecord{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, wrap(op, b.path, err)
		}
		var rec models.BookingRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, wrap(op, b.path, fmt.Errorf("%w: %v", ErrCorruptState, err))
		}
		bookings = append(bookings, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, b.path, err)
	}

	s := NewState()
	s.Bookings = normalizeBookings(bookings)
	if v, ok := meta[metaProfile]; ok {
		if err := json.Unmarshal([]byte(v), &s.Profile); err != nil {
			return nil, wrap(op, b.path, fmt.Errorf("%w: profile: %v", ErrCorruptState, err))
		}
	}
	if v, ok := meta[metaTemplate]; ok {
		if err := json.Unmarshal([]byte(v), &s.Template); err != nil {
			return nil, wrap(op, b.path, fmt.Errorf("%w: template: %v", ErrCorruptState, err))
		}
	}
	if v, ok := meta[metaCustomers]; ok {
		if err := json.Unmarshal([]byte(v), &s.Customers); err != nil {
			return nil, wrap(op, b.path, fmt.Errorf("%w: customers: %v", ErrCorruptState, err))
		}
		if s.Customers == nil {
			s.Customers = map[string]models.CustomerSettings{}
		}
	}

	b.log.Debug().
		Str("path", b.path).
		Int("bookings", len(s.Bookings)).
		Msg("State loaded")
	return s, nil
}

func (b *SQLiteBackend) loadMeta(ctx context.Context) (map[string]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

// Save replaces the stored state in one transaction.
func (b *SQLiteBackend) Save(ctx context.Context, s *State) error {
	const op = "Save"

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return wrap(op, b.path, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings`); err != nil {
		return wrap(op, b.path, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO bookings (position, id, data) VALUES (?, ?, ?)`)
	if err != nil {
		return wrap(op, b.path, err)
	}
	defer stmt.Close()

	for i, rec := range s.Bookings {
		data, err := json.Marshal(rec)
		if err != nil {
			return wrap(op, b.path, err)
		}
		if _, err := stmt.ExecContext(ctx, i, rec.ID, string(data)); err != nil {
			return wrap(op, b.path, fmt.Errorf("booking %s: %w", rec.ID, err))
		}
	}

	customers := s.Customers
	if customers == nil {
		customers = map[string]models.CustomerSettings{}
	}
	docs := map[string]any{
		metaProfile:   s.Profile,
		metaTemplate:  s.Template,
		metaCustomers: customers,
	}
	for key, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			return wrap(op, b.path, fmt.Errorf("%s: %w", key, err))
		}
		if err := upsertMeta(ctx, tx, key, string(data)); err != nil {
			return wrap(op, b.path, err)
		}
	}
	if err := upsertMeta(ctx, tx, metaVersion, strconv.Itoa(CurrentVersion)); err != nil {
		return wrap(op, b.path, err)
	}

	if err := tx.Commit(); err != nil {
		return wrap(op, b.path, err)
	}

	b.log.Debug().
		Str("path", b.path).
		Int("bookings", len(s.Bookings)).
		Msg("State saved")
	return nil
}

func upsertMeta(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Close releases the database handle.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
