package history

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT NOT NULL PRIMARY KEY,
	value BLOB NOT NULL,
	updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteBackend stores values in a key-value table.
type SQLiteBackend struct {
	db *sqlx.DB
}

// OpenSQLite connects to the database at path and verifies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open sqlite database %s", path)
	}

	if _, err = db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not verify schema")
	}

	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := b.db.GetContext(ctx, &value, `SELECT value FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not get %s", key)
	}

	return value, nil
}

func (b *SQLiteBackend) Put(ctx context.Context, key string, value []byte) error {
	_, err := b.db.NamedExecContext(ctx, `
INSERT INTO kv (key, value, updated)
VALUES (:key, :value, CURRENT_TIMESTAMP)
ON CONFLICT (key) DO UPDATE
	SET value = excluded.value,
	    updated = excluded.updated
	`, map[string]interface{}{
		"key":   key,
		"value": value,
	})

	return errors.Wrapf(err, "could not put %s", key)
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
