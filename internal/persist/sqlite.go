package persist

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteTagRepo stores tags in a local SQLite file using the same schema as
// the PostgreSQL backend.
type SQLiteTagRepo struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (or creates) the database at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLiteTagRepo, error) {
	if path == "" {
		return nil, fmt.Errorf("empty sqlite path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	if err := RunSQLiteMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteTagRepo{db: db, path: path}, nil
}

func (r *SQLiteTagRepo) Name() string { return "sqlite:" + r.path }

func (r *SQLiteTagRepo) Close() error { return r.db.Close() }

func (r *SQLiteTagRepo) LoadEntries(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT world, x, y, z FROM fake_water_blocks ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var row tagRow
		if err := rows.Scan(&row.World, &row.X, &row.Y, &row.Z); err != nil {
			return nil, err
		}
		out = append(out, row.entry())
	}
	return out, rows.Err()
}

func (r *SQLiteTagRepo) SaveEntries(ctx context.Context, entries []string) error {
	rows, err := entriesToRows(entries)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM fake_water_blocks`); err != nil {
		return fmt.Errorf("clear fake_water_blocks: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO fake_water_blocks (seq, world, x, y, z) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, i, row.World, row.X, row.Y, row.Z); err != nil {
			return fmt.Errorf("insert %s: %w", row.entry(), err)
		}
	}
	return tx.Commit()
}
