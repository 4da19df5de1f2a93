package persist

import (
	"context"
	"fmt"
	"math"

	"github.com/afelia/fakewater/internal/tags"
	"github.com/jackc/pgx/v5"
)

// TagRepo stores tags in PostgreSQL, one row per cell.
type TagRepo struct {
	db *DB
}

func NewTagRepo(db *DB) *TagRepo {
	return &TagRepo{db: db}
}

func (r *TagRepo) Name() string { return "postgres" }

func (r *TagRepo) LoadEntries(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT world, x, y, z FROM fake_water_blocks ORDER BY seq`,
	)
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

// SaveEntries replaces the table contents in one transaction.
func (r *TagRepo) SaveEntries(ctx context.Context, entries []string) error {
	rows, err := entriesToRows(entries)
	if err != nil {
		return err
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM fake_water_blocks`); err != nil {
		return fmt.Errorf("clear fake_water_blocks: %w", err)
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"fake_water_blocks"},
		[]string{"seq", "world", "x", "y", "z"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return []any{int32(i), r.World, int32(r.X), int32(r.Y), int32(r.Z)}, nil
		}),
	); err != nil {
		return fmt.Errorf("copy fake_water_blocks: %w", err)
	}
	return tx.Commit(ctx)
}

// tagRow is one persisted cell in the SQL backends.
type tagRow struct {
	World   string
	X, Y, Z int
}

func (r tagRow) entry() string {
	return fmt.Sprintf("%s:%d:%d:%d", r.World, r.X, r.Y, r.Z)
}

func entriesToRows(entries []string) ([]tagRow, error) {
	rows := make([]tagRow, 0, len(entries))
	for _, e := range entries {
		c, err := tags.ParseEntry(e)
		if err != nil {
			return nil, err
		}
		for _, v := range [3]int{c.Pos.X(), c.Pos.Y(), c.Pos.Z()} {
			if v < math.MinInt32 || v > math.MaxInt32 {
				return nil, fmt.Errorf("entry %q: coordinate %d out of range", e, v)
			}
		}
		rows = append(rows, tagRow{World: c.World, X: c.Pos.X(), Y: c.Pos.Y(), Z: c.Pos.Z()})
	}
	return rows, nil
}
