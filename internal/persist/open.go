package persist

import (
	"context"
	"fmt"
	"io"

	"github.com/afelia/fakewater/internal/config"
	"github.com/afelia/fakewater/internal/tags"
	"go.uber.org/zap"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenBackend builds the tag backend selected by cfg.Backend. The returned
// closer releases the underlying file or pool.
func OpenBackend(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (tags.Backend, io.Closer, error) {
	switch cfg.Backend {
	case "yaml":
		return NewYAMLFile(cfg.Path, log), nopCloser{}, nil
	case "postgres":
		db, err := NewDB(ctx, cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("database: %w", err)
		}
		if err := RunMigrations(ctx, db.Pool); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		return NewTagRepo(db), db, nil
	case "bolt":
		r, err := OpenBolt(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return r, r, nil
	case "sqlite":
		r, err := OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return r, r, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
