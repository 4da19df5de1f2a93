package persist

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/afelia/fakewater/internal/config"
	"github.com/afelia/fakewater/internal/tags"
	"go.uber.org/zap/zaptest"
)

// checkBackendRoundTrip saves two generations of entries and expects the
// second to fully replace the first, order preserved.
func checkBackendRoundTrip(t *testing.T, b tags.Backend) {
	t.Helper()
	ctx := context.Background()

	got, err := b.LoadEntries(ctx)
	if err != nil {
		t.Fatalf("initial load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("fresh backend holds %v", got)
	}

	first := []string{"world:0:0:0", "world:0:0:1", "world:0:0:2"}
	if err := b.SaveEntries(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := []string{"world:-5:10:3", "world_nether:1:2:3"}
	if err := b.SaveEntries(ctx, second); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err = b.LoadEntries(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if strings.Join(got, ",") != strings.Join(second, ",") {
		t.Fatalf("loaded %v, want %v", got, second)
	}
}

func TestYAMLFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugins", "data.yml")
	checkBackendRoundTrip(t, NewYAMLFile(path, zaptest.NewLogger(t)))

	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".data.yml.tmp-*"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}

func TestYAMLFileSkipsMalformedAndKeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yml")
	src := `motd: hello
fakeWaterBlocks:
  - world:1:2:3
  - {nested: true}
  - 4:5:6:world
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	f := NewYAMLFile(path, zaptest.NewLogger(t))

	got, err := f.LoadEntries(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0] != "world:1:2:3" || got[1] != "4:5:6:world" {
		t.Fatalf("loaded %v", got)
	}

	if err := f.SaveEntries(context.Background(), []string{"world:7:7:7"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "motd: hello") {
		t.Fatalf("unrelated key dropped:\n%s", raw)
	}
	if !strings.Contains(string(raw), "- world:7:7:7") {
		t.Fatalf("entries not written:\n%s", raw)
	}
}

func TestYAMLFileNonListSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yml")
	os.WriteFile(path, []byte("fakeWaterBlocks:\n  world_1_2_3: true\n"), 0o644)

	got, err := NewYAMLFile(path, zaptest.NewLogger(t)).LoadEntries(context.Background())
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v; want empty, nil", got, err)
	}
}

func TestYAMLFileEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yml")
	os.WriteFile(path, nil, 0o644)
	checkBackendRoundTrip(t, NewYAMLFile(path, zaptest.NewLogger(t)))
}

func TestBoltRoundTrip(t *testing.T) {
	r, err := OpenBolt(filepath.Join(t.TempDir(), "tags.db"))
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	defer r.Close()
	checkBackendRoundTrip(t, r)
}

func TestSQLiteRoundTrip(t *testing.T) {
	r, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "tags.sqlite"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer r.Close()
	checkBackendRoundTrip(t, r)
}

func TestSQLiteRejectsMalformedSave(t *testing.T) {
	r, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "tags.sqlite"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer r.Close()
	ctx := context.Background()
	r.SaveEntries(ctx, []string{"world:1:1:1"})

	if err := r.SaveEntries(ctx, []string{"world:2:2:2", "bogus"}); err == nil {
		t.Fatal("expected error")
	}
	got, _ := r.LoadEntries(ctx)
	if len(got) != 1 || got[0] != "world:1:1:1" {
		t.Fatalf("failed save replaced data: %v", got)
	}
}

func TestPostgresRoundTrip(t *testing.T) {
	dsn := os.Getenv("FAKEWATER_TEST_DSN")
	if dsn == "" {
		t.Skip("FAKEWATER_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := config.Defaults().Storage
	cfg.Backend = "postgres"
	cfg.DSN = dsn
	b, closer, err := OpenBackend(ctx, cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("OpenBackend: %v", err)
	}
	defer closer.Close()
	if err := b.SaveEntries(ctx, nil); err != nil {
		t.Fatalf("reset: %v", err)
	}
	checkBackendRoundTrip(t, b)
}

func TestOpenBackendSelectsByName(t *testing.T) {
	dir := t.TempDir()
	log := zaptest.NewLogger(t)
	for _, name := range []string{"yaml", "bolt", "sqlite"} {
		cfg := config.Defaults().Storage
		cfg.Backend = name
		cfg.Path = filepath.Join(dir, name+".data")
		b, closer, err := OpenBackend(context.Background(), cfg, log)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !strings.HasPrefix(b.Name(), name) {
			t.Errorf("%s: backend name %q", name, b.Name())
		}
		closer.Close()
	}
	cfg := config.Defaults().Storage
	cfg.Backend = "redis"
	if _, _, err := OpenBackend(context.Background(), cfg, log); err == nil {
		t.Fatal("unknown backend accepted")
	}
}

func TestEntriesToRowsRejectsWideCoordinates(t *testing.T) {
	if _, err := entriesToRows([]string{"w:1:2:3", "w:-2147483648:0:2147483647"}); err != nil {
		t.Fatalf("int32 bounds rejected: %v", err)
	}
	for _, e := range []string{"w:3000000000:0:0", "w:0:-2147483649:0"} {
		if _, err := entriesToRows([]string{e}); err == nil {
			t.Errorf("%s accepted", e)
		}
	}
}
