package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseOverridesDefaults(t *testing.T) {
	src := `
[server]
tick_rate = "100ms"
language = "zh-Hant"

[storage]
backend = "bolt"
path = "tags.db"

[fakewater]
kill_player_on_end = false
damage_interval = "2s"
max_flood_radius = 16

[worlds]
names = ["lobby"]
`
	cfg, err := Parse([]byte(src), "test.toml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.TickRate != 100*time.Millisecond {
		t.Errorf("tick rate = %v", cfg.Server.TickRate)
	}
	if cfg.Storage.Backend != "bolt" || cfg.Storage.Path != "tags.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.FakeWater.KillPlayerOnEnd {
		t.Error("kill_player_on_end should be false")
	}
	if cfg.FakeWater.DamageInterval != 2*time.Second {
		t.Errorf("damage interval = %v", cfg.FakeWater.DamageInterval)
	}
	// untouched keys keep their defaults
	if cfg.FakeWater.PoisonReserve != 0.5 {
		t.Errorf("poison reserve = %v", cfg.FakeWater.PoisonReserve)
	}
	if cfg.FakeWater.LoopIntervalTicks != 20 {
		t.Errorf("loop interval = %d", cfg.FakeWater.LoopIntervalTicks)
	}
	if len(cfg.Worlds.Names) != 1 || cfg.Worlds.Names[0] != "lobby" {
		t.Errorf("worlds = %v", cfg.Worlds.Names)
	}
	if cfg.Server.StartTime == 0 {
		t.Error("start time not stamped")
	}
}

func TestDefaultsAreLethal(t *testing.T) {
	if !Defaults().FakeWater.KillPlayerOnEnd {
		t.Fatal("default policy must be lethal")
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"backend", "[storage]\nbackend = \"redis\"", "unknown storage backend"},
		{"interval", "[fakewater]\nloop_interval_ticks = 0", "interval ticks"},
		{"radius", "[fakewater]\nmax_flood_radius = -1", "flood radius"},
		{"worlds", "[worlds]\nnames = []", "at least one world"},
		{"syntax", "[server\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.toml")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}
