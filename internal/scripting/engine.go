package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// DefaultFakeWaterDamage is used when no script defines calc_fake_water_damage
// or the script fails.
const DefaultFakeWaterDamage = 1.0

// Engine wraps a single gopher-lua VM for game logic execution.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory. A missing directory is not an error; built-in defaults apply.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	// Load core scripts first, then feature scripts
	for _, sub := range []string{"core", "fakewater"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DamageContext holds pre-packed data for one fake water damage tick.
type DamageContext struct {
	Health    float64
	MaxHealth float64
	Lethal    bool   // kill_player_on_end policy
	Source    string // "loop" or "sweep"
}

// CalcFakeWaterDamage calls the Lua calc_fake_water_damage function.
// Negative, NaN or non-numeric results fall back to the default.
func (e *Engine) CalcFakeWaterDamage(ctx DamageContext) float64 {
	if e == nil {
		return DefaultFakeWaterDamage
	}
	fn := e.vm.GetGlobal("calc_fake_water_damage")
	if fn == lua.LNil {
		return DefaultFakeWaterDamage
	}

	t := e.vm.NewTable()
	t.RawSetString("health", lua.LNumber(ctx.Health))
	t.RawSetString("max_health", lua.LNumber(ctx.MaxHealth))
	t.RawSetString("lethal", lua.LBool(ctx.Lethal))
	t.RawSetString("source", lua.LString(ctx.Source))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua call error", zap.String("func", "calc_fake_water_damage"), zap.Error(err))
		return DefaultFakeWaterDamage
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	if !ok || !(n >= 0) { // also rejects NaN
		e.log.Warn("calc_fake_water_damage returned a bad value", zap.String("value", result.String()))
		return DefaultFakeWaterDamage
	}
	return float64(n)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	if e != nil {
		e.vm.Close()
	}
}
