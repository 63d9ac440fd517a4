package video

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"
)

// LoadScript compiles a user-supplied Lua phase script and returns the
// phase sequence it builds. The script's global `phases` table holds
// a sequence of tables, each with at most one of n/dt, t, or fade set:
//
//	phases = {
//	  { n = 200, dt = 4.0 },
//	  { t = 3.0 },
//	  { fade = 2.0 },
//	}
func LoadScript(path string) ([]Phase, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("video: reading phase script %s: %w", path, err)
	}
	return CompileScript(string(src))
}

// CompileScript runs src and extracts the `phases` table it defines.
func CompileScript(src string) ([]Phase, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(src); err != nil {
		return nil, fmt.Errorf("video: running phase script: %w", err)
	}

	raw := L.GetGlobal("phases")
	tbl, ok := raw.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("video: phase script must define a `phases` table, got %s", raw.Type())
	}

	var phases []Phase
	var convErr error
	tbl.ForEach(func(_, v lua.LValue) {
		if convErr != nil {
			return
		}
		entry, ok := v.(*lua.LTable)
		if !ok {
			convErr = fmt.Errorf("video: phases[%d] is not a table", len(phases)+1)
			return
		}
		p := Phase{
			N:    int(luaNumber(entry, "n")),
			Dt:   luaNumber(entry, "dt"),
			T:    luaNumber(entry, "t"),
			Fade: luaNumber(entry, "fade"),
		}
		if err := p.Validate(); err != nil {
			convErr = err
			return
		}
		phases = append(phases, p)
	})
	if convErr != nil {
		return nil, convErr
	}

	return phases, nil
}

func luaNumber(t *lua.LTable, field string) float64 {
	v := t.RawGetString(field)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}
