// predictor_lua.go - Lua-scripted EEG predictor

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"
)

//go:embed scripts/band_ratio.lua
var defaultPredictorScript string

var ErrNoPredictFunc = errors.New("script does not define predict(channels, rate)")

// LuaPredictor runs a script's predict(channels, rate) function. The Lua
// state is not goroutine-safe: a LuaPredictor belongs to one inference loop.
type LuaPredictor struct {
	L      *lua.LState
	fn     lua.LValue
	name   string
	logger *log.Logger
}

// NewLuaPredictor compiles source and looks up its predict function.
func NewLuaPredictor(name, source string, logger *log.Logger) (*LuaPredictor, error) {
	L := lua.NewState()
	registerLuaHelpers(L)
	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("lua predictor %s: %w", name, err)
	}
	return newLuaPredictorFromState(L, name, logger)
}

// LoadLuaPredictor runs the script at path. An empty path uses the built-in
// band ratio script.
func LoadLuaPredictor(path string, logger *log.Logger) (*LuaPredictor, error) {
	if path == "" {
		return NewLuaPredictor("band_ratio", defaultPredictorScript, logger)
	}
	L := lua.NewState()
	registerLuaHelpers(L)
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("lua predictor %s: %w", path, err)
	}
	return newLuaPredictorFromState(L, path, logger)
}

func newLuaPredictorFromState(L *lua.LState, name string, logger *log.Logger) (*LuaPredictor, error) {
	fn := L.GetGlobal("predict")
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("lua predictor %s: %w", name, ErrNoPredictFunc)
	}
	if logger == nil {
		logger = newDiscardLogger()
	}
	return &LuaPredictor{L: L, fn: fn, name: name, logger: logger}, nil
}

func (p *LuaPredictor) Predict(channels [][]float64, sampleRateHz float64) (EEGStatePrediction, bool) {
	chans := p.L.CreateTable(len(channels), 0)
	for _, ch := range channels {
		t := p.L.CreateTable(len(ch), 0)
		for _, v := range ch {
			t.Append(lua.LNumber(v))
		}
		chans.Append(t)
	}

	err := p.L.CallByParam(lua.P{Fn: p.fn, NRet: 1, Protect: true}, chans, lua.LNumber(sampleRateHz))
	if err != nil {
		p.logger.Warn("predict failed", "script", p.name, "err", err)
		return EEGStatePrediction{}, false
	}
	ret := p.L.Get(-1)
	p.L.Pop(1)

	t, ok := ret.(*lua.LTable)
	if !ok {
		return EEGStatePrediction{}, false
	}
	return EEGStatePrediction{
		State:          ParseEEGState(lua.LVAsString(t.RawGetString("state"))),
		AlphaPower:     luaFloat(t.RawGetString("alpha")),
		BetaPower:      luaFloat(t.RawGetString("beta")),
		ThetaPower:     luaFloat(t.RawGetString("theta")),
		TargetBeatFreq: luaFloat(t.RawGetString("target")),
		Confidence:     luaFloat(t.RawGetString("confidence")),
	}, true
}

func (p *LuaPredictor) Name() string { return "lua:" + p.name }

// Scripts allocate tables per window, so they are not treated as realtime.
func (p *LuaPredictor) IsRealtimeCapable() bool { return false }

func (p *LuaPredictor) Close() {
	p.L.Close()
}

func luaFloat(v lua.LValue) float64 {
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

func registerLuaHelpers(L *lua.LState) {
	L.SetGlobal("band_power", L.NewFunction(luaBandPower))
}

// band_power(samples, rate, lo, hi) -> number
func luaBandPower(L *lua.LState) int {
	tbl := L.CheckTable(1)
	rate := float64(L.CheckNumber(2))
	lo := float64(L.CheckNumber(3))
	hi := float64(L.CheckNumber(4))

	samples := make([]float64, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		samples = append(samples, luaFloat(tbl.RawGetInt(i)))
	}
	L.Push(lua.LNumber(BandPower(samples, rate, lo, hi)))
	return 1
}
