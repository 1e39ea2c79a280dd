package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestStubPredictor(t *testing.T) {
	p := NewStubPredictor(true, 12)
	pred, ok := p.Predict(nil, 0)
	if !ok {
		t.Fatal("simulating stub returned no prediction")
	}
	want := EEGStatePrediction{State: EEGRelaxed, AlphaPower: 0.5, BetaPower: 0.3, ThetaPower: 0.2, TargetBeatFreq: 12, Confidence: 0.8}
	if pred != want {
		t.Errorf("Predict = %+v, want %+v", pred, want)
	}
	if p.Name() != "stub" || !p.IsRealtimeCapable() {
		t.Errorf("Name %q realtime %v", p.Name(), p.IsRealtimeCapable())
	}

	if _, ok := NewStubPredictor(false, 12).Predict([][]float64{{1}}, 256); ok {
		t.Error("non-simulating stub returned a prediction")
	}
}

func TestRemotePredictor_HandsOutOnce(t *testing.T) {
	p := NewRemotePredictor()
	if _, ok := p.Predict(nil, 0); ok {
		t.Fatal("prediction before any Submit")
	}
	p.Submit(EEGStatePrediction{TargetBeatFreq: 8, Confidence: 0.5})
	p.Submit(EEGStatePrediction{TargetBeatFreq: 9, Confidence: 0.6})

	got, ok := p.Predict(nil, 0)
	if !ok || got.TargetBeatFreq != 9 {
		t.Errorf("Predict = %+v, %v, want latest target 9", got, ok)
	}
	if _, ok := p.Predict(nil, 0); ok {
		t.Error("same prediction handed out twice")
	}
	if p.Received() != 2 {
		t.Errorf("Received = %d, want 2", p.Received())
	}
}

func TestRemotePredictor_ConcurrentSubmit(t *testing.T) {
	p := NewRemotePredictor()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Go(func() {
			for j := 0; j < 100; j++ {
				p.Submit(EEGStatePrediction{Confidence: 0.5})
			}
		})
	}
	wg.Go(func() {
		for j := 0; j < 500; j++ {
			p.Predict(nil, 0)
		}
	})
	wg.Wait()
	if p.Received() != 800 {
		t.Errorf("Received = %d, want 800", p.Received())
	}
}

func TestEEGState_Text(t *testing.T) {
	tests := []struct {
		in   string
		want EEGState
	}{
		{"relaxed", EEGRelaxed},
		{" Focused", EEGFocused},
		{"DROWSY", EEGDrowsy},
		{"anxious", EEGAnxious},
		{"sleepy", EEGUnknown},
	}
	for _, tt := range tests {
		if got := ParseEEGState(tt.in); got != tt.want {
			t.Errorf("ParseEEGState(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if EEGState(42).String() != "unknown" {
		t.Error("out of range state should print as unknown")
	}

	var pred EEGStatePrediction
	body := `{"state":"anxious","alpha":0.1,"beta":0.7,"theta":0.2,"target_beat_freq":10,"confidence":0.7}`
	if err := json.Unmarshal([]byte(body), &pred); err != nil {
		t.Fatal(err)
	}
	if pred.State != EEGAnxious || pred.TargetBeatFreq != 10 {
		t.Errorf("decoded %+v", pred)
	}
	out, _ := json.Marshal(pred)
	if !strings.Contains(string(out), `"state":"anxious"`) {
		t.Errorf("encoded %s", out)
	}
}

func TestLuaPredictor_BuiltinScript(t *testing.T) {
	tests := []struct {
		profile    string
		wantState  EEGState
		wantTarget float64
	}{
		{"relaxed", EEGRelaxed, 10},
		{"anxious", EEGAnxious, 10},
		{"drowsy", EEGDrowsy, 14},
	}
	p, err := LoadLuaPredictor("", nil)
	if err != nil {
		t.Fatalf("LoadLuaPredictor: %v", err)
	}
	defer p.Close()
	if p.Name() != "lua:band_ratio" || p.IsRealtimeCapable() {
		t.Errorf("Name %q realtime %v", p.Name(), p.IsRealtimeCapable())
	}

	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			cfg, err := SyntheticEEGProfile(tt.profile)
			if err != nil {
				t.Fatal(err)
			}
			channels, rate := NewSyntheticEEG(cfg).Window()
			pred, ok := p.Predict(channels, rate)
			if !ok {
				t.Fatal("no prediction")
			}
			if pred.State != tt.wantState || pred.TargetBeatFreq != tt.wantTarget {
				t.Errorf("got %v", pred)
			}
			if pred.Confidence <= 0.5 || pred.Confidence > 1 {
				t.Errorf("confidence = %v, want dominant share above 0.5", pred.Confidence)
			}
			sum := pred.AlphaPower + pred.BetaPower + pred.ThetaPower
			if sum < 0.999 || sum > 1.001 {
				t.Errorf("band shares sum to %v", sum)
			}
		})
	}

	if _, ok := p.Predict(nil, 256); ok {
		t.Error("prediction for empty input")
	}
}

func TestLuaPredictor_CustomScripts(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr error
		wantOK  bool
	}{
		{"fixed", `function predict(c, r) return {state="focused", target=16, confidence=0.9} end`, nil, true},
		{"returns nil", `function predict(c, r) return nil end`, nil, false},
		{"runtime error", `function predict(c, r) error("boom") end`, nil, false},
		{"no predict", `x = 1`, ErrNoPredictFunc, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewLuaPredictor(tt.name, tt.source, newDiscardLogger())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			defer p.Close()
			pred, ok := p.Predict([][]float64{{0, 1, 0, -1}}, 4)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (pred.State != EEGFocused || pred.TargetBeatFreq != 16 || pred.Confidence != 0.9) {
				t.Errorf("got %+v", pred)
			}
		})
	}
}

func TestLuaPredictor_SyntaxError(t *testing.T) {
	if _, err := NewLuaPredictor("bad", "function (", nil); err == nil {
		t.Error("expected compile error")
	}
}

func TestLoadLuaPredictor_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.lua")
	src := `function predict(c, r)
  return {state="relaxed", target=band_power(c[1], r, 0.5, 2) > 0 and 8 or 12, confidence=0.5}
end`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadLuaPredictor(path, nil)
	if err != nil {
		t.Fatalf("LoadLuaPredictor: %v", err)
	}
	defer p.Close()

	// one cycle per second at 8 Hz sampling: all power sits at 1 Hz
	ch := []float64{0, 0.7071, 1, 0.7071, 0, -0.7071, -1, -0.7071, 0, 0.7071, 1, 0.7071, 0, -0.7071, -1, -0.7071}
	pred, ok := p.Predict([][]float64{ch}, 8)
	if !ok || pred.TargetBeatFreq != 8 {
		t.Errorf("Predict = %+v, %v", pred, ok)
	}

	if _, err := LoadLuaPredictor(filepath.Join(t.TempDir(), "missing.lua"), nil); err == nil {
		t.Error("expected error for missing script")
	}
}
