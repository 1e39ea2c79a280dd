package main

import (
	"math"
	"testing"
)

func sine(hz, rate float64, n int, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*hz*float64(i)/rate)
	}
	return out
}

func TestBandPower_SelectsBand(t *testing.T) {
	x := sine(10, 256, 512, 1)
	alpha := BandPower(x, 256, ALPHA_LO, ALPHA_HI)
	beta := BandPower(x, 256, BETA_LO, BETA_HI)
	theta := BandPower(x, 256, THETA_LO, THETA_HI)

	// a unit sine puts (n/2)^2 into one bin, normalised by n^2
	if math.Abs(alpha-0.25) > 1e-6 {
		t.Errorf("alpha power = %v, want 0.25", alpha)
	}
	if beta > 1e-9 || theta > 1e-9 {
		t.Errorf("leakage: beta %v theta %v", beta, theta)
	}
}

func TestBandPower_Degenerate(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		rate    float64
		lo, hi  float64
	}{
		{"empty", nil, 256, 8, 12},
		{"zero rate", []float64{1, 2, 3}, 0, 8, 12},
		{"inverted band", sine(10, 256, 256, 1), 256, 12, 8},
	}
	for _, tt := range tests {
		if got := BandPower(tt.samples, tt.rate, tt.lo, tt.hi); got != 0 {
			t.Errorf("%s: BandPower = %v, want 0", tt.name, got)
		}
	}
}

func TestDominantFrequency(t *testing.T) {
	x := sine(20, 256, 512, 0.3)
	y := sine(6, 256, 512, 1)
	for i := range x {
		x[i] += y[i]
	}
	if got := DominantFrequency(x, 256); got != 6 {
		t.Errorf("DominantFrequency = %v, want 6", got)
	}
	if DominantFrequency(nil, 256) != 0 {
		t.Error("empty input should give 0")
	}
}

func TestSyntheticEEG_WindowShape(t *testing.T) {
	cfg, err := SyntheticEEGProfile("anxious")
	if err != nil {
		t.Fatal(err)
	}
	src := NewSyntheticEEG(cfg)
	a, rate := src.Window()
	b, _ := src.Window()
	if rate != 256 || len(a) != 2 || len(a[0]) != 512 {
		t.Fatalf("window %d x %d at %v Hz", len(a), len(a[0]), rate)
	}
	if DominantFrequency(a[0], rate) != SYNTH_BETA_HZ {
		t.Errorf("anxious dominant = %v, want %v", DominantFrequency(a[0], rate), SYNTH_BETA_HZ)
	}
	same := true
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			same = false
			break
		}
	}
	if same {
		t.Error("consecutive windows are identical; noise should continue")
	}
}

func TestSyntheticEEGProfile_Unknown(t *testing.T) {
	if _, err := SyntheticEEGProfile("euphoric"); err == nil {
		t.Error("expected error for unknown profile")
	}
}
