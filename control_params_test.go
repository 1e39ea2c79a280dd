package main

import (
	"math"
	"testing"
)

func newTestController(manualBeat float64) (*Synthesizer, *SPSCQueue[EEGStatePrediction], *ParameterController) {
	synth := newTestSynth(RendererPhase)
	synth.SetProgram(singleVoiceProgram(manualBeat, 200, 600))
	queue := NewSPSCQueue[EEGStatePrediction]()
	ctrl := NewParameterController(synth, queue, ControllerConfig{RampRate: DEFAULT_RAMP_RATE})
	return synth, queue, ctrl
}

func TestController_ManualFollowsSweep(t *testing.T) {
	synth := newTestSynth(RendererPhase)
	synth.SetProgram(Program{Periods: []Period{{
		LengthSec: 10,
		Voices:    []Voice{NewVoice(2, 12, 200)},
	}}})
	ctrl := NewParameterController(synth, NewSPSCQueue[EEGStatePrediction](), ControllerConfig{})

	ctrl.Update(5)
	if ctrl.IsAIDriven() {
		t.Error("AI driven without predictions")
	}
	if ctrl.State() != ControlManual || ctrl.State().String() != "Manual" {
		t.Errorf("State = %v, want Manual", ctrl.State())
	}
	if got := synth.BeatFreq(); math.Abs(got-7) > 1e-9 {
		t.Errorf("beat = %v, want 7", got)
	}
	if ctrl.CurrentBeatFreq() != 0 {
		t.Errorf("CurrentBeatFreq = %v, want 0 in manual mode", ctrl.CurrentBeatFreq())
	}
}

func TestController_RampsToTarget(t *testing.T) {
	tests := []struct {
		name           string
		manual, target float64
	}{
		{"upward", 4, 15},
		{"downward", 30, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synth, queue, ctrl := newTestController(tt.manual)
			queue.Push(EEGStatePrediction{State: EEGRelaxed, TargetBeatFreq: tt.target, Confidence: 0.8})

			dt := ctrl.Config().Dt
			ticks := int(math.Ceil(math.Abs(tt.target-tt.manual) / (DEFAULT_RAMP_RATE * dt)))
			up := tt.target > tt.manual
			for i := 1; i <= ticks; i++ {
				ctrl.Update(synth.PeriodElapsedSec())
				got := ctrl.CurrentBeatFreq()
				if (up && got > tt.target) || (!up && got < tt.target) {
					t.Fatalf("tick %d: %v overshoots %v", i, got, tt.target)
				}
				if i < ticks && got == tt.target {
					t.Fatalf("reached %v after %d ticks, want exactly %d", tt.target, i, ticks)
				}
			}

			if !ctrl.IsAIDriven() {
				t.Fatal("controller not AI driven")
			}
			if got := ctrl.CurrentBeatFreq(); got != tt.target {
				t.Errorf("after %d ticks CurrentBeatFreq = %v, want %v", ticks, got, tt.target)
			}
			if synth.BeatFreq() != tt.target {
				t.Errorf("synth beat = %v, want %v", synth.BeatFreq(), tt.target)
			}
			if ctrl.State().String() != "AI" {
				t.Errorf("State = %v, want AI", ctrl.State())
			}

			ctrl.Update(synth.PeriodElapsedSec())
			if got := ctrl.CurrentBeatFreq(); got != tt.target {
				t.Errorf("held target drifted to %v", got)
			}
		})
	}
}

func TestController_RampIsRateLimited(t *testing.T) {
	_, queue, ctrl := newTestController(4)
	queue.Push(EEGStatePrediction{TargetBeatFreq: 30, Confidence: 0.9})

	step := DEFAULT_RAMP_RATE * ctrl.Config().Dt
	prev := 4.0
	for i := 0; i < 20; i++ {
		ctrl.Update(0)
		got := ctrl.CurrentBeatFreq()
		if d := got - prev; d > step+1e-12 || d < 0 {
			t.Fatalf("tick %d moved %v, want at most %v upward", i, d, step)
		}
		prev = got
	}
}

func TestController_TargetClamped(t *testing.T) {
	tests := []struct {
		name   string
		target float64
		want   float64
	}{
		{"above range", 100, BEAT_FREQ_MAX},
		{"below range", 0.01, BEAT_FREQ_MIN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synth, queue, ctrl := newTestController(BEAT_FREQ_MIN + (BEAT_FREQ_MAX-BEAT_FREQ_MIN)/2)
			queue.Push(EEGStatePrediction{TargetBeatFreq: tt.target, Confidence: 1})
			for i := 0; i < 1000; i++ {
				ctrl.Update(synth.PeriodElapsedSec())
			}
			if got := ctrl.CurrentBeatFreq(); got != tt.want {
				t.Errorf("CurrentBeatFreq = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestController_ConfidenceGate(t *testing.T) {
	tests := []struct {
		confidence float64
		wantAI     bool
	}{
		{0, false},
		{CONFIDENCE_GATE, false},
		{0.011, true},
		{0.8, true},
	}
	for _, tt := range tests {
		synth, queue, ctrl := newTestController(4)
		queue.Push(EEGStatePrediction{TargetBeatFreq: 12, Confidence: tt.confidence})
		ctrl.Update(synth.PeriodElapsedSec())
		if ctrl.IsAIDriven() != tt.wantAI {
			t.Errorf("confidence %v: AI driven = %v, want %v", tt.confidence, ctrl.IsAIDriven(), tt.wantAI)
		}
		if !tt.wantAI && synth.BeatFreq() != 4 {
			t.Errorf("confidence %v: beat = %v, want manual 4", tt.confidence, synth.BeatFreq())
		}
	}
}

func TestController_HeldPredictionSurvivesLowConfidence(t *testing.T) {
	synth, queue, ctrl := newTestController(4)
	queue.Push(EEGStatePrediction{TargetBeatFreq: 12, Confidence: 0.9})
	ctrl.Update(synth.PeriodElapsedSec())

	// weak predictions are ignored, the strong one keeps steering
	queue.Push(EEGStatePrediction{TargetBeatFreq: 30, Confidence: 0.001})
	ctrl.Update(synth.PeriodElapsedSec())
	if !ctrl.IsAIDriven() {
		t.Error("weak prediction dropped AI control")
	}
}

func TestController_ClearMidRamp(t *testing.T) {
	synth, queue, ctrl := newTestController(4)
	queue.Push(EEGStatePrediction{TargetBeatFreq: 15, Confidence: 0.8})
	for i := 0; i < 10; i++ {
		ctrl.Update(synth.PeriodElapsedSec())
	}
	if ctrl.CurrentBeatFreq() <= 4 {
		t.Fatalf("ramp did not start: %v", ctrl.CurrentBeatFreq())
	}

	ctrl.ClearAIState()
	if ctrl.IsAIDriven() {
		t.Error("ClearAIState did not drop the flag immediately")
	}
	ctrl.Update(synth.PeriodElapsedSec())

	if ctrl.IsAIDriven() {
		t.Error("AI driven after clear")
	}
	if ctrl.CurrentBeatFreq() != 0 {
		t.Errorf("CurrentBeatFreq = %v, want 0", ctrl.CurrentBeatFreq())
	}
	if synth.BeatFreq() != 4 {
		t.Errorf("synth beat = %v, want manual 4", synth.BeatFreq())
	}

	// the held prediction is gone too
	ctrl.Update(synth.PeriodElapsedSec())
	if ctrl.IsAIDriven() {
		t.Error("held prediction resumed after clear")
	}
}

func TestController_RampRestartsFromPeriodStart(t *testing.T) {
	synth, queue, ctrl := newTestController(6)
	queue.Push(EEGStatePrediction{TargetBeatFreq: 20, Confidence: 0.8})
	ctrl.Update(synth.PeriodElapsedSec())
	ctrl.ClearAIState()
	ctrl.Update(synth.PeriodElapsedSec())

	queue.Push(EEGStatePrediction{TargetBeatFreq: 20, Confidence: 0.8})
	ctrl.Update(synth.PeriodElapsedSec())
	want := 6 + DEFAULT_RAMP_RATE*ctrl.Config().Dt
	if got := ctrl.CurrentBeatFreq(); math.Abs(got-want) > 1e-9 {
		t.Errorf("CurrentBeatFreq = %v, want %v", got, want)
	}
}

func TestController_EmptyProgram(t *testing.T) {
	synth := newTestSynth(RendererPhase)
	synth.SetProgram(Program{})
	queue := NewSPSCQueue[EEGStatePrediction]()
	ctrl := NewParameterController(synth, queue, ControllerConfig{})
	queue.Push(EEGStatePrediction{TargetBeatFreq: 10, Confidence: 0.8})

	ctrl.Update(0)
	if !ctrl.IsAIDriven() {
		t.Error("prediction ignored on empty program")
	}
	if synth.BeatFreq() != 0 {
		t.Errorf("synth beat = %v, want 0", synth.BeatFreq())
	}
}
