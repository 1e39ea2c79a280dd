package main

import (
	"math"
	"testing"
)

func singleVoiceProgram(beat, pitch, length float64) Program {
	return Program{
		Name: "test",
		Periods: []Period{{
			LengthSec: length,
			Voices:    []Voice{NewVoice(beat, beat, pitch)},
		}},
	}
}

func newTestSynth(r Renderer) *Synthesizer {
	return NewSynthesizer(SynthConfig{SampleRate: 44100, BufferFrames: 2048, Renderer: r})
}

func peakAbs(buf []int16) int {
	peak := 0
	for _, v := range buf {
		a := int(v)
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
		}
	}
	return peak
}

// ============================================================================
// Rendering
// ============================================================================

func TestSynth_FirstBufferAudible(t *testing.T) {
	for _, r := range []Renderer{RendererPhase, RendererLUT} {
		t.Run(r.String(), func(t *testing.T) {
			s := newTestSynth(r)
			s.SetProgram(singleVoiceProgram(10, 161, 10))

			buf := make([]int16, 2048*2)
			s.FillSamples(buf)
			if peakAbs(buf) == 0 {
				t.Fatal("first buffer is silent")
			}
			// fade starts at FADE_MIN and the single voice is at 0.7 volume
			limit := int(math.Ceil(INT16_SCALE*DEFAULT_VOICE_VOLUME)) + 1
			if p := peakAbs(buf); p > limit {
				t.Errorf("peak %d exceeds %d", p, limit)
			}
		})
	}
}

func TestSynth_EmptyProgramIsSilent(t *testing.T) {
	tests := []struct {
		name string
		prog Program
	}{
		{"no periods", Program{}},
		{"no voices", Program{Periods: []Period{{LengthSec: 5}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSynth(RendererPhase)
			s.SetProgram(tt.prog)
			buf := make([]int16, 256)
			for i := range buf {
				buf[i] = 123
			}
			s.FillSamples(buf)
			if peakAbs(buf) != 0 {
				t.Error("expected silence")
			}
			s.AdvanceTime(1)
			if s.BeatFreq() != 0 {
				t.Errorf("BeatFreq = %v, want 0", s.BeatFreq())
			}
		})
	}
}

func TestSynth_PhasesStayInRange(t *testing.T) {
	s := newTestSynth(RendererPhase)
	prog := singleVoiceProgram(7.83, 200, 30)
	prog.Periods[0].Voices = append(prog.Periods[0].Voices, Voice{FreqStart: 4, FreqEnd: 4, Volume: 0.5, Pitch: PITCH_FROM_INDEX, Isochronic: true})
	s.SetProgram(prog)

	buf := make([]int16, 2048*2)
	for i := 0; i < 50; i++ {
		s.FillSamples(buf)
		s.AdvanceTime(s.Config().BufferSeconds())
		for j := range s.phaseL {
			for _, ph := range []float64{s.phaseL[j], s.phaseR[j], s.phaseIso[j]} {
				if ph < 0 || ph >= 1 {
					t.Fatalf("buffer %d voice %d: phase %v outside [0,1)", i, j, ph)
				}
			}
		}
	}
}

func TestSynth_LUTAnglesStayInRange(t *testing.T) {
	s := newTestSynth(RendererLUT)
	prog := singleVoiceProgram(12, 432, 30)
	prog.Periods[0].Voices[0].Isochronic = true
	s.SetProgram(prog)

	buf := make([]int16, 2048*2)
	size := float64(s.table.Size())
	for i := 0; i < 50; i++ {
		s.FillSamples(buf)
		for _, a := range []float64{s.angleL[0], s.angleR[0], s.angleIso[0]} {
			if a < 0 || a >= size {
				t.Fatalf("buffer %d: angle %v outside [0,%v)", i, a, size)
			}
		}
	}
}

func TestSynth_BinauralChannelsDiffer(t *testing.T) {
	s := newTestSynth(RendererPhase)
	s.SetProgram(singleVoiceProgram(10, 200, 60))

	buf := make([]int16, 2048*2)
	s.FillSamples(buf)
	differ := false
	for i := 0; i+1 < len(buf); i += 2 {
		if buf[i] != buf[i+1] {
			differ = true
			break
		}
	}
	if !differ {
		t.Error("left and right are identical for a binaural voice")
	}
}

func TestSynth_IsochronicGateSilencesSecondHalf(t *testing.T) {
	// beat 10 Hz at 44100: gate is open for 2205 frames then closed for 2205
	s := NewSynthesizer(SynthConfig{SampleRate: 44100, BufferFrames: 4410})
	prog := singleVoiceProgram(10, 200, 60)
	prog.Periods[0].Voices[0].Isochronic = true
	s.SetProgram(prog)

	buf := make([]int16, 4410*2)
	s.FillSamples(buf)
	if peakAbs(buf[:2000*2]) == 0 {
		t.Error("gate closed during first half of the cycle")
	}
	if p := peakAbs(buf[2210*2 : 4400*2]); p != 0 {
		t.Errorf("gate open during second half of the cycle, peak %d", p)
	}
}

func TestSynth_Balance(t *testing.T) {
	tests := []struct {
		name        string
		balance     float64
		leftSilent  bool
		rightSilent bool
	}{
		{"centre", 0, false, false},
		{"full left", -1, false, true},
		{"full right", 1, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSynth(RendererPhase)
			s.SetProgram(singleVoiceProgram(6, 200, 60))
			s.SetBalance(tt.balance)

			buf := make([]int16, 2048*2)
			s.FillSamples(buf)
			left := make([]int16, 0, 2048)
			right := make([]int16, 0, 2048)
			for i := 0; i < len(buf); i += 2 {
				left = append(left, buf[i])
				right = append(right, buf[i+1])
			}
			if got := peakAbs(left) == 0; got != tt.leftSilent {
				t.Errorf("left silent = %v, want %v", got, tt.leftSilent)
			}
			if got := peakAbs(right) == 0; got != tt.rightSilent {
				t.Errorf("right silent = %v, want %v", got, tt.rightSilent)
			}
		})
	}
}

func TestSynth_VolumeAndBalanceClamp(t *testing.T) {
	s := newTestSynth(RendererPhase)
	tests := []struct {
		in, wantVol, wantBal float64
	}{
		{-1, 0, -1},
		{5, VOLUME_MULT_MAX, 1},
		{math.NaN(), 0, -1},
		{0.5, 0.5, 0.5},
	}
	for _, tt := range tests {
		s.SetVolumeMultiplier(tt.in)
		s.SetBalance(tt.in)
		if got := s.VolumeMultiplier(); got != tt.wantVol {
			t.Errorf("SetVolumeMultiplier(%v) -> %v, want %v", tt.in, got, tt.wantVol)
		}
		if got := s.Balance(); got != tt.wantBal {
			t.Errorf("SetBalance(%v) -> %v, want %v", tt.in, got, tt.wantBal)
		}
	}
}

func TestSynth_MutedVolumeIsSilent(t *testing.T) {
	s := newTestSynth(RendererLUT)
	prog := singleVoiceProgram(6, 200, 60)
	prog.Periods[0].Background = BackgroundPink
	prog.Periods[0].BackgroundVol = 0.5
	s.SetProgram(prog)
	s.SetVolumeMultiplier(0)

	buf := make([]int16, 2048*2)
	s.FillSamples(buf)
	if p := peakAbs(buf); p != 0 {
		t.Errorf("peak %d with zero volume", p)
	}
}

func TestSynth_NoiseOnlyWhenVoicesSilent(t *testing.T) {
	s := newTestSynth(RendererPhase)
	prog := singleVoiceProgram(6, 200, 60)
	prog.Periods[0].Voices[0].Volume = 0
	prog.Periods[0].Background = BackgroundWhite
	prog.Periods[0].BackgroundVol = 1
	s.SetProgram(prog)

	buf := make([]int16, 2048*2)
	s.FillSamples(buf)
	if peakAbs(buf) == 0 {
		t.Error("white background produced no output")
	}
	// noise gain is backgroundVol * fade * 0.5 full scale
	if p := peakAbs(buf); p > int(math.Ceil(INT16_SCALE*NOISE_MIX_SCALE))+1 {
		t.Errorf("noise peak %d above mix scale", p)
	}
}

func TestSynth_OddLengthBuffer(t *testing.T) {
	s := newTestSynth(RendererPhase)
	s.SetProgram(singleVoiceProgram(6, 200, 60))
	buf := make([]int16, 101)
	buf[100] = 999
	s.FillSamples(buf)
	if buf[100] != 0 {
		t.Errorf("trailing sample = %d, want 0", buf[100])
	}
}

// ============================================================================
// Fade
// ============================================================================

func TestFadeAt(t *testing.T) {
	tests := []struct {
		name    string
		length  float64
		elapsed float64
		want    float64
	}{
		{"short period has no fade", 4, 0, 1},
		{"start", 60, 0, FADE_MIN},
		{"mid fade-in", 60, 1.25, FADE_MIN + 0.5*(1-FADE_MIN)},
		{"steady", 60, 30, 1},
		{"end", 60, 60, FADE_MIN},
		{"mid fade-out", 60, 58.75, FADE_MIN + 0.5*(1-FADE_MIN)},
		{"past end clamps", 60, 70, FADE_MIN},
		{"exactly five seconds", 5, 2.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FadeAt(Period{LengthSec: tt.length}, tt.elapsed)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("FadeAt(%v, %v) = %v, want %v", tt.length, tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestFadeAt_AlwaysInRange(t *testing.T) {
	for length := 0.0; length < 20; length += 0.7 {
		for e := -1.0; e < 25; e += 0.3 {
			f := FadeAt(Period{LengthSec: length}, e)
			if f < FADE_MIN || f > 1 {
				t.Fatalf("FadeAt(%v, %v) = %v outside [%v,1]", length, e, f, FADE_MIN)
			}
		}
	}
}

// ============================================================================
// Period clock
// ============================================================================

func TestAdvanceTime_SinglePeriodKeepsOvershoot(t *testing.T) {
	s := newTestSynth(RendererPhase)
	s.SetProgram(singleVoiceProgram(10, 161, 10))

	s.AdvanceTime(10)
	if s.CurrentPeriodIndex() != 0 {
		t.Errorf("period index = %d, want 0", s.CurrentPeriodIndex())
	}
	if s.PeriodElapsedSec() != 0 {
		t.Errorf("elapsed = %v, want 0", s.PeriodElapsedSec())
	}

	s.AdvanceTime(10.5)
	if got := s.PeriodElapsedSec(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("elapsed after overshoot = %v, want 0.5", got)
	}
}

func TestAdvanceTime_MultiPeriodWrapResets(t *testing.T) {
	prog := Program{Periods: []Period{
		{LengthSec: 2, Voices: []Voice{NewVoice(4, 4, 200)}},
		{LengthSec: 3, Voices: []Voice{NewVoice(8, 8, 200)}},
	}}
	s := newTestSynth(RendererPhase)
	s.SetProgram(prog)

	s.AdvanceTime(2.25)
	if s.CurrentPeriodIndex() != 1 {
		t.Fatalf("period index = %d, want 1", s.CurrentPeriodIndex())
	}
	if got := s.PeriodElapsedSec(); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("elapsed = %v, want 0.25 carried over", got)
	}

	s.AdvanceTime(3)
	if s.CurrentPeriodIndex() != 0 {
		t.Fatalf("period index = %d, want 0", s.CurrentPeriodIndex())
	}
	if s.PeriodElapsedSec() != 0 {
		t.Errorf("elapsed = %v, want 0 after wrapping to the first period", s.PeriodElapsedSec())
	}
}

func TestAdvanceTime_PeriodChangeKeepsFrequencies(t *testing.T) {
	prog := Program{Periods: []Period{
		{LengthSec: 1, Voices: []Voice{NewVoice(4, 4, 200)}},
		{LengthSec: 1, Voices: []Voice{{FreqStart: 9, FreqEnd: 9, Volume: 0.3, Pitch: 300, Isochronic: true}}},
	}}
	s := newTestSynth(RendererPhase)
	s.SetProgram(prog)
	s.AdvanceTime(1)

	if s.BeatFreq() != 4 {
		t.Errorf("BeatFreq = %v, want 4 until the next sweep", s.BeatFreq())
	}
	if s.vols[0] != 0.3 || s.pitches[0] != 300 || !s.iso[0] {
		t.Errorf("voice params not refreshed: vol %v pitch %v iso %v", s.vols[0], s.pitches[0], s.iso[0])
	}
}

func TestAdvanceTime_VoiceCountChangeReinitializes(t *testing.T) {
	prog := Program{Periods: []Period{
		{LengthSec: 1, Voices: []Voice{NewVoice(4, 4, 200)}},
		{LengthSec: 1, Voices: []Voice{NewVoice(5, 5, 200), NewVoice(6, 6, PITCH_FROM_INDEX)}},
	}}
	s := newTestSynth(RendererPhase)
	s.SetProgram(prog)
	s.AdvanceTime(1)

	buf := make([]int16, 64)
	s.FillSamples(buf)
	if len(s.freqs) != 2 {
		t.Fatalf("state sized for %d voices, want 2", len(s.freqs))
	}
	if s.freqs[1] != 6 {
		t.Errorf("freqs[1] = %v, want 6", s.freqs[1])
	}
	if s.pitches[1] != voicePitch(1) {
		t.Errorf("pitches[1] = %v, want derived %v", s.pitches[1], voicePitch(1))
	}
}

// ============================================================================
// Frequencies
// ============================================================================

func TestSkewVoices_UsesVoiceZeroSweep(t *testing.T) {
	prog := Program{Periods: []Period{{
		LengthSec: 10,
		Voices:    []Voice{NewVoice(4, 14, 200), NewVoice(30, 30, 200)},
	}}}
	s := newTestSynth(RendererPhase)
	s.SetProgram(prog)

	tests := []struct {
		elapsed, want float64
	}{
		{0, 4},
		{5, 9},
		{10, 14},
	}
	for _, tt := range tests {
		s.SkewVoices(tt.elapsed)
		for j, f := range s.freqs {
			if math.Abs(f-tt.want) > 1e-9 {
				t.Errorf("elapsed %v voice %d: freq %v, want %v", tt.elapsed, j, f, tt.want)
			}
		}
	}
}

func TestSetFreqs_CopiesPrefix(t *testing.T) {
	prog := Program{Periods: []Period{{
		LengthSec: 10,
		Voices:    []Voice{NewVoice(4, 4, 200), NewVoice(5, 5, 200)},
	}}}
	s := newTestSynth(RendererPhase)
	s.SetProgram(prog)

	in := []float64{11}
	s.SetFreqs(in)
	in[0] = 99
	if s.freqs[0] != 11 || s.freqs[1] != 5 {
		t.Errorf("freqs = %v, want [11 5]", s.freqs)
	}

	s.SetFreqs([]float64{1, 2, 3})
	if len(s.freqs) != 2 || s.freqs[1] != 2 {
		t.Errorf("freqs = %v, want [1 2]", s.freqs)
	}
}

func TestSetProgram_ResetsState(t *testing.T) {
	s := newTestSynth(RendererPhase)
	s.SetProgram(singleVoiceProgram(10, 161, 10))
	buf := make([]int16, 512)
	s.FillSamples(buf)
	s.AdvanceTime(3)

	prog := singleVoiceProgram(6, 161, 10)
	s.SetProgram(prog)
	prog.Periods[0].Voices[0].FreqStart = 40

	if s.PeriodElapsedSec() != 0 || s.CurrentPeriodIndex() != 0 {
		t.Errorf("clock not reset: index %d elapsed %v", s.CurrentPeriodIndex(), s.PeriodElapsedSec())
	}
	if s.phaseL[0] != 0 || s.phaseR[0] != 0 {
		t.Error("phases not reset")
	}
	if s.BeatFreq() != 6 {
		t.Errorf("BeatFreq = %v, want 6 (program must be copied)", s.BeatFreq())
	}
}

func TestClampInt16(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{1.9, 1},
		{-1.9, -1},
		{40000, 32767},
		{-40000, -32768},
		{math.NaN(), 0},
		{math.Inf(1), 32767},
	}
	for _, tt := range tests {
		if got := clampInt16(tt.in); got != tt.want {
			t.Errorf("clampInt16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseRenderer(t *testing.T) {
	tests := []struct {
		in      string
		want    Renderer
		wantErr bool
	}{
		{"", RendererPhase, false},
		{"phase", RendererPhase, false},
		{"LUT", RendererLUT, false},
		{"fm", RendererPhase, true},
	}
	for _, tt := range tests {
		got, err := ParseRenderer(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseRenderer(%q) = %v, %v", tt.in, got, err)
		}
	}
}

// renderFrames fills n stereo frames without advancing the period clock.
func renderFrames(s *Synthesizer, n int) (left, right []float64) {
	buf := make([]int16, 2048*2)
	for len(left) < n {
		s.FillSamples(buf)
		for i := 0; i+1 < len(buf) && len(left) < n; i += 2 {
			left = append(left, float64(buf[i]))
			right = append(right, float64(buf[i+1]))
		}
	}
	return left, right
}

func TestSynth_RenderersAgree(t *testing.T) {
	const sr = 44100.0

	t.Run("isochronic gate closes", func(t *testing.T) {
		for _, r := range []Renderer{RendererPhase, RendererLUT} {
			s := newTestSynth(r)
			prog := singleVoiceProgram(10, 161, 60)
			prog.Periods[0].Voices[0].Isochronic = true
			s.SetProgram(prog)

			left, right := renderFrames(s, 4410)
			// 10 Hz gate: open for frames [0,2205), closed for [2205,4410)
			for i := 2300; i < 4300; i++ {
				if left[i] != 0 || right[i] != 0 {
					t.Fatalf("%s: frame %d = (%v, %v) while the gate is closed", r, i, left[i], right[i])
				}
			}
			open := 0.0
			for _, v := range left[:2000] {
				open = math.Max(open, math.Abs(v))
			}
			if open == 0 {
				t.Errorf("%s: gate never opened", r)
			}
		}
	})

	t.Run("beat frequency", func(t *testing.T) {
		const n = 1 << 15
		binHz := sr / n
		var got [2][2]float64
		for k, r := range []Renderer{RendererPhase, RendererLUT} {
			s := newTestSynth(r)
			s.SetProgram(singleVoiceProgram(10, 161, 60))
			left, right := renderFrames(s, n)
			got[k][0] = DominantFrequency(left, sr)
			got[k][1] = DominantFrequency(right, sr)

			if d := math.Abs(got[k][0] - 171); d > binHz {
				t.Errorf("%s: left at %.2f Hz, want 171", r, got[k][0])
			}
			if d := math.Abs(got[k][1] - 161); d > binHz {
				t.Errorf("%s: right at %.2f Hz, want 161", r, got[k][1])
			}
			if beat := got[k][0] - got[k][1]; math.Abs(beat-10) > 2*binHz {
				t.Errorf("%s: beat %.2f Hz, want 10", r, beat)
			}
		}
		if got[0] != got[1] {
			t.Errorf("renderers disagree: phase %v, lut %v", got[0], got[1])
		}
	})
}
