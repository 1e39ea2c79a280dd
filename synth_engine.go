// synth_engine.go - Binaural/isochronic synthesizer: voice mixing, fade, noise and period timeline

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
	"fmt"
	"math"
	"strings"
	"sync/atomic"
)

// Renderer selects how voice oscillators are evaluated.
type Renderer int

const (
	RendererPhase Renderer = iota // continuous floating phase, exact sine
	RendererLUT                   // integer angle accumulation over a SinTable
)

func (r Renderer) String() string {
	if r == RendererLUT {
		return "lut"
	}
	return "phase"
}

// ParseRenderer accepts "phase" or "lut".
func ParseRenderer(s string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "phase":
		return RendererPhase, nil
	case "lut":
		return RendererLUT, nil
	}
	return RendererPhase, fmt.Errorf("unknown renderer %q (want phase or lut)", s)
}

type SynthConfig struct {
	SampleRate   int
	BufferFrames int
	TableSize    int // LUT entries per cycle
	Renderer     Renderer
}

func (c SynthConfig) withDefaults() SynthConfig {
	if c.SampleRate <= 0 {
		c.SampleRate = DEFAULT_SAMPLE_RATE
	}
	if c.BufferFrames <= 0 {
		c.BufferFrames = DEFAULT_BUFFER_FRAMES
	}
	if c.TableSize <= 0 {
		c.TableSize = SIN_TABLE_SIZE
	}
	return c
}

// BufferSeconds is the duration covered by one rendered buffer.
func (c SynthConfig) BufferSeconds() float64 {
	return float64(c.BufferFrames) / float64(c.SampleRate)
}

// Synthesizer renders a Program into interleaved int16 stereo buffers.
//
// Everything except the volume multiplier and balance belongs to the render
// goroutine: SetProgram, SetFreqs, SkewVoices, FillSamples and AdvanceTime
// must be called from that goroutine (or while no sink is running). The
// volume multiplier and balance are atomics so that control surfaces can
// change them at any time.
type Synthesizer struct {
	cfg   SynthConfig
	table *SinTable

	program     Program
	periodIndex int
	elapsed     float64

	// Runtime voice state, always sized to the active period's voice count
	freqs    []float64
	vols     []float64
	pitches  []float64
	iso      []bool
	phaseL   []float64
	phaseR   []float64
	phaseIso []float64
	angleL   []float64
	angleR   []float64
	angleIso []float64

	mixL []float64
	mixR []float64

	pink  *PinkNoise
	white *WhiteNoise

	volumeBits  atomic.Uint64
	balanceBits atomic.Uint64
}

func NewSynthesizer(cfg SynthConfig) *Synthesizer {
	cfg = cfg.withDefaults()
	s := &Synthesizer{
		cfg:   cfg,
		table: NewSinTable(cfg.TableSize),
		mixL:  make([]float64, cfg.BufferFrames),
		mixR:  make([]float64, cfg.BufferFrames),
		pink:  NewPinkNoise(),
		white: NewWhiteNoise(),
	}
	s.volumeBits.Store(math.Float64bits(1.0))
	return s
}

func (s *Synthesizer) Config() SynthConfig { return s.cfg }

// SetProgram replaces the schedule and restarts it from the first period.
func (s *Synthesizer) SetProgram(p Program) {
	s.program = p.Clone()
	s.periodIndex = 0
	s.elapsed = 0
	s.pink.Reset()
	s.white.Reset()
	if per := s.activePeriod(); per != nil {
		s.initState(per)
		return
	}
	s.initState(&Period{})
}

// Program returns the active schedule. Callers must treat it as read-only.
func (s *Synthesizer) Program() Program { return s.program }

// SetFreqs overrides the per-voice beat frequencies of the active period.
// Entries beyond the voice count are ignored; missing entries keep their value.
func (s *Synthesizer) SetFreqs(freqs []float64) {
	s.ensureStateSize()
	copy(s.freqs, freqs)
}

func (s *Synthesizer) SetVolumeMultiplier(v float64) {
	s.volumeBits.Store(math.Float64bits(clampFloat(v, 0, VOLUME_MULT_MAX)))
}

func (s *Synthesizer) VolumeMultiplier() float64 {
	return math.Float64frombits(s.volumeBits.Load())
}

// SetBalance sets stereo balance: -1 full left, 0 centre, 1 full right.
func (s *Synthesizer) SetBalance(b float64) {
	s.balanceBits.Store(math.Float64bits(clampFloat(b, -1, 1)))
}

func (s *Synthesizer) Balance() float64 {
	return math.Float64frombits(s.balanceBits.Load())
}

// SkewVoices applies the manual sweep of voice 0 to every voice.
func (s *Synthesizer) SkewVoices(periodElapsedSec float64) {
	per := s.activePeriod()
	if per == nil || len(per.Voices) == 0 || per.LengthSec <= 0 {
		return
	}
	s.ensureStateSize()

	v0 := per.Voices[0]
	f := v0.FreqStart + (v0.FreqEnd-v0.FreqStart)*periodElapsedSec/per.LengthSec
	for j := range s.freqs {
		s.freqs[j] = f
	}
}

// FadeAt returns the amplitude envelope of a period at the given elapsed time.
func FadeAt(per Period, elapsed float64) float64 {
	if per.LengthSec < FADE_INOUT_PERIOD {
		return 1.0
	}
	window := math.Min(FADE_INOUT_PERIOD/2, per.LengthSec/2)
	fade := 1.0
	if elapsed < window {
		fade = FADE_MIN + (elapsed/window)*(1-FADE_MIN)
	} else if remaining := per.LengthSec - elapsed; remaining < window {
		fade = FADE_MIN + (remaining/window)*(1-FADE_MIN)
	}
	return clampFloat(fade, FADE_MIN, 1.0)
}

// FillSamples renders len(out)/2 interleaved stereo frames [L0,R0,L1,R1,...].
// The render contract calls it with BufferFrames*2 samples.
func (s *Synthesizer) FillSamples(out []int16) {
	per := s.activePeriod()
	if per == nil || len(per.Voices) == 0 {
		clear(out)
		return
	}
	s.ensureStateSize()

	frames := len(out) / 2
	if frames > len(s.mixL) {
		s.mixL = make([]float64, frames)
		s.mixR = make([]float64, frames)
	}
	mixL := s.mixL[:frames]
	mixR := s.mixR[:frames]
	clear(mixL)
	clear(mixR)

	fade := FadeAt(*per, s.elapsed)
	volMult := s.VolumeMultiplier()
	balance := s.Balance()

	for j := range per.Voices {
		gain := s.vols[j] * fade * volMult
		if s.cfg.Renderer == RendererLUT {
			s.renderVoiceLUT(j, gain, mixL, mixR)
		} else {
			s.renderVoicePhase(j, gain, mixL, mixR)
		}
	}

	multL := 1 - math.Max(0, balance)
	multR := 1 - math.Max(0, -balance)
	norm := INT16_SCALE / float64(len(per.Voices))

	var noise NoiseSource
	switch per.Background {
	case BackgroundPink:
		noise = s.pink
	case BackgroundWhite:
		noise = s.white
	}
	noiseGain := per.BackgroundVol * fade * volMult * NOISE_MIX_SCALE * INT16_SCALE

	for i := 0; i < frames; i++ {
		l := mixL[i] * norm * multL
		r := mixR[i] * norm * multR
		if noise != nil {
			n := noise.Tick() * noiseGain
			l += n * multL
			r += n * multR
		}
		out[2*i] = clampInt16(l)
		out[2*i+1] = clampInt16(r)
	}
	if len(out)%2 == 1 {
		out[len(out)-1] = 0
	}
}

func (s *Synthesizer) renderVoicePhase(j int, gain float64, mixL, mixR []float64) {
	sr := s.cfg.SampleRate
	beat := s.freqs[j]
	carrier := s.pitches[j]
	incL := phaseStep(carrier+beat, sr)
	incR := phaseStep(carrier, sr)
	incIso := phaseStep(beat, sr)

	phL, phR, phIso := s.phaseL[j], s.phaseR[j], s.phaseIso[j]
	iso := s.iso[j]

	for i := range mixL {
		g := gain
		if iso {
			if phIso < 0.5 {
				g *= math.Cos(phIso * math.Pi)
			} else {
				g = 0
			}
			phIso = advancePhase(phIso, incIso)
		}
		mixL[i] += math.Sin(2*math.Pi*phL) * g
		mixR[i] += math.Sin(2*math.Pi*phR) * g
		phL = advancePhase(phL, incL)
		phR = advancePhase(phR, incR)
	}

	s.phaseL[j], s.phaseR[j], s.phaseIso[j] = phL, phR, phIso
}

func (s *Synthesizer) renderVoiceLUT(j int, gain float64, mixL, mixR []float64) {
	size := s.table.size
	sr := s.cfg.SampleRate
	beat := s.freqs[j]
	carrier := s.pitches[j]
	incL := angleStep(carrier+beat, size, sr)
	incR := angleStep(carrier, size, sr)
	incIso := angleStep(beat, size, sr)

	aL, aR, aIso := s.angleL[j], s.angleR[j], s.angleIso[j]
	iso := s.iso[j]
	half := float64(size) / 2

	for i := range mixL {
		g := gain
		if iso {
			if aIso < half {
				// cos(pi*aIso/size) is half the table angle
				g *= s.table.CosFloat(aIso * 0.5)
			} else {
				g = 0
			}
			aIso = advanceAngle(aIso, incIso, size)
		}
		mixL[i] += s.table.SinFloat(aL) * g
		mixR[i] += s.table.SinFloat(aR) * g
		aL = advanceAngle(aL, incL, size)
		aR = advanceAngle(aR, incR, size)
	}

	s.angleL[j], s.angleR[j], s.angleIso[j] = aL, aR, aIso
}

// AdvanceTime moves the period clock forward. When the active period runs out
// the index wraps to the next period and the overshoot carries over, except
// that wrapping back to the first period of a multi-period program restarts
// it at exactly zero.
func (s *Synthesizer) AdvanceTime(sec float64) {
	s.elapsed += sec
	if len(s.program.Periods) == 0 {
		return
	}

	per := &s.program.Periods[s.periodIndex]
	if s.elapsed >= per.LengthSec {
		s.elapsed -= math.Max(per.LengthSec, 0)
		s.periodIndex = (s.periodIndex + 1) % len(s.program.Periods)
		if s.periodIndex == 0 && len(s.program.Periods) > 1 {
			s.elapsed = 0
		}
		// Same voice count: the new period's volume, carrier and gating take
		// effect now instead of carrying the previous period's values.
		s.syncVoiceParams()
	}
}

// CurrentPeriod returns the active period, false for an empty program.
func (s *Synthesizer) CurrentPeriod() (Period, bool) {
	per := s.activePeriod()
	if per == nil {
		return Period{}, false
	}
	return *per, true
}

func (s *Synthesizer) CurrentPeriodIndex() int { return s.periodIndex }

func (s *Synthesizer) PeriodElapsedSec() float64 { return s.elapsed }

// BeatFreq returns voice 0's runtime beat frequency, 0 when silent.
func (s *Synthesizer) BeatFreq() float64 {
	if len(s.freqs) == 0 {
		return 0
	}
	return s.freqs[0]
}

func (s *Synthesizer) activePeriod() *Period {
	if len(s.program.Periods) == 0 {
		return nil
	}
	return &s.program.Periods[s.periodIndex]
}

// ensureStateSize rebuilds runtime voice state when the active period's
// voice count differs from the current state.
func (s *Synthesizer) ensureStateSize() {
	per := s.activePeriod()
	if per == nil || len(per.Voices) == len(s.freqs) {
		return
	}
	s.initState(per)
}

func (s *Synthesizer) initState(per *Period) {
	n := len(per.Voices)
	s.freqs = resizeSlice(s.freqs, n)
	s.vols = resizeSlice(s.vols, n)
	s.pitches = resizeSlice(s.pitches, n)
	s.iso = resizeSlice(s.iso, n)
	s.phaseL = resizeSlice(s.phaseL, n)
	s.phaseR = resizeSlice(s.phaseR, n)
	s.phaseIso = resizeSlice(s.phaseIso, n)
	s.angleL = resizeSlice(s.angleL, n)
	s.angleR = resizeSlice(s.angleR, n)
	s.angleIso = resizeSlice(s.angleIso, n)

	for j, v := range per.Voices {
		s.freqs[j] = v.FreqStart
		s.phaseL[j], s.phaseR[j], s.phaseIso[j] = 0, 0, 0
		s.angleL[j], s.angleR[j], s.angleIso[j] = 0, 0, 0
	}
	s.syncVoiceParams()
}

// syncVoiceParams copies volume, carrier and gating of the active period into
// runtime state. Frequencies and phases are left untouched so the waveform
// stays continuous across period boundaries.
func (s *Synthesizer) syncVoiceParams() {
	per := s.activePeriod()
	if per == nil || len(per.Voices) != len(s.vols) {
		return
	}
	for j, v := range per.Voices {
		s.vols[j] = v.Volume
		s.pitches[j] = v.Pitch
		if v.Pitch < 0 {
			s.pitches[j] = voicePitch(j)
		}
		s.iso[j] = v.Isochronic
	}
}

func resizeSlice[T any](s []T, n int) []T {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]T, n)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo || v != v {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt16(v float64) int16 {
	switch {
	case v != v:
		return 0
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	}
	return int16(v)
}
