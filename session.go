// session.go - Render callback wiring synthesizer, controller and display mirror

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
	"math"
	"sync"
	"sync/atomic"
)

// RenderFunc fills one buffer of interleaved int16 stereo samples.
type RenderFunc func(buf []int16)

// SessionStatus is a display snapshot. Fields are published individually so
// a snapshot may straddle two buffers.
type SessionStatus struct {
	ProgramName   string
	PeriodIndex   int
	PeriodCount   int
	PeriodElapsed float64
	PeriodLength  float64
	BeatFreq      float64
	Fade          float64
	AIDriven      bool
	Volume        float64
	Balance       float64
	RenderedSec   float64
	Buffers       uint64
}

// Session binds the engine pieces behind the render callback contract.
type Session struct {
	synth *Synthesizer
	ctrl  *ParameterController
	queue *SPSCQueue[EEGStatePrediction]
	wave  *WaveformBuffer
	dt    float64

	programName atomic.Pointer[string]
	periodCount atomic.Int64

	// live edits: latest is the newest program set or queued, pending is
	// picked up by Render
	editMu  sync.Mutex
	latest  Program
	pending atomic.Pointer[Program]
	loads   atomic.Uint64

	periodIndex  atomic.Int64
	elapsedBits  atomic.Uint64
	lengthBits   atomic.Uint64
	beatBits     atomic.Uint64
	fadeBits     atomic.Uint64
	renderedBits atomic.Uint64
	buffers      atomic.Uint64
}

func NewSession(cfg SynthConfig, ctrlCfg ControllerConfig) *Session {
	synth := NewSynthesizer(cfg)
	queue := NewSPSCQueue[EEGStatePrediction]()
	s := &Session{
		synth: synth,
		queue: queue,
		ctrl:  NewParameterController(synth, queue, ctrlCfg),
		wave:  NewWaveformBuffer(WAVEFORM_CAPACITY),
		dt:    synth.Config().BufferSeconds(),
	}
	empty := ""
	s.programName.Store(&empty)
	return s
}

// SetProgram loads a schedule. Call it before the sink starts or from the
// render goroutine; QueueProgram is the form for a running session.
func (s *Session) SetProgram(p Program) {
	s.editMu.Lock()
	s.latest = p.Clone()
	s.editMu.Unlock()
	s.pending.Store(nil)
	s.synth.SetProgram(p)
	name := p.Name
	s.programName.Store(&name)
	s.periodCount.Store(int64(len(p.Periods)))
	s.renderedBits.Store(0)
	s.buffers.Store(0)
	s.wave.Clear()
	s.publish()
}

// Render is the sink callback. Only one goroutine may call it.
func (s *Session) Render(buf []int16) {
	s.applyPending()
	s.ctrl.Update(s.synth.PeriodElapsedSec())
	s.synth.FillSamples(buf)
	s.wave.TryPushInterleaved(buf)
	s.synth.AdvanceTime(s.dt)

	s.renderedBits.Store(math.Float64bits(math.Float64frombits(s.renderedBits.Load()) + s.dt))
	s.buffers.Add(1)
	s.publish()
}

func (s *Session) publish() {
	s.periodIndex.Store(int64(s.synth.CurrentPeriodIndex()))
	s.elapsedBits.Store(math.Float64bits(s.synth.PeriodElapsedSec()))
	per, ok := s.synth.CurrentPeriod()
	length, fade := 0.0, 1.0
	if ok {
		length = per.LengthSec
		fade = FadeAt(per, s.synth.PeriodElapsedSec())
	}
	s.lengthBits.Store(math.Float64bits(length))
	s.fadeBits.Store(math.Float64bits(fade))
	s.beatBits.Store(math.Float64bits(s.synth.BeatFreq()))
}

// Status may be called from any goroutine.
func (s *Session) Status() SessionStatus {
	return SessionStatus{
		ProgramName:   *s.programName.Load(),
		PeriodIndex:   int(s.periodIndex.Load()),
		PeriodCount:   int(s.periodCount.Load()),
		PeriodElapsed: math.Float64frombits(s.elapsedBits.Load()),
		PeriodLength:  math.Float64frombits(s.lengthBits.Load()),
		BeatFreq:      math.Float64frombits(s.beatBits.Load()),
		Fade:          math.Float64frombits(s.fadeBits.Load()),
		AIDriven:      s.ctrl.IsAIDriven(),
		Volume:        s.synth.VolumeMultiplier(),
		Balance:       s.synth.Balance(),
		RenderedSec:   math.Float64frombits(s.renderedBits.Load()),
		Buffers:       s.buffers.Load(),
	}
}

// NewBuffer allocates a buffer sized for one Render call.
func (s *Session) NewBuffer() []int16 {
	return make([]int16, s.synth.Config().BufferFrames*2)
}

func (s *Session) Synth() *Synthesizer                   { return s.synth }
func (s *Session) Controller() *ParameterController      { return s.ctrl }
func (s *Session) Queue() *SPSCQueue[EEGStatePrediction] { return s.queue }
func (s *Session) Waveform() *WaveformBuffer             { return s.wave }
func (s *Session) ClearAI()                              { s.ctrl.ClearAIState() }
func (s *Session) SetVolume(v float64)                   { s.synth.SetVolumeMultiplier(v) }
func (s *Session) SetBalance(b float64)                  { s.synth.SetBalance(b) }
func (s *Session) AdjustVolume(delta float64)            { s.SetVolume(s.synth.VolumeMultiplier() + delta) }
func (s *Session) AdjustBalance(delta float64)           { s.SetBalance(s.synth.Balance() + delta) }
