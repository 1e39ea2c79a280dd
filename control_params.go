// control_params.go - Closed-loop beat frequency controller

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
	"sync/atomic"
)

// ControlState is the controller's mode as seen by display layers.
type ControlState int

const (
	ControlManual ControlState = iota
	ControlAIDriven
)

func (c ControlState) String() string {
	if c == ControlAIDriven {
		return "AI"
	}
	return "Manual"
}

type ControllerConfig struct {
	RampRate float64 // maximum beat change in Hz per second
	Dt       float64 // seconds between Update calls, 0 for one synth buffer
}

// ParameterController steers the synthesizer's beat frequency once per
// rendered buffer. Confident predictions drive a rate-limited ramp toward the
// predicted target (AI-driven); otherwise the program's manual sweep applies.
//
// Update must run on the render goroutine. ClearAIState, IsAIDriven,
// CurrentBeatFreq and State are safe from any goroutine.
type ParameterController struct {
	synth *Synthesizer
	queue *SPSCQueue[EEGStatePrediction]
	cfg   ControllerConfig

	held    EEGStatePrediction
	hasHeld bool
	ramp    float64 // 0 until seeded from the active period
	scratch []float64

	aiDriven       atomic.Bool
	clearRequested atomic.Bool
	beatBits       atomic.Uint64
}

func NewParameterController(synth *Synthesizer, queue *SPSCQueue[EEGStatePrediction], cfg ControllerConfig) *ParameterController {
	if cfg.RampRate <= 0 {
		cfg.RampRate = DEFAULT_RAMP_RATE
	}
	if cfg.Dt <= 0 {
		cfg.Dt = synth.Config().BufferSeconds()
	}
	return &ParameterController{
		synth: synth,
		queue: queue,
		cfg:   cfg,
	}
}

func (c *ParameterController) Config() ControllerConfig { return c.cfg }

// Update runs one control tick.
func (c *ParameterController) Update(periodElapsedSec float64) {
	if c.clearRequested.Swap(false) {
		c.hasHeld = false
		c.setRamp(0)
		c.aiDriven.Store(false)
		c.synth.SkewVoices(periodElapsedSec)
		return
	}

	if p, ok := c.queue.PopLatest(); ok && p.Confidence > CONFIDENCE_GATE {
		c.held = p
		c.hasHeld = true
	}

	if !c.hasHeld || c.held.Confidence <= CONFIDENCE_GATE {
		c.aiDriven.Store(false)
		c.hasHeld = false
		c.setRamp(0)
		c.synth.SkewVoices(periodElapsedSec)
		return
	}

	c.aiDriven.Store(true)
	per, ok := c.synth.CurrentPeriod()
	if c.ramp <= 0 && ok && len(per.Voices) > 0 {
		c.ramp = per.Voices[0].FreqStart
	}

	target := clampFloat(c.held.TargetBeatFreq, BEAT_FREQ_MIN, BEAT_FREQ_MAX)
	step := c.cfg.RampRate * c.cfg.Dt
	diff := target - c.ramp
	if math.Abs(diff) <= step {
		c.ramp = target
	} else if diff > 0 {
		c.ramp += step
	} else {
		c.ramp -= step
	}
	c.setRamp(clampFloat(c.ramp, BEAT_FREQ_MIN, BEAT_FREQ_MAX))

	if !ok {
		return
	}
	n := len(per.Voices)
	if cap(c.scratch) < n {
		c.scratch = make([]float64, n)
	}
	freqs := c.scratch[:n]
	for i := range freqs {
		freqs[i] = c.ramp
	}
	c.synth.SetFreqs(freqs)
}

// ClearAIState drops AI control. It takes effect on the next Update.
func (c *ParameterController) ClearAIState() {
	c.aiDriven.Store(false)
	c.clearRequested.Store(true)
}

func (c *ParameterController) IsAIDriven() bool { return c.aiDriven.Load() }

// CurrentBeatFreq is the ramped AI beat frequency, 0 in manual mode.
func (c *ParameterController) CurrentBeatFreq() float64 {
	return math.Float64frombits(c.beatBits.Load())
}

func (c *ParameterController) State() ControlState {
	if c.IsAIDriven() {
		return ControlAIDriven
	}
	return ControlManual
}

func (c *ParameterController) setRamp(v float64) {
	c.ramp = v
	c.beatBits.Store(math.Float64bits(v))
}
