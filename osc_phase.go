// osc_phase.go - Continuous-phase oscillator

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

import "math"

// Oscillator evaluates sine and cosine of a phase measured in cycles.
// Any real phase is accepted and wraps.
type Oscillator interface {
	Sin(phase float64) float64
	Cos(phase float64) float64
}

// phaseOscillator computes the exact value for every call.
type phaseOscillator struct{}

func (phaseOscillator) Sin(phase float64) float64 {
	return math.Sin(2 * math.Pi * wrapPhase(phase))
}

func (phaseOscillator) Cos(phase float64) float64 {
	return math.Cos(2 * math.Pi * wrapPhase(phase))
}

// wrapPhase maps p into [0, 1).
func wrapPhase(p float64) float64 {
	if p >= 0 && p < 1 {
		return p
	}
	p -= math.Floor(p)
	if p >= 1 {
		// -tiny + 1 rounds to 1
		p = 0
	}
	return p
}

// advancePhase adds an increment already wrapped into [0, 1).
//
//go:nosplit
func advancePhase(phase, inc float64) float64 {
	phase += inc
	if phase >= 1 {
		phase -= 1
	}
	return phase
}

// phaseStep converts a frequency into a wrapped per-sample phase increment.
func phaseStep(freq float64, sampleRate int) float64 {
	return wrapPhase(freq / float64(sampleRate))
}
