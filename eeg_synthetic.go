// eeg_synthetic.go - Deterministic multi-channel EEG test signal

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
	"strings"
)

// Centre frequencies of the synthetic band components
const (
	SYNTH_THETA_HZ = 6.0
	SYNTH_ALPHA_HZ = 10.0
	SYNTH_BETA_HZ  = 20.0
)

type SyntheticEEGConfig struct {
	Channels   int
	SampleRate float64
	WindowSec  float64
	Theta      float64 // band amplitudes
	Alpha      float64
	Beta       float64
	Noise      float64
	Seed       uint32
}

// SyntheticEEGProfile returns band amplitudes that make one state dominant.
func SyntheticEEGProfile(name string) (SyntheticEEGConfig, error) {
	cfg := SyntheticEEGConfig{Channels: 2, SampleRate: 256, WindowSec: 2, Noise: 0.05, Seed: NOISE_DEFAULT_SEED}
	switch strings.ToLower(name) {
	case "", "relaxed":
		cfg.Theta, cfg.Alpha, cfg.Beta = 0.2, 1.0, 0.3
	case "anxious":
		cfg.Theta, cfg.Alpha, cfg.Beta = 0.2, 0.3, 1.0
	case "drowsy":
		cfg.Theta, cfg.Alpha, cfg.Beta = 1.0, 0.3, 0.2
	default:
		return cfg, fmt.Errorf("unknown eeg profile %q (want relaxed, anxious or drowsy)", name)
	}
	return cfg, nil
}

// SyntheticEEG generates band-limited sinusoids plus white noise. Consecutive
// windows continue the same signal.
type SyntheticEEG struct {
	cfg   SyntheticEEGConfig
	osc   Oscillator
	noise *WhiteNoise
	pos   uint64
}

func NewSyntheticEEG(cfg SyntheticEEGConfig) *SyntheticEEG {
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 256
	}
	if cfg.WindowSec <= 0 {
		cfg.WindowSec = 2
	}
	return &SyntheticEEG{
		cfg:   cfg,
		osc:   newLUTOscillator(SIN_TABLE_SIZE),
		noise: NewWhiteNoiseSeeded(cfg.Seed),
	}
}

func (e *SyntheticEEG) Window() ([][]float64, float64) {
	n := int(e.cfg.WindowSec * e.cfg.SampleRate)
	out := make([][]float64, e.cfg.Channels)
	for c := range out {
		ch := make([]float64, n)
		skew := 0.05 * float64(c)
		for i := range ch {
			t := float64(e.pos+uint64(i)) / e.cfg.SampleRate
			ch[i] = e.cfg.Theta*e.osc.Sin(SYNTH_THETA_HZ*t+skew) +
				e.cfg.Alpha*e.osc.Sin(SYNTH_ALPHA_HZ*t+skew) +
				e.cfg.Beta*e.osc.Sin(SYNTH_BETA_HZ*t+skew) +
				e.cfg.Noise*e.noise.Tick()
		}
		out[c] = ch
	}
	e.pos += uint64(n)
	return out, e.cfg.SampleRate
}
