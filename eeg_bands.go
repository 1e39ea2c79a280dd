// eeg_bands.go - Spectral band power helpers

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
	"math/cmplx"

	"github.com/madelynnblue/go-dsp/fft"
)

// EEG band edges in Hz, lower bound inclusive
const (
	THETA_LO = 4.0
	THETA_HI = 8.0
	ALPHA_LO = 8.0
	ALPHA_HI = 12.0
	BETA_LO  = 12.0
	BETA_HI  = 30.0
)

// BandPower returns the mean squared spectral magnitude of samples between
// lo and hi Hz, normalised by the window length. DC is excluded.
func BandPower(samples []float64, sampleRate, lo, hi float64) float64 {
	n := len(samples)
	if n < 2 || sampleRate <= 0 || hi <= lo {
		return 0
	}
	spectrum := fft.FFTReal(samples)
	binHz := sampleRate / float64(n)

	power := 0.0
	for k := 1; k <= n/2; k++ {
		f := float64(k) * binHz
		if f < lo || f >= hi {
			continue
		}
		m := cmplx.Abs(spectrum[k])
		power += m * m
	}
	return power / float64(n*n)
}

// DominantFrequency returns the frequency of the strongest non-DC bin.
func DominantFrequency(samples []float64, sampleRate float64) float64 {
	n := len(samples)
	if n < 2 || sampleRate <= 0 {
		return 0
	}
	spectrum := fft.FFTReal(samples)
	best, bestMag := 0, 0.0
	for k := 1; k <= n/2; k++ {
		if m := cmplx.Abs(spectrum[k]); m > bestMag {
			best, bestMag = k, m
		}
	}
	return float64(best) * sampleRate / float64(n)
}
