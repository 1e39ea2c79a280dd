// osc_lut.go - Sine/cosine lookup table oscillator

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

// SinTable holds one full cycle of sine and cosine sampled at size points.
// Integer angles are table indices; size angles make one cycle.
type SinTable struct {
	size int
	sin  []float64
	cos  []float64
}

// NewSinTable builds a table with size entries per cycle (SIN_TABLE_SIZE when size <= 0).
func NewSinTable(size int) *SinTable {
	if size <= 0 {
		size = SIN_TABLE_SIZE
	}
	t := &SinTable{
		size: size,
		sin:  make([]float64, size),
		cos:  make([]float64, size),
	}
	for i := 0; i < size; i++ {
		a := 2 * math.Pi * float64(i) / float64(size)
		t.sin[i] = math.Sin(a)
		t.cos[i] = math.Cos(a)
	}
	return t
}

// Size returns the number of entries per cycle.
func (t *SinTable) Size() int { return t.size }

// SinInt returns sin for an integer angle, wrapping any value (negative included).
//
//go:nosplit
func (t *SinTable) SinInt(angle int) float64 {
	return t.sin[wrapAngle(angle, t.size)]
}

// CosInt returns cos for an integer angle.
//
//go:nosplit
func (t *SinTable) CosInt(angle int) float64 {
	return t.cos[wrapAngle(angle, t.size)]
}

// SinFloat linearly interpolates between adjacent entries.
func (t *SinTable) SinFloat(angle float64) float64 {
	return lerpTable(t.sin, angle)
}

// CosFloat linearly interpolates between adjacent entries.
func (t *SinTable) CosFloat(angle float64) float64 {
	return lerpTable(t.cos, angle)
}

func lerpTable(tab []float64, angle float64) float64 {
	n := len(tab)
	a := math.Mod(angle, float64(n))
	if a < 0 {
		a += float64(n)
	}
	i := int(a)
	frac := a - float64(i)
	if i >= n {
		// a rounded up to exactly n after adding a tiny negative remainder
		i, frac = 0, 0
	}
	j := i + 1
	if j == n {
		j = 0
	}
	return tab[i] + (tab[j]-tab[i])*frac
}

// wrapAngle maps a into [0, n).
//
//go:nosplit
func wrapAngle(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

// angleStep converts a frequency into a fractional per-sample table increment
// in [0, size).
func angleStep(freq float64, size, sampleRate int) float64 {
	n := float64(size)
	return wrapAngleFloat(n*freq/float64(sampleRate), n)
}

// advanceAngle adds inc to a fractional table angle and wraps into [0, size).
//
//go:nosplit
func advanceAngle(a, inc float64, size int) float64 {
	a += inc
	n := float64(size)
	if a >= n {
		a -= n
		if a >= n {
			a = wrapAngleFloat(a, n)
		}
	}
	return a
}

func wrapAngleFloat(a, n float64) float64 {
	a = math.Mod(a, n)
	if a < 0 {
		a += n
	}
	if a >= n {
		a = 0
	}
	return a
}

// lutOscillator evaluates phases (in cycles) through a SinTable.
type lutOscillator struct {
	table *SinTable
}

func newLUTOscillator(size int) lutOscillator {
	return lutOscillator{table: NewSinTable(size)}
}

func (o lutOscillator) Sin(phase float64) float64 {
	return o.table.SinFloat(phase * float64(o.table.size))
}

func (o lutOscillator) Cos(phase float64) float64 {
	return o.table.CosFloat(phase * float64(o.table.size))
}
