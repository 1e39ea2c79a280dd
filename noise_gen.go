// noise_gen.go - Pink and white background noise sources

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

// NoiseSource produces one noise sample per Tick. Sequences are fully
// determined by the seed, and Reset restarts them.
type NoiseSource interface {
	Tick() float64
	Reset()
}

// Trammell 3-stage pink noise coefficients
var (
	pinkA      = [3]float64{0.02109238, 0.07113478, 0.68873558}
	pinkP      = [3]float64{0.3190, 0.7756, 0.9613}
	pinkOffset = pinkA[0] + pinkA[1] + pinkA[2]
)

const (
	NOISE_DEFAULT_SEED = 1
	pinkRMI2           = 2.0 / 32767.0
)

// lcgNext advances a linear congruential generator and returns a value in [0, 1).
//
//go:nosplit
func lcgNext(seed *uint32) float64 {
	*seed = *seed*1103515245 + 12345
	return float64(*seed>>16) / 65536.0
}

// PinkNoise is an approximately zero-mean 1/f source.
type PinkNoise struct {
	state    [3]float64
	seed     uint32
	initSeed uint32
}

func NewPinkNoise() *PinkNoise {
	return NewPinkNoiseSeeded(NOISE_DEFAULT_SEED)
}

func NewPinkNoiseSeeded(seed uint32) *PinkNoise {
	return &PinkNoise{seed: seed, initSeed: seed}
}

func (p *PinkNoise) Reset() {
	p.state = [3]float64{}
	p.seed = p.initSeed
}

func (p *PinkNoise) Tick() float64 {
	for i := range p.state {
		x := lcgNext(&p.seed) * 32767.0
		p.state[i] = pinkP[i]*(p.state[i]-x) + x
	}
	return (pinkA[0]*p.state[0]+pinkA[1]*p.state[1]+pinkA[2]*p.state[2])*pinkRMI2 - pinkOffset
}

// WhiteNoise draws uniformly from [-1, 1).
type WhiteNoise struct {
	seed     uint32
	initSeed uint32
}

func NewWhiteNoise() *WhiteNoise {
	return NewWhiteNoiseSeeded(NOISE_DEFAULT_SEED)
}

func NewWhiteNoiseSeeded(seed uint32) *WhiteNoise {
	return &WhiteNoise{seed: seed, initSeed: seed}
}

func (w *WhiteNoise) Reset() {
	w.seed = w.initSeed
}

func (w *WhiteNoise) Tick() float64 {
	return lcgNext(&w.seed)*2 - 1
}
