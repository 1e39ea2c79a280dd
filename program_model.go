// program_model.go - Program, period and voice descriptions

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
)

// BackgroundKind selects the masking noise mixed under a period.
type BackgroundKind int

const (
	BackgroundNone BackgroundKind = iota
	BackgroundPink
	BackgroundWhite
)

func (b BackgroundKind) String() string {
	switch b {
	case BackgroundPink:
		return "pink"
	case BackgroundWhite:
		return "white"
	default:
		return "none"
	}
}

// ParseBackgroundKind accepts "none", "pink" or "white" (case-insensitive).
func ParseBackgroundKind(s string) (BackgroundKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return BackgroundNone, nil
	case "pink":
		return BackgroundPink, nil
	case "white":
		return BackgroundWhite, nil
	}
	return BackgroundNone, fmt.Errorf("unknown background %q (want none, pink or white)", s)
}

// Voice is one beat generator inside a period.
type Voice struct {
	FreqStart  float64 // beat frequency at period start (Hz)
	FreqEnd    float64 // beat frequency at period end (Hz)
	Volume     float64
	Pitch      float64 // carrier (Hz), negative derives from voice index
	Isochronic bool
}

// NewVoice returns a binaural voice at the default volume.
func NewVoice(freqStart, freqEnd, pitch float64) Voice {
	return Voice{
		FreqStart: freqStart,
		FreqEnd:   freqEnd,
		Volume:    DEFAULT_VOICE_VOLUME,
		Pitch:     pitch,
	}
}

// Period is a time-bounded segment of a program.
type Period struct {
	LengthSec     float64
	Voices        []Voice
	Background    BackgroundKind
	BackgroundVol float64
}

// Program is an ordered, cyclic sequence of periods. An empty program plays silence.
type Program struct {
	Name    string
	Periods []Period
}

// TotalSeconds sums the lengths of all playable periods.
func (p Program) TotalSeconds() float64 {
	total := 0.0
	for _, per := range p.Periods {
		if per.LengthSec > 0 {
			total += per.LengthSec
		}
	}
	return total
}

// Clone returns a deep copy so the caller may keep mutating its own value.
func (p Program) Clone() Program {
	out := Program{Name: p.Name}
	if p.Periods == nil {
		return out
	}
	out.Periods = make([]Period, len(p.Periods))
	for i, per := range p.Periods {
		out.Periods[i] = per
		if per.Voices != nil {
			out.Periods[i].Voices = append([]Voice(nil), per.Voices...)
		}
	}
	return out
}

// Validate reports values that cannot be rendered. Empty programs, empty periods
// and zero-length periods are valid and play as silence.
func (p Program) Validate() error {
	for i, per := range p.Periods {
		if !isFinite(per.LengthSec) {
			return fmt.Errorf("period %d: length %v is not finite", i, per.LengthSec)
		}
		if !isFinite(per.BackgroundVol) || per.BackgroundVol < 0 || per.BackgroundVol > 1 {
			return fmt.Errorf("period %d: background volume %v outside [0,1]", i, per.BackgroundVol)
		}
		for j, v := range per.Voices {
			switch {
			case !isFinite(v.FreqStart) || !isFinite(v.FreqEnd):
				return fmt.Errorf("period %d voice %d: beat frequency is not finite", i, j)
			case !isFinite(v.Pitch):
				return fmt.Errorf("period %d voice %d: pitch is not finite", i, j)
			case !isFinite(v.Volume) || v.Volume < 0:
				return fmt.Errorf("period %d voice %d: volume %v must be >= 0", i, j, v.Volume)
			}
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// pitchFreq returns the frequency of semitone k in the given octave, tuned to A=432.
func pitchFreq(k, octave int) float64 {
	return math.Pow(2, float64(k)/12+float64(octave)-4) * A_FREQ
}

// voicePitch resolves the carrier used when a voice asks for an index-derived pitch.
func voicePitch(index int) float64 {
	switch index {
	case 0:
		return pitchFreq(0, 4)
	case 1:
		return pitchFreq(3, 4)
	case 2:
		return pitchFreq(7, 4)
	case 3:
		return pitchFreq(10, 4)
	case 4:
		return pitchFreq(3, 5)
	case 5:
		return pitchFreq(7, 6)
	default:
		return pitchFreq(0, 7)
	}
}

// BeatBand names the brainwave band a beat frequency sits in.
func BeatBand(freq float64) string {
	switch {
	case freq < 4:
		return "delta"
	case freq < 8:
		return "theta"
	case freq < 12:
		return "alpha"
	case freq < 30:
		return "beta"
	default:
		return "gamma"
	}
}

// BalanceLabel describes a stereo balance value for display.
func BalanceLabel(b float64) string {
	switch {
	case b < -0.3:
		return "Left"
	case b > 0.3:
		return "Right"
	default:
		return "Center"
	}
}
