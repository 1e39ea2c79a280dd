// predictor_interface.go - EEG prediction types and the predictor contract

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

// EEGState is the categorical brain state reported by a predictor.
type EEGState int

const (
	EEGRelaxed EEGState = iota
	EEGFocused
	EEGDrowsy
	EEGAnxious
	EEGUnknown
)

var eegStateNames = [...]string{"relaxed", "focused", "drowsy", "anxious", "unknown"}

func (s EEGState) String() string {
	if s < 0 || int(s) >= len(eegStateNames) {
		return "unknown"
	}
	return eegStateNames[s]
}

// ParseEEGState maps a state name to its value; unrecognised names are EEGUnknown.
func ParseEEGState(name string) EEGState {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range eegStateNames {
		if n == name {
			return EEGState(i)
		}
	}
	return EEGUnknown
}

func (s EEGState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *EEGState) UnmarshalText(b []byte) error {
	*s = ParseEEGState(string(b))
	return nil
}

// EEGStatePrediction is one estimate handed from the inference goroutine to
// the controller.
type EEGStatePrediction struct {
	State          EEGState `json:"state"`
	AlphaPower     float64  `json:"alpha"`
	BetaPower      float64  `json:"beta"`
	ThetaPower     float64  `json:"theta"`
	TargetBeatFreq float64  `json:"target_beat_freq"`
	Confidence     float64  `json:"confidence"`
}

func (p EEGStatePrediction) String() string {
	return fmt.Sprintf("%s target=%.2fHz conf=%.2f", p.State, p.TargetBeatFreq, p.Confidence)
}

// Predictor turns a window of EEG channels into an optional prediction.
type Predictor interface {
	// Predict returns false when no estimate is available for this window
	Predict(channels [][]float64, sampleRateHz float64) (EEGStatePrediction, bool)
	// Name identifies the implementation in logs and status output
	Name() string
	// IsRealtimeCapable reports whether Predict is cheap enough to run every window
	IsRealtimeCapable() bool
}

// SignalSource supplies predictor input windows.
type SignalSource interface {
	Window() (channels [][]float64, sampleRateHz float64)
}
