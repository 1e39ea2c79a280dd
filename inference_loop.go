// inference_loop.go - Producer goroutine feeding predictions to the controller

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
	"context"
	"time"

	"github.com/charmbracelet/log"
)

const DEFAULT_INFERENCE_INTERVAL = 250 * time.Millisecond

// InferenceLoop is the queue's only producer. It may allocate and block freely;
// the render goroutine only ever sees its output through the queue.
type InferenceLoop struct {
	Predictor Predictor
	Source    SignalSource // nil passes empty input
	Queue     *SPSCQueue[EEGStatePrediction]
	Interval  time.Duration
	Logger    *log.Logger
}

// Step runs the predictor once and publishes any result.
func (l *InferenceLoop) Step() bool {
	var (
		channels [][]float64
		rate     float64
	)
	if l.Source != nil {
		channels, rate = l.Source.Window()
	}
	pred, ok := l.Predictor.Predict(channels, rate)
	if !ok {
		return false
	}
	l.Queue.Push(pred)
	if l.Logger != nil {
		l.Logger.Debug("prediction", "predictor", l.Predictor.Name(), "state", pred.State,
			"target", pred.TargetBeatFreq, "confidence", pred.Confidence)
	}
	return true
}

// Run steps every Interval until ctx is cancelled.
func (l *InferenceLoop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = DEFAULT_INFERENCE_INTERVAL
	}
	if l.Logger != nil {
		l.Logger.Info("inference started", "predictor", l.Predictor.Name(),
			"interval", interval, "realtime", l.Predictor.IsRealtimeCapable())
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Step()
		}
	}
}
