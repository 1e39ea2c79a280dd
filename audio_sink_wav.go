// audio_sink_wav.go - RIFF/WAVE file sink

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
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

var ErrSinkNotStarted = errors.New("audio sink not started")

// WavWriter is the offline sink. Start records the render callback and
// WriteFile pulls ceil(Duration*SampleRate/BufferFrames) buffers from it into
// a 16-bit stereo PCM file.
type WavWriter struct {
	SampleRate   int
	BufferFrames int
	Duration     float64 // seconds

	mu     sync.Mutex
	render RenderFunc
}

func NewWavWriter(sampleRate, bufferFrames int, duration float64) *WavWriter {
	return &WavWriter{SampleRate: sampleRate, BufferFrames: bufferFrames, Duration: duration}
}

func (w *WavWriter) Start(render RenderFunc) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.render != nil {
		return ErrSinkStarted
	}
	w.render = render
	return nil
}

// Pause and Resume have no meaning offline.
func (w *WavWriter) Pause()  {}
func (w *WavWriter) Resume() {}

func (w *WavWriter) Stop() {
	w.mu.Lock()
	w.render = nil
	w.mu.Unlock()
}

func (w *WavWriter) IsStarted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.render != nil
}

// Chunks returns the number of render calls one file takes.
func (w *WavWriter) Chunks() int {
	if w.Duration <= 0 || w.BufferFrames <= 0 {
		return 0
	}
	totalFrames := int(w.Duration * float64(w.SampleRate))
	return (totalFrames + w.BufferFrames - 1) / w.BufferFrames
}

func (w *WavWriter) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := w.Encode(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// Encode renders the whole file into ws.
func (w *WavWriter) Encode(ws io.WriteSeeker) error {
	w.mu.Lock()
	render := w.render
	w.mu.Unlock()
	if render == nil {
		return ErrSinkNotStarted
	}

	stream := &renderStreamer{
		render:    render,
		buf:       make([]int16, w.BufferFrames*2),
		pos:       w.BufferFrames,
		remaining: w.Chunks(),
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(w.SampleRate),
		NumChannels: 2,
		Precision:   2,
	}
	if err := wav.Encode(ws, stream, format); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}

// renderStreamer adapts a RenderFunc to beep.Streamer.
type renderStreamer struct {
	render    RenderFunc
	buf       []int16
	pos       int // next frame within buf
	remaining int // render calls left
}

func (s *renderStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	frames := len(s.buf) / 2
	for n < len(samples) {
		if s.pos >= frames {
			if s.remaining == 0 {
				break
			}
			s.render(s.buf)
			s.remaining--
			s.pos = 0
		}
		samples[n][0] = int16ToUnit(s.buf[2*s.pos])
		samples[n][1] = int16ToUnit(s.buf[2*s.pos+1])
		s.pos++
		n++
	}
	return n, n > 0
}

func (s *renderStreamer) Err() error { return nil }

// int16ToUnit maps a sample to [-1,1] such that beep's truncating 16-bit
// encoder reproduces it exactly (-32768 saturates to -32767).
func int16ToUnit(v int16) float64 {
	switch {
	case v > 0:
		return math.Min(1, (float64(v)+0.5)/INT16_SCALE)
	case v < 0:
		return math.Max(-1, (float64(v)-0.5)/INT16_SCALE)
	}
	return 0
}
