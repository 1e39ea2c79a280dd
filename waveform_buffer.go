// waveform_buffer.go - Stereo waveform mirror for display consumers

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

import "sync"

// WaveformBuffer keeps the most recent stereo frames for drawing. It is a
// display structure: the render goroutine only ever uses TryPushInterleaved
// so it never waits on a reader.
type WaveformBuffer struct {
	mu    sync.Mutex
	left  []float32
	right []float32
	write int
	count int
}

func NewWaveformBuffer(capacity int) *WaveformBuffer {
	if capacity <= 0 {
		capacity = WAVEFORM_CAPACITY
	}
	return &WaveformBuffer{
		left:  make([]float32, capacity),
		right: make([]float32, capacity),
	}
}

func (w *WaveformBuffer) Push(l, r float32) {
	w.mu.Lock()
	w.pushLocked(l, r)
	w.mu.Unlock()
}

// TryPushInterleaved mirrors an int16 [L,R,...] buffer scaled to [-1,1].
// It returns false without copying when a reader holds the lock.
func (w *WaveformBuffer) TryPushInterleaved(buf []int16) bool {
	if !w.mu.TryLock() {
		return false
	}
	for i := 0; i+1 < len(buf); i += 2 {
		w.pushLocked(float32(buf[i])/32768, float32(buf[i+1])/32768)
	}
	w.mu.Unlock()
	return true
}

func (w *WaveformBuffer) pushLocked(l, r float32) {
	w.left[w.write] = l
	w.right[w.write] = r
	w.write++
	if w.write == len(w.left) {
		w.write = 0
	}
	if w.count < len(w.left) {
		w.count++
	}
}

// Samples returns copies of the held frames, oldest first.
func (w *WaveformBuffer) Samples() (left, right []float32) {
	w.mu.Lock()
	defer w.mu.Unlock()

	left = make([]float32, w.count)
	right = make([]float32, w.count)
	start := w.write - w.count
	if start < 0 {
		start += len(w.left)
	}
	for i := 0; i < w.count; i++ {
		j := (start + i) % len(w.left)
		left[i] = w.left[j]
		right[i] = w.right[j]
	}
	return left, right
}

func (w *WaveformBuffer) Clear() {
	w.mu.Lock()
	w.write = 0
	w.count = 0
	w.mu.Unlock()
}

func (w *WaveformBuffer) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

func (w *WaveformBuffer) Capacity() int { return len(w.left) }

// scopeColumns picks width evenly spaced samples for a scope trace.
func scopeColumns(samples []float32, width int) []float64 {
	if width <= 0 || len(samples) == 0 {
		return nil
	}
	cols := make([]float64, width)
	for c := range cols {
		cols[c] = float64(samples[c*len(samples)/width])
	}
	return cols
}

// scopeY maps v in [-1,1] onto [top, top+height-1], +1 at the top.
func scopeY(v float64, top, height int) float64 {
	return float64(top) + (1-clampFloat(v, -1, 1))/2*float64(height-1)
}
