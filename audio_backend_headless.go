//go:build headless

package main

import (
	"sync"
	"sync/atomic"
	"time"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio:headless")
}

// OtoPlayer without an audio device: a ticker drives the render callback at
// the buffer cadence and the output is discarded.
type OtoPlayer struct {
	period  time.Duration
	samples []int16
	stopCh  chan struct{}
	done    chan struct{}
	paused  atomic.Bool
	started bool
	mutex   sync.Mutex
}

func NewOtoPlayer(sampleRate, bufferFrames int) (*OtoPlayer, error) {
	return &OtoPlayer{
		period:  time.Duration(bufferFrames) * time.Second / time.Duration(sampleRate),
		samples: make([]int16, bufferFrames*2),
	}, nil
}

func (op *OtoPlayer) Start(render RenderFunc) error {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started {
		return ErrSinkStarted
	}
	op.stopCh = make(chan struct{})
	op.done = make(chan struct{})
	op.paused.Store(false)
	op.started = true

	go func(stopCh, done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(op.period)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				if !op.paused.Load() {
					render(op.samples)
				}
			}
		}
	}(op.stopCh, op.done)
	return nil
}

func (op *OtoPlayer) Pause() {
	op.paused.Store(true)
}

func (op *OtoPlayer) Resume() {
	op.paused.Store(false)
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started {
		close(op.stopCh)
		<-op.done
		op.started = false
	}
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}

func (op *OtoPlayer) IsPaused() bool {
	return op.paused.Load()
}
