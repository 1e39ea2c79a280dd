//go:build !headless

// audio_backend_oto.go - OTO v3 audio output implementation

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
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio:oto")
}

// oto permits a single context per process
var (
	otoContextOnce sync.Once
	otoContext     *oto.Context
	otoContextErr  error
)

func sharedOtoContext(sampleRate, bufferFrames int) (*oto.Context, error) {
	otoContextOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   time.Duration(bufferFrames) * time.Second / time.Duration(sampleRate),
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoContextErr = fmt.Errorf("audio context: %w", err)
			return
		}
		<-ready
		otoContext = ctx
	})
	return otoContext, otoContextErr
}

type OtoPlayer struct {
	ctx        *oto.Context
	player     *oto.Player
	render     atomic.Pointer[RenderFunc] // Atomic for lock-free Read()
	samples    []int16                    // Pre-allocated render buffer
	pending    []byte                     // Encoded bytes of the last rendered buffer
	pendingOff int
	started    bool
	paused     bool
	mutex      sync.Mutex // Only for setup/control operations
}

func NewOtoPlayer(sampleRate, bufferFrames int) (*OtoPlayer, error) {
	ctx, err := sharedOtoContext(sampleRate, bufferFrames)
	if err != nil {
		return nil, err
	}
	return &OtoPlayer{
		ctx:        ctx,
		samples:    make([]int16, bufferFrames*2),
		pending:    make([]byte, bufferFrames*4),
		pendingOff: bufferFrames * 4,
	}, nil
}

// Read is called from oto's playback goroutine, which makes that goroutine
// the render goroutine.
func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	render := op.render.Load()
	if render == nil {
		clear(p)
		return len(p), nil
	}

	for n < len(p) {
		if op.pendingOff == len(op.pending) {
			(*render)(op.samples)
			for i, s := range op.samples {
				binary.LittleEndian.PutUint16(op.pending[2*i:], uint16(s))
			}
			op.pendingOff = 0
		}
		c := copy(p[n:], op.pending[op.pendingOff:])
		n += c
		op.pendingOff += c
	}
	return n, nil
}

func (op *OtoPlayer) Start(render RenderFunc) error {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started {
		return ErrSinkStarted
	}
	op.render.Store(&render)
	op.pendingOff = len(op.pending)
	op.player = op.ctx.NewPlayer(op)
	op.player.Play()
	op.started = true
	op.paused = false
	return nil
}

func (op *OtoPlayer) Pause() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started && !op.paused {
		op.player.Pause()
		op.paused = true
	}
}

func (op *OtoPlayer) Resume() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started && op.paused {
		op.player.Play()
		op.paused = false
	}
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started && op.player != nil {
		_ = op.player.Close()
		op.player = nil
		op.render.Store(nil)
		op.started = false
		op.paused = false
	}
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}

func (op *OtoPlayer) IsPaused() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.paused
}
