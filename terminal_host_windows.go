//go:build windows

package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

func init() {
	compiledFeatures = append(compiledFeatures, "terminal:windows")
}

// TerminalHost reads raw stdin and hands each byte to a KeyHandler.
// Only instantiated by the play command for interactive use - never in tests.
type TerminalHost struct {
	keys         KeyHandler
	stopCh       chan struct{}
	stopped      sync.Once
	fd           int
	oldTermState *term.State
}

// NewTerminalHost creates a host adapter that reads stdin into keys.
func NewTerminalHost(keys KeyHandler) *TerminalHost {
	return &TerminalHost{
		keys:   keys,
		stopCh: make(chan struct{}),
	}
}

// Start sets stdin to raw mode and begins reading in a goroutine.
// Call Stop() to restore stdin.
func (h *TerminalHost) Start() bool {
	h.fd = int(os.Stdin.Fd())
	if !term.IsTerminal(h.fd) {
		return false
	}

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal_host: failed to set raw mode: %v\n", err)
		return false
	}
	h.oldTermState = oldState

	go func() {
		buf := make([]byte, 1)
		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := os.Stdin.Read(buf)
			if n > 0 {
				h.keys.HandleKey(buf[0])
			}
			if err != nil {
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()
	return true
}

// Stop restores terminal state. Console reads cannot be interrupted, so the
// reader goroutine exits after its next key or at process exit.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
