// play_control.go - Key bindings shared by the terminal host and the monitor

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
	"io"
	"sync"
)

const (
	VOLUME_STEP  = 0.1
	BALANCE_STEP = 0.1
)

// KeyHandler receives single host key presses.
type KeyHandler interface {
	HandleKey(b byte)
}

// PlayControl maps keys onto a running session:
//
//	Enter  pause / resume
//	q      quit (also Ctrl-C, which raw mode delivers as a byte)
//	c      drop AI control
//	+ -    volume
//	< >    balance
//	[ ]    beat frequency
//	{ }    base frequency
//	i      isochronic on / off
//	n      background noise none, pink, white
//	( )    background noise volume
//
// Program edits restart the program with the change applied.
type PlayControl struct {
	session *Session
	sink    AudioSink
	quit    func()
	out     io.Writer // feedback lines, nil for silent

	mu       sync.Mutex
	paused   bool
	finished bool
}

func NewPlayControl(session *Session, sink AudioSink, quit func(), out io.Writer) *PlayControl {
	return &PlayControl{session: session, sink: sink, quit: quit, out: out}
}

func (c *PlayControl) HandleKey(b byte) {
	switch b {
	case '\r', '\n':
		c.TogglePause()
	case 'q', 'Q', 0x03:
		c.quit()
	case 'c', 'C':
		c.session.ClearAI()
		c.say("AI control cleared")
	case '+', '=':
		c.session.AdjustVolume(VOLUME_STEP)
		c.say("volume %.1f", c.session.Synth().VolumeMultiplier())
	case '-', '_':
		c.session.AdjustVolume(-VOLUME_STEP)
		c.say("volume %.1f", c.session.Synth().VolumeMultiplier())
	case '<', ',':
		c.session.AdjustBalance(-BALANCE_STEP)
		c.sayBalance()
	case '>', '.':
		c.session.AdjustBalance(BALANCE_STEP)
		c.sayBalance()
	case '[':
		c.sayLead(c.session.AdjustBeat(-BEAT_STEP))
	case ']':
		c.sayLead(c.session.AdjustBeat(BEAT_STEP))
	case '{':
		c.sayLead(c.session.AdjustBase(-BASE_STEP))
	case '}':
		c.sayLead(c.session.AdjustBase(BASE_STEP))
	case 'i', 'I':
		c.sayLead(c.session.ToggleIsochronic())
	case 'n', 'N':
		c.sayLead(c.session.CycleBackground())
	case '(':
		c.sayLead(c.session.AdjustNoiseVol(-NOISE_VOL_STEP))
	case ')':
		c.sayLead(c.session.AdjustNoiseVol(NOISE_VOL_STEP))
	}
}

// TogglePause pauses or resumes the sink. A finished session stays stopped.
func (c *PlayControl) TogglePause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finished {
		return
	}
	if c.paused {
		c.sink.Resume()
		c.paused = false
		c.sayLocked("resumed")
		return
	}
	c.sink.Pause()
	c.paused = true
	c.sayLocked("paused")
}

// Finish pauses the sink for good once a fixed-length program has played out.
func (c *PlayControl) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finished {
		return
	}
	c.finished = true
	if !c.paused {
		c.sink.Pause()
		c.paused = true
	}
}

func (c *PlayControl) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

func (c *PlayControl) sayBalance() {
	b := c.session.Synth().Balance()
	c.say("balance %.1f (%s)", b, BalanceLabel(b))
}

func (c *PlayControl) sayLead(lead LeadVoice, err error) {
	if err != nil {
		c.say("%v", err)
		return
	}
	mode := "binaural"
	if lead.Isochronic {
		mode = "isochronic"
	}
	c.say("%.1f Hz %s beat, %.0f Hz base, %s noise %.2f",
		lead.Beat, mode, lead.Base, lead.Background, lead.BackgroundVol)
}

func (c *PlayControl) say(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sayLocked(format, args...)
}

func (c *PlayControl) sayLocked(format string, args ...any) {
	if c.out == nil {
		return
	}
	// raw mode needs an explicit carriage return
	fmt.Fprintf(c.out, "\r"+format+"\r\n", args...)
}
