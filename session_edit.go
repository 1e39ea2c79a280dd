// session_edit.go - Live program edits handed to the render goroutine

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
)

// Key steps for live edits
const (
	BEAT_STEP      = 0.5
	BASE_STEP      = 5.0
	NOISE_VOL_STEP = 0.01
)

var ErrNoLeadVoice = errors.New("program has no voice to edit")

// LeadVoice is the first voice of the first period, the one live edits change.
type LeadVoice struct {
	Beat          float64
	Base          float64
	Isochronic    bool
	Background    BackgroundKind
	BackgroundVol float64
}

// QueueProgram hands p to the render goroutine, which restarts it from the
// first period before its next buffer. Safe from any goroutine; a later call
// replaces a program that has not been picked up yet.
func (s *Session) QueueProgram(p Program) {
	s.editMu.Lock()
	defer s.editMu.Unlock()
	s.queueLocked(p)
}

func (s *Session) queueLocked(p Program) {
	s.latest = p.Clone()
	pending := p.Clone()
	s.pending.Store(&pending)
}

// applyPending swaps in a queued program. Render goroutine only.
func (s *Session) applyPending() {
	p := s.pending.Swap(nil)
	if p == nil {
		return
	}
	s.synth.SetProgram(*p)
	name := p.Name
	s.programName.Store(&name)
	s.periodCount.Store(int64(len(p.Periods)))
}

// Lead returns the lead voice of the most recently set or queued program.
func (s *Session) Lead() (LeadVoice, bool) {
	s.editMu.Lock()
	defer s.editMu.Unlock()
	if len(s.latest.Periods) == 0 || len(s.latest.Periods[0].Voices) == 0 {
		return LeadVoice{}, false
	}
	per := s.latest.Periods[0]
	v := per.Voices[0]
	base := v.Pitch
	if base < 0 {
		base = voicePitch(0)
	}
	return LeadVoice{
		Beat:          v.FreqStart,
		Base:          base,
		Isochronic:    v.Isochronic,
		Background:    per.Background,
		BackgroundVol: per.BackgroundVol,
	}, true
}

// editLead applies fn to period 0 and its first voice of the latest program
// and queues the result.
func (s *Session) editLead(fn func(per *Period, v *Voice) error) (LeadVoice, error) {
	s.editMu.Lock()
	p := s.latest.Clone()
	if len(p.Periods) == 0 || len(p.Periods[0].Voices) == 0 {
		s.editMu.Unlock()
		return LeadVoice{}, ErrNoLeadVoice
	}
	per := &p.Periods[0]
	if err := fn(per, &per.Voices[0]); err != nil {
		s.editMu.Unlock()
		return LeadVoice{}, err
	}
	s.queueLocked(p)
	s.editMu.Unlock()

	lead, _ := s.Lead()
	return lead, nil
}

// SetBeat sets the lead voice to a constant beat of hz.
func (s *Session) SetBeat(hz float64) (LeadVoice, error) {
	if !isFinite(hz) || hz < CLI_BEAT_MIN || hz > CLI_BEAT_MAX {
		return LeadVoice{}, fmt.Errorf("beat frequency %v outside %.1f-%.0f Hz", hz, CLI_BEAT_MIN, CLI_BEAT_MAX)
	}
	return s.editLead(func(_ *Period, v *Voice) error {
		v.FreqStart, v.FreqEnd = hz, hz
		return nil
	})
}

// AdjustBeat moves the lead beat by delta, clamped to the beat range.
func (s *Session) AdjustBeat(delta float64) (LeadVoice, error) {
	return s.editLead(func(_ *Period, v *Voice) error {
		hz := clampFloat(v.FreqStart+delta, CLI_BEAT_MIN, CLI_BEAT_MAX)
		v.FreqStart, v.FreqEnd = hz, hz
		return nil
	})
}

func (s *Session) SetBase(hz float64) (LeadVoice, error) {
	if !isFinite(hz) || hz < CLI_BASE_MIN || hz > CLI_BASE_MAX {
		return LeadVoice{}, fmt.Errorf("base frequency %v outside %.0f-%.0f Hz", hz, CLI_BASE_MIN, CLI_BASE_MAX)
	}
	return s.editLead(func(_ *Period, v *Voice) error {
		v.Pitch = hz
		return nil
	})
}

func (s *Session) AdjustBase(delta float64) (LeadVoice, error) {
	return s.editLead(func(_ *Period, v *Voice) error {
		base := v.Pitch
		if base < 0 {
			base = voicePitch(0)
		}
		v.Pitch = clampFloat(base+delta, CLI_BASE_MIN, CLI_BASE_MAX)
		return nil
	})
}

func (s *Session) SetIsochronic(on bool) (LeadVoice, error) {
	return s.editLead(func(_ *Period, v *Voice) error {
		v.Isochronic = on
		return nil
	})
}

func (s *Session) ToggleIsochronic() (LeadVoice, error) {
	return s.editLead(func(_ *Period, v *Voice) error {
		v.Isochronic = !v.Isochronic
		return nil
	})
}

// SetBackground sets the first period's background noise and its volume.
func (s *Session) SetBackground(kind BackgroundKind, vol float64) (LeadVoice, error) {
	if !isFinite(vol) || vol < 0 || vol > 1 {
		return LeadVoice{}, fmt.Errorf("noise volume %v outside 0-1", vol)
	}
	return s.editLead(func(per *Period, _ *Voice) error {
		per.Background = kind
		per.BackgroundVol = vol
		return nil
	})
}

// CycleBackground steps none, pink, white and back to none.
func (s *Session) CycleBackground() (LeadVoice, error) {
	return s.editLead(func(per *Period, _ *Voice) error {
		per.Background = (per.Background + 1) % (BackgroundWhite + 1)
		return nil
	})
}

func (s *Session) AdjustNoiseVol(delta float64) (LeadVoice, error) {
	return s.editLead(func(per *Period, _ *Voice) error {
		per.BackgroundVol = clampFloat(per.BackgroundVol+delta, 0, 1)
		return nil
	})
}

// LoadProgramFile reads a schedule file and queues it.
func (s *Session) LoadProgramFile(path string) (Program, error) {
	p, err := LoadSchedule(path)
	if err != nil {
		return Program{}, err
	}
	s.QueueProgram(p)
	s.loads.Add(1)
	return p, nil
}

// LoadedFiles counts schedule files loaded into the running session.
func (s *Session) LoadedFiles() uint64 { return s.loads.Load() }
