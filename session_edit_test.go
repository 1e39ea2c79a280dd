package main

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func newEditSession() (*Session, []int16) {
	session := NewSession(SynthConfig{}, ControllerConfig{})
	session.SetProgram(singleVoiceProgram(6, 200, 60))
	return session, session.NewBuffer()
}

func TestSession_QueuedProgramAppliesOnRender(t *testing.T) {
	session, buf := newEditSession()
	session.Render(buf)

	next := singleVoiceProgram(12, 300, 30)
	next.Name = "next"
	session.QueueProgram(next)
	next.Periods[0].Voices[0].FreqStart = 99 // caller keeps its own copy

	if got := session.Synth().Program().Name; got != "test" {
		t.Fatalf("program swapped before Render: %q", got)
	}
	session.Render(buf)

	st := session.Status()
	if st.ProgramName != "next" || st.BeatFreq != 12 {
		t.Errorf("after Render: program %q beat %v, want next 12", st.ProgramName, st.BeatFreq)
	}
	if st.PeriodLength != 30 {
		t.Errorf("period length = %v, want 30", st.PeriodLength)
	}
	if st.RenderedSec <= session.Synth().Config().BufferSeconds() {
		t.Errorf("rendered time reset by a live edit: %v", st.RenderedSec)
	}
}

func TestSession_LeadEdits(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(s *Session) (LeadVoice, error)
		check func(l LeadVoice) bool
	}{
		{"set beat", func(s *Session) (LeadVoice, error) { return s.SetBeat(10) },
			func(l LeadVoice) bool { return l.Beat == 10 }},
		{"beat step clamps", func(s *Session) (LeadVoice, error) { return s.AdjustBeat(100) },
			func(l LeadVoice) bool { return l.Beat == CLI_BEAT_MAX }},
		{"set base", func(s *Session) (LeadVoice, error) { return s.SetBase(250) },
			func(l LeadVoice) bool { return l.Base == 250 }},
		{"base step", func(s *Session) (LeadVoice, error) { return s.AdjustBase(-BASE_STEP) },
			func(l LeadVoice) bool { return l.Base == 195 }},
		{"isochronic", func(s *Session) (LeadVoice, error) { return s.ToggleIsochronic() },
			func(l LeadVoice) bool { return l.Isochronic }},
		{"background", func(s *Session) (LeadVoice, error) { return s.SetBackground(BackgroundWhite, 0.2) },
			func(l LeadVoice) bool { return l.Background == BackgroundWhite && l.BackgroundVol == 0.2 }},
		{"noise step clamps", func(s *Session) (LeadVoice, error) { return s.AdjustNoiseVol(-NOISE_VOL_STEP) },
			func(l LeadVoice) bool { return l.BackgroundVol == 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, _ := newEditSession()
			lead, err := tt.edit(session)
			if err != nil {
				t.Fatalf("edit: %v", err)
			}
			if !tt.check(lead) {
				t.Errorf("lead = %+v", lead)
			}
			if got, _ := session.Lead(); got != lead {
				t.Errorf("Lead() = %+v, edit returned %+v", got, lead)
			}
		})
	}
}

func TestSession_EditsRejectOutOfRange(t *testing.T) {
	session, _ := newEditSession()
	edits := map[string]func() (LeadVoice, error){
		"beat low":  func() (LeadVoice, error) { return session.SetBeat(0.1) },
		"beat high": func() (LeadVoice, error) { return session.SetBeat(41) },
		"base low":  func() (LeadVoice, error) { return session.SetBase(20) },
		"noise":     func() (LeadVoice, error) { return session.SetBackground(BackgroundPink, 1.5) },
	}
	for name, edit := range edits {
		if _, err := edit(); err == nil {
			t.Errorf("%s: out-of-range edit accepted", name)
		}
	}
	if lead, _ := session.Lead(); lead.Beat != 6 || lead.Base != 200 {
		t.Errorf("rejected edit changed the program: %+v", lead)
	}
}

func TestSession_EditsAccumulateBeforeRender(t *testing.T) {
	session, buf := newEditSession()
	session.SetBeat(9)
	session.SetBase(180)
	session.SetIsochronic(true)
	session.Render(buf)

	per, ok := session.Synth().CurrentPeriod()
	if !ok {
		t.Fatal("no period after edits")
	}
	v := per.Voices[0]
	if v.FreqStart != 9 || v.FreqEnd != 9 || v.Pitch != 180 || !v.Isochronic {
		t.Errorf("voice = %+v", v)
	}
}

func TestSession_CycleBackground(t *testing.T) {
	session, _ := newEditSession()
	want := []BackgroundKind{BackgroundPink, BackgroundWhite, BackgroundNone}
	for i, w := range want {
		lead, err := session.CycleBackground()
		if err != nil {
			t.Fatal(err)
		}
		if lead.Background != w {
			t.Errorf("step %d: %v, want %v", i, lead.Background, w)
		}
	}
}

func TestSession_EditWithoutVoice(t *testing.T) {
	session := NewSession(SynthConfig{}, ControllerConfig{})
	session.SetProgram(Program{})
	if _, err := session.SetBeat(5); !errors.Is(err, ErrNoLeadVoice) {
		t.Errorf("err = %v, want ErrNoLeadVoice", err)
	}
	if _, ok := session.Lead(); ok {
		t.Error("Lead reported a voice for an empty program")
	}
}

func TestSession_LoadProgramFile(t *testing.T) {
	session, buf := newEditSession()
	dir := t.TempDir()
	path := filepath.Join(dir, "focus.yaml")
	if err := os.WriteFile(path, []byte(yamlSample), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := session.LoadProgramFile(path)
	if err != nil {
		t.Fatalf("LoadProgramFile: %v", err)
	}
	if p.Name != "Focus" || session.LoadedFiles() != 1 {
		t.Errorf("loaded %q, count %d", p.Name, session.LoadedFiles())
	}
	session.Render(buf)
	if st := session.Status(); st.ProgramName != "Focus" || st.PeriodCount != 2 {
		t.Errorf("status = %+v", st)
	}

	_, err = session.LoadProgramFile(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v", err)
	}
	if session.LoadedFiles() != 1 {
		t.Error("failed load counted")
	}
}

func TestSession_EditsWhileRendering(t *testing.T) {
	session, buf := newEditSession()
	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Go(func() {
		for {
			select {
			case <-stop:
				return
			default:
				session.Render(buf)
			}
		}
	})
	for i := 0; i < 200; i++ {
		session.AdjustBeat(BEAT_STEP)
		session.ToggleIsochronic()
		session.Status()
	}
	close(stop)
	wg.Wait()

	session.Render(buf)
	lead, _ := session.Lead()
	if got := session.Status().BeatFreq; got != lead.Beat {
		t.Errorf("rendered beat %v, last edit %v", got, lead.Beat)
	}
}
