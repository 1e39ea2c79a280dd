package main

import (
	"context"
	"fmt"
	"time"

	"github.com/nsf/termbox-go"
)

const (
	colDef    = termbox.ColorDefault
	colWhite  = termbox.ColorWhite
	colRed    = termbox.ColorRed
	colGreen  = termbox.ColorGreen
	colYellow = termbox.ColorYellow
	colCyan   = termbox.ColorCyan
)

const (
	monitorRefresh = 50 * time.Millisecond
	scopeRows      = 7
	barWidth       = 40
)

type monitorState struct {
	session   *Session
	control   *PlayControl
	predictor string
}

// runMonitor draws the session until ctx is cancelled. Keys are mapped onto
// the same bindings as the plain terminal host, with arrows as extras.
func runMonitor(ctx context.Context, session *Session, control *PlayControl, predictor string) error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("init tui: %w", err)
	}
	defer termbox.Close()

	termbox.SetInputMode(termbox.InputEsc)

	state := &monitorState{session: session, control: control, predictor: predictor}

	eventQueue := make(chan termbox.Event)
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		for {
			ev := termbox.PollEvent()
			if ev.Type == termbox.EventInterrupt {
				return
			}
			select {
			case eventQueue <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	defer func() {
		termbox.Interrupt()
		<-pollDone
	}()

	ticker := time.NewTicker(monitorRefresh)
	defer ticker.Stop()

	drawMonitor(state)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-eventQueue:
			switch ev.Type {
			case termbox.EventKey:
				if b, ok := monitorKey(ev); ok {
					control.HandleKey(b)
				}
			case termbox.EventResize:
				drawMonitor(state)
			case termbox.EventError:
				return fmt.Errorf("tui event: %w", ev.Err)
			}
		case <-ticker.C:
			drawMonitor(state)
		}
	}
}

// monitorKey translates a termbox key event into a PlayControl byte.
func monitorKey(ev termbox.Event) (byte, bool) {
	switch ev.Key {
	case termbox.KeyEsc, termbox.KeyCtrlC:
		return 'q', true
	case termbox.KeyEnter, termbox.KeySpace:
		return '\r', true
	case termbox.KeyArrowUp:
		return '+', true
	case termbox.KeyArrowDown:
		return '-', true
	case termbox.KeyArrowLeft:
		return '<', true
	case termbox.KeyArrowRight:
		return '>', true
	}
	if ev.Ch > 0 && ev.Ch < 128 {
		return byte(ev.Ch), true
	}
	return 0, false
}

func drawMonitor(s *monitorState) {
	termbox.Clear(colDef, colDef)
	st := s.session.Status()

	printTB(0, 0, colCyan, colDef, fmt.Sprintf("Binaural Engine - %s", st.ProgramName))
	printTB(0, 1, colDef, colDef, "Enter pause  q quit  c clear AI  +/- volume  </> balance")
	printTB(0, 2, colDef, colDef, "[/] beat  {/} base  i isochronic  n noise  (/) noise volume")
	printTB(0, 3, colDef, colDef, "----------------------------------------------------------")

	mode, modeCol := "Manual", colGreen
	if st.AIDriven {
		mode, modeCol = "AI-driven", colYellow
	}
	if s.control.Paused() {
		mode, modeCol = mode+" (paused)", colRed
	}
	printTB(0, 4, colWhite, colDef, "Mode:")
	printTB(10, 4, modeCol, colDef, fmt.Sprintf("%s  predictor: %s", mode, s.predictor))

	printTB(0, 5, colWhite, colDef, "Beat:")
	printTB(10, 5, colDef, colDef, fmt.Sprintf("%6.2f Hz  %s", st.BeatFreq, BeatBand(st.BeatFreq)))

	printTB(0, 6, colWhite, colDef, "Period:")
	progress := 0.0
	if st.PeriodLength > 0 {
		progress = st.PeriodElapsed / st.PeriodLength
	}
	printTB(10, 6, colDef, colDef, fmt.Sprintf("%d/%d  %6.1f / %.1f s", st.PeriodIndex+1, st.PeriodCount, st.PeriodElapsed, st.PeriodLength))
	drawBar(10, 7, progress, colCyan)

	printTB(0, 8, colWhite, colDef, "Fade:")
	printTB(10, 8, colDef, colDef, fmt.Sprintf("%.2f", st.Fade))

	printTB(0, 9, colWhite, colDef, "Volume:")
	printTB(10, 9, colDef, colDef, fmt.Sprintf("%.1f", st.Volume))
	drawBar(16, 9, st.Volume/VOLUME_MULT_MAX, colGreen)

	printTB(0, 10, colWhite, colDef, "Balance:")
	printTB(10, 10, colDef, colDef, fmt.Sprintf("%+.1f %s", st.Balance, BalanceLabel(st.Balance)))

	printTB(0, 11, colWhite, colDef, "Played:")
	printTB(10, 11, colDef, colDef, formatClock(st.RenderedSec))

	if lead, ok := s.session.Lead(); ok {
		mode := "binaural"
		if lead.Isochronic {
			mode = "isochronic"
		}
		printTB(0, 12, colWhite, colDef, "Tone:")
		printTB(10, 12, colDef, colDef, fmt.Sprintf("%.0f Hz base  %s  %s noise %.2f", lead.Base, mode, lead.Background, lead.BackgroundVol))
	}

	left, right := s.session.Waveform().Samples()
	w, _ := termbox.Size()
	drawScope(0, 13, w, "L", left)
	drawScope(0, 14+scopeRows, w, "R", right)

	termbox.Flush()
}

func drawBar(x, y int, frac float64, color termbox.Attribute) {
	filled := int(clampFloat(frac, 0, 1) * barWidth)
	for i := 0; i < barWidth; i++ {
		ch := '.'
		if i < filled {
			ch = '#'
		}
		termbox.SetCell(x+i, y, ch, color, colDef)
	}
}

// drawScope plots samples in [-1,1] over scopeRows rows, one column per cell.
func drawScope(x, y, width int, label string, samples []float32) {
	printTB(x, y+scopeRows/2, colWhite, colDef, label)
	for c, v := range scopeColumns(samples, width-x-2) {
		row := int(scopeY(v, y, scopeRows))
		termbox.SetCell(x+2+c, row, '*', colGreen, colDef)
	}
}

func printTB(x, y int, fg, bg termbox.Attribute, msg string) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, bg)
		x++
	}
}

func formatClock(sec float64) string {
	total := int(sec)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
