//go:build !headless

// gui_window.go - Ebiten scope and status window

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
	"fmt"
	"image/color"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

func init() {
	compiledFeatures = append(compiledFeatures, "gui:ebiten")
}

const (
	GUI_WIDTH       = 720
	GUI_HEIGHT      = 480
	GUI_SCOPE_H     = 120
	GUI_LINE_H      = 16
	GUI_MESSAGE_TTL = 4 * time.Second
	GUI_PASTE_MAX   = 4096
)

var (
	guiBackground = color.RGBA{18, 18, 24, 255}
	guiLabel      = color.RGBA{190, 190, 190, 255}
	guiValue      = color.RGBA{235, 235, 240, 255}
	guiLeft       = color.RGBA{0, 220, 90, 255}
	guiRight      = color.RGBA{90, 160, 255, 255}
	guiAI         = color.RGBA{240, 200, 40, 255}
	guiBarOff     = color.RGBA{60, 60, 70, 255}
)

// ScopeWindow draws the session waveform and status in a window and feeds
// its keys to the same PlayControl the terminal uses. Ctrl+Shift+V loads the
// schedule file whose path is on the clipboard.
type ScopeWindow struct {
	ctx       context.Context
	session   *Session
	control   *PlayControl
	predictor string
	quit      func()

	clipboardOnce sync.Once
	clipboardOK   bool

	mu        sync.Mutex
	message   string
	messageAt time.Time
}

func NewScopeWindow(ctx context.Context, session *Session, control *PlayControl, predictor string, quit func()) *ScopeWindow {
	return &ScopeWindow{ctx: ctx, session: session, control: control, predictor: predictor, quit: quit}
}

// runScopeWindow blocks until the window closes or ctx is cancelled.
func runScopeWindow(ctx context.Context, session *Session, control *PlayControl, predictor string, quit func()) error {
	w := NewScopeWindow(ctx, session, control, predictor, quit)
	ebiten.SetWindowSize(GUI_WIDTH, GUI_HEIGHT)
	ebiten.SetWindowTitle("Binaural Engine")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetWindowClosingHandled(true)
	if err := ebiten.RunGame(w); err != nil {
		return fmt.Errorf("gui: %w", err)
	}
	return nil
}

func (w *ScopeWindow) Update() error {
	if ebiten.IsWindowBeingClosed() {
		w.quit()
		return ebiten.Termination
	}
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		w.handleClipboardPaste()
		return nil
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if r > 0 && r < 0x80 {
			w.control.HandleKey(byte(r))
		}
	}
	for _, key := range guiSpecialKeys {
		if inpututil.IsKeyJustPressed(key) {
			if b, ok := translateGUIKey(key); ok {
				w.control.HandleKey(b)
			}
		}
	}
	return nil
}

var guiSpecialKeys = []ebiten.Key{
	ebiten.KeyEnter,
	ebiten.KeyNumpadEnter,
	ebiten.KeyEscape,
	ebiten.KeyArrowUp,
	ebiten.KeyArrowDown,
	ebiten.KeyArrowLeft,
	ebiten.KeyArrowRight,
}

// translateGUIKey maps non-printing keys onto PlayControl bytes. Space
// arrives as an input char and is not a PlayControl key.
func translateGUIKey(key ebiten.Key) (byte, bool) {
	switch key {
	case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
		return '\r', true
	case ebiten.KeyEscape:
		return 'q', true
	case ebiten.KeyArrowUp:
		return '+', true
	case ebiten.KeyArrowDown:
		return '-', true
	case ebiten.KeyArrowLeft:
		return '<', true
	case ebiten.KeyArrowRight:
		return '>', true
	}
	return 0, false
}

func (w *ScopeWindow) handleClipboardPaste() {
	w.clipboardOnce.Do(func() {
		w.clipboardOK = clipboard.Init() == nil
	})
	if !w.clipboardOK {
		w.setMessage("clipboard unavailable")
		return
	}
	path, ok := pastedPath(clipboard.Read(clipboard.FmtText))
	if !ok {
		w.setMessage("clipboard holds no file path")
		return
	}
	p, err := w.session.LoadProgramFile(path)
	if err != nil {
		w.setMessage(err.Error())
		return
	}
	w.setMessage(fmt.Sprintf("loaded %s (%d periods)", p.Name, len(p.Periods)))
}

// pastedPath takes the first line of pasted text as a file path, dropping
// surrounding quotes and a file:// prefix.
func pastedPath(raw []byte) (string, bool) {
	if len(raw) > GUI_PASTE_MAX {
		raw = raw[:GUI_PASTE_MAX]
	}
	s := strings.TrimSpace(string(raw))
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	s = strings.Trim(s, `"'`)
	s = strings.TrimPrefix(s, "file://")
	return s, s != ""
}

func (w *ScopeWindow) setMessage(msg string) {
	w.mu.Lock()
	w.message, w.messageAt = msg, time.Now()
	w.mu.Unlock()
}

func (w *ScopeWindow) currentMessage() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if time.Since(w.messageAt) > GUI_MESSAGE_TTL {
		return ""
	}
	return w.message
}

func (w *ScopeWindow) Draw(screen *ebiten.Image) {
	screen.Fill(guiBackground)
	face := basicfont.Face7x13
	st := w.session.Status()

	left, right := w.session.Waveform().Samples()
	drawGUIScope(screen, 10, 10, GUI_WIDTH-20, GUI_SCOPE_H, left, guiLeft)
	drawGUIScope(screen, 10, 20+GUI_SCOPE_H, GUI_WIDTH-20, GUI_SCOPE_H, right, guiRight)

	y := 2*GUI_SCOPE_H + 50
	line := func(label, value string, c color.Color) {
		text.Draw(screen, label, face, 10, y, guiLabel)
		text.Draw(screen, value, face, 100, y, c)
		y += GUI_LINE_H
	}

	mode, modeColor := "Manual", color.Color(guiValue)
	if st.AIDriven {
		mode, modeColor = "AI-driven", guiAI
	}
	if w.control.Paused() {
		mode += " (paused)"
	}
	line("Program", st.ProgramName, guiValue)
	line("Mode", fmt.Sprintf("%s  predictor: %s", mode, w.predictor), modeColor)
	line("Beat", fmt.Sprintf("%.2f Hz  %s", st.BeatFreq, BeatBand(st.BeatFreq)), guiValue)
	if lead, ok := w.session.Lead(); ok {
		kind := "binaural"
		if lead.Isochronic {
			kind = "isochronic"
		}
		line("Tone", fmt.Sprintf("%.0f Hz base  %s  %s noise %.2f", lead.Base, kind, lead.Background, lead.BackgroundVol), guiValue)
	}
	line("Period", fmt.Sprintf("%d/%d  %.1f / %.1f s  fade %.2f", st.PeriodIndex+1, st.PeriodCount, st.PeriodElapsed, st.PeriodLength, st.Fade), guiValue)
	progress := 0.0
	if st.PeriodLength > 0 {
		progress = st.PeriodElapsed / st.PeriodLength
	}
	drawGUIBar(screen, 100, y-10, 300, 8, progress)
	y += GUI_LINE_H / 2
	line("Volume", fmt.Sprintf("%.1f   balance %+.1f %s", st.Volume, st.Balance, BalanceLabel(st.Balance)), guiValue)
	line("Played", formatClock(st.RenderedSec), guiValue)

	y += GUI_LINE_H / 2
	text.Draw(screen, "Enter pause  Esc quit  c clear AI  arrows volume/balance  [ ] beat  { } base", face, 10, y, guiLabel)
	y += GUI_LINE_H
	text.Draw(screen, "i isochronic  n noise  ( ) noise volume  Ctrl+Shift+V load schedule path", face, 10, y, guiLabel)
	y += GUI_LINE_H
	if msg := w.currentMessage(); msg != "" {
		text.Draw(screen, msg, face, 10, y, guiAI)
	}
}

func (w *ScopeWindow) Layout(_, _ int) (int, int) {
	return GUI_WIDTH, GUI_HEIGHT
}

// drawGUIScope plots samples in [-1,1] as one 2x2 dot per column.
func drawGUIScope(screen *ebiten.Image, x, y, width, height int, samples []float32, c color.Color) {
	ebitenutil.DrawRect(screen, float64(x), float64(y+height/2), float64(width), 1, guiBarOff)
	for col, v := range scopeColumns(samples, width) {
		ebitenutil.DrawRect(screen, float64(x+col), scopeY(v, y, height), 2, 2, c)
	}
}

func drawGUIBar(screen *ebiten.Image, x, y, width, height int, frac float64) {
	ebitenutil.DrawRect(screen, float64(x), float64(y), float64(width), float64(height), guiBarOff)
	filled := clampFloat(frac, 0, 1) * float64(width)
	ebitenutil.DrawRect(screen, float64(x), float64(y), filled, float64(height), guiLeft)
}
