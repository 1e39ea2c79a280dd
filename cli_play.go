// cli_play.go - play and render command implementations

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
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	FALLBACK_WAV_PATH   = "output.wav"
	STATUS_LOG_INTERVAL = time.Second
	FINISH_POLL         = 100 * time.Millisecond
)

func runPlay(ctx context.Context, o *playOptions) error {
	logger := newLogger(os.Stderr, o.verbose)
	if o.predictor == "remote" && o.listen == "" {
		return fmt.Errorf("the remote predictor receives predictions over HTTP; add --listen")
	}
	if o.tui && o.gui {
		return fmt.Errorf("--tui and --gui cannot be combined")
	}

	prog, fromFile, err := o.program()
	if err != nil {
		return err
	}
	session, err := o.newSession(prog)
	if err != nil {
		return err
	}
	loop, remote, cleanup, err := o.predictorOptions.build(session.Queue(), logger)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := session.Synth().Config()
	player, err := NewOtoPlayer(cfg.SampleRate, cfg.BufferFrames)
	if err != nil {
		logger.Warn("audio output unavailable, rendering to file instead", "err", err, "path", FALLBACK_WAV_PATH)
		if remote != nil {
			logger.Warn("remote predictor has no input while rendering offline")
			loop = nil
		}
		w := NewWavWriter(cfg.SampleRate, cfg.BufferFrames, prog.TotalSeconds())
		if err := w.Start(steppedRender(session, loop, DEFAULT_PREDICT_EVERY)); err != nil {
			return err
		}
		if err := w.WriteFile(FALLBACK_WAV_PATH); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%s)\n", FALLBACK_WAV_PATH, formatClock(prog.TotalSeconds()))
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := os.Stdout
	if o.tui {
		out = nil
	}
	control := NewPlayControl(session, player, cancel, out)
	if err := player.Start(session.Render); err != nil {
		return fmt.Errorf("start audio: %w", err)
	}
	defer player.Stop()

	if !o.tui {
		printPlayBanner(prog, fromFile)
	}

	g, gctx := errgroup.WithContext(ctx)
	if loop != nil {
		g.Go(func() error { return ignoreCanceled(loop.Run(gctx)) })
	}
	if o.listen != "" {
		srv := NewControlServer(session, remote, o.predictorOptions.name(), logger)
		g.Go(func() error { return srv.Run(gctx, o.listen) })
	}
	if !fromFile {
		// flag-built programs play once
		g.Go(func() error {
			waitForEnd(gctx, session, prog.TotalSeconds(), control, cancel)
			return nil
		})
	}
	if o.gui {
		g.Go(func() error {
			defer cancel()
			return runScopeWindow(gctx, session, control, o.predictorOptions.name(), cancel)
		})
	}
	if o.tui {
		g.Go(func() error {
			defer cancel()
			return runMonitor(gctx, session, control, o.predictorOptions.name())
		})
	} else {
		host := NewTerminalHost(control)
		if host.Start() {
			defer host.Stop()
		}
		g.Go(func() error {
			logStatus(gctx, session, logger)
			return nil
		})
	}

	err = ignoreCanceled(g.Wait())
	if !o.tui {
		fmt.Println()
	}
	logger.Debug("playback stopped", "rendered", formatClock(session.Status().RenderedSec))
	return err
}

func printPlayBanner(prog Program, fromFile bool) {
	if fromFile {
		fmt.Printf("Playing: %s (%d periods, %s, looping). Press Enter to pause, Q to quit.\n",
			prog.Name, len(prog.Periods), formatClock(prog.TotalSeconds()))
		return
	}
	per := prog.Periods[0]
	v := per.Voices[0]
	mode := "binaural"
	if v.Isochronic {
		mode = "isochronic"
	}
	fmt.Printf("Playing: %.1f Hz %s beat (%s), %.0f Hz base (%.0fs). Press Enter to pause, Q to quit.\n",
		v.FreqStart, mode, BeatBand(v.FreqStart), v.Pitch, per.LengthSec)
	if per.Background != BackgroundNone {
		fmt.Printf("Background: %s noise at %.2f\n", per.Background, per.BackgroundVol)
	}
}

// waitForEnd pauses output and quits once length seconds have been rendered.
// A schedule file loaded while playing loops like one given on the command
// line, so it cancels the stop.
func waitForEnd(ctx context.Context, session *Session, length float64, control *PlayControl, quit func()) {
	ticker := time.NewTicker(FINISH_POLL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if session.LoadedFiles() > 0 {
				return
			}
			if session.Status().RenderedSec >= length {
				control.Finish()
				quit()
				return
			}
		}
	}
}

func logStatus(ctx context.Context, session *Session, logger *log.Logger) {
	ticker := time.NewTicker(STATUS_LOG_INTERVAL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := session.Status()
			logger.Debug("status",
				"period", fmt.Sprintf("%d/%d", st.PeriodIndex+1, st.PeriodCount),
				"elapsed", formatClock(st.PeriodElapsed),
				"beat", fmt.Sprintf("%.2f", st.BeatFreq),
				"fade", fmt.Sprintf("%.2f", st.Fade),
				"ai", st.AIDriven)
		}
	}
}

func runRender(o *renderOptions) error {
	logger := newLogger(os.Stderr, o.verbose)

	prog, _, err := o.program()
	if err != nil {
		return err
	}
	session, err := o.newSession(prog)
	if err != nil {
		return err
	}
	loop, _, cleanup, err := o.predictorOptions.build(session.Queue(), logger)
	if err != nil {
		return err
	}
	defer cleanup()
	if o.predictor == "remote" {
		return fmt.Errorf("the remote predictor needs a live session; use play --listen")
	}

	length := prog.TotalSeconds()
	if o.length > 0 {
		length = o.length
	}
	if length <= 0 {
		return fmt.Errorf("nothing to render: program %q has no length", prog.Name)
	}

	cfg := session.Synth().Config()
	w := NewWavWriter(cfg.SampleRate, cfg.BufferFrames, length)
	if err := w.Start(steppedRender(session, loop, o.predictEvery)); err != nil {
		return err
	}
	logger.Info("rendering", "program", prog.Name, "seconds", length, "renderer", cfg.Renderer, "path", o.out)
	if err := w.WriteFile(o.out); err != nil {
		return err
	}

	st := session.Status()
	fmt.Printf("Wrote %s (%s, final beat %.2f Hz)\n", o.out, formatClock(st.RenderedSec), st.BeatFreq)
	return nil
}

// steppedRender runs the predictor synchronously once every `every` buffers
// ahead of the session's render callback. Offline sinks have no wall clock
// for the inference goroutine to follow.
func steppedRender(session *Session, loop *InferenceLoop, every int) RenderFunc {
	if loop == nil {
		return session.Render
	}
	every = max(every, 1)
	n := 0
	return func(buf []int16) {
		if n%every == 0 {
			loop.Step()
		}
		n++
		session.Render(buf)
	}
}
