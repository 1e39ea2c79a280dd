// cli_options.go - Command line options shared by play and render

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
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Flag ranges for flag-built programs
const (
	CLI_BEAT_MIN   = BEAT_FREQ_MIN
	CLI_BEAT_MAX   = BEAT_FREQ_MAX
	CLI_BASE_MIN   = 40.0
	CLI_BASE_MAX   = 500.0
	CLI_VOLUME_MAX = 1.2

	DEFAULT_PREDICT_EVERY = 4 // buffers between offline predictor steps
)

type programOptions struct {
	duration   float64
	beat       float64
	base       float64
	noise      string
	noiseVol   float64
	isochronic bool
	volume     float64
	file       string
}

func (o *programOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64VarP(&o.duration, "duration", "d", 10, "Duration in seconds")
	f.Float64VarP(&o.beat, "beat", "b", 4, "Beat frequency in Hz (0.5-40)")
	f.Float64Var(&o.base, "base", 161, "Carrier frequency in Hz (40-500)")
	f.StringVar(&o.noise, "noise", "none", "Background noise: none, pink, white")
	f.Float64Var(&o.noiseVol, "noise-vol", 0.01, "Background noise volume (0-1)")
	f.BoolVarP(&o.isochronic, "isochronic", "i", false, "Pulse the tone at the beat rate instead of splitting it between ears")
	f.Float64Var(&o.volume, "volume", DEFAULT_VOICE_VOLUME, "Tone volume (0-1.2)")
	f.StringVarP(&o.file, "file", "f", "", "Schedule file (Gnaural .gnaural/.xml/.txt or .yaml); overrides the tone flags")
}

func (o *programOptions) validate() error {
	switch {
	case o.duration <= 0:
		return fmt.Errorf("duration must be > 0, got %v", o.duration)
	case o.beat < CLI_BEAT_MIN || o.beat > CLI_BEAT_MAX:
		return fmt.Errorf("beat frequency must be %.1f-%.0f Hz, got %v", CLI_BEAT_MIN, CLI_BEAT_MAX, o.beat)
	case o.base < CLI_BASE_MIN || o.base > CLI_BASE_MAX:
		return fmt.Errorf("base frequency must be %.0f-%.0f Hz, got %v", CLI_BASE_MIN, CLI_BASE_MAX, o.base)
	case o.noiseVol < 0 || o.noiseVol > 1:
		return fmt.Errorf("noise volume must be 0-1, got %v", o.noiseVol)
	case o.volume < 0 || o.volume > CLI_VOLUME_MAX:
		return fmt.Errorf("volume must be 0-%.1f, got %v", CLI_VOLUME_MAX, o.volume)
	}
	if _, err := ParseBackgroundKind(o.noise); err != nil {
		return err
	}
	return nil
}

// program builds the program to play and reports whether it came from a file.
func (o *programOptions) program() (Program, bool, error) {
	if o.file != "" {
		prog, err := LoadSchedule(o.file)
		if err != nil {
			return Program{}, false, err
		}
		return prog, true, nil
	}
	if err := o.validate(); err != nil {
		return Program{}, false, err
	}

	bg, _ := ParseBackgroundKind(o.noise)
	v := NewVoice(o.beat, o.beat, o.base)
	v.Volume = o.volume
	v.Isochronic = o.isochronic
	per := Period{
		LengthSec:  o.duration,
		Voices:     []Voice{v},
		Background: bg,
	}
	if bg != BackgroundNone {
		per.BackgroundVol = o.noiseVol
	}
	return Program{Name: "CLI", Periods: []Period{per}}, false, nil
}

type engineOptions struct {
	renderer     string
	sampleRate   int
	bufferFrames int
	rampRate     float64
}

func (o *engineOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.renderer, "renderer", "phase", "Oscillator renderer: phase or lut")
	f.IntVar(&o.sampleRate, "sample-rate", DEFAULT_SAMPLE_RATE, "Output sample rate in Hz")
	f.IntVar(&o.bufferFrames, "buffer-frames", DEFAULT_BUFFER_FRAMES, "Frames rendered per callback")
	f.Float64Var(&o.rampRate, "ramp-rate", DEFAULT_RAMP_RATE, "Maximum AI beat change in Hz per second")
}

func (o *engineOptions) newSession(prog Program) (*Session, error) {
	r, err := ParseRenderer(o.renderer)
	if err != nil {
		return nil, err
	}
	if o.sampleRate <= 0 || o.bufferFrames <= 0 {
		return nil, fmt.Errorf("sample rate and buffer frames must be positive")
	}
	session := NewSession(
		SynthConfig{SampleRate: o.sampleRate, BufferFrames: o.bufferFrames, Renderer: r},
		ControllerConfig{RampRate: o.rampRate},
	)
	session.SetProgram(prog)
	return session, nil
}

type predictorOptions struct {
	predictor  string
	luaScript  string
	target     float64
	eegProfile string
	interval   time.Duration
}

func (o *predictorOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.predictor, "predictor", "none", "EEG predictor: none, stub, lua or remote")
	f.StringVar(&o.luaScript, "lua-script", "", "Lua predictor script (default: built-in band ratio script)")
	f.Float64Var(&o.target, "target", DEFAULT_STUB_TARGET_HZ, "Target beat frequency reported by the stub predictor")
	f.StringVar(&o.eegProfile, "eeg-profile", "relaxed", "Synthetic EEG input for the lua predictor: relaxed, anxious or drowsy")
	f.DurationVar(&o.interval, "predict-interval", DEFAULT_INFERENCE_INTERVAL, "Time between predictions")
}

// build returns the inference loop for the selected predictor (nil for none)
// and the remote mailbox when the remote predictor is selected.
func (o *predictorOptions) build(queue *SPSCQueue[EEGStatePrediction], logger *log.Logger) (*InferenceLoop, *RemotePredictor, func(), error) {
	loop := &InferenceLoop{Queue: queue, Interval: o.interval, Logger: logger}
	cleanup := func() {}

	switch o.predictor {
	case "", "none":
		return nil, nil, cleanup, nil
	case "stub":
		loop.Predictor = NewStubPredictor(true, o.target)
	case "lua":
		lp, err := LoadLuaPredictor(o.luaScript, logger)
		if err != nil {
			return nil, nil, cleanup, err
		}
		cfg, err := SyntheticEEGProfile(o.eegProfile)
		if err != nil {
			lp.Close()
			return nil, nil, cleanup, err
		}
		loop.Predictor = lp
		loop.Source = NewSyntheticEEG(cfg)
		cleanup = lp.Close
	case "remote":
		remote := NewRemotePredictor()
		loop.Predictor = remote
		return loop, remote, cleanup, nil
	default:
		return nil, nil, cleanup, fmt.Errorf("unknown predictor %q (want none, stub, lua or remote)", o.predictor)
	}
	return loop, nil, cleanup, nil
}

func (o *predictorOptions) name() string {
	if o.predictor == "" {
		return "none"
	}
	return o.predictor
}

type playOptions struct {
	programOptions
	engineOptions
	predictorOptions
	listen  string
	tui     bool
	gui     bool
	verbose bool
}

func (o *playOptions) bind(cmd *cobra.Command) {
	o.programOptions.bind(cmd)
	o.engineOptions.bind(cmd)
	o.predictorOptions.bind(cmd)
	f := cmd.Flags()
	f.StringVar(&o.listen, "listen", "", "Serve the HTTP control API on this address, e.g. :8080")
	f.BoolVar(&o.tui, "tui", false, "Show the full-screen monitor")
	f.BoolVar(&o.gui, "gui", false, "Open the scope and status window")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Debug logging")
}

type renderOptions struct {
	programOptions
	engineOptions
	predictorOptions
	out          string
	length       float64
	predictEvery int
	verbose      bool
}

func (o *renderOptions) bind(cmd *cobra.Command) {
	o.programOptions.bind(cmd)
	o.engineOptions.bind(cmd)
	o.predictorOptions.bind(cmd)
	f := cmd.Flags()
	f.StringVarP(&o.out, "out", "o", "output.wav", "Output WAV path")
	f.Float64Var(&o.length, "length", 0, "Seconds to render (0: whole program)")
	f.IntVar(&o.predictEvery, "predict-every", DEFAULT_PREDICT_EVERY, "Run the predictor once every N buffers")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Debug logging")
}
