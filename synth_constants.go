// synth_constants.go - Shared constants for the binaural synthesis engine

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

// Engine timing defaults
const (
	DEFAULT_SAMPLE_RATE   = 44100
	DEFAULT_BUFFER_FRAMES = 2048
	SIN_TABLE_SIZE        = 1440 // table entries per cycle for the LUT renderer
)

// Voice defaults
const (
	A_FREQ               = 432.0 // reference pitch for derived carriers
	DEFAULT_VOICE_VOLUME = 0.7
	PITCH_FROM_INDEX     = -1.0 // negative pitch: derive carrier from voice index
)

// Fade envelope
const (
	FADE_MIN          = 0.6
	FADE_INOUT_PERIOD = 5.0 // periods shorter than this are never faded
)

// Output mixing
const (
	INT16_SCALE      = 32767.0
	NOISE_MIX_SCALE  = 0.5
	VOLUME_MULT_MAX  = 2.0
	NOISE_AUDIBLE_AT = 0.001 // schedule noise volumes at or below this are treated as silent
)

// Closed-loop control
const (
	BEAT_FREQ_MIN     = 0.5
	BEAT_FREQ_MAX     = 40.0
	DEFAULT_RAMP_RATE = 2.0 // Hz per second
	CONFIDENCE_GATE   = 0.01
	QUEUE_CAPACITY    = 8
)

// Display mirror
const (
	WAVEFORM_CAPACITY = 4096
)
