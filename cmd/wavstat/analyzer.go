package main

import (
	"fmt"
	"io"
	"math"
	"math/cmplx"

	"github.com/gopxl/beep/wav"
	"github.com/madelynnblue/go-dsp/fft"
	"github.com/madelynnblue/go-dsp/window"
)

// MAX_FFT_SIZE caps the analysis window; at 44.1 kHz this resolves ~0.67 Hz per bin
// before interpolation.
const MAX_FFT_SIZE = 1 << 16

type ChannelStats struct {
	Peak     float64
	RMS      float64
	Dominant float64 // Hz
}

type Report struct {
	SampleRate int
	Channels   int
	Frames     int
	Duration   float64
	Left       ChannelStats
	Right      ChannelStats
	BeatHz     float64 // |right - left| dominant frequency
}

// Analyze decodes a WAV stream and measures both channels.
func Analyze(r io.Reader) (Report, error) {
	s, format, err := wav.Decode(r)
	if err != nil {
		return Report{}, fmt.Errorf("decode wav: %w", err)
	}
	defer s.Close()

	var frames [][2]float64
	buf := make([][2]float64, 4096)
	for {
		n, ok := s.Stream(buf)
		frames = append(frames, buf[:n]...)
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return Report{}, fmt.Errorf("read wav: %w", err)
	}

	rep := AnalyzeFrames(frames, int(format.SampleRate))
	rep.Channels = format.NumChannels
	return rep, nil
}

// AnalyzeFrames measures already decoded stereo frames.
func AnalyzeFrames(frames [][2]float64, sampleRate int) Report {
	rep := Report{SampleRate: sampleRate, Channels: 2, Frames: len(frames)}
	if sampleRate > 0 {
		rep.Duration = float64(len(frames)) / float64(sampleRate)
	}
	if len(frames) == 0 {
		return rep
	}

	left := make([]float64, len(frames))
	right := make([]float64, len(frames))
	for i, f := range frames {
		left[i], right[i] = f[0], f[1]
	}
	rep.Left = channelStats(left, float64(sampleRate))
	rep.Right = channelStats(right, float64(sampleRate))
	rep.BeatHz = math.Abs(rep.Right.Dominant - rep.Left.Dominant)
	return rep
}

func channelStats(samples []float64, sampleRate float64) ChannelStats {
	var st ChannelStats
	sum := 0.0
	for _, v := range samples {
		if a := math.Abs(v); a > st.Peak {
			st.Peak = a
		}
		sum += v * v
	}
	st.RMS = math.Sqrt(sum / float64(len(samples)))
	st.Dominant = dominantFrequency(samples, sampleRate)
	return st
}

// dominantFrequency windows the middle of the signal, takes the strongest
// non-DC bin and refines it with parabolic interpolation.
func dominantFrequency(samples []float64, sampleRate float64) float64 {
	n := 1
	for n*2 <= len(samples) && n*2 <= MAX_FFT_SIZE {
		n *= 2
	}
	if n < 4 || sampleRate <= 0 {
		return 0
	}
	start := (len(samples) - n) / 2
	x := make([]float64, n)
	copy(x, samples[start:start+n])
	window.Apply(x, window.Hann)

	spectrum := fft.FFTReal(x)
	half := n / 2
	mag := make([]float64, half+1)
	for i := range mag {
		mag[i] = cmplx.Abs(spectrum[i])
	}

	best := 1
	for i := 2; i < half; i++ {
		if mag[i] > mag[best] {
			best = i
		}
	}
	if mag[best] == 0 {
		return 0
	}

	a, b, c := mag[best-1], mag[best], mag[best+1]
	delta := 0.0
	if den := a - 2*b + c; den != 0 {
		delta = 0.5 * (a - c) / den
	}
	return (float64(best) + delta) * sampleRate / float64(n)
}

// Band names the brainwave band of a beat frequency.
func Band(hz float64) string {
	switch {
	case hz <= 0:
		return "none"
	case hz < 4:
		return "delta"
	case hz < 8:
		return "theta"
	case hz < 12:
		return "alpha"
	case hz < 30:
		return "beta"
	default:
		return "gamma"
	}
}
