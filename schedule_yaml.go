// schedule_yaml.go - YAML schedule format

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
	"io"

	"gopkg.in/yaml.v3"
)

type yamlSchedule struct {
	Name    string       `yaml:"name"`
	Periods []yamlPeriod `yaml:"periods"`
}

type yamlPeriod struct {
	Length           float64     `yaml:"length"`
	Background       string      `yaml:"background,omitempty"`
	BackgroundVolume float64     `yaml:"background_volume,omitempty"`
	Voices           []yamlVoice `yaml:"voices"`
}

type yamlVoice struct {
	FreqStart  float64  `yaml:"freq_start"`
	FreqEnd    *float64 `yaml:"freq_end,omitempty"` // defaults to freq_start
	Volume     *float64 `yaml:"volume,omitempty"`   // defaults to 0.7
	Pitch      *float64 `yaml:"pitch,omitempty"`    // omitted: derived from voice index
	Isochronic bool     `yaml:"isochronic,omitempty"`
}

// ParseYAMLSchedule decodes a schedule document. Unknown keys are rejected.
func ParseYAMLSchedule(r io.Reader) (Program, error) {
	var doc yamlSchedule
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Program{}, ErrEmptySchedule
		}
		return Program{}, fmt.Errorf("decode yaml schedule: %w", err)
	}

	prog := Program{Name: doc.Name}
	for i, yp := range doc.Periods {
		bg, err := ParseBackgroundKind(yp.Background)
		if err != nil {
			return Program{}, fmt.Errorf("period %d: %w", i, err)
		}
		per := Period{
			LengthSec:     yp.Length,
			Background:    bg,
			BackgroundVol: yp.BackgroundVolume,
		}
		for _, yv := range yp.Voices {
			v := NewVoice(yv.FreqStart, yv.FreqStart, PITCH_FROM_INDEX)
			if yv.FreqEnd != nil {
				v.FreqEnd = *yv.FreqEnd
			}
			if yv.Volume != nil {
				v.Volume = *yv.Volume
			}
			if yv.Pitch != nil {
				v.Pitch = *yv.Pitch
			}
			v.Isochronic = yv.Isochronic
			per.Voices = append(per.Voices, v)
		}
		prog.Periods = append(prog.Periods, per)
	}
	if len(prog.Periods) == 0 {
		return Program{}, ErrEmptySchedule
	}
	return prog, nil
}

// SaveYAMLSchedule writes p in the shape ParseYAMLSchedule reads.
func SaveYAMLSchedule(w io.Writer, p Program) error {
	doc := yamlSchedule{Name: p.Name}
	for _, per := range p.Periods {
		yp := yamlPeriod{
			Length:           per.LengthSec,
			BackgroundVolume: per.BackgroundVol,
		}
		if per.Background != BackgroundNone {
			yp.Background = per.Background.String()
		}
		for _, v := range per.Voices {
			yv := yamlVoice{FreqStart: v.FreqStart, Isochronic: v.Isochronic}
			if v.FreqEnd != v.FreqStart {
				yv.FreqEnd = &v.FreqEnd
			}
			if v.Volume != DEFAULT_VOICE_VOLUME {
				yv.Volume = &v.Volume
			}
			if v.Pitch >= 0 {
				yv.Pitch = &v.Pitch
			}
			yp.Voices = append(yp.Voices, yv)
		}
		doc.Periods = append(doc.Periods, yp)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml schedule: %w", err)
	}
	return enc.Close()
}
