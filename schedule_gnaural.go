// schedule_gnaural.go - Gnaural schedule parsing (text and XML forms)

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
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	GNAURAL_PROGRAM_NAME     = "Gnaural"
	GNAURAL_DEFAULT_BASEFREQ = 200.0
	GNAURAL_DEFAULT_TONEVOL  = 0.70
	GNAURAL_FALLBACK_VOLUME  = 0.85
)

// looksLikeGnauralXML matches the markers Gnaural writes into its XML files.
func looksLikeGnauralXML(content string) bool {
	return strings.Contains(content, "<?xml") ||
		strings.Contains(content, "<gnaural") ||
		strings.Contains(content, "<entry")
}

// ParseGnaural decodes either Gnaural form, trying XML first when the content
// carries XML markers.
func ParseGnaural(content string) (Program, error) {
	if looksLikeGnauralXML(content) {
		p, err := parseGnauralXML(strings.NewReader(content))
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrEmptySchedule) {
			return Program{}, err
		}
	}
	return parseGnauralText(strings.NewReader(content))
}

type gnauralTextEntry struct {
	freqL, freqR, dur float64
}

// parseGnauralText reads the line format:
//
//	[BASEFREQ=200]
//	[NOISEVOL=10]
//	[TONEVOL=70]
//	210, 200, 60
func parseGnauralText(r io.Reader) (Program, error) {
	baseFreq := GNAURAL_DEFAULT_BASEFREQ
	noiseVol := 0.0
	toneVol := GNAURAL_DEFAULT_TONEVOL
	var entries []gnauralTextEntry

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r ")
		if line == "" || line[0] == '#' {
			continue
		}

		if v, ok, err := gnauralTag(line, "[BASEFREQ="); ok {
			if err != nil {
				return Program{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			baseFreq = v
			continue
		}
		if v, ok, err := gnauralTag(line, "[NOISEVOL="); ok {
			if err != nil {
				return Program{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			noiseVol = v / 100
			continue
		}
		if v, ok, err := gnauralTag(line, "[TONEVOL="); ok {
			if err != nil {
				return Program{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			toneVol = v / 100
			continue
		}
		if line[0] == '[' {
			continue
		}

		// Lines that do not scan as "fL, fR, dur" are skipped, like unknown tags.
		if e, ok := parseGnauralEntryLine(line); ok && e.dur > 0 {
			entries = append(entries, e)
		}
	}
	if err := sc.Err(); err != nil {
		return Program{}, fmt.Errorf("read gnaural text: %w", err)
	}
	if len(entries) == 0 {
		return Program{}, ErrEmptySchedule
	}

	prog := Program{Name: GNAURAL_PROGRAM_NAME}
	bg := gnauralBackground(noiseVol)
	for _, e := range entries {
		beat := math.Abs(e.freqL - e.freqR)
		v := NewVoice(beat, beat, baseFreq)
		v.Volume = toneVol
		prog.Periods = append(prog.Periods, Period{
			LengthSec:     e.dur,
			Voices:        []Voice{v},
			Background:    bg,
			BackgroundVol: noiseVol,
		})
	}
	return prog, nil
}

func gnauralTag(line, prefix string) (float64, bool, error) {
	if !strings.HasPrefix(line, prefix) {
		return 0, false, nil
	}
	body := strings.TrimPrefix(line, prefix)
	if i := strings.IndexByte(body, ']'); i >= 0 {
		body = body[:i]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(body), 64)
	if err != nil {
		return 0, true, fmt.Errorf("bad %s] value %q", strings.TrimSuffix(prefix, "="), body)
	}
	return v, true, nil
}

func parseGnauralEntryLine(line string) (gnauralTextEntry, bool) {
	fields := strings.Split(line, ",")
	if len(fields) < 3 {
		return gnauralTextEntry{}, false
	}
	var vals [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil {
			return gnauralTextEntry{}, false
		}
		vals[i] = v
	}
	return gnauralTextEntry{freqL: vals[0], freqR: vals[1], dur: math.Trunc(vals[2])}, true
}

type gnauralXMLEntry struct {
	dur, beat, base float64
	volume          float64
}

// parseGnauralXML scans <entry> elements wherever they appear. Entries with
// state="0" are disabled. When no entry carries the full attribute set, a
// looser pass accepts any entry with beatfreq, basefreq and duration.
func parseGnauralXML(r io.Reader) (Program, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose

	var (
		full, loose []gnauralXMLEntry
		noiseVol    float64
		inNoise     bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Program{}, fmt.Errorf("decode gnaural xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "entry":
				attrs := xmlAttrs(t.Attr)
				e, status := gnauralFullEntry(attrs)
				switch status {
				case entryEnabled:
					full = append(full, e)
				case entryIncomplete:
					if e, ok := gnauralLooseEntry(attrs); ok {
						loose = append(loose, e)
					}
				}
			case "noisevol":
				inNoise = true
			}
		case xml.EndElement:
			if t.Name.Local == "noisevol" {
				inNoise = false
			}
		case xml.CharData:
			if inNoise {
				if v, err := strconv.ParseFloat(strings.TrimSpace(string(t)), 64); err == nil {
					noiseVol = v / 100
				}
			}
		}
	}

	entries := full
	if len(entries) == 0 {
		entries = loose
	}
	if len(entries) == 0 {
		return Program{}, ErrEmptySchedule
	}

	prog := Program{Name: GNAURAL_PROGRAM_NAME}
	bg := gnauralBackground(noiseVol)
	for _, e := range entries {
		v := NewVoice(e.beat, e.beat, e.base)
		v.Volume = e.volume
		prog.Periods = append(prog.Periods, Period{
			LengthSec:     e.dur,
			Voices:        []Voice{v},
			Background:    bg,
			BackgroundVol: noiseVol,
		})
	}
	return prog, nil
}

func xmlAttrs(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

type entryStatus int

const (
	entryEnabled entryStatus = iota
	entryDisabled
	entryIncomplete
)

func gnauralFullEntry(attrs map[string]string) (gnauralXMLEntry, entryStatus) {
	var (
		vals [5]float64
		keys = [5]string{"duration", "beatfreq", "basefreq", "volume_left", "volume_right"}
	)
	for i, k := range keys {
		v, err := strconv.ParseFloat(attrs[k], 64)
		if err != nil {
			return gnauralXMLEntry{}, entryIncomplete
		}
		vals[i] = v
	}
	state, err := strconv.Atoi(attrs["state"])
	if err != nil {
		return gnauralXMLEntry{}, entryIncomplete
	}
	dur := math.Trunc(vals[0])
	if state == 0 || dur <= 0 {
		return gnauralXMLEntry{}, entryDisabled
	}
	return gnauralXMLEntry{dur: dur, beat: vals[1], base: vals[2], volume: (vals[3] + vals[4]) / 2}, entryEnabled
}

func gnauralLooseEntry(attrs map[string]string) (gnauralXMLEntry, bool) {
	beat, err1 := strconv.ParseFloat(attrs["beatfreq"], 64)
	base, err2 := strconv.ParseFloat(attrs["basefreq"], 64)
	dur, err3 := strconv.ParseFloat(attrs["duration"], 64)
	if err1 != nil || err2 != nil || err3 != nil || math.Trunc(dur) <= 0 {
		return gnauralXMLEntry{}, false
	}
	return gnauralXMLEntry{dur: math.Trunc(dur), beat: beat, base: base, volume: GNAURAL_FALLBACK_VOLUME}, true
}

func gnauralBackground(noiseVol float64) BackgroundKind {
	if noiseVol > NOISE_AUDIBLE_AT {
		return BackgroundPink
	}
	return BackgroundNone
}
