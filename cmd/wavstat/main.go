package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	quiet := flag.Bool("q", false, "Print only the beat frequency")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wavstat [options] file.wav...\n\nReports level, carrier and beat frequency of rendered binaural WAV files.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  wavstat output.wav\n")
		fmt.Fprintf(os.Stderr, "  wavstat -q session_*.wav\n")
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	failed := 0
	for _, path := range flag.Args() {
		rep, err := analyzeFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", path, err)
			failed++
			continue
		}
		if *quiet {
			fmt.Printf("%s\t%.2f\n", path, rep.BeatHz)
			continue
		}
		printReport(path, rep)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func analyzeFile(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, err
	}
	defer f.Close()
	return Analyze(f)
}

func printReport(path string, rep Report) {
	fmt.Printf("%s\n", path)
	fmt.Printf("  Format:   %d Hz, %d ch, %d frames (%.2fs)\n", rep.SampleRate, rep.Channels, rep.Frames, rep.Duration)
	fmt.Printf("  Left:     peak %.3f  rms %.3f  %.2f Hz\n", rep.Left.Peak, rep.Left.RMS, rep.Left.Dominant)
	fmt.Printf("  Right:    peak %.3f  rms %.3f  %.2f Hz\n", rep.Right.Peak, rep.Right.RMS, rep.Right.Dominant)
	fmt.Printf("  Beat:     %.2f Hz (%s)\n", rep.BeatHz, Band(rep.BeatHz))
}
