// Command chamoclean denoises ion-channel current recordings.
//
// Usage:
//
//	chamoclean [flags] input-file
//
// The input is an Axon Text File (.atf) or a plain text file with one sample
// per line. Filters are applied in the order given to -filters and the
// cleaned trace is written to -o, one sample per line.
//
// Examples:
//
//	chamoclean -filters adaptive recording.atf
//	chamoclean -filters median,savgol -params "kernel_size=7,window_length=31" trace.txt
//	chamoclean -filters adaptive -patterns patterns.json -reinforce recording.atf
//	chamoclean -list
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-denoise/config"
	"github.com/cwbudde/algo-denoise/dsp/adaptive"
	"github.com/cwbudde/algo-denoise/dsp/denoise"
	"github.com/cwbudde/algo-denoise/dsp/frame"
	"github.com/cwbudde/algo-denoise/recording/atf"
	"github.com/cwbudde/algo-denoise/stats/quality"
)

func main() {
	filters := flag.String("filters", "adaptive", "comma-separated filter chain")
	paramsFlag := flag.String("params", "", "comma-separated key=value filter parameters")
	patterns := flag.String("patterns", "", "pattern file for the adaptive filter")
	configPath := flag.String("config", "", "configuration file with stored filter defaults")
	output := flag.String("o", "", "output file (default: stdout summary only)")
	column := flag.String("column", "", "ATF column to denoise (default: second column)")
	reinforce := flag.Bool("reinforce", false, "refine matched patterns after filtering")
	list := flag.Bool("list", false, "list available filter types")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: chamoclean [flags] input-file\n\n")
		fmt.Fprintf(os.Stderr, "Denoises ion-channel current recordings.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  chamoclean -filters adaptive recording.atf\n")
		fmt.Fprintf(os.Stderr, "  chamoclean -filters median,savgol trace.txt\n")
		fmt.Fprintf(os.Stderr, "  chamoclean -list\n")
	}
	flag.Parse()

	registry := denoise.DefaultRegistry()

	if *list {
		for _, name := range registry.Names() {
			fmt.Println(name)
		}
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	inputPath := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if *configPath != "" && err != nil {
		fatalf("load config: %v", err)
	}
	if *patterns == "" && *configPath != "" {
		*patterns = cfg.IO.PatternFile
	}

	signal, err := loadSignal(inputPath, *column)
	if err != nil {
		fatalf("%v", err)
	}

	overrides, err := parseParams(*paramsFlag)
	if err != nil {
		fatalf("%v", err)
	}
	if *patterns != "" {
		overrides.SetStr("pattern_file", *patterns)
	}

	chain, err := buildChain(registry, cfg, strings.Split(*filters, ","), overrides)
	if err != nil {
		fatalf("%v", err)
	}

	before, err := quality.Calculate(signal)
	if err != nil {
		fatalf("metrics: %v", err)
	}

	cleaned, err := denoise.Chain(signal, chain...)
	if err != nil {
		fatalf("filter: %v", err)
	}

	after, err := quality.Calculate(cleaned)
	if err != nil {
		fatalf("metrics: %v", err)
	}

	if *reinforce {
		for _, f := range chain {
			pf, ok := f.(denoise.PatternFilter)
			if !ok {
				continue
			}
			if err := reinforcePatterns(pf.Adaptive(), signal); err != nil {
				fatalf("reinforce: %v", err)
			}
		}
	}

	printReport(before, after, chain)

	if *configPath != "" {
		cfg.AddRecentFile(inputPath)
		if err := config.Save(*configPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "warning: save config: %v\n", err)
		}
	}

	if *output != "" {
		if err := writeSignal(*output, cleaned); err != nil {
			fatalf("write output: %v", err)
		}
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func loadSignal(path, column string) ([]float64, error) {
	if strings.EqualFold(filepath.Ext(path), ".atf") {
		rec, err := atf.ReadFile(path)
		if err != nil {
			return nil, err
		}
		fmt.Println(rec.Info())

		if column == "" {
			return rec.Current(), nil
		}
		data, ok := rec.Column(column)
		if !ok {
			return nil, fmt.Errorf("no column %q (have %v)", column, rec.Columns)
		}
		return data, nil
	}

	return loadTextSignal(path)
}

// loadTextSignal reads one sample per line, skipping blanks and comments.
func loadTextSignal(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var signal []float64
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		signal = append(signal, v)
	}

	return signal, sc.Err()
}

func writeSignal(path string, signal []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, v := range signal {
		if _, err := fmt.Fprintf(w, "%g\n", v); err != nil {
			return err
		}
	}

	return w.Flush()
}

// parseParams parses "key=value,key=value". Numeric values go to Num,
// everything else to Str.
func parseParams(raw string) (denoise.Params, error) {
	var p denoise.Params
	if raw == "" {
		return p, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found || key == "" {
			return p, fmt.Errorf("bad parameter %q, want key=value", pair)
		}
		if num, err := strconv.ParseFloat(value, 64); err == nil {
			p.SetNum(key, num)
		} else {
			p.SetStr(key, value)
		}
	}

	return p, nil
}

func buildChain(registry *denoise.Registry, cfg config.Config, names []string, overrides denoise.Params) ([]denoise.Filter, error) {
	chain := make([]denoise.Filter, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}

		// Stored defaults first, command-line overrides on top.
		var p denoise.Params
		for key, value := range cfg.FilterParams(name) {
			p.SetNum(key, value)
		}
		for key, value := range overrides.Num {
			p.SetNum(key, value)
		}
		for key, value := range overrides.Str {
			p.SetStr(key, value)
		}

		f, err := registry.New(name, p)
		if err != nil {
			return nil, err
		}
		chain = append(chain, f)
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("empty filter chain")
	}

	return chain, nil
}

// reinforcePatterns runs a learning pass over the signal: each window that
// matches a stored pattern refines that pattern toward the observation.
func reinforcePatterns(fx *adaptive.Filter, signal []float64) error {
	cfg := fx.Config()
	store := fx.Store()

	windows, err := frame.Extract(signal, cfg.WindowSize, cfg.Overlap)
	if err != nil {
		return err
	}

	for _, w := range windows {
		matches := store.FindMatches(w.Data, cfg.CorrelationThreshold)
		if len(matches) == 0 {
			continue
		}

		best := matches[0]
		for _, m := range matches[1:] {
			if m.Correlation > best.Correlation {
				best = m
			}
		}
		if err := store.Update(best.Key, w.Data, cfg.LearningRate); err != nil {
			return err
		}
	}

	return fx.Persist()
}

func printReport(before, after quality.Metrics, chain []denoise.Filter) {
	names := make([]string, len(chain))
	for i, f := range chain {
		names[i] = f.Name()
	}
	fmt.Printf("filters: %s\n\n", strings.Join(names, " -> "))

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Metric\tBefore\tAfter\n")
	fmt.Fprintf(tw, "------\t------\t-----\n")
	fmt.Fprintf(tw, "Mean\t%.6g\t%.6g\n", before.Mean, after.Mean)
	fmt.Fprintf(tw, "Std\t%.6g\t%.6g\n", before.Std, after.Std)
	fmt.Fprintf(tw, "RMS\t%.6g\t%.6g\n", before.RMS, after.RMS)
	fmt.Fprintf(tw, "PeakToPeak\t%.6g\t%.6g\n", before.PeakToPeak, after.PeakToPeak)
	fmt.Fprintf(tw, "SNR [dB]\t%.4g\t%.4g\n", before.SNR, after.SNR)
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: flush report: %v\n", err)
	}

	for _, f := range chain {
		pf, ok := f.(denoise.PatternFilter)
		if !ok {
			continue
		}
		stats := pf.Adaptive().Stats()
		fmt.Printf("\npatterns: %d learned, avg confidence %.3f, %d observations\n",
			stats.TotalPatterns, stats.AverageConfidence, stats.TotalObservations)
		if err := pf.Adaptive().PersistErr(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: pattern save: %v\n", err)
		}
	}
}
