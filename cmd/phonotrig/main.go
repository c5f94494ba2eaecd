// Command phonotrig classifies a phonocardiogram recording as normal,
// abnormal, or unknown: it discovers S1/S2 heart-sound events, groups
// them into template-consistent clusters, computes named acoustic
// markers over those clusters, and evaluates a decision tree trained
// offline on those same markers.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sonolab/phonotrig/classifier"
	"github.com/sonolab/phonotrig/internal/kernelio"
	"github.com/sonolab/phonotrig/internal/similarity"
	"github.com/sonolab/phonotrig/internal/trigger"
	"github.com/sonolab/phonotrig/internal/waveio"
	"github.com/sonolab/phonotrig/markers"
	"github.com/sonolab/phonotrig/retrigger"
)

const correlationLimit = 0.8

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "phonotrig: "+format+"\n", args...)
	os.Exit(1)
}

type report struct {
	Basename   string              `json:"basename"`
	Tree       string              `json:"tree"`
	Class      string              `json:"class"`
	Answer     int                 `json:"answer"`
	Paired     bool                `json:"paired"`
	Similarity *similarity.Metrics `json:"similarity,omitempty"`
}

func main() {
	treesDir := flag.String("trees", "params", "directory holding s1s2.txt/ev.txt/rest.txt decision trees")
	answersPath := flag.String("answers", "answers.txt", "path to append the <basename>,<r> result to")
	dumpEnergy := flag.String("dump-energy", "", "optional path to dump the computed energy envelope as a WAV file")
	genericWAV := flag.Bool("generic-wav", false, "load the waveform as an arbitrary RIFF/WAV file instead of the spec's headerless raw-PCM contract")
	jsonOut := flag.Bool("json", false, "print a JSON report to stdout instead of the plain-text summary")
	configPath := flag.String("config", "", "optional JSON file overriding retrigger/marker Config tunables")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: phonotrig <kernel_csv> <waveform_basename>")
		os.Exit(2)
	}
	kernelPath := flag.Arg(0)
	basename := flag.Arg(1)
	wavPath := basename + ".wav"

	kernel, err := kernelio.Load(kernelPath)
	if err != nil {
		die("%v", err)
	}

	var raw []float64
	if *genericWAV {
		raw, err = waveio.LoadWAV(wavPath)
	} else {
		raw, err = waveio.LoadRawPCM(wavPath)
	}
	if err != nil {
		die("%v", err)
	}

	sampleFreq := float64(waveio.CanonicalSampleRate)

	if saturated, runs, length := markers.IsSaturated([][]float64{raw}); saturated {
		fmt.Fprintf(os.Stderr, "phonotrig: %s: signal appears saturated (%d runs, %d samples)\n", basename, runs, length)
	}

	retrigCfg := retrigger.DefaultConfig()
	markersCfg := markers.DefaultConfig()
	if *configPath != "" {
		retrigCfg, err = retrigCfg.LoadJSON(*configPath)
		if err != nil {
			die("%v", err)
		}
		markersCfg, err = markersCfg.LoadJSON(*configPath)
		if err != nil {
			die("%v", err)
		}
	}

	engine := retrigger.NewWithConfig(sampleFreq, retrigCfg)
	engine.SetConvolutionKernel(kernel)
	if err := engine.SetData(wavPath, raw); err != nil {
		die("%v", err)
	}

	refs, err := trigger.Detect(engine.Energy(), sampleFreq)
	if err != nil {
		die("%v", err)
	}
	engine.SetRefEvents(refs)
	if err := engine.CalcCorrelations(correlationLimit); err != nil {
		die("%v", err)
	}

	if *dumpEnergy != "" {
		if err := waveio.DumpWAV(*dumpEnergy, engine.Energy(), int(sampleFreq)); err != nil {
			die("%v", err)
		}
	}

	var (
		treeName string
		s1, s2   retrigger.Cluster
	)
	switch {
	case engine.Paired():
		s1, _ = engine.S1Events()
		s2, _ = engine.S2Events()
		treeName = "s1s2"
	case len(engine.Events()) > 0:
		s1 = engine.Events()
		treeName = "ev"
	default:
		treeName = "rest"
	}

	treePath := filepath.Join(*treesDir, treeName+".txt")
	tree, err := classifier.Load(treePath)
	if err != nil {
		die("%v", err)
	}

	ctx := &markers.Context{
		Raw:        raw,
		SampleFreq: sampleFreq,
		S1:         s1,
		S2:         s2,
		Cfg:        markersCfg,
		SourcePath: wavPath,
	}
	verdict := classifier.Evaluate(tree, ctx)
	answer := toAnswer(verdict)

	f, err := os.OpenFile(*answersPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		die("%v", err)
	}
	if _, err := fmt.Fprintf(f, "%s,%d\n", basename, answer); err != nil {
		f.Close()
		die("%v", err)
	}
	if err := f.Close(); err != nil {
		die("%v", err)
	}

	var simMetrics *similarity.Metrics
	if primary := s1; len(primary) > 0 {
		m := similarity.CompareToReference(engine.Filtered(), primary, sampleFreq)
		simMetrics = &m
	}

	rep := report{
		Basename:   basename,
		Tree:       treeName,
		Class:      verdict.String(),
		Answer:     answer,
		Paired:     engine.Paired(),
		Similarity: simMetrics,
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			die("%v", err)
		}
		return
	}

	fmt.Printf("%s: %s (tree=%s, answer=%d, paired=%t)\n", basename, rep.Class, rep.Tree, rep.Answer, rep.Paired)
	if simMetrics != nil {
		fmt.Printf("  similarity: score=%.4f similarity=%.4f lag=%d\n", simMetrics.Score, simMetrics.Similarity, simMetrics.LagSamples)
	}
}

// toAnswer maps a classifier verdict onto the on-disk answers.txt
// convention: -1 normal, 0 unknown, 1 abnormal.
func toAnswer(c classifier.Class) int {
	switch c {
	case classifier.Normal:
		return -1
	case classifier.Abnormal:
		return 1
	default:
		return 0
	}
}
