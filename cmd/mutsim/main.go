package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"mutsim/internal/fasta"
	"mutsim/internal/freq"
	"mutsim/internal/markov"
	"mutsim/internal/mutate"
	"mutsim/internal/nuc"
	"mutsim/internal/report"
	"mutsim/internal/sim"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type mutator func(seq nuc.Sequence, count int, r *rand.Rand) error

func warnf(format string, a ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "WARN: "+format+"\n", a...)
}

func main() {
	// ---- CLI flags ----------------------------------------------------------
	seqFlag := flag.String("seq", "", "starting sequence (letters ACGT)")
	fastaPath := flag.String("fasta", "", "read the starting sequence from a FASTA record (path or '-' for stdin)")
	recordID := flag.String("record", "", "with -fasta: ID of the record to mutate (default: first record)")
	simLen := flag.Int("sim-len", 0, "generate a random starting sequence of this length")
	simGC := flag.Float64("sim-gc", 0.5, "GC fraction of the generated sequence")
	model := flag.String("model", "uniform", "substitution model: uniform or markov")
	tablePath := flag.String("table", "", "markov: JSON transition table (default: random table from -seed)")
	count := flag.Int("count", 10000, "number of mutation events")
	batch := flag.Bool("batch", false, "use the batched mutators")
	every := flag.Int("every", 0, "trajectory snapshot interval in events (0 = start and end only)")
	seed := flag.Int64("seed", 0, "PRNG seed (0 = time-based)")
	tol := flag.Float64("tol", markov.DefaultTolerance, "row-sum tolerance for transition table validation")
	outPath := flag.String("out", "-", "trajectory TSV (path or '-' for stdout)")
	jsonPath := flag.String("json", "", "optional: write run summary JSON here")
	finalPath := flag.String("final", "", "optional: write the mutated sequence as FASTA here")
	verbose := flag.Bool("v", false, "verbose progress to stderr")
	showVer := flag.Bool("version", false, "print version and exit")

	flag.Usage = func() {
		b := &strings.Builder{}
		fmt.Fprintln(b, "mutsim — random point-mutation simulation under uniform or Markov substitution")
		fmt.Fprintln(b)
		fmt.Fprintln(b, "Usage:")
		fmt.Fprintln(b, "  mutsim (-seq <ACGT..> | -fasta <ref.fa|-> | -sim-len <N>) [options]")
		fmt.Fprintln(b)
		fmt.Fprintln(b, "Options:")
		flag.CommandLine.SetOutput(b)
		flag.PrintDefaults()
		flag.CommandLine.SetOutput(os.Stderr)
		fmt.Fprintln(b)
		fmt.Fprintln(b, "Examples:")
		fmt.Fprintln(b, "  # 10k uniform substitutions on a literal sequence")
		fmt.Fprintln(b, "  mutsim -seq ACGGAGATTTCGGTATGCAT -count 10000 -seed 42")
		fmt.Fprintln(b, "  # Markov model with a random table, snapshot every 1000 events")
		fmt.Fprintln(b, "  mutsim -sim-len 5000 -model markov -every 1000 -seed 7 -json run.json")
		fmt.Fprintln(b, "  # Prescribed table, batched, sequence from FASTA")
		fmt.Fprintln(b, "  mutsim -fasta ref.fa -model markov -table table.json -batch -out traj.tsv")
		fmt.Fprint(os.Stderr, b.String())
	}

	flag.Parse()

	if *showVer {
		fmt.Printf("mutsim %s (commit %s, %s)\n", version, commit, date)
		return
	}
	sources := 0
	for _, set := range []bool{*seqFlag != "", *fastaPath != "", *simLen > 0} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		fmt.Fprintln(os.Stderr, "error: exactly one of -seq, -fasta, -sim-len is required")
		flag.Usage()
		os.Exit(2)
	}
	if *count < 0 {
		log.Fatalf("invalid -count %d", *count)
	}
	if *every < 0 {
		log.Fatalf("invalid -every %d", *every)
	}

	// ---- one seeded stream for the whole run -------------------------------
	runSeed := sim.Seed(*seed)
	r := rand.New(rand.NewSource(runSeed))

	// ---- starting sequence -------------------------------------------------
	var (
		seq nuc.Sequence
		id  = "sim"
		err error
	)
	switch {
	case *seqFlag != "":
		id = "seq"
		seq, err = nuc.Parse([]byte(*seqFlag))
	case *fastaPath != "":
		id, seq, err = fasta.ReadRecord(*fastaPath, *recordID)
	default:
		seq = sim.MakeFrom(r, *simLen, *simGC)
	}
	if err != nil {
		log.Fatalf("sequence: %v", err)
	}
	if len(seq) == 0 {
		log.Fatal("empty starting sequence")
	}

	// ---- model -------------------------------------------------------------
	summary := report.NewSummary(*model, runSeed)
	summary.Count = *count
	summary.Batch = *batch
	summary.Initial = freq.Count(seq)

	var mut mutator
	switch *model {
	case "uniform":
		summary.Target = freq.Uniform
		mut = func(s nuc.Sequence, n int, r *rand.Rand) error { return mutate.Uniform(s, n, r) }
		if *batch {
			mut = func(s nuc.Sequence, n int, r *rand.Rand) error { return mutate.UniformBatch(s, n, r) }
		}
	case "markov":
		var prescribed *markov.Table
		if *tablePath != "" {
			t, err := markov.Load(*tablePath)
			if err != nil {
				log.Fatalf("table: %v", err)
			}
			prescribed = &t
		}
		table, err := markov.Build(prescribed == nil, prescribed, r)
		if err != nil {
			log.Fatalf("table: %v", err)
		}
		if err := markov.Validate(table, *tol); err != nil {
			log.Fatalf("table: %v", err)
		}
		steady := markov.SteadyState(table)
		summary.Table = &table
		summary.SteadyState = &steady
		summary.Target = steady
		if pi, err := markov.Stationary(table, 0, 0); err != nil {
			warnf("%v; comparing against the one-step steady state", err)
		} else {
			summary.Target = pi
		}
		if *verbose {
			fmt.Fprintf(os.Stderr, "steady state: %s\n", freq.Format(steady))
		}
		mut = func(s nuc.Sequence, n int, r *rand.Rand) error { return mutate.Markov(s, table, n, r) }
		if *batch {
			mut = func(s nuc.Sequence, n int, r *rand.Rand) error { return mutate.MarkovBatch(s, table, n, r) }
		}
	default:
		log.Fatalf("unknown -model %q (want uniform or markov)", *model)
	}

	// ---- run ---------------------------------------------------------------
	traj, err := report.New(*outPath, summary.Target)
	if err != nil {
		log.Fatalf("trajectory: %v", err)
	}
	if err := traj.Record(0, seq); err != nil {
		log.Fatalf("trajectory: %v", err)
	}
	step := *every
	if step == 0 {
		step = *count
	}
	for done := 0; done < *count; {
		n := step
		if rem := *count - done; n > rem {
			n = rem
		}
		if err := mut(seq, n, r); err != nil {
			log.Fatalf("mutate: %v", err)
		}
		done += n
		if err := traj.Record(done, seq); err != nil {
			log.Fatalf("trajectory: %v", err)
		}
		if *verbose {
			fmt.Fprintf(os.Stderr, "events=%d %s\n", done, freq.Format(freq.Count(seq)))
		}
	}
	if err := traj.Close(); err != nil {
		log.Fatalf("trajectory: %v", err)
	}

	// ---- summary (to stderr so stdout stays pure TSV) ----------------------
	summary.Finish(seq)
	summary.Snapshots = traj.Snapshots()
	fmt.Fprintf(os.Stderr, "Initial: %s\nFinal:   %s\nTarget:  %s\nChi-square: %.4f\n",
		freq.Format(summary.Initial), freq.Format(summary.Final), freq.Format(summary.Target), summary.ChiSquare)

	if *finalPath != "" {
		f, err := os.Create(*finalPath)
		if err != nil {
			log.Fatalf("write final: %v", err)
		}
		if err := fasta.Write(f, id+"_mutated", seq, 60); err != nil {
			log.Fatalf("write final: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("write final: %v", err)
		}
	}
	if *jsonPath != "" {
		if err := report.WriteJSON(*jsonPath, summary); err != nil {
			log.Fatalf("write json: %v", err)
		}
	}
}
