package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/experiment"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/opt"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/report"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/store"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/suite"
)

var (
	configPath string
	expName    string
	family     string
	ids        []int
	instances  []int
	dims       []int
	runs       int
	budget     int
	iters      int
	popSize    int
	seed       int64
	trace      bool
	reportPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a benchmarking experiment",
	Long: `Runs the mayfly optimizer on every problem instance of a suite, stores the
attainment statistics under --data-dir and optionally writes an HTML report.

The experiment comes from --config, a YAML file, with any flag given on the
command line taking precedence over the file.`,
	RunE: runExperiment,
}

func init() {
	addRunFlags(runCmd.Flags())
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(f *pflag.FlagSet) {
	f.StringVar(&configPath, "config", "", "Experiment YAML file")
	f.StringVar(&expName, "name", "", "Experiment name")
	f.StringVar(&family, "family", experiment.FamilyBBOB, "Problem family: bbob, pbo")
	f.IntSliceVar(&ids, "ids", []int{1}, "Problem ids")
	f.IntSliceVar(&instances, "instances", []int{1}, "Problem instances")
	f.IntSliceVar(&dims, "dims", nil, "Dimensions (family default when unset)")
	f.IntVar(&runs, "runs", 5, "Independent runs per problem instance")
	f.IntVar(&budget, "budget", 1000, "Evaluation budget per run")
	f.IntVar(&iters, "iters", 50, "Max optimizer iterations")
	f.IntVar(&popSize, "pop", opt.MinPopulation, "Population size")
	f.Int64Var(&seed, "seed", 42, "Base seed, run r uses seed+r")
	f.BoolVar(&trace, "trace", false, "Write every evaluation to trace.jsonl")
	f.StringVar(&reportPath, "report", "", "Write an HTML report to this path")
}

// buildConfig starts from the config file, or the defaults of --family,
// and applies the flags set on the command line.
func buildConfig(cmd *cobra.Command) (experiment.Config, error) {
	cfg := experiment.Defaults(family)
	if configPath != "" {
		loaded, err := experiment.Load(configPath)
		if err != nil {
			return loaded, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Name = expName
	}
	if flags.Changed("family") {
		cfg.Family = family
	}
	if flags.Changed("ids") || configPath == "" {
		cfg.IDs = ids
	}
	if flags.Changed("instances") || configPath == "" {
		cfg.Instances = instances
	}
	if flags.Changed("dims") {
		cfg.Dimensions = dims
	}
	if flags.Changed("runs") || configPath == "" {
		cfg.Runs = runs
	}
	if flags.Changed("budget") || configPath == "" {
		cfg.Budget = budget
	}
	if flags.Changed("iters") || configPath == "" {
		cfg.Iterations = iters
	}
	if flags.Changed("pop") || configPath == "" {
		cfg.Population = popSize
	}
	if flags.Changed("seed") || configPath == "" {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st, err := store.NewFSStore(dataDir)
	if err != nil {
		return fmt.Errorf("failed to create result store: %w", err)
	}
	id := uuid.New().String()

	opts := experiment.Options{
		OnProgress: func(p experiment.Progress) {
			slog.Info("Run complete",
				"done", p.Done,
				"total", p.Total,
				"problem_id", p.ProblemID,
				"instance", p.Instance,
				"dimension", p.Dimension,
				"run", p.Run,
				"best", p.BestY,
			)
		},
	}

	var tw *store.TraceWriter
	if trace {
		tw, err = store.NewTraceWriter(dataDir, id, false)
		if err != nil {
			return err
		}
		defer tw.Close()
		opts.Observers = []suite.Observer{tw}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := experiment.Run(ctx, cfg, opts)
	if err != nil {
		return err
	}
	if tw != nil {
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	result := store.NewResult(id, out)
	if err := st.SaveResult(result); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	if reportPath != "" {
		if err := writeReport(reportPath, result); err != nil {
			return err
		}
		slog.Info("Report written", "path", reportPath)
	}

	printSummary(cmd.OutOrStdout(), result)
	return nil
}

func writeReport(path string, result *store.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := report.Render(f, result); err != nil {
		f.Close()
		return fmt.Errorf("failed to render report: %w", err)
	}
	return f.Close()
}

// printSummary writes one line per problem instance and a total line.
func printSummary(out io.Writer, result *store.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROBLEM\tINSTANCE\tDIM\tRUNS\tSOLVED\tEAH VOLUME\tEAF VOLUME")

	for _, s := range result.Stats {
		if s.ProblemID == 0 {
			fmt.Fprintf(w, "all\t\t\t%d\t%.0f%%\t%.4f\t%.4f\n",
				s.Runs, 100*s.Solved, s.EAHVolume, s.EAFVolume)
			continue
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%.0f%%\t%.4f\t%.4f\n",
			s.ProblemID, s.Instance, s.Dimension, s.Runs, 100*s.Solved, s.EAHVolume, s.EAFVolume)
	}
	w.Flush()

	info := result.ToInfo()
	fmt.Fprintf(out, "\nStored %s (%s evaluations in %s)\n",
		result.ID, humanize.Comma(int64(info.Evaluations)), result.Elapsed.Round(time.Millisecond))
}
