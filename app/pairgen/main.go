// Command pairgen prepares contrastive training rounds for a dataset shape
// and reports the noise of the sampled negatives.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/tsawler/go-mvcl/config"
	"github.com/tsawler/go-mvcl/dataset"
	"github.com/tsawler/go-mvcl/distance"
	"github.com/tsawler/go-mvcl/errkind"
	"github.com/tsawler/go-mvcl/pipeline"
	"github.com/tsawler/go-mvcl/report"
	"go.uber.org/zap"
)

var flags struct {
	configPath string
	dataset    string
	samples    int
	classes    int
	dataSeed   uint64
	negProp    int
	reportDir  string
	format     string
	verbose    bool

	rounds int
	width  int
}

var rootCmd = &cobra.Command{
	Use:           "pairgen",
	Short:         "prepare positive and negative pairs for two-view contrastive training",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "split a synthetic dataset and draw the first round of pairs uniformly",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(0)
	},
}

var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "draw a uniform round followed by distance-sampled rounds from a random projection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flags.rounds < 1 {
			return errors.Newf("--rounds must be at least 1, got %d", flags.rounds)
		}
		return run(flags.rounds)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&flags.dataset, "dataset", "", "dataset shape to synthesize (overrides the configuration)")
	pf.IntVar(&flags.samples, "samples", 600, "number of synthetic samples")
	pf.IntVar(&flags.classes, "classes", 0, "number of synthetic classes (0 uses the dataset's)")
	pf.Uint64Var(&flags.dataSeed, "data-seed", 1, "seed of the synthetic data")
	pf.IntVar(&flags.negProp, "neg-prop", 0, "negatives per anchor (overrides the configuration)")
	pf.StringVar(&flags.reportDir, "report-dir", "", "write one report per round into this directory")
	pf.StringVar(&flags.format, "format", "json", "report format: json or proto")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output")

	roundsCmd.Flags().IntVar(&flags.rounds, "rounds", 3, "adaptive rounds after the uniform one")
	roundsCmd.Flags().IntVar(&flags.width, "width", 16, "embedding width of the random projection")

	rootCmd.AddCommand(prepareCmd, roundsCmd)
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.LoadFromYAML(flags.configPath)
		if err != nil {
			return cfg, errors.Wrapf(err, "load %s", flags.configPath)
		}
		cfg = *loaded
	}
	if flags.dataset != "" {
		cfg.Dataset = flags.dataset
	}
	if flags.negProp != 0 {
		cfg.NegProp = flags.negProp
	}
	return cfg, cfg.Validate()
}

func run(adaptive int) error {
	logger := newLogger(flags.verbose)
	defer logger.Sync()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	kind, err := dataset.ParseKind(cfg.Dataset)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	classes := flags.classes
	if classes == 0 {
		classes = kind.Classes()
	}
	views, err := dataset.Synthetic(kind, flags.samples, classes, flags.dataSeed)
	if err != nil {
		return err
	}
	logger.Info("loaded dataset", zap.Stringer("views", views))

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}
	round, err := p.Prepare(views)
	if err != nil {
		return err
	}

	var history report.History
	if err := record(&history, kind, round, format); err != nil {
		return err
	}

	if adaptive > 0 {
		dimA, dimB := kind.Dims()
		emb, err := distance.NewRandomProjection(dimA, dimB, flags.width, p.Config().PairSeed)
		if err != nil {
			return err
		}
		for i := 0; i < adaptive; i++ {
			if round, err = p.ResampleWith(round, emb); err != nil {
				return err
			}
			if err := record(&history, kind, round, format); err != nil {
				return err
			}
		}
	}

	summary, err := history.Summary()
	if err != nil {
		return err
	}
	fmt.Println(summary)
	return nil
}

func record(h *report.History, kind dataset.Kind, round *pipeline.Round, format report.Format) error {
	r := report.FromRound(kind.String(), round)
	h.Add(r)
	fmt.Println(r)
	if flags.reportDir == "" {
		return nil
	}
	if err := os.MkdirAll(flags.reportDir, 0o755); err != nil {
		return errors.Wrap(err, "create report directory")
	}
	ext := "json"
	if format == report.FormatProto {
		ext = "pb"
	}
	path := filepath.Join(flags.reportDir, fmt.Sprintf("round-%03d.%s", round.Index, ext))
	return report.NewSaver(format).Save(r, path)
}

// errorMessage prefixes err with its kind when it carries one.
func errorMessage(err error) string {
	if kind := errkind.Kind(err); kind != "" {
		return fmt.Sprintf("pairgen: %s error: %v", kind, err)
	}
	return fmt.Sprintf("pairgen: %v", err)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(1)
	}
}
