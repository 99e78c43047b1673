// Package pipeline prepares the data of one training round: the split, the
// evaluation set, the training pairs and the loaders over them.
package pipeline

import (
	"math/rand/v2"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tsawler/go-mvcl/config"
	"github.com/tsawler/go-mvcl/dataset"
	"github.com/tsawler/go-mvcl/distance"
	"github.com/tsawler/go-mvcl/errkind"
	"github.com/tsawler/go-mvcl/metrics"
	"github.com/tsawler/go-mvcl/pairing"
	"github.com/tsawler/go-mvcl/split"
	"github.com/tsawler/go-mvcl/training"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Round is everything a model needs for one round of training.
type Round struct {
	Index int

	Split split.Result
	Train *dataset.Views // aligned training portion, rows in Split.Train order
	Eval  *split.Eval
	Pairs *pairing.Collection
	Noise metrics.NoiseReport

	SplitSeed   int64
	ShuffleSeed int64
	PairSeed    uint64

	TrainLoader *training.DataLoader
	EvalLoader  *training.DataLoader
	ProbeLoader *training.DataLoader
}

// Pipeline builds rounds for one configuration. Seeds left at zero in the
// configuration are drawn once in New and reported on every round.
type Pipeline struct {
	config config.Config
	logger *zap.Logger
	seeds  *rand.Rand
}

// New validates cfg and returns a Pipeline. A nil logger disables logging.
func New(cfg config.Config, logger *zap.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SplitSeed == 0 {
		cfg.SplitSeed = rand.Int64N(1<<31-1) + 1
	}
	if cfg.ShuffleSeed == 0 {
		cfg.ShuffleSeed = rand.Int64N(1<<31-1) + 1
	}
	if cfg.PairSeed == 0 {
		cfg.PairSeed = rand.Uint64() | 1
	}
	return &Pipeline{
		config: cfg,
		logger: logger,
		seeds:  rand.New(rand.NewPCG(cfg.PairSeed, uint64(cfg.SplitSeed))),
	}, nil
}

// Config returns the configuration with every seed resolved.
func (p *Pipeline) Config() config.Config {
	return p.config
}

// Prepare splits views, builds the evaluation set, draws the first round of
// pairs uniformly and wraps everything in loaders.
func (p *Pipeline) Prepare(views *dataset.Views) (*Round, error) {
	if views == nil || views.Len() == 0 {
		return nil, errkind.Shapef("no samples to prepare")
	}
	cfg := p.config

	r, err := split.Split(views.Len(), cfg.TestFraction, cfg.SplitSeed)
	if err != nil {
		return nil, errors.Wrap(err, "split")
	}
	overlap := r.Overlap()
	p.logger.Info("split samples",
		zap.Int("samples", r.N),
		zap.Int("train", len(r.Train)),
		zap.Int("test", len(r.Test)),
		zap.Int64("seed", r.Seed))
	if len(overlap) > 0 {
		p.logger.Warn("train and test portions share samples", zap.Ints("indices", overlap))
	}

	eval, err := split.BuildEval(views, r, cfg.ShuffleSeed)
	if err != nil {
		return nil, errors.Wrap(err, "build evaluation set")
	}

	train := views.Subset(r.Train)
	seed := p.seeds.Uint64()
	pairs, err := pairing.NewUniformBuilder(p.pairOptions(seed)).Build(train, cfg.NegProp)
	if err != nil {
		return nil, errors.Wrap(err, "build uniform pairs")
	}

	round := &Round{
		Split:       r,
		Train:       train,
		Eval:        eval,
		SplitSeed:   cfg.SplitSeed,
		ShuffleSeed: cfg.ShuffleSeed,
	}
	if err := p.finish(round, pairs); err != nil {
		return nil, err
	}

	evalView, err := training.NewEvalView(eval)
	if err != nil {
		return nil, errors.Wrap(err, "evaluation view")
	}
	round.EvalLoader, err = training.NewDataLoader(evalView,
		training.EvalConfig(cfg.EvalBatch, cfg.ShuffleEval, uint64(cfg.ShuffleSeed)))
	if err != nil {
		return nil, errors.Wrap(err, "evaluation loader")
	}

	probeView, err := training.NewProbeView(train)
	if err != nil {
		return nil, errors.Wrap(err, "probe view")
	}
	round.ProbeLoader, err = training.NewDataLoader(probeView, training.ProbeConfig(cfg.TrainBatch))
	if err != nil {
		return nil, errors.Wrap(err, "probe loader")
	}
	return round, nil
}

// Resample returns the next round after prev, drawing negatives from dist,
// an N_train × N_train row-stochastic matrix. The split, the evaluation set
// and its loaders carry over unchanged.
func (p *Pipeline) Resample(prev *Round, dist *mat.Dense) (*Round, error) {
	if prev == nil {
		return nil, errkind.Shapef("resample needs a previous round")
	}
	seed := p.seeds.Uint64()
	pairs, err := pairing.NewDistanceSampler(p.pairOptions(seed)).Build(prev.Train, p.config.NegProp, dist)
	if err != nil {
		return nil, errors.Wrapf(err, "resample round %d", prev.Index+1)
	}

	next := *prev
	next.Index = prev.Index + 1
	next.Pairs, next.TrainLoader = nil, nil
	if err := p.finish(&next, pairs); err != nil {
		return nil, err
	}
	return &next, nil
}

// ResampleWith embeds the training portion of prev with emb and resamples
// from the resulting distance distribution.
func (p *Pipeline) ResampleWith(prev *Round, emb distance.Embedder) (*Round, error) {
	if prev == nil {
		return nil, errkind.Shapef("resample needs a previous round")
	}
	dist, err := distance.Compute(emb, prev.ProbeLoader, distance.FavorNear(p.config.FavorNear))
	if err != nil {
		return nil, errors.Wrap(err, "distance matrix")
	}
	return p.Resample(prev, dist)
}

func (p *Pipeline) pairOptions(seed uint64) pairing.Options {
	return pairing.Options{Seed: seed, ExcludeSelf: p.config.ExcludeSelf}
}

// finish attaches pairs to round, measures their noise and builds the
// training loader.
func (p *Pipeline) finish(round *Round, pairs *pairing.Collection) error {
	round.Pairs = pairs
	round.PairSeed = pairs.Seed
	round.Noise = metrics.Noise(pairs)

	p.logger.Info("built pairs",
		zap.Int("round", round.Index),
		zap.String("sampler", pairs.Sampler),
		zap.Int("pairs", pairs.Len()),
		zap.Int("negatives", pairs.Negatives()),
		zap.Uint64("seed", pairs.Seed),
		zap.Float64("noise_rate", round.Noise.Rounded()))
	mode := p.config.TrainingMode()
	p.logger.Info("training with "+strings.ReplaceAll(mode, "_", " "), zap.String("mode", mode))

	view, err := training.NewTrainingView(pairs, p.config.NoisyTraining)
	if err != nil {
		return errors.Wrap(err, "training view")
	}
	round.TrainLoader, err = training.NewDataLoader(view, training.TrainConfig(p.config.TrainBatch, pairs.Seed))
	if err != nil {
		return errors.Wrap(err, "training loader")
	}
	return nil
}
