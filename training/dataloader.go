package training

import (
	"iter"
	"math/rand/v2"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/tsawler/go-mvcl/errkind"
	"github.com/tsawler/go-mvcl/tensor"
)

// LoaderConfig controls batching of a view.
type LoaderConfig struct {
	BatchSize int
	Shuffle   bool
	DropLast  bool
	Seed      uint64
}

// TrainConfig is the batching used for training pairs: shuffled each epoch,
// incomplete final batch dropped.
func TrainConfig(batchSize int, seed uint64) LoaderConfig {
	return LoaderConfig{BatchSize: batchSize, Shuffle: true, DropLast: true, Seed: seed}
}

// ProbeConfig is the batching used for the distance probe: source order,
// every pair kept.
func ProbeConfig(batchSize int) LoaderConfig {
	return LoaderConfig{BatchSize: batchSize}
}

// EvalConfig keeps the final partial batch and optionally shuffles.
func EvalConfig(batchSize int, shuffle bool, seed uint64) LoaderConfig {
	return LoaderConfig{BatchSize: batchSize, Shuffle: shuffle, Seed: seed}
}

// DataLoader provides batching and seeded shuffling over a view.
type DataLoader struct {
	dataset  Dataset
	config   LoaderConfig
	rng      *rand.Rand
	indices  []int
	position int
	mutex    sync.Mutex
}

// Batch holds stacked samples. A and B are [n, 1, dim]; label channels are
// rank-1 and nil when the view does not carry them.
type Batch struct {
	A          *tensor.Tensor
	B          *tensor.Tensor
	Labels     *tensor.Tensor
	RealLabels *tensor.Tensor
	Class0     *tensor.Tensor
	Class1     *tensor.Tensor
	Indices    []int
}

// Size returns the number of samples in the batch
func (b *Batch) Size() int {
	return len(b.Indices)
}

// NewDataLoader creates a DataLoader positioned at the start of its first
// epoch.
func NewDataLoader(dataset Dataset, config LoaderConfig) (*DataLoader, error) {
	if dataset == nil {
		return nil, errkind.Shapef("data loader needs a dataset")
	}
	if config.BatchSize < 1 {
		return nil, errkind.Configurationf("batch size must be at least 1, got %d", config.BatchSize)
	}

	indices := make([]int, dataset.Len())
	for i := range indices {
		indices[i] = i
	}
	dl := &DataLoader{
		dataset: dataset,
		config:  config,
		rng:     rand.New(rand.NewPCG(config.Seed, 0x9e3779b97f4a7c15)),
		indices: indices,
	}
	dl.Reset()
	return dl, nil
}

// Config returns the loader configuration
func (dl *DataLoader) Config() LoaderConfig {
	return dl.config
}

// Dataset returns the view being batched.
func (dl *DataLoader) Dataset() Dataset {
	return dl.dataset
}

// Len returns the number of batches in an epoch
func (dl *DataLoader) Len() int {
	n := dl.dataset.Len()
	if dl.config.DropLast {
		return n / dl.config.BatchSize
	}
	return (n + dl.config.BatchSize - 1) / dl.config.BatchSize
}

// Reset starts a new epoch, reshuffling when configured.
func (dl *DataLoader) Reset() {
	dl.mutex.Lock()
	defer dl.mutex.Unlock()

	dl.position = 0
	if dl.config.Shuffle {
		dl.rng.Shuffle(len(dl.indices), func(i, j int) {
			dl.indices[i], dl.indices[j] = dl.indices[j], dl.indices[i]
		})
	}
}

// end is the exclusive bound on positions that can start a batch.
func (dl *DataLoader) end() int {
	if dl.config.DropLast {
		return len(dl.indices) / dl.config.BatchSize * dl.config.BatchSize
	}
	return len(dl.indices)
}

// Next returns the next batch or nil if epoch is complete
func (dl *DataLoader) Next() (*Batch, error) {
	dl.mutex.Lock()
	defer dl.mutex.Unlock()

	end := dl.end()
	if dl.position >= end {
		return nil, nil
	}

	batchEnd := min(dl.position+dl.config.BatchSize, end)
	batchIndices := append([]int(nil), dl.indices[dl.position:batchEnd]...)
	dl.position = batchEnd

	batch, err := dl.loadBatch(batchIndices)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load batch")
	}
	return batch, nil
}

// HasNext returns true if there are more batches in the current epoch
func (dl *DataLoader) HasNext() bool {
	dl.mutex.Lock()
	defer dl.mutex.Unlock()
	return dl.position < dl.end()
}

// All returns the batches of one epoch. Each call to the returned sequence
// begins a fresh epoch, so the sequence can be ranged over repeatedly.
func (dl *DataLoader) All() iter.Seq2[*Batch, error] {
	return func(yield func(*Batch, error) bool) {
		dl.Reset()
		for {
			batch, err := dl.Next()
			if err != nil {
				yield(nil, err)
				return
			}
			if batch == nil {
				return
			}
			if !yield(batch, nil) {
				return
			}
		}
	}
}

// loadBatch loads the samples at indices and stacks them channel by channel.
func (dl *DataLoader) loadBatch(indices []int) (*Batch, error) {
	n := len(indices)
	channels := dl.dataset.Channels()

	as := make([]*tensor.Tensor, n)
	bs := make([]*tensor.Tensor, n)
	labels := make([]int64, n)
	var realLabels, class0, class1 []int64
	if channels.Has(ChannelRealLabel) {
		realLabels = make([]int64, n)
	}
	if channels.Has(ChannelClassLabels) {
		class0 = make([]int64, n)
		class1 = make([]int64, n)
	}

	for i, idx := range indices {
		s, err := dl.dataset.Get(idx)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load sample %d", idx)
		}
		as[i], bs[i], labels[i] = s.A, s.B, s.Label
		if realLabels != nil {
			realLabels[i] = s.RealLabel
		}
		if class0 != nil {
			class0[i], class1[i] = s.Class0, s.Class1
		}
	}

	var err error
	batch := &Batch{Indices: indices}
	if batch.A, err = tensor.Stack(as); err != nil {
		return nil, errors.Wrap(err, "stack view A")
	}
	if batch.B, err = tensor.Stack(bs); err != nil {
		return nil, errors.Wrap(err, "stack view B")
	}
	if batch.Labels, err = tensor.Labels(labels); err != nil {
		return nil, err
	}
	if realLabels != nil {
		if batch.RealLabels, err = tensor.Labels(realLabels); err != nil {
			return nil, err
		}
	}
	if class0 != nil {
		if batch.Class0, err = tensor.Labels(class0); err != nil {
			return nil, err
		}
		if batch.Class1, err = tensor.Labels(class1); err != nil {
			return nil, err
		}
	}
	return batch, nil
}
