package dataset

import (
	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// Source exposes the decoded fields of a dataset file. Decoding the file
// format itself is the caller's job.
type Source interface {
	// Matrix returns a plain matrix field.
	Matrix(name string) (*mat.Dense, error)
	// Cell returns entry idx of a cell-array field.
	Cell(name string, idx int) (*mat.Dense, error)
	// Vector returns an integer field squeezed to one dimension.
	Vector(name string) ([]int, error)
}

// MemorySource is a Source backed by maps.
type MemorySource struct {
	Matrices map[string]*mat.Dense
	Cells    map[string][]*mat.Dense
	Vectors  map[string][]int
}

// NewMemorySource returns an empty MemorySource.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		Matrices: make(map[string]*mat.Dense),
		Cells:    make(map[string][]*mat.Dense),
		Vectors:  make(map[string][]int),
	}
}

func (s *MemorySource) Matrix(name string) (*mat.Dense, error) {
	m, ok := s.Matrices[name]
	if !ok {
		return nil, errors.Newf("field %q not found", name)
	}
	return m, nil
}

func (s *MemorySource) Cell(name string, idx int) (*mat.Dense, error) {
	cells, ok := s.Cells[name]
	if !ok {
		return nil, errors.Newf("cell field %q not found", name)
	}
	if idx < 0 || idx >= len(cells) {
		return nil, errors.Newf("cell %q index %d out of range [0, %d)", name, idx, len(cells))
	}
	return cells[idx], nil
}

func (s *MemorySource) Vector(name string) ([]int, error) {
	v, ok := s.Vectors[name]
	if !ok {
		return nil, errors.Newf("vector field %q not found", name)
	}
	return v, nil
}
