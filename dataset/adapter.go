package dataset

import (
	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// Adapter knows which fields of a Source hold the two views and the labels
// of one dataset shape.
type Adapter interface {
	Kind() Kind
	Extract(src Source) (*Views, error)
}

// AdapterFor returns the adapter of a dataset shape.
func AdapterFor(k Kind) (Adapter, error) {
	switch k {
	case Scene15:
		return cellAdapter{kind: k, field: "X", first: 0, second: 1, labels: "Y"}, nil
	case Caltech101:
		return cellAdapter{kind: k, field: "X", first: 3, second: 4, labels: "Y"}, nil
	case ReutersDim10:
		return reutersAdapter{}, nil
	case NoisyMNIST30000:
		return fieldAdapter{kind: k, first: "X1", second: "X2", labels: "Y"}, nil
	default:
		return nil, errors.Newf("no adapter for dataset kind %d", int(k))
	}
}

// Load resolves the named adapter and extracts its views from src.
func Load(name string, src Source) (*Views, error) {
	k, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	a, err := AdapterFor(k)
	if err != nil {
		return nil, err
	}
	v, err := a.Extract(src)
	if err != nil {
		return nil, errors.Wrapf(err, "extract %s", k)
	}
	return v, nil
}

// cellAdapter reads both views from entries of one cell-array field.
type cellAdapter struct {
	kind          Kind
	field         string
	first, second int
	labels        string
}

func (a cellAdapter) Kind() Kind { return a.kind }

func (a cellAdapter) Extract(src Source) (*Views, error) {
	va, err := src.Cell(a.field, a.first)
	if err != nil {
		return nil, err
	}
	vb, err := src.Cell(a.field, a.second)
	if err != nil {
		return nil, err
	}
	labels, err := src.Vector(a.labels)
	if err != nil {
		return nil, err
	}
	return NewViews(va, vb, labels)
}

// fieldAdapter reads each view from its own matrix field.
type fieldAdapter struct {
	kind          Kind
	first, second string
	labels        string
}

func (a fieldAdapter) Kind() Kind { return a.kind }

func (a fieldAdapter) Extract(src Source) (*Views, error) {
	va, err := src.Matrix(a.first)
	if err != nil {
		return nil, err
	}
	vb, err := src.Matrix(a.second)
	if err != nil {
		return nil, err
	}
	labels, err := src.Vector(a.labels)
	if err != nil {
		return nil, err
	}
	return NewViews(va, vb, labels)
}

// reutersAdapter joins the published train and test partitions of each view
// and min-max normalizes the result.
type reutersAdapter struct{}

func (reutersAdapter) Kind() Kind { return ReutersDim10 }

func (reutersAdapter) Extract(src Source) (*Views, error) {
	var views [2]*mat.Dense
	for v := range views {
		train, err := src.Cell("x_train", v)
		if err != nil {
			return nil, err
		}
		test, err := src.Cell("x_test", v)
		if err != nil {
			return nil, err
		}
		_, ctrain := train.Dims()
		_, ctest := test.Dims()
		if ctrain != ctest {
			return nil, errors.Newf("view %d: train has %d columns, test has %d", v, ctrain, ctest)
		}
		var stacked mat.Dense
		stacked.Stack(train, test)
		views[v] = Normalize(&stacked)
	}

	yTrain, err := src.Vector("y_train")
	if err != nil {
		return nil, err
	}
	yTest, err := src.Vector("y_test")
	if err != nil {
		return nil, err
	}
	labels := make([]int, 0, len(yTrain)+len(yTest))
	labels = append(labels, yTrain...)
	labels = append(labels, yTest...)

	return NewViews(views[0], views[1], labels)
}
