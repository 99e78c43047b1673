package tensor

import (
	"github.com/cockroachdb/errors"
	"github.com/tsawler/go-mvcl/errkind"
)

func NewTensor(shape []int, dtype DType, data interface{}) (*Tensor, error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}

	shapeCopy := make([]int, len(shape))
	copy(shapeCopy, shape)

	t := &Tensor{
		Shape:    shapeCopy,
		Strides:  calculateStrides(shapeCopy),
		DType:    dtype,
		NumElems: calculateNumElements(shapeCopy),
	}

	if data != nil {
		if err := t.setData(data); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Tensor) setData(data interface{}) error {
	switch t.DType {
	case Float32:
		d, ok := data.([]float32)
		if !ok {
			return errors.Newf("unsupported data type for Float32 tensor: %T", data)
		}
		if len(d) != t.NumElems {
			return errkind.Shapef("data length %d does not match tensor size %d", len(d), t.NumElems)
		}
		t.Data = d
	case Int64:
		d, ok := data.([]int64)
		if !ok {
			return errors.Newf("unsupported data type for Int64 tensor: %T", data)
		}
		if len(d) != t.NumElems {
			return errkind.Shapef("data length %d does not match tensor size %d", len(d), t.NumElems)
		}
		t.Data = d
	default:
		return errors.Newf("unsupported dtype: %s", t.DType)
	}
	return nil
}

func Zeros(shape []int, dtype DType) (*Tensor, error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}

	numElems := calculateNumElements(shape)

	var data interface{}
	switch dtype {
	case Float32:
		data = make([]float32, numElems)
	case Int64:
		data = make([]int64, numElems)
	default:
		return nil, errors.Newf("unsupported dtype for Zeros: %s", dtype)
	}

	return NewTensor(shape, dtype, data)
}

// ColumnVector converts one feature row into a single-channel [1, dim]
// Float32 tensor, the per-sample layout handed to a batcher.
func ColumnVector(row []float64) (*Tensor, error) {
	if len(row) == 0 {
		return nil, errkind.Shapef("cannot build a column vector from an empty row")
	}
	data := make([]float32, len(row))
	for i, v := range row {
		data[i] = float32(v)
	}
	return NewTensor([]int{1, len(row)}, Float32, data)
}

// Labels wraps integer labels into a rank-1 Int64 tensor.
func Labels(values []int64) (*Tensor, error) {
	return NewTensor([]int{len(values)}, Int64, values)
}
