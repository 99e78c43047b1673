package tensor

import (
	"github.com/cockroachdb/errors"
	"github.com/tsawler/go-mvcl/errkind"
)

// Reshape returns a tensor sharing the same data under a new shape.
// At most one dimension may be -1; it is inferred from the element count.
func (t *Tensor) Reshape(newShape []int) (*Tensor, error) {
	shape := make([]int, len(newShape))
	copy(shape, newShape)

	newNumElems := 1
	negOneIdx := -1
	for i, dim := range shape {
		switch {
		case dim == -1:
			if negOneIdx >= 0 {
				return nil, errkind.Shapef("only one dimension can be -1")
			}
			negOneIdx = i
		case dim <= 0:
			return nil, errkind.Shapef("dimension %d has invalid size %d", i, dim)
		default:
			newNumElems *= dim
		}
	}

	if negOneIdx >= 0 {
		if t.NumElems%newNumElems != 0 {
			return nil, errkind.Shapef("cannot reshape tensor of size %d: size must be divisible by %d", t.NumElems, newNumElems)
		}
		shape[negOneIdx] = t.NumElems / newNumElems
		newNumElems = t.NumElems
	}

	if newNumElems != t.NumElems {
		return nil, errkind.Shapef("cannot reshape tensor of size %d into shape %v (size %d)", t.NumElems, shape, newNumElems)
	}

	return &Tensor{
		Shape:    shape,
		Strides:  calculateStrides(shape),
		DType:    t.DType,
		Data:     t.Data,
		NumElems: t.NumElems,
	}, nil
}

func (t *Tensor) Float32Data() ([]float32, error) {
	if t.DType != Float32 {
		return nil, errors.Newf("tensor dtype is %s, not Float32", t.DType)
	}
	return t.Data.([]float32), nil
}

func (t *Tensor) Dim() int {
	return len(t.Shape)
}

// Stack concatenates equally shaped tensors along a new leading axis, so n
// samples of shape [1, dim] become one [n, 1, dim] batch.
func Stack(samples []*Tensor) (*Tensor, error) {
	if len(samples) == 0 {
		return nil, errkind.Shapef("cannot stack an empty list of tensors")
	}

	first := samples[0]
	shape := append([]int{len(samples)}, first.Shape...)
	out, err := Zeros(shape, first.DType)
	if err != nil {
		return nil, err
	}

	for i, s := range samples {
		if err := copyInto(out, s, i); err != nil {
			return nil, errors.Wrapf(err, "stack sample %d", i)
		}
	}
	return out, nil
}

// copyInto copies a sample tensor into position batchIndex of a batch tensor.
func copyInto(batch, sample *Tensor, batchIndex int) error {
	if batch.DType != sample.DType {
		return errors.Newf("dtype mismatch: batch %s, sample %s", batch.DType, sample.DType)
	}
	if batch.NumElems/batch.Shape[0] != sample.NumElems {
		return errkind.Shapef("sample has %d elements, batch slot holds %d", sample.NumElems, batch.NumElems/batch.Shape[0])
	}

	offset := batchIndex * sample.NumElems
	switch batch.DType {
	case Float32:
		copy(batch.Data.([]float32)[offset:offset+sample.NumElems], sample.Data.([]float32))
	case Int64:
		copy(batch.Data.([]int64)[offset:offset+sample.NumElems], sample.Data.([]int64))
	default:
		return errors.Newf("unsupported dtype for batch copying: %s", batch.DType)
	}
	return nil
}
