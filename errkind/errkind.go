// Package errkind defines the three error kinds surfaced by the pairing
// engine. Errors carry a marker so callers can classify them with errors.Is
// no matter how many times they were wrapped on the way up.
package errkind

import (
	"github.com/cockroachdb/errors"
)

// Kind markers. Test with errors.Is(err, errkind.ErrSampling).
var (
	// ErrConfiguration covers unsupported dataset identifiers, out-of-range
	// fractions, and non-positive counts or batch sizes.
	ErrConfiguration = errors.New("configuration error")

	// ErrSampling covers draws that cannot be satisfied without replacement
	// and degenerate probability rows.
	ErrSampling = errors.New("sampling error")

	// ErrShape covers row-count mismatches between views, labels and the
	// distance matrix.
	ErrShape = errors.New("shape error")
)

// Configurationf returns a formatted error marked as ErrConfiguration.
func Configurationf(format string, args ...interface{}) error {
	return errors.Mark(errors.NewWithDepthf(1, format, args...), ErrConfiguration)
}

// Samplingf returns a formatted error marked as ErrSampling.
func Samplingf(format string, args ...interface{}) error {
	return errors.Mark(errors.NewWithDepthf(1, format, args...), ErrSampling)
}

// Shapef returns a formatted error marked as ErrShape.
func Shapef(format string, args ...interface{}) error {
	return errors.Mark(errors.NewWithDepthf(1, format, args...), ErrShape)
}

// Kind names the kind of err, or "" when err carries none of the markers.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrSampling):
		return "sampling"
	case errors.Is(err, ErrShape):
		return "shape"
	default:
		return ""
	}
}
