package dataset

import "github.com/tsawler/go-mvcl/errkind"

// Kind is one of the supported dataset shapes.
type Kind int

const (
	Scene15 Kind = iota
	Caltech101
	ReutersDim10
	NoisyMNIST30000
)

var kindNames = [...]string{
	Scene15:         "Scene15",
	Caltech101:      "Caltech101",
	ReutersDim10:    "Reuters_dim10",
	NoisyMNIST30000: "NoisyMNIST-30000",
}

// Kinds lists every supported dataset shape.
func Kinds() []Kind {
	return []Kind{Scene15, Caltech101, ReutersDim10, NoisyMNIST30000}
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// ParseKind maps a dataset identifier to its Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, errkind.Configurationf("unsupported dataset %q", name)
}

// Dims returns the feature dimensions of the two views the adapter extracts.
func (k Kind) Dims() (int, int) {
	switch k {
	case Scene15:
		return 20, 59
	case Caltech101:
		return 1984, 512
	case ReutersDim10:
		return 10, 10
	case NoisyMNIST30000:
		return 784, 784
	default:
		return 0, 0
	}
}

// Classes returns the number of classes in the published dataset.
func (k Kind) Classes() int {
	switch k {
	case Scene15:
		return 15
	case Caltech101:
		return 101
	case ReutersDim10:
		return 6
	case NoisyMNIST30000:
		return 10
	default:
		return 0
	}
}
