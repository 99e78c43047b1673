package report

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Format defines the serialization format
type Format int

const (
	FormatJSON Format = iota
	FormatProto
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "JSON"
	case FormatProto:
		return "Proto"
	default:
		return "Unknown"
	}
}

// ParseFormat maps a command-line name to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "json":
		return FormatJSON, nil
	case "proto", "pb":
		return FormatProto, nil
	default:
		return 0, errors.Newf("unknown report format %q", name)
	}
}

// Saver writes reports in one format.
type Saver struct {
	format Format
}

// NewSaver creates a saver for the specified format
func NewSaver(format Format) *Saver {
	return &Saver{format: format}
}

// Save writes r to path.
func (s *Saver) Save(r *Report, path string) error {
	var (
		data []byte
		err  error
	)
	switch s.format {
	case FormatJSON:
		data, err = json.MarshalIndent(r, "", "  ")
	case FormatProto:
		data, err = marshalProto(r)
	default:
		return errors.Newf("unsupported report format: %s", s.format)
	}
	if err != nil {
		return errors.Wrapf(err, "encode %s report", s.format)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write report file")
	}
	return nil
}

// Load reads a report written by a Saver of the same format.
func Load(path string, format Format) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open report file")
	}

	var r Report
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &r)
	case FormatProto:
		err = unmarshalProto(data, &r)
	default:
		return nil, errors.Newf("unsupported report format: %s", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s report", format)
	}
	return &r, nil
}

// marshalProto encodes r as a google.protobuf.Struct whose fields mirror the
// JSON form.
func marshalProto(r *Report) ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(st)
}

func unmarshalProto(data []byte, r *Report) error {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return err
	}
	raw, err := json.Marshal(st.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, r)
}
