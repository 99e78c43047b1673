package training

import "strings"

// Channels is the set of auxiliary label channels a view carries on top of
// the assigned pair label.
type Channels uint8

const (
	// ChannelRealLabel marks views that carry the ground-truth pair label.
	ChannelRealLabel Channels = 1 << iota
	// ChannelClassLabels marks views that carry the class of both members.
	ChannelClassLabels
)

// Has reports whether every channel in ch is present.
func (c Channels) Has(ch Channels) bool {
	return c&ch == ch
}

// String returns human-readable channel names
func (c Channels) String() string {
	var names []string
	if c.Has(ChannelRealLabel) {
		names = append(names, "real_label")
	}
	if c.Has(ChannelClassLabels) {
		names = append(names, "class_labels")
	}
	if len(names) == 0 {
		return "label"
	}
	return "label+" + strings.Join(names, "+")
}
