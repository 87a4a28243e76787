package adb

import "strconv"

// extraKind maps to the activity manager's typed extra flags.
type extraKind string

const (
	extraInt    extraKind = "--ei"
	extraString extraKind = "--es"
	extraBool   extraKind = "--ez"
)

type extra struct {
	kind  extraKind
	key   string
	value string
}

// Extras is an ordered list of typed intent extras. Order is preserved in
// the generated command line.
type Extras struct {
	items []extra
}

// Int appends an integer extra (--ei).
func (e *Extras) Int(key string, value int) *Extras {
	e.items = append(e.items, extra{extraInt, key, strconv.Itoa(value)})
	return e
}

// String appends a string extra (--es).
func (e *Extras) String(key, value string) *Extras {
	e.items = append(e.items, extra{extraString, key, value})
	return e
}

// Bool appends a boolean extra (--ez).
func (e *Extras) Bool(key string, value bool) *Extras {
	e.items = append(e.items, extra{extraBool, key, strconv.FormatBool(value)})
	return e
}

// Args renders the extras as activity-manager arguments.
func (e Extras) Args() []string {
	args := make([]string, 0, len(e.items)*3)
	for _, it := range e.items {
		args = append(args, string(it.kind), it.key, it.value)
	}

	return args
}
