package domain

import "errors"

// ModelEntry pairs a model name with its field.
type ModelEntry struct {
	Name  string
	Field TemperatureField
}

// ModelDataset is an insertion-ordered mapping from model name to field.
// The zero value is an empty dataset ready to use.
type ModelDataset struct {
	entries []ModelEntry
	index   map[string]int
}

// NewModelDataset builds a dataset from entries in the given order.
// A repeated name replaces the earlier field and keeps its position.
func NewModelDataset(entries ...ModelEntry) *ModelDataset {
	d := &ModelDataset{}
	for _, e := range entries {
		d.Set(e.Name, e.Field)
	}
	return d
}

// Set adds or replaces the field for name. New names are appended.
func (d *ModelDataset) Set(name string, field TemperatureField) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[name]; ok {
		d.entries[i].Field = field
		return
	}
	d.index[name] = len(d.entries)
	d.entries = append(d.entries, ModelEntry{Name: name, Field: field})
}

// Get returns the field stored for name.
func (d *ModelDataset) Get(name string) (TemperatureField, bool) {
	if d == nil {
		return TemperatureField{}, false
	}
	i, ok := d.index[name]
	if !ok {
		return TemperatureField{}, false
	}
	return d.entries[i].Field, true
}

// Len returns the number of models.
func (d *ModelDataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Entries returns the models in insertion order. The slice is a copy; the
// fields share backing arrays with the dataset and must not be mutated.
func (d *ModelDataset) Entries() []ModelEntry {
	if d == nil {
		return nil
	}
	out := make([]ModelEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Names returns the model names in insertion order.
func (d *ModelDataset) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, len(d.entries))
	for i, e := range d.entries {
		names[i] = e.Name
	}
	return names
}

// Validate validates every field and joins the failures, each prefixed with
// its model name.
func (d *ModelDataset) Validate() error {
	var errs []error
	for _, e := range d.Entries() {
		if err := e.Field.Validate(); err != nil {
			errs = append(errs, &ModelError{Model: e.Name, Err: err})
		}
	}
	return errors.Join(errs...)
}

// ModelError attributes an error to a model.
type ModelError struct {
	Model string
	Err   error
}

func (e *ModelError) Error() string { return "model " + e.Model + ": " + e.Err.Error() }

func (e *ModelError) Unwrap() error { return e.Err }
