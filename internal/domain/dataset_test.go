package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelDataset_PreservesInsertionOrder(t *testing.T) {
	d := NewModelDataset(
		ModelEntry{Name: "ERA5"},
		ModelEntry{Name: "ICON"},
		ModelEntry{Name: "GFS"},
	)
	d.Set("ARPEGE", TemperatureField{})

	want := []string{"ERA5", "ICON", "GFS", "ARPEGE"}
	if diff := cmp.Diff(want, d.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, d.Len())
}

func TestModelDataset_SetReplacesInPlace(t *testing.T) {
	d := NewModelDataset(ModelEntry{Name: "A"}, ModelEntry{Name: "B"})
	d.Set("A", TemperatureField{Units: "degC"})

	assert.Equal(t, []string{"A", "B"}, d.Names())
	f, ok := d.Get("A")
	require.True(t, ok)
	assert.Equal(t, "degC", f.Units)

	_, ok = d.Get("missing")
	assert.False(t, ok)
}

func TestModelDataset_ZeroValueAndNil(t *testing.T) {
	var d ModelDataset
	assert.Equal(t, 0, d.Len())
	d.Set("A", TemperatureField{})
	assert.Equal(t, 1, d.Len())

	var nilDataset *ModelDataset
	assert.Equal(t, 0, nilDataset.Len())
	assert.Nil(t, nilDataset.Entries())
}

func TestModelDataset_Validate(t *testing.T) {
	good := TemperatureField{Lon: []float64{0, 1}, Lat: []float64{0}, Values: [][]float64{{1, 2}}}
	bad := TemperatureField{Lon: []float64{0, 1}, Lat: []float64{0}, Values: [][]float64{{1}}}

	require.NoError(t, NewModelDataset(ModelEntry{Name: "ok", Field: good}).Validate())

	err := NewModelDataset(
		ModelEntry{Name: "ok", Field: good},
		ModelEntry{Name: "broken", Field: bad},
	).Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputShape))

	var modelErr *ModelError
	require.True(t, errors.As(err, &modelErr))
	assert.Equal(t, "broken", modelErr.Model)
	assert.Contains(t, err.Error(), "model broken")
}
