package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// ErrUnknownColormap is returned for a colormap name with no registered map.
var ErrUnknownColormap = errors.New("unknown colormap")

const reversedSuffix = "_r"

var colormaps = map[string]func() palette.ColorMap{
	"coolwarm":          diverging(moreland.SmoothBlueRed),
	"purpleorange":      diverging(moreland.SmoothPurpleOrange),
	"greenpurple":       diverging(moreland.SmoothGreenPurple),
	"bluetan":           diverging(moreland.SmoothBlueTan),
	"greenred":          diverging(moreland.SmoothGreenRed),
	"kindlmann":         moreland.Kindlmann,
	"extendedkindlmann": moreland.ExtendedKindlmann,
	"blackbody":         moreland.BlackBody,
	"extendedblackbody": moreland.ExtendedBlackBody,
}

func diverging(newMap func() palette.DivergingColorMap) func() palette.ColorMap {
	return func() palette.ColorMap { return newMap() }
}

// Colormaps lists the accepted colormap names. Each also has a reversed
// variant with an "_r" suffix.
func Colormaps() []string {
	names := make([]string, 0, len(colormaps))
	for name := range colormaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lookupColormap returns a constructor for the named colormap. Each call
// of the constructor yields an independent map, since a ColorMap carries
// its own range.
func lookupColormap(name string) (func() palette.ColorMap, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	base, reversed := strings.CutSuffix(name, reversedSuffix)
	newMap, ok := colormaps[base]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownColormap, name, strings.Join(Colormaps(), ", "))
	}
	if !reversed {
		return newMap, nil
	}
	return func() palette.ColorMap { return palette.Reverse(newMap()) }, nil
}
