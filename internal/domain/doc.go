// Package domain models gridded near-surface temperature fields produced by
// climate and weather models, and the summary statistics shown on map panels.
//
// # Fields
//
// A [TemperatureField] is a 2D grid of values in °C with 1D longitude and
// latitude coordinate arrays. Values are indexed [lat][lon], the layout used
// by COARDS/CF NetCDF files and by pcolormesh-style renderers:
//
//	len(Values)    == len(Lat)
//	len(Values[i]) == len(Lon)
//
// Coordinates must be strictly monotonic. Descending latitudes (common in
// reanalysis output, e.g. ERA5 runs 90 → -90) are valid.
//
// Missing cells are NaN.
//
// # Datasets
//
// A [ModelDataset] keeps insertion order. The order decides panel placement
// (row-major: top-left, top-right, bottom-left, bottom-right for a 2×2 grid).
//
// # Statistics
//
// Fields are usually differences against a reference (ΔT), so the panel
// statistics are computed on the field alone:
//
//	BIAS = round(mean(field), 2)
//	RMSE = round(sqrt(mean(field²)), 2)
//
// NaN cells are skipped. Rounding is half-to-even at two decimals.
package domain
