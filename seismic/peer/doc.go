// Package peer reads and writes the plain-text strong-motion formats used
// with the PEER NGA database: four-line-header .AT2 accelerograms, two-column
// period/PSA target spectra, and one- or two-column time series.
package peer
