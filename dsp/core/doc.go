// Package core holds small numeric and buffer helpers shared by the
// seismic packages.
package core
