// Package record holds the validated inputs of a matching run: ground-motion
// accelerograms and target response spectra, plus a caller-owned cache that
// memoizes parsing by content fingerprint.
package record
