// Package match adjusts recorded accelerograms so that their response
// spectra fit a target spectrum.
//
// A seed record is decomposed once into narrow-band wavelet components.
// Each iteration compares the current response spectrum with the target at
// the band periods inside the matching window, rescales the corresponding
// band coefficients by the relaxed target/response ratio and rebuilds the
// record. The iterate with the lowest RMSE is returned, optionally
// baseline-corrected.
//
// [Matcher.Match] fits a single component. [Matcher.MatchPair] fits the
// RotDnn spectrum of two orthogonal components, applying the same
// correction to both so that their relative phase is preserved.
//
// A Matcher holds only configuration; every call owns its own wavelet sets,
// spectrum engine and buffers, so concurrent calls are safe.
package match
