// Package wavelet decomposes accelerograms into period-localized components
// whose sum reconstructs the record exactly.
//
// A [Bank] partitions the frequency axis into bands with log-spaced center
// frequencies. Each band owns a raised-cosine window on a logarithmic
// frequency axis that rises from the center of its lower neighbour and
// falls to the center of its upper neighbour:
//
//	x = (ln f - ln f_k) / (ln f_k+1 - ln f_k)
//	W_k(f)   = cos²(πx/2)
//	W_k+1(f) = sin²(πx/2)
//
// The lowest band also owns DC and the highest band owns everything above
// its center, so the windows sum to one at every frequency. A component is
// the inverse transform of the record spectrum times its band window; the
// record is zero-padded so band-limited ringing does not wrap around.
//
// A [Set] holds the components with one coefficient each. Reconstruction is
// the coefficient-weighted sum, so with every coefficient at 1 it returns
// the original record, and scaling coefficient k only alters content inside
// band k's window. Spectral matching relies on this to edit the response
// spectrum near a period without redesigning the whole record.
//
// Basic usage:
//
//	set, err := wavelet.Decompose(accel, 0.01, wavelet.WithScales(100))
//	if err != nil {
//	    return err
//	}
//	set.Scale(k, 1.2)
//	edited := set.Reconstruct()
package wavelet
