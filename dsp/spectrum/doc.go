// Package spectrum computes magnitude spectra of real-valued frames.
//
// The reference transform is the direct discrete Fourier transform
//
//	re_k =  sum_i x_i cos(2*pi*k*i/N)
//	im_k = -sum_i x_i sin(2*pi*k*i/N)
//	|X_k| = sqrt(re_k^2 + im_k^2),  k in [0, N/2)
//
// [DFTMagnitude] evaluates it literally in O(N^2). [Analyzer] produces the same
// bins through an algo-fft plan when one can be built for the frame size, and
// falls back to the direct transform otherwise. Only the non-redundant half of
// the spectrum is returned.
package spectrum
