// Package mel aggregates a magnitude spectrum into log-compressed energies on
// the HTK mel scale, mel(f) = 2595*log10(1 + f/700).
//
// The mel axis from 0 to mel(sampleRate/2) is divided into equal-width,
// rectangular bands. A spectrum bin belongs to every band whose closed
// interval [start, end] contains its mel value, so a bin sitting exactly on a
// shared edge is summed into both neighbours. Each band energy is reported as
// log(sum + 1e-10); the floor keeps silent bands finite.
package mel
