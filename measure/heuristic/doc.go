// Package heuristic scores an MFCC matrix for signs of editing.
//
// Two independent signals are computed from the matrix alone:
//
//   - Consistency is 1 minus the summed frame-to-frame L1 drift divided by
//     rows*100, clamped to [0, 1]. Matrices with fewer than two rows score 1.
//   - AnomalyRatio is the fraction of rows whose population variance across
//     coefficients is above 100 or below 0.01.
//
// Statistics adds per-coefficient descriptive statistics and flags frames
// whose drift from the previous frame exceeds mean+2*std as splice candidates.
//
// The variance bounds are fixed heuristics and they misjudge digital silence.
// Every silent frame floors all mel bands, which puts the whole row into c0
// (26*log(1e-10) with the defaults). That row variance is far above 100, so a
// silent recording reports perfect consistency and an anomaly ratio of 1.
package heuristic
