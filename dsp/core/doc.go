// Package core holds the small numeric helpers and the error taxonomy shared
// by the dsp and measure packages.
//
// Validation failures anywhere in the pipeline wrap [ErrInvalidInput], so
// callers can test for them with errors.Is regardless of which stage rejected
// the input. Degenerate numeric cases (a silent frame, an empty mel band) are
// not errors: the stages absorb them with additive floors.
package core
