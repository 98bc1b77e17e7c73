// Package mfcc turns a mono PCM signal into a bounded matrix of
// mel-frequency cepstral coefficients.
//
// Each retained frame runs through the same chain:
//
//	frame -> Hamming window -> magnitude spectrum -> log mel energies -> DCT-II
//
// With the defaults (2048-sample frames, 512-sample hop, 26 mel bands,
// 13 coefficients, at most 100 frames) a one-second 44.1 kHz signal yields an
// 82 x 13 matrix. Signals shorter than one frame yield a 0 x 13 matrix, which
// is not an error.
//
// Extraction is deterministic. Enabling workers computes frames in parallel
// with identical arithmetic per row, so the matrix is bit-identical to a
// sequential run.
//
// [Extractor.ExtractWithProfile] also averages spectral shape descriptors
// (see stats/frequency) over the magnitude spectra of the retained frames.
//
// # Usage
//
//	m, err := mfcc.Extract(samples, 44100)
//	if err != nil {
//		return err
//	}
//	fmt.Println(m.Rows(), m.Cols())
package mfcc
