// Package frame slices one-dimensional signals into fixed-length overlapping
// windows and reassembles processed windows by weighted overlap-add.
//
// Extraction produces windows at offsets 0, step, 2*step, ... where
// step = floor(windowSize * (1 - overlap)), clamped to at least 1 so that
// extraction always makes progress. Reassembly sums window contributions into
// a per-sample accumulator and normalizes by the per-sample coverage count.
//
// # Usage
//
//	windows, err := frame.Extract(signal, 100, 0.5)
//	asm := frame.NewAssembler(len(signal))
//	for _, w := range windows {
//		asm.Add(w.Offset, process(w.Data))
//	}
//	out := asm.Output(signal) // uncovered tail samples copy through from signal
//
// Windows reference the input signal without copying; callers that mutate a
// window must copy it first.
package frame
