// Package adaptive implements a self-learning pattern denoiser for repetitive
// signals such as ion-channel current recordings.
//
// The filter slides overlapping windows across the signal and tries to
// recognize each window as an instance of a previously-seen pattern. Windows
// that correlate with stored templates are reconstructed as a
// confidence-weighted blend of those templates; windows nothing matches are
// learned as new patterns and passed through unchanged. The processed windows
// are then reassembled by overlap-add. Because the pattern store survives
// across calls (and, with a persister, across sessions), the filter improves
// as it sees more data.
//
// # Usage
//
//	f, err := adaptive.New(nil,
//		adaptive.WithWindowSize(100),
//		adaptive.WithOverlap(0.5),
//	)
//	out, err := f.Filter(signal)
//
// To persist learned patterns between sessions, inject a persister:
//
//	f, err := adaptive.NewPersistent(pattern.FileStore{Path: "patterns.json"})
//	out, err := f.Filter(signal) // store saved after every call
//	if err := f.PersistErr(); err != nil {
//		// save failed; the filtered output above is still valid
//	}
//
// A Filter is not safe for concurrent use: each call mutates the pattern
// store in place. Use one Filter per goroutine or serialize access.
package adaptive
