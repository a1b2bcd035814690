// Package pattern maintains a bounded, evolving collection of learned signal
// templates for adaptive denoising.
//
// A Store owns a dense arena of patterns, each carrying a template, a
// confidence score, an observation count, and a staleness counter. Keys are
// monotonically increasing integers assigned at insertion and never reused
// within a session. Inserting into a full store first evicts the entry with
// the lowest confidence (ties broken by lowest key), so the store never
// exceeds its capacity.
//
// Matching scores a candidate window against every stored template of equal
// length using the Pearson correlation coefficient; windows or templates with
// zero variance never match.
//
// Stores serialize to a flat JSON mapping from key to pattern fields. Fields
// unknown to older readers are ignored and fields absent from older files
// take their zero defaults, so the format stays forward-compatible.
package pattern
