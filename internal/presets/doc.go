// Package presets maps a conversion request to the ordered encoder preset
// candidates the native backend should try.
//
// Candidates are opaque identifiers; the export engine decides what each one
// means and whether a candidate can actually produce the requested format. The
// selector only encodes ordering policy: passthrough-first for lossless
// intent, quality-mapped single candidates for video compression, and the
// lossy-then-lossless fallback chain for compression requests against
// uncompressed audio targets (which have no true compressed preset).
package presets
