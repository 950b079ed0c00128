// Package backend implements the two conversion execution paths.
//
// The native backend drives an in-process export engine: it walks the preset
// candidates in order, accepts the first session that supports the requested
// output format, then samples the session's progress counter on a fixed
// interval until the session reaches a terminal status. The external tool
// backend spawns a command-line transcoder for legacy sources and maps its
// exit status to an outcome; it offers no incremental progress and no
// cancellation once spawned.
//
// Both paths are expressed against small interfaces (ExportEngine, Executor)
// so the orchestrator and tests never need ffmpeg installed.
package backend
