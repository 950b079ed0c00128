// Package ffmpeg implements the export engine on top of the ffmpeg
// command-line tool.
//
// The engine constructs one session per export attempt. A session binds a
// source, a destination, and a preset to a concrete argument list; whether a
// preset can produce a given target format is decided statically before
// anything is spawned. Progress is read from ffmpeg's machine-readable
// key=value progress stream and normalised to a fraction of the source
// duration.
//
// Command execution sits behind an Executor interface so tests can script
// ffmpeg output without the binary being installed.
package ffmpeg
