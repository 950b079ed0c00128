// Command mediaconv converts local media files between containers and
// formats, choosing between the in-process ffmpeg engine and an external
// command-line transcoder for legacy sources.
package main
