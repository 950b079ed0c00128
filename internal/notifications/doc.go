// Package notifications delivers conversion completion effects.
//
// Three side channels exist: revealing the finished file, playing a
// completion sound, and posting a user notification. The first two run
// configured local commands; notifications go to a local command and, when a
// topic is configured, to ntfy over HTTP. All of them are fire-and-forget
// from the orchestrator's point of view: a failed side effect is logged and
// never alters the conversion outcome.
//
// Conversion code depends only on the Service interface; tests inject a
// command runner instead of spawning real processes.
package notifications
