// Package history persists finished conversion sessions to SQLite.
//
// One row is written per terminal session, whether it succeeded, failed, or
// was cancelled. The store is append-mostly: conversion code records rows,
// the CLI lists and clears them. Recording is best-effort from the caller's
// perspective; a write failure never alters a conversion outcome.
package history
