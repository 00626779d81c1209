// Package main hosts the lipsync CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, builds
// the structured logger, and hands the actual work to the internal
// packages: probing and recognition for `animate`, dependency checks for
// `check`, and cache and configuration maintenance for the rest.
package main
