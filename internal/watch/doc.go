// Package watch implements the repository visibility reconciliation workflow.
//
// It exposes CommandBuilder for wiring the watch Cobra command, Service for
// driving one reconciliation pass programmatically, and the configuration and
// credential-source abstractions the command depends on.
package watch
