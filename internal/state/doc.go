// Package state persists per-repository alert tracking records.
//
// The store is a JSON file mapping full repository names to tracking records.
// It is loaded at the start of a run, mutated in memory, and fully rewritten
// at the end with sorted keys so that commits of the file diff cleanly.
package state
