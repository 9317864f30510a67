// Package publish commits and pushes the rewritten state file to its durable
// versioned store.
//
// The publisher only acts when the state file differs from the committed
// version; a no-op run leaves the repository untouched. It consumes a narrow
// git executor interface so the reconciliation core never depends on how git
// is invoked.
package publish
