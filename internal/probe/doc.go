// Package probe queries the GitHub repository metadata API to classify a
// repository's visibility.
//
// Probe results are deliberately coarse: a repository is either confirmed
// public, not public or absent, or the probe failed. Failures are downgraded
// to "not public" by callers so that a transient API outage can neither
// trigger nor permanently suppress an alert.
package probe
