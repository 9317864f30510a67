// Package watchlist loads and normalizes the list of repositories the watcher
// tracks.
//
// The list may come from a YAML document or from inline configuration; either
// way entries are trimmed, validated as owner/name pairs, and deduplicated
// while preserving their configured order.
package watchlist
