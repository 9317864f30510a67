package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	stateFileReadErrorTemplateConstant   = "failed to read state file: %w"
	stateFileDecodeErrorTemplateConstant = "failed to decode state file: %w"
	stateFileEncodeErrorTemplateConstant = "failed to encode state: %w"
	stateFileWriteErrorTemplateConstant  = "failed to write state file: %w"
	stateFilePathRequiredMessageConstant = "state file path must be provided"
	stateFileIndentConstant              = "  "
	stateFileTrailingNewlineConstant     = "\n"
	stateFilePermissionsConstant         = 0o644
)

// ErrStateFilePathRequired indicates no state file path was supplied.
var ErrStateFilePathRequired = errors.New(stateFilePathRequiredMessageConstant)

// TrackingRecord captures the durable per-repository alert fact.
type TrackingRecord struct {
	AlertSent bool `json:"alertSent"`
}

// Store maps full repository names to tracking records.
type Store struct {
	records map[string]TrackingRecord
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{records: map[string]TrackingRecord{}}
}

// Load reads the store from disk. A missing file yields an empty store; the
// first run of the watcher starts with no recorded history.
func Load(filePath string) (*Store, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return nil, ErrStateFilePathRequired
	}

	contents, readError := os.ReadFile(filepath.Clean(trimmedPath))
	if readError != nil {
		if errors.Is(readError, os.ErrNotExist) {
			return NewStore(), nil
		}
		return nil, fmt.Errorf(stateFileReadErrorTemplateConstant, readError)
	}

	records := map[string]TrackingRecord{}
	if decodeError := json.Unmarshal(contents, &records); decodeError != nil {
		return nil, fmt.Errorf(stateFileDecodeErrorTemplateConstant, decodeError)
	}

	return &Store{records: records}, nil
}

// Save rewrites the store to disk with sorted keys and a trailing newline.
// The rewrite happens unconditionally; an unchanged store produces identical
// bytes, which keeps the publish diff check reliable.
func (store *Store) Save(filePath string) error {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return ErrStateFilePathRequired
	}

	encodedState, encodeError := json.MarshalIndent(store.records, "", stateFileIndentConstant)
	if encodeError != nil {
		return fmt.Errorf(stateFileEncodeErrorTemplateConstant, encodeError)
	}
	encodedState = append(encodedState, stateFileTrailingNewlineConstant...)

	if writeError := os.WriteFile(filepath.Clean(trimmedPath), encodedState, stateFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(stateFileWriteErrorTemplateConstant, writeError)
	}

	return nil
}

// EnsureRecord creates a default tracking record for the repository when absent.
func (store *Store) EnsureRecord(repositoryName string) {
	if _, exists := store.records[repositoryName]; exists {
		return
	}
	store.records[repositoryName] = TrackingRecord{AlertSent: false}
}

// AlertSent reports whether an alert was already dispatched for the repository.
func (store *Store) AlertSent(repositoryName string) bool {
	return store.records[repositoryName].AlertSent
}

// MarkAlertSent records that an alert was dispatched. The flag is monotonic:
// there is no operation that reverts it.
func (store *Store) MarkAlertSent(repositoryName string) {
	store.records[repositoryName] = TrackingRecord{AlertSent: true}
}

// RecordCount returns the number of tracked repositories, including stale
// entries for repositories no longer configured.
func (store *Store) RecordCount() int {
	return len(store.records)
}
