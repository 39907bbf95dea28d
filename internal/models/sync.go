package models

import "time"

// BackendType identifies one of the two storage backends.
type BackendType string

const (
	BackendLocal  BackendType = "local"
	BackendRemote BackendType = "remote"
)

// Valid reports whether t names a known backend.
func (t BackendType) Valid() bool {
	return t == BackendLocal || t == BackendRemote
}

// SyncStrategy is the direction (or non-direction) chosen for a sync run.
type SyncStrategy string

const (
	SyncLocalToRemote    SyncStrategy = "local-to-remote"
	SyncRemoteToLocal    SyncStrategy = "remote-to-local"
	SyncMerge            SyncStrategy = "merge"
	SyncStrategyConflict SyncStrategy = "conflict"
)

// SyncMetadata summarizes one side's dataset for strategy selection.
type SyncMetadata struct {
	LastSync    time.Time   `json:"lastSync"`
	Source      BackendType `json:"source"`
	RecordCount int         `json:"recordCount"`
	Checksum    string      `json:"checksum,omitempty"`
}

// SyncConflict reports a per-table mismatch that needs manual resolution.
type SyncConflict struct {
	Table      string `json:"table"`
	RecordID   int64  `json:"recordId"`
	LocalData  any    `json:"localData"`
	RemoteData any    `json:"remoteData"`
}

// SyncResult is the outcome of a sync operation. Failures are reported here
// rather than as errors so callers can render a status message directly.
type SyncResult struct {
	ID                 string         `json:"id"`
	Success            bool           `json:"success"`
	RecordsTransferred int            `json:"recordsTransferred"`
	Conflicts          []SyncConflict `json:"conflicts"`
	Error              string         `json:"error,omitempty"`
}
