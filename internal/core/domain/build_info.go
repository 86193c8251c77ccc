package domain

import "time"

// CacheEntry is the persisted record of a task's last successful run,
// keyed by task name and holding its fingerprint (task definition + env +
// toolchain + input file hashes). A fingerprint match on the next run is
// necessary but not sufficient: the scheduler still re-hashes declared
// outputs and treats a missing or changed output as a miss even when the
// fingerprint matches.
type CacheEntry struct {
	TaskName    string    `json:"task_name,omitzero"`
	Fingerprint string    `json:"fingerprint,omitzero"`
	OutputHash  string    `json:"output_hash,omitzero"`
	Timestamp   time.Time `json:"timestamp,omitzero"`
}
