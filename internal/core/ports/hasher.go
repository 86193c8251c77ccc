package ports

import "go.trai.ch/zr/internal/core/domain"

// Hasher computes the fingerprints used to decide whether a task's work
// can be skipped, and the content hashes used to detect output drift.
type Hasher interface {
	// Fingerprint computes a single hash over the task's command, working
	// directory, sorted environment, toolchain requirements, and the content of its
	// declared inputs, rooted at root.
	Fingerprint(task *domain.Task, env map[string]string, root string) (string, error)

	// ComputeFileHash computes the content hash of a single file.
	ComputeFileHash(path string) (uint64, error)

	// ComputeOutputHash hashes the declared outputs of a task, rooted at
	// root, so a cache hit can be invalidated when an output has been
	// deleted or modified outside of zr.
	ComputeOutputHash(outputs []string, root string) (string, error)
}
