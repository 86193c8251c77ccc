package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zr/internal/core/domain"
	"go.trai.ch/zr/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher provides hashing functionality for tasks and files.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}

	return hasher.Sum64(), nil
}

// Fingerprint computes a single hash representing the task configuration
// (including its working directory), environment, toolchain, and input
// files, rooted at root. Glob inputs are expanded; an input that matches
// nothing is hashed as a literal path.
func (h *Hasher) Fingerprint(task *domain.Task, env map[string]string, root string) (string, error) {
	hasher := xxhash.New()

	h.hashTaskDefinition(task, hasher)
	h.hashEnvironment(env, hasher)

	for _, input := range task.Inputs {
		pattern := input.String()
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil || len(matches) == 0 {
			matches = []string{pattern}
		}
		for _, path := range matches {
			if err := h.hashPath(path, hasher); err != nil {
				return "", err
			}
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// hashTaskDefinition hashes the task's name, command, working directory,
// toolchain, serial dependencies, inputs, outputs, and dependencies.
// Note: task.Inputs and task.Outputs are already canonicalized (sorted and deduplicated)
// by the configuration loader, so no additional sorting is needed here.
func (h *Hasher) hashTaskDefinition(task *domain.Task, hasher *xxhash.Digest) {
	// Name
	_, _ = hasher.WriteString(task.Name.String())
	_, _ = hasher.Write([]byte{0}) // Separator

	// Command
	for _, segment := range task.Command {
		_, _ = hasher.WriteString(segment)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	// Working directory
	_, _ = hasher.WriteString(task.WorkingDir.String())
	_, _ = hasher.Write([]byte{0})

	// Toolchain requirements, already ordered by the config loader but
	// sorted again here so hand-built Task values hash deterministically.
	tools := make([]domain.ToolchainRequirement, len(task.Toolchain))
	copy(tools, task.Toolchain)
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })

	for _, t := range tools {
		_, _ = hasher.WriteString(t.Name)
		_, _ = hasher.Write([]byte{0})
		_, _ = hasher.WriteString(t.Version)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	// Serial dependencies participate in the fingerprint too: reordering
	// a serial chain changes what "done before me" means for this task.
	for _, dep := range task.DepsSerial {
		_, _ = hasher.WriteString(dep.String())
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})

	// Inputs
	for _, input := range task.Inputs {
		_, _ = hasher.WriteString(input.String())
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	// Outputs
	for _, output := range task.Outputs {
		_, _ = hasher.WriteString(output.String())
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})

	// Dependencies
	for _, dep := range task.Dependencies {
		_, _ = hasher.WriteString(dep.String())
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})
}

// hashEnvironment hashes environment variables in a deterministic order.
func (h *Hasher) hashEnvironment(env map[string]string, hasher *xxhash.Digest) {
	// Sort keys for determinism
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		_, _ = hasher.WriteString(k)
		_, _ = hasher.Write([]byte{'='})
		_, _ = hasher.WriteString(env[k])
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})
}

func (h *Hasher) hashPath(path string, mainHasher io.Writer) error {
	info, err := os.Stat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
	}

	if info.IsDir() {
		// Use Walker to walk the directory
		// We pass empty ignores for now, or we could pass some default ignores.
		// The task might have ignores, but it's not in the struct yet.
		for filePath := range h.walker.WalkFiles(path, nil) {
			if err := h.hashFile(filePath, mainHasher); err != nil {
				return err
			}
		}
	} else {
		if err := h.hashFile(path, mainHasher); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hasher) hashFile(path string, mainHasher io.Writer) error {
	// Write file path (relative or absolute? relative is better for cache portability, but here we just want uniqueness)
	// Let's write the path as is.
	_, _ = mainHasher.Write([]byte(path))
	_, _ = mainHasher.Write([]byte{0})

	// Compute file content hash
	hash, err := h.ComputeFileHash(path)
	if err != nil {
		return err
	}

	// Write hash to main hasher
	if err := binary.Write(mainHasher, binary.LittleEndian, hash); err != nil {
		return zerr.Wrap(err, domain.ErrWriteHashFailed.Error())
	}
	return nil
}

// ComputeOutputHash computes the hash of the output files or directories.
// Note: Unlike task inputs/outputs, the output file list comes from filesystem traversal
// or executor results, which are not guaranteed to be in a deterministic order.
// Therefore, we must explicitly sort the list before hashing to ensure consistency.
func (h *Hasher) ComputeOutputHash(outputs []string, root string) (string, error) {
	sortedOutputs := make([]string, len(outputs))
	copy(sortedOutputs, outputs)
	sort.Strings(sortedOutputs)

	hasher := xxhash.New()

	for _, output := range sortedOutputs {
		path := filepath.Join(root, output)

		// Use hashPath to handle both files and directories
		if err := h.hashPath(path, hasher); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}
