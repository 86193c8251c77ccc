// Package alias implements the CLI shorthand surface: a flat name-to-command
// mapping, persisted as YAML and orthogonal to the task graph.
package alias

import (
	"os"
	"path/filepath"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"

	"go.trai.ch/zr/internal/core/domain"
	"go.trai.ch/zerr"
)

// FileName is the name of the alias file under the zr home directory.
const FileName = "aliases.yaml"

// Store is a flat, YAML-persisted alias table.
type Store struct {
	path    string
	aliases map[string]string
}

// NewStore loads the alias file at path, creating an empty in-memory store
// if the file does not yet exist.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, aliases: map[string]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read alias file"), "path", path)
	}

	if err := yaml.Unmarshal(data, &s.aliases); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse alias file"), "path", path)
	}
	return s, nil
}

// DefaultPath returns ~/.zr/aliases.yaml, falling back to a relative path
// if the home directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".zr", FileName)
	}
	return filepath.Join(home, ".zr", FileName)
}

// Set records name as shorthand for command, overwriting any prior value.
func (s *Store) Set(name, command string) {
	s.aliases[name] = command
}

// Remove deletes name from the store. It is a no-op if name is not set.
func (s *Store) Remove(name string) {
	delete(s.aliases, name)
}

// Save writes the alias table back to disk as YAML.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create alias directory"), "path", s.path)
	}
	data, err := yaml.Marshal(s.aliases)
	if err != nil {
		return zerr.Wrap(err, "failed to marshal aliases")
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write alias file"), "path", s.path)
	}
	return nil
}

// Expand tokenizes the command registered under name into an argument
// vector, the way a shell would split it (whitespace-separated, with
// quoting but no further escaping). It returns domain.ErrAliasNotFound if
// name is not registered.
func (s *Store) Expand(name string) ([]string, error) {
	command, ok := s.aliases[name]
	if !ok {
		return nil, zerr.With(domain.ErrAliasNotFound, "alias", name)
	}
	args, err := shlex.Split(command)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to tokenize alias"), "alias", name)
	}
	return args, nil
}

// Names returns all registered alias names.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.aliases))
	for name := range s.aliases {
		names = append(names, name)
	}
	return names
}
