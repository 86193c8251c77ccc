// Package toolchain implements ports.EnvironmentFactory by resolving
// tool requirements against binaries already present on PATH, rather
// than fetching a hermetic toolchain from a package store. zr assumes
// the operator's environment (or CI image) already provisions the tools
// its tasks need; it only verifies and surfaces a clear error when one
// is missing.
package toolchain

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"go.trai.ch/zr/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Resolver implements ports.EnvironmentFactory.
type Resolver struct {
	mu    sync.Mutex
	cache map[string][]string // envID -> resolved env, keyed by domain.GenerateEnvID
}

// NewResolver creates a new PATH-backed toolchain resolver.
func NewResolver() *Resolver {
	return &Resolver{cache: make(map[string][]string)}
}

// GetEnvironment resolves each alias->spec pair ("go" -> "go@1.25.4") to
// a binary on PATH, verifying the name component is actually present.
// It does not enforce the version component beyond recording it in the
// environment for the task's own use (e.g. GO_VERSION); version pinning
// that requires fetching a different toolchain build is out of scope.
func (r *Resolver) GetEnvironment(ctx context.Context, tools map[string]string) ([]string, error) {
	if len(tools) == 0 {
		return nil, nil
	}

	id := domain.GenerateEnvID(tools)
	r.mu.Lock()
	if cached, ok := r.cache[id]; ok {
		r.mu.Unlock()
		return cached, nil
	}
	r.mu.Unlock()

	var mu sync.Mutex
	env := make([]string, 0, len(tools))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for alias, spec := range tools {
		alias, spec := alias, spec
		g.Go(func() error {
			name, version, ok := strings.Cut(spec, "@")
			if !ok {
				name, version = spec, ""
			}

			if _, err := exec.LookPath(name); err != nil {
				return zerr.With(domain.ErrToolchainMissing, "tool", alias)
			}

			mu.Lock()
			if version != "" {
				env = append(env, strings.ToUpper(alias)+"_VERSION="+version)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[id] = env
	r.mu.Unlock()

	return env, nil
}
