package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zr/internal/adapters/config"
	"go.trai.ch/zr/internal/core/domain"
)

func TestLoad_WorkspaceSuccess(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, config.WorkfileName, `
version: "1"
projects: ["packages/*"]
`)

	pkgADir := filepath.Join(tmpDir, "packages", "a")
	require.NoError(t, os.MkdirAll(pkgADir, 0o750))
	writeFile(t, pkgADir, config.ZrfileName, `
version: "1"
project: "a"
tasks:
  build:
    cmd: ["go build"]
`)

	pkgBDir := filepath.Join(tmpDir, "packages", "b")
	require.NoError(t, os.MkdirAll(pkgBDir, 0o750))
	writeFile(t, pkgBDir, config.ZrfileName, `
version: "1"
project: "b"
tasks:
  build:
    cmd: ["go build"]
    dependsOn: ["a:build"]
`)

	g, err := newTestLoader().Load(pkgBDir)
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	order := make([]string, 0, 2)
	for task := range g.Walk() {
		order = append(order, task.Name.String())
	}
	assert.Equal(t, []string{"a:build", "b:build"}, order)
}

func TestLoad_WorkspaceDuplicateProjectName(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, config.WorkfileName, `
version: "1"
projects: ["packages/*"]
`)

	for _, name := range []string{"a", "b"} {
		dir := filepath.Join(tmpDir, "packages", name)
		require.NoError(t, os.MkdirAll(dir, 0o750))
		writeFile(t, dir, config.ZrfileName, `
version: "1"
project: "dup"
tasks:
  build:
    cmd: ["go build"]
`)
	}

	_, err := newTestLoader().Load(tmpDir)
	require.Error(t, err)
}

func TestLoad_WorkspaceMissingZrfileWarns(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, config.WorkfileName, `
version: "1"
projects: ["packages/*"]
`)

	emptyDir := filepath.Join(tmpDir, "packages", "empty")
	require.NoError(t, os.MkdirAll(emptyDir, 0o750))

	g, err := newTestLoader().Load(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 0, g.TaskCount())
}

func TestLoad_WorkfileTakesPrecedenceOverZrfile(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, config.ZrfileName, `
version: "1"
tasks:
  standalone:
    cmd: ["echo standalone"]
`)
	writeFile(t, tmpDir, config.WorkfileName, `
version: "1"
projects: ["packages/*"]
`)

	pkgDir := filepath.Join(tmpDir, "packages", "a")
	require.NoError(t, os.MkdirAll(pkgDir, 0o750))
	writeFile(t, pkgDir, config.ZrfileName, `
version: "1"
project: "a"
tasks:
  build:
    cmd: ["go build"]
`)

	g, err := newTestLoader().Load(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 1, g.TaskCount())
	_, ok := g.GetTask(domain.NewInternedString("a:build"))
	assert.True(t, ok)
}
