package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Success(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `version: "1"
tasks:
  test:
    cmd: ["echo", "hello"]
`
	require.NoError(t, os.WriteFile(tmpDir+"/zr.yaml", []byte(configContent), 0o600))

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(originalWd) }()

	originalArgs := os.Args
	os.Args = []string{"zr", "run", "test"}
	defer func() { os.Args = originalArgs }()

	assert.Equal(t, 0, runWithArgs(os.Args[1:]))
}

func TestRun_MissingConfig(t *testing.T) {
	tmpDir := t.TempDir()

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(originalWd) }()

	assert.Equal(t, 1, runWithArgs([]string{"run", "test"}))
}
