package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestGridCommandPrintsFullGrid(t *testing.T) {
	chdir(t, t.TempDir()) // no config.yaml; defaults apply

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"grid"})
	require.NoError(t, rootCmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 82) // header + 81 grid rows

	assert.Contains(t, lines[0], "tree_depth")
	assert.Contains(t, lines[1], "40")
	assert.Contains(t, lines[1], "5")
}
