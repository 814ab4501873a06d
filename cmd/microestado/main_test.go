package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	require.NoError(t, root.Execute())
	return out.String()
}

func TestCatalogCommand(t *testing.T) {
	out := execute(t, "catalog")
	assert.Contains(t, out, "catalog ")
	assert.Contains(t, out, "projects")
	assert.Contains(t, out, "advisors")
}

func TestSimulateWritesJournalAndSave(t *testing.T) {
	dir := t.TempDir()
	journal := filepath.Join(dir, "journal.json")
	save := filepath.Join(dir, "save.json")

	out := execute(t, "simulate", "--ticks", "40", "--every", "2", "--seed", "3",
		"--journal", journal, "--out", save)
	assert.Contains(t, out, "ticks run")
	assert.Contains(t, out, "autopilot")

	for _, path := range []string{journal, save} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestBadLogLevel(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"catalog", "--log-level", "loud"})
	assert.Error(t, root.Execute())
}
