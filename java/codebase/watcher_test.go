package codebase

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcherScan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p", "A.java")
	writeFile(t, path, "package p;\nclass A { int x; }\n")

	c := New(dir)
	w := NewFileWatcher(c, time.Hour)
	w.scan()
	require.NotNil(t, c.FindClass("p.A"))
	snap := c.Snapshot()

	w.scan()
	assert.False(t, snap.Stale(), "unchanged files are not rescanned")

	writeFile(t, path, "package p;\nclass A { int x; int y; }\n")
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	w.scan()
	assert.True(t, snap.Stale())
	assert.Len(t, c.FindClass("p.A").Fields, 2)

	require.NoError(t, os.Remove(path))
	w.scan()
	assert.Nil(t, c.FindClass("p.A"))
}

func TestFileWatcherPrime(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.java"), "class A {}\n")

	c := New(dir)
	require.NoError(t, c.ScanAll())
	w := NewFileWatcher(c, 0)
	assert.Equal(t, time.Second, w.pollInterval)

	w.prime()
	before := c.Generation()
	w.scan()
	assert.Equal(t, before, c.Generation())
}

func TestFileWatcherStopTwice(t *testing.T) {
	w := NewFileWatcher(New(t.TempDir()), time.Millisecond)
	w.Start()
	w.Stop()
	w.Stop()
}
