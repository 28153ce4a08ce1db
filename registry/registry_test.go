package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cms-nanoAOD/correctionlib/registry"
)

const setA = `{
  "schema_version": 2,
  "description": "set A",
  "corrections": [
    {"name": "mu_iso", "version": 2, "inputs": [{"name": "pt", "type": "real"}],
     "output": {"name": "sf", "type": "real"},
     "data": {"nodetype": "binning", "input": "pt", "edges": [0.0, 50.0, "inf"],
              "content": [1.01, 1.02], "flow": "clamp"}},
    {"name": "mu_id", "version": 1, "inputs": [],
     "output": {"name": "sf", "type": "real"}, "data": 0.99}
  ]
}`

const setB = `{
  "schema_version": 2,
  "description": "set B",
  "corrections": [
    {"name": "mu_iso", "version": 5, "inputs": [],
     "output": {"name": "sf", "type": "real"}, "data": 1.0}
  ]
}`

func writeDoc(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func openRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Open(filepath.Join(t.TempDir(), "corrections.db"))
	require.NoError(t, err)
	t.Cleanup(func() { reg.Close() })
	return reg
}

func TestAddAndList(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	reg := openRegistry(t)

	entry, err := reg.Add(ctx, writeDoc(t, dir, "a.json", setA))
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "set A", entry.Description)
	assert.Equal(t, 2, entry.SchemaVersion)
	require.Len(t, entry.Corrections, 2)

	_, err = reg.Add(ctx, writeDoc(t, dir, "b.json", setB))
	require.NoError(t, err)

	entries, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var a *registry.Entry
	for i := range entries {
		if entries[i].Description == "set A" {
			a = &entries[i]
		}
	}
	require.NotNil(t, a)
	require.Len(t, a.Corrections, 2)
	assert.Equal(t, "mu_id", a.Corrections[0].Name)
	assert.Equal(t, int32(1), a.Corrections[0].Version)
}

func TestAddRejectsInvalidDocument(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	reg := openRegistry(t)

	bad := writeDoc(t, dir, "bad.json", `{"schema_version": 1, "corrections": []}`)
	_, err := reg.Add(ctx, bad)
	require.Error(t, err)

	entries, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	reg := openRegistry(t)

	_, err := reg.Add(ctx, writeDoc(t, dir, "a.json", setA))
	require.NoError(t, err)
	_, err = reg.Add(ctx, writeDoc(t, dir, "b.json", setB))
	require.NoError(t, err)

	entries, err := reg.Find(ctx, "mu_iso")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = reg.Find(ctx, "mu_id")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "set A", entries[0].Description)

	entries, err = reg.Find(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	reg := openRegistry(t)

	path := writeDoc(t, dir, "a.json", setA)
	entry, err := reg.Add(ctx, path)
	require.NoError(t, err)

	require.NoError(t, reg.Remove(ctx, entry.ID))
	entries, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Error(t, reg.Remove(ctx, entry.ID))

	// removal by path
	_, err = reg.Add(ctx, path)
	require.NoError(t, err)
	require.NoError(t, reg.Remove(ctx, path))
}

func TestDuplicatePathRejected(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	reg := openRegistry(t)

	path := writeDoc(t, dir, "a.json", setA)
	_, err := reg.Add(ctx, path)
	require.NoError(t, err)
	_, err = reg.Add(ctx, path)
	assert.Error(t, err)
}
