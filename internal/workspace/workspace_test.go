package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warrenlabs/warren/internal/config"
	"github.com/warrenlabs/warren/pkg/tracker"
)

func TestInit_Scaffolds(t *testing.T) {
	parent := t.TempDir()

	ws, err := Init(parent)
	require.NoError(t, err)

	root := filepath.Join(parent, tracker.RootDir)
	assert.Equal(t, root, ws.Root)

	// Config file, entity directories, and one ledger per namespace.
	_, err = os.Stat(filepath.Join(root, config.FileName))
	assert.NoError(t, err)

	for _, kind := range tracker.Kinds {
		info, err := os.Stat(filepath.Join(root, kind.Dir()))
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		_, err = os.Stat(filepath.Join(root, kind.LedgerFile()))
		assert.NoError(t, err)
	}
}

func TestInit_RefusesExisting(t *testing.T) {
	parent := t.TempDir()

	_, err := Init(parent)
	require.NoError(t, err)

	_, err = Init(parent)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestFind_WalksUpward(t *testing.T) {
	parent := t.TempDir()
	_, err := Init(parent)
	require.NoError(t, err)

	nested := filepath.Join(parent, "src", "deep", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0755))

	root, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(parent, tracker.RootDir), root)
}

func TestFind_NotAWorkspace(t *testing.T) {
	_, err := Find(t.TempDir())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "warren init")
}

func TestOpenAt_WiresComponents(t *testing.T) {
	parent := t.TempDir()
	_, err := Init(parent)
	require.NoError(t, err)

	ws, err := OpenAt(filepath.Join(parent, tracker.RootDir))
	require.NoError(t, err)

	assert.NotNil(t, ws.Config)
	assert.NotNil(t, ws.Store)
	assert.NotNil(t, ws.Ledger)
	assert.NotNil(t, ws.Journal)
	assert.NotNil(t, ws.Coordinator)

	// The wired components operate on the same root.
	e := &tracker.Entity{
		ID:       tracker.EntityID{Num: 1},
		Title:    "First",
		Kind:     tracker.KindTask,
		Status:   tracker.StatusPending,
		Priority: tracker.PriorityMedium,
	}
	require.NoError(t, ws.Store.Create(e))
	assert.Empty(t, ws.Coordinator.Validate(e))

	report, err := ws.Coordinator.Reconcile(tracker.KindTask, true)
	require.NoError(t, err)
	assert.True(t, report.Repaired)
}

func TestOpenAt_MissingConfig(t *testing.T) {
	root := filepath.Join(t.TempDir(), tracker.RootDir)
	require.NoError(t, os.MkdirAll(root, 0755))

	_, err := OpenAt(root)
	assert.Error(t, err)
}
