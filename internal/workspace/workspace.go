// Package workspace locates and scaffolds the .warren directory that
// anchors a Warren workspace, and wires together the store, ledger,
// journal, and coordinator for commands to use.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/warrenlabs/warren/internal/config"
	"github.com/warrenlabs/warren/internal/coordinator"
	"github.com/warrenlabs/warren/internal/journal"
	"github.com/warrenlabs/warren/internal/ledger"
	"github.com/warrenlabs/warren/internal/store"
	"github.com/warrenlabs/warren/pkg/tracker"
)

// Workspace is an opened Warren workspace.
type Workspace struct {
	Root        string // Path to the .warren directory
	Config      *config.WarrenConfig
	Store       *store.Store
	Ledger      *ledger.Ledger
	Journal     *journal.Journal
	Coordinator *coordinator.Coordinator
}

// Find walks upward from the given directory looking for a .warren
// directory, the same way git discovers its repository root.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, tracker.RootDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s directory found (run 'warren init' first)", tracker.RootDir)
		}
		dir = parent
	}
}

// Open locates the workspace from the current directory and wires up its
// components.
func Open() (*Workspace, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	root, err := Find(cwd)
	if err != nil {
		return nil, err
	}

	return OpenAt(root)
}

// OpenAt opens the workspace rooted at the given .warren directory.
func OpenAt(root string) (*Workspace, error) {
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, err
	}

	st := store.New(root)
	ld := ledger.New(st)
	jn := journal.New(root, cfg.Writer)

	return &Workspace{
		Root:        root,
		Config:      cfg,
		Store:       st,
		Ledger:      ld,
		Journal:     jn,
		Coordinator: coordinator.New(st, ld, jn),
	}, nil
}

// Init scaffolds a new .warren directory under parentDir: the config
// file, the three entity directories, and an empty ledger per namespace.
// Fails if the directory already exists.
func Init(parentDir string) (*Workspace, error) {
	root := filepath.Join(parentDir, tracker.RootDir)

	if _, err := os.Stat(root); err == nil {
		return nil, fmt.Errorf("%s already exists", root)
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", root, err)
	}

	if err := config.Default().Save(filepath.Join(root, config.FileName)); err != nil {
		return nil, err
	}

	for _, kind := range tracker.Kinds {
		if err := os.MkdirAll(filepath.Join(root, kind.Dir()), 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", kind.Dir(), err)
		}
	}

	ws, err := OpenAt(root)
	if err != nil {
		return nil, err
	}

	for _, kind := range tracker.Kinds {
		if _, err := ws.Ledger.Rebuild(kind); err != nil {
			return nil, err
		}
	}

	return ws, nil
}
