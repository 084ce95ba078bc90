package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dhamidi/entitygen/clone"
	"github.com/dhamidi/entitygen/config"
	"github.com/dhamidi/entitygen/java/codebase"
)

// workspace is a scanned project kept current by a file watcher.
type workspace struct {
	root     string
	codebase *codebase.Codebase
	config   *config.Config
	watcher  *codebase.FileWatcher
}

// workspaceStore holds the projects opened during a session, keyed by
// absolute root.
type workspaceStore struct {
	mu          sync.Mutex
	entries     map[string]*workspace
	defaultRoot string
}

var workspaces = &workspaceStore{
	entries: make(map[string]*workspace),
}

func (s *workspaceStore) setDefaultRoot(root string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultRoot = root
}

// open returns the workspace for root, scanning it on first use.
func (s *workspaceStore) open(root string) (*workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if root == "" {
		root = s.defaultRoot
	}
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if ws, ok := s.entries[abs]; ok {
		return ws, nil
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	cfg, cfgPath, err := config.Find(abs)
	if err != nil {
		return nil, err
	}
	cb := codebase.New(abs, codebase.WithMarkers(cfg.Markers...), codebase.WithIndent(cfg.Indent))
	if err := cb.ScanAll(); err != nil {
		return nil, err
	}
	if cfgPath != "" {
		dir := filepath.Dir(cfgPath)
		for _, err := range cb.ScanDependencies(cfg.SourcePaths(dir), cfg.ClasspathPaths(dir)) {
			log.Warningf("%s", err)
		}
	}

	ws := &workspace{
		root:     abs,
		codebase: cb,
		config:   cfg,
		watcher:  codebase.NewFileWatcher(cb, 0),
	}
	ws.watcher.Start()
	s.entries[abs] = ws
	log.Infof("opened workspace %s", abs)
	return ws, nil
}

func (s *workspaceStore) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for root, ws := range s.entries {
		ws.watcher.Stop()
		delete(s.entries, root)
	}
}

func (ws *workspace) engine(snap *codebase.Snapshot) *clone.Engine {
	return clone.NewEngine(snap, nil, ws.config.EngineOptions())
}

func (ws *workspace) relative(path string) string {
	if rel, err := filepath.Rel(ws.root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
