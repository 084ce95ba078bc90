// Package codebase keeps the class models of a source tree current and hands
// out versioned snapshots of them to the synthesis engine.
package codebase

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/entitygen/clone"
	"github.com/dhamidi/entitygen/java"
	"github.com/dhamidi/entitygen/java/source"
)

var log = commonlog.GetLogger("entitygen.codebase")

var ErrNotInSource = errors.New("class is not declared in a writable source file")

type Option func(*Codebase)

// WithMarkers sets the annotations that make a class rely on generated accessors.
func WithMarkers(markers ...string) Option {
	return func(c *Codebase) { c.markers = markers }
}

// WithIndent sets the indentation unit of inserted members.
func WithIndent(indent string) Option {
	return func(c *Codebase) { c.indent = indent }
}

type Codebase struct {
	mu         sync.RWMutex
	rootDir    string
	markers    []string
	indent     string
	files      map[string]*FileInfo
	classes    []*java.ClassModel
	generation uint64
}

type FileInfo struct {
	Path     string
	Content  []byte
	Classes  []*java.ClassModel
	ParseErr error

	// Virtual files come from archives and are never written.
	Virtual bool

	// Binary entries hold a compiled class and no source. They are never
	// reparsed.
	Binary bool
}

// New creates an empty codebase rooted at rootDir, made absolute.
func New(rootDir string, opts ...Option) *Codebase {
	if abs, err := filepath.Abs(rootDir); err == nil {
		rootDir = abs
	}
	c := &Codebase{
		rootDir: rootDir,
		markers: clone.DefaultMarkers,
		indent:  "    ",
		files:   make(map[string]*FileInfo),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// Generation counts the changes applied to the codebase.
func (c *Codebase) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// ScanAll reads every .java file under the root. Files are parsed a second
// time once all classes are known so that star imports resolve.
func (c *Codebase) ScanAll() error {
	contents := map[string][]byte{}
	err := filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != c.rootDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".java" {
			content, err := os.ReadFile(path)
			if err != nil {
				log.Warningf("read %s: %s", path, err)
				return nil
			}
			contents[path] = content
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for path, content := range contents {
		c.parseLocked(path, content, false)
	}
	c.reparseLocked()
	log.Infof("scanned %d files, %d classes under %s", len(contents), len(c.classes), c.rootDir)
	return nil
}

// ScanArchive adds the .java and .class entries of a zip or jar, including
// jars nested in it, as read-only files.
func (c *Codebase) ScanArchive(path string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	entries := newArchiveEntries()
	for _, f := range r.File {
		if filepath.Ext(f.Name) == ".jar" {
			scanNestedJar(f, path, entries)
			continue
		}
		entries.add(path+"!"+f.Name, f)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.addEntriesLocked(entries)
	log.Infof("scanned %d sources and %d classes from %s", len(entries.sources), len(entries.classes), path)
	return nil
}

// ScanClasspath adds compiled classes from a directory tree, a single .class
// file or an archive. They are read-only and are consulted after the
// classes declared in source.
func (c *Codebase) ScanClasspath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("classpath entry: %w", err)
	}
	if !info.IsDir() && filepath.Ext(path) != ".class" {
		return c.ScanArchive(path)
	}

	entries := newArchiveEntries()
	err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || filepath.Ext(p) != ".class" {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			log.Warningf("read %s: %s", p, err)
			return nil
		}
		entries.addClass(p, data)
		return nil
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.addEntriesLocked(entries)
	log.Infof("scanned %d classes from %s", len(entries.classes), path)
	return nil
}

// ScanDependencies scans source archives and classpath entries. Entries
// that cannot be read are skipped and their errors returned.
func (c *Codebase) ScanDependencies(archives, classpath []string) []error {
	var errs []error
	for _, archive := range archives {
		if err := c.ScanArchive(archive); err != nil {
			errs = append(errs, fmt.Errorf("sources %s: %w", archive, err))
		}
	}
	for _, entry := range classpath {
		if err := c.ScanClasspath(entry); err != nil {
			errs = append(errs, fmt.Errorf("classpath %s: %w", entry, err))
		}
	}
	return errs
}

type archiveEntries struct {
	sources map[string][]byte
	classes map[string]*java.ClassModel
}

func newArchiveEntries() *archiveEntries {
	return &archiveEntries{sources: map[string][]byte{}, classes: map[string]*java.ClassModel{}}
}

func (e *archiveEntries) add(name string, f *zip.File) {
	ext := filepath.Ext(f.Name)
	if ext != ".java" && ext != ".class" {
		return
	}
	data, err := readZipEntry(f)
	if err != nil {
		log.Debugf("read %s: %s", name, err)
		return
	}
	if ext == ".java" {
		e.sources[name] = data
		return
	}
	e.addClass(name, data)
}

func (e *archiveEntries) addClass(name string, data []byte) {
	switch filepath.Base(name) {
	case "module-info.class", "package-info.class":
		return
	}
	cls, err := java.ClassModelFromReader(bytes.NewReader(data))
	if err != nil {
		log.Debugf("read class %s: %s", name, err)
		return
	}
	if cls == nil {
		return
	}
	cls.SourceFile = name
	e.classes[name] = cls
}

func (c *Codebase) addEntriesLocked(entries *archiveEntries) {
	for name, cls := range entries.classes {
		c.files[name] = &FileInfo{
			Path:    name,
			Classes: []*java.ClassModel{cls},
			Virtual: true,
			Binary:  true,
		}
	}
	for name, content := range entries.sources {
		c.parseLocked(name, content, true)
	}
	c.reparseLocked()
}

func scanNestedJar(jar *zip.File, archive string, entries *archiveEntries) {
	data, err := readZipEntry(jar)
	if err != nil {
		return
	}
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return
	}
	for _, f := range r.File {
		entries.add(archive+"!"+jar.Name+"!"+f.Name, f)
	}
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.UpdateFile(path, content)
}

// UpdateFile replaces the content of path and moves the codebase to a new
// generation.
func (c *Codebase) UpdateFile(path string, content []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.parseLocked(path, content, false)
	c.rebuildClassesLocked()
	return nil
}

func (c *Codebase) parseLocked(path string, content []byte, virtual bool) {
	classes, err := source.ClassModelsFromSource(content,
		source.WithFile(path),
		source.WithKnownClasses(c.classes),
		source.WithMarkers(c.markers...),
	)
	if err != nil {
		log.Debugf("parse %s: %s", path, err)
	}
	c.files[path] = &FileInfo{
		Path:     path,
		Content:  content,
		Classes:  classes,
		ParseErr: err,
		Virtual:  virtual,
	}
}

// reparseLocked parses every file again against the current class set.
func (c *Codebase) reparseLocked() {
	c.rebuildClassesLocked()
	for path, f := range c.files {
		if f.Binary {
			continue
		}
		c.parseLocked(path, f.Content, f.Virtual)
	}
	c.rebuildClassesLocked()
}

// rebuildClassesLocked publishes a fresh class slice, source classes ahead
// of compiled ones so that a class present in both resolves to its source.
// Models already handed out in snapshots are never modified.
func (c *Codebase) rebuildClassesLocked() {
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var all, binary []*java.ClassModel
	for _, path := range paths {
		if f := c.files[path]; f.Binary {
			binary = append(binary, f.Classes...)
		} else {
			all = append(all, f.Classes...)
		}
	}
	all = append(all, binary...)
	c.classes = all
	c.generation++
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
	c.rebuildClassesLocked()
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

func (c *Codebase) AllClasses() []*java.ClassModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.classes
}

func (c *Codebase) FindClass(name string) *java.ClassModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return java.NewIndex(c.classes).Find(name)
}

// Snapshot is an immutable code model of the codebase at one generation.
type Snapshot struct {
	*clone.StaticModel
	codebase   *Codebase
	generation uint64
}

func (c *Codebase) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &Snapshot{
		StaticModel: clone.NewStaticModel(java.NewIndex(c.classes), c.markers...),
		codebase:    c,
		generation:  c.generation,
	}
}

func (s *Snapshot) Generation() uint64 {
	return s.generation
}

// Stale reports whether the codebase has changed since the snapshot was taken.
func (s *Snapshot) Stale() bool {
	return s.codebase.Generation() != s.generation
}

// CallAt locates the method call at the 1-based line and column of path.
func (s *Snapshot) CallAt(path string, line, column int) (*source.Call, error) {
	f := s.codebase.GetFile(path)
	if f == nil {
		return nil, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return source.CallAt(f.Content, line, column, s.Index(),
		source.WithFile(path),
		source.WithKnownClasses(s.Index().Classes()),
		source.WithMarkers(s.codebase.markers...),
	)
}

// MethodEdits computes the edits inserting text into receiver without
// applying them.
func (c *Codebase) MethodEdits(receiver *java.ClassModel, text string) (*FileInfo, []source.Edit, error) {
	f := c.GetFile(receiver.SourceFile)
	if f == nil || f.Virtual {
		return nil, nil, fmt.Errorf("%s: %w", receiver.Name, ErrNotInSource)
	}
	edits, err := source.InsertMethod(f.Content, receiver, text, c.indent,
		source.WithKnownClasses(c.AllClasses()),
		source.WithMarkers(c.markers...),
	)
	if err != nil {
		return nil, nil, err
	}
	return f, edits, nil
}

// InsertMethod writes text into the source file declaring receiver and
// rescans it.
func (c *Codebase) InsertMethod(receiver *java.ClassModel, text string) error {
	f, edits, err := c.MethodEdits(receiver, text)
	if err != nil {
		return err
	}
	content := source.ApplyEdits(f.Content, edits)
	info, err := os.Stat(f.Path)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if err := os.WriteFile(f.Path, content, info.Mode().Perm()); err != nil {
		return fmt.Errorf("write source: %w", err)
	}
	log.Infof("inserted method into %s", f.Path)
	return c.UpdateFile(f.Path, content)
}
