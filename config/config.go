// Package config loads the per-project .entitygen.yaml file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/entitygen/clone"
)

// FileName is looked up in the project root and its parents.
const FileName = ".entitygen.yaml"

type Config struct {
	// Markers are annotations that make a class rely on generated accessors.
	Markers []string `yaml:"markers,omitempty"`

	// ValueTypes are passed through as values in addition to the built-in ones.
	ValueTypes []string `yaml:"valueTypes,omitempty"`

	LocalVariable string    `yaml:"localVariable,omitempty"`
	Modifiers     []string  `yaml:"modifiers,omitempty"`
	Strict        bool      `yaml:"strict,omitempty"`
	Indent        string    `yaml:"indent,omitempty"`
	Hierarchy     Hierarchy `yaml:"hierarchy,omitempty"`

	// Sources are src.zip or -sources.jar archives whose .java entries are
	// added to the code model, relative to the config file.
	Sources []string `yaml:"sources,omitempty"`

	// Classpath lists compiled dependencies: class directories, jars or
	// single .class files, relative to the config file. Their classes are
	// read-only and supply getters and inherited setters.
	Classpath []string `yaml:"classpath,omitempty"`
}

type Hierarchy struct {
	FailOnUnresolved bool `yaml:"failOnUnresolved,omitempty"`
}

func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

// LoadFile loads and parses a config file from the given path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML data into a Config.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	applyDefaults(&c)
	return &c, nil
}

// Find walks from dir up to the filesystem root and loads the first config
// file it meets. Without one it returns the defaults and an empty path.
func Find(dir string) (*Config, string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", err
	}
	for {
		path := filepath.Join(dir, FileName)
		c, err := LoadFile(path)
		if err == nil {
			return c, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), "", nil
		}
		dir = parent
	}
}

func applyDefaults(c *Config) {
	if len(c.Markers) == 0 {
		c.Markers = append([]string(nil), clone.DefaultMarkers...)
	}
	if c.LocalVariable == "" {
		c.LocalVariable = clone.DefaultStyle.LocalVariable
	}
	if len(c.Modifiers) == 0 {
		c.Modifiers = append([]string(nil), clone.DefaultStyle.Modifiers...)
	}
	if c.Indent == "" {
		c.Indent = "    "
	}
}

// Marshal serializes a Config to YAML.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// EngineOptions translates the file into synthesis options.
func (c *Config) EngineOptions() clone.Options {
	return clone.Options{
		Style: clone.Style{
			Modifiers:     c.Modifiers,
			LocalVariable: c.LocalVariable,
		},
		ValueTypes:            clone.NewValueTypes(c.ValueTypes...),
		FailOnUnresolvedSuper: c.Hierarchy.FailOnUnresolved,
	}
}

// DefaultIntention is the intention used when a host does not let the user pick.
func (c *Config) DefaultIntention() clone.Intention {
	if c.Strict {
		return clone.IntentionMatched
	}
	return clone.IntentionFull
}

// SourcePaths resolves Sources against dir, the directory of the config file.
func (c *Config) SourcePaths(dir string) []string {
	return resolvePaths(dir, c.Sources)
}

// ClasspathPaths resolves Classpath against dir, the directory of the config file.
func (c *Config) ClasspathPaths(dir string) []string {
	return resolvePaths(dir, c.Classpath)
}

func resolvePaths(dir string, entries []string) []string {
	paths := make([]string, 0, len(entries))
	for _, p := range entries {
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		paths = append(paths, p)
	}
	return paths
}
