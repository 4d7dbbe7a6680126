package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceBuiltin SourceKind = "builtin"
	SourceFile    SourceKind = "file"
)

// Source records where an effective value came from.
type Source struct {
	Kind   SourceKind
	Name   string // builtin layout or "defaults"
	File   string
	Line   int
	Column int
}

func (s Source) position() string {
	return s.File + ":" + strconv.Itoa(s.Line) + ":" + strconv.Itoa(s.Column)
}

type LoadResult struct {
	Config      *Config
	Sources     map[string]Source // dotted YAML path -> file that set it last
	LayoutBases map[string]string // layout name -> builtin it inherits
	Files       []string          // every file read, in merge order
}

func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "deskwm", "config.yaml"), nil
}

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources is Load that also reports where each value came from.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and everything it includes, then builds and
// validates the effective configuration. A missing file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	l := newFileLoader()
	if _, err := os.Stat(path); err == nil {
		if err := l.load(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg, bases, err := BuildEffectiveConfig(l.merged)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, l.locate(err)
	}
	return &LoadResult{
		Config:      cfg,
		Sources:     l.sources,
		LayoutBases: bases,
		Files:       l.files,
	}, nil
}

// fileLoader merges a file with its includes. Includes are applied before
// the file that names them, so the including file wins.
type fileLoader struct {
	merged  RawConfig
	sources map[string]Source
	files   []string
	visited map[string]bool
	chain   []string
}

func newFileLoader() *fileLoader {
	return &fileLoader{
		sources: map[string]Source{},
		visited: map[string]bool{},
	}
}

func (l *fileLoader) load(path string) error {
	name := canonicalPath(path)
	if slices.Contains(l.chain, name) {
		return fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.chain, " -> "), name)
	}
	if l.visited[name] {
		return nil
	}
	l.visited[name] = true

	data, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("%s: failed to read: %w", name, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: failed to parse yaml: %w", name, err)
	}
	var raw RawConfig
	if err := decodeStrict(data, &raw); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	positions := map[string]Source{}
	walkPositions(rootNode(&doc), name, "", positions)

	l.chain = append(l.chain, name)
	for i, inc := range raw.Include {
		at, ok := positions["include["+strconv.Itoa(i)+"]"]
		if !ok {
			at = positions["include"]
		}
		paths, err := expandInclude(name, inc)
		if err != nil {
			return fmt.Errorf("%s: include %q: %w", at.position(), inc, err)
		}
		for _, p := range paths {
			if err := l.load(p); err != nil {
				return err
			}
		}
	}
	l.chain = l.chain[:len(l.chain)-1]

	l.merged = l.merged.merge(raw)
	for k, src := range positions {
		if !strings.HasPrefix(k, "include") {
			l.sources[k] = src
		}
	}
	l.files = append(l.files, name)
	return nil
}

// locate fills in the file position of a validation error's path.
func (l *fileLoader) locate(err error) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := l.sources[verr.Path]; ok {
		verr.Source = src
	}
	return err
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// canonicalPath resolves symlinks when it can and falls back to the
// absolute path.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

// expandInclude resolves an include entry relative to the file naming it.
// A directory expands to its *.yaml and *.yml files in name order.
func expandInclude(from, include string) ([]string, error) {
	if include == "" {
		return nil, fmt.Errorf("path is empty")
	}
	path, err := expandHome(include)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(from), path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, ent := range entries {
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				out = append(out, filepath.Join(path, ent.Name()))
			}
		}
	}
	// os.ReadDir already sorts by name.
	return out, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/")), nil
}

func rootNode(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

// walkPositions records the position of every mapping value under its
// dotted path. Sequence items are recorded as path[i].
func walkPositions(node *yaml.Node, file, prefix string, out map[string]Source) {
	at := func(n *yaml.Node) Source {
		return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
	}
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i].Value, node.Content[i+1]
			if prefix != "" {
				key = prefix + "." + key
			}
			out[key] = at(val)
			walkPositions(val, file, key, out)
		}
	case yaml.SequenceNode:
		for i, item := range node.Content {
			out[prefix+"["+strconv.Itoa(i)+"]"] = at(item)
		}
	}
}
