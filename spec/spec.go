package spec

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/erraggy/oasrecord/oaserrors"
	"go.yaml.in/yaml/v4"
)

// Fragment is a JSON-compatible piece of an OpenAPI document.
type Fragment map[string]any

// httpMethods are the operation keys accepted by Path.
var httpMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// Spec is an OpenAPI document under construction.
//
// Concurrency: Spec instances are not safe for concurrent use.
type Spec struct {
	title      string
	apiVersion string
	version    Version
	info       Fragment

	plugins    []Plugin
	components *Components
	paths      map[string]map[string]Fragment
}

// Option configures a Spec.
type Option func(*specConfig)

type specConfig struct {
	plugins []Plugin
	info    Fragment
}

// WithPlugins attaches plugins to the Spec. Plugins are initialized in order.
func WithPlugins(plugins ...Plugin) Option {
	return func(cfg *specConfig) {
		cfg.plugins = append(cfg.plugins, plugins...)
	}
}

// WithInfo merges extra fields (description, contact, license, ...) into the
// info object.
func WithInfo(info Fragment) Option {
	return func(cfg *specConfig) {
		if cfg.info == nil {
			cfg.info = Fragment{}
		}
		maps.Copy(cfg.info, info)
	}
}

// New creates a document titled title, describing API version apiVersion,
// targeting OpenAPI version openapiVersion (for example "2.0" or "3.0.3").
func New(title, apiVersion, openapiVersion string, opts ...Option) (*Spec, error) {
	v, err := ParseVersion(openapiVersion)
	if err != nil {
		return nil, err
	}

	cfg := &specConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Spec{
		title:      title,
		apiVersion: apiVersion,
		version:    v,
		info:       cfg.info,
		paths:      make(map[string]map[string]Fragment),
	}
	s.components = newComponents(s)

	for _, p := range cfg.plugins {
		if err := p.Init(s); err != nil {
			return nil, fmt.Errorf("spec: failed to initialize plugin: %w", err)
		}
		s.plugins = append(s.plugins, p)
	}
	return s, nil
}

// Title returns the document title.
func (s *Spec) Title() string { return s.title }

// Version returns the target OpenAPI version.
func (s *Spec) Version() Version { return s.version }

// Components returns the component sections of the document.
func (s *Spec) Components() *Components { return s.components }

// PathCount returns the number of registered paths.
func (s *Spec) PathCount() int { return len(s.paths) }

// Path adds operations to path. Keys of operations must be lower-case HTTP
// methods. Plugins may rewrite the operations before they are stored; the
// maps passed in are modified in place.
func (s *Spec) Path(path string, operations map[string]Fragment) error {
	if path == "" {
		return &oaserrors.ConfigError{Option: "path", Message: "path must not be empty"}
	}
	for method := range operations {
		if !slices.Contains(httpMethods, method) {
			return &oaserrors.ConfigError{
				Option:  "operation",
				Value:   method,
				Message: fmt.Sprintf("invalid HTTP method on path %s", path),
			}
		}
	}

	for _, p := range s.plugins {
		if err := p.OperationHelper(path, operations); err != nil {
			return fmt.Errorf("spec: path %s: %w", path, err)
		}
	}

	item, ok := s.paths[path]
	if !ok {
		item = make(map[string]Fragment, len(operations))
		s.paths[path] = item
	}
	maps.Copy(item, operations)
	return nil
}

// ToMap returns the document as a JSON-compatible map.
func (s *Spec) ToMap() map[string]any {
	info := Fragment{"title": s.title, "version": s.apiVersion}
	maps.Copy(info, s.info)

	paths := make(map[string]any, len(s.paths))
	for p, ops := range s.paths {
		item := make(map[string]any, len(ops))
		for method, op := range ops {
			item[method] = op
		}
		paths[p] = item
	}

	doc := map[string]any{
		"info":  info,
		"paths": paths,
	}
	components := s.components.toMap(s.version)
	if s.version.IsOAS2() {
		doc["swagger"] = "2.0"
		maps.Copy(doc, components)
	} else {
		doc["openapi"] = s.version.String()
		if len(components) > 0 {
			doc["components"] = components
		}
	}
	return doc
}

// MarshalJSON returns the document as indented JSON bytes.
func (s *Spec) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(s.ToMap(), "", "  ")
}

// MarshalYAML returns the document as YAML bytes.
func (s *Spec) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(s.ToMap())
}

// outputFileMode is the file permission mode for output files (owner read/write only)
const outputFileMode = 0600

// WriteFile writes the document to a file.
// The format is inferred from the file extension (.json for JSON, anything else YAML).
func (s *Spec) WriteFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = s.MarshalJSON()
	default:
		data, err = s.MarshalYAML()
	}
	if err != nil {
		return fmt.Errorf("spec: failed to marshal document: %w", err)
	}

	if err := os.WriteFile(path, data, outputFileMode); err != nil {
		return fmt.Errorf("spec: failed to write file: %w", err)
	}
	return nil
}
