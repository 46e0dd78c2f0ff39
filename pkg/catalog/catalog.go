// Package catalog holds the node-type catalog: which node types exist and which
// output ports each type must wire. The catalog is data, so adding a node type
// is a change to the catalog file rather than to the validator.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/dukex/ddd-validator/pkg/models"
	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

var (
	ErrEmptyType     = errors.New("catalog entry has no type")
	ErrDuplicateType = errors.New("node type declared twice")
	ErrUnknownParent = errors.New("node type extends an unknown type")
	ErrExtendsCycle  = errors.New("cycle in node type table")
)

// Entry is one node type as written in the catalog file.
type Entry struct {
	Type        models.NodeType `json:"type"                  yaml:"type"`
	Ports       []string        `json:"ports"                 yaml:"ports"`
	Dynamic     bool            `json:"dynamic,omitempty"     yaml:"dynamic,omitempty"`
	Extends     models.NodeType `json:"extends,omitempty"     yaml:"extends,omitempty"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
}

// File is the on-disk catalog format.
type File struct {
	NodeTypes    []Entry  `yaml:"nodeTypes"`
	TriggerKinds []string `yaml:"triggerKinds"`
}

// Catalog is a resolved, read-only node-type table. Safe for concurrent use.
type Catalog struct {
	entries      map[models.NodeType]Entry
	types        []models.NodeType
	triggerKinds []string
}

// Default returns the catalog shipped with the validator.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// MustDefault is Default for callers that treat a broken embedded catalog as a bug.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Errorf("embedded catalog: %w", err))
	}

	return c
}

// Load reads a catalog file from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	return c, nil
}

// Parse decodes a catalog from YAML and resolves `extends` chains.
func Parse(data []byte) (*Catalog, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	return New(file)
}

// New builds a catalog from already decoded entries.
func New(file File) (*Catalog, error) {
	raw := make(map[models.NodeType]Entry, len(file.NodeTypes))

	for _, entry := range file.NodeTypes {
		if entry.Type == "" {
			return nil, ErrEmptyType
		}

		if _, exists := raw[entry.Type]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateType, entry.Type)
		}

		raw[entry.Type] = entry
	}

	resolved := make(map[models.NodeType]Entry, len(raw))
	visiting := make(map[models.NodeType]bool)

	var resolve func(t models.NodeType, chain []models.NodeType) (Entry, error)
	resolve = func(t models.NodeType, chain []models.NodeType) (Entry, error) {
		if entry, ok := resolved[t]; ok {
			return entry, nil
		}

		if visiting[t] {
			return Entry{}, fmt.Errorf("%w: %s", ErrExtendsCycle, joinTypes(append(chain, t)))
		}

		entry := raw[t]
		if entry.Extends == "" {
			entry.Ports = dedupe(entry.Ports)
			resolved[t] = entry

			return entry, nil
		}

		if _, ok := raw[entry.Extends]; !ok {
			return Entry{}, fmt.Errorf("%w: %s extends %s", ErrUnknownParent, t, entry.Extends)
		}

		visiting[t] = true

		parent, err := resolve(entry.Extends, append(chain, t))
		if err != nil {
			return Entry{}, err
		}

		delete(visiting, t)

		entry.Ports = dedupe(append(slices.Clone(parent.Ports), entry.Ports...))
		entry.Dynamic = entry.Dynamic || parent.Dynamic
		resolved[t] = entry

		return entry, nil
	}

	types := make([]models.NodeType, 0, len(raw))

	for t := range raw {
		if _, err := resolve(t, nil); err != nil {
			return nil, err
		}

		types = append(types, t)
	}

	slices.Sort(types)

	kinds := make([]string, 0, len(file.TriggerKinds))
	for _, kind := range file.TriggerKinds {
		kinds = append(kinds, strings.ToLower(strings.TrimSpace(kind)))
	}

	kinds = dedupe(kinds)
	slices.Sort(kinds)

	return &Catalog{
		entries:      resolved,
		types:        types,
		triggerKinds: kinds,
	}, nil
}

// Has reports whether the node type is in the catalog.
func (c *Catalog) Has(t models.NodeType) bool {
	_, ok := c.entries[t]

	return ok
}

// Ports returns the static contract ports of a node type, inherited ports first.
func (c *Catalog) Ports(t models.NodeType) []string {
	return slices.Clone(c.entries[t].Ports)
}

// IsDynamic reports whether nodes of this type may declare extra ports in their spec.
func (c *Catalog) IsDynamic(t models.NodeType) bool {
	return c.entries[t].Dynamic
}

// Entry returns the resolved entry for a node type.
func (c *Catalog) Entry(t models.NodeType) (Entry, bool) {
	entry, ok := c.entries[t]
	if !ok {
		return Entry{}, false
	}

	entry.Ports = slices.Clone(entry.Ports)

	return entry, true
}

// Entries returns every resolved entry sorted by type.
func (c *Catalog) Entries() []Entry {
	entries := make([]Entry, 0, len(c.types))
	for _, t := range c.types {
		entry, _ := c.Entry(t)
		entries = append(entries, entry)
	}

	return entries
}

// NodeTypes returns the catalog's node types sorted by name.
func (c *Catalog) NodeTypes() []models.NodeType {
	return slices.Clone(c.types)
}

// Size is the number of node types in the catalog.
func (c *Catalog) Size() int {
	return len(c.types)
}

// TriggerKinds returns the known trigger kinds, lowercased and sorted.
func (c *Catalog) TriggerKinds() []string {
	return slices.Clone(c.triggerKinds)
}

// HasTriggerKind reports whether a trigger kind is known, ignoring case.
func (c *Catalog) HasTriggerKind(kind string) bool {
	_, found := slices.BinarySearch(c.triggerKinds, strings.ToLower(strings.TrimSpace(kind)))

	return found
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))

	for _, v := range values {
		if seen[v] {
			continue
		}

		seen[v] = true
		out = append(out, v)
	}

	return out
}

func joinTypes(types []models.NodeType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}

	return strings.Join(parts, " -> ")
}
