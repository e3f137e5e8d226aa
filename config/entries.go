package config

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidOverride is returned when a command-line override is not of the form key=value.
var ErrInvalidOverride = errors.New("invalid config override")

// Origin labels for entries that do not come from a file.
const (
	OriginCommandLine = "command line"
)

// Entry is a single key/value pair from a configuration source.
// Keys are dotted paths, e.g. "hook.lint.event".
type Entry struct {
	Key    string
	Value  string
	Origin string
}

// Entries is an ordered snapshot of configuration entries across all sources.
// Entries keep encounter order: sources are appended in load order and, within a
// file, keys appear in document order. The same key may appear more than once.
type Entries struct {
	list []Entry
}

// NewEntries returns an Entries snapshot holding the given entries in order.
func NewEntries(entries ...Entry) *Entries {
	e := &Entries{}
	e.list = append(e.list, entries...)
	return e
}

// Add appends an entry to the end of the snapshot.
func (e *Entries) Add(key, value, origin string) {
	e.list = append(e.list, Entry{Key: key, Value: value, Origin: origin})
}

// ParseOverride parses a "key=value" assignment given on the command line.
// A bare "key" is recorded with the value "true", as git does for -c.
func ParseOverride(assignment string) (Entry, error) {
	key, value, found := strings.Cut(assignment, "=")
	key = strings.TrimSpace(key)
	if key == "" {
		return Entry{}, fmt.Errorf("%w: %q", ErrInvalidOverride, assignment)
	}
	if !found {
		value = "true"
	}
	return Entry{Key: key, Value: value, Origin: OriginCommandLine}, nil
}

// All returns a copy of every entry in order.
func (e *Entries) All() []Entry {
	if e == nil {
		return nil
	}
	out := make([]Entry, len(e.list))
	copy(out, e.list)
	return out
}

// Len returns the number of entries.
func (e *Entries) Len() int {
	if e == nil {
		return 0
	}
	return len(e.list)
}

// Get returns the last value recorded for key.
func (e *Entries) Get(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	for i := len(e.list) - 1; i >= 0; i-- {
		if e.list[i].Key == key {
			return e.list[i].Value, true
		}
	}
	return "", false
}

// ParseEntries flattens a YAML document into dotted-key entries, preserving
// document order. Sequences of scalars produce one entry per item under the
// same key. Empty documents produce no entries.
func ParseEntries(data []byte, origin string) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", origin, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	if root := doc.Content[0]; root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, nil
	}

	var entries []Entry
	if err := flattenNode(doc.Content[0], "", origin, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func flattenNode(node *yaml.Node, prefix, origin string, entries *[]Entry) error {
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return fmt.Errorf("%s:%d: mapping keys must be scalars", origin, keyNode.Line)
			}
			key := keyNode.Value
			if prefix != "" {
				key = prefix + "." + key
			}
			if err := flattenNode(valueNode, key, origin, entries); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("%s:%d: %s: only lists of scalars are supported", origin, item.Line, prefix)
			}
			*entries = append(*entries, Entry{Key: prefix, Value: item.Value, Origin: origin})
		}
	case yaml.ScalarNode:
		if prefix == "" {
			return fmt.Errorf("%s:%d: top-level value must be a mapping", origin, node.Line)
		}
		*entries = append(*entries, Entry{Key: prefix, Value: node.Value, Origin: origin})
	case yaml.AliasNode:
		if node.Alias != nil {
			return flattenNode(node.Alias, prefix, origin, entries)
		}
	case yaml.DocumentNode:
		for _, child := range node.Content {
			if err := flattenNode(child, prefix, origin, entries); err != nil {
				return err
			}
		}
	}
	return nil
}
