// Package config resolves the site's layered configuration: a mandatory
// config.yaml, an optional config.<environment>.yaml overlay and ATOMI__
// prefixed environment variables, merged into one immutable Settings value.
package config

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Node is a value in a configuration tree. It is one of Scalar, List or Map.
type Node interface {
	node()
}

// Scalar is a leaf value. Tag is the YAML core tag ("!!str", "!!int", ...)
// and Value its literal text.
type Scalar struct {
	Tag   string
	Value string
}

// List is a sequence. Lists are atomic under Merge.
type List []Node

// Map is a mapping from keys to nodes. Maps merge recursively.
type Map map[string]Node

func (Scalar) node() {}
func (List) node()   {}
func (Map) node()    {}

// String returns a string scalar.
func String(v string) Scalar {
	return Scalar{Tag: "!!str", Value: v}
}

// Merge overlays src onto dst and returns the result. When both sides are
// maps the merge recurses key by key; in every other case src replaces dst.
// A nil src leaves dst unchanged. Neither argument is modified.
func Merge(dst, src Node) Node {
	if src == nil {
		return dst
	}
	dm, ok := dst.(Map)
	if !ok {
		return src
	}
	sm, ok := src.(Map)
	if !ok {
		return src
	}
	out := make(Map, len(dm)+len(sm))
	for k, v := range dm {
		out[k] = v
	}
	for k, v := range sm {
		if v == nil {
			continue
		}
		out[k] = Merge(dm[k], v)
	}
	return out
}

// Set stores value at path, creating intermediate maps. Blank segments are
// skipped. An existing non-map value on the way is replaced by a map.
func (m Map) Set(path []string, value Node) {
	var keys []string
	for _, p := range path {
		if p != "" {
			keys = append(keys, p)
		}
	}
	if len(keys) == 0 {
		return
	}
	cur := m
	for _, k := range keys[:len(keys)-1] {
		next, ok := cur[k].(Map)
		if !ok {
			next = Map{}
			cur[k] = next
		}
		cur = next
	}
	cur[keys[len(keys)-1]] = value
}

// Lookup walks a dotted path ("theme.blog.tech") and returns the node there.
func Lookup(n Node, path string) (Node, bool) {
	if path == "" {
		return n, n != nil
	}
	for _, k := range strings.Split(path, ".") {
		m, ok := n.(Map)
		if !ok {
			return nil, false
		}
		n, ok = m[k]
		if !ok {
			return nil, false
		}
	}
	return n, true
}

// foldKeys rewrites the keys of src to the spelling used by ref when they
// match case-insensitively. Environment variables arrive lower-cased while
// the YAML files use camelCase keys such as gradientStart.
func foldKeys(src Map, ref Node) Map {
	rm, _ := ref.(Map)
	out := make(Map, len(src))
	for k, v := range src {
		key := k
		for rk := range rm {
			if strings.EqualFold(rk, k) {
				key = rk
				break
			}
		}
		if sub, ok := v.(Map); ok {
			v = foldKeys(sub, rm[key])
		}
		out[key] = v
	}
	return out
}

// Parse decodes a YAML document into a Node. An empty document yields an
// empty Map.
func Parse(data []byte) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return Map{}, nil
	}
	n, err := fromYAML(&doc)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return Map{}, nil
	}
	return n, nil
}

func fromYAML(y *yaml.Node) (Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return nil, nil
		}
		return fromYAML(y.Content[0])
	case yaml.AliasNode:
		return fromYAML(y.Alias)
	case yaml.ScalarNode:
		if y.ShortTag() == "!!null" {
			return nil, nil
		}
		return Scalar{Tag: y.ShortTag(), Value: y.Value}, nil
	case yaml.SequenceNode:
		out := make(List, 0, len(y.Content))
		for _, c := range y.Content {
			n, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			if n == nil {
				n = Scalar{Tag: "!!null", Value: "null"}
			}
			out = append(out, n)
		}
		return out, nil
	case yaml.MappingNode:
		out := make(Map, len(y.Content)/2)
		for i := 0; i+1 < len(y.Content); i += 2 {
			k, v := y.Content[i], y.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: non-scalar mapping key", k.Line)
			}
			if k.Value == "<<" {
				merged, err := fromYAML(v)
				if err != nil {
					return nil, err
				}
				if mm, ok := merged.(Map); ok {
					for mk, mv := range mm {
						if _, set := out[mk]; !set {
							out[mk] = mv
						}
					}
				}
				continue
			}
			n, err := fromYAML(v)
			if err != nil {
				return nil, err
			}
			// null means "no value" and is left out of the tree
			if n == nil {
				continue
			}
			out[k.Value] = n
		}
		return out, nil
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", y.Line, y.Kind)
}

func toYAML(n Node) *yaml.Node {
	switch v := n.(type) {
	case Scalar:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: v.Tag, Value: v.Value}
	case List:
		y := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, c := range v {
			y.Content = append(y.Content, toYAML(c))
		}
		return y
	case Map:
		y := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			y.Content = append(y.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				toYAML(v[k]))
		}
		return y
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

// Decode decodes n into out, which must be a pointer, using yaml struct tags.
func Decode(n Node, out any) error {
	return toYAML(n).Decode(out)
}

// Marshal renders n as a YAML document with sorted keys.
func Marshal(n Node) ([]byte, error) {
	return yaml.Marshal(toYAML(n))
}
