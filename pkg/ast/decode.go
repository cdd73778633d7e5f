package ast

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-json"
)

// Decode builds a tree from parser JSON. Two node encodings are accepted and
// may be mixed:
//
//	["send", null, "belongs_to", ["sym", "author"]]
//	{"type": "send", "children": [null, "belongs_to", ...], "loc": {"line": 3, "column": 2}}
//
// The array form is what `ruby-parse --emit-json` prints; the object form
// additionally carries positions. Trailing keyword arguments appear as
// "kwargs" nodes with parser 3.x and as "hash" nodes in legacy mode; both are
// read as options. A JSON null document decodes to a nil tree.
func Decode(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode AST JSON: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	return buildNode(raw, "$")
}

// ParseFile reads and decodes an AST JSON file.
func ParseFile(path string) (*Node, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the caller's file list
	if err != nil {
		return nil, fmt.Errorf("failed to read AST file %s: %w", path, err)
	}
	root, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

func buildNode(raw any, at string) (*Node, error) {
	switch v := raw.(type) {
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("empty node at %s", at)
		}
		typ, ok := v[0].(string)
		if !ok || typ == "" {
			return nil, fmt.Errorf("node at %s has no type tag", at)
		}
		elems, err := buildElems(v[1:], at)
		if err != nil {
			return nil, err
		}
		return NewNode(NodeType(typ), elems...), nil

	case map[string]any:
		typ, ok := v["type"].(string)
		if !ok || typ == "" {
			return nil, fmt.Errorf("node at %s has no type tag", at)
		}
		var children []any
		if c, ok := v["children"]; ok && c != nil {
			if children, ok = c.([]any); !ok {
				return nil, fmt.Errorf("children of node at %s is not an array", at)
			}
		}
		elems, err := buildElems(children, at)
		if err != nil {
			return nil, err
		}
		n := NewNode(NodeType(typ), elems...)
		if loc, ok := v["loc"].(map[string]any); ok {
			n.pos = Position{Line: intOf(loc["line"]), Column: intOf(loc["column"])}
		}
		return n, nil

	default:
		return nil, fmt.Errorf("expected node at %s, got %T", at, raw)
	}
}

func buildElems(raw []any, at string) ([]any, error) {
	elems := make([]any, len(raw))
	for i, r := range raw {
		path := at + "[" + strconv.Itoa(i+1) + "]"
		switch v := r.(type) {
		case []any, map[string]any:
			child, err := buildNode(v, path)
			if err != nil {
				return nil, err
			}
			elems[i] = child
		case json.Number:
			if n, err := v.Int64(); err == nil {
				elems[i] = n
			} else if f, err := v.Float64(); err == nil {
				elems[i] = f
			} else {
				return nil, fmt.Errorf("invalid number %q at %s", v, path)
			}
		case string, bool, nil:
			elems[i] = v
		default:
			return nil, fmt.Errorf("unsupported element %T at %s", r, path)
		}
	}
	return elems, nil
}

func intOf(v any) int {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	}
	return 0
}

func formatScalar(v any) string {
	switch s := v.(type) {
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(s)
	}
}
