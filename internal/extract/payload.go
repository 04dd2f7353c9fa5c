package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrShapeMismatch is matched by every error caused by a payload that does
// not have the expected structure
var ErrShapeMismatch = errors.New("unexpected payload shape")

// ShapeError reports where a strict lookup failed
type ShapeError struct {
	Path   string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s at %s", ErrShapeMismatch, e.Reason, e.Path)
}

func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// node is a decoded JSON value together with the path it was reached by
type node struct {
	value any
	path  string
}

func decode(payload []byte) (node, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return node{}, fmt.Errorf("failed to decode payload: %w", err)
	}

	return node{value: value, path: "$"}, nil
}

// lookup walks object keys (string steps) and array indexes (int steps)
func (n node) lookup(steps ...any) (node, error) {
	current := n
	for _, step := range steps {
		switch s := step.(type) {
		case string:
			object, err := current.object()
			if err != nil {
				return node{}, err
			}
			value, ok := object[s]
			if !ok {
				return node{}, &ShapeError{Path: current.path + "." + s, Reason: "missing key"}
			}
			current = node{value: value, path: current.path + "." + s}
		case int:
			array, err := current.array()
			if err != nil {
				return node{}, err
			}
			path := current.path + "[" + strconv.Itoa(s) + "]"
			if s < 0 || s >= len(array) {
				return node{}, &ShapeError{Path: path, Reason: "index out of range"}
			}
			current = array[s]
		default:
			return node{}, fmt.Errorf("unsupported lookup step %T", step)
		}
	}
	return current, nil
}

func (n node) object() (map[string]any, error) {
	object, ok := n.value.(map[string]any)
	if !ok {
		return nil, &ShapeError{Path: n.path, Reason: fmt.Sprintf("expected object, got %s", kind(n.value))}
	}
	return object, nil
}

func (n node) array() ([]node, error) {
	values, ok := n.value.([]any)
	if !ok {
		return nil, &ShapeError{Path: n.path, Reason: fmt.Sprintf("expected array, got %s", kind(n.value))}
	}

	nodes := make([]node, len(values))
	for i, value := range values {
		nodes[i] = node{value: value, path: n.path + "[" + strconv.Itoa(i) + "]"}
	}
	return nodes, nil
}

func (n node) str() (string, error) {
	s, ok := n.value.(string)
	if !ok {
		return "", &ShapeError{Path: n.path, Reason: fmt.Sprintf("expected string, got %s", kind(n.value))}
	}
	return s, nil
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "bool"
	default:
		return fmt.Sprintf("%T", v)
	}
}
