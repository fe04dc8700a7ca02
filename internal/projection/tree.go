package projection

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Tree construction errors.
var (
	ErrEmptyPath      = errors.New("field path cannot be empty")
	ErrInvalidPathKey = errors.New("invalid field path segment")
	ErrDuplicateField = errors.New("duplicate field")
	ErrPathCollision  = errors.New("field path collides with a nested structure")
)

// Node is one member of the request shape. Leaves carry a Field; interior
// nodes only carry children.
type Node struct {
	Key      string
	Path     string
	Field    *Field
	Children []*Node
}

// IsLeaf reports whether n is bound to a field.
func (n *Node) IsLeaf() bool {
	return n.Field != nil
}

func (n *Node) child(key string) *Node {
	for _, c := range n.Children {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// Find returns the node at the dotted path, or nil.
func (n *Node) Find(path string) *Node {
	cur := n
	for _, key := range strings.Split(path, ".") {
		cur = cur.child(key)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Included reports whether n would appear in the projected request: a leaf
// iff its parameter is bound, an interior node iff any descendant is.
func (n *Node) Included(set *ParameterSet) bool {
	if n.IsLeaf() {
		return set.IsBound(n.Field.Name)
	}
	for _, c := range n.Children {
		if c.Included(set) {
			return true
		}
	}
	return false
}

// Interior returns every interior node below n, depth first.
func (n *Node) Interior() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if !c.IsLeaf() {
			out = append(out, c)
			out = append(out, c.Interior()...)
		}
	}
	return out
}

// BuildTree builds the request shape from a field catalog. Fields keep their
// catalog order among siblings.
func BuildTree(fields []Field) (*Node, error) {
	root := &Node{}
	names := make(map[string]bool, len(fields))

	for i := range fields {
		f := fields[i]
		if names[f.Name] {
			return nil, fmt.Errorf("%w: parameter %s", ErrDuplicateField, f.Name)
		}
		names[f.Name] = true

		if f.Path == "" {
			return nil, fmt.Errorf("%w: parameter %s", ErrEmptyPath, f.Name)
		}

		keys := strings.Split(f.Path, ".")
		cur := root
		for depth, key := range keys {
			if !validKey(key) {
				return nil, fmt.Errorf("%w %q in %s", ErrInvalidPathKey, key, f.Path)
			}

			path := strings.Join(keys[:depth+1], ".")
			next := cur.child(key)
			last := depth == len(keys)-1

			switch {
			case next == nil && last:
				next = &Node{Key: key, Path: path, Field: &f}
				cur.Children = append(cur.Children, next)
			case next == nil:
				next = &Node{Key: key, Path: path}
				cur.Children = append(cur.Children, next)
			case last && next.IsLeaf():
				return nil, fmt.Errorf("%w: path %s", ErrDuplicateField, f.Path)
			case last || next.IsLeaf():
				return nil, fmt.Errorf("%w: %s", ErrPathCollision, path)
			}
			cur = next
		}
	}

	return root, nil
}

// MustBuildTree is BuildTree for static catalogs; it panics on error.
func MustBuildTree(fields []Field) *Node {
	root, err := BuildTree(fields)
	if err != nil {
		panic(fmt.Sprintf("projection: %v", err))
	}
	return root
}

// validKey accepts identifier-like segments so that no segment is read as an
// array index or a path modifier.
func validKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		if i == 0 && !unicode.IsLetter(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
