package projection

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/sjson"
)

// emptyDocument is the projection of a set with nothing bound.
const emptyDocument = "{}"

// Project walks tree and writes every bound leaf into a JSON document at its
// path. Subtrees with no bound leaf are skipped entirely, so their interior
// objects are never created.
func Project(tree *Node, set *ParameterSet) ([]byte, error) {
	doc := []byte(emptyDocument)

	var walk func(n *Node) error
	walk = func(n *Node) error {
		if n.IsLeaf() {
			var err error
			doc, err = sjson.SetBytes(doc, n.Path, leafValue(n.Field, set))
			if err != nil {
				return fmt.Errorf("projecting %s: %w", n.Field.Name, err)
			}
			return nil
		}
		for _, c := range n.Children {
			if !c.Included(set) {
				continue
			}
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(tree); err != nil {
		return nil, err
	}
	return doc, nil
}

func leafValue(f *Field, set *ParameterSet) any {
	v := set.Value(f.Name)
	list, ok := v.([]string)
	if f.ElementKey == "" || !ok {
		return v
	}

	wrapped := make([]map[string]string, len(list))
	for i, elem := range list {
		wrapped[i] = map[string]string{f.ElementKey: elem}
	}
	return wrapped
}

// Request projects set onto a new request of type T. Document members that T
// does not declare are rejected, which catches catalog paths that drifted from
// the request shape.
func Request[T any](tree *Node, set *ParameterSet) (*T, error) {
	doc, err := Project(tree, set)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.DisallowUnknownFields()

	var req T
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("decoding %T: %w", req, err)
	}
	return &req, nil
}
