package config

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned by Get and Set for keys the configuration lacks.
var ErrUnknownKey = errors.New("unknown configuration key")

// toTree renders c as a generic YAML tree.
func (c *Config) toTree() (map[string]any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err = yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// Get returns the value at a dotted key such as "output.default_format".
func (c *Config) Get(key string) (any, error) {
	tree, err := c.toTree()
	if err != nil {
		return nil, err
	}

	var cur any = tree
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		if cur, ok = m[part]; !ok {
			if !c.isKnownKey(key) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
			}
			return "", nil
		}
	}
	return cur, nil
}

// Set assigns value, parsed as a YAML scalar, at a dotted key. The result is
// decoded with unknown fields rejected and then validated; c is unchanged on
// error.
func (c *Config) Set(key, value string) error {
	if !c.isKnownKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	tree, err := c.toTree()
	if err != nil {
		return err
	}

	var scalar any
	if err = yaml.Unmarshal([]byte(value), &scalar); err != nil || scalar == nil {
		scalar = value
	}

	parts := strings.Split(key, ".")
	m := tree
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = scalar

	data, err := yaml.Marshal(tree)
	if err != nil {
		return err
	}

	updated := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(updated); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	if err = updated.Validate(); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	updated.configPath = c.configPath
	*c = *updated
	return nil
}

// Keys returns every settable dotted key, sorted.
func (c *Config) Keys() []string {
	var keys []string
	collectKeys(Default(), "", &keys)
	sort.Strings(keys)
	return keys
}

// List returns every key with its current value.
func (c *Config) List() (map[string]any, error) {
	out := make(map[string]any)
	for _, k := range c.Keys() {
		v, err := c.Get(k)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (c *Config) isKnownKey(key string) bool {
	for _, k := range c.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// collectKeys walks the yaml tags of v's struct type, so keys whose values
// are empty or omitted still appear.
func collectKeys(v any, prefix string, keys *[]string) {
	walkType(reflect.TypeOf(v), prefix, keys)
}

func walkType(t reflect.Type, prefix string, keys *[]string) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		if prefix != "" {
			*keys = append(*keys, prefix)
		}
		return
	}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		walkType(f.Type, name, keys)
	}
}
