package projection

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/rshade/pipesctl/internal/apierr"
)

type testQueue struct {
	BatchSize *int32
	Window    *int32
}

type testFilter struct {
	Patterns []string
}

type testSource struct {
	Queue  *testQueue
	Filter *testFilter
}

type testRequest struct {
	Name        *string
	Description *string
	State       string
	Enabled     *bool
	Tags        map[string]string
	Source      *testSource
}

func testFields() []Field {
	return []Field{
		{Name: "Name", Flag: "name", Path: "Name", Kind: KindString},
		{Name: "Description", Flag: "description", Path: "Description", Kind: KindString},
		{Name: "State", Flag: "state", Path: "State", Kind: KindString, Enum: []string{"RUNNING", "STOPPED"}},
		{Name: "Enabled", Flag: "enabled", Path: "Enabled", Kind: KindBool},
		{Name: "Tags", Flag: "tags", Path: "Tags", Kind: KindStringMap},
		{Name: "QueueBatchSize", Flag: "queue-batch-size", Path: "Source.Queue.BatchSize", Kind: KindInt32},
		{Name: "QueueWindow", Flag: "queue-window", Path: "Source.Queue.Window", Kind: KindInt32},
		{Name: "FilterPatterns", Flag: "filter-patterns", Path: "Source.Filter.Patterns", Kind: KindStringList},
	}
}

func parseFlags(t *testing.T, args ...string) *ParameterSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, testFields())
	require.NoError(t, fs.Parse(args))
	set, err := FromFlags(fs, testFields())
	require.NoError(t, err)
	return set
}

func TestParameterSet(t *testing.T) {
	set := NewParameterSet()
	set.Declare("A")
	set.Declare("B")
	set.Declare("A")
	set.Bind("C", "")

	assert.Equal(t, []string{"A", "B", "C"}, set.Names())
	assert.Equal(t, 3, set.Len())
	assert.False(t, set.IsBound("A"))
	assert.True(t, set.IsBound("C"), "empty string is still bound")
	assert.Nil(t, set.Value("A"))
	assert.Equal(t, "", set.Value("C"))

	p, ok := set.Lookup("C")
	require.True(t, ok)
	assert.True(t, p.Bound)

	_, ok = set.Lookup("missing")
	assert.False(t, ok)

	set.Bind("A", false)
	assert.Equal(t, []Param{{Name: "A", Value: false, Bound: true}, {Name: "C", Value: "", Bound: true}},
		set.BoundParams())
	assert.Equal(t, map[string]any{"A": false, "C": ""}, set.BoundMap())

	set.Unbind("A")
	assert.False(t, set.IsBound("A"))
}

func TestFromFlags(t *testing.T) {
	t.Run("only changed flags are bound", func(t *testing.T) {
		set := parseFlags(t, "--name", "orders", "--queue-batch-size", "10")

		assert.Equal(t, len(testFields()), set.Len())
		assert.True(t, set.IsBound("Name"))
		assert.True(t, set.IsBound("QueueBatchSize"))
		assert.False(t, set.IsBound("Description"))
		assert.Equal(t, int32(10), set.Value("QueueBatchSize"))
	})

	t.Run("explicit empty and false values are bound", func(t *testing.T) {
		set := parseFlags(t, "--description", "", "--enabled=false")

		assert.True(t, set.IsBound("Description"))
		assert.Equal(t, "", set.Value("Description"))
		assert.True(t, set.IsBound("Enabled"))
		assert.Equal(t, false, set.Value("Enabled"))
	})

	t.Run("collections", func(t *testing.T) {
		set := parseFlags(t, "--tags", "team=data,env=prod", "--filter-patterns", "a,b")

		assert.Equal(t, map[string]string{"team": "data", "env": "prod"}, set.Value("Tags"))
		assert.Equal(t, []string{"a", "b"}, set.Value("FilterPatterns"))
	})

	t.Run("enum violation is a configuration error", func(t *testing.T) {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		BindFlags(fs, testFields())
		require.NoError(t, fs.Parse([]string{"--state", "PAUSED"}))

		_, err := FromFlags(fs, testFields())
		require.Error(t, err)
		assert.True(t, apierr.IsConfiguration(err))
		assert.Contains(t, err.Error(), "RUNNING, STOPPED")
	})

	t.Run("unregistered flag", func(t *testing.T) {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		_, err := FromFlags(fs, testFields())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--name")
	})
}

func TestBuildTree(t *testing.T) {
	tree, err := BuildTree(testFields())
	require.NoError(t, err)

	source := tree.Find("Source")
	require.NotNil(t, source)
	assert.False(t, source.IsLeaf())
	assert.Len(t, source.Children, 2)

	leaf := tree.Find("Source.Queue.Window")
	require.NotNil(t, leaf)
	assert.Equal(t, "QueueWindow", leaf.Field.Name)

	var paths []string
	for _, n := range tree.Interior() {
		paths = append(paths, n.Path)
	}
	assert.Equal(t, []string{"Source", "Source.Queue", "Source.Filter"}, paths)

	tests := []struct {
		name    string
		fields  []Field
		wantErr error
	}{
		{
			name:    "empty path",
			fields:  []Field{{Name: "A", Path: ""}},
			wantErr: ErrEmptyPath,
		},
		{
			name:    "duplicate parameter",
			fields:  []Field{{Name: "A", Path: "A"}, {Name: "A", Path: "B"}},
			wantErr: ErrDuplicateField,
		},
		{
			name:    "duplicate path",
			fields:  []Field{{Name: "A", Path: "X.Y"}, {Name: "B", Path: "X.Y"}},
			wantErr: ErrDuplicateField,
		},
		{
			name:    "leaf under leaf",
			fields:  []Field{{Name: "A", Path: "X"}, {Name: "B", Path: "X.Y"}},
			wantErr: ErrPathCollision,
		},
		{
			name:    "leaf over interior",
			fields:  []Field{{Name: "A", Path: "X.Y"}, {Name: "B", Path: "X"}},
			wantErr: ErrPathCollision,
		},
		{
			name:    "numeric segment",
			fields:  []Field{{Name: "A", Path: "X.0"}},
			wantErr: ErrInvalidPathKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTree(tt.fields)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Panics(t, func() { MustBuildTree([]Field{{Name: "A"}}) })
}

func TestProject(t *testing.T) {
	tree := MustBuildTree(testFields())

	t.Run("nothing bound", func(t *testing.T) {
		doc, err := Project(tree, parseFlags(t))
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(doc))
	})

	t.Run("only the bound top-level field", func(t *testing.T) {
		doc, err := Project(tree, parseFlags(t, "--name", "ABC"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"Name":"ABC"}`, string(doc))
	})

	t.Run("sibling subtree stays absent", func(t *testing.T) {
		doc, err := Project(tree, parseFlags(t, "--queue-window", "5"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"Source":{"Queue":{"Window":5}}}`, string(doc))
		assert.False(t, gjson.GetBytes(doc, "Source.Filter").Exists())
	})

	t.Run("list elements wrapped in objects", func(t *testing.T) {
		wrapped := MustBuildTree([]Field{
			{Name: "Patterns", Flag: "patterns", Path: "Filter.Filters", Kind: KindStringArray, ElementKey: "Pattern"},
		})
		set := NewParameterSet()
		set.Bind("Patterns", []string{`{"a":[1]}`, `{"b":[2]}`})

		doc, err := Project(wrapped, set)
		require.NoError(t, err)
		assert.JSONEq(t, `{"Filter":{"Filters":[{"Pattern":"{\"a\":[1]}"},{"Pattern":"{\"b\":[2]}"}]}}`, string(doc))
	})

	t.Run("empty string preserved", func(t *testing.T) {
		doc, err := Project(tree, parseFlags(t, "--description="))
		require.NoError(t, err)
		assert.JSONEq(t, `{"Description":""}`, string(doc))
	})
}

func TestRequest(t *testing.T) {
	tree := MustBuildTree(testFields())

	t.Run("sparse typed request", func(t *testing.T) {
		req, err := Request[testRequest](tree, parseFlags(t,
			"--name", "orders", "--queue-batch-size", "10", "--description", ""))
		require.NoError(t, err)

		require.NotNil(t, req.Name)
		assert.Equal(t, "orders", *req.Name)
		require.NotNil(t, req.Description)
		assert.Equal(t, "", *req.Description)
		assert.Nil(t, req.Enabled)
		assert.Nil(t, req.Tags)
		require.NotNil(t, req.Source)
		require.NotNil(t, req.Source.Queue)
		assert.Equal(t, int32(10), *req.Source.Queue.BatchSize)
		assert.Nil(t, req.Source.Queue.Window)
		assert.Nil(t, req.Source.Filter, "unbound nested structure must be absent")
	})

	t.Run("nothing bound yields zero request", func(t *testing.T) {
		req, err := Request[testRequest](tree, parseFlags(t))
		require.NoError(t, err)
		assert.Equal(t, testRequest{}, *req)
	})

	t.Run("catalog path unknown to request type", func(t *testing.T) {
		bad := MustBuildTree([]Field{{Name: "Bogus", Flag: "bogus", Path: "Bogus", Kind: KindString}})
		set := NewParameterSet()
		set.Bind("Bogus", "x")

		_, err := Request[testRequest](bad, set)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Bogus")
	})
}
