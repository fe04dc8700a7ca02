package pipeclient

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/pipes"
	"github.com/aws/aws-sdk-go-v2/service/pipes/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pipesctl/internal/projection"
)

// bindAll binds every field in the catalog with a value valid for its kind.
func bindAll(fields []projection.Field) *projection.ParameterSet {
	set := projection.NewParameterSet()
	for _, f := range fields {
		switch {
		case len(f.Enum) > 0:
			set.Bind(f.Name, f.Enum[0])
		case f.Kind == projection.KindInt32:
			set.Bind(f.Name, int32(7))
		case f.Kind == projection.KindBool:
			set.Bind(f.Name, true)
		case f.Kind == projection.KindStringList, f.Kind == projection.KindStringArray:
			set.Bind(f.Name, []string{"x"})
		case f.Kind == projection.KindStringMap:
			set.Bind(f.Name, map[string]string{"k": "v"})
		default:
			set.Bind(f.Name, "value")
		}
	}
	return set
}

func decodeAll[T any](t *testing.T, fields []projection.Field) *T {
	t.Helper()
	tree, err := projection.BuildTree(fields)
	require.NoError(t, err)

	req, err := projection.Request[T](tree, bindAll(fields))
	require.NoError(t, err)
	return req
}

func TestCatalogsMatchRequestShapes(t *testing.T) {
	t.Run("ListPipes", func(t *testing.T) {
		req := decodeAll[pipes.ListPipesInput](t, ListPipesFields())
		assert.Equal(t, "value", *req.NamePrefix)
		assert.Equal(t, int32(7), *req.Limit)
		assert.Nil(t, req.NextToken)
	})

	t.Run("DescribePipe", func(t *testing.T) {
		req := decodeAll[pipes.DescribePipeInput](t, NameOnlyFields())
		assert.Equal(t, "value", *req.Name)
	})

	t.Run("StartPipe", func(t *testing.T) { decodeAll[pipes.StartPipeInput](t, NameOnlyFields()) })
	t.Run("StopPipe", func(t *testing.T) { decodeAll[pipes.StopPipeInput](t, NameOnlyFields()) })
	t.Run("DeletePipe", func(t *testing.T) { decodeAll[pipes.DeletePipeInput](t, NameOnlyFields()) })

	t.Run("CreatePipe", func(t *testing.T) {
		req := decodeAll[pipes.CreatePipeInput](t, CreatePipeFields())
		require.NotNil(t, req.SourceParameters)
		require.NotNil(t, req.SourceParameters.FilterCriteria)
		require.Len(t, req.SourceParameters.FilterCriteria.Filters, 1)
		assert.Equal(t, "x", *req.SourceParameters.FilterCriteria.Filters[0].Pattern)
		require.NotNil(t, req.SourceParameters.KinesisStreamParameters)
		assert.NotEmpty(t, req.SourceParameters.KinesisStreamParameters.StartingPosition)
		assert.Equal(t, map[string]string{"k": "v"}, req.Tags)
	})

	t.Run("UpdatePipe", func(t *testing.T) {
		req := decodeAll[pipes.UpdatePipeInput](t, UpdatePipeFields())
		require.NotNil(t, req.SourceParameters)
		require.NotNil(t, req.SourceParameters.SqsQueueParameters)
		assert.Equal(t, int32(7), *req.SourceParameters.SqsQueueParameters.BatchSize)
		require.NotNil(t, req.LogConfiguration)
		assert.NotEmpty(t, req.LogConfiguration.Level)
		require.NotNil(t, req.LogConfiguration.IncludeExecutionData)
		assert.Equal(t, []types.IncludeExecutionDataOption{"x"}, req.LogConfiguration.IncludeExecutionData)
	})

	t.Run("ListTagsForResource", func(t *testing.T) {
		decodeAll[pipes.ListTagsForResourceInput](t, ListTagsFields())
	})
	t.Run("TagResource", func(t *testing.T) {
		decodeAll[pipes.TagResourceInput](t, TagResourceFields())
	})
	t.Run("UntagResource", func(t *testing.T) {
		req := decodeAll[pipes.UntagResourceInput](t, UntagResourceFields())
		assert.Equal(t, []string{"x"}, req.TagKeys)
	})
}

func TestUpdatePipe_OnlyNameAndRole(t *testing.T) {
	fields := UpdatePipeFields()
	tree := projection.MustBuildTree(fields)

	set := projection.NewParameterSet()
	for _, f := range fields {
		set.Declare(f.Name)
	}
	set.Bind("Name", "orders")
	set.Bind("RoleArn", "arn:aws:iam::123456789012:role/pipe")

	req, err := projection.Request[pipes.UpdatePipeInput](tree, set)
	require.NoError(t, err)

	assert.Equal(t, "orders", *req.Name)
	assert.Nil(t, req.Description)
	assert.Nil(t, req.SourceParameters)
	assert.Nil(t, req.TargetParameters)
	assert.Nil(t, req.EnrichmentParameters)
	assert.Nil(t, req.LogConfiguration)
	assert.Empty(t, req.DesiredState)
}

func TestEnumsComeFromSDK(t *testing.T) {
	for _, f := range ListPipesFields() {
		if f.Name == "CurrentState" {
			assert.Contains(t, f.Enum, string(types.PipeStateRunning))
			assert.Contains(t, f.Enum, string(types.PipeStateCreateFailed))
		}
	}
}

func TestRequiredFields(t *testing.T) {
	var names []string
	for _, f := range CreatePipeFields() {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	assert.Equal(t, []string{"Name", "RoleArn", "Source", "Target"}, names)
}
