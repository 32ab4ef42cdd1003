package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/sqlite-vec0/vector"
)

func TestParse(t *testing.T) {
	table, err := Parse("id int primary key, user_id text partition key, embedding float[4] distance_metric=cosine, category text, +title text, chunk_size=8, partition_scan=STRICT")
	require.NoError(t, err)

	require.Equal(t, 5, table.Len())
	assert.Equal(t, []string{"id", "user_id", "embedding", "category", "title"}, names(table))
	assert.Equal(t, []int{2}, table.Indexes(VectorKind))
	assert.Equal(t, []int{1}, table.Indexes(PartitionKeyKind))
	assert.Equal(t, []int{3}, table.Indexes(MetadataKind))
	assert.Equal(t, []int{4}, table.Indexes(AuxiliaryKind))

	pk, ok := table.PrimaryKey()
	require.True(t, ok)
	assert.Equal(t, 0, pk)

	embedding := table.Column(2)
	assert.Equal(t, vector.Float32, embedding.Vector)
	assert.Equal(t, 4, embedding.Dimension)
	assert.Equal(t, vector.Cosine, embedding.Metric)
	assert.Equal(t, "BLOB", embedding.SQLType())

	i, ok := table.Lookup("CATEGORY")
	require.True(t, ok)
	assert.Equal(t, 3, i)
	assert.True(t, table.Column(i).Filterable())
	assert.False(t, table.Column(4).Filterable())
	assert.False(t, embedding.Filterable())

	assert.Equal(t, Options{ChunkSize: 8, PartitionScan: PartitionScanStrict}, table.Options())
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		description string
		body        string
		expectErr   error
	}{
		{description: "empty", body: "", expectErr: ErrEmptyDefinition},
		{description: "blank", body: "   ", expectErr: ErrEmptyDefinition},
		{description: "comma", body: ",", expectErr: ErrMalformedList},
		{description: "trailing comma", body: "a float[4],", expectErr: ErrMalformedList},
		{description: "leading comma", body: ", a float[4]", expectErr: ErrMalformedList},
		{description: "double comma", body: "a float[4],, b float[4]", expectErr: ErrMalformedList},
		{description: "clause error", body: "chunk_size 8, a float[4]", expectErr: ErrMissingEquals},
		{description: "no vector", body: "a float", expectErr: ErrNoVectorColumn},
		{description: "only metadata", body: "id int primary key, category text", expectErr: ErrNoVectorColumn},
		{description: "duplicate", body: "a float[4], A int8[4]", expectErr: ErrDuplicateColumnName},
		{description: "duplicate across kinds", body: "a float[4], +a text", expectErr: ErrDuplicateColumnName},
		{description: "two primary keys", body: "a int primary key, b text primary key, v float[4]", expectErr: ErrMultiplePrimaryKey},
		{description: "reserved", body: "v float[4], distance float", expectErr: ErrReservedColumnName},
		{description: "unknown option", body: "v float[4], foo=1", expectErr: ErrUnknownOption},
		{description: "zero chunk", body: "v float[4], chunk_size=0", expectErr: ErrInvalidOptionValue},
		{description: "huge chunk", body: "v float[4], chunk_size=100000", expectErr: ErrInvalidOptionValue},
		{description: "text chunk", body: "v float[4], chunk_size=big", expectErr: ErrInvalidOptionValue},
		{description: "bad scan", body: "v float[4], partition_scan=some", expectErr: ErrInvalidOptionValue},
		{description: "repeated option", body: "v float[4], chunk_size=8, chunk_size=16", expectErr: ErrDuplicateOption},
	}
	for _, testCase := range testCases {
		table, err := Parse(testCase.body)
		assert.Nil(t, table, testCase.description)
		assert.ErrorIs(t, err, testCase.expectErr, testCase.description)
	}
}

func TestBuild(t *testing.T) {
	table, err := Build(
		VectorColumn{Name: "a", Type: vector.Int8, Dimension: 2, Metric: vector.L1},
		Metadata{Name: "m", Type: Boolean},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	_, ok := table.PrimaryKey()
	assert.False(t, ok)
	assert.Equal(t, Options{}, table.Options())
}

func names(table *Table) []string {
	var ret []string
	for _, c := range table.Columns() {
		ret = append(ret, c.Name)
	}
	return ret
}
