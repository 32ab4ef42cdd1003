package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/sqlite-vec0/schema"
	"github.com/viant/sqlite-vec0/vector"
)

func newStore(t *testing.T, body string) *Store {
	t.Helper()
	table, err := schema.Parse(body)
	require.NoError(t, err)
	s, err := New(table, DefaultConfig())
	require.NoError(t, err)
	return s
}

func TestStore_InsertChunks(t *testing.T) {
	s := newStore(t, "embedding float[2], category text, chunk_size=4")
	for i := 0; i < 10; i++ {
		rowid, err := s.Insert([]any{[]float32{float32(i), 0}, "c"})
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), rowid)
	}
	assert.Equal(t, Stats{Rows: 10, Chunks: 3, Partitions: 1, ChunkSize: 4}, s.Stats())

	chunks := s.Chunks()
	require.Len(t, chunks, 3)
	assert.True(t, chunks[0].Full())
	assert.Equal(t, 2, chunks[2].Filled())

	loc, ok := s.Lookup(7)
	require.True(t, ok)
	assert.Equal(t, 1, loc.Chunk.ID())
	assert.Equal(t, 2, loc.Slot)
	assert.Equal(t, "[6,0]", vector.JSON(s.Value(loc, 0).(vector.Vector)))
	assert.Equal(t, "c", s.Value(loc, 1))
}

func TestStore_InsertValidation(t *testing.T) {
	s := newStore(t, "id text primary key, embedding float[2], +note text")

	require.NoError(t, s.InsertWithRowid(0, []any{"a", "[1, 2]", "first"}))

	err := s.InsertWithRowid(1, []any{"b", "[1, 2, 3]", nil})
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)

	err = s.InsertWithRowid(0, []any{"c", "[1, 2]", nil})
	assert.ErrorIs(t, err, ErrDuplicateRowid)

	err = s.InsertWithRowid(2, []any{"a", "[1, 2]", nil})
	assert.ErrorIs(t, err, ErrDuplicatePrimaryKey)

	err = s.InsertWithRowid(3, []any{nil, "[1, 2]", nil})
	assert.ErrorIs(t, err, ErrInvalidValue)

	err = s.InsertWithRowid(4, []any{"d", nil, nil})
	assert.ErrorIs(t, err, ErrInvalidValue)

	err = s.InsertWithRowid(5, []any{"e", "[1, 2]"})
	assert.ErrorIs(t, err, ErrInvalidValue)

	// failed inserts leave nothing behind
	assert.Equal(t, Stats{Rows: 1, Chunks: 1, Partitions: 1, ChunkSize: DefaultChunkSize}, s.Stats())

	row, err := s.Row(0)
	require.NoError(t, err)
	assert.Equal(t, "a", row[0])
	assert.Equal(t, "first", row[2])

	rowid, ok := s.RowidByKey("a")
	require.True(t, ok)
	assert.Equal(t, int64(0), rowid)

	next, err := s.Insert([]any{"z", "[0, 0]", nil})
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
}

func TestStore_DeleteUpdate(t *testing.T) {
	s := newStore(t, "user text partition key, embedding float[2], score float, chunk_size=2")
	require.NoError(t, s.InsertWithRowid(1, []any{"u1", "[1, 1]", 0.5}))
	require.NoError(t, s.InsertWithRowid(2, []any{"u1", "[2, 2]", 1.5}))
	require.NoError(t, s.InsertWithRowid(3, []any{"u2", "[3, 3]", int64(2)}))

	require.NoError(t, s.Delete(1))
	assert.ErrorIs(t, s.Delete(1), ErrRowNotFound)
	_, ok := s.Lookup(1)
	assert.False(t, ok)

	first := s.Chunks()[0]
	assert.False(t, first.Valid(0))
	assert.True(t, first.Valid(1))
	assert.Equal(t, 1, first.Live())

	// same partition: rewritten in place
	loc, _ := s.Lookup(2)
	require.NoError(t, s.Update(2, 2, []any{"u1", "[9, 9]", 9.0}))
	moved, _ := s.Lookup(2)
	assert.Equal(t, loc, moved)
	assert.Equal(t, 9.0, s.Value(moved, 2))

	// partition change: relocated, rowid kept
	require.NoError(t, s.Update(2, 2, []any{"u2", "[9, 9]", 9.0}))
	moved, _ = s.Lookup(2)
	assert.Equal(t, "u2", moved.Chunk.PartitionValues()[0])
	assert.Equal(t, float64(2), s.Value(mustLookup(t, s, 3), 2))

	assert.ErrorIs(t, s.Update(42, 42, []any{"u1", "[1, 1]", nil}), ErrRowNotFound)
	assert.ErrorIs(t, s.Update(2, 3, []any{"u1", "[1, 1]", nil}), ErrDuplicateRowid)

	stats := s.Stats()
	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, 2, stats.Deleted)
	assert.Equal(t, 2, stats.Partitions)
}

func TestStore_ActiveChunks(t *testing.T) {
	s := newStore(t, "tenant int partition key, region text partition key, embedding float[1], chunk_size=1")
	require.NoError(t, s.InsertWithRowid(1, []any{int64(1), "eu", "[1]"}))
	require.NoError(t, s.InsertWithRowid(2, []any{int64(1), "us", "[2]"}))
	require.NoError(t, s.InsertWithRowid(3, []any{int64(2), "eu", "[3]"}))
	require.NoError(t, s.InsertWithRowid(4, []any{int64(1), "eu", "[4]"}))

	rowids := func(chunks []*Chunk) []int64 {
		var ret []int64
		for _, c := range chunks {
			c.ForEach(func(_ int, rowid int64) bool {
				ret = append(ret, rowid)
				return true
			})
		}
		return ret
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, rowids(s.ActiveChunks(nil)))
	assert.Equal(t, []int64{1, 2, 4}, rowids(s.ActiveChunks(map[int]any{0: int64(1)})))
	assert.Equal(t, []int64{1, 3, 4}, rowids(s.ActiveChunks(map[int]any{1: "eu"})))
	assert.Equal(t, []int64{1, 4}, rowids(s.ActiveChunks(map[int]any{0: int64(1), 1: "eu"})))
	assert.Empty(t, rowids(s.ActiveChunks(map[int]any{0: int64(3)})))
}

func TestCoerce(t *testing.T) {
	testCases := []struct {
		description string
		column      schema.Column
		value       any
		expect      any
		expectErr   bool
	}{
		{description: "int", column: schema.Column{Name: "a", Type: schema.Integer}, value: int64(3), expect: int64(3)},
		{description: "int from float", column: schema.Column{Name: "a", Type: schema.Integer}, value: 3.0, expect: int64(3)},
		{description: "int from float at 2^63", column: schema.Column{Name: "a", Type: schema.Integer}, value: float64(1 << 63), expectErr: true},
		{description: "int from float at -2^63", column: schema.Column{Name: "a", Type: schema.Integer}, value: float64(-1 << 63), expect: int64(-1 << 63)},
		{description: "int from fraction", column: schema.Column{Name: "a", Type: schema.Integer}, value: 3.5, expectErr: true},
		{description: "float from int", column: schema.Column{Name: "a", Type: schema.Float}, value: int64(2), expect: 2.0},
		{description: "bool from int", column: schema.Column{Name: "a", Type: schema.Boolean}, value: int64(1), expect: true},
		{description: "bool out of range", column: schema.Column{Name: "a", Type: schema.Boolean}, value: int64(2), expectErr: true},
		{description: "text from bytes", column: schema.Column{Name: "a", Type: schema.Text}, value: []byte("x"), expect: "x"},
		{description: "text from int", column: schema.Column{Name: "a", Type: schema.Text}, value: int64(1), expectErr: true},
		{description: "blob", column: schema.Column{Name: "a", Type: schema.Blob}, value: []byte{1}, expect: []byte{1}},
		{description: "null", column: schema.Column{Name: "a", Type: schema.Text}, value: nil, expect: nil},
	}
	for _, testCase := range testCases {
		actual, err := Coerce(testCase.column, testCase.value)
		if testCase.expectErr {
			assert.ErrorIs(t, err, ErrInvalidValue, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vec0.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunkSize: 16\npartitionScan: strict\n"), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Config{ChunkSize: 16, PartitionScan: schema.PartitionScanStrict}, cfg)

	partial := filepath.Join(dir, "partial.yaml")
	require.NoError(t, os.WriteFile(partial, []byte("chunkSize: 8\n"), 0o644))
	cfg, err = LoadConfig(partial)
	require.NoError(t, err)
	assert.Equal(t, Config{ChunkSize: 8, PartitionScan: schema.PartitionScanAll}, cfg)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("chunkSize: -1\n"), 0o644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	assert.Equal(t, Config{ChunkSize: 4, PartitionScan: schema.PartitionScanAll},
		DefaultConfig().WithOptions(schema.Options{ChunkSize: 4}))
}

func mustLookup(t *testing.T, s *Store, rowid int64) Location {
	t.Helper()
	loc, ok := s.Lookup(rowid)
	require.True(t, ok)
	return loc
}
