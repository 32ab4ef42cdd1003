package vecutil

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sqlite-vec0/engine"
	"github.com/viant/sqlite-vec0/vec0"
	"github.com/viant/sqlite-vec0/vector"
)

// keywordEmbed maps text onto a 3-dimensional bag of words.
func keywordEmbed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 3)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		switch word {
		case "apple":
			vec[0]++
		case "banana":
			vec[1]++
		case "car":
			vec[2]++
		}
	}
	return vec, nil
}

func TestIndex_QueryText(t *testing.T) {
	ctx := context.Background()
	db, err := engine.Open(filepath.Join(t.TempDir(), "vecutil.sqlite"))
	if err != nil {
		t.Fatalf("engine.Open failed: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)
	if err := vec0.Register(db); err != nil {
		t.Fatalf("vec0.Register failed: %v", err)
	}
	if _, err := db.Exec(DocumentTableSQL("docs", 3, vector.Cosine)); err != nil {
		if strings.Contains(err.Error(), "no such module") {
			t.Skipf("skipping: vec0 vtab not available (%v)", err)
		}
		t.Fatalf("create docs failed: %v", err)
	}

	ix, err := NewIndex(db, "docs", keywordEmbed)
	require.NoError(t, err)
	require.NoError(t, ix.UpsertDocumentsText(ctx, []Document{
		{ID: "a", Content: "apple pie", Meta: `{"kind":"food"}`},
		{ID: "b", Content: "apple banana smoothie"},
		{ID: "c", Content: "red car"},
	}))

	matches, err := ix.QueryText(ctx, "apple", 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "b", matches[1].ID)
	assert.Equal(t, `{"kind":"food"}`, matches[0].Meta)
	assert.Equal(t, "apple pie", matches[0].Content)
	if math.Abs(matches[0].Score-1) > 1e-6 || math.Abs(matches[0].Distance) > 1e-6 {
		t.Fatalf("unexpected top match: %+v", matches[0])
	}
	if math.Abs(matches[1].Distance-(1-1/math.Sqrt2)) > 1e-6 {
		t.Fatalf("unexpected second distance: %v", matches[1].Distance)
	}

	// Upserting an existing id replaces the row.
	require.NoError(t, UpsertDocument(ctx, db, "docs", keywordEmbed, "c", "banana bread", ""))
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM docs`).Scan(&count))
	assert.Equal(t, 3, count)

	ids, err := MatchText(ctx, db, "docs", keywordEmbed, "banana", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids)

	require.NoError(t, ix.DeleteDocuments(ctx, []string{"c"}))
	ids, err = MatchText(ctx, db, "docs", keywordEmbed, "banana", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}

func TestNewIndex_Validation(t *testing.T) {
	_, err := NewIndex(nil, "docs", keywordEmbed)
	assert.Error(t, err)
	_, err = MatchText(context.Background(), nil, "docs", keywordEmbed, "apple", 1)
	assert.Error(t, err)
}
