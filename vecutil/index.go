package vecutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/viant/sqlite-vec0/vector"
)

// Index provides a higher-level, Pinecone-style API on top of a vec0
// document table (see DocumentTableSQL). It remains embedding-agnostic by
// requiring an EmbedFunc supplied by the caller.
type Index struct {
	DB    *sql.DB
	Table string
	Embed EmbedFunc
}

// NewIndex constructs an Index for a given vec0 document table. The caller
// is responsible for having created the table.
func NewIndex(db *sql.DB, table string, embed EmbedFunc) (*Index, error) {
	if db == nil {
		return nil, fmt.Errorf("vecutil: db is nil")
	}
	if embed == nil {
		return nil, fmt.Errorf("vecutil: EmbedFunc is nil")
	}
	return &Index{DB: db, Table: table, Embed: embed}, nil
}

// Document represents a logical document stored in the table.
// Metadata is modeled as a raw JSON (or other encoding) string for maximum
// flexibility.
type Document struct {
	ID      string
	Content string
	Meta    string
}

// Match represents a single similarity search hit.
type Match struct {
	ID       string
	Distance float64
	Score    float64
	Content  string
	Meta     string
}

// UpsertDocumentsText upserts the provided documents, computing embeddings
// from Content using the Index's EmbedFunc.
func (ix *Index) UpsertDocumentsText(ctx context.Context, docs []Document) error {
	for _, d := range docs {
		if err := UpsertDocument(ctx, ix.DB, ix.Table, ix.Embed, d.ID, d.Content, d.Meta); err != nil {
			return err
		}
	}
	return nil
}

// DeleteDocuments removes documents with the given ids.
func (ix *Index) DeleteDocuments(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if ix.DB == nil {
		return fmt.Errorf("vecutil: DB is nil on Index")
	}
	stmt := fmt.Sprintf("DELETE FROM %s WHERE doc_id = ?", ix.Table)
	for _, id := range ids {
		if _, err := ix.DB.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}
	return nil
}

// QueryText performs a similarity search using the provided query text and
// returns up to k matches ordered by ascending distance. Score is the cosine
// similarity between the query and the stored embedding.
func (ix *Index) QueryText(ctx context.Context, query string, k int) ([]Match, error) {
	if ix.DB == nil {
		return nil, fmt.Errorf("vecutil: DB is nil on Index")
	}
	if ix.Embed == nil {
		return nil, fmt.Errorf("vecutil: EmbedFunc is nil on Index")
	}

	qVec, err := ix.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	qBlob, err := vector.EncodeEmbedding(qVec)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT doc_id, distance, embedding, content, meta FROM %s
WHERE embedding MATCH ? AND k = ? ORDER BY distance`, ix.Table)
	rows, err := ix.DB.QueryContext(ctx, q, qBlob, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var (
			m       Match
			embBlob []byte
			content sql.NullString
			meta    sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Distance, &embBlob, &content, &meta); err != nil {
			return nil, err
		}
		embVec, err := vector.DecodeEmbedding(embBlob)
		if err != nil {
			return nil, err
		}
		if m.Score, err = vector.CosineSimilarity(qVec, embVec); err != nil {
			return nil, err
		}
		m.Content, m.Meta = content.String, meta.String
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
