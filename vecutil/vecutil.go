package vecutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/viant/sqlite-vec0/vector"
)

// EmbedFunc converts free-form text into an embedding.
//
// Implementations can call any embedding provider (OpenAI, local model,
// other cloud APIs, etc.) as long as they return a slice of float32 values.
// The vec0 packages remain embedding-agnostic and only depend on the
// numeric vectors and their encoded BLOB representation.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// DocumentTableSQL returns the CREATE statement for a vec0 table holding
// text documents:
//
//	doc_id    TEXT primary key
//	embedding float[dims] with the given distance metric
//	+content  TEXT
//	+meta     TEXT
//
// Table names are interpolated into SQL; callers should ensure that table
// is trusted and not derived from untrusted input.
func DocumentTableSQL(table string, dims int, metric vector.Metric) string {
	return fmt.Sprintf(`CREATE VIRTUAL TABLE %s USING vec0(
  doc_id text primary key,
  embedding float[%d] distance_metric=%s,
  +content text,
  +meta text
)`, table, dims, metric)
}

// UpsertDocument inserts or replaces a document row of a vec0 document
// table, computing the embedding from content using the provided EmbedFunc.
func UpsertDocument(
	ctx context.Context,
	db *sql.DB,
	table string,
	embed EmbedFunc,
	id, content, meta string,
) error {
	if db == nil {
		return fmt.Errorf("vecutil: db is nil")
	}
	if embed == nil {
		return fmt.Errorf("vecutil: EmbedFunc is nil")
	}

	vec, err := embed(ctx, content)
	if err != nil {
		return err
	}
	blob, err := vector.EncodeEmbedding(vec)
	if err != nil {
		return err
	}

	// vec0 tables have no ON CONFLICT support: replace explicitly.
	if _, err = db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE doc_id = ?", table), id); err != nil {
		return err
	}
	stmt := fmt.Sprintf(`INSERT INTO %s(doc_id, embedding, content, meta) VALUES (?, ?, ?, ?)`, table)
	_, err = db.ExecContext(ctx, stmt, id, blob, content, meta)
	return err
}

// MatchText executes a knn query against a vec0 document table by first
// converting the free-form query text into an embedding via EmbedFunc.
//
// It returns up to k document ids ordered by ascending distance.
func MatchText(
	ctx context.Context,
	db *sql.DB,
	table string,
	embed EmbedFunc,
	query string,
	k int,
) ([]string, error) {
	if db == nil {
		return nil, fmt.Errorf("vecutil: db is nil")
	}
	if embed == nil {
		return nil, fmt.Errorf("vecutil: EmbedFunc is nil")
	}

	vec, err := embed(ctx, query)
	if err != nil {
		return nil, err
	}
	blob, err := vector.EncodeEmbedding(vec)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("SELECT doc_id FROM %s WHERE embedding MATCH ? AND k = ? ORDER BY distance", table)
	rows, err := db.QueryContext(ctx, q, blob, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
