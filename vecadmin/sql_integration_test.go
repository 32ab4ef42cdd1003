package vecadmin

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sqlite-vec0/engine"
	"github.com/viant/sqlite-vec0/vec0"
)

func TestVecAdminStats(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "vec_admin.sqlite")
	db, err := engine.Open(dbPath)
	if err != nil {
		t.Fatalf("engine.Open failed: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)
	if err := vec0.Register(db); err != nil {
		t.Fatalf("vec0.Register failed: %v", err)
	}
	if err := Register(db); err != nil {
		t.Fatalf("vecadmin.Register failed: %v", err)
	}

	if _, err := db.Exec(`CREATE VIRTUAL TABLE vec_admin USING vec0_admin(op)`); err != nil {
		if strings.Contains(err.Error(), "no such module") {
			t.Skipf("skipping: vec0_admin vtab not available (%v)", err)
		}
		t.Fatalf("CREATE VIRTUAL TABLE vec_admin failed: %v", err)
	}
	if _, err := db.Exec(`CREATE VIRTUAL TABLE catalog USING vec0(embedding float[2], shop text partition key, chunk_size=2)`); err != nil {
		t.Fatalf("CREATE VIRTUAL TABLE catalog failed: %v", err)
	}
	_, err = db.Exec(`INSERT INTO catalog(rowid, embedding, shop) VALUES
		(1, '[1, 0]', 'a'), (2, '[0, 1]', 'a'), (3, '[1, 1]', 'a'), (4, '[0, 0]', 'b')`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM catalog WHERE rowid = 2`)
	require.NoError(t, err)

	rows, err := db.Query(`SELECT op FROM vec_admin WHERE op MATCH 'catalog'`)
	require.NoError(t, err)
	defer rows.Close()
	var ops []string
	for rows.Next() {
		var op string
		require.NoError(t, rows.Scan(&op))
		ops = append(ops, op)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"rows:3", "chunks:3", "deleted:1", "partitions:2", "chunk_size:2"}, ops)

	var op string
	err = db.QueryRow(`SELECT op FROM vec_admin WHERE op MATCH 'missing'`).Scan(&op)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such vec0 table")
}
