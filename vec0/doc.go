// Package vec0 implements the vec0 SQLite virtual table for vector search.
// Rows live in an in-process chunked store shared by every connection of
// the process; the host database only keeps the table definition.
//
// Features:
//   - CREATE VIRTUAL TABLE t USING vec0(embedding float[4], category text, ...)
//   - WHERE embedding MATCH '[...]' AND k = ? with a hidden distance column
//   - metadata, primary key and partition key comparisons evaluated during
//     the scan; joins and other predicates are applied by SQLite afterwards
//   - INSERT, UPDATE and DELETE with transaction rollback
package vec0
