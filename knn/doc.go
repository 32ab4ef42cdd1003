// Package knn evaluates nearest-neighbor queries against a chunked store.
//
// A query walks the active chunks, drops rows failing any pre-filter
// predicate before computing their distance, and keeps the k best rows in a
// bounded max-heap. Results are handed out through a pull-style Cursor.
// Predicates the executor cannot evaluate (see Executor.Pushdown) belong to
// the host engine, which applies them after the executor has chosen its
// rows; such predicates can therefore shrink a result below k.
package knn
