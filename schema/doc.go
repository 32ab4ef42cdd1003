// Package schema turns the clause list of a vec0 table definition into an
// immutable Table.
//
// Parsing runs in three stages:
//   - Split breaks the body on top-level commas.
//   - ParseClause classifies each clause text into a closed set of Clause
//     variants (vector column, primary key, partition key, metadata column,
//     auxiliary column, table option) and parses it.
//   - Build validates the clauses together and produces the Table.
//
// Every failure is a *ClauseError wrapping one of the Err* sentinels, so
// callers classify with errors.Is and report the offending clause text.
package schema
