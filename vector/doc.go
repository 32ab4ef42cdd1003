// Package vector defines the vector element types and distance metrics used
// by vec0 tables. It includes:
//   - Type (float32, int8, bit) and Metric (l2, cosine, l1, hamming)
//   - Vector, a typed view over one row's elements
//   - Literal and BLOB decoding for query and insert values
//   - Distance kernels
package vector
