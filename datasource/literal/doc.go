// Package literal provides a DataSource for small, in-memory datasets written directly in Go code.
// Column types are inferred from the values supplied, and rows keep the order in which they were given.
package literal
