// Package session is the entry point for building and running DataFrames in a single process.
// A process holds at most one active Session, obtained with Builder().GetOrCreate().
package session
