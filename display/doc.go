// Package display renders collected DataFrame rows and Schemas as text, in the
// tabular format familiar from JVM dataframe engines.
package display
