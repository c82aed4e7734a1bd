// Package showframe contains the core components of showframe, a small framework for building
// dataframes from in-memory or parsed data, transforming them in parallel and displaying them.
// This root package defines types which are employed during the regular use of the framework, as
// well as in the extension of the framework, and is an overview of its key concepts.
package showframe
