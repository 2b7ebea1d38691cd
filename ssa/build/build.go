// Package build is a helper package for building SSA IR in the parent
// directory.
//
// Usage
//
// There are two ways of building SSA IR from source code:
//
// Build from a list of source files
//
// This is the normal usage, where a number of files or package patterns are
// supplied (usually as command line arguments) and loaded with the go command.
// Files given together are considered part of the same package.
//
// Build from a Reader
//
// This is mostly used for testing or demo, where the input source code of a
// single file is read from a given io.Reader. Imports are type checked from
// source, only the package read is built with function bodies.
//
package build
