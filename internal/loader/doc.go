// Package loader parses model documents written in HCL into the
// format-agnostic model types. File contents are supplied by the caller
// through a FileReader, so the engine itself never touches the file system;
// includes are loaded recursively through the same reader and an include
// cycle is a fatal configuration error, reported distinctly from formula
// cycles.
package loader
