// Package internal contains the implementation packages of jsconvert.
//
// # Package Organization
//
// The internal packages follow the path of a conversion run:
//
//   - source: reads input files and decodes them from the configured encoding
//   - classify: picks the conversion kind of every file and applies it
//     (verbatim, module wrap, JSON data, XML to data)
//   - strtable: packs (name, content) pairs into one 7-bit byte buffer
//   - emit: renders the finished table as C++ or Go and writes it atomically
//   - pipeline: plans the before/convert/after phases and drives the run
//
// Supporting packages:
//
//   - config: Viper-backed configuration with defaults and validation
//   - errors: typed conversion errors and exit code mapping
//   - logging: structured logging on log/slog
//   - watcher: debounced fsnotify watching of the input files
//   - version: build information
//   - testutils: fixtures shared by the package tests
//
// # Data Flow
//
// A run is single-threaded. The pipeline owns one string table builder per
// run; each file is read, converted into two entries (its base name and its
// converted content) and appended in plan order. The table is finalized
// once and handed to the emitter. Any failure aborts the run before the
// artifact is written, so an existing artifact is never half-replaced.
//
// # Testing Strategy
//
//   - Unit tests with testify in every package
//   - Property tests with gopter behind the "property" build tag
//   - A golden artifact in pipeline/testdata pinning the exact C++ output
package internal
