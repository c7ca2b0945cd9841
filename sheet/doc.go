// Package sheet defines the output side of a report build: the [Region] of
// cells a build commits, the [Style] attached to it, and the [Sink] that
// receives cells, merges, and dimensions.
//
// Coordinates are 1-based. Row 1, column 1 is the top-left cell.
//
// [Memory] is a Sink that records everything it receives. It backs tests,
// the terminal preview, and any caller that wants the grid without a file.
package sheet
