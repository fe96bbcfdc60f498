// Package frames defines the grid data compared by the viewer.
//
// A test binds two roles of the same recording:
//
//   - [Frame]: one 2D grid, rows then columns
//   - [Sequence]: the ordered frames of one role
//   - [Pair]: the actual and predicted sequences of one test
//
// # On cells
//
// A cell is drawn when its value is non-zero ([On]). Binary data uses 0/1;
// intensity data keeps its value so renderers may shade it.
//
// # Length
//
// Playback is clamped to [Pair.Len], the shorter of the two roles, so a
// prediction that stops early never indexes past its end.
package frames
