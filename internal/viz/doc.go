// Package viz renders point clouds for the terminal and for SVG.
//
//   - [Canvas]: braille grid, 2x4 dots per cell, with per-cell ink
//   - [Camera]: orbit camera fitted to a cloud's bounding box
//   - [Preview]: projects a cloud onto a canvas
//   - [SVG]: writes a depth-sorted circle plot
//
// The lipgloss styles here are shared by the CLI and the progress TUI.
package viz
