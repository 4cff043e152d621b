// Package render turns detection output into images: a permuted-matrix
// plot showing the staircase envelope and block boundaries, and a block
// graph showing how linking variables couple the blocks.
//
// SVG output is self-contained. PNG and PDF conversion shell out to
// rsvg-convert; DOT rendering uses the embedded Graphviz.
package render
