// Package report renders the assembled measurement table into chart
// images and assembles them into the PPTX report deck.
//
// Chart rendering is delegated to gonum/plot; the package's own job is
// shaping: placing display labels along the x-axis in plot order,
// skipping absent combinations, drawing the fixed spec-limit lines,
// and rendering every chart at both an auto and a fixed y-scale.
package report
