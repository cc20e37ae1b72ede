// Package orbitgraph renders arithmetic families as functional graphs.
//
// # Overview
//
// Over a quotient ring the state space of z ↦ z²+c is finite, so the whole
// dynamical system is one directed graph with out-degree one: trees of
// pre-periodic residues feeding into disjoint cycles. This package builds
// that graph for the Gaussian and Eisenstein families and renders it with
// Graphviz, cycles highlighted.
//
// # Usage
//
// Build the graph for a modulus, convert to DOT, then render:
//
//	g, err := orbitgraph.Gaussian(qring.NewGaussian(1, 0), qring.NewGaussian(3, 1))
//	dot := orbitgraph.ToDOT(g, orbitgraph.Options{Detailed: false})
//	svg, err := orbitgraph.RenderSVG(dot)
//	png, err := orbitgraph.RenderPNG(dot)
//
// # Residue Enumeration
//
// Nodes are canonical class representatives taken from a Hermite-style
// fundamental domain of the ideal lattice, not from rounded division:
// rounded remainders can assign equivalent elements different
// representatives near cell boundaries, which would split one residue
// into two nodes.
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG] or [RenderPNG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// Cyclic residues are drawn as filled double circles with bold outgoing
// edges; pre-periodic residues are plain circles.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering; no system Graphviz installation is required.
package orbitgraph
