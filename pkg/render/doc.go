// Package render provides visualization rendering for dynamical planes.
//
// # Overview
//
// This package contains the renderers that turn computed dynamics into
// visual outputs:
//
//   - Plane images (in [planeimg] subpackage)
//   - Functional graphs over finite rings (in [orbitgraph] subpackage)
//
// # Plane Images
//
// The [planeimg] subpackage colors an IterPlane into an image. Escaping
// points are shaded by smooth potential or distance estimate, interior
// points by cycle attributes, with palettes loadable from TOML.
//
//	c := planeimg.NewColoring(planeimg.DefaultIncoloring(), planeimg.DefaultPalette())
//	png, err := planeimg.EncodePNG(p, c)
//
// # Functional Graphs
//
// The [orbitgraph] subpackage renders the action of z² + c on a finite
// quotient ring as a directed graph via Graphviz. Every residue points at
// its successor; cycle members are drawn as gold double circles.
//
//	g, err := orbitgraph.Gaussian(c, m)
//	dot := orbitgraph.ToDOT(g, orbitgraph.Options{})
//	svg, err := orbitgraph.RenderSVG(dot)
//
// [planeimg]: github.com/matzehuels/fatou/pkg/render/planeimg
// [orbitgraph]: github.com/matzehuels/fatou/pkg/render/orbitgraph
package render
