package orbitgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// Options configures functional-graph rendering.
type Options struct {
	// Detailed includes the ring norm in node labels.
	// When false, only the residue is shown.
	Detailed bool
}

// node is the element surface ToDOT draws from.
type node interface {
	comparable
	String() string
	NormSq() float64
}

// ToDOT converts a functional graph to Graphviz DOT format. The resulting
// DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Residues on a cycle are drawn as filled double circles and the cycle
// edges are bold, so the eventual periods stand out against the trees
// feeding into them.
func ToDOT[S node](g *Graph[S], opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  label=%q;\n", g.Title)
	buf.WriteString("  labelloc=t;\n")
	buf.WriteString("  fontsize=18;\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		label := n.String()
		if opts.Detailed {
			label = fmt.Sprintf("%s\nN=%.0f", label, n.NormSq())
		}
		attrs := fmt.Sprintf("label=%q", label)
		if g.OnCycle(n) {
			attrs += ", shape=doublecircle, fillcolor=gold"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.String(), attrs)
	}

	buf.WriteString("\n")
	for _, n := range g.Nodes {
		succ := g.Succ[n]
		if g.OnCycle(n) {
			fmt.Fprintf(&buf, "  %q -> %q [penwidth=2];\n", n.String(), succ.String())
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.String(), succ.String())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
