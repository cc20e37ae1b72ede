// Package io provides JSON import and export for computed planes.
//
// # Overview
//
// This package serializes an [dynamics.IterPlane] together with the
// metadata describing how it was computed. The format is designed for:
//
//   - Re-coloring a plane without recomputing any orbit
//   - Inspecting point classifications with external tools
//   - Archiving expensive deep-zoom computations
//   - Round-trip preservation: export, re-import, and re-render identically
//
// # JSON Format
//
// The format has three top-level fields:
//
//	{
//	  "meta": {"family": "Mandelbrot", "max_iters": 1024},
//	  "grid": {"res_x": 2, "res_y": 1, "bounds": {...}},
//	  "points": [
//	    {"class": "escaping", "potential": 3.71, "phase": 0},
//	    {"class": "periodic", "phase": -1, "cycle": {"period": 2, ...}}
//	  ]
//	}
//
// Points are row-major from the lower-left corner and must match the
// grid's pixel count exactly. Each point carries its class as a string
// plus whichever of potential, phase, distance, and cycle the class
// gives meaning to.
//
// For dynamical planes, meta.param records the parameter the plane was
// computed at as a [re, im] pair.
//
// # Import
//
// Use [ImportJSON] to read a plane from a file path, or [ReadJSON] to
// read from any io.Reader:
//
//	meta, p, err := io.ImportJSON("mandelbrot.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions validate the grid resolution, the point count, and every
// class string. Errors are wrapped with context about which point caused
// the problem.
//
// # Export
//
// Use [ExportJSON] to write a plane to a file, or [WriteJSON] to write to
// any io.Writer:
//
//	err := io.ExportJSON(meta, p, "output.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The export includes every point's classification. Escaping potentials,
// cycle data, and distance estimates are preserved bit-for-bit, so a
// re-imported plane renders identically to the original.
//
// # Concurrency
//
// All functions in this package are safe to call concurrently with other
// readers of the same plane, but not with concurrent modifications. The
// [ReadJSON] and [ImportJSON] functions return independent planes that
// can be used and modified freely after import.
//
// [dynamics.IterPlane]: github.com/matzehuels/fatou/pkg/dynamics.IterPlane
package io
