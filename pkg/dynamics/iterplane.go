package dynamics

import (
	"github.com/matzehuels/fatou/pkg/plane"
)

// IterPlane is a computed plane: one classified point per grid pixel,
// row-major from the lower-left corner. The pipeline fills it, palettes
// and exports read it.
type IterPlane struct {
	Grid   plane.Grid  `json:"grid"`
	Points []PointInfo `json:"points"`
}

// NewIterPlane returns a plane over grid with every point bounded, the
// classification a point keeps when nothing is computed for it.
func NewIterPlane(grid plane.Grid) *IterPlane {
	points := make([]PointInfo, grid.NumPixels())
	for i := range points {
		points[i] = PointInfo{Class: ClassBounded, Phase: -1}
	}
	return &IterPlane{Grid: grid, Points: points}
}

// At returns the point at pixel (i, j).
func (p *IterPlane) At(i, j int) PointInfo {
	return p.Points[j*p.Grid.ResX+i]
}

// Set writes the point at pixel (i, j).
func (p *IterPlane) Set(i, j int, info PointInfo) {
	p.Points[j*p.Grid.ResX+i] = info
}

// Row returns the mutable slice backing row j. Workers filling disjoint
// rows may write concurrently.
func (p *IterPlane) Row(j int) []PointInfo {
	start := j * p.Grid.ResX
	return p.Points[start : start+p.Grid.ResX]
}

// Fill sets every point to info.
func (p *IterPlane) Fill(info PointInfo) {
	for i := range p.Points {
		p.Points[i] = info
	}
}
