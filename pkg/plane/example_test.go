package plane_test

import (
	"fmt"

	"github.com/matzehuels/fatou/pkg/plane"
)

func ExampleGrid() {
	// An 8×8 grid over the square [−2, 2]²: half-unit pixels anchored at
	// the lower-left corner, y growing upward.
	g := plane.NewGrid(8, 8, plane.CenteredSquare(2))

	fmt.Println("pixels:", g.NumPixels())
	fmt.Println("pixel width:", g.PixelWidth())
	fmt.Println("corner:", g.MapPixel(0, 0))
	fmt.Println("middle:", g.MapPixel(4, 4))
	// Output:
	// pixels: 64
	// pixel width: 0.5
	// corner: (-2-2i)
	// middle: (0+0i)
}

func ExampleBounds_Zoomed() {
	// Zooming scales the rectangle about a base point, here the origin.
	b := plane.CenteredSquare(2).Zoomed(0.5, 0)

	fmt.Println("x range:", b.RangeX())
	fmt.Println("y range:", b.RangeY())
	// Output:
	// x range: 2
	// y range: 2
}
