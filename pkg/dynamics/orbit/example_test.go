package orbit_test

import (
	"fmt"

	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/dynamics/family"
	"github.com/matzehuels/fatou/pkg/dynamics/orbit"
)

func ExampleTrace() {
	// The critical orbit at c = 0 is the fixed point z = 0.
	var fam dynamics.ComplexFamily = family.NewMandelbrot()
	traj := orbit.Trace(fam, 0)

	fmt.Println("kind:", traj.Result.Kind)
	fmt.Println("period:", traj.Result.Cycle.Period)
	// Output:
	// kind: periodic
	// period: 1
}

func ExampleTrace_escaping() {
	// c = 1 lies outside the set: the critical orbit blows up within a
	// few steps.
	var fam dynamics.ComplexFamily = family.NewMandelbrot()
	traj := orbit.Trace(fam, 1)

	fmt.Println("kind:", traj.Result.Kind)
	fmt.Println("escaped after", traj.Result.Iters, "iterations")
	// Output:
	// kind: escaped
	// escaped after 8 iterations
}
