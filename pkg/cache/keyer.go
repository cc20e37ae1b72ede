package cache

// Keyer generates cache keys for the pipeline stages. Every input that
// changes the cached bytes must be part of the key, so runs with equal
// options share entries and runs with different options never collide.
type Keyer interface {
	// HTTPKey generates a key for HTTP response caching.
	HTTPKey(namespace, key string) string

	// PlaneKey generates a key for a computed plane.
	PlaneKey(family string, opts PlaneKeyOpts) string

	// RenderKey generates a key for an artifact rendered from the plane
	// identified by planeHash.
	RenderKey(planeHash string, opts RenderKeyOpts) string
}

// PlaneKeyOpts are the inputs that determine computed plane data.
type PlaneKeyOpts struct {
	// Param is the parameter selection for dynamical planes,
	// empty for parameter planes.
	Param string

	// Engine selects the orbit engine ("floyd", "simple", "potential",
	// "distance").
	Engine string

	MinX, MaxX float64
	MinY, MaxY float64
	ResX, ResY int
	MaxIters   int
}

// RenderKeyOpts are the inputs that determine rendered bytes.
type RenderKeyOpts struct {
	// Format is the artifact encoding ("png" or "json").
	Format string

	// Palette fingerprints the palette the artifact is colored with.
	Palette string

	// Algorithm is the interior coloring kind.
	Algorithm string

	PhaseColoring bool
	FillRate      float64
}

// DefaultKeyer hashes options into stable hierarchical keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// PlaneKey generates a key for computed plane caching.
func (k *DefaultKeyer) PlaneKey(family string, opts PlaneKeyOpts) string {
	return hashKey("plane", family, opts)
}

// RenderKey generates a key for rendered artifact caching.
func (k *DefaultKeyer) RenderKey(planeHash string, opts RenderKeyOpts) string {
	return hashKey("render", planeHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
