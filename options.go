package orthotree

// Defaults for the quadtree. A bucket of one point per leaf matches the
// classic PR-quadtree.
const (
	DefaultBucketSize = 1
	DefaultMaxDepth   = 128
)

type config struct {
	observer   Observer
	bucketSize int
	maxDepth   int
}

func newConfig(opts []Option) config {
	c := config{
		observer:   NopObserver{},
		bucketSize: DefaultBucketSize,
		maxDepth:   DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.observer == nil {
		c.observer = NopObserver{}
	}
	return c
}

// Option configures BuildKDTree and BuildQuadtree. Options that do not
// apply to a structure are ignored by it.
type Option func(*config)

// WithObserver sends build and query events to o.
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}

// WithBucketSize sets how many points a quadtree leaf holds before it
// splits.
func WithBucketSize(n int) Option {
	return func(c *config) {
		c.bucketSize = n
	}
}

// WithMaxDepth caps quadtree depth. Leaves at the cap keep every point they
// are given rather than splitting further.
func WithMaxDepth(d int) Option {
	return func(c *config) {
		c.maxDepth = d
	}
}
