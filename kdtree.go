// A k-d tree is a binary space partition over k-dimensional points. Each
// level splits its points at the lower median of one axis, cycling through
// the axes with depth. The tree is built once and never changes afterwards,
// so any number of queries may run against it concurrently.

package orthotree

import (
	"fmt"
	"math"
	"sort"

	"github.com/cznic/mathutil"
	"github.com/pkg/errors"
)

// kdNode is either a leaf holding points or an internal node holding a
// split line. Leaves normally hold exactly one point; they hold more when
// k consecutive levels move no point right of the lower median, as happens
// with epsilon clusters and with sets like {(0,1), (1,0), (1,1)} whose
// lower median is the maximum on every axis.
type kdNode struct {
	line        float64
	left, right *kdNode
	points      []Point
}

func (n *kdNode) isLeaf() bool {
	return n.points != nil
}

// KDTree answers orthogonal range queries over a fixed point set.
type KDTree struct {
	root   *kdNode
	k      int
	eps    float64
	n      int
	depth  int
	nodes  int
	leaves int
	em     emitter
}

// BuildKDTree builds a k-d tree over points, which must all be k
// dimensional. epsilon widens every comparison against split lines and
// query bounds to absorb floating point error. Points with identical
// coordinates are stored once.
func BuildKDTree(points []Point, k int, epsilon float64, opts ...Option) (*KDTree, error) {
	if len(points) == 0 {
		return nil, errors.Wrap(ErrEmptyInput, "building kd-tree")
	}
	if k < 1 {
		return nil, errors.Wrapf(ErrDimensionMismatch, "kd-tree needs at least one dimension, got %d", k)
	}
	if epsilon < 0 || math.IsNaN(epsilon) {
		return nil, errors.Wrapf(ErrInvalidEpsilon, "got %v", epsilon)
	}
	seen := make(map[string]struct{}, len(points))
	unique := make([]Point, 0, len(points))
	for i, p := range points {
		if err := checkPoint(p, k, fmt.Sprintf("point %d", i)); err != nil {
			return nil, err
		}
		key := p.key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, p.Clone())
	}

	cfg := newConfig(opts)
	t := &KDTree{
		k:   k,
		eps: epsilon,
		n:   len(unique),
		em:  newEmitter(cfg.observer, "kdtree"),
	}

	// One view of the points per axis, each sorted on that axis. The views
	// are partitioned in step during the build so no level re-sorts.
	sorted := make([][]Point, k)
	for axis := 0; axis < k; axis++ {
		view := make([]Point, len(unique))
		copy(view, unique)
		a := axis
		sort.SliceStable(view, func(i, j int) bool { return view[i][a] < view[j][a] })
		sorted[axis] = view
	}
	lower := make([]float64, k)
	upper := make([]float64, k)
	for axis := 0; axis < k; axis++ {
		lower[axis] = sorted[axis][0][axis]
		upper[axis] = sorted[axis][len(unique)-1][axis]
	}

	t.root = t.build(sorted, 0, 0, lower, upper)
	return t, nil
}

// build returns the subtree for the per-axis views P. stalled counts the
// consecutive levels above that failed to move any point to the right.
func (t *KDTree) build(P [][]Point, depth, stalled int, lower, upper []float64) *kdNode {
	n := len(P[0])
	if n == 0 {
		return nil
	}
	t.nodes++
	t.depth = mathutil.Max(t.depth, depth)
	t.em.region(EventRegionCreated, depth, lower, upper, ClassNone)
	if n == 1 {
		t.leaves++
		return &kdNode{points: []Point{P[0][0]}}
	}
	if stalled >= t.k {
		// k levels in a row moved no point right of the lower median
		t.leaves++
		pts := make([]Point, n)
		copy(pts, P[0])
		return &kdNode{points: pts}
	}

	axis := depth % t.k
	median := P[axis][(n-1)/2][axis]

	left, right := make([][]Point, t.k), make([][]Point, t.k)
	for i := 0; i < t.k; i++ {
		left[i] = make([]Point, 0, n/2+1)
		for _, p := range P[i] {
			if p[axis]-median <= t.eps {
				left[i] = append(left[i], p)
			} else {
				right[i] = append(right[i], p)
			}
		}
	}
	if len(right[0]) == 0 {
		stalled++
	} else {
		stalled = 0
	}

	leftUpper := copyBounds(upper)
	leftUpper[axis] = median
	rightLower := copyBounds(lower)
	rightLower[axis] = median

	return &kdNode{
		line:  median,
		left:  t.build(left, depth+1, stalled, lower, leftUpper),
		right: t.build(right, depth+1, stalled, rightLower, upper),
	}
}

// Dim returns the number of dimensions of the tree.
func (t *KDTree) Dim() int {
	return t.k
}

// Epsilon returns the comparison tolerance the tree was built with.
func (t *KDTree) Epsilon() float64 {
	return t.eps
}

// Len returns the number of distinct points stored.
func (t *KDTree) Len() int {
	return t.n
}

// Depth returns the depth of the deepest node; a single point tree has
// depth 0.
func (t *KDTree) Depth() int {
	return t.depth
}

// Points returns every stored point in lexicographic order.
func (t *KDTree) Points() []Point {
	out := NewPointSet()
	t.report(t.root, out, 0, false)
	return out.Points()
}

// Stats summarizes the shape of the tree.
func (t *KDTree) Stats() Stats {
	return Stats{
		Points:     t.n,
		Nodes:      t.nodes,
		Leaves:     t.leaves,
		Depth:      t.depth,
		IdealDepth: mathutil.BitLen(t.n - 1),
	}
}

// Stats describes the shape of a built tree. IdealDepth is the depth a
// perfectly balanced tree over the same points would have.
type Stats struct {
	Points     int
	Nodes      int
	Leaves     int
	Depth      int
	IdealDepth int
}
