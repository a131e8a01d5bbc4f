// A PR-quadtree divides a fixed square into four equal quadrants around
// its midpoint, recursively, until every leaf holds at most a bucket's
// worth of points. The outer square is the bounding box of the points the
// tree was built with and never grows.

package orthotree

import (
	"fmt"
	"strings"

	"github.com/cznic/mathutil"
	"github.com/pkg/errors"
)

// quadState is either leafState or internalState.
type quadState interface {
	isQuadState()
}

type leafState struct {
	bucket []Point
}

// internalState holds arena indices of the children in NE, NW, SW, SE
// order.
type internalState struct {
	children [4]int
}

func (leafState) isQuadState()     {}
func (internalState) isQuadState() {}

type quadNode struct {
	square  Rectangle
	parent  int // -1 for the root
	quarter Quarter
	depth   int
	state   quadState

	// position of this node in Quadtree.leaves while it is a leaf
	leafSlot int
}

// Quadtree is a point-region quadtree over planar points. Nodes live in a
// single slice and refer to each other by index.
//
// Queries may run concurrently with each other but not with Insert.
type Quadtree struct {
	nodes      []quadNode
	leaves     []int
	bucketSize int
	maxDepth   int
	n          int
	em         emitter
}

// BuildQuadtree builds a quadtree over points, which must be 2
// dimensional. Points with identical coordinates are stored once.
func BuildQuadtree(points []Point, opts ...Option) (*Quadtree, error) {
	if len(points) == 0 {
		return nil, errors.Wrap(ErrEmptyInput, "building quadtree")
	}
	for i, p := range points {
		if err := checkPoint(p, 2, fmt.Sprintf("point %d", i)); err != nil {
			return nil, err
		}
	}
	cfg := newConfig(opts)
	if cfg.bucketSize < 1 {
		return nil, errors.Wrapf(ErrInvalidBucketSize, "got %d", cfg.bucketSize)
	}
	if cfg.maxDepth < 0 {
		cfg.maxDepth = 0
	}

	unique := NewPointSet(points...).Points()
	q := &Quadtree{
		bucketSize: cfg.bucketSize,
		maxDepth:   cfg.maxDepth,
		n:          len(unique),
		em:         newEmitter(cfg.observer, "quadtree"),
	}
	q.nodes = append(q.nodes, quadNode{
		square:  MinSquare(unique),
		parent:  -1,
		quarter: Root,
	})
	q.constructSubtree(0, unique, false)
	return q, nil
}

// constructSubtree turns node idx into a leaf holding points, or splits it
// into quadrants when points overflow the bucket or forced is set. Nodes at
// the depth cap always become leaves.
func (q *Quadtree) constructSubtree(idx int, points []Point, forced bool) {
	n := q.nodes[idx]
	if q.em.active() {
		q.em.region(EventRegionCreated, n.depth, n.square.lower(), n.square.upper(), ClassNone)
	}
	if (len(points) <= q.bucketSize && !forced) || n.depth >= q.maxDepth {
		q.nodes[idx].state = leafState{bucket: points}
		q.nodes[idx].leafSlot = len(q.leaves)
		q.leaves = append(q.leaves, idx)
		return
	}

	mx, my := n.square.MedX(), n.square.MedY()
	var parts [4][]Point
	for _, p := range points {
		i := quarterIndex(quarterOf(p[0], p[1], mx, my))
		parts[i] = append(parts[i], p)
	}

	ne, nw, sw, se := n.square.Partition()
	squares := [4]Rectangle{ne, nw, sw, se}
	var children [4]int
	for i := range squares {
		children[i] = len(q.nodes)
		q.nodes = append(q.nodes, quadNode{
			square:  squares[i],
			parent:  idx,
			quarter: NE + Quarter(i),
			depth:   n.depth + 1,
		})
	}
	q.nodes[idx].state = internalState{children: children}
	for i, c := range children {
		q.constructSubtree(c, parts[i], false)
	}
}

func quarterIndex(qr Quarter) int {
	return int(qr - NE)
}

// insertOrder is the order children are offered a new point.
var insertOrder = [4]Quarter{NE, NW, SE, SW}

// Insert adds p to the tree. It returns false when p lies outside the
// tree's outer square or is not 2 dimensional; the square is fixed at build
// time, so such points can only be stored by building a new tree.
// Inserting a point that is already stored succeeds without change.
//
// Insert must not run concurrently with any other method.
func (q *Quadtree) Insert(p Point) bool {
	if checkPoint(p, 2, "inserted point") != nil {
		return false
	}
	if q.has(0, p) {
		return true
	}
	return q.insert(0, p)
}

// has reports whether p is stored below idx. A point on a quadrant boundary
// lies in more than one closed square, so every candidate is searched.
func (q *Quadtree) has(idx int, p Point) bool {
	n := q.nodes[idx]
	if !n.square.Contains(p) {
		return false
	}
	switch st := n.state.(type) {
	case leafState:
		for _, b := range st.bucket {
			if b.Equal(p) {
				return true
			}
		}
	case internalState:
		for _, c := range st.children {
			if q.has(c, p) {
				return true
			}
		}
	}
	return false
}

func (q *Quadtree) insert(idx int, p Point) bool {
	n := q.nodes[idx]
	if !n.square.Contains(p) {
		return false
	}
	switch st := n.state.(type) {
	case leafState:
		q.n++
		if len(st.bucket) < q.bucketSize || n.depth >= q.maxDepth {
			bucket := st.bucket[:len(st.bucket):len(st.bucket)]
			q.nodes[idx].state = leafState{bucket: append(bucket, p.Clone())}
			return true
		}
		points := make([]Point, 0, len(st.bucket)+1)
		points = append(points, st.bucket...)
		points = append(points, p.Clone())
		q.dropLeaf(idx)
		q.constructSubtree(idx, points, true)
		return true
	case internalState:
		for _, qr := range insertOrder {
			if q.insert(st.children[quarterIndex(qr)], p) {
				return true
			}
		}
	}
	return false
}

// dropLeaf removes idx from the leaf list in constant time.
func (q *Quadtree) dropLeaf(idx int) {
	slot := q.nodes[idx].leafSlot
	last := q.leaves[len(q.leaves)-1]
	q.leaves[slot] = last
	q.nodes[last].leafSlot = slot
	q.leaves = q.leaves[:len(q.leaves)-1]
}

// Bounds returns the outer square of the tree.
func (q *Quadtree) Bounds() Rectangle {
	return q.nodes[0].square
}

// Len returns the number of distinct points stored.
func (q *Quadtree) Len() int {
	return q.n
}

// BucketSize returns the leaf capacity the tree was built with.
func (q *Quadtree) BucketSize() int {
	return q.bucketSize
}

// Depth returns the depth of the deepest node.
func (q *Quadtree) Depth() int {
	d := 0
	for i := range q.nodes {
		d = mathutil.Max(d, q.nodes[i].depth)
	}
	return d
}

// Leaves returns the squares of every leaf. It is meant for diagnostics.
func (q *Quadtree) Leaves() []Rectangle {
	out := make([]Rectangle, len(q.leaves))
	for i, idx := range q.leaves {
		out[i] = q.nodes[idx].square
	}
	return out
}

// Stats summarizes the shape of the tree.
func (q *Quadtree) Stats() Stats {
	return Stats{
		Points:     q.n,
		Nodes:      len(q.nodes),
		Leaves:     len(q.leaves),
		Depth:      q.Depth(),
		IdealDepth: (mathutil.BitLen(q.n-1) + 1) / 2,
	}
}

// QuadNode describes one node visited by Walk. Points is nil for internal
// nodes and a copy of the bucket for leaves.
type QuadNode struct {
	Square  Rectangle
	Quarter Quarter
	Path    string
	Depth   int
	Leaf    bool
	Points  []Point
}

// Walk visits nodes in pre-order, NE, NW, SW, SE. Returning true from fn
// skips the children of the node just visited.
func (q *Quadtree) Walk(fn func(QuadNode) (skip bool)) {
	q.walk(0, fn)
}

func (q *Quadtree) walk(idx int, fn func(QuadNode) bool) {
	n := q.nodes[idx]
	info := QuadNode{
		Square:  n.square,
		Quarter: n.quarter,
		Path:    q.path(idx),
		Depth:   n.depth,
	}
	st, internal := n.state.(internalState)
	if !internal {
		info.Leaf = true
		for _, p := range n.state.(leafState).bucket {
			info.Points = append(info.Points, p.Clone())
		}
	}
	if fn(info) || !internal {
		return
	}
	for _, c := range st.children {
		q.walk(c, fn)
	}
}

// path names a node by the quarters leading to it from the root, e.g.
// "NE/SW". The root's path is empty.
func (q *Quadtree) path(idx int) string {
	var parts []string
	for i := idx; q.nodes[i].parent >= 0; i = q.nodes[i].parent {
		parts = append(parts, q.nodes[i].quarter.String())
	}
	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	return strings.Join(parts, "/")
}
