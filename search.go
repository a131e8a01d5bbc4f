package orthotree

// Query returns every point p with lowerLeft[i]-eps <= p[i] <=
// upperRight[i]+eps on each axis i. It is an inclusive search, so points
// lying on the query boundary match.
//
// Returns ErrDimensionMismatch if either corner's arity differs from the
// tree's and ErrInvalidCoordinate if either corner holds a NaN.
func (t *KDTree) Query(lowerLeft, upperRight Point) (*PointSet, error) {
	if err := checkPoint(lowerLeft, t.k, "lower left corner"); err != nil {
		return nil, err
	}
	if err := checkPoint(upperRight, t.k, "upper right corner"); err != nil {
		return nil, err
	}
	out := NewPointSet()
	lower, upper := unboundedRegion(t.k)
	t.search(t.root, lower, upper, lowerLeft, upperRight, 0, out)
	return out, nil
}

// search descends from v, whose region is [lower, upper]. The bound vectors
// belong to the caller and are copied before being tightened for a child.
func (t *KDTree) search(v *kdNode, lower, upper []float64, ll, ur Point, depth int, out *PointSet) {
	if v.isLeaf() {
		for _, p := range v.points {
			if t.inside(p, ll, ur) {
				out.Add(p)
				t.em.point(depth, p)
			}
		}
		return
	}

	axis := depth % t.k
	if v.left != nil {
		childUpper := copyBounds(upper)
		childUpper[axis] = v.line
		t.visit(v.left, lower, childUpper, ll, ur, depth+1, out)
	}
	if v.right != nil {
		childLower := copyBounds(lower)
		childLower[axis] = v.line
		t.visit(v.right, childLower, upper, ll, ur, depth+1, out)
	}
}

func (t *KDTree) visit(child *kdNode, lower, upper []float64, ll, ur Point, depth int, out *PointSet) {
	class := t.classify(lower, upper, ll, ur)
	t.em.region(EventRegionClassified, depth, lower, upper, class)
	switch class {
	case Contained:
		t.report(child, out, depth, true)
	case Partial:
		t.search(child, lower, upper, ll, ur, depth, out)
	}
}

// classify compares the region [lower, upper] with the query rectangle
// [ll, ur].
func (t *KDTree) classify(lower, upper []float64, ll, ur Point) Class {
	contained := true
	for i := 0; i < t.k; i++ {
		if upper[i]-ll[i] < -t.eps || lower[i]-ur[i] > t.eps {
			return Disjoint
		}
		if !(ll[i]-lower[i] <= t.eps && ur[i]-upper[i] >= -t.eps) {
			contained = false
		}
	}
	if contained {
		return Contained
	}
	return Partial
}

func (t *KDTree) inside(p, ll, ur Point) bool {
	for i := 0; i < t.k; i++ {
		if p[i] < ll[i]-t.eps || p[i] > ur[i]+t.eps {
			return false
		}
	}
	return true
}

// report adds every point below v to out without further tests.
func (t *KDTree) report(v *kdNode, out *PointSet, depth int, emit bool) {
	if v == nil {
		return
	}
	stack := []*kdNode{v}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.isLeaf() {
			for _, p := range n.points {
				out.Add(p)
				if emit {
					t.em.point(depth, p)
				}
			}
			continue
		}
		if n.right != nil {
			stack = append(stack, n.right)
		}
		if n.left != nil {
			stack = append(stack, n.left)
		}
	}
}

// QueryRange returns the stored points that lie in r, boundary included.
// Leaves are tested point by point even when their square lies wholly
// inside r.
func (q *Quadtree) QueryRange(r Rectangle) *PointSet {
	out := NewPointSet()
	q.queryNode(0, r, out)
	return out
}

// Query is QueryRange for the rectangle spanned by two corners.
func (q *Quadtree) Query(lowerLeft, upperRight Point) (*PointSet, error) {
	r, err := RectangleFromCorners(lowerLeft, upperRight)
	if err != nil {
		return nil, err
	}
	return q.QueryRange(r), nil
}

func (q *Quadtree) queryNode(idx int, r Rectangle, out *PointSet) {
	n := &q.nodes[idx]
	class := Partial
	if !n.square.Intersects(r) {
		class = Disjoint
	}
	if q.em.active() {
		q.em.region(EventRegionClassified, n.depth, n.square.lower(), n.square.upper(), class)
	}
	if class == Disjoint {
		return
	}
	switch st := n.state.(type) {
	case leafState:
		for _, p := range st.bucket {
			if r.Contains(p) {
				out.Add(p)
				q.em.point(n.depth, p)
			}
		}
	case internalState:
		for _, c := range st.children {
			q.queryNode(c, r, out)
		}
	}
}
