package orthotree

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Rectangle is a closed axis-aligned rectangle in the plane.
type Rectangle struct {
	MinX, MinY, MaxX, MaxY float64
}

// RectangleFromCorners builds the rectangle spanned by lowerLeft and
// upperRight. Both corners must be 2 dimensional.
func RectangleFromCorners(lowerLeft, upperRight Point) (Rectangle, error) {
	if err := checkPoint(lowerLeft, 2, "lower left corner"); err != nil {
		return Rectangle{}, err
	}
	if err := checkPoint(upperRight, 2, "upper right corner"); err != nil {
		return Rectangle{}, err
	}
	return Rectangle{lowerLeft[0], lowerLeft[1], upperRight[0], upperRight[1]}, nil
}

// RectangleFromBound converts an orb bound.
func RectangleFromBound(b orb.Bound) Rectangle {
	return Rectangle{b.Min[0], b.Min[1], b.Max[0], b.Max[1]}
}

// MinSquare returns the tightest rectangle holding every point. Despite the
// name it is only square when the points happen to span a square.
func MinSquare(points []Point) Rectangle {
	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = orb.Point{p[0], p[1]}
	}
	return RectangleFromBound(mp.Bound())
}

// Bound converts r to an orb bound.
func (r Rectangle) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{r.MinX, r.MinY}, Max: orb.Point{r.MaxX, r.MaxY}}
}

// MedX is the midpoint of r along x.
func (r Rectangle) MedX() float64 {
	return (r.MaxX + r.MinX) / 2.0
}

// MedY is the midpoint of r along y.
func (r Rectangle) MedY() float64 {
	return (r.MaxY + r.MinY) / 2.0
}

// Contains reports whether p lies in r, boundary included.
func (r Rectangle) Contains(p Point) bool {
	return r.MinX <= p[0] && p[0] <= r.MaxX &&
		r.MinY <= p[1] && p[1] <= r.MaxY
}

// Intersects reports whether r and other share at least one point.
// Rectangles that only touch along an edge or corner intersect.
func (r Rectangle) Intersects(other Rectangle) bool {
	return r.MinX <= other.MaxX && r.MaxX >= other.MinX &&
		r.MinY <= other.MaxY && r.MaxY >= other.MinY
}

// Partition splits r at its midpoint into four quadrants.
func (r Rectangle) Partition() (ne, nw, sw, se Rectangle) {
	mx, my := r.MedX(), r.MedY()
	ne = Rectangle{mx, my, r.MaxX, r.MaxY}
	nw = Rectangle{r.MinX, my, mx, r.MaxY}
	sw = Rectangle{r.MinX, r.MinY, mx, my}
	se = Rectangle{mx, r.MinY, r.MaxX, my}
	return ne, nw, sw, se
}

func (r Rectangle) lower() []float64 {
	return []float64{r.MinX, r.MinY}
}

func (r Rectangle) upper() []float64 {
	return []float64{r.MaxX, r.MaxY}
}

func (r Rectangle) String() string {
	return fmt.Sprintf("[%v %v, %v %v]", r.MinX, r.MinY, r.MaxX, r.MaxY)
}

// Quarter labels a quadtree node by its position in the parent.
type Quarter int

const (
	Root Quarter = iota
	NE
	NW
	SW
	SE
)

func (q Quarter) String() string {
	switch q {
	case NE:
		return "NE"
	case NW:
		return "NW"
	case SW:
		return "SW"
	case SE:
		return "SE"
	}
	return "root"
}

// quarterOf classifies (x, y) against the midpoint (mx, my). Points on a
// midpoint line go west or south.
func quarterOf(x, y, mx, my float64) Quarter {
	switch {
	case x > mx && y > my:
		return NE
	case x <= mx && y > my:
		return NW
	case x <= mx && y <= my:
		return SW
	case x > mx && y <= my:
		return SE
	}
	// unreachable for non-NaN input
	panic(errors.Errorf("cannot place (%v, %v) around (%v, %v)", x, y, mx, my))
}
