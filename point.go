package orthotree

import (
	"encoding/binary"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Point is an ordered tuple of real coordinates. Points are compared by
// value; the zero-length Point is never a valid input.
type Point []float64

// Dim returns the number of coordinates in p.
func (p Point) Dim() int {
	return len(p)
}

// Equal reports whether p and q have the same arity and coordinates.
func (p Point) Equal(q Point) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of p that shares no memory with it.
func (p Point) Clone() Point {
	c := make(Point, len(p))
	copy(c, p)
	return c
}

func (p Point) String() string {
	coords := make([]string, len(p))
	for i, c := range p {
		coords[i] = strconv.FormatFloat(c, 'f', -1, 64)
	}
	return "(" + strings.Join(coords, ", ") + ")"
}

// key encodes the coordinate bits of p. -0 is folded into +0 so that keys
// agree with Equal.
func (p Point) key() string {
	buf := make([]byte, 8*len(p))
	for i, c := range p {
		if c == 0 {
			c = 0
		}
		binary.BigEndian.PutUint64(buf[8*i:], math.Float64bits(c))
	}
	return string(buf)
}

// less orders points lexicographically, shorter points first on a tie.
func (p Point) less(q Point) bool {
	for i := 0; i < len(p) && i < len(q); i++ {
		if p[i] != q[i] {
			return p[i] < q[i]
		}
	}
	return len(p) < len(q)
}

// FromOrb converts planar orb points into Points.
func FromOrb(pts []orb.Point) []Point {
	out := make([]Point, len(pts))
	for i, op := range pts {
		out[i] = Point{op[0], op[1]}
	}
	return out
}

// PointSet is a set of points. Points with equal coordinates collapse into
// a single element. The zero value is not usable; call NewPointSet.
type PointSet struct {
	m map[string]Point
}

// NewPointSet returns a set holding the given points.
func NewPointSet(points ...Point) *PointSet {
	s := &PointSet{m: make(map[string]Point, len(points))}
	for _, p := range points {
		s.Add(p)
	}
	return s
}

// Add inserts p, returning false if an equal point was already present.
func (s *PointSet) Add(p Point) bool {
	k := p.key()
	if _, ok := s.m[k]; ok {
		return false
	}
	s.m[k] = p.Clone()
	return true
}

// Contains reports whether a point equal to p is in the set.
func (s *PointSet) Contains(p Point) bool {
	_, ok := s.m[p.key()]
	return ok
}

// Len returns the number of distinct points in the set.
func (s *PointSet) Len() int {
	return len(s.m)
}

// Points returns the members of s sorted lexicographically.
func (s *PointSet) Points() []Point {
	out := make([]Point, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// Union adds every member of other to s.
func (s *PointSet) Union(other *PointSet) {
	for k, p := range other.m {
		s.m[k] = p
	}
}

// Equal reports whether s and other hold exactly the same points.
func (s *PointSet) Equal(other *PointSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for k := range s.m {
		if _, ok := other.m[k]; !ok {
			return false
		}
	}
	return true
}

func (s *PointSet) String() string {
	pts := s.Points()
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = p.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
