// Package pointgen generates planar point sets with shapes that stress
// spatial indexes: uniform and normal clouds, grids, clusters, collinear
// runs and points on the outline of a rectangle or square.
//
// Every generator draws from the *rand.Rand it is given, so a seeded source
// reproduces a point set exactly.
package pointgen

import (
	"math"
	"math/rand"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Uniform returns n points drawn uniformly from the square [left, right)².
func Uniform(rnd *rand.Rand, left, right float64, n int) []orb.Point {
	pts := make([]orb.Point, n)
	for i := range pts {
		pts[i] = orb.Point{uniform(rnd, left, right), uniform(rnd, left, right)}
	}
	return pts
}

// UniformK returns n k-dimensional points drawn uniformly from
// [left, right)^k.
func UniformK(rnd *rand.Rand, k int, left, right float64, n int) [][]float64 {
	pts := make([][]float64, n)
	for i := range pts {
		p := make([]float64, k)
		for j := range p {
			p[j] = uniform(rnd, left, right)
		}
		pts[i] = p
	}
	return pts
}

// Normal returns n points whose coordinates are independently normally
// distributed around mean.
func Normal(rnd *rand.Rand, mean, std float64, n int) []orb.Point {
	pts := make([]orb.Point, n)
	for i := range pts {
		pts[i] = orb.Point{rnd.NormFloat64()*std + mean, rnd.NormFloat64()*std + mean}
	}
	return pts
}

// Grid returns the n×n integer lattice starting at the origin.
func Grid(n int) []orb.Point {
	pts := make([]orb.Point, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			pts = append(pts, orb.Point{float64(i), float64(j)})
		}
	}
	return pts
}

// Clustered returns perCluster normally distributed points around each
// center.
func Clustered(rnd *rand.Rand, centers []orb.Point, std float64, perCluster int) []orb.Point {
	pts := make([]orb.Point, 0, len(centers)*perCluster)
	for _, c := range centers {
		for i := 0; i < perCluster; i++ {
			pts = append(pts, orb.Point{rnd.NormFloat64()*std + c[0], rnd.NormFloat64()*std + c[1]})
		}
	}
	return pts
}

// Collinear returns n points on the line through a and b whose x
// coordinates are uniform in [-xRange, xRange). The line must not be
// vertical.
func Collinear(rnd *rand.Rand, a, b orb.Point, n int, xRange float64) ([]orb.Point, error) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	if dx == 0 {
		return nil, errors.Errorf("line through %v and %v is vertical", a, b)
	}
	tStart := (-xRange - a[0]) / dx
	tEnd := (xRange - a[0]) / dx
	pts := make([]orb.Point, n)
	for i := range pts {
		t := uniform(rnd, tStart, tEnd)
		pts[i] = orb.Point{a[0] + dx*t, a[1] + dy*t}
	}
	return pts, nil
}

type segment struct {
	from, to orb.Point
}

func (s segment) at(t float64) orb.Point {
	return orb.Point{s.from[0] + (s.to[0]-s.from[0])*t, s.from[1] + (s.to[1]-s.from[1])*t}
}

// RectanglePerimeter returns n points on the outline of the rectangle with
// corners a (lower left), b (lower right), c (upper right) and d (upper
// left). Each point picks a side at random.
func RectanglePerimeter(rnd *rand.Rand, a, b, c, d orb.Point, n int) []orb.Point {
	sides := []segment{{a, b}, {b, c}, {d, c}, {a, d}}
	pts := make([]orb.Point, n)
	for i := range pts {
		pts[i] = sides[rnd.Intn(len(sides))].at(rnd.Float64())
	}
	return pts
}

// Square returns the four corners of the square a, b, c, d, axisN points on
// each of the sides ab and ad, and diagN points on each diagonal.
func Square(rnd *rand.Rand, a, b, c, d orb.Point, axisN, diagN int) []orb.Point {
	pts := []orb.Point{a, b, c, d}
	for _, s := range []segment{{a, b}, {a, d}} {
		for i := 0; i < axisN; i++ {
			pts = append(pts, s.at(rnd.Float64()))
		}
	}
	for _, s := range []segment{{a, c}, {d, b}} {
		for i := 0; i < diagN; i++ {
			pts = append(pts, s.at(rnd.Float64()))
		}
	}
	return pts
}

func uniform(rnd *rand.Rand, lo, hi float64) float64 {
	return lo + rnd.Float64()*(hi-lo)
}

// Generator makes a point set of roughly n points.
type Generator struct {
	Name string
	Make func(rnd *rand.Rand, n int) ([]orb.Point, error)
}

// Suite returns one generator per distribution, with uniform, clustered
// and collinear sets spread over [left, right).
func Suite(left, right float64) []Generator {
	return []Generator{
		{"uniform", func(rnd *rand.Rand, n int) ([]orb.Point, error) {
			return Uniform(rnd, left, right, n), nil
		}},
		{"normal", func(rnd *rand.Rand, n int) ([]orb.Point, error) {
			return Normal(rnd, 45, 7, n), nil
		}},
		{"grid", func(rnd *rand.Rand, n int) ([]orb.Point, error) {
			return Grid(int(math.Sqrt(float64(n)))), nil
		}},
		{"clustered", func(rnd *rand.Rand, n int) ([]orb.Point, error) {
			return Clustered(rnd, Uniform(rnd, left, right, 4), 100, n/4), nil
		}},
		{"collinear", func(rnd *rand.Rand, n int) ([]orb.Point, error) {
			return Collinear(rnd, orb.Point{left, left}, orb.Point{right, right}, n, right)
		}},
		{"rectangle", func(rnd *rand.Rand, n int) ([]orb.Point, error) {
			return RectanglePerimeter(rnd,
				orb.Point{-10, -10}, orb.Point{10, -10}, orb.Point{10, 10}, orb.Point{-10, 10}, n), nil
		}},
		{"square", func(rnd *rand.Rand, n int) ([]orb.Point, error) {
			return Square(rnd,
				orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{10, 10}, orb.Point{0, 10}, n/2, n/2), nil
		}},
	}
}
