package orthotree

import (
	"math"

	"github.com/sirupsen/logrus"
)

// EventKind identifies a structural step taken while building or querying
// a tree.
type EventKind int

const (
	// EventRegionCreated is emitted once per node as it is built.
	EventRegionCreated EventKind = iota
	// EventRegionClassified is emitted when a query compares a node's region
	// against the query rectangle.
	EventRegionClassified
	// EventPointReported is emitted for every point added to a query result.
	EventPointReported
)

func (k EventKind) String() string {
	switch k {
	case EventRegionCreated:
		return "region-created"
	case EventRegionClassified:
		return "region-classified"
	case EventPointReported:
		return "point-reported"
	}
	return "unknown"
}

// Class is the outcome of comparing a region with a query rectangle.
type Class int

const (
	ClassNone Class = iota
	Contained
	Disjoint
	Partial
)

func (c Class) String() string {
	switch c {
	case Contained:
		return "contained"
	case Disjoint:
		return "disjoint"
	case Partial:
		return "partial"
	}
	return "none"
}

// Event describes a single step. Lower and Upper bound the region the step
// concerns; Point is set for EventPointReported. All slices are copies.
type Event struct {
	Kind      EventKind
	Structure string
	Depth     int
	Lower     []float64
	Upper     []float64
	Class     Class
	Point     Point
}

// Observer receives events in the order they happen. Observers see copies
// and cannot change tree structure or query results.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) {
	f(e)
}

// NopObserver discards every event.
type NopObserver struct{}

// Observe does nothing.
func (NopObserver) Observe(Event) {}

type logObserver struct {
	log logrus.FieldLogger
}

// NewLogObserver returns an Observer that writes each event to log at trace
// level.
func NewLogObserver(log logrus.FieldLogger) Observer {
	return &logObserver{log: log}
}

func (o *logObserver) Observe(e Event) {
	entry := o.log.WithFields(logrus.Fields{
		"structure": e.Structure,
		"depth":     e.Depth,
	})
	if e.Lower != nil {
		entry = entry.WithField("region", Point(e.Lower).String()+"-"+Point(e.Upper).String())
	}
	switch e.Kind {
	case EventRegionClassified:
		entry = entry.WithField("class", e.Class.String())
	case EventPointReported:
		entry = entry.WithField("point", e.Point.String())
	}
	entry.Trace(e.Kind.String())
}

// emitter wraps an Observer and skips event construction entirely when
// nobody is listening.
type emitter struct {
	obs       Observer
	structure string
}

func newEmitter(obs Observer, structure string) emitter {
	if _, ok := obs.(NopObserver); ok {
		obs = nil
	}
	return emitter{obs: obs, structure: structure}
}

func (em emitter) active() bool {
	return em.obs != nil
}

func (em emitter) region(kind EventKind, depth int, lower, upper []float64, class Class) {
	if em.obs == nil {
		return
	}
	em.obs.Observe(Event{
		Kind:      kind,
		Structure: em.structure,
		Depth:     depth,
		Lower:     copyBounds(lower),
		Upper:     copyBounds(upper),
		Class:     class,
	})
}

func (em emitter) point(depth int, p Point) {
	if em.obs == nil {
		return
	}
	em.obs.Observe(Event{
		Kind:      EventPointReported,
		Structure: em.structure,
		Depth:     depth,
		Point:     p.Clone(),
	})
}

func copyBounds(b []float64) []float64 {
	if b == nil {
		return nil
	}
	c := make([]float64, len(b))
	copy(c, b)
	return c
}

func unboundedRegion(k int) (lower, upper []float64) {
	lower = make([]float64, k)
	upper = make([]float64, k)
	for i := 0; i < k; i++ {
		lower[i] = math.Inf(-1)
		upper[i] = math.Inf(1)
	}
	return lower, upper
}
