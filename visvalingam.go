package polysimp

import (
	"container/heap"

	"github.com/paulmach/orb"
)

// Visvalingam simplifies ls with Visvalingam-Whyatt effective-area
// simplification: interior points are removed smallest-triangle-first while
// the triangle they form with their current neighbours has area no greater
// than epsilon. Endpoints always survive and input order is preserved; ls is
// never modified. A negative epsilon fails with ErrInvalidTolerance.
func Visvalingam(ls orb.LineString, epsilon float64) (orb.LineString, error) {
	return visvalingam(ls, epsilon, false)
}

// VisvalingamPreserve is Visvalingam with topology preservation: a removal
// whose replacement segment would properly cross another surviving segment
// is skipped, so a simplified ring or hook never self-intersects where the
// original did not.
func VisvalingamPreserve(ls orb.LineString, epsilon float64) (orb.LineString, error) {
	return visvalingam(ls, epsilon, true)
}

func visvalingam(ls orb.LineString, epsilon float64, preserve bool) (orb.LineString, error) {
	if epsilon < 0 {
		return nil, ErrInvalidTolerance
	}
	if len(ls) <= 2 {
		return append(make(orb.LineString, 0, len(ls)), ls...), nil
	}

	n := len(ls)
	prev := make([]int, n)
	next := make([]int, n)
	removed := make([]bool, n)
	for i := range ls {
		prev[i], next[i] = i-1, i+1
	}

	h := make(triangleHeap, 0, n-2)
	for i := 1; i < n-1; i++ {
		h = append(h, triangle{area: triangleArea(ls[i-1], ls[i], ls[i+1]), idx: i, left: i - 1, right: i + 1})
	}
	heap.Init(&h)

	for h.Len() > 0 {
		t := heap.Pop(&h).(triangle)
		if removed[t.idx] || t.left != prev[t.idx] || t.right != next[t.idx] {
			continue // stale entry, superseded by a neighbour update
		}
		if t.area > epsilon {
			continue
		}
		if preserve && crossesSurvivor(ls, next, t.left, t.idx, t.right) {
			continue
		}

		removed[t.idx] = true
		next[t.left] = t.right
		prev[t.right] = t.left
		if t.left > 0 {
			heap.Push(&h, triangle{area: triangleArea(ls[prev[t.left]], ls[t.left], ls[t.right]), idx: t.left, left: prev[t.left], right: t.right})
		}
		if t.right < n-1 {
			heap.Push(&h, triangle{area: triangleArea(ls[t.left], ls[t.right], ls[next[t.right]]), idx: t.right, left: t.left, right: next[t.right]})
		}
	}

	out := make(orb.LineString, 0, n)
	for i := 0; i != n-1; i = next[i] {
		out = append(out, ls[i])
	}
	out = append(out, ls[n-1])
	return out, nil
}

type triangle struct {
	area        float64
	idx         int
	left, right int // neighbour indexes when the entry was pushed
}

type triangleHeap []triangle

func (h triangleHeap) Len() int { return len(h) }
func (h triangleHeap) Less(i, j int) bool {
	if h[i].area != h[j].area {
		return h[i].area < h[j].area
	}
	return h[i].idx < h[j].idx // deterministic removal order on equal areas
}
func (h triangleHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *triangleHeap) Push(x any)   { *h = append(*h, x.(triangle)) }
func (h *triangleHeap) Pop() any {
	old := *h
	t := old[len(old)-1]
	*h = old[:len(old)-1]
	return t
}

func triangleArea(a, b, c orb.Point) float64 {
	area := ((b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1])) / 2
	if area < 0 {
		return -area
	}
	return area
}

// crossesSurvivor reports whether replacing l-mid-r by the segment l-r would
// properly cross any surviving segment of the chain. Segments sharing an
// endpoint with l or r cannot properly cross it and are skipped.
func crossesSurvivor(ls orb.LineString, next []int, l, mid, r int) bool {
	for i := 0; next[i] < len(ls); i = next[i] {
		j := next[i]
		if i == l || i == mid || j == mid || j == r || i == r || j == l {
			continue
		}
		if segmentsCross(ls[l], ls[r], ls[i], ls[j]) {
			return true
		}
	}
	return false
}

// segmentsCross reports proper intersection of segments p1-p2 and q1-q2;
// shared endpoints and collinear touching do not count.
func segmentsCross(p1, p2, q1, q2 orb.Point) bool {
	d1 := orientation(q1, q2, p1)
	d2 := orientation(q1, q2, p2)
	d3 := orientation(p1, p2, q1)
	d4 := orientation(p1, p2, q2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func orientation(a, b, p orb.Point) float64 {
	return (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
}
