package kdtree

// boxDistance returns the squared distance from q to the nearest point of
// the axis-aligned box [lo, hi]. A dimension where q lies inside the
// interval contributes nothing; otherwise it contributes the squared gap to
// the nearer bound. Pure; squared units throughout, no square root.
//
// The aggregate must stay consistent with the incremental per-level update
// in the split handler, which adjusts exactly one dimension's contribution.
func boxDistance(q, lo, hi []float32) float32 {
	var sum float32
	for d := range q {
		if q[d] < lo[d] {
			t := lo[d] - q[d]
			sum += t * t
		} else if q[d] > hi[d] {
			t := q[d] - hi[d]
			sum += t * t
		}
	}
	return sum
}
