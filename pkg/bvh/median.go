package bvh

import (
	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// ReorderTrianglesMedian partitions TriangleIndices[first : first+count]
// around the median bounding-box center along axis. Afterwards the first
// count/2 entries have keys no greater than any key in the remaining
// entries; for odd counts the extra triangle lands in the upper half. Order
// within each half is unspecified. It returns the size of the lower half.
func (b *BVH) ReorderTrianglesMedian(first, count, axis int) int {
	core.Assertf(first >= 0 && first < len(b.TriangleIndices), "first index %d out of range", first)
	core.Assertf(count <= len(b.TriangleIndices)-first, "count %d overruns permutation", count)
	core.Assertf(count > 1, "need at least two triangles to split, got %d", count)
	core.Assertf(axis >= 0 && axis < 3, "invalid axis %d", axis)

	ids := b.TriangleIndices[first : first+count]
	keys := make([]float64, count)
	for i, id := range ids {
		keys[i] = b.Soup.BoundsCenter(id, axis)
	}

	k := count / 2
	selectKth(keys, ids, k)
	return k
}

// selectKth rearranges keys (and ids in lockstep) so that keys[k] holds the
// k-th smallest key, everything before it is <= keys[k] and everything after
// it is >= keys[k]. Expected linear time; a three-way partition keeps runs of
// equal keys from degrading it.
func selectKth(keys []float64, ids []int, k int) {
	lo, hi := 0, len(keys)-1
	for lo < hi {
		pivot := medianOfThree(keys, lo, hi)

		// [lo, lt) < pivot, [lt, i) == pivot, (gt, hi] > pivot
		lt, i, gt := lo, lo, hi
		for i <= gt {
			switch {
			case keys[i] < pivot:
				swap(keys, ids, lt, i)
				lt++
				i++
			case keys[i] > pivot:
				swap(keys, ids, i, gt)
				gt--
			default:
				i++
			}
		}

		switch {
		case k < lt:
			hi = lt - 1
		case k > gt:
			lo = gt + 1
		default:
			return
		}
	}
}

func medianOfThree(keys []float64, lo, hi int) float64 {
	a, b, c := keys[lo], keys[lo+(hi-lo)/2], keys[hi]
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		b = a
	}
	return b
}

func swap(keys []float64, ids []int, i, j int) {
	keys[i], keys[j] = keys[j], keys[i]
	ids[i], ids[j] = ids[j], ids[i]
}
