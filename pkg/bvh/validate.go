package bvh

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// maxReportedErrors caps how many violations Validate collects
const maxReportedErrors = 16

// Validate checks the structural invariants of a built tree: the permutation
// is a bijection, every node has zero or two children, leaves respect the
// leaf capacity and exactly cover their triangles, and every internal box is
// the union of its children's boxes. Every triangle must be reachable from
// exactly one leaf.
func (b *BVH) Validate() error {
	var errs error
	count := 0
	report := func(err error) {
		if count < maxReportedErrors {
			errs = multierr.Append(errs, err)
		}
		count++
	}

	n := len(b.TriangleIndices)
	if n != b.Soup.NumTriangles() {
		return errors.Errorf("permutation has %d entries for %d triangles", n, b.Soup.NumTriangles())
	}
	seen := make([]bool, n)
	for i, id := range b.TriangleIndices {
		if id < 0 || id >= n {
			report(errors.Errorf("permutation[%d] = %d out of range", i, id))
			continue
		}
		if seen[id] {
			report(errors.Errorf("triangle %d appears twice in permutation", id))
		}
		seen[id] = true
	}
	if n == 0 {
		if len(b.Nodes) != 0 {
			report(errors.Errorf("empty soup has %d nodes", len(b.Nodes)))
		}
		return errs
	}
	if len(b.Nodes) == 0 {
		return errors.New("non-empty soup has no nodes")
	}

	covered := make([]int, n)
	var visit func(idx, depth int)
	visit = func(idx, depth int) {
		if idx < 0 || idx >= len(b.Nodes) {
			report(errors.Errorf("child handle %d out of range", idx))
			return
		}
		if depth > len(b.Nodes) {
			report(errors.Errorf("cycle detected at node %d", idx))
			return
		}
		node := b.Nodes[idx]
		if (node.Left == noChild) != (node.Right == noChild) {
			report(errors.Errorf("node %d has exactly one child", idx))
			return
		}

		if node.IsLeaf() {
			if node.NumTriangles < 1 || node.NumTriangles > b.maxLeaf {
				report(errors.Errorf("leaf %d holds %d triangles, capacity %d", idx, node.NumTriangles, b.maxLeaf))
			}
			end := node.TriangleIdx + node.NumTriangles
			if node.TriangleIdx < 0 || end > n {
				report(errors.Errorf("leaf %d range [%d, %d) out of bounds", idx, node.TriangleIdx, end))
				return
			}
			for i := node.TriangleIdx; i < end; i++ {
				id := b.TriangleIndices[i]
				covered[id]++
				if !node.AABB.Contains(b.Soup.TriangleBounds(id)) {
					report(errors.Errorf("leaf %d does not contain triangle %d", idx, id))
				}
			}
			return
		}

		left, right := node.Left, node.Right
		if left < 0 || left >= len(b.Nodes) || right < 0 || right >= len(b.Nodes) {
			report(errors.Errorf("node %d has child handles (%d, %d) out of range", idx, left, right))
			return
		}
		union := b.Nodes[left].AABB.Union(b.Nodes[right].AABB)
		if union != node.AABB {
			report(errors.Errorf("node %d box is not the union of its children", idx))
		}
		visit(left, depth+1)
		visit(right, depth+1)
	}
	visit(0, 0)

	for id, c := range covered {
		if c != 1 {
			report(errors.Errorf("triangle %d covered by %d leaves", id, c))
		}
	}
	if count > maxReportedErrors {
		errs = multierr.Append(errs, errors.Errorf("%d more violations omitted", count-maxReportedErrors))
	}
	return errs
}
