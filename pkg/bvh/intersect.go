package bvh

import (
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// Intersect finds the closest triangle hit along ray
func (b *BVH) Intersect(ray core.Ray) (core.Intersection, bool) {
	return b.IntersectWithin(ray, math.Inf(1))
}

// IntersectWithin finds the closest hit with distance in (0, maxT]
func (b *BVH) IntersectWithin(ray core.Ray, maxT float64) (core.Intersection, bool) {
	var isect core.Intersection
	if len(b.Nodes) == 0 || !b.Nodes[0].AABB.Hit(ray, 0, maxT) {
		return isect, false
	}
	nearest := maxT
	hit := b.IntersectRecursive(ray, 0, &nearest, &isect)
	return isect, hit
}

// IntersectRecursive searches the subtree at nodeIdx for a hit at or closer
// than *nearest. A hit at exactly *nearest replaces the current one. On a hit
// it lowers *nearest, overwrites *isect and returns true; otherwise both are
// left untouched. Children are visited front to back
// by the entry distance of their boxes clipped to [0, *nearest], and the far
// child is skipped once a hit in front of it has been found.
func (b *BVH) IntersectRecursive(ray core.Ray, nodeIdx int, nearest *float64, isect *core.Intersection) bool {
	core.Assert(nearest != nil, "nearest must not be nil")
	core.Assert(isect != nil, "intersection must not be nil")
	core.Assertf(nodeIdx >= 0 && nodeIdx < len(b.Nodes), "node index %d out of range", nodeIdx)

	node := &b.Nodes[nodeIdx]
	if node.IsLeaf() {
		hit := false
		for i := node.TriangleIdx; i < node.TriangleIdx+node.NumTriangles; i++ {
			tri := b.TriangleIndices[i]
			bary, t, ok := b.Soup.Intersect(ray, tri)
			if !ok || t > *nearest {
				continue
			}
			*nearest = t
			b.Soup.FillIntersection(isect, tri, t, bary)
			hit = true
		}
		return hit
	}

	first, second := node.Left, node.Right
	firstNear, _, firstHit := b.Nodes[first].AABB.Intersect(ray, 0, *nearest)
	secondNear, _, secondHit := b.Nodes[second].AABB.Intersect(ray, 0, *nearest)
	if !firstHit && !secondHit {
		return false
	}
	if !firstHit || (secondHit && secondNear < firstNear) {
		first, second = second, first
		firstNear, secondNear = secondNear, firstNear
		firstHit, secondHit = secondHit, firstHit
	}

	hit := b.IntersectRecursive(ray, first, nearest, isect)
	if secondHit && secondNear < *nearest {
		if b.IntersectRecursive(ray, second, nearest, isect) {
			hit = true
		}
	}
	return hit
}

// Occluded reports whether any triangle is hit at a distance in (0, maxT).
// It stops at the first hit found and does not look for the closest one.
func (b *BVH) Occluded(ray core.Ray, maxT float64) bool {
	if len(b.Nodes) == 0 {
		return false
	}

	stack := make([]int, 0, 64)
	stack = append(stack, 0)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &b.Nodes[idx]
		if !node.AABB.Hit(ray, 0, maxT) {
			continue
		}
		if !node.IsLeaf() {
			stack = append(stack, node.Right, node.Left)
			continue
		}
		for i := node.TriangleIdx; i < node.TriangleIdx+node.NumTriangles; i++ {
			if _, t, ok := b.Soup.Intersect(ray, b.TriangleIndices[i]); ok && t < maxT {
				return true
			}
		}
	}
	return false
}
