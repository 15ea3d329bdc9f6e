// Package bvh implements a bounding volume hierarchy over a triangle soup.
//
// The tree is stored as a flat node array addressed by integer handles. Leaves
// reference a contiguous range of TriangleIndices, a permutation of the soup's
// triangle IDs that the median-split build reorders in place. After New
// returns the tree is immutable and safe for any number of concurrent
// readers.
package bvh

import (
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
)

// MaxTrianglesInLeaf is the default leaf capacity. Ranges with this many
// triangles or fewer are never split.
const MaxTrianglesInLeaf = 1

// DefaultParallelThreshold is the smallest triangle range that is split
// across goroutines when parallel builds are enabled.
const DefaultParallelThreshold = 4096

// noChild marks an absent child handle
const noChild = -1

// Node is a BVH node. A node is a leaf iff both children are absent; leaves
// own TriangleIndices[TriangleIdx : TriangleIdx+NumTriangles].
type Node struct {
	AABB         core.AABB
	Left         int
	Right        int
	TriangleIdx  int
	NumTriangles int
}

// IsLeaf reports whether the node has no children
func (n Node) IsLeaf() bool {
	return n.Left == noChild && n.Right == noChild
}

// Options controls how the hierarchy is built
type Options struct {
	MaxTrianglesInLeaf int         // Leaf capacity, at least 1
	Parallel           bool        // Build sibling subtrees concurrently
	ParallelThreshold  int         // Minimum range size to fork a goroutine
	Logger             *zap.Logger // Build diagnostics, nil for none
}

// DefaultOptions returns sequential build options with single-triangle leaves
func DefaultOptions() Options {
	return Options{
		MaxTrianglesInLeaf: MaxTrianglesInLeaf,
		ParallelThreshold:  DefaultParallelThreshold,
	}
}

// BVH is a binary spatial index over a triangle soup
type BVH struct {
	Soup            *geometry.TriangleSoup
	Nodes           []Node
	TriangleIndices []int

	maxLeaf           int
	parallel          bool
	parallelThreshold int
	nextNode          *atomic.Int64
	logger            *zap.Logger
}

// New builds a BVH over soup. An empty soup produces a tree without nodes
// that reports a miss for every ray.
func New(soup *geometry.TriangleSoup, opts Options) *BVH {
	core.Assert(soup != nil, "triangle soup must not be nil")
	if opts.MaxTrianglesInLeaf == 0 {
		opts.MaxTrianglesInLeaf = MaxTrianglesInLeaf
	}
	core.Assertf(opts.MaxTrianglesInLeaf >= 1, "leaf capacity must be positive, got %d", opts.MaxTrianglesInLeaf)
	if opts.ParallelThreshold <= 0 {
		opts.ParallelThreshold = DefaultParallelThreshold
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	numTriangles := soup.NumTriangles()
	b := &BVH{
		Soup:              soup,
		TriangleIndices:   make([]int, numTriangles),
		maxLeaf:           opts.MaxTrianglesInLeaf,
		parallel:          opts.Parallel,
		parallelThreshold: opts.ParallelThreshold,
		nextNode:          atomic.NewInt64(1),
		logger:            opts.Logger,
	}
	for i := range b.TriangleIndices {
		b.TriangleIndices[i] = i
	}
	if numTriangles == 0 {
		return b
	}

	start := time.Now()
	b.Nodes = make([]Node, nodeCount(numTriangles, b.maxLeaf))
	b.BuildBVH(0, 0, numTriangles, 0)

	stats := b.Stats()
	b.logger.Debug("bvh built",
		zap.Int("triangles", numTriangles),
		zap.Int("nodes", stats.Nodes),
		zap.Int("leaves", stats.Leaves),
		zap.Int("maxDepth", stats.MaxDepth),
		zap.Bool("parallel", b.parallel),
		zap.Duration("elapsed", time.Since(start)),
	)
	return b
}

// nodeCount returns the exact number of nodes a median-split build creates
// for n triangles, which is independent of the geometry.
func nodeCount(n, maxLeaf int) int {
	if n <= maxLeaf {
		return 1
	}
	half := n / 2
	return 1 + nodeCount(half, maxLeaf) + nodeCount(n-half, maxLeaf)
}

// allocPair reserves two consecutive node handles
func (b *BVH) allocPair() (left, right int) {
	end := int(b.nextNode.Add(2))
	core.Assertf(end <= len(b.Nodes), "node pool exhausted at %d of %d", end, len(b.Nodes))
	return end - 2, end - 1
}

// BuildBVH recursively builds the subtree rooted at nodeIdx over the
// permutation range [first, first+count). The split axis cycles X, Y, Z with
// depth. A parent's box is the union of its already built children.
func (b *BVH) BuildBVH(nodeIdx, first, count, depth int) {
	core.Assertf(count > 0, "cannot build a node over %d triangles", count)
	core.Assertf(nodeIdx >= 0 && nodeIdx < len(b.Nodes), "node index %d out of range", nodeIdx)
	core.Assertf(first >= 0 && count <= len(b.TriangleIndices)-first, "range [%d, %d) out of bounds", first, first+count)
	core.Assertf(depth >= 0, "negative depth %d", depth)

	if count <= b.maxLeaf {
		box := core.EmptyAABB()
		for i := first; i < first+count; i++ {
			v0, v1, v2 := b.Soup.Triangle(b.TriangleIndices[i])
			box.Extend(v0)
			box.Extend(v1)
			box.Extend(v2)
		}
		b.Nodes[nodeIdx] = Node{
			AABB:         box,
			Left:         noChild,
			Right:        noChild,
			TriangleIdx:  first,
			NumTriangles: count,
		}
		return
	}

	split := b.ReorderTrianglesMedian(first, count, depth%3)
	left, right := b.allocPair()

	if b.parallel && count >= b.parallelThreshold {
		// The halves touch disjoint permutation ranges and node handles
		var g errgroup.Group
		g.Go(func() error {
			b.BuildBVH(right, first+split, count-split, depth+1)
			return nil
		})
		b.BuildBVH(left, first, split, depth+1)
		_ = g.Wait()
	} else {
		b.BuildBVH(left, first, split, depth+1)
		b.BuildBVH(right, first+split, count-split, depth+1)
	}

	b.Nodes[nodeIdx] = Node{
		AABB:         b.Nodes[left].AABB.Union(b.Nodes[right].AABB),
		Left:         left,
		Right:        right,
		TriangleIdx:  first,
		NumTriangles: count,
	}
}

// Root returns the root node. It must not be called on an empty tree.
func (b *BVH) Root() Node {
	core.Assert(len(b.Nodes) > 0, "empty hierarchy has no root")
	return b.Nodes[0]
}

// Bounds returns the box around all geometry, empty for an empty tree
func (b *BVH) Bounds() core.AABB {
	if len(b.Nodes) == 0 {
		return core.EmptyAABB()
	}
	return b.Nodes[0].AABB
}
