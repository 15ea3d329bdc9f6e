package bvh

// Costs used by the surface area heuristic estimate in Stats
const (
	traversalCost    = 1.0
	intersectionCost = 1.0
)

// Stats summarizes the shape of a built hierarchy
type Stats struct {
	Nodes            int
	Leaves           int
	MaxDepth         int
	AvgLeafDepth     float64
	Triangles        int
	MaxLeafTriangles int
	SAHCost          float64 // Expected cost of a random ray under the surface area heuristic
}

// Stats walks the tree and collects structural statistics
func (b *BVH) Stats() Stats {
	if len(b.Nodes) == 0 {
		return Stats{}
	}

	stats := Stats{}
	rootArea := b.Nodes[0].AABB.SurfaceArea()
	b.collectStats(0, 0, rootArea, &stats)

	// Calculate average depth after collecting all data
	if stats.Leaves > 0 {
		stats.AvgLeafDepth /= float64(stats.Leaves)
	}
	return stats
}

func (b *BVH) collectStats(idx, depth int, rootArea float64, stats *Stats) {
	node := &b.Nodes[idx]
	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	// Degenerate (flat or point) scenes have no meaningful area ratio
	ratio := 1.0
	if rootArea > 0 {
		ratio = node.AABB.SurfaceArea() / rootArea
	}

	if node.IsLeaf() {
		stats.Leaves++
		stats.Triangles += node.NumTriangles
		stats.AvgLeafDepth += float64(depth)
		if node.NumTriangles > stats.MaxLeafTriangles {
			stats.MaxLeafTriangles = node.NumTriangles
		}
		stats.SAHCost += ratio * intersectionCost * float64(node.NumTriangles)
		return
	}

	stats.SAHCost += ratio * traversalCost
	b.collectStats(node.Left, depth+1, rootArea, stats)
	b.collectStats(node.Right, depth+1, rootArea, stats)
}
