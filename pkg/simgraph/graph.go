// Package simgraph implements an insertion-ordered similarity graph:
// nodes are submission IDs, edges carry a similarity weight, and an edge
// is only admitted once its weight clears the graph's threshold.
package simgraph

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/kestrelcode/platok/internal/ordered"
)

// Graph is an undirected, weighted similarity graph. Node and edge
// iteration follow first-insertion order rather than Go's randomised map
// order, so that clustering and selection downstream produce the same
// result on every run given the same sequence of AddNode/AddEdge calls.
type Graph struct {
	threshold float64
	adjacency *ordered.Map[string, *ordered.Map[string, float64]]

	// nodeIndex/members back the O(1) membership bitset read by IsMember;
	// pkg/clustering and pkg/selector keep their own visited/covered maps.
	// adjacency above remains the sole source of truth for iteration order.
	nodeIndex map[string]uint32
	members   *roaring.Bitmap
	nextIndex uint32
}

// New creates a Graph that only admits edges whose weight is at least
// threshold.
func New(threshold float64) *Graph {
	return &Graph{
		threshold: threshold,
		adjacency: ordered.New[string, *ordered.Map[string, float64]](),
		nodeIndex: make(map[string]uint32),
		members:   roaring.New(),
	}
}

// Threshold returns the graph's similarity threshold.
func (g *Graph) Threshold() float64 {
	return g.threshold
}

// AddNode registers node, a no-op if it already exists.
func (g *Graph) AddNode(node string) {
	if g.adjacency.Has(node) {
		return
	}
	g.adjacency.Set(node, ordered.New[string, float64]())
	idx := g.nextIndex
	g.nextIndex++
	g.nodeIndex[node] = idx
	g.members.Add(idx)
}

// AddEdge connects node1 and node2 with the given weight, provided
// weight meets the graph's threshold (invariant I1). Below-threshold
// weights are silently ignored. Both nodes are created if absent, and
// the edge is symmetric (invariant I2): no self-loops are ever recorded
// (invariant I3).
func (g *Graph) AddEdge(node1, node2 string, weight float64) {
	if weight < g.threshold {
		return
	}
	if node1 == node2 {
		return
	}

	g.AddNode(node1)
	g.AddNode(node2)

	n1, _ := g.adjacency.Get(node1)
	n1.Set(node2, weight)
	n2, _ := g.adjacency.Get(node2)
	n2.Set(node1, weight)
}

// Neighbours returns node's neighbour weights in the order they were
// first connected. An unknown node yields an empty, non-nil map.
func (g *Graph) Neighbours(node string) *ordered.Map[string, float64] {
	if n, ok := g.adjacency.Get(node); ok {
		return n
	}
	return ordered.New[string, float64]()
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []string {
	return g.adjacency.Keys()
}

// EdgeWeight returns the weight between node1 and node2, or 0 if no such
// edge (or node) exists.
func (g *Graph) EdgeWeight(node1, node2 string) float64 {
	n1, ok := g.adjacency.Get(node1)
	if !ok {
		return 0.0
	}
	w, ok := n1.Get(node2)
	if !ok {
		return 0.0
	}
	return w
}

// RemoveNode deletes node and every edge incident to it.
func (g *Graph) RemoveNode(node string) {
	n, ok := g.adjacency.Get(node)
	if !ok {
		return
	}
	for _, neighbour := range n.Keys() {
		if nn, ok := g.adjacency.Get(neighbour); ok {
			nn.Delete(node)
		}
	}
	g.adjacency.Delete(node)
	if idx, ok := g.nodeIndex[node]; ok {
		g.members.Remove(idx)
		delete(g.nodeIndex, node)
	}
}

// AverageSimilarity returns the mean edge weight of node's neighbours,
// or 0 if node has none.
func (g *Graph) AverageSimilarity(node string) float64 {
	n, ok := g.adjacency.Get(node)
	if !ok || n.Len() == 0 {
		return 0.0
	}
	var total float64
	n.Range(func(_ string, w float64) bool {
		total += w
		return true
	})
	return total / float64(n.Len())
}

// Subgraph builds a new Graph (at this graph's threshold) containing
// only the given nodes and the edges between them.
func (g *Graph) Subgraph(nodes []string) *Graph {
	keep := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		keep[n] = struct{}{}
	}

	sub := New(g.threshold)
	for _, node := range nodes {
		n, ok := g.adjacency.Get(node)
		if !ok {
			continue
		}
		n.Range(func(neighbour string, weight float64) bool {
			if _, inSet := keep[neighbour]; inSet {
				sub.AddEdge(node, neighbour, weight)
			}
			return true
		})
	}
	return sub
}

// AdjacencyMatrix returns the node list (in insertion order) and the
// corresponding dense weight matrix.
func (g *Graph) AdjacencyMatrix() ([]string, [][]float64) {
	nodes := g.Nodes()
	n := len(nodes)
	indexOf := make(map[string]int, n)
	for i, node := range nodes {
		indexOf[node] = i
	}

	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	for i, node := range nodes {
		neighbours, _ := g.adjacency.Get(node)
		neighbours.Range(func(neighbour string, weight float64) bool {
			j, ok := indexOf[neighbour]
			if ok {
				matrix[i][j] = weight
			}
			return true
		})
	}

	return nodes, matrix
}

// IsMember reports whether node is currently in the graph, backed by the
// roaring bitmap rather than a map probe on the adjacency structure.
func (g *Graph) IsMember(node string) bool {
	idx, ok := g.nodeIndex[node]
	if !ok {
		return false
	}
	return g.members.Contains(idx)
}
