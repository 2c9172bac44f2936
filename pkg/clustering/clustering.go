// Package clustering groups similarity graph nodes into connected
// components using BFS or DFS, and supports threshold sweeps and
// hierarchical clustering across multiple thresholds.
package clustering

import (
	"sort"

	"github.com/kestrelcode/platok/pkg/simgraph"
)

// Clusterer finds connected components in a similarity graph, keeping
// only components at least MinClusterSize large.
type Clusterer struct {
	MinClusterSize int
}

// New creates a Clusterer with the given minimum cluster size.
func New(minClusterSize int) *Clusterer {
	return &Clusterer{MinClusterSize: minClusterSize}
}

// FindClustersBFS finds connected components via breadth-first search,
// visiting nodes in the graph's insertion order.
func (c *Clusterer) FindClustersBFS(g *simgraph.Graph) [][]string {
	visited := make(map[string]bool)
	var clusters [][]string

	for _, node := range g.Nodes() {
		if visited[node] {
			continue
		}
		cluster := bfsComponent(g, node, visited)
		if len(cluster) >= c.MinClusterSize {
			clusters = append(clusters, cluster)
		}
	}
	return clusters
}

func bfsComponent(g *simgraph.Graph, start string, visited map[string]bool) []string {
	queue := []string{start}
	var cluster []string

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		if visited[node] {
			continue
		}
		visited[node] = true
		cluster = append(cluster, node)

		for _, neighbour := range g.Neighbours(node).Keys() {
			if !visited[neighbour] {
				queue = append(queue, neighbour)
			}
		}
	}
	return cluster
}

// FindClustersDFS finds connected components via depth-first search,
// visiting nodes in the graph's insertion order.
func (c *Clusterer) FindClustersDFS(g *simgraph.Graph) [][]string {
	visited := make(map[string]bool)
	var clusters [][]string

	for _, node := range g.Nodes() {
		if visited[node] {
			continue
		}
		var cluster []string
		dfsComponent(g, node, visited, &cluster)
		if len(cluster) >= c.MinClusterSize {
			clusters = append(clusters, cluster)
		}
	}
	return clusters
}

func dfsComponent(g *simgraph.Graph, node string, visited map[string]bool, cluster *[]string) {
	if visited[node] {
		return
	}
	visited[node] = true
	*cluster = append(*cluster, node)

	for _, neighbour := range g.Neighbours(node).Keys() {
		if !visited[neighbour] {
			dfsComponent(g, neighbour, visited, cluster)
		}
	}
}

// FindClustersWithThreshold rebuilds the graph at a custom threshold
// (copying over only edges that meet it) and clusters the result. The
// copy adds each surviving edge via AddEdge from both endpoints' sides,
// which re-inserts the same edge twice into the new graph; this is
// harmless since AddEdge is idempotent for an unchanged weight, just a
// quirk carried over from the reference implementation.
func (c *Clusterer) FindClustersWithThreshold(g *simgraph.Graph, threshold float64) [][]string {
	custom := simgraph.New(threshold)
	for _, node := range g.Nodes() {
		g.Neighbours(node).Range(func(neighbour string, weight float64) bool {
			if weight >= threshold {
				custom.AddEdge(node, neighbour, weight)
			}
			return true
		})
	}
	return c.FindClustersBFS(custom)
}

// HierarchicalClustering clusters the graph at every threshold in
// thresholds, evaluated from highest to lowest.
func (c *Clusterer) HierarchicalClustering(g *simgraph.Graph, thresholds []float64) map[float64][][]string {
	sorted := append([]float64(nil), thresholds...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	results := make(map[float64][][]string, len(sorted))
	for _, threshold := range sorted {
		results[threshold] = c.FindClustersWithThreshold(g, threshold)
	}
	return results
}
