package clustering

import (
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/kestrelcode/platok/pkg/simgraph"
)

// GraphMetrics is a read-only enrichment layer over a similarity graph:
// coarse shape statistics plus a Louvain modularity score. It is never
// consulted by FindClustersBFS/DFS or by the selector; it exists purely
// to describe the graph a caller is about to cluster.
type GraphMetrics struct {
	NodeCount        int
	EdgeCount        int
	AverageDegree    float64
	Density          float64
	ComponentCount   int
	LargestComponent int
	Modularity       float64
}

// ComputeGraphMetrics converts g into a gonum simple.UndirectedGraph and
// runs connected-components and Louvain community detection over it.
func ComputeGraphMetrics(g *simgraph.Graph) GraphMetrics {
	nodes := g.Nodes()
	var metrics GraphMetrics
	metrics.NodeCount = len(nodes)
	if len(nodes) == 0 {
		return metrics
	}

	gonumID := make(map[string]int64, len(nodes))
	idToNode := make(map[int64]string, len(nodes))
	ug := simple.NewUndirectedGraph()
	for i, node := range nodes {
		id := int64(i)
		gonumID[node] = id
		idToNode[id] = node
		ug.AddNode(simple.Node(id))
	}

	edgeCount := 0
	totalDegree := 0
	for _, node := range nodes {
		from := gonumID[node]
		g.Neighbours(node).Range(func(neighbour string, _ float64) bool {
			to, ok := gonumID[neighbour]
			if !ok || from == to {
				return true
			}
			totalDegree++
			if !ug.HasEdgeBetween(from, to) {
				ug.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
				edgeCount++
			}
			return true
		})
	}
	metrics.EdgeCount = edgeCount
	metrics.AverageDegree = float64(totalDegree) / float64(len(nodes))

	if len(nodes) > 1 {
		maxEdges := len(nodes) * (len(nodes) - 1) / 2
		metrics.Density = float64(edgeCount) / float64(maxEdges)
	}

	components := topo.ConnectedComponents(ug)
	metrics.ComponentCount = len(components)
	for _, comp := range components {
		if len(comp) > metrics.LargestComponent {
			metrics.LargestComponent = len(comp)
		}
	}

	reduced := community.Modularize(ug, 1.0, nil)
	metrics.Modularity = community.Q(ug, reduced.Communities(), 1.0)

	return metrics
}
