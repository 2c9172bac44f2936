// Package selector picks representative submissions from a cluster so
// that a reviewer doesn't have to look at every member.
package selector

import (
	"sort"

	"github.com/kestrelcode/platok/pkg/simgraph"
)

// Selector greedily picks up to MaxRepresentatives submissions per
// cluster.
type Selector struct {
	MaxRepresentatives int
}

// New creates a Selector with the given representative cap.
func New(maxRepresentatives int) *Selector {
	return &Selector{MaxRepresentatives: maxRepresentatives}
}

// SelectAverageSimilarity ranks cluster members by their mean similarity
// to the rest of the cluster and returns the top MaxRepresentatives.
// Clusters no larger than MaxRepresentatives are returned unchanged.
// Ties keep the members' original relative order (sort.SliceStable).
func (s *Selector) SelectAverageSimilarity(cluster []string, g *simgraph.Graph) []string {
	if len(cluster) == 0 {
		return nil
	}
	if len(cluster) <= s.MaxRepresentatives {
		return cluster
	}

	avg := make(map[string]float64, len(cluster))
	for _, node := range cluster {
		avg[node] = averageSimilarityWithin(node, cluster, g)
	}

	ranked := append([]string(nil), cluster...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return avg[ranked[i]] > avg[ranked[j]]
	})

	return ranked[:s.MaxRepresentatives]
}

func averageSimilarityWithin(node string, cluster []string, g *simgraph.Graph) float64 {
	var total float64
	count := 0
	for _, other := range cluster {
		if other == node {
			continue
		}
		total += g.EdgeWeight(node, other)
		count++
	}
	if count == 0 {
		return 0.0
	}
	return total / float64(count)
}

// SelectCoverage greedily picks the member that covers the most
// still-uncovered cluster members (any positive edge weight counts as
// covering), repeating until MaxRepresentatives are picked or every
// member is covered. If fewer than MaxRepresentatives are chosen this
// way, it tops up with the highest average-similarity remaining members.
func (s *Selector) SelectCoverage(cluster []string, g *simgraph.Graph) []string {
	if len(cluster) == 0 {
		return nil
	}
	if len(cluster) <= s.MaxRepresentatives {
		return cluster
	}

	covered := make(map[string]bool, len(cluster))
	chosen := make(map[string]bool, s.MaxRepresentatives)
	var representatives []string

	for len(representatives) < s.MaxRepresentatives && len(covered) < len(cluster) {
		bestNode := ""
		bestCoverage := -1

		for _, node := range cluster {
			if chosen[node] {
				continue
			}
			coverage := 0
			for _, other := range cluster {
				if other == node || covered[other] {
					continue
				}
				if g.EdgeWeight(node, other) > 0 {
					coverage++
				}
			}
			if coverage > bestCoverage {
				bestCoverage = coverage
				bestNode = node
			}
		}

		if bestNode == "" || bestCoverage == 0 {
			break
		}

		representatives = append(representatives, bestNode)
		chosen[bestNode] = true
		covered[bestNode] = true
		for _, other := range cluster {
			if other != bestNode && !covered[other] && g.EdgeWeight(bestNode, other) > 0 {
				covered[other] = true
			}
		}
	}

	if len(representatives) < s.MaxRepresentatives {
		var remaining []string
		for _, node := range cluster {
			if !chosen[node] {
				remaining = append(remaining, node)
			}
		}

		avg := make(map[string]float64, len(remaining))
		for _, node := range remaining {
			avg[node] = averageSimilarityWithin(node, cluster, g)
		}
		sort.SliceStable(remaining, func(i, j int) bool {
			return avg[remaining[i]] > avg[remaining[j]]
		})

		for _, node := range remaining {
			if len(representatives) >= s.MaxRepresentatives {
				break
			}
			representatives = append(representatives, node)
		}
	}

	return representatives
}
