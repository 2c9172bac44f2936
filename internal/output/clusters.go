package output

import (
	"fmt"
	"io"

	"github.com/kestrelcode/platok/pkg/detector"
)

// ClusterSizeClass buckets a cluster's member count for SeverityColor.
func ClusterSizeClass(memberCount int) string {
	switch {
	case memberCount >= 6:
		return "large"
	case memberCount >= 3:
		return "medium"
	default:
		return "small"
	}
}

// ClusterReport renders a batch of plagiarism clusters as a Report: one
// table per cluster, listing every member and flagging representatives.
type ClusterReport struct {
	Title    string
	Clusters []detector.ClusterResult
}

// NewClusterReport wraps detection results for rendering.
func NewClusterReport(title string, clusters []detector.ClusterResult) *ClusterReport {
	return &ClusterReport{Title: title, Clusters: clusters}
}

func (r *ClusterReport) RenderData() any {
	return r.Clusters
}

func isRepresentative(id string, reps []string) bool {
	for _, r := range reps {
		if r == id {
			return true
		}
	}
	return false
}

func (r *ClusterReport) toReport(colored bool) *Report {
	rep := &Report{Title: r.Title}
	for i, cluster := range r.Clusters {
		rows := make([][]string, 0, len(cluster.Cluster))
		for _, member := range cluster.Cluster {
			role := ""
			if isRepresentative(member.ID, cluster.Representatives) {
				role = "representative"
			}
			rows = append(rows, []string{member.ID, role})
		}

		title := fmt.Sprintf("Cluster %d (%d submissions)", i+1, len(cluster.Cluster))
		if colored {
			title = SeverityColor(ClusterSizeClass(len(cluster.Cluster)), title)
		}

		rep.Sections = append(rep.Sections, NewTable(
			title,
			[]string{"Submission", "Role"},
			rows,
			nil,
			nil,
		))
	}
	return rep
}

func (r *ClusterReport) RenderText(w io.Writer, colored bool) error {
	return r.toReport(colored).RenderText(w, colored)
}

func (r *ClusterReport) RenderMarkdown(w io.Writer) error {
	return r.toReport(false).RenderMarkdown(w)
}
