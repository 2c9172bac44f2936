package mcpserver

// Tool descriptions optimized for LLM context efficiency.
// Keep descriptions concise - focus on what the tool does and when to use it.

func describeAddSubmission() string {
	return `Adds a source file as a submission to the current detection session.

USE WHEN:
- Building up a batch of submissions to compare one file at a time
- Attaching metadata (author, course, team) that should show up in
  detect_plagiarism's results

NOTES:
- The submission ID is the file's base name; adding the same base name
  twice overwrites the earlier submission's fingerprint
- Submissions persist across calls within the same server process`
}

func describeDetectPlagiarism() string {
	return `Clusters the submissions added so far by token-level similarity and
returns groups of likely-copied work plus a representative for each group.

USE WHEN:
- All submissions for a batch have been added via add_submission
- Reviewing which groups of files need a closer manual look

METRICS RETURNED:
- Per-cluster: member submissions with their stored metadata
- Per-cluster: the representative(s) chosen to stand in for the group`
}
