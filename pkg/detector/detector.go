// Package detector wires the tokeniser, fingerprinting, similarity
// graph, clustering, selection, and metadata index into a single
// facade: add submissions one at a time or in bulk, then ask for the
// clusters of likely-plagiarised work.
//
// The facade is single-threaded and synchronous end-to-end: every
// operation runs to completion on the caller's goroutine, with no
// internal goroutines, channels, or worker pools, and it is not safe
// for concurrent use from multiple goroutines without external
// synchronization.
package detector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/kestrelcode/platok/pkg/bptree"
	"github.com/kestrelcode/platok/pkg/clustering"
	"github.com/kestrelcode/platok/pkg/config"
	"github.com/kestrelcode/platok/pkg/fingerprint"
	"github.com/kestrelcode/platok/pkg/selector"
	"github.com/kestrelcode/platok/pkg/simgraph"
	"github.com/kestrelcode/platok/pkg/tokenizer"
)

// Detector orchestrates the full detection pipeline over a growing set
// of submissions.
type Detector struct {
	cfg *config.Config

	tokenizer  *tokenizer.Tokenizer
	clusterer  *clustering.Clusterer
	selector   *selector.Selector
	graph      *simgraph.Graph
	metadata   *bptree.Tree
	submission map[string]fingerprint.Fingerprint // id -> fingerprinted tokens
	order      []string                           // insertion order of submission IDs
}

// Option configures a Detector.
type Option func(*Detector)

// WithConfig overrides the default configuration.
func WithConfig(cfg *config.Config) Option {
	return func(d *Detector) {
		d.cfg = cfg
	}
}

// New creates a Detector. Without WithConfig, it uses config.DefaultConfig.
func New(opts ...Option) *Detector {
	d := &Detector{
		cfg:        config.DefaultConfig(),
		submission: make(map[string]fingerprint.Fingerprint),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.cfg.Clamp()

	d.tokenizer = tokenizer.New()
	d.clusterer = clustering.New(d.cfg.MinClusterSize)
	d.selector = selector.New(d.cfg.MaxRepresentatives)
	d.graph = simgraph.New(d.cfg.SimilarityThreshold)
	d.metadata = bptree.New(d.cfg.BPTreeOrder)

	return d
}

// AddSubmission tokenises filePath, compares it against every existing
// submission, and records the resulting similarity edges. The
// submission ID is the file's base name. metadata, if non-nil, is
// stored in the B+ tree index under that ID.
//
// Tokenisation failures (e.g. an unreadable file) are best-effort: the
// submission is still added, with zero tokens and therefore no edges to
// any other submission, rather than being dropped. The failure is
// logged to stderr, never returned, so a caller doing batch processing
// never needs to special-case a failed file.
func (d *Detector) AddSubmission(filePath string, metadata map[string]string) (string, error) {
	id := filepath.Base(filePath)

	tokens, err := d.tokenizer.TokenizeFile(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "platok: %s: treating as empty submission: %v\n", filePath, err)
		tokens = nil
	}

	fp := fingerprint.NewFingerprint(tokens)
	d.submission[id] = fp
	d.order = append(d.order, id)

	if metadata != nil {
		d.metadata.Insert(id, metadata)
	}

	d.updateGraph(id)
	return id, nil
}

// updateGraph compares the newly added submission against every
// existing one, in insertion order, and records an edge for every pair
// that clears the graph's threshold.
func (d *Detector) updateGraph(newID string) {
	newFP := d.submission[newID]

	for _, existingID := range d.order {
		if existingID == newID {
			continue
		}
		existingFP := d.submission[existingID]

		similarity := fingerprint.SimilarityWithFingerprints(newFP, existingFP, d.cfg.KGramSize)
		if similarity >= d.cfg.SimilarityThreshold {
			d.graph.AddEdge(newID, existingID, similarity)
		}
	}
}

// SubmissionResult pairs a submission ID with its stored metadata.
type SubmissionResult struct {
	ID       string
	Metadata any
}

// ClusterResult is a group of similar submissions plus the
// representatives chosen to stand in for the whole group.
type ClusterResult struct {
	Cluster         []SubmissionResult
	Representatives []string
}

// DetectPlagiarism clusters the current submission set and selects
// representatives for every cluster with more than one member.
func (d *Detector) DetectPlagiarism() []ClusterResult {
	clusters := d.clusterer.FindClustersBFS(d.graph)

	var results []ClusterResult
	for _, cluster := range clusters {
		if len(cluster) <= 1 {
			continue
		}

		representatives := d.selector.SelectAverageSimilarity(cluster, d.graph)

		members := make([]SubmissionResult, 0, len(cluster))
		for _, id := range cluster {
			meta, _ := d.metadata.Search(id)
			members = append(members, SubmissionResult{ID: id, Metadata: meta})
		}

		results = append(results, ClusterResult{Cluster: members, Representatives: representatives})
	}

	return results
}

// AddSubmissions adds every file in paths, looking up each one's
// metadata by base name in metas (nil entries are fine). onProgress, if
// non-nil, is called once per file, synchronously, in iteration order —
// never from a goroutine, matching the rest of the facade's
// single-threaded contract. A file that fails to tokenise is still
// added (AddSubmission's best-effort contract), so ids always has one
// entry per path.
func (d *Detector) AddSubmissions(paths []string, metas map[string]map[string]string, onProgress func()) ([]string, error) {
	ids := make([]string, 0, len(paths))
	for _, path := range paths {
		id, _ := d.AddSubmission(path, metas[filepath.Base(path)])
		ids = append(ids, id)
		if onProgress != nil {
			onProgress()
		}
	}
	return ids, nil
}

// BatchProcess adds every regular file directly inside directory
// (non-recursive — directory walking is out of scope for this
// operation), optionally loading per-submission metadata from
// metadataFile, then runs DetectPlagiarism. Entries matching the
// configured exclude patterns are skipped.
//
// metadataFile, when given, is a line-oriented format: each line is
// "submission_id,key1=value1,key2=value2,...". A metadata line with no
// matching submission is simply unused.
func (d *Detector) BatchProcess(directory string, metadataFile string) ([]ClusterResult, error) {
	return d.BatchProcessWithProgress(directory, metadataFile, nil)
}

// BatchProcessWithProgress behaves exactly like BatchProcess, except
// onProgress, if non-nil, is called synchronously once per file added;
// the CLI's detect command uses it to drive an internal/progress.Tracker.
func (d *Detector) BatchProcessWithProgress(directory, metadataFile string, onProgress func()) ([]ClusterResult, error) {
	paths, metadata, err := d.listSubmissions(directory, metadataFile)
	if err != nil {
		return nil, err
	}

	if _, err := d.AddSubmissions(paths, metadata, onProgress); err != nil {
		return nil, err
	}
	return d.DetectPlagiarism(), nil
}

// listSubmissions lists the regular files directly inside directory
// that survive the configured exclude patterns, and loads metadataFile
// (if given) keyed by file base name.
func (d *Detector) listSubmissions(directory, metadataFile string) ([]string, map[string]map[string]string, error) {
	metadata := make(map[string]map[string]string)
	if metadataFile != "" {
		if _, err := os.Stat(metadataFile); err == nil {
			m, err := parseMetadataFile(metadataFile)
			if err != nil {
				return nil, nil, fmt.Errorf("reading metadata file %s: %w", metadataFile, err)
			}
			metadata = m
		}
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, nil, fmt.Errorf("reading directory %s: %w", directory, err)
	}

	matcher := excludeMatcher(d.cfg.ExcludePatterns)

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if matcher.Match([]string{entry.Name()}, false) {
			continue
		}
		paths = append(paths, filepath.Join(directory, entry.Name()))
	}

	return paths, metadata, nil
}

func excludeMatcher(patterns []string) gitignore.Matcher {
	parsed := make([]gitignore.Pattern, 0, len(patterns))
	for _, p := range patterns {
		parsed = append(parsed, gitignore.ParsePattern(p, nil))
	}
	return gitignore.NewMatcher(parsed)
}

// parseMetadataFile parses the "id,key=value,key=value" line format:
// each part after the ID is split on the first '=' only, so values may
// themselves contain '='.
func parseMetadataFile(path string) (map[string]map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	metadata := make(map[string]map[string]string)
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) <= 1 {
			continue
		}

		id := parts[0]
		meta := make(map[string]string, len(parts)-1)
		for _, part := range parts[1:] {
			if key, value, ok := strings.Cut(part, "="); ok {
				meta[key] = value
			}
		}
		metadata[id] = meta
	}
	return metadata, nil
}

// DescribeGraph reports coarse structural/community metrics of the
// current similarity graph. It is a read-only enrichment: it never
// influences clustering or selection.
func (d *Detector) DescribeGraph() clustering.GraphMetrics {
	return clustering.ComputeGraphMetrics(d.graph)
}

// Graph exposes the underlying similarity graph for callers that need
// direct access (e.g. rendering an adjacency matrix).
func (d *Detector) Graph() *simgraph.Graph {
	return d.graph
}
