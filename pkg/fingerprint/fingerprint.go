// Package fingerprint builds k-gram indexes over token streams and
// computes Jaccard similarity between them, the Rabin-Karp-style
// fingerprinting step of the detection pipeline.
package fingerprint

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// DefaultKGramSize is the k-gram window used when callers don't
// override it.
const DefaultKGramSize = 5

// Index maps a k-gram's hash to the ascending list of token positions
// where it occurs.
type Index map[uint64][]int

// BuildIndex slides a window of size k over tokens and hashes each
// k-gram (its tokens joined by a single space) with xxhash. It returns
// an empty index when there are fewer tokens than k, matching the
// reference tool's behaviour of treating short fragments as having no
// comparable shingles.
func BuildIndex(tokens []string, k int) Index {
	idx := make(Index)
	if k <= 0 || len(tokens) < k {
		return idx
	}
	for i := 0; i <= len(tokens)-k; i++ {
		h := hashKGram(tokens[i : i+k])
		idx[h] = append(idx[h], i)
	}
	return idx
}

func hashKGram(gram []string) uint64 {
	return xxhash.Sum64String(strings.Join(gram, " "))
}

// Fingerprint carries a content-level fast-path hash alongside a
// submission's token stream. ContentHash is computed once per
// submission and reused across every pairwise comparison involving it.
type Fingerprint struct {
	Tokens      []string
	ContentHash [32]byte
}

// NewFingerprint computes the blake3 content hash for a token stream.
func NewFingerprint(tokens []string) Fingerprint {
	h := blake3.Sum256([]byte(strings.Join(tokens, "\x00")))
	return Fingerprint{Tokens: tokens, ContentHash: h}
}

// JaccardSimilarity computes the set-based Jaccard similarity between
// two token streams over k-grams of size k: |shared hashes| / |union of
// hashes|. It is 0 when either stream is empty or the union is empty.
// This is a set operation on distinct k-gram hashes, not a multiset
// comparison — a k-gram repeated many times in one file still counts
// once.
func JaccardSimilarity(t1, t2 []string, k int) float64 {
	if len(t1) == 0 || len(t2) == 0 {
		return 0.0
	}

	idx1 := BuildIndex(t1, k)
	idx2 := BuildIndex(t2, k)
	if len(idx1) == 0 || len(idx2) == 0 {
		return 0.0
	}

	intersection := 0
	for h := range idx1 {
		if _, ok := idx2[h]; ok {
			intersection++
		}
	}

	union := len(idx1) + len(idx2) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// SimilarityWithFingerprints behaves like JaccardSimilarity but
// short-circuits to 1.0 when both fingerprints carry identical content
// hashes and their token streams are literally equal — the same result
// the full k-gram comparison would produce for identical input, just
// without rebuilding both indexes.
func SimilarityWithFingerprints(a, b Fingerprint, k int) float64 {
	if a.ContentHash == b.ContentHash && tokensEqual(a.Tokens, b.Tokens) {
		return 1.0
	}
	return JaccardSimilarity(a.Tokens, b.Tokens, k)
}

func tokensEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Match is a located, extended k-gram match between two token streams:
// tokens1[Pos1:Pos1+Length] lines up with tokens2[Pos2:Pos2+Length].
type Match struct {
	Pos1   int
	Pos2   int
	Length int
}

// FindMatchingSequences locates matching k-gram positions between two
// token streams, extends each match as far as the tokens keep agreeing,
// and merges overlapping matches. It is best-effort: useful for
// highlighting where two submissions overlap, but it is not consulted by
// JaccardSimilarity or by the clustering pipeline.
func FindMatchingSequences(t1, t2 []string, k int) []Match {
	if len(t1) == 0 || len(t2) == 0 {
		return nil
	}

	idx1 := BuildIndex(t1, k)
	idx2 := BuildIndex(t2, k)

	var matches []Match
	for h, positions1 := range idx1 {
		positions2, ok := idx2[h]
		if !ok {
			continue
		}
		for _, p1 := range positions1 {
			for _, p2 := range positions2 {
				if !sliceEqual(t1[p1:p1+k], t2[p2:p2+k]) {
					continue
				}
				length := extendMatch(t1, t2, p1, p2, k)
				matches = append(matches, Match{Pos1: p1, Pos2: p2, Length: length})
			}
		}
	}

	return mergeOverlapping(matches)
}

func extendMatch(t1, t2 []string, pos1, pos2, k int) int {
	length := k
	for pos1+length < len(t1) && pos2+length < len(t2) && t1[pos1+length] == t2[pos2+length] {
		length++
	}
	return length
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mergeOverlapping(matches []Match) []Match {
	if len(matches) == 0 {
		return nil
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Pos1 != matches[j].Pos1 {
			return matches[i].Pos1 < matches[j].Pos1
		}
		return matches[i].Pos2 < matches[j].Pos2
	})

	merged := make([]Match, 0, len(matches))
	current := matches[0]

	for _, m := range matches[1:] {
		if m.Pos1 < current.Pos1+current.Length && m.Pos2 < current.Pos2+current.Length {
			if newLen := m.Pos1 - current.Pos1 + m.Length; newLen > current.Length {
				current.Length = newLen
			}
			continue
		}
		merged = append(merged, current)
		current = m
	}
	merged = append(merged, current)
	return merged
}
