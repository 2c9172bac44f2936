// Package tokenizer turns source files into normalised token streams
// suitable for similarity comparison. It strips comments and string
// literal bodies, tokenises what remains with a language-agnostic
// grammar, and replaces identifiers with positional placeholders so
// that renamed variables do not defeat comparison.
package tokenizer

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Language identifies the dialect-specific comment/string grammar used
// during tokenisation.
type Language string

const (
	Python     Language = "python"
	Java       Language = "java"
	Cpp        Language = "cpp"
	JavaScript Language = "javascript"
	Generic    Language = "generic"
)

// commonKeywords pass through normalisation unchanged, unlike other
// identifiers (which become VAR_<n>), because keeping them verbatim lets the
// similarity comparison see the shape of control flow independent of
// naming.
var commonKeywords = map[string]struct{}{
	"if": {}, "else": {}, "for": {}, "while": {}, "return": {}, "function": {},
	"class": {}, "def": {}, "int": {}, "float": {}, "string": {}, "bool": {},
	"true": {}, "false": {}, "null": {}, "None": {}, "public": {}, "private": {},
	"protected": {}, "static": {}, "void": {}, "import": {}, "from": {},
}

const tokenLiteral = "STRING_LITERAL"

type langPatterns struct {
	comment *regexp.Regexp
	str     *regexp.Regexp
	token   *regexp.Regexp
}

// tokenRe is identical across every supported dialect (spec'd grammar);
// compiled once and shared.
var tokenRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*|\d+|\S`)

// compiled holds the per-language comment/string regexes, compiled once
// at package init so repeated Tokenize calls never pay recompilation
// cost.
var compiled = map[Language]*langPatterns{
	Python: {
		comment: regexp.MustCompile(`(?ms)#.*?$|""".*?"""|'''.*?'''`),
		str:     regexp.MustCompile(`(?s)"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`),
		token:   tokenRe,
	},
	Java: {
		comment: regexp.MustCompile(`(?ms)//.*?$|/\*.*?\*/`),
		str:     regexp.MustCompile(`(?s)"(?:\\.|[^"\\])*"`),
		token:   tokenRe,
	},
	Cpp: {
		comment: regexp.MustCompile(`(?ms)//.*?$|/\*.*?\*/`),
		str:     regexp.MustCompile(`(?s)"(?:\\.|[^"\\])*"`),
		token:   tokenRe,
	},
	JavaScript: {
		comment: regexp.MustCompile(`(?ms)//.*?$|/\*.*?\*/`),
		str:     regexp.MustCompile("(?s)\"(?:\\\\.|[^\"\\\\])*\"|'(?:\\\\.|[^'\\\\])*'|`(?:\\\\.|[^`\\\\])*`"),
		token:   tokenRe,
	},
}

// DetectLanguage picks a Language from a file's extension. Unknown
// extensions fall back to Generic, which is tokenised using Python's
// comment/string grammar (matching the original tool's fallback).
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return Python
	case ".java":
		return Java
	case ".cpp", ".c", ".h", ".hpp":
		return Cpp
	case ".js", ".jsx", ".ts", ".tsx":
		return JavaScript
	default:
		return Generic
	}
}

// Tokenizer tokenises source content into normalised token streams.
type Tokenizer struct {
	blockInsensitivePython bool
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithBlockInsensitivePython enables Python block-order-insensitive
// tokenisation (the default). Disabling it is mostly useful for tests
// that want to assert on raw token order.
func WithBlockInsensitivePython(enabled bool) Option {
	return func(t *Tokenizer) {
		t.blockInsensitivePython = enabled
	}
}

// New creates a Tokenizer with Python block-insensitive mode enabled by
// default.
func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{blockInsensitivePython: true}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TokenizeFile reads path and tokenises its contents. Read failures are
// best-effort: they are returned to the caller but never panic, so a
// caller doing batch processing can skip the file and continue.
func (t *Tokenizer) TokenizeFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lang := DetectLanguage(path)
	if lang == Python && t.blockInsensitivePython {
		return t.TokenizeBlockInsensitive(string(content), lang), nil
	}
	return t.Tokenize(string(content), lang)
}

// Tokenize converts code into a normalised token stream: comments are
// stripped, string literal bodies are replaced with a single sentinel
// token, and identifiers are renamed to VAR_<n> in first-appearance
// order, scoped to this call.
func (t *Tokenizer) Tokenize(code string, lang Language) ([]string, error) {
	pat, ok := compiled[lang]
	if !ok {
		pat = compiled[Python]
	}

	code = pat.comment.ReplaceAllString(code, "")
	code = pat.str.ReplaceAllString(code, tokenLiteral)

	raw := pat.token.FindAllString(code, -1)

	normalized := make([]string, 0, len(raw))
	varMap := make(map[string]string)
	varCounter := 0

	for _, tok := range raw {
		if tok == "" || isSpace(tok) {
			continue
		}

		if _, isKeyword := commonKeywords[tok]; isKeyword || !startsWithLetter(tok) || tok == tokenLiteral {
			normalized = append(normalized, tok)
			continue
		}

		if startsWithLetterOrUnderscore(tok) {
			name, seen := varMap[tok]
			if !seen {
				name = varName(varCounter)
				varMap[tok] = name
				varCounter++
			}
			normalized = append(normalized, name)
			continue
		}

		normalized = append(normalized, tok)
	}

	return normalized, nil
}

// TokenizeBlockInsensitive tokenises code and then reorders top-level
// class/function blocks lexicographically by content. Identifiers are
// normalised before the blocks are sorted, so VAR_<n> numbering still
// follows each identifier's first appearance in the original file:
// moving blocks leaves the stream unchanged only when the move does not
// change that first-appearance order.
// The level counter is driven by '{' and '}' only. This preserves the quirk of the original tool it's adapted from: '{'
// and '}' are tracked as block delimiters too, even though Python source
// never contains them at the top level, so that branch is effectively
// unreachable for genuine Python input. It is kept as-is rather than
// removed, since removing it would be a behavioural change from the
// tool this package reimplements.
func (t *Tokenizer) TokenizeBlockInsensitive(code string, lang Language) []string {
	tokens, _ := t.Tokenize(code, lang)
	blocks := extractBlocks(tokens)

	sort.SliceStable(blocks, func(i, j int) bool {
		return strings.Join(blocks[i], "") < strings.Join(blocks[j], "")
	})

	flattened := make([]string, 0, len(tokens))
	for _, block := range blocks {
		flattened = append(flattened, block...)
	}
	return flattened
}

func extractBlocks(tokens []string) [][]string {
	var blocks [][]string
	var current []string
	level := 0

	for _, tok := range tokens {
		switch {
		case tok == "class" || tok == "def":
			if level == 0 {
				if len(current) > 0 {
					blocks = append(blocks, current)
				}
				current = []string{tok}
			} else {
				current = append(current, tok)
			}
		case tok == "{":
			current = append(current, tok)
			level++
		case tok == "}":
			current = append(current, tok)
			level--
			if level == 0 && len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
		default:
			current = append(current, tok)
		}
	}

	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

func varName(n int) string {
	return "VAR_" + strconv.Itoa(n)
}

func isSpace(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

func startsWithLetter(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func startsWithLetterOrUnderscore(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
