package ignore

import (
	"regexp"
	"strings"

	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// PatternSet is the ordered collection of ignore patterns active for one filtering pass
type PatternSet []string

// Mode selects the matching engine
type Mode string

const (
	// ModeSimplified is the four-rule matcher used by the upload page
	ModeSimplified Mode = "simplified"
	// ModeGitignore delegates to go-git's gitignore implementation
	ModeGitignore Mode = "gitignore"
)

// ParseMode converts a configuration value into a Mode, defaulting to ModeSimplified
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeGitignore:
		return ModeGitignore
	default:
		return ModeSimplified
	}
}

// Options controls how patterns are compiled
type Options struct {
	Mode Mode

	// EscapeMeta escapes every regular expression metacharacter in glob
	// patterns except '*' and '?'. When false only '.' is escaped.
	EscapeMeta bool
}

// Rule identifies which matching rule excluded a path
type Rule int

const (
	NoRule Rule = iota
	ExactNameRule
	DirectoryRule
	GlobRule
	SubstringRule
	GitignoreRule
)

// String returns a human-readable representation of the rule
func (r Rule) String() string {
	switch r {
	case ExactNameRule:
		return "exact-name"
	case DirectoryRule:
		return "directory"
	case GlobRule:
		return "glob"
	case SubstringRule:
		return "substring"
	case GitignoreRule:
		return "gitignore"
	default:
		return "none"
	}
}

// Match describes why a path was ignored
type Match struct {
	Pattern string
	Rule    Rule
}

// compiledPattern holds the per-pattern state derived once per pass
type compiledPattern struct {
	text  string
	isDir bool           // pattern ends in '/'
	dir   string         // pattern without its trailing slash
	glob  *regexp.Regexp // nil if not a glob or the expression failed to compile
}

// Matcher classifies relative paths against a compiled PatternSet.
// A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	mode     Mode
	patterns []compiledPattern
	git      []gitignore.Pattern
}

// Compile prepares patterns for repeated matching
func Compile(patterns PatternSet, opts Options) *Matcher {
	m := &Matcher{mode: opts.Mode}
	if m.mode == "" {
		m.mode = ModeSimplified
	}

	if m.mode == ModeGitignore {
		m.git = make([]gitignore.Pattern, 0, len(patterns))
		for _, p := range patterns {
			m.git = append(m.git, gitignore.ParsePattern(p, nil))
		}
		m.patterns = make([]compiledPattern, 0, len(patterns))
		for _, p := range patterns {
			m.patterns = append(m.patterns, compiledPattern{text: p})
		}
		return m
	}

	m.patterns = make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		cp := compiledPattern{text: p}
		if strings.HasSuffix(p, "/") {
			cp.isDir = true
			cp.dir = strings.TrimSuffix(p, "/")
		}
		if strings.ContainsAny(p, "*?") {
			// A pattern that does not compile never matches through the glob rule.
			re, err := regexp.Compile(globExpression(p, opts.EscapeMeta))
			if err == nil {
				cp.glob = re
			}
		}
		m.patterns = append(m.patterns, cp)
	}
	return m
}

// IsIgnored is the one-shot form of Compile(patterns).IsIgnored(path) using the simplified rules
func IsIgnored(path string, patterns PatternSet) bool {
	if len(patterns) == 0 {
		return false
	}
	return Compile(patterns, Options{}).IsIgnored(path)
}

// Len returns the number of patterns in the matcher
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

// Mode returns the engine the matcher was compiled with
func (m *Matcher) Mode() Mode {
	if m == nil {
		return ModeSimplified
	}
	return m.mode
}

// IsIgnored reports whether path is excluded by any pattern
func (m *Matcher) IsIgnored(path string) bool {
	_, ok := m.Explain(path)
	return ok
}

// Explain returns the first pattern and rule that exclude path
func (m *Matcher) Explain(path string) (Match, bool) {
	if m == nil || len(m.patterns) == 0 {
		return Match{}, false
	}

	segments := strings.Split(path, "/")
	if m.mode == ModeGitignore {
		return m.explainGit(segments)
	}

	fileName := segments[len(segments)-1]
	dirSegments := segments[:len(segments)-1]

	for _, p := range m.patterns {
		if p.text == fileName {
			return Match{Pattern: p.text, Rule: ExactNameRule}, true
		}

		if p.isDir {
			for _, dir := range dirSegments {
				if dir == p.dir {
					return Match{Pattern: p.text, Rule: DirectoryRule}, true
				}
			}
		}

		if p.glob != nil {
			if p.glob.MatchString(fileName) {
				return Match{Pattern: p.text, Rule: GlobRule}, true
			}
			for _, dir := range dirSegments {
				if p.glob.MatchString(dir) {
					return Match{Pattern: p.text, Rule: GlobRule}, true
				}
			}
		}

		if strings.Contains(path, p.text) || strings.HasPrefix(path, p.text) {
			return Match{Pattern: p.text, Rule: SubstringRule}, true
		}
	}

	return Match{}, false
}

// explainGit applies gitignore precedence: the last matching pattern decides
func (m *Matcher) explainGit(segments []string) (Match, bool) {
	for i := len(m.git) - 1; i >= 0; i-- {
		switch m.git[i].Match(segments, false) {
		case gitignore.Exclude:
			return Match{Pattern: m.patterns[i].text, Rule: GitignoreRule}, true
		case gitignore.Include:
			return Match{}, false
		}
	}
	return Match{}, false
}

// globExpression builds an anchored expression from a '*'/'?' pattern
func globExpression(pattern string, escapeMeta bool) string {
	if !escapeMeta {
		expr := strings.ReplaceAll(pattern, ".", `\.`)
		expr = strings.ReplaceAll(expr, "*", ".*")
		expr = strings.ReplaceAll(expr, "?", ".")
		return "^" + expr + "$"
	}

	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return b.String()
}
